package reporter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"xsscan/internal/models"
)

func sampleFinding(param string) models.Finding {
	return models.Finding{
		Param:      param,
		Context:    "HTML Text Node",
		Payload:    "<script>alert(1)</script>",
		ExploitURL: "http://target.local/?" + param + "=x",
		Method:     "GET",
		Timestamp:  time.Now(),
	}
}

func TestCollectorIsSafeForConcurrentUse(t *testing.T) {
	c := NewCollector("http://target.local")
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.AddFinding(sampleFinding("q"))
		}()
	}
	wg.Wait()
	if got := len(c.Findings()); got != 20 {
		t.Errorf("collected %d findings, want 20", got)
	}
}

func TestBuildSummarizesScan(t *testing.T) {
	c := NewCollector("http://target.local")
	c.AddFinding(sampleFinding("q"))
	c.AddFinding(sampleFinding("page"))

	report := c.Build("GET", 5)
	if report.Summary.FindingsCount != 2 {
		t.Errorf("FindingsCount = %d, want 2", report.Summary.FindingsCount)
	}
	if report.Summary.ParamsTested != 5 {
		t.Errorf("ParamsTested = %d, want 5", report.Summary.ParamsTested)
	}
	if report.Summary.TargetURL != "http://target.local" {
		t.Errorf("TargetURL = %q", report.Summary.TargetURL)
	}
}

func TestJSONExporterWritesValidReport(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.json")

	exp, err := NewJSONExporter(path)
	if err != nil {
		t.Fatalf("NewJSONExporter: %v", err)
	}
	c := NewCollector("http://target.local")
	c.AddFinding(sampleFinding("q"))
	if err := exp.Export(c.Build("GET", 1)); err != nil {
		t.Fatalf("Export: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	var parsed Report
	if err := json.Unmarshal(raw, &parsed); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	if len(parsed.Findings) != 1 || parsed.Findings[0].Param != "q" {
		t.Errorf("unexpected findings: %+v", parsed.Findings)
	}
}

func TestHTMLExporterRendersFindings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.html")

	exp, err := NewHTMLExporter(path)
	if err != nil {
		t.Fatalf("NewHTMLExporter: %v", err)
	}
	c := NewCollector("http://target.local")
	c.AddFinding(sampleFinding("q"))
	if err := exp.Export(c.Build("GET", 1)); err != nil {
		t.Fatalf("Export: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	html := string(raw)
	if !strings.Contains(html, "HTML Text Node") {
		t.Error("rendered report missing the finding context")
	}
	// The payload must be entity-escaped, not live markup.
	if strings.Contains(html, "<script>alert(1)</script>") {
		t.Error("payload rendered unescaped into the report")
	}
}

func TestFilenameFormat(t *testing.T) {
	now := time.Date(2026, 8, 23, 14, 30, 5, 0, time.UTC)
	got := Filename("reports", "https://demo.target.local:8443/search", "html", now)
	want := filepath.Join("reports", "xss-report_2026-08-23_14-30-05_demo.target.local_8443.html")
	if got != want {
		t.Errorf("Filename = %q, want %q", got, want)
	}
}
