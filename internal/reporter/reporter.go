// Package reporter collects findings during a scan and renders them to
// disk afterwards.
package reporter

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"xsscan/internal/models"
)

// ScanSummary provides a high-level overview of the scan results.
type ScanSummary struct {
	TargetURL     string    `json:"target_url"`
	Method        string    `json:"method"`
	ScanStartTime time.Time `json:"scan_start_time"`
	ScanEndTime   time.Time `json:"scan_end_time"`
	TotalDuration string    `json:"total_duration"`
	ParamsTested  int       `json:"params_tested"`
	FindingsCount int       `json:"findings_count"`
}

// Report is the top-level structure for the final report.
type Report struct {
	Summary  ScanSummary      `json:"summary"`
	Findings []models.Finding `json:"findings"`
}

// Collector receives findings synchronously from the scan engine. It is
// safe for concurrent use.
type Collector struct {
	targetURL string
	start     time.Time

	mu       sync.Mutex
	findings []models.Finding
}

// NewCollector creates a collector for the given target.
func NewCollector(targetURL string) *Collector {
	return &Collector{
		targetURL: targetURL,
		start:     time.Now(),
	}
}

// AddFinding records one confirmed finding. The call returns immediately;
// report writing happens later in Save.
func (c *Collector) AddFinding(f models.Finding) {
	c.mu.Lock()
	c.findings = append(c.findings, f)
	c.mu.Unlock()
}

// Findings returns a copy of everything recorded so far.
func (c *Collector) Findings() []models.Finding {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Finding, len(c.findings))
	copy(out, c.findings)
	return out
}

// Build assembles the final report structure.
func (c *Collector) Build(method string, paramsTested int) Report {
	end := time.Now()
	findings := c.Findings()
	return Report{
		Summary: ScanSummary{
			TargetURL:     c.targetURL,
			Method:        method,
			ScanStartTime: c.start,
			ScanEndTime:   end,
			TotalDuration: end.Sub(c.start).Round(time.Millisecond).String(),
			ParamsTested:  paramsTested,
			FindingsCount: len(findings),
		},
		Findings: findings,
	}
}

// JSONExporter handles the creation of the JSON report file.
type JSONExporter struct {
	OutputPath string
}

// NewJSONExporter creates a new exporter that will write to the specified path.
func NewJSONExporter(outputPath string) (*JSONExporter, error) {
	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &JSONExporter{OutputPath: outputPath}, nil
}

// Export generates and saves the JSON report.
func (e *JSONExporter) Export(report Report) error {
	file, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report to JSON: %w", err)
	}

	if err := os.WriteFile(e.OutputPath, file, 0644); err != nil {
		return fmt.Errorf("failed to write JSON report to file: %w", err)
	}

	log.Info().Str("path", e.OutputPath).Msg("JSON report saved")
	return nil
}

var filenameSanitizer = regexp.MustCompile(`[^\w\-.]`)

// Filename builds a report filename of the form
// xss-report_2006-01-02_15-04-05_host.ext under dir.
func Filename(dir, targetURL, ext string, now time.Time) string {
	host := targetURL
	if u, err := url.Parse(targetURL); err == nil && u.Host != "" {
		host = u.Host
	}
	host = filenameSanitizer.ReplaceAllString(host, "_")
	name := fmt.Sprintf("xss-report_%s_%s.%s", now.Format("2006-01-02_15-04-05"), host, ext)
	return filepath.Join(dir, name)
}
