package reporter

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// HTMLExporter renders the report as a standalone HTML document.
type HTMLExporter struct {
	OutputPath string
}

// NewHTMLExporter creates a new exporter that will write to the specified path.
func NewHTMLExporter(outputPath string) (*HTMLExporter, error) {
	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &HTMLExporter{OutputPath: outputPath}, nil
}

// Export generates and saves the HTML report.
func (e *HTMLExporter) Export(report Report) error {
	file, err := os.Create(e.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to create HTML report file: %w", err)
	}
	defer file.Close()

	if err := htmlTemplate.Execute(file, report); err != nil {
		return fmt.Errorf("failed to render HTML report: %w", err)
	}

	log.Info().Str("path", e.OutputPath).Msg("HTML report saved")
	return nil
}

var htmlTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>XSS Scan Report - {{.Summary.TargetURL}}</title>
<style>
  body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; margin: 0; background: #11151c; color: #e6e6e6; }
  .wrap { max-width: 1000px; margin: 0 auto; padding: 2rem; }
  h1 { color: #ff5370; }
  .summary { background: #1a2029; border-radius: 8px; padding: 1rem 1.5rem; margin-bottom: 2rem; }
  .summary dt { color: #8892a0; float: left; clear: left; width: 12rem; }
  .summary dd { margin: 0 0 .4rem 12rem; }
  table { width: 100%; border-collapse: collapse; background: #1a2029; border-radius: 8px; }
  th, td { text-align: left; padding: .6rem .8rem; border-bottom: 1px solid #2a3340; vertical-align: top; }
  th { color: #8892a0; text-transform: uppercase; font-size: .75rem; }
  code { background: #232b36; padding: .15rem .35rem; border-radius: 4px; color: #ffcb6b; word-break: break-all; }
  a { color: #82aaff; word-break: break-all; }
  .none { color: #5bd75b; font-size: 1.1rem; }
</style>
</head>
<body>
<div class="wrap">
  <h1>XSS Scan Report</h1>
  <div class="summary">
    <dl>
      <dt>Target</dt><dd>{{.Summary.TargetURL}}</dd>
      <dt>Method</dt><dd>{{.Summary.Method}}</dd>
      <dt>Started</dt><dd>{{.Summary.ScanStartTime.Format "2006-01-02 15:04:05"}}</dd>
      <dt>Duration</dt><dd>{{.Summary.TotalDuration}}</dd>
      <dt>Parameters tested</dt><dd>{{.Summary.ParamsTested}}</dd>
      <dt>Findings</dt><dd>{{.Summary.FindingsCount}}</dd>
    </dl>
  </div>
  {{if .Findings}}
  <table>
    <tr><th>Parameter</th><th>Context</th><th>Payload</th><th>Exploit URL</th><th>Detected</th></tr>
    {{range .Findings}}
    <tr>
      <td>{{.Param}}</td>
      <td>{{.Context}}</td>
      <td><code>{{.Payload}}</code></td>
      <td><a href="{{.ExploitURL}}">{{.ExploitURL}}</a></td>
      <td>{{.Timestamp.Format "15:04:05"}}</td>
    </tr>
    {{end}}
  </table>
  {{else}}
  <p class="none">No reflected XSS vulnerabilities detected.</p>
  {{end}}
</div>
</body>
</html>
`))
