package report

import (
	"html/template"
	"io"
	"strings"

	"github.com/vulndetective/vulndetective/pkg/errors"
)

// WriteHTML renders the report as a standalone HTML page with summary
// statistics and one card per finding.
func (r *Report) WriteHTML(w io.Writer) error {
	if err := htmlTemplate.Execute(w, r); err != nil {
		return errors.Wrap(err, "report.WriteHTML")
	}
	return nil
}

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"lower":   strings.ToLower,
	"confPct": func(c float64) float64 { return c * 100 },
}).Parse(reportHTML))

const reportHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>VulnDetective Report - {{.Target.Filename}}</title>
<style>
* { margin: 0; padding: 0; box-sizing: border-box; }
body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; line-height: 1.6; color: #333; background: #667eea; padding: 20px; }
.container { max-width: 1200px; margin: 0 auto; background: #fff; border-radius: 12px; overflow: hidden; }
.header { background: #667eea; color: #fff; padding: 36px; text-align: center; }
.header h1 { font-size: 2.4em; margin-bottom: 8px; }
.header .meta { opacity: 0.85; font-size: 0.95em; }
.stats { display: grid; grid-template-columns: repeat(auto-fit, minmax(160px, 1fr)); gap: 16px; padding: 24px; background: #f8f9fa; }
.stat-card { background: #fff; padding: 20px; border-radius: 10px; text-align: center; box-shadow: 0 2px 6px rgba(0,0,0,0.08); }
.stat-card .number { font-size: 2.4em; font-weight: bold; color: #667eea; }
.stat-card .label { color: #666; font-size: 0.85em; text-transform: uppercase; letter-spacing: 1px; }
.section { padding: 24px; border-top: 1px solid #eee; }
.vulnerability { border-left: 5px solid #667eea; padding: 18px; margin-bottom: 16px; background: #f9f9f9; border-radius: 8px; }
.vulnerability.critical { border-left-color: #c0392b; }
.vulnerability.high { border-left-color: #e74c3c; }
.vulnerability.medium { border-left-color: #f39c12; }
.vulnerability.low { border-left-color: #3498db; }
.vulnerability h3 { margin-bottom: 8px; }
.badge { display: inline-block; padding: 3px 10px; border-radius: 12px; color: #fff; font-size: 0.8em; margin-right: 6px; background: #667eea; }
.badge.critical { background: #c0392b; }
.badge.high { background: #e74c3c; }
.badge.medium { background: #f39c12; }
.badge.low { background: #3498db; }
.badge.none { background: #95a5a6; }
.vector { font-family: monospace; background: #2c3e50; color: #ecf0f1; padding: 4px 8px; border-radius: 4px; font-size: 0.85em; }
pre { background: #2c3e50; color: #ecf0f1; padding: 12px; border-radius: 6px; overflow-x: auto; margin-top: 8px; font-size: 0.85em; }
</style>
</head>
<body>
<div class="container">
  <div class="header">
    <h1>VulnDetective Report</h1>
    <div class="meta">{{.Target.Filename}} ({{.Target.Language}}) &middot; {{.GeneratedAt.Format "2006-01-02 15:04:05 UTC"}} &middot; {{.ID}}</div>
  </div>
  <div class="stats">
    <div class="stat-card"><div class="number">{{.Stats.Severity.Total}}</div><div class="label">Findings</div></div>
    <div class="stat-card"><div class="number">{{.Stats.Severity.Critical}}</div><div class="label">Critical</div></div>
    <div class="stat-card"><div class="number">{{.Stats.Severity.High}}</div><div class="label">High</div></div>
    <div class="stat-card"><div class="number">{{.Stats.Severity.Medium}}</div><div class="label">Medium</div></div>
    <div class="stat-card"><div class="number">{{.Stats.Severity.Low}}</div><div class="label">Low</div></div>
    <div class="stat-card"><div class="number">{{printf "%.1f" .Stats.MaxRiskScore}}</div><div class="label">Max Risk</div></div>
  </div>
  <div class="section">
    <h2>Findings</h2>
    {{range .Findings}}
    <div class="vulnerability {{lower .CVSS.Severity.String}}">
      <h3>{{.VulnType}}{{if .LineNumber}} &mdash; line {{.LineNumber}}{{end}}</h3>
      <p>
        <span class="badge {{lower .CVSS.Severity.String}}">{{.CVSS.Severity}}</span>
        <span class="badge">CVSS {{printf "%.1f" .CVSS.BaseScore}}</span>
        <span class="badge">Risk {{printf "%.1f" .RiskScore}}</span>
        <span class="badge">Confidence {{printf "%.0f%%" (confPct .Confidence)}}</span>
      </p>
      <p><span class="vector">{{.CVSS.VectorString}}</span></p>
      {{if .Description}}<p>{{.Description}}</p>{{end}}
      {{if .Exploitability}}<p><strong>Exploitability:</strong> {{.Exploitability}}</p>{{end}}
      {{if .Recommendation}}<p><strong>Recommendation:</strong> {{.Recommendation}}</p>{{end}}
      {{if .CodeSnippet}}<pre>{{.CodeSnippet}}</pre>{{end}}
    </div>
    {{else}}
    <p>No vulnerabilities found.</p>
    {{end}}
  </div>
</div>
</body>
</html>
`
