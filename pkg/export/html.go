package export

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/testpilot-ai/testpilot/pkg/schema"
)

// reportTemplate renders any report variant as a standalone HTML snapshot.
// All styling is inlined so the file opens cleanly with no assets.
var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>TestPilot Report {{.ID}}</title>
<style>
body { font-family: sans-serif; margin: 2rem; color: #1e293b; }
h1 { font-size: 1.4rem; } h2 { font-size: 1.1rem; margin-top: 1.5rem; }
table { border-collapse: collapse; width: 100%; margin-top: .5rem; }
th, td { border: 1px solid #cbd5e1; padding: .4rem .6rem; text-align: left; vertical-align: top; }
th { background: #f1f5f9; }
.passed { color: #15803d; } .failed { color: #b91c1c; }
.meta { color: #475569; font-size: .9rem; }
pre { background: #f8fafc; border: 1px solid #e2e8f0; padding: .6rem; overflow-x: auto; }
</style>
</head>
<body>
<h1>TestPilot Report — {{.Type}}</h1>
<p class="meta">
Report {{.ID}}<br>
Generated {{.GeneratedAt.Format "2006-01-02 15:04:05 MST"}}<br>
Target: {{.TargetURL}}<br>
{{if .TargetDescription}}Description: {{.TargetDescription}}{{end}}
</p>
{{if .UI}}
<h2>Summary</h2>
<table>
<tr><th>Total</th><th>Passed</th><th>Failed</th><th>Pending</th></tr>
<tr><td>{{.UI.Summary.TotalTests}}</td><td class="passed">{{.UI.Summary.Passed}}</td><td class="failed">{{.UI.Summary.Failed}}</td><td>{{.UI.Summary.Pending}}</td></tr>
</table>
<h2>Test Runs</h2>
<table>
<tr><th>ID</th><th>Name</th><th>Status</th><th>Outcome</th><th>Details</th></tr>
{{range .UI.TestRuns}}
<tr>
<td>{{.ID}}</td>
<td>{{.Name}}</td>
<td>{{.RunStatus}}</td>
<td>{{if .SimulatedResult}}<span class="{{.SimulatedResult.Status}}">{{.SimulatedResult.Status}}</span>{{else}}error{{end}}</td>
<td>{{if .SimulatedResult}}{{.SimulatedResult.ActualResult}}{{if .SimulatedResult.HealingSuggestion}}<br><em>Suggestion: {{.SimulatedResult.HealingSuggestion}}</em>{{end}}{{else}}{{.ErrorDetails}}{{end}}</td>
</tr>
{{end}}
</table>
{{end}}
{{if .API}}
<h2>Conceptual API Test — {{.API.Method}}</h2>
<p>Overall status: <span class="{{if eq .API.OverallStatus "passed"}}passed{{else}}failed{{end}}">{{.API.OverallStatus}}</span>,
simulated status code {{.API.SimulatedStatusCode}}</p>
{{if .API.RequestHeadersPreview}}<h2>Request Headers Preview</h2><pre>{{.API.RequestHeadersPreview}}</pre>{{end}}
{{if .API.RequestBodyPreview}}<h2>Request Body Preview</h2><pre>{{.API.RequestBodyPreview}}</pre>{{end}}
<h2>Conceptual Steps</h2>
<table>
<tr><th>Step</th><th>Status</th><th>Details</th></tr>
{{range .API.ConceptualTestSteps}}
<tr><td>{{.Step}}</td><td class="{{.Status}}">{{.Status}}</td><td>{{.Details}}</td></tr>
{{end}}
</table>
<h2>Conceptual Script</h2>
<pre>{{.API.ConceptualScript}}</pre>
<h2>Simulated Response Preview</h2>
<pre>{{.API.SimulatedResponsePreview}}</pre>
{{end}}
{{if .Load}}
<h2>Conceptual Load Test Plan</h2>
{{if .Load.InputFileName}}<p class="meta">Capture file: {{.Load.InputFileName}} (name only — contents never read)</p>{{end}}
<p>{{.Load.SummaryMessage}}</p>
<h2>JMX Test Plan</h2>
<pre>{{.Load.JMXTestPlan}}</pre>
{{end}}
{{if .Accessibility}}
<h2>Summary</h2>
<table>
<tr><th>Total</th><th>Critical</th><th>Serious</th><th>Moderate</th><th>Minor</th></tr>
<tr><td>{{.Accessibility.Summary.TotalIssues}}</td><td>{{.Accessibility.Summary.Critical}}</td><td>{{.Accessibility.Summary.Serious}}</td><td>{{.Accessibility.Summary.Moderate}}</td><td>{{.Accessibility.Summary.Minor}}</td></tr>
</table>
<h2>Issues</h2>
<table>
<tr><th>ID</th><th>Severity</th><th>WCAG</th><th>Description</th><th>Element</th><th>Suggestion</th></tr>
{{range .Accessibility.Issues}}
<tr><td>{{.ID}}</td><td>{{.Severity}}</td><td>{{.WCAGCriteria}}</td><td>{{.Description}}</td><td>{{.ElementSnippet}}</td><td>{{.Suggestion}}</td></tr>
{{end}}
</table>
{{end}}
</body>
</html>
`))

// ReportHTML renders a standalone HTML snapshot of any report variant.
func ReportHTML(r schema.Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, r); err != nil {
		return nil, fmt.Errorf("render report %s: %w", r.ID, err)
	}
	return buf.Bytes(), nil
}
