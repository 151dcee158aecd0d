package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/testpilot-ai/testpilot/pkg/schema"
)

func TestAccessibilityCSV_HeaderAndQuoting(t *testing.T) {
	issues := []schema.AccessibilityIssue{
		{
			ID:             "A11Y-1",
			Severity:       schema.SeverityCritical,
			WCAGCriteria:   "1.1.1",
			Description:    `Image has no "alt" attribute`,
			ElementSnippet: `<img src="hero.png">`,
			Suggestion:     "Add alt text, e.g. \"Company logo\"",
		},
	}

	data, err := AccessibilityCSV(issues)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := string(data)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 record, got %d lines", len(lines))
	}
	if lines[0] != "id,severity,wcagCriteria,description,elementSnippet,suggestion" {
		t.Errorf("header = %q", lines[0])
	}
	// Embedded quotes are doubled per standard CSV quoting.
	if !strings.Contains(out, `""alt""`) {
		t.Errorf("quotes not doubled: %q", lines[1])
	}
}

func TestAccessibilityCSV_EmptyList(t *testing.T) {
	data, err := AccessibilityCSV(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Errorf("empty export should be header only, got %d lines", len(lines))
	}
}

func TestValidateJMX(t *testing.T) {
	tests := []struct {
		name    string
		plan    string
		wantErr bool
	}{
		{"valid", `<?xml version="1.0"?><jmeterTestPlan version="1.2"></jmeterTestPlan>`, false},
		{"leading whitespace", "\n  <?xml version=\"1.0\"?><jmeterTestPlan/>", false},
		{"no xml declaration", `<jmeterTestPlan/>`, true},
		{"no root element", `<?xml version="1.0"?><testPlan/>`, true},
		{"empty", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJMX(tt.plan)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateJMX() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestWriteJMX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.jmx")
	plan := `<?xml version="1.0"?><jmeterTestPlan></jmeterTestPlan>`

	if err := WriteJMX(path, plan); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != plan {
		t.Errorf("written plan differs")
	}

	if err := WriteJMX(filepath.Join(t.TempDir(), "bad.jmx"), "not a plan"); err == nil {
		t.Error("invalid plan must not be written")
	}
}

func uiReport() schema.Report {
	return schema.Report{
		ID:          "report-ui-test",
		Type:        schema.ReportUI,
		GeneratedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		TargetURL:   "https://example.com",
		UI: &schema.UIReportBody{
			Summary: schema.UISummary{TotalTests: 2, Passed: 1, Failed: 1},
			TestRuns: []schema.TestRun{
				{
					TestCase:  schema.TestCase{ID: "tc-1", Name: "Login <works>"},
					RunStatus: schema.RunCompleted,
					SimulatedResult: &schema.SimulatedTestResult{
						Status: schema.ResultPassed, ActualResult: "ok",
					},
				},
				{
					TestCase:     schema.TestCase{ID: "tc-2", Name: "Checkout"},
					RunStatus:    schema.RunCompleted,
					ErrorDetails: "transport: timeout",
				},
			},
		},
	}
}

func TestReportHTML_UIVariant(t *testing.T) {
	data, err := ReportHTML(uiReport())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := string(data)

	for _, want := range []string{
		"report-ui-test",
		"UI_TEST",
		"https://example.com",
		"transport: timeout",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("HTML missing %q", want)
		}
	}
	// html/template escapes markup in user data.
	if strings.Contains(out, "Login <works>") {
		t.Error("case name not escaped")
	}
	if !strings.Contains(out, "Login &lt;works&gt;") {
		t.Error("escaped case name missing")
	}
}

func TestReportHTML_AccessibilityVariant(t *testing.T) {
	rep := schema.Report{
		ID:          "report-a11y-test",
		Type:        schema.ReportAccessibility,
		GeneratedAt: time.Now().UTC(),
		TargetURL:   "https://example.com",
		Accessibility: &schema.AccessibilityReportBody{
			AccessibilityResult: schema.AccessibilityResult{
				Summary: schema.AccessibilitySummary{TotalIssues: 1, Serious: 1},
				Issues: []schema.AccessibilityIssue{
					{ID: "A11Y-1", Severity: schema.SeveritySerious, WCAGCriteria: "1.4.3"},
				},
			},
		},
	}

	data, err := ReportHTML(rep)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(data), "1.4.3") {
		t.Error("issue table missing")
	}
}

func TestReportXLSX_WritesWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	if err := ReportXLSX(uiReport(), path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("workbook not written: %v", err)
	}
	if info.Size() == 0 {
		t.Error("workbook is empty")
	}
}

func TestReportXLSX_NoVariant(t *testing.T) {
	rep := schema.Report{ID: "report-empty", Type: schema.ReportUI}
	if err := ReportXLSX(rep, filepath.Join(t.TempDir(), "x.xlsx")); err == nil {
		t.Error("expected error for report without a variant body")
	}
}
