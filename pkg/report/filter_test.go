package report

import (
	"testing"
	"time"

	"github.com/testpilot-ai/testpilot/pkg/schema"
)

func sampleReports() []schema.Report {
	return []schema.Report{
		{
			ID: "report-ui-1", Type: schema.ReportUI,
			GeneratedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
			TargetURL:   "https://shop.example.com",
			UI:          &schema.UIReportBody{Summary: schema.UISummary{TotalTests: 3, Passed: 1, Failed: 2}},
		},
		{
			ID: "report-ui-2", Type: schema.ReportUI,
			GeneratedAt: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
			TargetURL:   "https://blog.example.com",
			UI:          &schema.UIReportBody{Summary: schema.UISummary{TotalTests: 2, Passed: 2}},
		},
		{
			ID: "report-api-1", Type: schema.ReportAPI,
			API: &schema.APIReportBody{
				Method: "POST",
				APIConceptualResult: schema.APIConceptualResult{
					SimulatedStatusCode: 401,
					OverallStatus:       schema.OverallFailed,
				},
			},
		},
		{
			ID: "report-a11y-1", Type: schema.ReportAccessibility,
			Accessibility: &schema.AccessibilityReportBody{
				AccessibilityResult: schema.AccessibilityResult{
					Summary: schema.AccessibilitySummary{TotalIssues: 4, Critical: 2, Minor: 2},
				},
			},
		},
	}
}

func TestFilter_ByTypeAndSummary(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			"failed UI runs",
			`type == "UI_TEST" && summary.failed > 0`,
			[]string{"report-ui-1"},
		},
		{
			"all UI",
			`type == "UI_TEST"`,
			[]string{"report-ui-1", "report-ui-2"},
		},
		{
			"failing API posts",
			`summary.method == "POST" && summary.statusCode >= 400`,
			[]string{"report-api-1"},
		},
		{
			"critical accessibility",
			`type == "ACCESSIBILITY_CONCEPTUAL" && summary.critical > 0`,
			[]string{"report-a11y-1"},
		},
		{
			"no matches",
			`type == "LOAD_TEST_CONCEPTUAL"`,
			nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Filter(sampleReports(), tt.src)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("matched %d reports, want %d", len(got), len(tt.want))
			}
			for i, want := range tt.want {
				if got[i].ID != want {
					t.Errorf("got[%d] = %q, want %q", i, got[i].ID, want)
				}
			}
		})
	}
}

func TestFilter_BadExpression(t *testing.T) {
	if _, err := Filter(sampleReports(), `type ==`); err == nil {
		t.Error("expected compile error")
	}
	if _, err := Filter(sampleReports(), `targetUrl`); err == nil {
		t.Error("expected error for non-boolean expression")
	}
}
