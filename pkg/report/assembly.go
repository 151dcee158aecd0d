// Package report assembles operation outputs and user-entered metadata into
// immutable report records, and provides listing helpers over stored
// reports. Assembly is pure folding: identical inputs yield identical
// summaries, with only the identifier and timestamp fresh per call.
package report

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/testpilot-ai/testpilot/pkg/schema"
)

// NewReportID creates a globally unique report identifier. Identifiers are
// generation-time-derived and never reused after deletion.
func NewReportID(kind string) string {
	ts := time.Now().UTC().Format("20060102T150405")
	return fmt.Sprintf("report-%s-%s-%s", kind, ts, uuid.NewString()[:8])
}

// NewUIReport folds a completed batch of test runs into a UI report. A run
// counts as failed when its simulated result failed or when the simulation
// call itself errored; pending is zero by construction since every run is
// completed before assembly.
func NewUIReport(targetURL, targetDescription string, runs []schema.TestRun) schema.Report {
	passed, failed := 0, 0
	for _, run := range runs {
		switch {
		case run.SimulatedResult != nil && run.SimulatedResult.Status == schema.ResultPassed:
			passed++
		case run.SimulatedResult != nil && run.SimulatedResult.Status == schema.ResultFailed:
			failed++
		case run.ErrorDetails != "":
			failed++
		}
	}

	return schema.Report{
		ID:                NewReportID("ui"),
		Type:              schema.ReportUI,
		GeneratedAt:       time.Now().UTC(),
		TargetURL:         targetURL,
		TargetDescription: targetDescription,
		UI: &schema.UIReportBody{
			Summary: schema.UISummary{
				TotalTests: len(runs),
				Passed:     passed,
				Failed:     failed,
				Pending:    0,
			},
			TestRuns: runs,
		},
	}
}

// NewAPIReport attaches user metadata to a normalized API conceptual result.
func NewAPIReport(targetURL, targetDescription, method, headersPreview, bodyPreview string, result schema.APIConceptualResult) schema.Report {
	return schema.Report{
		ID:                NewReportID("api"),
		Type:              schema.ReportAPI,
		GeneratedAt:       time.Now().UTC(),
		TargetURL:         targetURL,
		TargetDescription: targetDescription,
		API: &schema.APIReportBody{
			Method:                method,
			RequestHeadersPreview: headersPreview,
			RequestBodyPreview:    bodyPreview,
			APIConceptualResult:   result,
		},
	}
}

// NewLoadTestReport attaches user metadata to a normalized load-plan result.
// Only the capture file's name is recorded, never its bytes.
func NewLoadTestReport(targetURL, targetDescription, captureFileName string, result schema.LoadPlanResult) schema.Report {
	return schema.Report{
		ID:                NewReportID("load"),
		Type:              schema.ReportLoad,
		GeneratedAt:       time.Now().UTC(),
		TargetURL:         targetURL,
		TargetDescription: targetDescription,
		Load: &schema.LoadReportBody{
			InputFileName:  captureFileName,
			LoadPlanResult: result,
		},
	}
}

// NewAccessibilityReport attaches user metadata to a normalized
// accessibility result. The summary arrives already reconciled with the
// issue list.
func NewAccessibilityReport(targetURL, targetDescription string, result schema.AccessibilityResult) schema.Report {
	return schema.Report{
		ID:                NewReportID("a11y"),
		Type:              schema.ReportAccessibility,
		GeneratedAt:       time.Now().UTC(),
		TargetURL:         targetURL,
		TargetDescription: targetDescription,
		Accessibility: &schema.AccessibilityReportBody{
			AccessibilityResult: result,
		},
	}
}
