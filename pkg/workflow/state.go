// Package workflow owns the view-state machine for the UI Test Studio
// journey: input → generation → review/edit → sequential simulated execution
// → report. Transitions are pure functions over an immutable Session so every
// step is testable without a terminal or a network.
package workflow

import "github.com/testpilot-ai/testpilot/pkg/schema"

// View is the observable state of the studio journey.
type View string

const (
	ViewDashboard       View = "dashboard"
	ViewInputForm       View = "input_form"
	ViewGeneratingCases View = "generating_cases"
	ViewCasesReview     View = "cases_review"
	ViewRunningTests    View = "running_tests"
	ViewReport          View = "report_view"
)

// Session is the single workflow state object. It is mutated exclusively by
// Apply; handlers receive a copy and return the successor state.
type Session struct {
	View              View
	TargetURL         string
	TargetDescription string
	Cases             []schema.TestCase
	Runs              []schema.TestRun
	Report            *schema.Report
	Err               string
}

// NewSession returns the initial dashboard state.
func NewSession() Session {
	return Session{View: ViewDashboard}
}

// Event is a workflow transition trigger.
type Event interface{ isEvent() }

// StartProject begins a fresh UI-test project from the dashboard.
type StartProject struct{}

// Submit carries the input form's target URL and description.
type Submit struct {
	URL         string
	Description string
}

// CasesGenerated delivers a non-empty generation batch into review.
type CasesGenerated struct {
	Cases []schema.TestCase
}

// GenerationFailed returns the workflow to the input form with the error
// surfaced. Partial generation output is discarded.
type GenerationFailed struct {
	Err string
}

// CaseEdited replaces one case during review.
type CaseEdited struct {
	Index int
	Case  schema.TestCase
}

// CaseRemoved deletes one case during review.
type CaseRemoved struct {
	Index int
}

// CaseAdded appends a manually-written case during review.
type CaseAdded struct {
	Case schema.TestCase
}

// Finalized freezes the reviewed case list and enters the run phase. Every
// case is materialized as a pending TestRun in the exact order supplied.
type Finalized struct {
	Cases []schema.TestCase
}

// CaseStarted marks run Index as running. Exactly one run is ever running.
type CaseStarted struct {
	Index int
}

// CaseCompleted marks run Index as completed, with either a simulated result
// or the error details of a failed simulation call — never neither.
type CaseCompleted struct {
	Index        int
	Result       *schema.SimulatedTestResult
	ErrorDetails string
}

// RunCompleted delivers the assembled, persisted report.
type RunCompleted struct {
	Report schema.Report
}

// Fail surfaces an unrecoverable error and moves to the designated fallback
// view (the dashboard when unset).
type Fail struct {
	Err      string
	Fallback View
}

// Reset returns to a clean dashboard.
type Reset struct{}

func (StartProject) isEvent()     {}
func (Submit) isEvent()           {}
func (CasesGenerated) isEvent()   {}
func (GenerationFailed) isEvent() {}
func (CaseEdited) isEvent()       {}
func (CaseRemoved) isEvent()      {}
func (CaseAdded) isEvent()        {}
func (Finalized) isEvent()        {}
func (CaseStarted) isEvent()      {}
func (CaseCompleted) isEvent()    {}
func (RunCompleted) isEvent()     {}
func (Fail) isEvent()             {}
func (Reset) isEvent()            {}

// Apply computes the successor state for an event. Events that do not apply
// to the current view leave the session unchanged.
func Apply(s Session, e Event) Session {
	switch ev := e.(type) {
	case StartProject:
		next := NewSession()
		next.View = ViewInputForm
		return next

	case Submit:
		if s.View != ViewInputForm {
			return s
		}
		s.TargetURL = ev.URL
		s.TargetDescription = ev.Description
		s.Err = ""
		s.View = ViewGeneratingCases
		return s

	case CasesGenerated:
		if s.View != ViewGeneratingCases || len(ev.Cases) == 0 {
			return s
		}
		s.Cases = ev.Cases
		s.Runs = nil
		s.Err = ""
		s.View = ViewCasesReview
		return s

	case GenerationFailed:
		if s.View != ViewGeneratingCases {
			return s
		}
		s.Cases = nil
		s.Err = ev.Err
		s.View = ViewInputForm
		return s

	case CaseEdited:
		if s.View != ViewCasesReview || ev.Index < 0 || ev.Index >= len(s.Cases) {
			return s
		}
		cases := append([]schema.TestCase(nil), s.Cases...)
		cases[ev.Index] = ev.Case
		s.Cases = cases
		return s

	case CaseRemoved:
		if s.View != ViewCasesReview || ev.Index < 0 || ev.Index >= len(s.Cases) {
			return s
		}
		cases := append([]schema.TestCase(nil), s.Cases[:ev.Index]...)
		s.Cases = append(cases, s.Cases[ev.Index+1:]...)
		return s

	case CaseAdded:
		if s.View != ViewCasesReview {
			return s
		}
		s.Cases = append(append([]schema.TestCase(nil), s.Cases...), ev.Case)
		return s

	case Finalized:
		if s.View != ViewCasesReview || len(ev.Cases) == 0 {
			return s
		}
		s.Cases = ev.Cases
		s.Runs = MaterializeRuns(ev.Cases)
		s.Err = ""
		s.View = ViewRunningTests
		return s

	case CaseStarted:
		if s.View != ViewRunningTests || ev.Index < 0 || ev.Index >= len(s.Runs) {
			return s
		}
		runs := append([]schema.TestRun(nil), s.Runs...)
		if runs[ev.Index].RunStatus != schema.RunPending {
			return s
		}
		runs[ev.Index].RunStatus = schema.RunRunning
		s.Runs = runs
		return s

	case CaseCompleted:
		if s.View != ViewRunningTests || ev.Index < 0 || ev.Index >= len(s.Runs) {
			return s
		}
		runs := append([]schema.TestRun(nil), s.Runs...)
		if runs[ev.Index].RunStatus != schema.RunRunning {
			return s
		}
		runs[ev.Index].RunStatus = schema.RunCompleted
		runs[ev.Index].SimulatedResult = ev.Result
		runs[ev.Index].ErrorDetails = ev.ErrorDetails
		s.Runs = runs
		return s

	case RunCompleted:
		if s.View != ViewRunningTests {
			return s
		}
		r := ev.Report
		s.Report = &r
		s.View = ViewReport
		return s

	case Fail:
		s.Err = ev.Err
		if ev.Fallback != "" {
			s.View = ev.Fallback
		} else {
			s.View = ViewDashboard
		}
		return s

	case Reset:
		return NewSession()
	}
	return s
}

// MaterializeRuns turns a finalized case list into pending TestRuns,
// preserving order.
func MaterializeRuns(cases []schema.TestCase) []schema.TestRun {
	runs := make([]schema.TestRun, len(cases))
	for i, tc := range cases {
		runs[i] = schema.TestRun{TestCase: tc, RunStatus: schema.RunPending}
	}
	return runs
}
