// Package schema defines the data model shared by the AI gateway, the
// workflow engine, the report store, and the exporters: test cases, run
// records, the four report variants, and the finding types.
package schema

import "time"

// RunStatus is the lifecycle state of a TestRun within a batch.
type RunStatus string

const (
	RunPending   RunStatus = "pending"
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
)

// ResultStatus is the simulated outcome of a single test.
type ResultStatus string

const (
	ResultPassed ResultStatus = "passed"
	ResultFailed ResultStatus = "failed"
)

// TestCase is an immutable test template, either generated by the model or
// added by the user during review. The snippets are illustrative only and
// are never executed or fed back into the model.
type TestCase struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	StepsToReproduce []string `json:"stepsToReproduce"`
	ExpectedResult   string   `json:"expectedResult"`
	PytestSnippet    string   `json:"pytestSnippet,omitempty"`
	RobotSnippet     string   `json:"robotSnippet,omitempty"`
}

// SimulatedTestResult is the model's imagined outcome for one TestRun.
// Immutable once attached to a run.
type SimulatedTestResult struct {
	TestCaseID        string       `json:"testCaseId"`
	Status            ResultStatus `json:"status"`
	ActualResult      string       `json:"actualResult"`
	HealingSuggestion string       `json:"healingSuggestion,omitempty"`
}

// TestRun is a TestCase carried through the simulation loop. RunStatus moves
// pending → running → completed exactly once, in batch order, and never
// reverts. A failed simulation call is recorded in ErrorDetails; the run is
// still marked completed.
type TestRun struct {
	TestCase
	RunStatus       RunStatus            `json:"runStatus"`
	SimulatedResult *SimulatedTestResult `json:"simulatedResult,omitempty"`
	ErrorDetails    string               `json:"errorDetails,omitempty"`
}

// ReportType tags the report variant. The wire values match the persisted
// report documents.
type ReportType string

const (
	ReportUI            ReportType = "UI_TEST"
	ReportAPI           ReportType = "API_TEST_CONCEPTUAL"
	ReportLoad          ReportType = "LOAD_TEST_CONCEPTUAL"
	ReportAccessibility ReportType = "ACCESSIBILITY_CONCEPTUAL"
)

// Report is the persisted record for one completed operation. Exactly one of
// the variant bodies is set, matching Type. The ID is the store's primary key
// and is never reused.
type Report struct {
	ID                string     `json:"id"`
	Type              ReportType `json:"reportType"`
	GeneratedAt       time.Time  `json:"generatedAt"`
	TargetURL         string     `json:"targetUrl"`
	TargetDescription string     `json:"targetDescription"`

	UI            *UIReportBody            `json:"ui,omitempty"`
	API           *APIReportBody           `json:"api,omitempty"`
	Load          *LoadReportBody          `json:"load,omitempty"`
	Accessibility *AccessibilityReportBody `json:"accessibility,omitempty"`
}

// UISummary counts run outcomes for a UI report. Pending is always zero by
// assembly time: every run is completed before the report is built.
type UISummary struct {
	TotalTests int `json:"totalTests"`
	Passed     int `json:"passed"`
	Failed     int `json:"failed"`
	Pending    int `json:"pending"`
}

// UIReportBody carries a completed batch of test runs.
type UIReportBody struct {
	Summary  UISummary `json:"summary"`
	TestRuns []TestRun `json:"testRuns"`
}

// OverallStatus is the conceptual verdict of an API test.
type OverallStatus string

const (
	OverallPassed OverallStatus = "passed"
	OverallFailed OverallStatus = "failed"
	OverallError  OverallStatus = "error"
)

// ConceptualTestStep is one simulated step of a conceptual API test.
type ConceptualTestStep struct {
	Step    string       `json:"step"`
	Status  ResultStatus `json:"status"`
	Details string       `json:"details,omitempty"`
}

// APIConceptualResult is the normalized output of the API conceptualization
// operation, before user metadata is attached.
type APIConceptualResult struct {
	ConceptualScript         string               `json:"conceptualScript"`
	SimulatedStatusCode      int                  `json:"simulatedStatusCode"`
	SimulatedResponsePreview string               `json:"simulatedResponsePreview"`
	ConceptualTestSteps      []ConceptualTestStep `json:"conceptualTestSteps"`
	OverallStatus            OverallStatus        `json:"overallStatus"`
}

// APIReportBody is the API variant payload: the conceptual result plus the
// request previews the user entered (already serialized, never structured).
type APIReportBody struct {
	Method                string `json:"apiMethod"`
	RequestHeadersPreview string `json:"requestHeadersPreview,omitempty"`
	RequestBodyPreview    string `json:"requestBodyPreview,omitempty"`
	APIConceptualResult
}

// LoadPlanResult is the normalized output of load-plan generation. The plan
// is synthesized from the capture file's NAME only; its bytes are never read.
type LoadPlanResult struct {
	JMXTestPlan    string `json:"jmxTestPlan"`
	SummaryMessage string `json:"summaryMessage"`
}

// LoadReportBody is the load-test variant payload. Load reports carry no
// pass/fail verdict: no traffic was generated.
type LoadReportBody struct {
	InputFileName string `json:"inputFileName,omitempty"`
	LoadPlanResult
}

// AccessibilitySeverity classifies one accessibility finding.
type AccessibilitySeverity string

const (
	SeverityCritical AccessibilitySeverity = "Critical"
	SeveritySerious  AccessibilitySeverity = "Serious"
	SeverityModerate AccessibilitySeverity = "Moderate"
	SeverityMinor    AccessibilitySeverity = "Minor"
)

// AccessibilityIssue is one conceptual WCAG finding.
type AccessibilityIssue struct {
	ID             string                `json:"id"`
	Description    string                `json:"description"`
	Severity       AccessibilitySeverity `json:"severity"`
	WCAGCriteria   string                `json:"wcagCriteria"`
	ElementSnippet string                `json:"elementSnippet,omitempty"`
	Suggestion     string                `json:"suggestion"`
}

// AccessibilitySummary counts issues by severity. It is always recomputed
// from the validated issue list, never trusted from the model.
type AccessibilitySummary struct {
	TotalIssues int `json:"totalIssues"`
	Critical    int `json:"critical"`
	Serious     int `json:"serious"`
	Moderate    int `json:"moderate"`
	Minor       int `json:"minor"`
}

// AccessibilityResult is the normalized output of an accessibility check.
type AccessibilityResult struct {
	Summary AccessibilitySummary `json:"summary"`
	Issues  []AccessibilityIssue `json:"issues"`
}

// AccessibilityReportBody is the accessibility variant payload.
type AccessibilityReportBody struct {
	AccessibilityResult
}

// FlawSeverity classifies one security finding.
type FlawSeverity string

const (
	FlawHigh          FlawSeverity = "High"
	FlawMedium        FlawSeverity = "Medium"
	FlawLow           FlawSeverity = "Low"
	FlawInformational FlawSeverity = "Informational"
	FlawUnknown       FlawSeverity = "Unknown"
)

// SecurityFlaw is one conceptual code-security finding.
type SecurityFlaw struct {
	ID            string       `json:"id"`
	Description   string       `json:"description"`
	Severity      FlawSeverity `json:"severity"`
	CodeSnippet   string       `json:"codeSnippet,omitempty"`
	LineNumber    string       `json:"lineNumber,omitempty"`
	Explanation   string       `json:"explanation"`
	Suggestion    string       `json:"suggestion"`
	BestPractices []string     `json:"bestPractices"`
}

// CodeScanResult is the normalized output of a code security scan.
type CodeScanResult struct {
	Summary          string         `json:"summary"`
	Flaws            []SecurityFlaw `json:"flaws"`
	FileName         string         `json:"fileName,omitempty"`
	ScannedAt        time.Time      `json:"scannedAt"`
	LanguageDetected string         `json:"languageDetected,omitempty"`
}

// AutomationTip is one general test-automation best practice.
type AutomationTip struct {
	ID       string `json:"id"`
	Tip      string `json:"tip"`
	Category string `json:"category"`
}

// SeverityCount returns how many issues in the list carry the given severity.
func SeverityCount(issues []AccessibilityIssue, sev AccessibilitySeverity) int {
	n := 0
	for _, issue := range issues {
		if issue.Severity == sev {
			n++
		}
	}
	return n
}

// Summarize recomputes the severity summary from a validated issue list.
func Summarize(issues []AccessibilityIssue) AccessibilitySummary {
	return AccessibilitySummary{
		TotalIssues: len(issues),
		Critical:    SeverityCount(issues, SeverityCritical),
		Serious:     SeverityCount(issues, SeveritySerious),
		Moderate:    SeverityCount(issues, SeverityModerate),
		Minor:       SeverityCount(issues, SeverityMinor),
	}
}
