package normalize

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/testpilot-ai/testpilot/pkg/schema"
)

// Fixed placeholder defaults for the conceptual-lab operations.
const (
	DefaultResponsePreview = `{ "message": "AI did not provide a specific conceptual response preview." }`
	DefaultConceptScript   = "# AI did not provide a specific conceptual script for the API test."
	DefaultConceptStep     = "AI did not provide specific conceptual steps."
	DefaultStatusCode      = 500
	DefaultScanSummary     = "AI did not provide an overall summary."
	DefaultFlawDescription = "No description provided by AI."
	DefaultFlawExplanation = "No explanation provided by AI."
	DefaultFlawSuggestion  = "No specific suggestion provided by AI."
	DefaultIssueDesc       = "No description provided."
	DefaultIssueSuggestion = "No specific suggestion provided."
	DefaultWCAGCriteria    = "N/A"
)

type looseAPIConcept struct {
	ConceptualScript         any `json:"conceptualScript"`
	SimulatedStatusCode      any `json:"simulatedStatusCode"`
	SimulatedResponsePreview any `json:"simulatedResponsePreview"`
	ConceptualTestSteps      any `json:"conceptualTestSteps"`
	OverallStatus            any `json:"overallStatus"`
}

// APIConcept normalizes a conceptual API test response. An empty or invalid
// step list becomes a single failed placeholder step; an unrecognized overall
// status derives from the simulated status code (failed when >= 400, error
// otherwise).
func APIConcept(raw string) (schema.APIConceptualResult, error) {
	var loose looseAPIConcept
	if err := ExtractJSON(raw, "conceptual API test", &loose); err != nil {
		return schema.APIConceptualResult{}, err
	}

	code, ok := num(loose.SimulatedStatusCode)
	if !ok {
		code = DefaultStatusCode
	}

	steps := normalizeConceptSteps(loose.ConceptualTestSteps)
	if len(steps) == 0 {
		steps = []schema.ConceptualTestStep{{Step: DefaultConceptStep, Status: schema.ResultFailed}}
	}

	overall := schema.OverallError
	if code >= 400 {
		overall = schema.OverallFailed
	}
	if s, ok := str(loose.OverallStatus); ok {
		switch schema.OverallStatus(s) {
		case schema.OverallPassed, schema.OverallFailed, schema.OverallError:
			overall = schema.OverallStatus(s)
		}
	}

	return schema.APIConceptualResult{
		ConceptualScript:         strOr(loose.ConceptualScript, DefaultConceptScript),
		SimulatedStatusCode:      code,
		SimulatedResponsePreview: strOr(loose.SimulatedResponsePreview, DefaultResponsePreview),
		ConceptualTestSteps:      steps,
		OverallStatus:            overall,
	}, nil
}

func normalizeConceptSteps(v any) []schema.ConceptualTestStep {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	steps := make([]schema.ConceptualTestStep, 0, len(items))
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		status := schema.ResultFailed
		if s, ok := str(entry["status"]); ok && (s == string(schema.ResultPassed) || s == string(schema.ResultFailed)) {
			status = schema.ResultStatus(s)
		}
		steps = append(steps, schema.ConceptualTestStep{
			Step:    strOr(entry["step"], "Unknown conceptual step by AI"),
			Status:  status,
			Details: strOr(entry["details"], ""),
		})
	}
	return steps
}

type looseLoadPlan struct {
	JMXTestPlan    any `json:"jmxTestPlan"`
	SummaryMessage any `json:"summaryMessage"`
}

// LoadPlan normalizes a load-plan response. A missing plan document is
// replaced by a minimal structurally-valid JMX fallback synthesized from the
// target URL; the capture file contributes only its name.
func LoadPlan(raw, targetURL, captureFileName string) (schema.LoadPlanResult, error) {
	var loose looseLoadPlan
	if err := ExtractJSON(raw, "JMeter test plan generation", &loose); err != nil {
		return schema.LoadPlanResult{}, err
	}

	defaultSummary := fmt.Sprintf(
		"AI generated a conceptual JMX plan for %s targeting %s. Please review and customize.",
		captureFileName, targetURL)

	return schema.LoadPlanResult{
		JMXTestPlan:    strOr(loose.JMXTestPlan, FallbackJMXPlan(targetURL, captureFileName)),
		SummaryMessage: strOr(loose.SummaryMessage, defaultSummary),
	}, nil
}

// FallbackJMXPlan builds the deterministic minimal JMeter plan used when the
// model omits one: XML declaration, jmeterTestPlan root, a ten-thread group
// with a five-second ramp, one GET sampler against the target, and a results
// collector.
func FallbackJMXPlan(targetURL, captureFileName string) string {
	domain, path, protocol := splitTarget(targetURL)
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<jmeterTestPlan version="1.2" properties="5.0" jmeter="5.6.2">
  <hashTree>
    <TestPlan guiclass="TestPlanGui" testclass="TestPlan" testname="AI Conceptual Test Plan for %s" enabled="true">
      <boolProp name="TestPlan.functional_mode">false</boolProp>
      <elementProp name="TestPlan.user_defined_variables" elementType="Arguments" guiclass="ArgumentsPanel" testclass="Arguments" testname="User Defined Variables" enabled="true">
        <collectionProp name="Arguments.arguments"/>
      </elementProp>
    </TestPlan>
    <hashTree>
      <ThreadGroup guiclass="ThreadGroupGui" testclass="ThreadGroup" testname="Conceptual User Group" enabled="true">
        <stringProp name="ThreadGroup.on_sample_error">continue</stringProp>
        <elementProp name="ThreadGroup.main_controller" elementType="LoopController" guiclass="LoopControlPanel" testclass="LoopController" testname="Loop Controller" enabled="true">
          <stringProp name="LoopController.loops">1</stringProp>
          <boolProp name="LoopController.continue_forever">false</boolProp>
        </elementProp>
        <stringProp name="ThreadGroup.num_threads">10</stringProp>
        <stringProp name="ThreadGroup.ramp_time">5</stringProp>
        <boolProp name="ThreadGroup.scheduler">false</boolProp>
      </ThreadGroup>
      <hashTree>
        <HTTPSamplerProxy guiclass="HttpTestSampleGui" testclass="HTTPSamplerProxy" testname="HTTP Request - Imagined from %s" enabled="true">
          <stringProp name="HTTPSampler.domain">%s</stringProp>
          <stringProp name="HTTPSampler.protocol">%s</stringProp>
          <stringProp name="HTTPSampler.path">%s</stringProp>
          <stringProp name="HTTPSampler.method">GET</stringProp>
          <boolProp name="HTTPSampler.follow_redirects">true</boolProp>
          <boolProp name="HTTPSampler.use_keepalive">true</boolProp>
        </HTTPSamplerProxy>
        <hashTree/>
        <ResultCollector guiclass="ViewResultsFullVisualizer" testclass="ResultCollector" testname="View Results Tree" enabled="true">
          <boolProp name="ResultCollector.error_logging">false</boolProp>
          <stringProp name="filename"></stringProp>
        </ResultCollector>
        <hashTree/>
      </hashTree>
    </hashTree>
  </hashTree>
</jmeterTestPlan>`, targetURL, captureFileName, domain, protocol, path)
}

// splitTarget derives sampler fields from a loosely-formatted target URL.
func splitTarget(targetURL string) (domain, path, protocol string) {
	protocol = "http"
	if strings.HasPrefix(targetURL, "https") {
		protocol = "https"
	}
	rest := targetURL
	if idx := strings.Index(rest, "://"); idx != -1 {
		rest = rest[idx+3:]
	}
	rest = strings.TrimPrefix(rest, "www.")
	domain = rest
	path = "/"
	if idx := strings.Index(rest, "/"); idx != -1 {
		domain = rest[:idx]
		if rest[idx:] != "" {
			path = rest[idx:]
		}
	}
	return domain, path, protocol
}

type looseCodeScan struct {
	Summary          any `json:"summary"`
	Flaws            any `json:"flaws"`
	LanguageDetected any `json:"languageDetected"`
}

// CodeScan normalizes a code security scan response. Every flaw is kept and
// fully defaulted; an unrecognized severity becomes Unknown.
func CodeScan(raw string) (schema.CodeScanResult, error) {
	var loose looseCodeScan
	if err := ExtractJSON(raw, "code security scan", &loose); err != nil {
		return schema.CodeScanResult{}, err
	}

	var flaws []schema.SecurityFlaw
	if items, ok := loose.Flaws.([]any); ok {
		flaws = make([]schema.SecurityFlaw, 0, len(items))
		for _, item := range items {
			entry, ok := item.(map[string]any)
			if !ok {
				continue
			}
			flaws = append(flaws, normalizeFlaw(entry))
		}
	}

	return schema.CodeScanResult{
		Summary:          strOr(loose.Summary, DefaultScanSummary),
		Flaws:            flaws,
		LanguageDetected: strOr(loose.LanguageDetected, ""),
	}, nil
}

func normalizeFlaw(entry map[string]any) schema.SecurityFlaw {
	severity := schema.FlawUnknown
	if s, ok := str(entry["severity"]); ok {
		switch schema.FlawSeverity(s) {
		case schema.FlawHigh, schema.FlawMedium, schema.FlawLow, schema.FlawInformational, schema.FlawUnknown:
			severity = schema.FlawSeverity(s)
		}
	}
	practices, ok := strList(entry["bestPractices"])
	if !ok {
		practices = []string{}
	}
	return schema.SecurityFlaw{
		ID:            strOr(entry["id"], fmt.Sprintf("flaw-%s", uuid.NewString())),
		Description:   strOr(entry["description"], DefaultFlawDescription),
		Severity:      severity,
		CodeSnippet:   strOr(entry["codeSnippet"], ""),
		LineNumber:    strOr(entry["lineNumber"], ""),
		Explanation:   strOr(entry["explanation"], DefaultFlawExplanation),
		Suggestion:    strOr(entry["suggestion"], DefaultFlawSuggestion),
		BestPractices: practices,
	}
}

type looseAccessibility struct {
	Summary any `json:"summary"`
	Issues  any `json:"issues"`
}

// Accessibility normalizes an accessibility check response. Issues are kept
// and defaulted (severity falls back to Moderate); the summary is always
// recomputed from the validated issue list, never trusted from the model.
func Accessibility(raw string) (schema.AccessibilityResult, error) {
	var loose looseAccessibility
	if err := ExtractJSON(raw, "conceptual accessibility check", &loose); err != nil {
		return schema.AccessibilityResult{}, err
	}

	var issues []schema.AccessibilityIssue
	if items, ok := loose.Issues.([]any); ok {
		issues = make([]schema.AccessibilityIssue, 0, len(items))
		for i, item := range items {
			entry, ok := item.(map[string]any)
			if !ok {
				continue
			}
			issues = append(issues, normalizeIssue(entry, i))
		}
	}

	return schema.AccessibilityResult{
		Summary: schema.Summarize(issues),
		Issues:  issues,
	}, nil
}

func normalizeIssue(entry map[string]any, index int) schema.AccessibilityIssue {
	severity := schema.SeverityModerate
	if s, ok := str(entry["severity"]); ok {
		switch schema.AccessibilitySeverity(s) {
		case schema.SeverityCritical, schema.SeveritySerious, schema.SeverityModerate, schema.SeverityMinor:
			severity = schema.AccessibilitySeverity(s)
		}
	}
	return schema.AccessibilityIssue{
		ID:             strOr(entry["id"], fmt.Sprintf("A11Y-%s-%d", uuid.NewString(), index)),
		Description:    strOr(entry["description"], DefaultIssueDesc),
		Severity:       severity,
		WCAGCriteria:   strOr(entry["wcagCriteria"], DefaultWCAGCriteria),
		ElementSnippet: strOr(entry["elementSnippet"], ""),
		Suggestion:     strOr(entry["suggestion"], DefaultIssueSuggestion),
	}
}
