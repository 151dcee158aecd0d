package normalize

import (
	"errors"
	"strings"
	"testing"

	"github.com/testpilot-ai/testpilot/pkg/export"
	"github.com/testpilot-ai/testpilot/pkg/schema"
)

func TestAPIConcept_Defaults(t *testing.T) {
	result, err := APIConcept(`{}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.SimulatedStatusCode != DefaultStatusCode {
		t.Errorf("status code = %d, want %d", result.SimulatedStatusCode, DefaultStatusCode)
	}
	if result.ConceptualScript != DefaultConceptScript {
		t.Errorf("script = %q", result.ConceptualScript)
	}
	if result.SimulatedResponsePreview != DefaultResponsePreview {
		t.Errorf("preview = %q", result.SimulatedResponsePreview)
	}
	if len(result.ConceptualTestSteps) != 1 {
		t.Fatalf("expected single placeholder step, got %d", len(result.ConceptualTestSteps))
	}
	step := result.ConceptualTestSteps[0]
	if step.Step != DefaultConceptStep || step.Status != schema.ResultFailed {
		t.Errorf("placeholder step = %+v", step)
	}
	// Code 500 without an explicit status derives failed.
	if result.OverallStatus != schema.OverallFailed {
		t.Errorf("overall = %q, want failed", result.OverallStatus)
	}
}

func TestAPIConcept_OverallDerivation(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want schema.OverallStatus
	}{
		{"explicit passed", `{"overallStatus": "passed", "simulatedStatusCode": 500}`, schema.OverallPassed},
		{"explicit error", `{"overallStatus": "error", "simulatedStatusCode": 200}`, schema.OverallError},
		{"invalid status, 4xx", `{"overallStatus": "great", "simulatedStatusCode": 404}`, schema.OverallFailed},
		{"invalid status, 2xx", `{"overallStatus": "great", "simulatedStatusCode": 200}`, schema.OverallError},
		{"missing status, 2xx", `{"simulatedStatusCode": 201}`, schema.OverallError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := APIConcept(tt.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.OverallStatus != tt.want {
				t.Errorf("overall = %q, want %q", result.OverallStatus, tt.want)
			}
		})
	}
}

func TestAPIConcept_StepNormalization(t *testing.T) {
	raw := `{"conceptualTestSteps": [
		{"step": "Send request", "status": "passed", "details": "200 imagined"},
		{"step": "Check schema", "status": "unsure"},
		"not an object"
	]}`
	result, err := APIConcept(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.ConceptualTestSteps) != 2 {
		t.Fatalf("non-object entries must be dropped, got %d steps", len(result.ConceptualTestSteps))
	}
	if result.ConceptualTestSteps[0].Status != schema.ResultPassed {
		t.Errorf("step 0 status = %q", result.ConceptualTestSteps[0].Status)
	}
	if result.ConceptualTestSteps[1].Status != schema.ResultFailed {
		t.Errorf("unrecognized step status must fail, got %q", result.ConceptualTestSteps[1].Status)
	}
}

func TestLoadPlan_UsesModelPlan(t *testing.T) {
	raw := `{"jmxTestPlan": "<?xml version=\"1.0\"?><jmeterTestPlan></jmeterTestPlan>", "summaryMessage": "done"}`
	result, err := LoadPlan(raw, "https://example.com", "capture.har")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(result.JMXTestPlan, "<jmeterTestPlan>") {
		t.Errorf("model plan not kept: %q", result.JMXTestPlan)
	}
	if result.SummaryMessage != "done" {
		t.Errorf("summary = %q", result.SummaryMessage)
	}
}

func TestLoadPlan_FallbackPlan(t *testing.T) {
	result, err := LoadPlan(`{}`, "https://shop.example.com/cart", "traffic.har")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := export.ValidateJMX(result.JMXTestPlan); err != nil {
		t.Errorf("fallback plan fails structural validation: %v", err)
	}
	if !strings.Contains(result.SummaryMessage, "traffic.har") {
		t.Errorf("default summary should name the capture file: %q", result.SummaryMessage)
	}
}

func TestFallbackJMXPlan_Structure(t *testing.T) {
	plan := FallbackJMXPlan("https://shop.example.com/cart/checkout", "capture.har")

	if !strings.HasPrefix(plan, "<?xml") {
		t.Error("plan must start with an XML declaration")
	}
	for _, want := range []string{
		"<jmeterTestPlan",
		`<stringProp name="ThreadGroup.num_threads">10</stringProp>`,
		`<stringProp name="ThreadGroup.ramp_time">5</stringProp>`,
		`<stringProp name="HTTPSampler.domain">shop.example.com</stringProp>`,
		`<stringProp name="HTTPSampler.protocol">https</stringProp>`,
		`<stringProp name="HTTPSampler.path">/cart/checkout</stringProp>`,
		`<stringProp name="HTTPSampler.method">GET</stringProp>`,
		"ResultCollector",
	} {
		if !strings.Contains(plan, want) {
			t.Errorf("plan missing %q", want)
		}
	}
}

func TestFallbackJMXPlan_BareDomain(t *testing.T) {
	plan := FallbackJMXPlan("example.com", "c.har")
	if !strings.Contains(plan, `<stringProp name="HTTPSampler.domain">example.com</stringProp>`) {
		t.Error("bare domain should be used as-is")
	}
	if !strings.Contains(plan, `<stringProp name="HTTPSampler.protocol">http</stringProp>`) {
		t.Error("protocol should default to http")
	}
	if !strings.Contains(plan, `<stringProp name="HTTPSampler.path">/</stringProp>`) {
		t.Error("path should default to /")
	}
}

func TestCodeScan_Defaults(t *testing.T) {
	result, err := CodeScan(`{}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Summary != DefaultScanSummary {
		t.Errorf("summary = %q", result.Summary)
	}
	if len(result.Flaws) != 0 {
		t.Errorf("expected no flaws, got %d", len(result.Flaws))
	}
}

func TestCodeScan_FlawNormalization(t *testing.T) {
	raw := `{"summary": "one issue", "flaws": [
		{"description": "SQL injection", "severity": "High", "bestPractices": ["parameterize"]},
		{"severity": "Catastrophic"}
	], "languageDetected": "Go"}`

	result, err := CodeScan(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Flaws) != 2 {
		t.Fatalf("expected 2 flaws, got %d", len(result.Flaws))
	}
	if result.Flaws[0].Severity != schema.FlawHigh {
		t.Errorf("flaw 0 severity = %q", result.Flaws[0].Severity)
	}
	if result.Flaws[1].Severity != schema.FlawUnknown {
		t.Errorf("unrecognized severity must become Unknown, got %q", result.Flaws[1].Severity)
	}
	if result.Flaws[1].Description != DefaultFlawDescription {
		t.Errorf("flaw 1 description = %q", result.Flaws[1].Description)
	}
	if result.Flaws[1].BestPractices == nil || len(result.Flaws[1].BestPractices) != 0 {
		t.Errorf("bestPractices must default to an empty list, got %#v", result.Flaws[1].BestPractices)
	}
	if result.LanguageDetected != "Go" {
		t.Errorf("languageDetected = %q", result.LanguageDetected)
	}
}

func TestAccessibility_SummaryRecomputed(t *testing.T) {
	// The model's summary is contradicted by the list; the list wins.
	raw := `{
		"summary": {"totalIssues": 99, "critical": 99},
		"issues": [
			{"description": "Missing alt text", "severity": "Critical"},
			{"description": "Low contrast", "severity": "Serious"},
			{"description": "No label", "severity": "Nonsense"}
		]
	}`

	result, err := Accessibility(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := schema.AccessibilitySummary{TotalIssues: 3, Critical: 1, Serious: 1, Moderate: 1}
	if result.Summary != want {
		t.Errorf("summary = %+v, want %+v", result.Summary, want)
	}
	if result.Issues[2].Severity != schema.SeverityModerate {
		t.Errorf("unrecognized severity must become Moderate, got %q", result.Issues[2].Severity)
	}
	if result.Issues[0].WCAGCriteria != DefaultWCAGCriteria {
		t.Errorf("missing wcagCriteria should default, got %q", result.Issues[0].WCAGCriteria)
	}
}

func TestAccessibility_Malformed(t *testing.T) {
	_, err := Accessibility("I could not produce JSON, sorry")
	var malformed *MalformedResponseError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedResponseError, got %v", err)
	}
	if malformed.Context != "conceptual accessibility check" {
		t.Errorf("context = %q", malformed.Context)
	}
}
