package normalize

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/testpilot-ai/testpilot/pkg/schema"
)

func TestTestCases_FullEntry(t *testing.T) {
	raw := `[{
		"id": "tc-1",
		"name": "Login works",
		"description": "Checks the happy path",
		"stepsToReproduce": ["Open the page", "Log in"],
		"expectedResult": "Dashboard is shown",
		"pytestSnippet": "def test_login(): pass",
		"robotSnippet": "*** Test Cases ***"
	}]`

	cases, err := TestCases(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cases) != 1 {
		t.Fatalf("expected 1 case, got %d", len(cases))
	}
	tc := cases[0]
	if tc.ID != "tc-1" || tc.Name != "Login works" {
		t.Errorf("identity not preserved: %+v", tc)
	}
	if len(tc.StepsToReproduce) != 2 || tc.StepsToReproduce[0] != "Open the page" {
		t.Errorf("steps not preserved: %v", tc.StepsToReproduce)
	}
}

func TestTestCases_Defaulting(t *testing.T) {
	// Empty object: every field defaults.
	cases, err := TestCases(`[{}]`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tc := cases[0]

	if !strings.HasPrefix(tc.ID, "tc-ui-") {
		t.Errorf("expected generated id with tc-ui- prefix, got %q", tc.ID)
	}
	if tc.Name != "Generated UI Test Case 1" {
		t.Errorf("expected ordinal name, got %q", tc.Name)
	}
	if tc.Description != DefaultCaseDescription {
		t.Errorf("description = %q", tc.Description)
	}
	if len(tc.StepsToReproduce) != 1 || tc.StepsToReproduce[0] != DefaultCaseStep {
		t.Errorf("steps = %v", tc.StepsToReproduce)
	}
	if tc.ExpectedResult != DefaultExpectedResult {
		t.Errorf("expectedResult = %q", tc.ExpectedResult)
	}
	if tc.PytestSnippet != DefaultPytestSnippet {
		t.Errorf("pytestSnippet = %q", tc.PytestSnippet)
	}
	if tc.RobotSnippet != DefaultRobotSnippet {
		t.Errorf("robotSnippet = %q", tc.RobotSnippet)
	}
}

func TestTestCases_WrongTypeFieldsDefault(t *testing.T) {
	raw := `[{
		"name": 42,
		"stepsToReproduce": ["ok", 7],
		"expectedResult": ["not", "a", "string"]
	}]`

	cases, err := TestCases(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tc := cases[0]
	if tc.Name != "Generated UI Test Case 1" {
		t.Errorf("non-string name should default, got %q", tc.Name)
	}
	// A single non-string element disqualifies the whole list.
	if len(tc.StepsToReproduce) != 1 || tc.StepsToReproduce[0] != DefaultCaseStep {
		t.Errorf("mixed-type steps should default, got %v", tc.StepsToReproduce)
	}
	if tc.ExpectedResult != DefaultExpectedResult {
		t.Errorf("expectedResult = %q", tc.ExpectedResult)
	}
}

func TestTestCases_CapsBatch(t *testing.T) {
	var entries []string
	for i := 0; i < MaxGeneratedCases+5; i++ {
		entries = append(entries, fmt.Sprintf(`{"name": "Case %d"}`, i))
	}
	raw := "[" + strings.Join(entries, ",") + "]"

	cases, err := TestCases(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cases) != MaxGeneratedCases {
		t.Errorf("expected cap at %d, got %d", MaxGeneratedCases, len(cases))
	}
	if cases[0].Name != "Case 0" {
		t.Errorf("truncation must keep the first entries, got %q", cases[0].Name)
	}
}

func TestTestCases_CodeFence(t *testing.T) {
	raw := "```json\n[{\"name\": \"Fenced\"}]\n```"
	cases, err := TestCases(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cases) != 1 || cases[0].Name != "Fenced" {
		t.Errorf("fence not stripped: %+v", cases)
	}
}

func TestTestCases_Malformed(t *testing.T) {
	raw := `{"not": "an array"`
	_, err := TestCases(raw)
	if err == nil {
		t.Fatal("expected error for malformed JSON")
	}
	var malformed *MalformedResponseError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedResponseError, got %T", err)
	}
	if malformed.Raw != raw {
		t.Errorf("raw text not preserved: %q", malformed.Raw)
	}
	if malformed.Context != "UI test case generation" {
		t.Errorf("context = %q", malformed.Context)
	}
}

func TestTestCases_EmptyArray(t *testing.T) {
	cases, err := TestCases(`[]`)
	if err != nil {
		t.Fatalf("empty array is valid: %v", err)
	}
	if len(cases) != 0 {
		t.Errorf("expected 0 cases, got %d", len(cases))
	}
}

func TestSimulation_StatusDefaulting(t *testing.T) {
	tc := schema.TestCase{ID: "tc-7"}

	tests := []struct {
		name string
		raw  string
		want schema.ResultStatus
	}{
		{"passed", `{"status": "passed", "actualResult": "ok"}`, schema.ResultPassed},
		{"failed", `{"status": "failed", "actualResult": "boom"}`, schema.ResultFailed},
		{"unknown status", `{"status": "maybe"}`, schema.ResultFailed},
		{"missing status", `{}`, schema.ResultFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Simulation(tt.raw, tc)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Status != tt.want {
				t.Errorf("status = %q, want %q", result.Status, tt.want)
			}
		})
	}
}

func TestSimulation_Defaults(t *testing.T) {
	tc := schema.TestCase{ID: "tc-42"}
	result, err := Simulation(`{}`, tc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TestCaseID != "tc-42" {
		t.Errorf("testCaseId should default to the case id, got %q", result.TestCaseID)
	}
	if result.ActualResult != DefaultActualResult {
		t.Errorf("actualResult = %q", result.ActualResult)
	}
	if result.HealingSuggestion != "" {
		t.Errorf("healingSuggestion should default empty, got %q", result.HealingSuggestion)
	}
}

func TestTips_FiltersThenCaps(t *testing.T) {
	// Five entries, two invalid: the three valid ones survive.
	raw := `[
		{"tip": "Use stable selectors", "category": "Selectors"},
		{"category": "No tip field"},
		{"tip": "Keep tests independent"},
		{"tip": 12},
		{"tip": "Run in CI", "category": "Process"}
	]`

	tips, err := Tips(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tips) != 3 {
		t.Fatalf("expected 3 tips, got %d", len(tips))
	}
	wantTips := []string{"Use stable selectors", "Keep tests independent", "Run in CI"}
	for i, want := range wantTips {
		if tips[i].Tip != want {
			t.Errorf("tips[%d] = %q, want %q", i, tips[i].Tip, want)
		}
	}
	if tips[1].Category != DefaultTipCategory {
		t.Errorf("missing category should default, got %q", tips[1].Category)
	}
}

func TestTips_CapsAtThree(t *testing.T) {
	raw := `[
		{"tip": "one"}, {"tip": "two"}, {"tip": "three"}, {"tip": "four"}
	]`
	tips, err := Tips(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tips) != MaxTips {
		t.Errorf("expected %d tips, got %d", MaxTips, len(tips))
	}
}
