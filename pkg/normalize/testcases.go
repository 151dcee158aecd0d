package normalize

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/testpilot-ai/testpilot/pkg/schema"
)

// MaxGeneratedCases caps a generation batch regardless of how many entries
// the model returns.
const MaxGeneratedCases = 10

// MaxTips caps the tips operation at the requested count of three.
const MaxTips = 3

// Fixed placeholder defaults for generated test cases.
const (
	DefaultCaseDescription = "No description provided."
	DefaultCaseStep        = "No steps provided."
	DefaultExpectedResult  = "No expected result provided."
	DefaultPytestSnippet   = "# AI did not provide a Pytest snippet."
	DefaultRobotSnippet    = "# AI did not provide a Robot Framework snippet."
	DefaultActualResult    = "Simulation did not provide an actual result."
	DefaultTipCategory     = "General"
)

type looseTestCase struct {
	ID               any `json:"id"`
	Name             any `json:"name"`
	Description      any `json:"description"`
	StepsToReproduce any `json:"stepsToReproduce"`
	ExpectedResult   any `json:"expectedResult"`
	PytestSnippet    any `json:"pytestSnippet"`
	RobotSnippet     any `json:"robotSnippet"`
}

// TestCases normalizes a generation response into fully-defaulted test
// cases. Every field absent or of the wrong type is replaced; the batch is
// truncated to MaxGeneratedCases. Zero usable entries is not an error here —
// the gateway signals it as an empty result.
func TestCases(raw string) ([]schema.TestCase, error) {
	var items []looseTestCase
	if err := ExtractJSON(raw, "UI test case generation", &items); err != nil {
		return nil, err
	}

	if len(items) > MaxGeneratedCases {
		items = items[:MaxGeneratedCases]
	}

	cases := make([]schema.TestCase, 0, len(items))
	for i, item := range items {
		steps, ok := strList(item.StepsToReproduce)
		if !ok {
			steps = []string{DefaultCaseStep}
		}
		cases = append(cases, schema.TestCase{
			ID:               strOr(item.ID, fmt.Sprintf("tc-ui-%s", uuid.NewString())),
			Name:             strOr(item.Name, fmt.Sprintf("Generated UI Test Case %d", i+1)),
			Description:      strOr(item.Description, DefaultCaseDescription),
			StepsToReproduce: steps,
			ExpectedResult:   strOr(item.ExpectedResult, DefaultExpectedResult),
			PytestSnippet:    strOr(item.PytestSnippet, DefaultPytestSnippet),
			RobotSnippet:     strOr(item.RobotSnippet, DefaultRobotSnippet),
		})
	}
	return cases, nil
}

type looseSimulation struct {
	TestCaseID        any `json:"testCaseId"`
	Status            any `json:"status"`
	ActualResult      any `json:"actualResult"`
	HealingSuggestion any `json:"healingSuggestion"`
}

// Simulation normalizes one simulated-execution response for the given test
// case. A status that is not exactly passed/failed defaults to failed.
func Simulation(raw string, tc schema.TestCase) (schema.SimulatedTestResult, error) {
	var loose looseSimulation
	context := fmt.Sprintf("UI test simulation for %s", tc.ID)
	if err := ExtractJSON(raw, context, &loose); err != nil {
		return schema.SimulatedTestResult{}, err
	}

	status := schema.ResultFailed
	if s, ok := str(loose.Status); ok && (s == string(schema.ResultPassed) || s == string(schema.ResultFailed)) {
		status = schema.ResultStatus(s)
	}

	return schema.SimulatedTestResult{
		TestCaseID:        strOr(loose.TestCaseID, tc.ID),
		Status:            status,
		ActualResult:      strOr(loose.ActualResult, DefaultActualResult),
		HealingSuggestion: strOr(loose.HealingSuggestion, ""),
	}, nil
}

// Tips normalizes the tips response: entries without a usable tip string are
// dropped, order is preserved, and at most MaxTips are returned.
func Tips(raw string) ([]schema.AutomationTip, error) {
	var items []any
	if err := ExtractJSON(raw, "general automation tips", &items); err != nil {
		return nil, err
	}

	tips := make([]schema.AutomationTip, 0, MaxTips)
	for i, item := range items {
		if len(tips) == MaxTips {
			break
		}
		if !schema.ValidTipEntry(item) {
			continue
		}
		entry := item.(map[string]any)
		tips = append(tips, schema.AutomationTip{
			ID:       strOr(entry["id"], fmt.Sprintf("tip-%s-%d", uuid.NewString(), i)),
			Tip:      strOr(entry["tip"], ""),
			Category: strOr(entry["category"], DefaultTipCategory),
		})
	}
	return tips, nil
}
