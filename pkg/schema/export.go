package schema

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/invopop/jsonschema"
)

// OutputSchema produces a JSON Schema Draft 2020-12 document from a Go type.
// Definitions are inlined so the document can be embedded in a prompt as the
// declared output shape for one operation.
func OutputSchema(v any, title string) ([]byte, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = true

	s := r.Reflect(v)
	s.Title = title
	s.Version = ""

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema for %q: %w", title, err)
	}
	return data, nil
}

// outputSchemaTargets maps exported schema names to the Go type each
// operation declares as its output shape.
var outputSchemaTargets = map[string]struct {
	target any
	title  string
}{
	"test-case":            {&TestCase{}, "UI Test Case"},
	"simulated-result":     {&SimulatedTestResult{}, "Simulated Test Result"},
	"automation-tip":       {&AutomationTip{}, "Test Automation Tip"},
	"api-concept":          {&APIConceptualResult{}, "Conceptual API Test Result"},
	"load-plan":            {&LoadPlanResult{}, "Conceptual Load Test Plan"},
	"code-scan":            {&CodeScanResult{}, "Code Security Scan Result"},
	"accessibility-result": {&AccessibilityResult{}, "Conceptual Accessibility Result"},
}

// NamedOutputSchema exports the declared output schema registered under name.
func NamedOutputSchema(name string) ([]byte, error) {
	entry, ok := outputSchemaTargets[name]
	if !ok {
		return nil, fmt.Errorf("unknown output schema %q (known: %v)", name, OutputSchemaNames())
	}
	return OutputSchema(entry.target, entry.title)
}

// OutputSchemaNames lists the exportable schema names, sorted.
func OutputSchemaNames() []string {
	names := make([]string, 0, len(outputSchemaTargets))
	for name := range outputSchemaTargets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
