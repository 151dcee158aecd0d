package schema

import (
	"strings"

	sjsonschema "github.com/santhosh-tekuri/jsonschema/v6"
)

// Minimal-shape gates. These decide whether a loosely-typed entry is kept or
// silently dropped; they never hard-fail an operation. Only the one
// truly-required field per entry kind is enforced — everything else is
// defaulted downstream.

const tipShapeJSON = `{
  "type": "object",
  "required": ["tip"],
  "properties": {
    "tip": {"type": "string", "minLength": 1}
  }
}`

// Stored report entries missing their identity fields are filtered out of
// store listings rather than surfaced as corrupt records.
const storedReportShapeJSON = `{
  "type": "object",
  "required": ["id", "reportType", "generatedAt"],
  "properties": {
    "id": {"type": "string", "minLength": 1},
    "reportType": {"type": "string", "minLength": 1},
    "generatedAt": {"type": "string", "minLength": 1}
  }
}`

var (
	tipShape          = mustCompileShape("tip.json", tipShapeJSON)
	storedReportShape = mustCompileShape("stored-report.json", storedReportShapeJSON)
)

func mustCompileShape(name, src string) *sjsonschema.Schema {
	doc, err := sjsonschema.UnmarshalJSON(strings.NewReader(src))
	if err != nil {
		panic("schema: parse " + name + ": " + err.Error())
	}
	c := sjsonschema.NewCompiler()
	if err := c.AddResource(name, doc); err != nil {
		panic("schema: add " + name + ": " + err.Error())
	}
	s, err := c.Compile(name)
	if err != nil {
		panic("schema: compile " + name + ": " + err.Error())
	}
	return s
}

// ValidTipEntry reports whether a decoded tip entry carries a usable tip
// string.
func ValidTipEntry(v any) bool {
	return tipShape.Validate(v) == nil
}

// ValidStoredReport reports whether a decoded store entry carries the
// identifier, type, and timestamp every persisted report must have.
func ValidStoredReport(v any) bool {
	return storedReportShape.Validate(v) == nil
}
