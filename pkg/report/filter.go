package report

import (
	"fmt"

	"github.com/expr-lang/expr"

	"github.com/testpilot-ai/testpilot/pkg/schema"
)

// Filter evaluates a boolean expression against each report and keeps the
// matches. The expression sees the report's metadata and a variant-specific
// summary map, e.g.:
//
//	type == "UI_TEST" && summary.failed > 0
//	type == "ACCESSIBILITY_CONCEPTUAL" && summary.critical > 0
func Filter(reports []schema.Report, src string) ([]schema.Report, error) {
	program, err := expr.Compile(src, expr.AsBool(), expr.AllowUndefinedVariables())
	if err != nil {
		return nil, fmt.Errorf("compile filter expression: %w", err)
	}

	matched := make([]schema.Report, 0, len(reports))
	for _, r := range reports {
		out, err := expr.Run(program, filterEnv(r))
		if err != nil {
			return nil, fmt.Errorf("evaluate filter for report %s: %w", r.ID, err)
		}
		if keep, ok := out.(bool); ok && keep {
			matched = append(matched, r)
		}
	}
	return matched, nil
}

func filterEnv(r schema.Report) map[string]any {
	env := map[string]any{
		"id":          r.ID,
		"type":        string(r.Type),
		"targetUrl":   r.TargetURL,
		"generatedAt": r.GeneratedAt,
		"summary":     map[string]any{},
	}

	switch {
	case r.UI != nil:
		env["summary"] = map[string]any{
			"total":   r.UI.Summary.TotalTests,
			"passed":  r.UI.Summary.Passed,
			"failed":  r.UI.Summary.Failed,
			"pending": r.UI.Summary.Pending,
		}
	case r.API != nil:
		env["summary"] = map[string]any{
			"method":        r.API.Method,
			"statusCode":    r.API.SimulatedStatusCode,
			"overallStatus": string(r.API.OverallStatus),
		}
	case r.Load != nil:
		env["summary"] = map[string]any{
			"inputFileName": r.Load.InputFileName,
		}
	case r.Accessibility != nil:
		env["summary"] = map[string]any{
			"total":    r.Accessibility.Summary.TotalIssues,
			"critical": r.Accessibility.Summary.Critical,
			"serious":  r.Accessibility.Summary.Serious,
			"moderate": r.Accessibility.Summary.Moderate,
			"minor":    r.Accessibility.Summary.Minor,
		}
	}
	return env
}
