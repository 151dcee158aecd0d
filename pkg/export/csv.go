// Package export writes downloadable artifacts for saved reports: the
// accessibility CSV, standalone HTML snapshots, JMeter plan files, and XLSX
// workbooks.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/testpilot-ai/testpilot/pkg/schema"
)

// accessibilityCSVHeader is the fixed column set of the accessibility
// export. Embedded quotes in any field are doubled per standard CSV quoting.
var accessibilityCSVHeader = []string{
	"id", "severity", "wcagCriteria", "description", "elementSnippet", "suggestion",
}

// AccessibilityCSV renders the issue list as a CSV document.
func AccessibilityCSV(issues []schema.AccessibilityIssue) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(accessibilityCSVHeader); err != nil {
		return nil, fmt.Errorf("write CSV header: %w", err)
	}
	for _, issue := range issues {
		record := []string{
			issue.ID,
			string(issue.Severity),
			issue.WCAGCriteria,
			issue.Description,
			issue.ElementSnippet,
			issue.Suggestion,
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write CSV record %s: %w", issue.ID, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush CSV: %w", err)
	}
	return buf.Bytes(), nil
}
