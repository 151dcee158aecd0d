package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/testpilot-ai/testpilot/pkg/schema"
)

const (
	xlsxSheetName    = "Report"
	failedFillColor  = "FF5900"
	warningFillColor = "FFEB9C"
	xlsxColumnWidth  = 28
)

// ReportXLSX writes a report as a spreadsheet workbook: metadata block,
// summary row, then one row per run, step, flaw, or issue depending on the
// variant. Failed rows and critical findings are highlighted.
func ReportXLSX(r schema.Report, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	failedStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{failedFillColor}},
	})
	if err != nil {
		return fmt.Errorf("create failed style: %w", err)
	}
	warningStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{warningFillColor}},
	})
	if err != nil {
		return fmt.Errorf("create warning style: %w", err)
	}

	meta := [][]any{
		{"Report ID", r.ID},
		{"Type", string(r.Type)},
		{"Generated At", r.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Target URL", r.TargetURL},
		{"Description", r.TargetDescription},
	}
	row := 1
	for _, line := range meta {
		cell := fmt.Sprintf("A%d", row)
		if err := f.SetSheetRow(xlsxSheetName, cell, &line); err != nil {
			return fmt.Errorf("write metadata row: %w", err)
		}
		row++
	}
	row++ // blank separator

	writeTable := func(header []any, rows [][]any, highlight func(i int) int) error {
		headerCell := fmt.Sprintf("A%d", row)
		if err := f.SetSheetRow(xlsxSheetName, headerCell, &header); err != nil {
			return fmt.Errorf("write table header: %w", err)
		}
		endCol, _ := excelize.ColumnNumberToName(len(header))
		if err := f.SetCellStyle(xlsxSheetName, headerCell, fmt.Sprintf("%s%d", endCol, row), headerStyle); err != nil {
			return fmt.Errorf("style table header: %w", err)
		}
		row++
		for i, line := range rows {
			cell := fmt.Sprintf("A%d", row)
			if err := f.SetSheetRow(xlsxSheetName, cell, &line); err != nil {
				return fmt.Errorf("write table row: %w", err)
			}
			if style := highlight(i); style != 0 {
				if err := f.SetCellStyle(xlsxSheetName, cell, fmt.Sprintf("%s%d", endCol, row), style); err != nil {
					return fmt.Errorf("style table row: %w", err)
				}
			}
			row++
		}
		row++
		return nil
	}

	switch {
	case r.UI != nil:
		summary := [][]any{{r.UI.Summary.TotalTests, r.UI.Summary.Passed, r.UI.Summary.Failed, r.UI.Summary.Pending}}
		if err := writeTable([]any{"Total", "Passed", "Failed", "Pending"}, summary, func(int) int { return 0 }); err != nil {
			return err
		}
		rows := make([][]any, len(r.UI.TestRuns))
		for i, run := range r.UI.TestRuns {
			outcome, details := "error", run.ErrorDetails
			if run.SimulatedResult != nil {
				outcome = string(run.SimulatedResult.Status)
				details = run.SimulatedResult.ActualResult
			}
			rows[i] = []any{run.ID, run.Name, string(run.RunStatus), outcome, details}
		}
		return finishXLSX(f, path, writeTable([]any{"ID", "Name", "Run Status", "Outcome", "Details"}, rows, func(i int) int {
			run := r.UI.TestRuns[i]
			if run.ErrorDetails != "" || (run.SimulatedResult != nil && run.SimulatedResult.Status == schema.ResultFailed) {
				return failedStyle
			}
			return 0
		}))

	case r.API != nil:
		info := [][]any{{r.API.Method, r.API.SimulatedStatusCode, string(r.API.OverallStatus)}}
		if err := writeTable([]any{"Method", "Simulated Status Code", "Overall Status"}, info, func(int) int { return 0 }); err != nil {
			return err
		}
		rows := make([][]any, len(r.API.ConceptualTestSteps))
		for i, step := range r.API.ConceptualTestSteps {
			rows[i] = []any{step.Step, string(step.Status), step.Details}
		}
		return finishXLSX(f, path, writeTable([]any{"Step", "Status", "Details"}, rows, func(i int) int {
			if r.API.ConceptualTestSteps[i].Status == schema.ResultFailed {
				return failedStyle
			}
			return 0
		}))

	case r.Load != nil:
		info := [][]any{{r.Load.InputFileName, r.Load.SummaryMessage}}
		return finishXLSX(f, path, writeTable([]any{"Capture File", "Summary"}, info, func(int) int { return 0 }))

	case r.Accessibility != nil:
		s := r.Accessibility.Summary
		summary := [][]any{{s.TotalIssues, s.Critical, s.Serious, s.Moderate, s.Minor}}
		if err := writeTable([]any{"Total", "Critical", "Serious", "Moderate", "Minor"}, summary, func(int) int { return 0 }); err != nil {
			return err
		}
		rows := make([][]any, len(r.Accessibility.Issues))
		for i, issue := range r.Accessibility.Issues {
			rows[i] = []any{issue.ID, string(issue.Severity), issue.WCAGCriteria, issue.Description, issue.ElementSnippet, issue.Suggestion}
		}
		return finishXLSX(f, path, writeTable([]any{"ID", "Severity", "WCAG", "Description", "Element", "Suggestion"}, rows, func(i int) int {
			switch r.Accessibility.Issues[i].Severity {
			case schema.SeverityCritical:
				return failedStyle
			case schema.SeveritySerious:
				return warningStyle
			}
			return 0
		}))
	}

	return fmt.Errorf("report %s has no variant body", r.ID)
}

func finishXLSX(f *excelize.File, path string, tableErr error) error {
	if tableErr != nil {
		return tableErr
	}
	if err := f.SetColWidth(xlsxSheetName, "A", "F", xlsxColumnWidth); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}
