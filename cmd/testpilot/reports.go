package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/testpilot-ai/testpilot/pkg/export"
	"github.com/testpilot-ai/testpilot/pkg/report"
)

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "List, show, delete, and export saved reports",
}

var listFilter string

var reportsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved reports, newest first",
	Long: "List saved reports. The optional filter is a boolean expression over the\n" +
		"report metadata and its variant summary, e.g.:\n" +
		"  --filter 'type == \"UI_TEST\" && summary.failed > 0'\n" +
		"  --filter 'type == \"ACCESSIBILITY_CONCEPTUAL\" && summary.critical > 0'",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, reports, err := setup()
		if err != nil {
			return err
		}
		all, err := reports.List()
		if err != nil {
			return err
		}
		if listFilter != "" {
			all, err = report.Filter(all, listFilter)
			if err != nil {
				return err
			}
		}
		if len(all) == 0 {
			fmt.Println("no reports")
			return nil
		}
		for _, r := range all {
			fmt.Printf("%-44s  %-26s  %s  %s\n",
				r.ID, r.Type, r.GeneratedAt.Format("2006-01-02 15:04"),
				runewidth.Truncate(r.TargetURL, 48, "…"))
		}
		return nil
	},
}

var reportsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one report as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, reports, err := setup()
		if err != nil {
			return err
		}
		r, ok, err := reports.Get(args[0])
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("no report with id %s", args[0])
		}
		return printJSON(r)
	},
}

var reportsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, reports, err := setup()
		if err != nil {
			return err
		}
		remaining, err := reports.Delete(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("deleted %s (%d reports remain)\n", args[0], len(remaining))
		return nil
	},
}

var exportFlags struct {
	format string
	out    string
}

var reportsExportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Export a report as html, xlsx, jmx, or csv",
	Long: "Export a saved report. Formats:\n" +
		"  html — standalone snapshot of any variant\n" +
		"  xlsx — spreadsheet workbook of any variant\n" +
		"  jmx  — the JMeter plan of a load-test report\n" +
		"  csv  — the issue list of an accessibility report",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, reports, err := setup()
		if err != nil {
			return err
		}
		r, ok, err := reports.Get(args[0])
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("no report with id %s", args[0])
		}

		out := exportFlags.out
		if out == "" {
			out = r.ID + "." + exportFlags.format
		}

		switch exportFlags.format {
		case "html":
			data, err := export.ReportHTML(r)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write HTML: %w", err)
			}
		case "xlsx":
			if err := export.ReportXLSX(r, out); err != nil {
				return err
			}
		case "jmx":
			if r.Load == nil {
				return fmt.Errorf("report %s is not a load-test report", r.ID)
			}
			if err := export.WriteJMX(out, r.Load.JMXTestPlan); err != nil {
				return err
			}
		case "csv":
			if r.Accessibility == nil {
				return fmt.Errorf("report %s is not an accessibility report", r.ID)
			}
			data, err := export.AccessibilityCSV(r.Accessibility.Issues)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write CSV: %w", err)
			}
		default:
			return fmt.Errorf("unknown format %q — use html, xlsx, jmx, or csv", exportFlags.format)
		}

		fmt.Printf("wrote %s\n", out)
		return nil
	},
}

func init() {
	reportsListCmd.Flags().StringVar(&listFilter, "filter", "", "boolean filter expression")
	reportsExportCmd.Flags().StringVar(&exportFlags.format, "format", "html", "export format: html, xlsx, jmx, csv")
	reportsExportCmd.Flags().StringVar(&exportFlags.out, "out", "", "output path (defaults to <id>.<format>)")
	reportsCmd.AddCommand(reportsListCmd, reportsShowCmd, reportsDeleteCmd, reportsExportCmd)
}
