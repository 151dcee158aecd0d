package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/testpilot-ai/testpilot/pkg/ai"
	"github.com/testpilot-ai/testpilot/pkg/export"
	"github.com/testpilot-ai/testpilot/pkg/report"
)

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// --- api ---

var apiFlags struct {
	url         string
	method      string
	headers     string
	body        string
	description string
}

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Conceptualize an API test and save it as a report",
	Long: "Produce an AI-imagined API test: conceptual steps, a simulated status code\n" +
		"and response preview, and a script sketch. No request is ever sent.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, gateway, reports, err := setup()
		if err != nil {
			return err
		}
		result, err := gateway.ConceptualizeAPITest(cmd.Context(), ai.APITestRequest{
			URL:            apiFlags.url,
			Method:         apiFlags.method,
			HeadersPreview: apiFlags.headers,
			BodyPreview:    apiFlags.body,
			Description:    apiFlags.description,
		})
		if err != nil {
			return err
		}
		rep := report.NewAPIReport(apiFlags.url, apiFlags.description, apiFlags.method,
			apiFlags.headers, apiFlags.body, result)
		if _, err := reports.Save(rep); err != nil {
			return err
		}
		return printJSON(rep)
	},
}

// --- loadtest ---

var loadFlags struct {
	url         string
	capture     string
	description string
	out         string
}

var loadtestCmd = &cobra.Command{
	Use:   "loadtest",
	Short: "Generate a conceptual JMeter load-test plan and save it as a report",
	Long: "Synthesize a conceptual JMX plan from the target URL and the capture file's\n" +
		"NAME. The capture file is never opened and no load is ever generated.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, gateway, reports, err := setup()
		if err != nil {
			return err
		}
		result, err := gateway.GenerateLoadTestPlan(cmd.Context(), loadFlags.url, loadFlags.capture, loadFlags.description)
		if err != nil {
			return err
		}
		rep := report.NewLoadTestReport(loadFlags.url, loadFlags.description, loadFlags.capture, result)
		if _, err := reports.Save(rep); err != nil {
			return err
		}
		if loadFlags.out != "" {
			if err := export.WriteJMX(loadFlags.out, result.JMXTestPlan); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "wrote %s\n", loadFlags.out)
		}
		return printJSON(rep)
	},
}

// --- scan ---

var scanFileName string

var scanCmd = &cobra.Command{
	Use:   "scan [file]",
	Short: "Run a conceptual security scan over a code file or stdin",
	Long: "Scan code for conceptual security flaws. Results are heuristic AI output,\n" +
		"not a real static analysis, and are never persisted.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, gateway, _, err := setup()
		if err != nil {
			return err
		}

		var code []byte
		fileName := scanFileName
		if len(args) == 1 {
			code, err = os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read code file: %w", err)
			}
			if fileName == "" {
				fileName = filepath.Base(args[0])
			}
		} else {
			code, err = io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
		}
		if len(code) == 0 {
			return fmt.Errorf("no code to scan")
		}

		result, err := gateway.ScanCodeForFlaws(cmd.Context(), string(code), fileName)
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

// --- a11y ---

var a11yFlags struct {
	url   string
	focus string
	csv   string
}

var a11yCmd = &cobra.Command{
	Use:   "a11y",
	Short: "Conceptualize an accessibility check and save it as a report",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, gateway, reports, err := setup()
		if err != nil {
			return err
		}
		result, err := gateway.ConceptualizeAccessibilityCheck(cmd.Context(), a11yFlags.url, a11yFlags.focus)
		if err != nil {
			return err
		}
		rep := report.NewAccessibilityReport(a11yFlags.url, a11yFlags.focus, result)
		if _, err := reports.Save(rep); err != nil {
			return err
		}
		if a11yFlags.csv != "" {
			data, err := export.AccessibilityCSV(result.Issues)
			if err != nil {
				return err
			}
			if err := os.WriteFile(a11yFlags.csv, data, 0o644); err != nil {
				return fmt.Errorf("write CSV: %w", err)
			}
			fmt.Fprintf(os.Stderr, "wrote %s\n", a11yFlags.csv)
		}
		return printJSON(rep)
	},
}

// --- tips ---

var tipsCmd = &cobra.Command{
	Use:   "tips",
	Short: "Fetch general test-automation tips",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, gateway, _, err := setup()
		if err != nil {
			return err
		}
		tips, err := gateway.GeneralAutomationTips(cmd.Context())
		if err != nil {
			return err
		}
		for _, tip := range tips {
			fmt.Printf("[%s] %s\n", tip.Category, tip.Tip)
		}
		return nil
	},
}

func init() {
	apiCmd.Flags().StringVar(&apiFlags.url, "url", "", "API endpoint URL (required)")
	apiCmd.Flags().StringVar(&apiFlags.method, "method", "GET", "HTTP method")
	apiCmd.Flags().StringVar(&apiFlags.headers, "headers", "", "request headers preview")
	apiCmd.Flags().StringVar(&apiFlags.body, "body", "", "request body preview")
	apiCmd.Flags().StringVar(&apiFlags.description, "description", "", "test intent description")
	_ = apiCmd.MarkFlagRequired("url")

	loadtestCmd.Flags().StringVar(&loadFlags.url, "url", "", "target site URL (required)")
	loadtestCmd.Flags().StringVar(&loadFlags.capture, "capture", "", "traffic capture file name (name only)")
	loadtestCmd.Flags().StringVar(&loadFlags.description, "description", "", "load profile description")
	loadtestCmd.Flags().StringVar(&loadFlags.out, "out", "", "write the JMX plan to this path")
	_ = loadtestCmd.MarkFlagRequired("url")

	scanCmd.Flags().StringVar(&scanFileName, "filename", "", "file name hint for language detection")

	a11yCmd.Flags().StringVar(&a11yFlags.url, "url", "", "target site URL (required)")
	a11yCmd.Flags().StringVar(&a11yFlags.focus, "focus", "", "focus description")
	a11yCmd.Flags().StringVar(&a11yFlags.csv, "csv", "", "write the issue list as CSV to this path")
	_ = a11yCmd.MarkFlagRequired("url")
}
