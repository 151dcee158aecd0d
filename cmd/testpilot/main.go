// Command testpilot is the conceptual testing studio CLI: AI-generated UI
// test cases with simulated execution, conceptual API and load tests, code
// security scans, accessibility checks, and a persistent report store.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/testpilot-ai/testpilot/pkg/ai"
	"github.com/testpilot-ai/testpilot/pkg/config"
	"github.com/testpilot-ai/testpilot/pkg/mcpserver"
	"github.com/testpilot-ai/testpilot/pkg/schema"
	"github.com/testpilot-ai/testpilot/pkg/store"
	"github.com/testpilot-ai/testpilot/pkg/tui"
)

// Version is set at build time via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

var verbose bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "testpilot",
	Short: "AI-assisted conceptual testing studio",
	Long: "testpilot — conceptual UI test design with simulated execution, API and load\n" +
		"test conceptualization, code security scans, and accessibility checks.\n" +
		"All outcomes are AI-imagined; no browser, no HTTP calls to the target, no load.",
	Version:       fmt.Sprintf("%s (%s)", version, commit),
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(studioCmd, apiCmd, loadtestCmd, scanCmd, a11yCmd, tipsCmd, reportsCmd, mcpCmd, schemaCmd)
}

func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}
	return log
}

// setup wires the shared application surface: resolved config, the AI
// gateway (unconfigured when no API key is present), and the report store.
func setup() (*config.Config, *ai.Gateway, store.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	client, err := cfg.Client()
	if err != nil {
		return nil, nil, nil, err
	}
	log := newLogger()
	gateway := ai.New(client, log)
	if !gateway.Configured() {
		log.Warn("no GEMINI_API_KEY set: AI features are disabled")
	}
	return cfg, gateway, store.NewFileStore(cfg.StorePath), nil
}

// --- studio ---

var studioCmd = &cobra.Command{
	Use:   "studio",
	Short: "Launch the interactive UI Test Studio",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, gateway, reports, err := setup()
		if err != nil {
			return err
		}
		return tui.Run(gateway, reports)
	},
}

// --- mcp ---

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the testing operations as MCP tools over stdio",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, gateway, reports, err := setup()
		if err != nil {
			return err
		}
		s := mcpserver.NewServer(version, gateway, reports)
		if err := server.ServeStdio(s); err != nil {
			return fmt.Errorf("mcp server: %w", err)
		}
		return nil
	},
}

// --- schema ---

var schemaCmd = &cobra.Command{
	Use:   "schema [name]",
	Short: "Print the declared JSON output schema for an AI operation result",
	Long: "Print the JSON Schema each operation declares for its response.\n" +
		"Without a name, lists the available schemas.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			fmt.Println(strings.Join(schema.OutputSchemaNames(), "\n"))
			return nil
		}
		data, err := schema.NamedOutputSchema(args[0])
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}
