// Package mcpserver exposes the AI-backed testing operations as MCP tools so
// agent hosts can drive them over stdio. Every report-producing tool persists
// its result to the report store before answering.
package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/testpilot-ai/testpilot/pkg/ai"
	"github.com/testpilot-ai/testpilot/pkg/store"
)

// Server bundles the MCP server with the gateway and store it serves.
type Server struct {
	gateway *ai.Gateway
	reports store.Store
}

// NewServer creates an MCP server with the testing tools registered.
func NewServer(version string, gateway *ai.Gateway, reports store.Store) *server.MCPServer {
	h := &Server{gateway: gateway, reports: reports}

	s := server.NewMCPServer(
		"testpilot",
		version,
		server.WithToolCapabilities(true),
	)

	s.AddTool(
		mcp.NewTool("testpilot/generate-cases",
			mcp.WithDescription("Generate conceptual end-to-end UI test cases for a target URL"),
			mcp.WithString("url", mcp.Required(), mcp.Description("Target site URL")),
			mcp.WithString("description", mcp.Description("Optional focus description")),
		),
		h.HandleGenerateCases,
	)

	s.AddTool(
		mcp.NewTool("testpilot/api-concept",
			mcp.WithDescription("Conceptualize an API test: simulated steps, status code, and a script sketch"),
			mcp.WithString("url", mcp.Required(), mcp.Description("API endpoint URL")),
			mcp.WithString("method", mcp.Description("HTTP method (default GET)")),
			mcp.WithString("headers", mcp.Description("Request headers preview, already serialized")),
			mcp.WithString("body", mcp.Description("Request body preview, already serialized")),
			mcp.WithString("description", mcp.Description("Optional test intent description")),
		),
		h.HandleAPIConcept,
	)

	s.AddTool(
		mcp.NewTool("testpilot/load-plan",
			mcp.WithDescription("Generate a conceptual JMeter load-test plan; only the capture file's name is used"),
			mcp.WithString("url", mcp.Required(), mcp.Description("Target site URL")),
			mcp.WithString("capture", mcp.Description("Traffic capture file name (name only, contents never read)")),
			mcp.WithString("description", mcp.Description("Optional load profile description")),
		),
		h.HandleLoadPlan,
	)

	s.AddTool(
		mcp.NewTool("testpilot/scan-code",
			mcp.WithDescription("Run a conceptual security scan over a pasted code snippet"),
			mcp.WithString("code", mcp.Required(), mcp.Description("Code to scan")),
			mcp.WithString("filename", mcp.Description("File name hint for language detection")),
		),
		h.HandleScanCode,
	)

	s.AddTool(
		mcp.NewTool("testpilot/accessibility-check",
			mcp.WithDescription("Conceptualize a WCAG accessibility check for a target URL"),
			mcp.WithString("url", mcp.Required(), mcp.Description("Target site URL")),
			mcp.WithString("focus", mcp.Description("Optional focus description")),
		),
		h.HandleAccessibilityCheck,
	)

	s.AddTool(
		mcp.NewTool("testpilot/reports",
			mcp.WithDescription("List saved reports, newest first"),
			mcp.WithString("filter", mcp.Description("Optional filter expression, e.g. type == \"UI_TEST\" && summary.failed > 0")),
		),
		h.HandleReports,
	)

	return s
}
