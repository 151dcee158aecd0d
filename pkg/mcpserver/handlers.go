package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/testpilot-ai/testpilot/pkg/ai"
	"github.com/testpilot-ai/testpilot/pkg/report"
	"github.com/testpilot-ai/testpilot/pkg/schema"
)

// HandleGenerateCases implements the testpilot/generate-cases tool. It only
// generates and returns cases; simulation is a separate user journey.
func (s *Server) HandleGenerateCases(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	url, _ := args["url"].(string)
	if url == "" {
		return errorResult("url argument is required"), nil
	}
	description, _ := args["description"].(string)

	cases, err := s.gateway.GenerateTestCases(ctx, url, description)
	if err != nil {
		return errorResult(err.Error()), nil
	}
	return jsonResult(map[string]any{
		"targetUrl": url,
		"count":     len(cases),
		"testCases": cases,
	})
}

// HandleAPIConcept implements the testpilot/api-concept tool.
func (s *Server) HandleAPIConcept(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	url, _ := args["url"].(string)
	if url == "" {
		return errorResult("url argument is required"), nil
	}
	method, _ := args["method"].(string)
	if method == "" {
		method = "GET"
	}
	headers, _ := args["headers"].(string)
	body, _ := args["body"].(string)
	description, _ := args["description"].(string)

	result, err := s.gateway.ConceptualizeAPITest(ctx, ai.APITestRequest{
		URL:            url,
		Method:         method,
		HeadersPreview: headers,
		BodyPreview:    body,
		Description:    description,
	})
	if err != nil {
		return errorResult(err.Error()), nil
	}

	rep := report.NewAPIReport(url, description, method, headers, body, result)
	return s.saveAndAnswer(rep)
}

// HandleLoadPlan implements the testpilot/load-plan tool. The capture
// argument is a file NAME only; no file is ever opened.
func (s *Server) HandleLoadPlan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	url, _ := args["url"].(string)
	if url == "" {
		return errorResult("url argument is required"), nil
	}
	capture, _ := args["capture"].(string)
	description, _ := args["description"].(string)

	result, err := s.gateway.GenerateLoadTestPlan(ctx, url, capture, description)
	if err != nil {
		return errorResult(err.Error()), nil
	}

	rep := report.NewLoadTestReport(url, description, capture, result)
	return s.saveAndAnswer(rep)
}

// HandleScanCode implements the testpilot/scan-code tool. Scan results are
// ephemeral and never persisted.
func (s *Server) HandleScanCode(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	code, _ := args["code"].(string)
	if code == "" {
		return errorResult("code argument is required"), nil
	}
	fileName, _ := args["filename"].(string)

	result, err := s.gateway.ScanCodeForFlaws(ctx, code, fileName)
	if err != nil {
		return errorResult(err.Error()), nil
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return errorResult(fmt.Sprintf("encode scan result: %s", err)), nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(string(data))},
		IsError: len(result.Flaws) > 0 && highestSeverity(result.Flaws) == schema.FlawHigh,
	}, nil
}

// HandleAccessibilityCheck implements the testpilot/accessibility-check tool.
func (s *Server) HandleAccessibilityCheck(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	url, _ := args["url"].(string)
	if url == "" {
		return errorResult("url argument is required"), nil
	}
	focus, _ := args["focus"].(string)

	result, err := s.gateway.ConceptualizeAccessibilityCheck(ctx, url, focus)
	if err != nil {
		return errorResult(err.Error()), nil
	}

	rep := report.NewAccessibilityReport(url, focus, result)
	return s.saveAndAnswer(rep)
}

// HandleReports implements the testpilot/reports tool.
func (s *Server) HandleReports(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reports, err := s.reports.List()
	if err != nil {
		return errorResult(err.Error()), nil
	}

	args := req.GetArguments()
	if src, _ := args["filter"].(string); src != "" {
		reports, err = report.Filter(reports, src)
		if err != nil {
			return errorResult(err.Error()), nil
		}
	}

	type listing struct {
		ID          string            `json:"id"`
		Type        schema.ReportType `json:"reportType"`
		GeneratedAt string            `json:"generatedAt"`
		TargetURL   string            `json:"targetUrl"`
	}
	entries := make([]listing, len(reports))
	for i, r := range reports {
		entries[i] = listing{
			ID:          r.ID,
			Type:        r.Type,
			GeneratedAt: r.GeneratedAt.Format("2006-01-02 15:04:05"),
			TargetURL:   r.TargetURL,
		}
	}
	return jsonResult(map[string]any{"count": len(entries), "reports": entries})
}

// saveAndAnswer persists a report and returns it as the tool response.
func (s *Server) saveAndAnswer(rep schema.Report) (*mcp.CallToolResult, error) {
	if _, err := s.reports.Save(rep); err != nil {
		return errorResult(fmt.Sprintf("save report: %s", err)), nil
	}
	return jsonResult(rep)
}

func highestSeverity(flaws []schema.SecurityFlaw) schema.FlawSeverity {
	for _, sev := range []schema.FlawSeverity{schema.FlawHigh, schema.FlawMedium, schema.FlawLow, schema.FlawInformational} {
		for _, f := range flaws {
			if f.Severity == sev {
				return sev
			}
		}
	}
	return schema.FlawUnknown
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult(fmt.Sprintf("encode result: %s", err)), nil
	}
	return textResult(string(data)), nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(msg),
		},
		IsError: true,
	}
}
