package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"

	"github.com/testpilot-ai/testpilot/pkg/ai"
	"github.com/testpilot-ai/testpilot/pkg/gemini"
	"github.com/testpilot-ai/testpilot/pkg/schema"
)

type fakeClient struct {
	response string
	err      error
}

func (f *fakeClient) Generate(ctx context.Context, prompt, schemaHint string, cfg gemini.SamplingConfig) (string, error) {
	return f.response, f.err
}

func (f *fakeClient) ModelName() string { return "fake-model" }

type memStore struct {
	reports []schema.Report
}

func (m *memStore) List() ([]schema.Report, error) { return m.reports, nil }

func (m *memStore) Get(id string) (schema.Report, bool, error) {
	for _, r := range m.reports {
		if r.ID == id {
			return r, true, nil
		}
	}
	return schema.Report{}, false, nil
}

func (m *memStore) Save(r schema.Report) ([]schema.Report, error) {
	m.reports = append([]schema.Report{r}, m.reports...)
	return m.reports, nil
}

func (m *memStore) Delete(id string) ([]schema.Report, error) {
	kept := m.reports[:0]
	for _, r := range m.reports {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	m.reports = kept
	return kept, nil
}

func testHandlers(response string) (*Server, *memStore) {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	st := &memStore{}
	return &Server{
		gateway: ai.New(&fakeClient{response: response}, log),
		reports: st,
	}, st
}

func request(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("result has no content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content type %T", result.Content[0])
	}
	return text.Text
}

func TestHandleGenerateCases_MissingURL(t *testing.T) {
	h, _ := testHandlers(`[]`)

	result, err := h.HandleGenerateCases(context.Background(), request(map[string]any{}))
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsError {
		t.Error("expected error for missing url")
	}
}

func TestHandleGenerateCases_ReturnsCases(t *testing.T) {
	h, st := testHandlers(`[{"name": "Login works"}]`)

	result, err := h.HandleGenerateCases(context.Background(),
		request(map[string]any{"url": "https://example.com"}))
	if err != nil {
		t.Fatal(err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, result))
	}

	var payload struct {
		Count     int               `json:"count"`
		TestCases []schema.TestCase `json:"testCases"`
	}
	if err := json.Unmarshal([]byte(resultText(t, result)), &payload); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if payload.Count != 1 || payload.TestCases[0].Name != "Login works" {
		t.Errorf("payload = %+v", payload)
	}
	// Generation alone persists nothing.
	if len(st.reports) != 0 {
		t.Errorf("generate-cases must not save a report")
	}
}

func TestHandleAccessibilityCheck_SavesReport(t *testing.T) {
	h, st := testHandlers(`{"issues": [{"description": "no alt", "severity": "Critical"}]}`)

	result, err := h.HandleAccessibilityCheck(context.Background(),
		request(map[string]any{"url": "https://example.com", "focus": "images"}))
	if err != nil {
		t.Fatal(err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, result))
	}

	if len(st.reports) != 1 {
		t.Fatalf("expected 1 saved report, got %d", len(st.reports))
	}
	saved := st.reports[0]
	if saved.Type != schema.ReportAccessibility || saved.Accessibility == nil {
		t.Errorf("wrong report shape: %+v", saved)
	}
	if saved.Accessibility.Summary.Critical != 1 {
		t.Errorf("summary = %+v", saved.Accessibility.Summary)
	}
}

func TestHandleScanCode_NotPersisted(t *testing.T) {
	h, st := testHandlers(`{"summary": "clean", "flaws": []}`)

	result, err := h.HandleScanCode(context.Background(),
		request(map[string]any{"code": "print('hi')", "filename": "app.py"}))
	if err != nil {
		t.Fatal(err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, result))
	}
	if !strings.Contains(resultText(t, result), "clean") {
		t.Error("scan summary missing from response")
	}
	if len(st.reports) != 0 {
		t.Error("scan results must never be persisted")
	}
}

func TestHandleScanCode_HighSeverityFlagsError(t *testing.T) {
	h, _ := testHandlers(`{"summary": "bad", "flaws": [{"description": "SQLi", "severity": "High"}]}`)

	result, err := h.HandleScanCode(context.Background(),
		request(map[string]any{"code": "SELECT * FROM users WHERE id = " + "' + input"}))
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsError {
		t.Error("high-severity findings should flag the result")
	}
}

func TestHandleReports_Filtered(t *testing.T) {
	h, st := testHandlers(`{}`)
	st.reports = []schema.Report{
		{ID: "report-ui-1", Type: schema.ReportUI,
			UI: &schema.UIReportBody{Summary: schema.UISummary{TotalTests: 1, Failed: 1}}},
		{ID: "report-ui-2", Type: schema.ReportUI,
			UI: &schema.UIReportBody{Summary: schema.UISummary{TotalTests: 1, Passed: 1}}},
	}

	result, err := h.HandleReports(context.Background(),
		request(map[string]any{"filter": `type == "UI_TEST" && summary.failed > 0`}))
	if err != nil {
		t.Fatal(err)
	}
	out := resultText(t, result)
	if !strings.Contains(out, "report-ui-1") || strings.Contains(out, "report-ui-2") {
		t.Errorf("filter not applied: %s", out)
	}
}

func TestHandleUnconfiguredGateway(t *testing.T) {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	h := &Server{gateway: ai.New(nil, log), reports: &memStore{}}

	result, err := h.HandleGenerateCases(context.Background(),
		request(map[string]any{"url": "https://example.com"}))
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsError {
		t.Error("unconfigured gateway must surface a tool error")
	}
	if !strings.Contains(resultText(t, result), "API key") {
		t.Errorf("error should mention the missing key: %s", resultText(t, result))
	}
}
