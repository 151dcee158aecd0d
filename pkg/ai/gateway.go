// Package ai is the operation gateway: one function per AI-backed capability.
// Each call is a single request/response round trip — the prompt declares the
// expected output schema, the client returns raw text, and the normalizer
// produces a fully-populated typed record. Nothing here retries; a retry is
// always a fresh user-initiated invocation.
package ai

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/testpilot-ai/testpilot/pkg/gemini"
	"github.com/testpilot-ai/testpilot/pkg/normalize"
	"github.com/testpilot-ai/testpilot/pkg/schema"
)

// ErrEmptyResult reports that an operation succeeded but produced zero usable
// items. It is a user-facing failure requiring a new attempt, not a crash.
var ErrEmptyResult = errors.New("the AI did not generate any usable items")

// Per-operation sampling configurations. Fixed by design; the code scan and
// accessibility paths use stricter content-safety filtering because they
// process arbitrary pasted input.
var (
	casesSampling    = gemini.SamplingConfig{Temperature: 0.6, TopP: 0.95, TopK: 40}
	simulateSampling = gemini.SamplingConfig{Temperature: 0.6, TopP: 0.9, TopK: 40}
	tipsSampling     = gemini.SamplingConfig{Temperature: 0.7, TopP: 0.9, TopK: 50}
	apiSampling      = gemini.SamplingConfig{Temperature: 0.5, TopP: 0.95, TopK: 40}
	loadSampling     = gemini.SamplingConfig{Temperature: 0.6, TopP: 0.95, TopK: 50}
	scanSampling     = gemini.SamplingConfig{Temperature: 0.3, TopP: 0.95, TopK: 40, StrictSafety: true}
	a11ySampling     = gemini.SamplingConfig{Temperature: 0.5, TopP: 0.95, TopK: 50, StrictSafety: true}
)

// Gateway exposes the AI-backed operations over a configured client.
type Gateway struct {
	client gemini.Client
	log    *logrus.Logger
}

// New creates a gateway. A nil client marks the unconfigured state: every
// operation fails immediately with gemini.ErrNotConfigured and no network
// call is made.
func New(client gemini.Client, log *logrus.Logger) *Gateway {
	if log == nil {
		log = logrus.New()
	}
	return &Gateway{client: client, log: log}
}

// Configured reports whether AI-backed operations are available.
func (g *Gateway) Configured() bool { return g.client != nil }

func (g *Gateway) generate(ctx context.Context, op, prompt string, schemaTarget any, schemaTitle string, cfg gemini.SamplingConfig) (string, error) {
	if g.client == nil {
		return "", gemini.ErrNotConfigured
	}

	hint := ""
	if schemaTarget != nil {
		data, err := schema.OutputSchema(schemaTarget, schemaTitle)
		if err != nil {
			g.log.WithError(err).WithField("operation", op).Warn("output schema generation failed; prompting without hint")
		} else {
			hint = string(data)
		}
	}

	start := time.Now()
	raw, err := g.client.Generate(ctx, prompt, hint, cfg)
	entry := g.log.WithFields(logrus.Fields{
		"operation": op,
		"model":     g.client.ModelName(),
		"duration":  time.Since(start).Round(time.Millisecond),
	})
	if err != nil {
		entry.WithError(err).Warn("AI operation failed")
		return "", err
	}
	entry.Debug("AI operation complete")
	return raw, nil
}

// GenerateTestCases asks for 3-5 conceptual end-to-end UI test cases and
// tolerates any count up to the normalizer's cap. Zero usable cases is
// reported as ErrEmptyResult.
func (g *Gateway) GenerateTestCases(ctx context.Context, url, description string) ([]schema.TestCase, error) {
	raw, err := g.generate(ctx, "generate-test-cases", generateCasesPrompt(url, description),
		&schema.TestCase{}, "UI Test Case", casesSampling)
	if err != nil {
		return nil, err
	}
	cases, err := normalize.TestCases(raw)
	if err != nil {
		return nil, err
	}
	if len(cases) == 0 {
		return nil, ErrEmptyResult
	}
	return cases, nil
}

// SimulateTestExecution simulates one test case's run. Stateless per call;
// the target URL is contextual only and the case's code snippets are never
// part of the request.
func (g *Gateway) SimulateTestExecution(ctx context.Context, targetURL string, tc schema.TestCase) (schema.SimulatedTestResult, error) {
	raw, err := g.generate(ctx, "simulate-execution", simulatePrompt(targetURL, tc),
		&schema.SimulatedTestResult{}, "Simulated Test Result", simulateSampling)
	if err != nil {
		return schema.SimulatedTestResult{}, err
	}
	return normalize.Simulation(raw, tc)
}

// GeneralAutomationTips requests exactly three tips and tolerates fewer.
func (g *Gateway) GeneralAutomationTips(ctx context.Context) ([]schema.AutomationTip, error) {
	raw, err := g.generate(ctx, "automation-tips", tipsPrompt(),
		&schema.AutomationTip{}, "Test Automation Tip", tipsSampling)
	if err != nil {
		return nil, err
	}
	return normalize.Tips(raw)
}

// APITestRequest carries the user inputs for API conceptualization. Headers
// and body are already-serialized previews, never structured objects.
type APITestRequest struct {
	URL            string
	Method         string
	HeadersPreview string
	BodyPreview    string
	Description    string
}

// ConceptualizeAPITest produces a conceptual API test result.
func (g *Gateway) ConceptualizeAPITest(ctx context.Context, req APITestRequest) (schema.APIConceptualResult, error) {
	raw, err := g.generate(ctx, "api-concept",
		apiConceptPrompt(req.URL, req.Method, req.HeadersPreview, req.BodyPreview, req.Description),
		&schema.APIConceptualResult{}, "Conceptual API Test Result", apiSampling)
	if err != nil {
		return schema.APIConceptualResult{}, err
	}
	return normalize.APIConcept(raw)
}

// GenerateLoadTestPlan synthesizes a conceptual JMeter plan from the target
// URL and the capture file's NAME. The capture's contents are never received
// or transmitted — that is a deliberate scope boundary.
func (g *Gateway) GenerateLoadTestPlan(ctx context.Context, targetURL, captureFileName, description string) (schema.LoadPlanResult, error) {
	raw, err := g.generate(ctx, "load-test-plan",
		loadPlanPrompt(targetURL, captureFileName, description),
		&schema.LoadPlanResult{}, "Conceptual Load Test Plan", loadSampling)
	if err != nil {
		return schema.LoadPlanResult{}, err
	}
	return normalize.LoadPlan(raw, targetURL, captureFileName)
}

// ScanCodeForFlaws runs a conceptual security scan over pasted code, using
// the lowest creativity setting of any operation.
func (g *Gateway) ScanCodeForFlaws(ctx context.Context, code, fileNameHint string) (schema.CodeScanResult, error) {
	raw, err := g.generate(ctx, "code-scan", codeScanPrompt(code, fileNameHint),
		&schema.CodeScanResult{}, "Code Security Scan Result", scanSampling)
	if err != nil {
		return schema.CodeScanResult{}, err
	}
	result, err := normalize.CodeScan(raw)
	if err != nil {
		return schema.CodeScanResult{}, err
	}
	result.FileName = fileNameHint
	result.ScannedAt = time.Now().UTC()
	return result, nil
}

// ConceptualizeAccessibilityCheck requests 5-10 conceptual WCAG issues and
// tolerates any count; the summary is recomputed from the validated list.
func (g *Gateway) ConceptualizeAccessibilityCheck(ctx context.Context, url, focusDescription string) (schema.AccessibilityResult, error) {
	raw, err := g.generate(ctx, "accessibility-check", accessibilityPrompt(url, focusDescription),
		&schema.AccessibilityResult{}, "Conceptual Accessibility Result", a11ySampling)
	if err != nil {
		return schema.AccessibilityResult{}, err
	}
	return normalize.Accessibility(raw)
}
