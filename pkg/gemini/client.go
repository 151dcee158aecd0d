// Package gemini provides the opaque LLM capability used by the AI operation
// gateway: one prompt in, one text document out, no multi-turn state and no
// streaming.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultModel is the generation model used unless overridden by config.
const DefaultModel = "gemini-2.5-flash"

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// SamplingConfig is the per-operation generation configuration. Each gateway
// operation uses its own fixed values; none are user-tunable at call time.
type SamplingConfig struct {
	Temperature float64
	TopP        float64
	TopK        int
	// StrictSafety enables the stricter content-safety thresholds used by
	// operations that process arbitrary pasted input.
	StrictSafety bool
}

// Client is the LLM capability contract: a single request/response round
// trip that biases output toward one structured JSON document.
type Client interface {
	// Generate sends the prompt (with the declared output schema appended as
	// a hint) and returns the model's raw text response.
	Generate(ctx context.Context, prompt string, schemaHint string, cfg SamplingConfig) (string, error)

	// ModelName returns the model identifier for diagnostics.
	ModelName() string
}

// HTTPClient implements Client against the Gemini generateContent REST API.
type HTTPClient struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// Config holds the settings for creating an HTTP client.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
}

// NewHTTPClient creates a client from explicit config. A missing API key is
// rejected here so no operation ever reaches the network unconfigured.
func NewHTTPClient(cfg Config) (*HTTPClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNotConfigured
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	return &HTTPClient{
		APIKey:     cfg.APIKey,
		Model:      cfg.Model,
		BaseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		HTTPClient: &http.Client{Timeout: 120 * time.Second},
	}, nil
}

// generateRequest is the generateContent request body.
type generateRequest struct {
	Contents         []content       `json:"contents"`
	GenerationConfig generationCfg   `json:"generationConfig"`
	SafetySettings   []safetySetting `json:"safetySettings,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationCfg struct {
	Temperature      float64 `json:"temperature"`
	TopP             float64 `json:"topP,omitempty"`
	TopK             int     `json:"topK,omitempty"`
	ResponseMimeType string  `json:"responseMimeType"`
}

type safetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

// generateResponse is the generateContent response body.
type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

var strictSafetySettings = []safetySetting{
	{Category: "HARM_CATEGORY_HARASSMENT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
	{Category: "HARM_CATEGORY_HATE_SPEECH", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
	{Category: "HARM_CATEGORY_SEXUALLY_EXPLICIT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
	{Category: "HARM_CATEGORY_DANGEROUS_CONTENT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
}

// ModelName returns the configured model identifier.
func (c *HTTPClient) ModelName() string { return c.Model }

// Generate sends a single generateContent request and returns the response
// text. Transport and API failures come back as *TransportError.
func (c *HTTPClient) Generate(ctx context.Context, prompt string, schemaHint string, cfg SamplingConfig) (string, error) {
	if strings.TrimSpace(c.APIKey) == "" {
		return "", ErrNotConfigured
	}

	text := prompt
	if schemaHint != "" {
		text = fmt.Sprintf("%s\n\nThe response must conform to this JSON Schema:\n%s", prompt, schemaHint)
	}

	reqBody := generateRequest{
		Contents: []content{{Parts: []part{{Text: text}}}},
		GenerationConfig: generationCfg{
			Temperature:      cfg.Temperature,
			TopP:             cfg.TopP,
			TopK:             cfg.TopK,
			ResponseMimeType: "application/json",
		},
	}
	if cfg.StrictSafety {
		reqBody.SafetySettings = strictSafetySettings
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.BaseURL, c.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", &TransportError{Op: "generate", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TransportError{Op: "read response", Err: err}
	}

	var genResp generateResponse
	if err := json.Unmarshal(respBody, &genResp); err != nil {
		if resp.StatusCode != http.StatusOK {
			return "", &TransportError{Op: "generate", Err: fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(respBody))}
		}
		return "", &TransportError{Op: "decode response", Err: err}
	}

	if genResp.Error != nil {
		return "", &TransportError{Op: "generate", Err: fmt.Errorf("API error [%s]: %s", genResp.Error.Status, genResp.Error.Message)}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &TransportError{Op: "generate", Err: fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(respBody))}
	}

	if len(genResp.Candidates) == 0 {
		return "", &TransportError{Op: "generate", Err: fmt.Errorf("no candidates in response")}
	}

	var sb strings.Builder
	for _, p := range genResp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
}
