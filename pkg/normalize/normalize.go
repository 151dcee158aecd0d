// Package normalize turns the model's loosely-structured text responses into
// fully-populated typed records. Parsing is strict — malformed JSON fails the
// operation — but every recognized field is optional until proven present and
// falls back to a documented deterministic default.
package normalize

import (
	"encoding/json"
	"fmt"
	"strings"
)

// MalformedResponseError reports that the model's text could not be parsed
// into the declared structure. It carries the operation-context label and the
// original raw text for diagnosis. Never retried automatically, never
// partially trusted.
type MalformedResponseError struct {
	Context string
	Raw     string
	Err     error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("AI returned an invalid JSON format for %s: %v", e.Context, e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// ExtractJSON strips an optional code fence from raw, then strictly decodes
// the remainder into v. There is no best-effort repair of broken structure.
func ExtractJSON(raw, context string, v any) error {
	jsonStr := stripOuterCodeFence(raw)
	if err := json.Unmarshal([]byte(jsonStr), v); err != nil {
		return &MalformedResponseError{Context: context, Raw: raw, Err: err}
	}
	return nil
}

// stripOuterCodeFence removes a wrapping ```...``` fence (optionally tagged
// "json") if present, keeping only the interior.
func stripOuterCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	if idx := strings.Index(trimmed, "\n"); idx != -1 {
		trimmed = trimmed[idx+1:]
	} else {
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimPrefix(trimmed, "json")
	}
	if last := strings.LastIndex(trimmed, "```"); last != -1 {
		trimmed = trimmed[:last]
	}
	return strings.TrimSpace(trimmed)
}

// str extracts a non-empty string from a loosely-typed field.
func str(v any) (string, bool) {
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// strOr returns the field's string value or the fallback.
func strOr(v any, fallback string) string {
	if s, ok := str(v); ok {
		return s
	}
	return fallback
}

// strList extracts a non-empty list of strings. Any non-string element or an
// empty list disqualifies the whole field.
func strList(v any) ([]string, bool) {
	items, ok := v.([]any)
	if !ok || len(items) == 0 {
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

// num extracts a numeric field as an int. JSON numbers decode as float64.
func num(v any) (int, bool) {
	f, ok := v.(float64)
	if !ok {
		return 0, false
	}
	return int(f), true
}
