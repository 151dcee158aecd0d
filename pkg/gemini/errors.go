package gemini

import (
	"errors"
	"fmt"
)

// ErrNotConfigured is returned before any network I/O when the API key is
// absent. It is a recognized user-visible state, not a crash: report viewing
// and deletion keep working without a key.
var ErrNotConfigured = errors.New("gemini API key is not configured")

// TransportError wraps a network or HTTP-level failure calling the model.
// It is surfaced verbatim to the user and never retried automatically.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("gemini %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
