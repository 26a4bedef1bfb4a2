// Package providers wraps the outbound calls to third-party services (job
// search, economic indicators, generative text, market quotes) and normalizes
// their response shapes into this service's own types. A failed call never
// escapes as a panic or a provider-specific error: every adapter returns
// either a normalized payload or an *Error the handler can branch on.
package providers

import (
	"fmt"
	"net/http"
	"time"
)

// Every outbound call gets one attempt with a bounded timeout; there is no
// retry policy.
const defaultTimeout = 10 * time.Second

// Error is the uniform failure descriptor for all adapters.
type Error struct {
	Provider string
	Message  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

func newError(provider, format string, args ...any) *Error {
	return &Error{Provider: provider, Message: fmt.Sprintf(format, args...)}
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: defaultTimeout}
}
