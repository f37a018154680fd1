package types

import (
	"bytes"
	"encoding/json"
	"net/http"
)

// APIError is the body of every non-2xx response written by the proxy.
type APIError struct {
	Error   string          `json:"error"`
	Message string          `json:"message,omitempty"`
	Code    *int            `json:"code,omitempty"`
	Stderr  *string         `json:"stderr,omitempty"`
	Details json.RawMessage `json:"details,omitempty"`
}

// Error labels surfaced to callers.
const (
	ErrLabelMethodNotAllowed = "Method not allowed"
	ErrLabelInvalidJSON      = "Invalid JSON body"
	ErrLabelMissingPrompt    = "Missing prompt"
	ErrLabelUnauthorized     = "Unauthorized"
	ErrLabelTimeout          = "Timeout"
	ErrLabelSpawnFailed      = "Spawn failed"
	ErrLabelProcessFailed    = "Failed"
	ErrLabelUpstream         = "API error"
	ErrLabelTransport        = "API request failed"
	ErrLabelParse            = "Parse error"
	ErrLabelNoAPIKey         = "ANTHROPIC_API_KEY not configured"
	ErrLabelInternal         = "Internal error"
)

// NewAPIError creates a new API error.
func NewAPIError(label string) *APIError {
	return &APIError{Error: label}
}

// NewAPIErrorWithMessage creates a new API error carrying a diagnostic message.
func NewAPIErrorWithMessage(label, message string) *APIError {
	return &APIError{Error: label, Message: message}
}

// NewProcessError describes a subprocess that exited with a nonzero code.
// Stderr is always present in the body, even when empty.
func NewProcessError(code int, stderr string) *APIError {
	return &APIError{
		Error:  ErrLabelProcessFailed,
		Code:   &code,
		Stderr: &stderr,
	}
}

// NewUpstreamError relays an upstream error body.
func NewUpstreamError(details json.RawMessage) *APIError {
	return &APIError{Error: ErrLabelUpstream, Details: details}
}

// WriteError writes an API error to the response writer.
func WriteError(w http.ResponseWriter, statusCode int, err *APIError) {
	WriteJSON(w, statusCode, err)
}

// WriteJSON writes v as a JSON body with the given status code. The body is
// encoded before the header goes out; an unencodable value becomes a 500.
func WriteJSON(w http.ResponseWriter, statusCode int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		buf.Reset()
		statusCode = http.StatusInternalServerError
		_ = json.NewEncoder(&buf).Encode(NewAPIErrorWithMessage(ErrLabelInternal, err.Error()))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_, _ = w.Write(buf.Bytes())
}
