package provider

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrTimeout is returned when the downstream call outlived its deadline.
	ErrTimeout = errors.New("downstream call timed out")

	// ErrNoAPIKey is returned when the remote invoker has no API key configured.
	ErrNoAPIKey = errors.New("no API key configured")
)

// SpawnError reports that the subprocess could not be started.
type SpawnError struct {
	Err error
}

func (e *SpawnError) Error() string { return "spawn failed: " + e.Err.Error() }
func (e *SpawnError) Unwrap() error { return e.Err }

// ExitError reports a subprocess that ran and exited with a nonzero code.
type ExitError struct {
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("process exited with code %d", e.Code)
}

// UpstreamError reports a non-200 response from the remote API.
type UpstreamError struct {
	StatusCode int

	// Body is the upstream error payload, compacted.
	Body json.RawMessage
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.StatusCode)
}

// TransportError reports a connection-level failure talking to the remote API.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return e.Err.Error() }
func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError reports an upstream body that is not valid JSON.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return e.Err.Error() }
func (e *DecodeError) Unwrap() error { return e.Err }
