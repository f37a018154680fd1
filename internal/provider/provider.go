// Package provider defines the downstream invoker the proxy forwards prompts to.
package provider

import (
	"context"
	"time"
)

// Invoker sends one composed prompt to a downstream model and returns its text.
// Exactly one implementation is configured per deployment.
type Invoker interface {
	// Name returns the invoker identifier used in logs and metrics.
	Name() string

	// Invoke runs the downstream call. It must return promptly once ctx is
	// done, reporting ErrTimeout when the deadline expired.
	Invoke(ctx context.Context, p Prompt) (*Result, error)
}

// Prompt is the outbound invocation after composition.
type Prompt struct {
	// System is empty when the inline style folded it into User.
	System string
	User   string
}

// Result contains the raw downstream output and call metadata.
type Result struct {
	Output string

	// Model reported by the downstream, if any.
	Model string

	// ExitCode is set by subprocess invokers.
	ExitCode int

	// Token counts reported by the downstream, if any.
	InputTokens  int
	OutputTokens int

	Duration time.Duration
}
