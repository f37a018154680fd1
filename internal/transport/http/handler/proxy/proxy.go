// Package proxy implements the request forwarder: one JSON prompt in, one
// downstream call, one JSON response out.
package proxy

import (
	"log/slog"
	"time"

	"github.com/mandalnilabja/promptproxy/internal/provider"
	"github.com/mandalnilabja/promptproxy/internal/tokenizer"
)

// tokenCountTimeout is the maximum time to wait for token counting once the
// downstream call has finished.
const tokenCountTimeout = 100 * time.Millisecond

// maxBodyBytes caps the request body.
const maxBodyBytes = 10 << 20

// Options configures the forwarder.
type Options struct {
	Style   provider.PromptStyle
	Timeout time.Duration

	// TokenModel selects the tokenizer encoding for prompt size estimates.
	TokenModel string
}

// Handlers holds the dependencies for the forwarder.
type Handlers struct {
	Invoker   provider.Invoker
	Tokenizer tokenizer.Tokenizer
	Logger    *slog.Logger
	opts      Options
}

// New creates the forwarder. tok may be nil, in which case prompt tokens are
// not estimated.
func New(inv provider.Invoker, tok tokenizer.Tokenizer, logger *slog.Logger, opts Options) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		Invoker:   inv,
		Tokenizer: tok,
		Logger:    logger,
		opts:      opts,
	}
}
