// Package handler composes the HTTP handlers served by the proxy.
package handler

import (
	"log/slog"
	"time"

	"github.com/mandalnilabja/promptproxy/internal/provider"
	"github.com/mandalnilabja/promptproxy/internal/tokenizer"
	"github.com/mandalnilabja/promptproxy/internal/transport/http/handler/infra"
	"github.com/mandalnilabja/promptproxy/internal/transport/http/handler/proxy"
)

// Repo composes all domain-specific handlers.
type Repo struct {
	Proxy *proxy.Handlers
	Infra *infra.Handlers
}

// NewRepo creates a new instance of the composed handler repository.
func NewRepo(mode string, inv provider.Invoker, tok tokenizer.Tokenizer, logger *slog.Logger, opts proxy.Options) *Repo {
	return &Repo{
		Proxy: proxy.New(inv, tok, logger, opts),
		Infra: infra.New(mode, inv.Name(), time.Now()),
	}
}
