package app

import (
	"log/slog"
	"net/http"

	"github.com/mandalnilabja/promptproxy/internal/metrics"
	"github.com/mandalnilabja/promptproxy/internal/transport/http/handler"
	"github.com/mandalnilabja/promptproxy/internal/transport/http/middleware"
	"github.com/mandalnilabja/promptproxy/internal/transport/http/middleware/auth"
)

// RouterOptions configures the HTTP router behavior.
type RouterOptions struct {
	Logger      *slog.Logger
	CORSOrigins []string

	// Verifier gates every request; nil disables auth.
	Verifier auth.Verifier
}

// NewRouter builds the main listener's handler. Every path reaches the
// forwarder, which answers non-POST methods itself.
func NewRouter(repo *handler.Repo, opts *RouterOptions) http.Handler {
	mws := []func(http.Handler) http.Handler{middleware.RequestID}
	if opts.Logger != nil {
		mws = append(mws, middleware.RequestLogger(opts.Logger))
	}
	mws = append(mws,
		middleware.Metrics,
		middleware.CORS(opts.CORSOrigins),
		auth.BearerAuth(opts.Verifier),
	)

	return middleware.Chain(http.HandlerFunc(repo.Proxy.Forward), mws...)
}

// NewOpsRouter builds the ops listener's handler.
func NewOpsRouter(repo *handler.Repo) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /healthz", repo.Infra.HealthCheck)
	return mux
}
