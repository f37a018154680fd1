package proxy

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mandalnilabja/promptproxy/internal/extract"
	"github.com/mandalnilabja/promptproxy/internal/metrics"
	"github.com/mandalnilabja/promptproxy/internal/provider"
	"github.com/mandalnilabja/promptproxy/internal/transport/http/middleware"
	"github.com/mandalnilabja/promptproxy/internal/types"
)

// invocation is what the downstream goroutine hands back.
type invocation struct {
	result *provider.Result
	err    error
}

// Forward validates the request, runs the downstream call under the
// configured deadline and writes exactly one response.
func (h *Handlers) Forward(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		types.WriteError(w, http.StatusMethodNotAllowed, types.NewAPIError(types.ErrLabelMethodNotAllowed))
		return
	}

	req, apiErr := decodeRequest(w, r)
	if apiErr != nil {
		types.WriteError(w, http.StatusBadRequest, apiErr)
		return
	}

	prompt := provider.Compose(h.opts.Style, req.SystemPrompt, req.Prompt)
	tokens := h.countTokens(prompt)

	// The client going away does not cancel the call; only the deadline does.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), h.opts.Timeout)
	defer cancel()

	start := time.Now()
	var latch Latch
	results := make(chan invocation, 1)
	go h.invoke(ctx, prompt, &latch, results)

	status, outcome := h.await(ctx, cancel, w, &latch, results)

	h.logForward(r.Context(), prompt, tokens, status, outcome, time.Since(start))
}

// decodeRequest reads the whole body and checks the prompt field.
func decodeRequest(w http.ResponseWriter, r *http.Request) (*types.PromptRequest, *types.APIError) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, types.NewAPIErrorWithMessage(types.ErrLabelInvalidJSON, err.Error())
	}

	var req types.PromptRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, types.NewAPIErrorWithMessage(types.ErrLabelInvalidJSON, err.Error())
	}
	if req.Prompt == "" {
		return nil, types.NewAPIError(types.ErrLabelMissingPrompt)
	}
	return &req, nil
}

// await writes the single response. Completion and deadline race for the
// latch: the downstream goroutine claims it before publishing a result, the
// deadline path claims it before writing a 504. A deadline that loses the
// race waits for the result that is already being published.
func (h *Handlers) await(ctx context.Context, cancel context.CancelFunc, w http.ResponseWriter, latch *Latch, results <-chan invocation) (int, string) {
	select {
	case inv := <-results:
		cancel()
		return h.complete(w, inv)
	case <-ctx.Done():
		if latch.Claim() {
			types.WriteError(w, http.StatusGatewayTimeout, types.NewAPIError(types.ErrLabelTimeout))
			return http.StatusGatewayTimeout, metrics.OutcomeTimeout
		}
		return h.complete(w, <-results)
	}
}

// invoke runs the downstream call and records its outcome once it has
// really finished, which after a timeout is when the process is reaped.
// The result is published only if the call claims the latch.
func (h *Handlers) invoke(ctx context.Context, p provider.Prompt, latch *Latch, out chan<- invocation) {
	done := metrics.DownstreamStarted(h.Invoker.Name())

	res, err := h.Invoker.Invoke(ctx, p)
	if err != nil {
		_, _, outcome := errorResponse(err)
		done(outcome)
	} else {
		done(metrics.OutcomeSuccess)
	}

	if latch.Claim() {
		out <- invocation{result: res, err: err}
	}
}

// complete writes the response for a finished downstream call.
func (h *Handlers) complete(w http.ResponseWriter, inv invocation) (int, string) {
	if inv.err != nil {
		status, apiErr, outcome := errorResponse(inv.err)
		types.WriteError(w, status, apiErr)
		return status, outcome
	}

	output := strings.TrimSpace(inv.result.Output)
	types.WriteJSON(w, http.StatusOK, types.NewPromptResponse(output, extract.JSONObject(output)))
	return http.StatusOK, metrics.OutcomeSuccess
}

// countTokens estimates the prompt size in the background. The returned
// func waits briefly for the estimate and yields -1 when it is unavailable.
func (h *Handlers) countTokens(p provider.Prompt) func() int {
	if h.Tokenizer == nil {
		return func() int { return -1 }
	}

	ch := make(chan int, 1)
	go func() {
		defer close(ch)
		if n, err := h.Tokenizer.CountPrompt(p, h.opts.TokenModel); err == nil {
			ch <- n
		}
	}()

	return func() int {
		select {
		case n, ok := <-ch:
			if ok {
				return n
			}
		case <-time.After(tokenCountTimeout):
		}
		return -1
	}
}

func (h *Handlers) logForward(ctx context.Context, p provider.Prompt, tokens func() int, status int, outcome string, elapsed time.Duration) {
	n := tokens()
	if n >= 0 {
		metrics.ObservePromptTokens(h.Invoker.Name(), n)
	}

	level := slog.LevelInfo
	if status >= http.StatusInternalServerError {
		level = slog.LevelWarn
	}

	h.Logger.LogAttrs(ctx, level, "forward",
		slog.String("provider", h.Invoker.Name()),
		slog.Int("prompt_chars", len(p.System)+len(p.User)),
		slog.Int("prompt_tokens", n),
		slog.Int("status", status),
		slog.String("outcome", outcome),
		slog.Int64("duration_ms", elapsed.Milliseconds()),
		slog.String("request_id", middleware.GetRequestID(ctx)),
	)
}
