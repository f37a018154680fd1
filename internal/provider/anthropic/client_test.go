package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mandalnilabja/promptproxy/internal/provider"
)

func newTestInvoker(t *testing.T, handler http.HandlerFunc) *Invoker {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return New(Config{
		APIKey:     "sk-test",
		Endpoint:   srv.URL + "/v1/messages",
		HTTPClient: srv.Client(),
	})
}

func TestInvoke_RequestShape(t *testing.T) {
	var got createMessageRequest
	var headers http.Header

	inv := newTestInvoker(t, func(w http.ResponseWriter, r *http.Request) {
		headers = r.Header.Clone()
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/messages", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"model":"claude-test","content":[{"type":"text","text":"hello"}],"usage":{"input_tokens":7,"output_tokens":2}}`)
	})

	res, err := inv.Invoke(context.Background(), provider.Prompt{System: "be terse", User: "hi"})
	require.NoError(t, err)

	assert.Equal(t, "hello", res.Output)
	assert.Equal(t, "claude-test", res.Model)
	assert.Equal(t, 7, res.InputTokens)
	assert.Equal(t, 2, res.OutputTokens)

	assert.Equal(t, DefaultModel, got.Model)
	assert.Equal(t, DefaultMaxTokens, got.MaxTokens)
	assert.Equal(t, "be terse", got.System)
	assert.Equal(t, []message{{Role: "user", Content: "hi"}}, got.Messages)

	assert.Equal(t, "sk-test", headers.Get("X-API-Key"))
	assert.Equal(t, DefaultVersion, headers.Get("Anthropic-Version"))
	assert.Equal(t, "application/json", headers.Get("Content-Type"))
}

func TestInvoke_DefaultSystemPrompt(t *testing.T) {
	var got createMessageRequest
	inv := newTestInvoker(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = io.WriteString(w, `{"content":[{"text":"ok"}]}`)
	})

	_, err := inv.Invoke(context.Background(), provider.Prompt{User: "hi"})
	require.NoError(t, err)
	assert.Equal(t, DefaultSystemPrompt, got.System)
}

func TestInvoke_MissingContentYieldsEmptyOutput(t *testing.T) {
	inv := newTestInvoker(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"content":[]}`)
	})

	res, err := inv.Invoke(context.Background(), provider.Prompt{User: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "", res.Output)
}

func TestInvoke_UpstreamErrorIsRelayed(t *testing.T) {
	inv := newTestInvoker(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"type": "error", "error": {"type": "rate_limit_error", "message": "slow down"}}`)
	})

	_, err := inv.Invoke(context.Background(), provider.Prompt{User: "hi"})

	var upErr *provider.UpstreamError
	require.True(t, errors.As(err, &upErr), "expected UpstreamError, got %v", err)
	assert.Equal(t, http.StatusTooManyRequests, upErr.StatusCode)
	assert.JSONEq(t, `{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`, string(upErr.Body))
}

func TestInvoke_UnparseableBody(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusBadGateway} {
		inv := newTestInvoker(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_, _ = io.WriteString(w, `<html>gateway</html>`)
		})

		_, err := inv.Invoke(context.Background(), provider.Prompt{User: "hi"})

		var decErr *provider.DecodeError
		assert.True(t, errors.As(err, &decErr), "status %d: expected DecodeError, got %v", status, err)
	}
}

func TestInvoke_NonStandardJSONBody(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusInternalServerError} {
		inv := newTestInvoker(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_, _ = io.WriteString(w, `{"error": NaN}`)
		})

		_, err := inv.Invoke(context.Background(), provider.Prompt{User: "hi"})

		var decErr *provider.DecodeError
		assert.True(t, errors.As(err, &decErr), "status %d: expected DecodeError, got %v", status, err)
	}
}

func TestInvoke_MissingAPIKey(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	inv := New(Config{APIKey: "  ", Endpoint: srv.URL})

	_, err := inv.Invoke(context.Background(), provider.Prompt{User: "hi"})
	assert.ErrorIs(t, err, provider.ErrNoAPIKey)
	assert.False(t, called, "upstream must not be contacted without an API key")
}

func TestInvoke_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	inv := New(Config{APIKey: "sk-test", Endpoint: url})

	_, err := inv.Invoke(context.Background(), provider.Prompt{User: "hi"})

	var trErr *provider.TransportError
	require.True(t, errors.As(err, &trErr), "expected TransportError, got %v", err)
	assert.NotEmpty(t, trErr.Error())
}

func TestInvoke_DeadlineAbortsRequest(t *testing.T) {
	released := make(chan struct{})
	inv := newTestInvoker(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
		close(released)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := inv.Invoke(ctx, provider.Prompt{User: "hi"})

	assert.ErrorIs(t, err, provider.ErrTimeout)
	assert.Less(t, time.Since(start), 5*time.Second)

	select {
	case <-released:
	case <-time.After(5 * time.Second):
		t.Fatal("upstream connection was not aborted")
	}
}
