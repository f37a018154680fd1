// Package anthropic implements a provider.Invoker for the Anthropic Messages API.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/valyala/fastjson"

	"github.com/mandalnilabja/promptproxy/internal/provider"
	"github.com/mandalnilabja/promptproxy/internal/version"
)

// Defaults matching the public API.
const (
	DefaultEndpoint      = "https://api.anthropic.com/v1/messages"
	DefaultVersion       = "2023-06-01"
	DefaultModel         = "claude-3-5-haiku-20241022"
	DefaultMaxTokens     = 4096
	DefaultSystemPrompt  = "You are a helpful assistant."
	maxResponseBodyBytes = 32 << 20
)

// Config holds the fixed request shape for every call.
type Config struct {
	APIKey    string
	Model     string
	MaxTokens int
	Endpoint  string
	Version   string

	// SystemPrompt is sent when the caller supplies none.
	SystemPrompt string

	// HTTPClient overrides the default client, mainly for tests.
	HTTPClient *http.Client
}

// Invoker posts prompts to the Messages API.
type Invoker struct {
	cfg     Config
	client  *http.Client
	parsers fastjson.ParserPool
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type createMessageRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system"`
	Messages  []message `json:"messages"`
}

var defaultHTTPClient = &http.Client{
	Transport: &http.Transport{
		Proxy:           http.ProxyFromEnvironment,
		MaxIdleConns:    16,
		IdleConnTimeout: 30 * time.Second,
	},
}

// New creates an Anthropic invoker, filling unset fields with defaults.
func New(cfg Config) *Invoker {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Version == "" {
		cfg.Version = DefaultVersion
	}
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = DefaultSystemPrompt
	}

	client := cfg.HTTPClient
	if client == nil {
		client = defaultHTTPClient
	}

	return &Invoker{cfg: cfg, client: client}
}

// Name returns the invoker identifier
func (i *Invoker) Name() string {
	return "anthropic"
}

// Invoke sends one user message and returns the first text block of the reply.
func (i *Invoker) Invoke(ctx context.Context, p provider.Prompt) (*provider.Result, error) {
	if i.cfg.APIKey == "" {
		return nil, provider.ErrNoAPIKey
	}

	start := time.Now()

	system := p.System
	if system == "" {
		system = i.cfg.SystemPrompt
	}

	payload, err := json.Marshal(&createMessageRequest{
		Model:     i.cfg.Model,
		MaxTokens: i.cfg.MaxTokens,
		System:    system,
		Messages:  []message{{Role: "user", Content: p.User}},
	})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, i.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", i.cfg.APIKey)
	req.Header.Set("Anthropic-Version", i.cfg.Version)
	req.Header.Set("User-Agent", "promptproxy/"+version.Version)

	resp, err := i.client.Do(req)
	if err != nil {
		return nil, i.transportError(ctx, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodyBytes))
	if err != nil {
		return nil, i.transportError(ctx, err)
	}

	return i.decode(resp.StatusCode, body, time.Since(start))
}

// decode parses the body before looking at the status, so an unparseable
// error page is reported as a decode failure rather than relayed.
func (i *Invoker) decode(status int, body []byte, elapsed time.Duration) (*provider.Result, error) {
	parser := i.parsers.Get()
	defer i.parsers.Put(parser)

	if err := fastjson.ValidateBytes(body); err != nil {
		return nil, &provider.DecodeError{Err: err}
	}
	v, err := parser.ParseBytes(body)
	if err != nil {
		return nil, &provider.DecodeError{Err: err}
	}

	if status != http.StatusOK {
		return nil, &provider.UpstreamError{
			StatusCode: status,
			Body:       json.RawMessage(v.MarshalTo(nil)),
		}
	}

	return &provider.Result{
		Output:       string(v.GetStringBytes("content", "0", "text")),
		Model:        string(v.GetStringBytes("model")),
		InputTokens:  v.GetInt("usage", "input_tokens"),
		OutputTokens: v.GetInt("usage", "output_tokens"),
		Duration:     elapsed,
	}, nil
}

func (i *Invoker) transportError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return provider.ErrTimeout
	}
	return &provider.TransportError{Err: err}
}
