package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mandalnilabja/promptproxy/internal/provider"
	"github.com/mandalnilabja/promptproxy/internal/provider/anthropic"
	"github.com/mandalnilabja/promptproxy/internal/secret"
)

// Mode selects the downstream invoker for the whole process.
type Mode string

const (
	// ModeCLI shells out to a local model CLI.
	ModeCLI Mode = "cli"
	// ModeAPI calls the remote Messages API.
	ModeAPI Mode = "api"
)

// Defaults
const (
	DefaultHost    = "0.0.0.0"
	DefaultPort    = 3456
	DefaultTimeout = 120 * time.Second
	DefaultBinary  = "claude"
)

// DefaultCLIArgs are passed to the CLI ahead of the prompt.
var DefaultCLIArgs = []string{"--print", "--model", "haiku"}

// Config holds the process-wide configuration. It is built once at startup
// and must be treated as read-only afterwards.
// Priority: CLI flags → Env vars → config file → defaults
type Config struct {
	// Host and Port form the main listen address.
	Host string
	Port int

	// MetricsAddr enables the ops listener (/metrics, /healthz) when set.
	MetricsAddr string

	LogLevel  string
	LogFormat string

	// AuthKey or AuthKeyHash (argon2id) enables bearer auth. At most one is set.
	AuthKey     string
	AuthKeyHash string

	// CORSOrigins is the exact-match Origin allow-list. Empty disables CORS.
	CORSOrigins []string

	// Timeout is the wall-clock deadline for one downstream call.
	Timeout time.Duration

	Mode        Mode
	PromptStyle provider.PromptStyle

	CLI CLIConfig
	API APIConfig
}

// CLIConfig configures ModeCLI.
type CLIConfig struct {
	Binary     string
	Args       []string
	SystemFlag string
	Env        []string
}

// APIConfig configures ModeAPI.
type APIConfig struct {
	Key          string
	Model        string
	MaxTokens    int
	Endpoint     string
	Version      string
	SystemPrompt string
}

// Load reads the config file at path (the default location when empty),
// then applies environment variables and defaults. Flags are applied by the
// caller via Flags.Apply.
func Load(path string) (*Config, error) {
	fc, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	if fc.CLI == nil {
		fc.CLI = &FileCLI{}
	}
	if fc.API == nil {
		fc.API = &FileAPI{}
	}

	timeout, err := getEnvDurationOrFile("REQUEST_TIMEOUT", fc.Timeout, DefaultTimeout)
	if err != nil {
		return nil, err
	}
	port, err := getEnvIntOrFile("PORT", fc.Port, DefaultPort)
	if err != nil {
		return nil, err
	}
	maxTokens, err := getEnvIntOrFile("ANTHROPIC_MAX_TOKENS", fc.API.MaxTokens, anthropic.DefaultMaxTokens)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Host:        getEnvOrFile("HOST", fc.Host, DefaultHost),
		Port:        port,
		MetricsAddr: getEnvOrFile("METRICS_ADDR", fc.MetricsAddr, ""),
		LogLevel:    getEnvOrFile("LOG_LEVEL", fc.LogLevel, "info"),
		LogFormat:   getEnvOrFile("LOG_FORMAT", fc.LogFormat, "console"),
		AuthKey:     getEnvOrFile("PROXY_AUTH_KEY", fc.AuthKey, ""),
		AuthKeyHash: getEnvOrFile("PROXY_AUTH_KEY_HASH", fc.AuthKeyHash, ""),
		CORSOrigins: getEnvListOrFile("CORS_ORIGINS", fc.CORSOrigins),
		Timeout:     timeout,
		Mode:        Mode(getEnvOrFile("PROXY_MODE", fc.Mode, string(ModeCLI))),
		CLI: CLIConfig{
			Binary:     getEnvOrFile("CLAUDE_BINARY", fc.CLI.Binary, DefaultBinary),
			Args:       getEnvFieldsOrFile("CLAUDE_ARGS", fc.CLI.Args, DefaultCLIArgs),
			SystemFlag: getEnvOrFile("CLAUDE_SYSTEM_FLAG", fc.CLI.SystemFlag, ""),
			Env:        fc.CLI.Env,
		},
		API: APIConfig{
			Key:          getEnvOrFile("ANTHROPIC_API_KEY", fc.API.Key, ""),
			Model:        getEnvOrFile("ANTHROPIC_MODEL", fc.API.Model, anthropic.DefaultModel),
			MaxTokens:    maxTokens,
			Endpoint:     getEnvOrFile("ANTHROPIC_ENDPOINT", fc.API.Endpoint, anthropic.DefaultEndpoint),
			Version:      getEnvOrFile("ANTHROPIC_VERSION", fc.API.Version, anthropic.DefaultVersion),
			SystemPrompt: getEnvOrFile("ANTHROPIC_SYSTEM_PROMPT", fc.API.SystemPrompt, anthropic.DefaultSystemPrompt),
		},
	}
	cfg.PromptStyle = provider.PromptStyle(getEnvOrFile("PROMPT_STYLE", fc.PromptStyle, ""))

	return cfg, nil
}

// Finalize fills mode-dependent defaults and validates the result.
func (c *Config) Finalize() error {
	c.Mode = Mode(strings.ToLower(strings.TrimSpace(string(c.Mode))))
	c.CORSOrigins = normalizeList(c.CORSOrigins)

	if c.PromptStyle == "" {
		c.PromptStyle = c.Mode.defaultStyle()
	} else if style, err := provider.ParsePromptStyle(string(c.PromptStyle)); err == nil {
		c.PromptStyle = style
	}
	return c.Validate()
}

// Validate reports the first configuration problem found.
func (c *Config) Validate() error {
	var errs []error

	switch c.Mode {
	case ModeCLI:
		if strings.TrimSpace(c.CLI.Binary) == "" {
			errs = append(errs, errors.New("cli mode requires a binary"))
		}
	case ModeAPI:
	default:
		errs = append(errs, fmt.Errorf("unknown mode %q (want %q or %q)", c.Mode, ModeCLI, ModeAPI))
	}

	if _, err := provider.ParsePromptStyle(string(c.PromptStyle)); err != nil {
		errs = append(errs, err)
	}
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %s", c.Timeout))
	}
	if c.AuthKey != "" && c.AuthKeyHash != "" {
		errs = append(errs, errors.New("set either PROXY_AUTH_KEY or PROXY_AUTH_KEY_HASH, not both"))
	}
	if c.AuthKeyHash != "" {
		if err := secret.ValidateHash(c.AuthKeyHash); err != nil {
			errs = append(errs, fmt.Errorf("auth key hash: %w", err))
		}
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.LogFormat))
	}

	return errors.Join(errs...)
}

// Addr returns the main listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// AuthEnabled reports whether a proxy secret is configured.
func (c *Config) AuthEnabled() bool {
	return c.AuthKey != "" || c.AuthKeyHash != ""
}

func (m Mode) defaultStyle() provider.PromptStyle {
	if m == ModeAPI {
		return provider.StyleSystem
	}
	return provider.StyleInline
}

// getEnvOrFile returns env value, file value, or default (in priority order)
func getEnvOrFile(key, fileValue, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	if fileValue != "" {
		return fileValue
	}
	return defaultValue
}

// getEnvIntOrFile is getEnvOrFile for integers.
func getEnvIntOrFile(key string, fileValue, defaultValue int) (int, error) {
	if value := os.Getenv(key); value != "" {
		n, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", key, err)
		}
		return n, nil
	}
	if fileValue != 0 {
		return fileValue, nil
	}
	return defaultValue, nil
}

// getEnvDurationOrFile is getEnvOrFile for durations ("90s", "2m").
func getEnvDurationOrFile(key, fileValue string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	source := key
	if raw == "" {
		raw, source = fileValue, "timeout"
	}
	if raw == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", source, err)
	}
	return d, nil
}

// getEnvListOrFile reads a comma-separated env list, falling back to the file list.
func getEnvListOrFile(key string, fileValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return fileValue
}

// getEnvFieldsOrFile reads a whitespace-separated env list.
func getEnvFieldsOrFile(key string, fileValue, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Fields(value)
	}
	if fileValue != nil {
		return fileValue
	}
	return append([]string(nil), defaultValue...)
}

// normalizeList trims entries and drops empty ones.
func normalizeList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
