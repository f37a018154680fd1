package config

import (
	"time"

	"github.com/spf13/pflag"

	"github.com/mandalnilabja/promptproxy/internal/provider"
)

// Flags holds command-line options. Only flags the operator actually set
// override the loaded Config.
type Flags struct {
	ConfigPath string
	EnvFile    string

	GenKey     bool
	HashKey    bool
	InitConfig bool
	Version    bool

	fs *pflag.FlagSet

	host        string
	port        int
	mode        string
	promptStyle string
	timeout     time.Duration
	corsOrigins []string
	metricsAddr string
	logLevel    string
	logFormat   string
	cliBinary   string
	model       string
}

// NewFlags registers all options on a new FlagSet named name.
func NewFlags(name string) *Flags {
	f := &Flags{fs: pflag.NewFlagSet(name, pflag.ContinueOnError)}
	fs := f.fs
	// The caller prints Usage for --help.
	fs.Usage = func() {}

	fs.StringVar(&f.ConfigPath, "config", "", "config file (.toml, .yaml); default "+ConfigPath())
	fs.StringVar(&f.EnvFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	fs.StringVar(&f.host, "host", DefaultHost, "listen host")
	fs.IntVarP(&f.port, "port", "p", DefaultPort, "listen port")
	fs.StringVar(&f.mode, "mode", string(ModeCLI), "downstream target: cli or api")
	fs.StringVar(&f.promptStyle, "prompt-style", "", "prompt composition: inline or system (default depends on mode)")
	fs.DurationVar(&f.timeout, "timeout", DefaultTimeout, "deadline for one downstream call")
	fs.StringSliceVar(&f.corsOrigins, "cors-origins", nil, "allowed CORS origins (comma-separated)")
	fs.StringVar(&f.metricsAddr, "metrics-addr", "", "ops listener for /metrics and /healthz (disabled when empty)")
	fs.StringVar(&f.logLevel, "log-level", "info", "debug, info, warn or error")
	fs.StringVar(&f.logFormat, "log-format", "console", "console or json")
	fs.StringVar(&f.cliBinary, "cli-binary", DefaultBinary, "CLI binary for cli mode")
	fs.StringVar(&f.model, "model", "", "model for api mode")

	fs.BoolVar(&f.GenKey, "gen-key", false, "print a new proxy secret and its argon2id hash, then exit")
	fs.BoolVar(&f.HashKey, "hash-key", false, "read a secret from stdin, print its argon2id hash, then exit")
	fs.BoolVar(&f.InitConfig, "init-config", false, "write a commented default config file, then exit")
	fs.BoolVarP(&f.Version, "version", "v", false, "print version and exit")

	return f
}

// Parse parses args (without the program name).
func (f *Flags) Parse(args []string) error {
	return f.fs.Parse(args)
}

// Usage returns the flag defaults, one per line.
func (f *Flags) Usage() string {
	return f.fs.FlagUsages()
}

// Apply overrides cfg with every flag that was explicitly set.
func (f *Flags) Apply(cfg *Config) {
	changed := f.fs.Changed

	if changed("host") {
		cfg.Host = f.host
	}
	if changed("port") {
		cfg.Port = f.port
	}
	if changed("mode") {
		cfg.Mode = Mode(f.mode)
	}
	if changed("prompt-style") {
		cfg.PromptStyle = provider.PromptStyle(f.promptStyle)
	}
	if changed("timeout") {
		cfg.Timeout = f.timeout
	}
	if changed("cors-origins") {
		cfg.CORSOrigins = f.corsOrigins
	}
	if changed("metrics-addr") {
		cfg.MetricsAddr = f.metricsAddr
	}
	if changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if changed("log-format") {
		cfg.LogFormat = f.logFormat
	}
	if changed("cli-binary") {
		cfg.CLI.Binary = f.cliBinary
	}
	if changed("model") {
		cfg.API.Model = f.model
	}
}
