package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"
)

// FileConfig represents the on-disk configuration file (TOML or YAML).
// Empty fields fall through to env vars and defaults.
type FileConfig struct {
	Host        string   `toml:"host" yaml:"host"`
	Port        int      `toml:"port" yaml:"port"`
	MetricsAddr string   `toml:"metrics_addr" yaml:"metrics_addr"`
	LogLevel    string   `toml:"log_level" yaml:"log_level"`
	LogFormat   string   `toml:"log_format" yaml:"log_format"`
	AuthKey     string   `toml:"auth_key" yaml:"auth_key"`
	AuthKeyHash string   `toml:"auth_key_hash" yaml:"auth_key_hash"`
	CORSOrigins []string `toml:"cors_origins" yaml:"cors_origins"`
	Timeout     string   `toml:"timeout" yaml:"timeout"`
	Mode        string   `toml:"mode" yaml:"mode"`
	PromptStyle string   `toml:"prompt_style" yaml:"prompt_style"`
	CLI         *FileCLI `toml:"cli" yaml:"cli"`
	API         *FileAPI `toml:"api" yaml:"api"`
}

// FileCLI is the [cli] table.
type FileCLI struct {
	Binary     string   `toml:"binary" yaml:"binary"`
	Args       []string `toml:"args" yaml:"args"`
	SystemFlag string   `toml:"system_flag" yaml:"system_flag"`
	Env        []string `toml:"env" yaml:"env"`
}

// FileAPI is the [api] table.
type FileAPI struct {
	Key          string `toml:"key" yaml:"key"`
	Model        string `toml:"model" yaml:"model"`
	MaxTokens    int    `toml:"max_tokens" yaml:"max_tokens"`
	Endpoint     string `toml:"endpoint" yaml:"endpoint"`
	Version      string `toml:"version" yaml:"version"`
	SystemPrompt string `toml:"system_prompt" yaml:"system_prompt"`
}

// ConfigPath returns the path to the default config file (~/.promptproxy/config.toml).
func ConfigPath() string {
	return filepath.Join(DataDir(), "config.toml")
}

// LoadFile loads configuration from path, picking the decoder by extension.
// An empty path means ConfigPath(); a missing default file yields an empty
// FileConfig, while a missing explicit path is an error.
func LoadFile(path string) (*FileConfig, error) {
	cfg := &FileConfig{}

	explicit := path != ""
	if !explicit {
		path = ConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		_, err = toml.Decode(string(data), cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}

// EnsureConfigFile creates a default config file with commented examples if
// none exists and returns its path.
func EnsureConfigFile() (string, error) {
	path := ConfigPath()

	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	if err := EnsureDataDir(); err != nil {
		return "", err
	}

	return path, os.WriteFile(path, []byte(defaultConfig), 0600)
}

const defaultConfig = `# promptproxy configuration
# Environment variables and command-line flags take precedence over this file.

# host = "0.0.0.0"
# port = 3456
# mode = "cli"            # cli | api
# prompt_style = "inline" # inline | system (default depends on mode)
# timeout = "120s"
# cors_origins = ["http://localhost:5173"]
# metrics_addr = "127.0.0.1:9090"
# log_level = "info"
# log_format = "console"  # console | json

# Bearer secret. Prefer the hash; generate one with: promptproxy --gen-key
# auth_key_hash = "$argon2id$v=19$m=65536,t=1,p=4$..."

# [cli]
# binary = "claude"
# args = ["--print", "--model", "haiku"]
# system_flag = ""        # e.g. "--system-prompt"; empty folds the system prompt into the prompt
# env = ["HOME=/root"]

# [api]
# model = "claude-3-5-haiku-20241022"
# max_tokens = 4096
# system_prompt = "You are a helpful assistant."
`
