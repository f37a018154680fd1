package app

import (
	"github.com/mandalnilabja/promptproxy/internal/config"
	"github.com/mandalnilabja/promptproxy/internal/provider"
	"github.com/mandalnilabja/promptproxy/internal/provider/anthropic"
	"github.com/mandalnilabja/promptproxy/internal/provider/cli"
)

// NewInvoker returns the single downstream invoker for the configured mode.
func NewInvoker(cfg *config.Config) provider.Invoker {
	if cfg.Mode == config.ModeAPI {
		return anthropic.New(anthropic.Config{
			APIKey:       cfg.API.Key,
			Model:        cfg.API.Model,
			MaxTokens:    cfg.API.MaxTokens,
			Endpoint:     cfg.API.Endpoint,
			Version:      cfg.API.Version,
			SystemPrompt: cfg.API.SystemPrompt,
		})
	}

	return cli.New(cli.Config{
		Binary:     cfg.CLI.Binary,
		Args:       cfg.CLI.Args,
		SystemFlag: cfg.CLI.SystemFlag,
		Env:        cfg.CLI.Env,
	})
}

// TokenModel picks the model name used for prompt token estimates.
func TokenModel(cfg *config.Config) string {
	if cfg.Mode == config.ModeAPI {
		return cfg.API.Model
	}
	return ""
}
