package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"

	"github.com/mandalnilabja/promptproxy/internal/config"
	"github.com/mandalnilabja/promptproxy/internal/version"
)

// setupLogger returns an slog.Logger backed by zap and its flush func.
func setupLogger(level, format string) (*slog.Logger, func() error, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}

	var zcfg zap.Config
	if format == "json" {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	zcfg.OutputPaths = []string{"stdout"}
	zcfg.DisableStacktrace = true

	zapLogger, err := zcfg.Build()
	if err != nil {
		return nil, nil, err
	}

	return slog.New(zapslog.NewHandler(zapLogger.Core())), zapLogger.Sync, nil
}

func printStartupBanner(cfg *config.Config) {
	target := strings.Join(append([]string{cfg.CLI.Binary}, cfg.CLI.Args...), " ")
	if cfg.Mode == config.ModeAPI {
		target = cfg.API.Model
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "promptproxy %s\n", version.Version)
	fmt.Fprintln(os.Stderr, "════════════════════════════════════════════════")
	fmt.Fprintf(os.Stderr, "Endpoint:   POST http://%s/\n", cfg.Addr())
	fmt.Fprintf(os.Stderr, "Mode:       %s (%s)\n", cfg.Mode, target)
	fmt.Fprintf(os.Stderr, "Prompt:     %s style, %s timeout\n", cfg.PromptStyle, cfg.Timeout)
	if cfg.Mode == config.ModeAPI {
		fmt.Fprintf(os.Stderr, "API key:    %s\n", configured(cfg.API.Key != ""))
	}
	fmt.Fprintf(os.Stderr, "Auth:       %s\n", configured(cfg.AuthEnabled()))
	if len(cfg.CORSOrigins) > 0 {
		fmt.Fprintf(os.Stderr, "CORS:       %v\n", cfg.CORSOrigins)
	}
	if cfg.MetricsAddr != "" {
		fmt.Fprintf(os.Stderr, "Ops:        http://%s/metrics, /healthz\n", cfg.MetricsAddr)
	}
	fmt.Fprintln(os.Stderr, "════════════════════════════════════════════════")
	fmt.Fprintf(os.Stderr, "\n")
}

func configured(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}
