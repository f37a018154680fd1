package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/mandalnilabja/promptproxy/internal/app"
	"github.com/mandalnilabja/promptproxy/internal/config"
	"github.com/mandalnilabja/promptproxy/internal/tokenizer"
	"github.com/mandalnilabja/promptproxy/internal/transport/http/handler"
	"github.com/mandalnilabja/promptproxy/internal/transport/http/handler/proxy"
	"github.com/mandalnilabja/promptproxy/internal/transport/http/middleware/auth"
	"github.com/mandalnilabja/promptproxy/internal/version"
)

// writeTimeoutSlack keeps the connection writable after the downstream deadline.
const writeTimeoutSlack = 30 * time.Second

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "promptproxy: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := config.NewFlags("promptproxy")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			fmt.Printf("Usage: promptproxy [flags]\n\n%s", flags.Usage())
			return nil
		}
		return err
	}

	switch {
	case flags.Version:
		fmt.Println(version.Version)
		return nil
	case flags.GenKey:
		return genKey(os.Stdout)
	case flags.HashKey:
		return hashKey(os.Stdin, os.Stdout)
	case flags.InitConfig:
		path, err := config.EnsureConfigFile()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	}

	// .env never overrides variables already set in the environment.
	if err := godotenv.Load(flags.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", flags.EnvFile, err)
	}

	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		return err
	}
	flags.Apply(cfg)
	if err := cfg.Finalize(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, syncLogs, err := setupLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = syncLogs() }()
	slog.SetDefault(logger)

	if cfg.Mode == config.ModeAPI && cfg.API.Key == "" {
		logger.Warn("ANTHROPIC_API_KEY not set; prompts will fail until it is configured")
	}

	cache, err := auth.NewCache()
	if err != nil {
		return fmt.Errorf("auth cache: %w", err)
	}
	defer cache.Close()

	verifier, err := auth.NewVerifier(cfg.AuthKey, cfg.AuthKeyHash, cache)
	if err != nil {
		return fmt.Errorf("auth: %w", err)
	}

	inv := app.NewInvoker(cfg)
	repo := handler.NewRepo(string(cfg.Mode), inv, tokenizer.New(), logger, proxy.Options{
		Style:      cfg.PromptStyle,
		Timeout:    cfg.Timeout,
		TokenModel: app.TokenModel(cfg),
	})

	servers := []*app.Server{
		app.NewServer("proxy", cfg.Addr(), app.NewRouter(repo, &app.RouterOptions{
			Logger:      logger,
			CORSOrigins: cfg.CORSOrigins,
			Verifier:    verifier,
		}), cfg.Timeout+writeTimeoutSlack, logger),
	}
	if cfg.MetricsAddr != "" {
		servers = append(servers, app.NewServer("ops", cfg.MetricsAddr, app.NewOpsRouter(repo), writeTimeoutSlack, logger))
	}

	printStartupBanner(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// In-flight prompts get their full deadline before shutdown gives up.
	return app.Run(ctx, cfg.Timeout+5*time.Second, servers...)
}
