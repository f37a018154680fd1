// Package cli implements a provider.Invoker that shells out to a local model CLI.
package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/mandalnilabja/promptproxy/internal/provider"
)

// DefaultWaitDelay bounds how long Wait keeps draining pipes after the
// process was killed.
const DefaultWaitDelay = 2 * time.Second

// Config describes the command line used for every prompt.
type Config struct {
	// Binary is the executable name or path, resolved through PATH.
	Binary string

	// Args are passed before the prompt, e.g. ["--print", "--model", "haiku"].
	Args []string

	// SystemFlag, when set, passes a separate system prompt as
	// [SystemFlag, system] ahead of the prompt. Without it a separate system
	// prompt is folded into the prompt text.
	SystemFlag string

	// Env entries (KEY=VALUE) appended to the inherited environment.
	Env []string

	// WaitDelay overrides DefaultWaitDelay.
	WaitDelay time.Duration
}

// Invoker runs the configured CLI once per prompt.
type Invoker struct {
	cfg Config
}

// New creates a CLI invoker.
func New(cfg Config) *Invoker {
	if cfg.WaitDelay <= 0 {
		cfg.WaitDelay = DefaultWaitDelay
	}
	return &Invoker{cfg: cfg}
}

// Name returns the invoker identifier
func (i *Invoker) Name() string {
	return "cli"
}

// Invoke runs the CLI with the prompt as its final argument. The prompt is
// never interpreted by a shell.
func (i *Invoker) Invoke(ctx context.Context, p provider.Prompt) (*provider.Result, error) {
	start := time.Now()

	cmd := exec.CommandContext(ctx, i.cfg.Binary, i.argv(p)...)
	cmd.Env = append(os.Environ(), i.cfg.Env...)
	cmd.WaitDelay = i.cfg.WaitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	configureProcess(cmd)

	if err := cmd.Start(); err != nil {
		if ctx.Err() != nil {
			return nil, provider.ErrTimeout
		}
		return nil, &provider.SpawnError{Err: err}
	}

	err := cmd.Wait()

	// A killed process also reports an exit error; the deadline takes precedence.
	if ctx.Err() != nil {
		return nil, provider.ErrTimeout
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, &provider.ExitError{Code: exitErr.ExitCode(), Stderr: stderr.String()}
		}
		return nil, fmt.Errorf("waiting for %s: %w", i.cfg.Binary, err)
	}

	return &provider.Result{
		Output:   stdout.String(),
		ExitCode: 0,
		Duration: time.Since(start),
	}, nil
}

// argv returns the argument vector that follows the binary name.
func (i *Invoker) argv(p provider.Prompt) []string {
	args := make([]string, 0, len(i.cfg.Args)+3)
	args = append(args, i.cfg.Args...)

	user := p.User
	if p.System != "" {
		if i.cfg.SystemFlag != "" {
			args = append(args, i.cfg.SystemFlag, p.System)
		} else {
			user = p.System + "\n\n" + p.User
		}
	}

	return append(args, user)
}
