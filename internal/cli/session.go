package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/mathpad"
	"github.com/aretw0/mathpad/internal/config"
	"github.com/aretw0/mathpad/internal/presentation/tui"
	"github.com/aretw0/mathpad/pkg/domain"
	"github.com/aretw0/mathpad/pkg/runner"
)

// EditOptions contains all the configuration for the edit command.
type EditOptions struct {
	Config    config.Config
	SessionID string
	Headless  bool
	JSON      bool
	Debug     bool
	Fresh     bool

	Stdin  io.Reader
	Stdout io.Writer
}

// RunEdit executes a single editing session.
// Without a session ID the document lives in memory and is lost on exit.
func RunEdit(opts EditOptions) error {
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	interactive := !opts.JSON && !opts.Headless

	cfg := opts.Config
	persisted := opts.SessionID != ""
	if !persisted {
		cfg.Store.Driver = config.DriverMemory
	}

	logger := NewLogger(cfg.Log, opts.Debug, interactive)

	rt, err := NewRuntime(cfg, logger, opts.Debug)
	if err != nil {
		return err
	}
	defer rt.Close()

	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	if opts.Fresh && persisted {
		if err := rt.Engine.Delete(sigCtx, opts.SessionID); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
			return fmt.Errorf("failed to reset session: %w", err)
		}
	}

	var handler runner.IOHandler
	restore := func() {}
	switch {
	case opts.JSON:
		handler = runner.NewJSONHandler(opts.Stdin, opts.Stdout)
	case opts.Headless:
		handler = runner.NewTextHandler(opts.Stdin, opts.Stdout, runner.WithPrompt(""))
	default:
		tui.PrintBanner(opts.Stdout, mathpad.Version)
		term := runner.NewTerminalHandler(opts.Stdin, opts.Stdout,
			runner.WithTerminalRenderer(tui.NewSnapshotRenderer()),
		)
		if err := term.Start(); err != nil {
			return fmt.Errorf("failed to enter raw mode: %w", err)
		}
		restore = func() { term.Close() }
		defer restore()
		handler = term
	}

	if persisted && !interactive {
		logger.Info("Session active", "session_id", opts.SessionID)
	}

	r := runner.NewRunner(
		runner.WithEditor(rt.Engine),
		runner.WithLogger(logger),
		runner.WithInputHandler(handler),
		runner.WithSessionID(opts.SessionID),
	)
	runErr := r.Run(sigCtx)
	restore()

	// If context was canceled (signal received), ensure runErr reflects it if it doesn't already
	if sigCtx.Err() != nil && runErr == nil {
		runErr = sigCtx.Err()
	}
	if interactive {
		logCompletion(opts.Stdout, r.SessionID, persisted, runErr, sigCtx.Signal())
	}

	return handleExecutionError(runErr)
}
