// Package app wires configuration, logging, storage, the credential store
// and the interactive prompt into a runnable program.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/credkeeper/internal/cli"
	"github.com/dmitrijs2005/credkeeper/internal/config"
	"github.com/dmitrijs2005/credkeeper/internal/credentials"
	"github.com/dmitrijs2005/credkeeper/internal/logging"
	"github.com/dmitrijs2005/credkeeper/internal/repositories/repomanager"
	"golang.org/x/term"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	manager repomanager.RepositoryManager
	cli     *cli.App
	in      io.Reader
}

// NewApp opens the configured storage and builds the credential store on top
// of it. The caller must call Close.
func NewApp(ctx context.Context, c *config.Config, in io.Reader, out, logOut io.Writer) (*App, error) {
	logger, err := logging.New(c.LogLevel, c.LogFormat, logOut)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	m, err := repomanager.NewRepositoryManager(ctx, c.Storage, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	store, err := credentials.NewStore(m.Credentials(), c.KDFParams(), logger)
	if err != nil {
		_ = m.Close()
		return nil, fmt.Errorf("store init error: %w", err)
	}

	return &App{
		config:  c,
		logger:  logger,
		manager: m,
		cli:     cli.NewApp(store, logger, in, out),
		in:      in,
	}, nil
}

// signalStop is a test seam for signal.Stop.
var signalStop = signal.Stop

// initSignalHandler cancels on SIGINT, SIGTERM or SIGQUIT. The handler is
// released once ctx is done.
func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signalStop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

// Run starts the prompt and returns when it ends or a termination signal
// arrives. A prompt blocked on input is abandoned in the latter case.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting credkeeper...",
		"algorithm", app.config.Algorithm,
		"iterations", app.config.Iterations,
		"storage", app.config.Storage)

	app.initSignalHandler(ctx, cancelFunc)

	// password prompts switch echo off; put the terminal back on exit
	if f, ok := app.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if state, err := term.GetState(int(f.Fd())); err == nil {
			defer func() { _ = term.Restore(int(f.Fd()), state) }()
		}
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		app.cli.Run(ctx)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		app.logger.Info(context.Background(), "Interrupted, shutting down")
	}
}

// Close releases the storage backend.
func (app *App) Close() error {
	return app.manager.Close()
}
