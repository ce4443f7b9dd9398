package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/pipegen/pipegen/internal/ctxlog"
)

// App encapsulates one invocation's dependencies and lifecycle: the
// streams it talks to, its isolated logger, and the parsed configuration.
type App struct {
	inR    io.Reader
	outW   io.Writer
	logger *slog.Logger
	config *Config
}

// NewApp is the constructor for the application. It returns a fully
// initialized App instance with its own isolated logger.
func NewApp(inR io.Reader, outW io.Writer, config *Config) *App {
	logger := newLogger(config.LogLevel, config.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	return &App{
		inR:    inR,
		outW:   outW,
		logger: logger,
		config: config,
	}
}

// newLogger builds an isolated slog.Logger for this invocation; the global
// default logger is never touched so tests can run apps side by side.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	level := slog.LevelInfo
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	if formatStr == "json" {
		return slog.New(slog.NewJSONHandler(outW, opts))
	}
	return slog.New(slog.NewTextHandler(outW, opts))
}

// Run dispatches the configured command. The returned error is either a
// *cli.ExitError-compatible message for main to report, or nil.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("Command dispatch.", "command", a.config.Command)

	switch a.config.Command {
	case "new":
		return a.runNew(ctx)
	case "generate":
		return a.runGenerate(ctx)
	case "doctor":
		return a.runDoctor(ctx)
	case "migrate":
		return a.runMigrate(ctx)
	case "console":
		return a.runConsole(ctx)
	case "stats":
		return a.runStats(ctx)
	case "version":
		return a.runVersion(ctx)
	}
	return fmt.Errorf("unknown command: %s", a.config.Command)
}
