package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/spotdb/internal/shared"
	"github.com/urfave/cli/v3"
)

const defaultConfigPath = "config.toml"

func main() {
	logger := shared.NewLogger(nil)

	config, err := shared.LoadConfigOrDefault(defaultConfigPath)
	if err != nil {
		logger.Warn("failed to load config, using defaults", "path", defaultConfigPath, "error", err)
		config = shared.DefaultConfig()
	}
	if err := shared.SetLogLevelString(logger, config.Log.Level); err != nil {
		logger.Warn("ignoring log level from config", "error", err)
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: defaultConfigPath,
		Logger:     logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(runner).Run(ctx, os.Args); err != nil {
		stop()
		os.Exit(exitCode(runner, err))
	}
}

// newApp builds the root command around r.
func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "spotdb",
		Usage:   "Load Spotify playlists into a normalized SQLite database",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			return ctx, shared.SetLogLevelString(r.logger, cmd.String("log-level"))
		},
		Commands: r.register(),
	}
}

// exitCode logs err with a hint for the known failure kinds and picks the process status.
func exitCode(r *Runner, err error) int {
	var credErr *shared.CredentialError

	switch {
	case errors.Is(err, shared.ErrAborted):
		r.logger.Warn("aborted")
		return 0
	case errors.As(err, &credErr) && credErr.Kind == shared.CredentialNotFound:
		r.logger.Error("token file not found", "path", credErr.Path, "hint", "write a bearer token to the file or pass --token-file")
		return 2
	case errors.As(err, &credErr):
		r.logger.Error("token file is unusable", "path", credErr.Path, "error", credErr.Err)
		return 2
	case errors.Is(err, shared.ErrMissingConfig), errors.Is(err, shared.ErrInvalidConfig):
		r.logger.Error("configuration error", "error", err)
		return 2
	case errors.Is(err, context.Canceled):
		r.logger.Warn("interrupted")
		return 130
	default:
		r.logger.Error(fmt.Sprintf("application error: %v", err))
		return 1
	}
}
