package main

import (
	"context"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/desertthunder/spotdb/internal/shared"
	"github.com/desertthunder/spotdb/internal/ui"
	"github.com/urfave/cli/v3"
)

// ConfigInit writes the embedded example configuration to --output.
func (r *Runner) ConfigInit(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("output")

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", path)
	r.writePlain("%s Config written to %s\n", ui.Default().OK("✓"), path)
	r.writePlainln("Next steps:")
	r.writePlain("1. Put a Spotify bearer token on the first line of the file named by credentials.token_path\n")
	r.writePlain("2. Run 'spotdb ingest <playlist id>'\n")
	return nil
}

// ConfigShow prints the effective configuration as TOML.
func (r *Runner) ConfigShow(ctx context.Context, cmd *cli.Command) error {
	config, err := r.configFor(cmd)
	if err != nil {
		return err
	}

	if err := toml.NewEncoder(r.output).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// DBInit creates the database file and schema.
func (r *Runner) DBInit(ctx context.Context, cmd *cli.Command) error {
	config, err := r.configFor(cmd)
	if err != nil {
		return err
	}

	r.logger.Info("initializing database", "path", config.Database.Path, "driver", config.Database.Driver)

	store, err := r.openStore(ctx, config)
	if err != nil {
		return err
	}
	defer store.Close()

	r.logger.Infof("setup complete for database: %v", store.Path())
	return r.writePlain("%s Database ready at %s\n", ui.Default().OK("✓"), store.Path())
}
