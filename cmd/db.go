package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/desertthunder/spotdb/internal/formatter"
	"github.com/desertthunder/spotdb/internal/repositories"
	"github.com/desertthunder/spotdb/internal/shared"
	"github.com/desertthunder/spotdb/internal/ui"
	"github.com/urfave/cli/v3"
)

// confirm asks title as a yes/no question on the runner's input and output.
// Unrecognized answers re-prompt; an empty answer or end of input counts as no.
func (r *Runner) confirm(title string) (bool, error) {
	var ok bool

	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(title).
			Affirmative("yes").
			Negative("no").
			Value(&ok),
	)).
		WithAccessible(true).
		WithInput(r.input).
		WithOutput(r.output)

	if err := form.Run(); err != nil {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}
	return ok, nil
}

// DBWipe drops every table and view and recreates the empty schema after confirmation.
func (r *Runner) DBWipe(ctx context.Context, cmd *cli.Command) error {
	config, err := r.configFor(cmd)
	if err != nil {
		return err
	}

	store, err := r.openStore(ctx, config)
	if err != nil {
		return err
	}
	defer store.Close()

	if !cmd.Bool("yes") {
		r.writePlain("%s\n", ui.Default().Warn(fmt.Sprintf("This deletes all data in %s.", store.Path())))
		ok, err := r.confirm("Type 'yes' to confirm")
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: database wipe", shared.ErrAborted)
		}
	}

	if err := store.WipeAndRecreate(ctx); err != nil {
		return fmt.Errorf("failed to wipe database: %w", err)
	}
	r.logger.Info("database wiped", "path", store.Path())

	tables, err := store.ListTables(ctx)
	if err != nil {
		return err
	}

	r.writePlain("%s Recreated tables:\n", ui.Default().OK("✓"))
	return r.writeBytes(formatter.TablesText(tables))
}

// DBTables lists the tables and views in the database.
func (r *Runner) DBTables(ctx context.Context, cmd *cli.Command) error {
	config, err := r.configFor(cmd)
	if err != nil {
		return err
	}

	store, err := r.openStore(ctx, config)
	if err != nil {
		return err
	}
	defer store.Close()

	tables, err := store.ListTables(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(tables, true)
	}
	return r.writeBytes(formatter.TablesText(tables))
}

// DBStats prints the row count of every table.
func (r *Runner) DBStats(ctx context.Context, cmd *cli.Command) error {
	config, err := r.configFor(cmd)
	if err != nil {
		return err
	}

	store, err := r.openStore(ctx, config)
	if err != nil {
		return err
	}
	defer store.Close()

	counts, err := repositories.Stats(ctx, store)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(counts, true)
	}
	return r.writeBytes(formatter.StatsText(*counts))
}

// DBSample prints the first --limit rows of every table.
func (r *Runner) DBSample(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	limit := int(cmd.Int("limit"))
	if limit <= 0 {
		return fmt.Errorf("%w: --limit must be positive", shared.ErrInvalidArgument)
	}

	config, err := r.configFor(cmd)
	if err != nil {
		return err
	}

	store, err := r.openStore(ctx, config)
	if err != nil {
		return err
	}
	defer store.Close()

	samples := make([]formatter.TableSample, 0, len(shared.SchemaTables))
	for _, table := range shared.SchemaTables {
		rows, err := store.Query(ctx, fmt.Sprintf("SELECT * FROM %s LIMIT ?", table), limit)
		if err != nil {
			return fmt.Errorf("failed to sample %s: %w", table, err)
		}
		samples = append(samples, formatter.TableSample{Table: table, Rows: rows})
	}

	return formatter.WriteSamples(r.output, format, samples)
}
