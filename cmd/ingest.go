package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/spotdb/internal/services"
	"github.com/desertthunder/spotdb/internal/shared"
	"github.com/desertthunder/spotdb/internal/tasks"
	"github.com/desertthunder/spotdb/internal/ui"
	"github.com/urfave/cli/v3"
)

// ingestFailure is the JSON form of [tasks.PlaylistFailure].
type ingestFailure struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// ingestSummary is the JSON form of [tasks.BatchResult].
type ingestSummary struct {
	RunID    string                `json:"run_id"`
	Results  []*tasks.IngestResult `json:"results"`
	Failures []ingestFailure       `json:"failures"`
	Totals   tasks.PageStats       `json:"totals"`
}

// playlistRefs collects the playlists to ingest from the arguments or the config and validates them.
func playlistRefs(cmd *cli.Command, config *shared.Config) ([]string, error) {
	refs := cmd.Args().Slice()
	if len(refs) == 0 {
		refs = config.Playlists.Default
	}
	if len(refs) == 0 {
		return nil, fmt.Errorf("%w: no playlist ids given and playlists.default is empty", shared.ErrMissingArgument)
	}

	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		id := shared.NormalizePlaylistID(ref)
		if err := shared.ValidatePlaylistID(id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Ingest fetches each playlist and stores its tracks, continuing past failed playlists.
func (r *Runner) Ingest(ctx context.Context, cmd *cli.Command) error {
	config, err := r.configFor(cmd)
	if err != nil {
		return err
	}

	ids, err := playlistRefs(cmd, config)
	if err != nil {
		return err
	}

	tokenPath := config.Credentials.TokenPath
	if cmd.IsSet("token-file") {
		tokenPath = cmd.String("token-file")
	}
	token, err := shared.LoadToken(tokenPath)
	if err != nil {
		return err
	}

	delay := config.Spotify.PageDelay
	if cmd.IsSet("delay") {
		delay = cmd.Duration("delay")
	}
	limit := config.Spotify.PageLimit
	if cmd.IsSet("limit") {
		limit = int(cmd.Int("limit"))
	}

	svc, err := services.NewSpotifyService(token,
		services.WithBaseURL(config.Spotify.BaseURL),
		services.WithHTTPClient(r.httpClient),
		services.WithPageLimit(limit),
		services.WithPageDelay(delay),
		services.WithTimeout(config.Spotify.Timeout),
	)
	if err != nil {
		return err
	}

	store, err := r.openStore(ctx, config)
	if err != nil {
		return err
	}
	defer store.Close()

	quiet := cmd.Bool("quiet") || cmd.Bool("json")
	progress := make(chan tasks.ProgressUpdate, 32)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			if quiet || update.Phase == tasks.FetchPage {
				continue
			}
			r.writePlain("%s\n", ui.RenderProgress(update))
		}
	}()

	r.logger.Info("ingesting playlists", "count", len(ids), "db", store.Path(), "page_limit", limit, "page_delay", delay)

	ingestor := tasks.NewIngestor(store, tasks.NewSpotifySource(svc), r.logger)
	batch := ingestor.IngestAll(ctx, ids, progress)
	close(progress)
	<-done

	if cmd.Bool("json") {
		summary := ingestSummary{RunID: batch.RunID, Results: batch.Results, Totals: batch.Totals(), Failures: []ingestFailure{}}
		for _, f := range batch.Failures {
			summary.Failures = append(summary.Failures, ingestFailure{ID: f.ID, Error: f.Err.Error()})
		}
		if err := r.writeJSON(summary, true); err != nil {
			return err
		}
	} else {
		r.writePlainln("%s", ui.RenderBatch(batch))
	}

	if err := batch.Err(); err != nil {
		return fmt.Errorf("%d of %d playlists failed: %w", len(batch.Failures), len(ids), err)
	}
	return nil
}
