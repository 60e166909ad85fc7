package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/spotdb/internal/models"
	"github.com/desertthunder/spotdb/internal/shared"
)

// IngestPlaylist fetches the playlist referenced by ref and stores it page by page.
//
// ref may be a bare id, a "spotify:playlist:<id>" uri or an open.spotify.com
// link. The returned result is non-nil even on failure and reflects what was
// written before it.
func (in *Ingestor) IngestPlaylist(ctx context.Context, ref string, progress chan<- ProgressUpdate) (*IngestResult, error) {
	start := time.Now()
	id := shared.NormalizePlaylistID(ref)
	result := &IngestResult{PlaylistID: id}
	defer func() { result.Duration = time.Since(start) }()

	if id == "" {
		return result, fmt.Errorf("%w: empty playlist reference", shared.ErrInvalidArgument)
	}

	logger := shared.WithLogger(in.logger, "playlist", id)
	sendProgress(progress, fetchPlaylistUpdate(id))

	name, err := in.source.PlaylistName(ctx, id)
	if err != nil {
		return result, fmt.Errorf("failed to fetch playlist %s: %w", id, err)
	}
	result.Name = name

	if _, err := in.playlists.Upsert(ctx, &models.Playlist{Name: shared.SanitizeText(name), URI: id}); err != nil {
		return result, fmt.Errorf("failed to store playlist %s: %w", id, err)
	}
	logger.Info("ingesting playlist", "name", name)

	run := in.withLogger(logger)
	pager := in.source.PlaylistTracks(ctx, id)
	for !pager.Done() {
		sendProgress(progress, fetchPageUpdate(result.Pages+1, result.Stats.Records, result.Total, name))

		page, err := pager.Next(ctx)
		if err != nil {
			return result, fmt.Errorf("failed to fetch page %d of playlist %s: %w", result.Pages+1, id, err)
		}
		result.Pages++
		result.Total = max(result.Total, page.Total)

		stats, err := run.UpsertPage(ctx, id, page.Items)
		result.Stats.Add(stats)
		if err != nil {
			return result, fmt.Errorf("failed to store page %d of playlist %s: %w", result.Pages, id, err)
		}

		logger.Debug("stored page", "page", result.Pages, "offset", page.Offset, "items", len(page.Items), "new_tracks", stats.Tracks)
		sendProgress(progress, storePageUpdate(result.Stats.Records, result.Total, name, stats))
	}

	logger.Info("playlist ingested",
		"pages", result.Pages, "records", result.Stats.Records, "new_tracks", result.Stats.Tracks, "skipped", result.Stats.Skipped)
	return result, nil
}

// IngestAll ingests each reference in order, continuing past failures.
//
// Cancelling ctx stops the batch; the playlist in flight and every one not
// started are reported as failures.
func (in *Ingestor) IngestAll(ctx context.Context, refs []string, progress chan<- ProgressUpdate) *BatchResult {
	batch := &BatchResult{RunID: shared.GenerateID()}
	logger := shared.WithLogger(in.logger, "run", batch.RunID)
	run := in.withLogger(logger)

	logger.Info("starting ingestion", "playlists", len(refs))

	succeeded := 0

	for i, ref := range refs {
		if err := ctx.Err(); err != nil {
			for _, rest := range refs[i:] {
				batch.Failures = append(batch.Failures, PlaylistFailure{ID: shared.NormalizePlaylistID(rest), Err: err})
			}
			break
		}

		result, err := run.IngestPlaylist(ctx, ref, progress)
		batch.Results = append(batch.Results, result)
		if err != nil {
			logger.Error("playlist failed", "playlist", ref, "err", err)
			batch.Failures = append(batch.Failures, PlaylistFailure{ID: result.PlaylistID, Err: err})
			sendProgress(progress, playlistFailedUpdate(i+1, len(refs), ref, err))
			continue
		}

		succeeded++
		sendProgress(progress, playlistDoneUpdate(i+1, len(refs), result))
	}

	logger.Info("ingestion finished", "succeeded", succeeded, "failed", len(batch.Failures))
	return batch
}
