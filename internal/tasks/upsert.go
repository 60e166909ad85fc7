package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/spotdb/internal/models"
	"github.com/desertthunder/spotdb/internal/services"
	"github.com/desertthunder/spotdb/internal/shared"
)

// UpsertPage writes every record of one page for the playlist stored under playlistURI.
//
// Records are processed in order and stop at the first error; rows written
// for earlier records stay. Null tracks and local files are skipped and
// counted in [PageStats.Skipped]. The playlist row must already exist.
func (in *Ingestor) UpsertPage(ctx context.Context, playlistURI string, items []services.SpotifyPlaylistTrack) (PageStats, error) {
	var stats PageStats

	playlistID, err := resolve(ctx, "playlist", playlistURI, in.playlists.IDByURI)
	if err != nil {
		return stats, err
	}

	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		stats.Records++
		if item.Track == nil {
			stats.Skipped++
			in.logger.Warn("skipping unavailable track", "playlist", playlistURI, "position", i, "added_at", item.AddedAt)
			continue
		}

		if reason := unusable(item.Track); reason != "" {
			stats.Skipped++
			in.logger.Warn("skipping track", "playlist", playlistURI, "position", i, "track", item.Track.URI, "reason", reason)
			continue
		}

		if err := in.upsertRecord(ctx, playlistID, item.Track, &stats); err != nil {
			return stats, err
		}
	}

	return stats, nil
}

// upsertRecord writes artist, album, track and membership rows for tr, in that order.
// Text fields are sanitized before they are stored.
func (in *Ingestor) upsertRecord(ctx context.Context, playlistID int64, tr *services.SpotifyTrack, stats *PageStats) error {
	album := tr.Album
	primary := album.Artists[0]
	if len(album.Artists) > 1 {
		in.logger.Warn("album lists multiple artists, using the first",
			"album", album.Name, "uri", album.URI, "artists", len(album.Artists), "using", primary.Name)
	}

	inserted, err := in.artists.Upsert(ctx, &models.Artist{Name: shared.SanitizeText(primary.Name), URI: primary.URI})
	if err != nil {
		return recordError(tr, err)
	}
	if inserted {
		stats.Artists++
	}

	artistID, err := resolve(ctx, "artist", primary.URI, in.artists.IDByURI)
	if err != nil {
		return err
	}

	inserted, err = in.albums.Upsert(ctx, &models.Album{
		Name:        shared.SanitizeText(album.Name),
		ReleaseDate: album.ReleaseDate,
		ArtistID:    artistID,
		URI:         album.URI,
	})
	if err != nil {
		return recordError(tr, err)
	}
	if inserted {
		stats.Albums++
	}

	albumID, err := resolve(ctx, "album", album.URI, in.albums.IDByURI)
	if err != nil {
		return err
	}

	inserted, err = in.tracks.Upsert(ctx, &models.Track{
		Name:        shared.SanitizeText(tr.Name),
		AlbumID:     albumID,
		TrackNumber: tr.TrackNumber,
		Composer:    shared.SanitizeText(composer(tr.Artists)),
		DurationMS:  tr.DurationMS,
		Popularity:  float64(tr.Popularity),
		Explicit:    tr.Explicit,
		URI:         tr.URI,
	})
	if err != nil {
		return recordError(tr, err)
	}
	if inserted {
		stats.Tracks++
	}

	trackID, err := resolve(ctx, "track", tr.URI, in.tracks.IDByURI)
	if err != nil {
		return err
	}

	inserted, err = in.edges.Upsert(ctx, &models.PlaylistTrack{PlaylistID: playlistID, TrackID: trackID})
	if err != nil {
		return recordError(tr, err)
	}
	if inserted {
		stats.PlaylistTracks++
	}

	in.logger.Debug("stored track", "track", tr.Name, "uri", tr.URI, "album_id", albumID, "track_id", trackID)
	return nil
}

// unusable reports why tr cannot be stored, or "" when it can.
// Local files come back with an album that has no uri or artists.
func unusable(tr *services.SpotifyTrack) string {
	switch {
	case tr.Album.URI == "":
		return "album has no uri"
	case len(tr.Album.Artists) == 0:
		return "album lists no artists"
	default:
		return ""
	}
}

// composer joins every contributing artist's display name.
func composer(artists []services.SpotifyArtist) string {
	names := make([]string, 0, len(artists))
	for _, a := range artists {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}

// resolve looks up a surrogate id that must exist, turning a missing row into an [shared.InternalConsistencyError].
func resolve(ctx context.Context, entity, uri string, lookup func(context.Context, string) (int64, error)) (int64, error) {
	id, err := lookup(ctx, uri)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, &shared.InternalConsistencyError{Entity: entity, URI: uri, Err: err}
	}
	return id, err
}

func recordError(tr *services.SpotifyTrack, err error) error {
	if errors.Is(err, models.ErrValidation) {
		return fmt.Errorf("%w: track %s: %w", shared.ErrInvalidRecord, tr.URI, err)
	}
	return fmt.Errorf("failed to store track %s: %w", tr.URI, err)
}
