package repositories

import (
	"context"
	"fmt"

	"github.com/desertthunder/spotdb/internal/models"
)

// TrackRepository persists [models.Track] rows.
type TrackRepository struct {
	db DB
}

// NewTrackRepository creates a new TrackRepository with the given database connection
func NewTrackRepository(db DB) *TrackRepository {
	return &TrackRepository{db: db}
}

// Upsert inserts the track unless its uri is already present.
func (r *TrackRepository) Upsert(ctx context.Context, track *models.Track) (bool, error) {
	return insertOrIgnore(ctx, r.db, track, `
		INSERT OR IGNORE INTO track (name, album_id, track_number, composer, duration_ms, popularity, explicit, uri)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		track.Name,
		track.AlbumID,
		track.TrackNumber,
		track.Composer,
		track.DurationMS,
		track.Popularity,
		track.Explicit,
		track.URI,
	)
}

// IDByURI returns the surrogate id of the track with the given uri.
func (r *TrackRepository) IDByURI(ctx context.Context, uri string) (int64, error) {
	return lookupID(ctx, r.db, "track", "track_id", uri)
}

// Count returns the number of tracks.
func (r *TrackRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.db, "track")
}

// List returns up to limit tracks ordered by id.
func (r *TrackRepository) List(ctx context.Context, limit int) ([]*models.Track, error) {
	rows, err := r.db.Query(ctx, `
		SELECT track_id, name, album_id, track_number, composer, duration_ms, popularity, explicit, uri
		FROM track
		ORDER BY track_id`+limitClause(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks: %w", err)
	}

	tracks := make([]*models.Track, 0, rows.Len())
	for _, v := range rows.Values {
		tracks = append(tracks, scanTrack(v))
	}
	return tracks, nil
}

// ListByPlaylist returns the tracks linked to the playlist with the given uri.
func (r *TrackRepository) ListByPlaylist(ctx context.Context, playlistURI string) ([]*models.Track, error) {
	rows, err := r.db.Query(ctx, `
		SELECT t.track_id, t.name, t.album_id, t.track_number, t.composer, t.duration_ms, t.popularity, t.explicit, t.uri
		FROM track t
		JOIN playlist_track pt ON pt.track_id = t.track_id
		JOIN playlist p ON p.playlist_id = pt.playlist_id
		WHERE p.uri = ?
		ORDER BY t.track_id
	`, playlistURI)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlist tracks: %w", err)
	}

	tracks := make([]*models.Track, 0, rows.Len())
	for _, v := range rows.Values {
		tracks = append(tracks, scanTrack(v))
	}
	return tracks, nil
}

// scanTrack converts a materialized row into a [models.Track]
func scanTrack(v []any) *models.Track {
	return &models.Track{
		ID:          asInt64(v[0]),
		Name:        asString(v[1]),
		AlbumID:     asInt64(v[2]),
		TrackNumber: int(asInt64(v[3])),
		Composer:    asString(v[4]),
		DurationMS:  int(asInt64(v[5])),
		Popularity:  asFloat64(v[6]),
		Explicit:    asBool(v[7]),
		URI:         asString(v[8]),
	}
}
