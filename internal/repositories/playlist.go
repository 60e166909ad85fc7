package repositories

import (
	"context"
	"fmt"

	"github.com/desertthunder/spotdb/internal/models"
)

// PlaylistRepository persists [models.Playlist] rows keyed by bare playlist id.
type PlaylistRepository struct {
	db DB
}

// NewPlaylistRepository creates a new PlaylistRepository with the given database connection
func NewPlaylistRepository(db DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

// Upsert inserts the playlist unless its uri is already present.
func (r *PlaylistRepository) Upsert(ctx context.Context, playlist *models.Playlist) (bool, error) {
	return insertOrIgnore(ctx, r.db, playlist,
		"INSERT OR IGNORE INTO playlist (name, uri) VALUES (?, ?)",
		playlist.Name, playlist.URI,
	)
}

// IDByURI returns the surrogate id of the playlist with the given uri.
func (r *PlaylistRepository) IDByURI(ctx context.Context, uri string) (int64, error) {
	return lookupID(ctx, r.db, "playlist", "playlist_id", uri)
}

// Count returns the number of playlists.
func (r *PlaylistRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.db, "playlist")
}

// List returns up to limit playlists ordered by id.
func (r *PlaylistRepository) List(ctx context.Context, limit int) ([]*models.Playlist, error) {
	rows, err := r.db.Query(ctx, "SELECT playlist_id, name, uri FROM playlist ORDER BY playlist_id"+limitClause(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists: %w", err)
	}

	playlists := make([]*models.Playlist, 0, rows.Len())
	for _, v := range rows.Values {
		playlists = append(playlists, &models.Playlist{
			ID:   asInt64(v[0]),
			Name: asString(v[1]),
			URI:  asString(v[2]),
		})
	}
	return playlists, nil
}

// PlaylistTrackRepository persists membership edges between playlists and tracks.
type PlaylistTrackRepository struct {
	db DB
}

// NewPlaylistTrackRepository creates a new PlaylistTrackRepository with the given database connection
func NewPlaylistTrackRepository(db DB) *PlaylistTrackRepository {
	return &PlaylistTrackRepository{db: db}
}

// Upsert links the track to the playlist unless the edge already exists.
func (r *PlaylistTrackRepository) Upsert(ctx context.Context, edge *models.PlaylistTrack) (bool, error) {
	return insertOrIgnore(ctx, r.db, edge,
		"INSERT OR IGNORE INTO playlist_track (playlist_id, track_id) VALUES (?, ?)",
		edge.PlaylistID, edge.TrackID,
	)
}

// Count returns the number of membership edges.
func (r *PlaylistTrackRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.db, "playlist_track")
}

// CountByPlaylist returns the number of tracks linked to a playlist id.
func (r *PlaylistTrackRepository) CountByPlaylist(ctx context.Context, playlistID int64) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM playlist_track WHERE playlist_id = ?", playlistID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count playlist tracks: %w", err)
	}
	return n, nil
}

// List returns up to limit edges ordered by playlist then track.
func (r *PlaylistTrackRepository) List(ctx context.Context, limit int) ([]*models.PlaylistTrack, error) {
	rows, err := r.db.Query(ctx, "SELECT playlist_id, track_id FROM playlist_track ORDER BY playlist_id, track_id"+limitClause(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query playlist tracks: %w", err)
	}

	edges := make([]*models.PlaylistTrack, 0, rows.Len())
	for _, v := range rows.Values {
		edges = append(edges, &models.PlaylistTrack{
			PlaylistID: asInt64(v[0]),
			TrackID:    asInt64(v[1]),
		})
	}
	return edges, nil
}
