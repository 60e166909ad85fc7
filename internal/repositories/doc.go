// Package repositories implements SQLite persistence for the normalized playlist schema.
//
// Each repository handles one table and exposes the insert-if-absent protocol used by ingestion:
//   - Upsert inserts a row with INSERT OR IGNORE keyed on the natural key and reports whether a row was written
//   - IDByURI resolves the surrogate id for a natural key, wrapping [sql.ErrNoRows] when absent
//
// Key Implementations:
//   - [ArtistRepository] : artists, unique by uri
//   - [AlbumRepository] : albums referencing an artist
//   - [TrackRepository] : tracks referencing an album
//   - [PlaylistRepository] : playlists, unique by bare playlist id
//   - [PlaylistTrackRepository] : membership edges keyed by (playlist_id, track_id)
//
// Repositories never update or delete rows. All statements are parameterized.
package repositories
