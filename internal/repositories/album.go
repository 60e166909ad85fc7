package repositories

import (
	"context"
	"fmt"

	"github.com/desertthunder/spotdb/internal/models"
)

// AlbumRepository persists [models.Album] rows.
//
// The referenced artist must exist; the foreign key is enforced by SQLite.
type AlbumRepository struct {
	db DB
}

// NewAlbumRepository creates a new AlbumRepository with the given database connection
func NewAlbumRepository(db DB) *AlbumRepository {
	return &AlbumRepository{db: db}
}

// Upsert inserts the album unless its uri is already present.
func (r *AlbumRepository) Upsert(ctx context.Context, album *models.Album) (bool, error) {
	return insertOrIgnore(ctx, r.db, album, `
		INSERT OR IGNORE INTO album (name, release_date, artist_id, uri)
		VALUES (?, ?, ?, ?)
	`,
		album.Name,
		album.ReleaseDate,
		album.ArtistID,
		album.URI,
	)
}

// IDByURI returns the surrogate id of the album with the given uri.
func (r *AlbumRepository) IDByURI(ctx context.Context, uri string) (int64, error) {
	return lookupID(ctx, r.db, "album", "album_id", uri)
}

// Count returns the number of albums.
func (r *AlbumRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.db, "album")
}

// List returns up to limit albums ordered by id.
func (r *AlbumRepository) List(ctx context.Context, limit int) ([]*models.Album, error) {
	rows, err := r.db.Query(ctx, `
		SELECT album_id, name, release_date, artist_id, uri
		FROM album
		ORDER BY album_id`+limitClause(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query albums: %w", err)
	}

	albums := make([]*models.Album, 0, rows.Len())
	for _, v := range rows.Values {
		albums = append(albums, &models.Album{
			ID:          asInt64(v[0]),
			Name:        asString(v[1]),
			ReleaseDate: asString(v[2]),
			ArtistID:    asInt64(v[3]),
			URI:         asString(v[4]),
		})
	}
	return albums, nil
}
