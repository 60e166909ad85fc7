package repositories

import (
	"context"
	"fmt"

	"github.com/desertthunder/spotdb/internal/models"
)

// ArtistRepository persists [models.Artist] rows.
type ArtistRepository struct {
	db DB
}

// NewArtistRepository creates a new ArtistRepository with the given database connection
func NewArtistRepository(db DB) *ArtistRepository {
	return &ArtistRepository{db: db}
}

// Upsert inserts the artist unless its uri is already present.
func (r *ArtistRepository) Upsert(ctx context.Context, artist *models.Artist) (bool, error) {
	return insertOrIgnore(ctx, r.db, artist,
		"INSERT OR IGNORE INTO artist (name, uri) VALUES (?, ?)",
		artist.Name, artist.URI,
	)
}

// IDByURI returns the surrogate id of the artist with the given uri.
func (r *ArtistRepository) IDByURI(ctx context.Context, uri string) (int64, error) {
	return lookupID(ctx, r.db, "artist", "artist_id", uri)
}

// Count returns the number of artists.
func (r *ArtistRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.db, "artist")
}

// List returns up to limit artists ordered by id. A non-positive limit returns all.
func (r *ArtistRepository) List(ctx context.Context, limit int) ([]*models.Artist, error) {
	rows, err := r.db.Query(ctx, "SELECT artist_id, name, uri FROM artist ORDER BY artist_id"+limitClause(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query artists: %w", err)
	}

	artists := make([]*models.Artist, 0, rows.Len())
	for _, v := range rows.Values {
		artists = append(artists, &models.Artist{
			ID:   asInt64(v[0]),
			Name: asString(v[1]),
			URI:  asString(v[2]),
		})
	}
	return artists, nil
}
