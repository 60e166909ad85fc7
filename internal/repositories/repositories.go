// package repositories provides persistence layer implementations for all model types.
package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/desertthunder/spotdb/internal/models"
	"github.com/desertthunder/spotdb/internal/shared"
)

// DB is the subset of [shared.Store] the repositories need.
type DB interface {
	Exec(ctx context.Context, stmt string, args ...any) (sql.Result, error)
	Query(ctx context.Context, stmt string, args ...any) (*shared.Rows, error)
	QueryRow(ctx context.Context, stmt string, args ...any) *sql.Row
}

// TableCounts holds the row count of every schema table.
type TableCounts struct {
	Artists        int64 `json:"artist"`
	Albums         int64 `json:"album"`
	Tracks         int64 `json:"track"`
	Playlists      int64 `json:"playlist"`
	PlaylistTracks int64 `json:"playlist_track"`
}

// insertOrIgnore validates m and runs an INSERT OR IGNORE statement.
//
// Returns true when a new row was written, false when the natural key already existed.
func insertOrIgnore(ctx context.Context, db DB, m models.Model, query string, args ...any) (bool, error) {
	if err := m.Validate(); err != nil {
		return false, err
	}

	result, err := db.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to insert %s %v: %w", m.Table(), m.NaturalKey(), err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rows > 0, nil
}

// lookupID selects the surrogate id column of table for the given uri.
func lookupID(ctx context.Context, db DB, table, idColumn, uri string) (int64, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE uri = ?", idColumn, table)

	var id int64
	err := db.QueryRow(ctx, query, uri).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%s %q not found: %w", table, uri, err)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to look up %s id: %w", table, err)
	}

	return id, nil
}

// count returns the number of rows in table.
func count(ctx context.Context, db DB, table string) (int64, error) {
	var n int64
	if err := db.QueryRow(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return n, nil
}

// limitClause renders a LIMIT for positive n and nothing otherwise.
func limitClause(n int) string {
	if n <= 0 {
		return ""
	}
	return " LIMIT " + strconv.Itoa(n)
}

// Stats counts rows in all five tables.
func Stats(ctx context.Context, db DB) (*TableCounts, error) {
	var (
		c   TableCounts
		err error
	)

	targets := []struct {
		table string
		dest  *int64
	}{
		{"artist", &c.Artists},
		{"album", &c.Albums},
		{"track", &c.Tracks},
		{"playlist", &c.Playlists},
		{"playlist_track", &c.PlaylistTracks},
	}

	for _, target := range targets {
		if *target.dest, err = count(ctx, db, target.table); err != nil {
			return nil, err
		}
	}

	return &c, nil
}

func asInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	case string:
		i, _ := strconv.ParseInt(n, 10, 64)
		return i
	case bool:
		if n {
			return 1
		}
	}
	return 0
}

func asFloat64(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case string:
		f, _ := strconv.ParseFloat(n, 64)
		return f
	}
	return 0
}

func asString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case []byte:
		return string(s)
	default:
		return fmt.Sprint(s)
	}
}

func asBool(v any) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return asInt64(v) != 0
}
