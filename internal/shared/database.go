package shared

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

const (
	DriverMattn   = "sqlite3" // github.com/mattn/go-sqlite3 (cgo)
	DriverModernc = "sqlite"  // modernc.org/sqlite (pure Go)

	MemoryPath = ":memory:"
)

// Store is the single handle to the backing SQLite database.
//
// Other components go through [Store.Exec] and [Store.Query]. The pool is pinned
// to one connection so per-connection pragmas and in-memory databases survive
// between statements. Statements auto-commit individually.
type Store struct {
	db     *sql.DB
	path   string
	driver string
}

// TableInfo describes one entry of sqlite_master.
type TableInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Rows is a fully materialized query result.
type Rows struct {
	Columns []string `json:"columns"`
	Values  [][]any  `json:"values"`
}

// Len returns the number of rows.
func (r *Rows) Len() int { return len(r.Values) }

// NewDatabase opens a connection to a SQLite database at the specified path with foreign keys enabled.
// The path can be ":memory:" for an in-memory database.
// Returns an open database connection or an error if connection fails.
func NewDatabase(driver, path string) (*sql.DB, error) {
	dsn, err := dataSourceName(driver, path)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// dataSourceName builds a driver specific DSN that turns foreign keys on for every connection.
func dataSourceName(driver, path string) (string, error) {
	switch driver {
	case DriverMattn:
		return path + "?_foreign_keys=1", nil
	case DriverModernc:
		return path + "?_pragma=foreign_keys(1)", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
}

// ResolveDatabasePath expands "~/" and falls back to the XDG data directory when path is empty.
func ResolveDatabasePath(path string) (string, error) {
	if path == MemoryPath {
		return path, nil
	}
	if path == "" {
		p, err := xdg.DataFile(filepath.Join("spotdb", "spotify.db"))
		if err != nil {
			return "", fmt.Errorf("failed to resolve data directory: %w", err)
		}
		return p, nil
	}
	return ExpandHome(path)
}

// OpenStore opens or creates the database described by cfg, creating parent
// directories as needed, and makes sure the schema exists.
func OpenStore(ctx context.Context, cfg DatabaseConfig) (*Store, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DriverMattn
	}

	path, err := ResolveDatabasePath(cfg.Path)
	if err != nil {
		return nil, err
	}

	if path != MemoryPath {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	db, err := NewDatabase(driver, path)
	if err != nil {
		return nil, err
	}

	store := &Store{db: db, path: path, driver: driver}
	if err := store.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// Path returns the resolved database location.
func (s *Store) Path() string { return s.path }

// Driver returns the database/sql driver name in use.
func (s *Store) Driver() string { return s.driver }

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Exec executes a data-definition or data-manipulation statement.
func (s *Store) Exec(ctx context.Context, stmt string, args ...any) (sql.Result, error) {
	res, err := s.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute statement: %w", err)
	}
	return res, nil
}

// Query executes a query and returns all of its rows.
func (s *Store) Query(ctx context.Context, stmt string, args ...any) (*Rows, error) {
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	result := &Rows{Columns: columns}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		result.Values = append(result.Values, values)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return result, nil
}

// QueryRow runs a query expected to return at most one row.
func (s *Store) QueryRow(ctx context.Context, stmt string, args ...any) *sql.Row {
	return s.db.QueryRowContext(ctx, stmt, args...)
}

// EnsureSchema creates any of the five tables that do not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	statements, err := loadSchema()
	if err != nil {
		return err
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute statement: %w\nStatement: %s", err, stmt)
		}
	}
	return nil
}

// ListTables returns the user tables and views in the database.
func (s *Store) ListTables(ctx context.Context) ([]TableInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, type
		FROM sqlite_master
		WHERE type IN ('table', 'view') AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var tables []TableInfo
	for rows.Next() {
		var t TableInfo
		if err := rows.Scan(&t.Name, &t.Type); err != nil {
			return nil, fmt.Errorf("failed to scan table: %w", err)
		}
		tables = append(tables, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return tables, nil
}

// WipeAndRecreate drops every table and view and recreates the schema.
//
// Foreign key checks are off while dropping so order does not matter, and
// are back on before the tables are recreated.
func (s *Store) WipeAndRecreate(ctx context.Context) error {
	tables, err := s.ListTables(ctx)
	if err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, "PRAGMA foreign_keys = OFF"); err != nil {
		return fmt.Errorf("failed to disable foreign keys: %w", err)
	}

	for _, t := range tables {
		stmt := fmt.Sprintf("DROP %s IF EXISTS %s", strings.ToUpper(t.Type), quoteIdent(t.Name))
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return s.restoreForeignKeys(ctx, fmt.Errorf("failed to drop %s %s: %w", t.Type, t.Name, err))
		}
	}

	if _, err := s.db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return s.EnsureSchema(ctx)
}

// restoreForeignKeys turns enforcement back on after a failed wipe and joins any failure to cause.
func (s *Store) restoreForeignKeys(ctx context.Context, cause error) error {
	if _, err := s.db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		return errors.Join(cause, fmt.Errorf("failed to enable foreign keys: %w", err))
	}
	return cause
}

// ForeignKeysEnabled reports whether foreign key enforcement is on for the connection.
func (s *Store) ForeignKeysEnabled(ctx context.Context) (bool, error) {
	var on int
	if err := s.db.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&on); err != nil {
		return false, fmt.Errorf("failed to read foreign_keys pragma: %w", err)
	}
	return on == 1, nil
}
