package shared

import (
	"embed"
	"fmt"
	"strings"
)

//go:embed sql/*.sql
var schemaFiles embed.FS

// SchemaTables lists the tables created by the embedded schema, parents first.
var SchemaTables = []string{"artist", "album", "track", "playlist", "playlist_track"}

// loadSchema reads the embedded schema and splits it into executable statements.
func loadSchema() ([]string, error) {
	content, err := schemaFiles.ReadFile("sql/schema.sql")
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	return splitStatements(string(content)), nil
}

// splitStatements breaks a SQL script on ';' and drops comments and empty statements.
func splitStatements(script string) []string {
	var statements []string
	for _, stmt := range strings.Split(script, ";") {
		stmt = strings.TrimSpace(removeComments(stmt))
		if stmt == "" {
			continue
		}
		statements = append(statements, stmt)
	}
	return statements
}

// removeComments removes SQL comments from a statement.
func removeComments(sql string) string {
	lines := strings.Split(sql, "\n")
	var result []string
	for _, line := range lines {
		if idx := strings.Index(line, "--"); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line != "" {
			result = append(result, line)
		}
	}
	return strings.Join(result, "\n")
}

// quoteIdent quotes a SQLite identifier.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
