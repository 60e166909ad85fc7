// package formatter renders database contents as plain text, CSV or JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/desertthunder/spotdb/internal/repositories"
	"github.com/desertthunder/spotdb/internal/shared"
	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
)

// Format selects an output encoding.
type Format string

const (
	Text Format = "text"
	CSV  Format = "csv"
	JSON Format = "json"
)

// ParseFormat validates a --format value. Empty means [Text].
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return Text, nil
	case Text, CSV, JSON:
		return f, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (want text, csv or json)", shared.ErrInvalidArgument, s)
	}
}

// TableSample holds the first rows of one table.
type TableSample struct {
	Table string       `json:"table"`
	Rows  *shared.Rows `json:"rows"`
}

// Cell renders a scanned SQLite value for display.
func Cell(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case string:
		return x
	case []byte:
		return string(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		if x {
			return "1"
		}
		return "0"
	default:
		return fmt.Sprint(x)
	}
}

func stringRows(rows *shared.Rows) [][]string {
	out := make([][]string, 0, rows.Len())
	for _, r := range rows.Values {
		record := make([]string, len(r))
		for i, v := range r {
			record[i] = Cell(v)
		}
		out = append(out, record)
	}
	return out
}

// RowsToCSV converts a query result to CSV with a header row.
func RowsToCSV(rows *shared.Rows) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(rows.Columns); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	if err := writer.WriteAll(stringRows(rows)); err != nil {
		return nil, fmt.Errorf("failed to write CSV record: %w", err)
	}

	return buf.Bytes(), nil
}

// RowsToText renders a query result as a bordered table.
func RowsToText(rows *shared.Rows) []byte {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(rows.Columns...).
		Rows(stringRows(rows)...)
	return []byte(t.String() + "\n")
}

// WriteSamples writes every sample in the requested format.
//
// CSV output separates tables with a "# <table>" line.
func WriteSamples(w io.Writer, format Format, samples []TableSample) error {
	var buf bytes.Buffer

	switch format {
	case JSON:
		data, err := shared.MarshalJSON(samples, true)
		if err != nil {
			return fmt.Errorf("failed to marshal samples: %w", err)
		}
		buf.Write(data)
		buf.WriteByte('\n')
	case CSV:
		for _, s := range samples {
			data, err := RowsToCSV(s.Rows)
			if err != nil {
				return fmt.Errorf("failed to render %s: %w", s.Table, err)
			}
			fmt.Fprintf(&buf, "# %s\n", s.Table)
			buf.Write(data)
		}
	default:
		for i, s := range samples {
			if i > 0 {
				buf.WriteByte('\n')
			}
			fmt.Fprintf(&buf, "%s (%s)\n", s.Table, english.Plural(s.Rows.Len(), "row", "rows"))
			buf.Write(RowsToText(s.Rows))
		}
	}

	_, err := w.Write(buf.Bytes())
	return err
}

// TablesText lists table names with their kind, one per line.
func TablesText(tables []shared.TableInfo) []byte {
	var buf bytes.Buffer
	if len(tables) == 0 {
		buf.WriteString("(no tables)\n")
		return buf.Bytes()
	}
	for _, t := range tables {
		fmt.Fprintf(&buf, "%-16s %s\n", t.Name, t.Type)
	}
	return buf.Bytes()
}

// StatsText lists row counts per table with thousands separators.
func StatsText(c repositories.TableCounts) []byte {
	var buf bytes.Buffer
	lines := []struct {
		table string
		n     int64
	}{
		{"artist", c.Artists},
		{"album", c.Albums},
		{"track", c.Tracks},
		{"playlist", c.Playlists},
		{"playlist_track", c.PlaylistTracks},
	}
	for _, l := range lines {
		fmt.Fprintf(&buf, "%-16s %12s\n", l.table, humanize.Comma(l.n))
	}
	return buf.Bytes()
}
