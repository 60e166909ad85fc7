package formatter

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/desertthunder/spotdb/internal/repositories"
	"github.com/desertthunder/spotdb/internal/shared"
	th "github.com/desertthunder/spotdb/internal/testing"
)

func sampleRows() *shared.Rows {
	return &shared.Rows{
		Columns: []string{"track_id", "name", "popularity", "composer"},
		Values: [][]any{
			{int64(1), "Song One", float64(42), "Artist One"},
			{int64(2), "Song, Two", float64(7.5), nil},
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", Text, false},
		{"text", Text, false},
		{"CSV", CSV, false},
		{" json ", JSON, false},
		{"yaml", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			if !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("ParseFormat(%q): expected ErrInvalidArgument, got %v", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestRenderers(t *testing.T) {
	t.Run("Cell", func(t *testing.T) {
		tests := []struct {
			in   any
			want string
		}{
			{nil, "NULL"},
			{"x", "x"},
			{[]byte("y"), "y"},
			{int64(12), "12"},
			{float64(1.5), "1.5"},
			{true, "1"},
			{false, "0"},
		}
		for _, tt := range tests {
			if got := Cell(tt.in); got != tt.want {
				t.Errorf("Cell(%v) = %q, want %q", tt.in, got, tt.want)
			}
		}
	})

	t.Run("RowsToCSV", func(t *testing.T) {
		data, err := RowsToCSV(sampleRows())
		if err != nil {
			t.Fatalf("RowsToCSV failed: %v", err)
		}

		output := string(data)
		if !strings.HasPrefix(output, "track_id,name,popularity,composer\n") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "1,Song One,42,Artist One") {
			t.Errorf("CSV missing first row, got: %s", output)
		}
		if !strings.Contains(output, `2,"Song, Two",7.5,NULL`) {
			t.Errorf("CSV should quote commas and render NULL, got: %s", output)
		}
	})

	t.Run("RowsToText", func(t *testing.T) {
		output := string(RowsToText(sampleRows()))
		for _, want := range []string{"track_id", "Song One", "Song, Two", "NULL"} {
			if !strings.Contains(output, want) {
				t.Errorf("text table missing %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("TablesText", func(t *testing.T) {
		output := string(TablesText([]shared.TableInfo{{Name: "artist", Type: "table"}, {Name: "v", Type: "view"}}))
		if !strings.Contains(output, "artist") || !strings.Contains(output, "view") {
			t.Errorf("unexpected output %q", output)
		}

		if got := string(TablesText(nil)); got != "(no tables)\n" {
			t.Errorf("unexpected empty output %q", got)
		}
	})

	t.Run("StatsText", func(t *testing.T) {
		output := string(StatsText(repositories.TableCounts{Artists: 1234567, Tracks: 3}))
		if !strings.Contains(output, "1,234,567") {
			t.Errorf("expected humanized count, got:\n%s", output)
		}
		if strings.Count(output, "\n") != 5 {
			t.Errorf("expected 5 lines, got:\n%s", output)
		}
	})
}

func TestWriteSamples(t *testing.T) {
	samples := []TableSample{
		{Table: "track", Rows: sampleRows()},
		{Table: "playlist", Rows: &shared.Rows{Columns: []string{"playlist_id", "name", "uri"}}},
	}

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		if err := WriteSamples(&buf, Text, samples); err != nil {
			t.Fatalf("WriteSamples failed: %v", err)
		}
		output := buf.String()
		if !strings.Contains(output, "track (2 rows)") || !strings.Contains(output, "playlist (0 rows)") {
			t.Errorf("missing table headings, got:\n%s", output)
		}
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		if err := WriteSamples(&buf, CSV, samples); err != nil {
			t.Fatalf("WriteSamples failed: %v", err)
		}
		output := buf.String()
		if !strings.Contains(output, "# track\ntrack_id,name") || !strings.Contains(output, "# playlist\nplaylist_id,name,uri\n") {
			t.Errorf("unexpected csv output:\n%s", output)
		}
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := WriteSamples(&buf, JSON, samples); err != nil {
			t.Fatalf("WriteSamples failed: %v", err)
		}

		var decoded []struct {
			Table string `json:"table"`
			Rows  struct {
				Columns []string `json:"columns"`
				Values  [][]any  `json:"values"`
			} `json:"rows"`
		}
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
		}
		if len(decoded) != 2 || decoded[0].Table != "track" || len(decoded[0].Rows.Values) != 2 {
			t.Errorf("unexpected decoded samples %+v", decoded)
		}
	})

	t.Run("write failure", func(t *testing.T) {
		if err := WriteSamples(&th.FWriter{}, Text, samples); err == nil {
			t.Error("expected write error")
		}
	})
}
