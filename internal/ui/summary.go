package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/spotdb/internal/tasks"
	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
)

// RenderProgress formats one progress update as a single line.
func RenderProgress(u tasks.ProgressUpdate) string {
	switch u.Phase {
	case tasks.PlaylistDone:
		return styles.OK(u.Message)
	case tasks.PlaylistFailed:
		return styles.Err(u.Message)
	case tasks.FetchPage, tasks.FetchPlaylist:
		return styles.Help(u.Message)
	default:
		return u.Message
	}
}

// RenderBatch summarizes an ingestion run.
func RenderBatch(b *tasks.BatchResult) string {
	var sb strings.Builder

	sb.WriteString(styles.Title(fmt.Sprintf("Ingested %s", english.Plural(len(b.Results), "playlist", "playlists"))))
	sb.WriteString("\n")

	failed := make(map[string]error, len(b.Failures))
	for _, f := range b.Failures {
		failed[f.ID] = f.Err
	}

	for _, r := range b.Results {
		label := r.Name
		if label == "" {
			label = r.PlaylistID
		}

		line := fmt.Sprintf("%s  %s new tracks of %s, %s, %s",
			label,
			humanize.Comma(int64(r.Stats.Tracks)),
			humanize.Comma(int64(r.Stats.Records)),
			english.Plural(r.Pages, "page", "pages"),
			r.Duration.Round(time.Millisecond),
		)

		if _, ok := failed[r.PlaylistID]; ok {
			sb.WriteString(styles.Err("✗ ") + line + "\n")
			continue
		}
		sb.WriteString(styles.OK("✓ ") + line + "\n")
		if r.Stats.Skipped > 0 {
			sb.WriteString(styles.Warn(fmt.Sprintf("    skipped %s", english.Plural(r.Stats.Skipped, "track", "tracks"))) + "\n")
		}
	}

	if len(b.Failures) > 0 {
		sb.WriteString("\n" + styles.Err(fmt.Sprintf("%s failed:", english.Plural(len(b.Failures), "playlist", "playlists"))) + "\n")
		for _, f := range b.Failures {
			sb.WriteString(fmt.Sprintf("  %s: %v\n", f.ID, f.Err))
		}
	}

	totals := b.Totals()
	sb.WriteString("\n" + styles.Help(fmt.Sprintf(
		"artists +%s  albums +%s  tracks +%s  playlist entries +%s  (run %s)",
		humanize.Comma(int64(totals.Artists)),
		humanize.Comma(int64(totals.Albums)),
		humanize.Comma(int64(totals.Tracks)),
		humanize.Comma(int64(totals.PlaylistTracks)),
		b.RunID,
	)) + "\n")

	return sb.String()
}
