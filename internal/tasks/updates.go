package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	FetchPlaylist Phase = iota
	FetchPage
	StorePage
	PlaylistDone
	PlaylistFailed
)

func (p Phase) String() string {
	switch p {
	case FetchPlaylist:
		return "fetch_playlist"
	case FetchPage:
		return "fetch_page"
	case StorePage:
		return "store_page"
	case PlaylistDone:
		return "playlist_done"
	case PlaylistFailed:
		return "playlist_failed"
	default:
		return ""
	}
}

func fetchPlaylistUpdate(id string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetching playlist %s...", id),
	}
}

func fetchPageUpdate(page, stored, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPage,
		Step:    stored,
		Total:   total,
		Message: fmt.Sprintf("%s: fetching page %d...", name, page),
	}
}

func storePageUpdate(stored, total int, name string, stats PageStats) ProgressUpdate {
	return ProgressUpdate{
		Phase:   StorePage,
		Step:    stored,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s: %d new tracks", stored, total, name, stats.Tracks),
		Data:    stats,
	}
}

func playlistDoneUpdate(step, total int, result *IngestResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PlaylistDone,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d tracks)", step, total, result.Name, result.Stats.Records),
		Data:    result,
	}
}

func playlistFailedUpdate(step, total int, id string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PlaylistFailed,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, id, err),
	}
}
