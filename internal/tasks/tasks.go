package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotdb/internal/repositories"
	"github.com/desertthunder/spotdb/internal/services"
	"github.com/desertthunder/spotdb/internal/shared"
)

// PageIterator is a lazy, non-restartable sequence of track pages.
type PageIterator interface {
	Next(ctx context.Context) (*services.PlaylistTrackPage, error)
	Done() bool
}

// TrackSource provides playlist metadata and its paginated tracks.
type TrackSource interface {
	PlaylistName(ctx context.Context, id string) (string, error)
	PlaylistTracks(ctx context.Context, id string) PageIterator
}

type spotifySource struct {
	svc *services.SpotifyService
}

// NewSpotifySource adapts a [services.SpotifyService] to [TrackSource].
func NewSpotifySource(svc *services.SpotifyService) TrackSource {
	return spotifySource{svc: svc}
}

func (s spotifySource) PlaylistName(ctx context.Context, id string) (string, error) {
	return s.svc.PlaylistName(ctx, id)
}

func (s spotifySource) PlaylistTracks(ctx context.Context, id string) PageIterator {
	return s.svc.PlaylistTracks(ctx, id)
}

// PageStats counts what one or more pages contributed to the database.
type PageStats struct {
	Records        int `json:"records"`
	Skipped        int `json:"skipped"`
	Artists        int `json:"artists"`
	Albums         int `json:"albums"`
	Tracks         int `json:"tracks"`
	PlaylistTracks int `json:"playlist_tracks"`
}

// Add accumulates other into s.
func (s *PageStats) Add(other PageStats) {
	s.Records += other.Records
	s.Skipped += other.Skipped
	s.Artists += other.Artists
	s.Albums += other.Albums
	s.Tracks += other.Tracks
	s.PlaylistTracks += other.PlaylistTracks
}

// IngestResult describes one playlist ingestion, complete or partial.
type IngestResult struct {
	PlaylistID string        `json:"playlist_id"`
	Name       string        `json:"name"`
	Total      int           `json:"total"` // Item count reported by the API
	Pages      int           `json:"pages"`
	Stats      PageStats     `json:"stats"`
	Duration   time.Duration `json:"duration"`
}

// PlaylistFailure pairs a normalized playlist id with the error that stopped it.
type PlaylistFailure struct {
	ID  string
	Err error
}

func (f PlaylistFailure) Error() string { return fmt.Sprintf("playlist %s: %v", f.ID, f.Err) }

func (f PlaylistFailure) Unwrap() error { return f.Err }

// BatchResult collects the outcome of [Ingestor.IngestAll].
type BatchResult struct {
	RunID    string
	Results  []*IngestResult
	Failures []PlaylistFailure
}

// Err joins every failure, or returns nil when all playlists succeeded.
func (b *BatchResult) Err() error {
	errs := make([]error, 0, len(b.Failures))
	for _, f := range b.Failures {
		errs = append(errs, f)
	}
	return errors.Join(errs...)
}

// Totals sums the stats of every playlist in the batch, including partial ones.
func (b *BatchResult) Totals() PageStats {
	var total PageStats
	for _, r := range b.Results {
		total.Add(r.Stats)
	}
	return total
}

// Ingestor writes playlists from a [TrackSource] into the five normalized tables.
type Ingestor struct {
	source    TrackSource
	logger    *log.Logger
	artists   *repositories.ArtistRepository
	albums    *repositories.AlbumRepository
	tracks    *repositories.TrackRepository
	playlists *repositories.PlaylistRepository
	edges     *repositories.PlaylistTrackRepository
}

// NewIngestor creates an Ingestor writing through db. A nil logger writes to stderr.
func NewIngestor(db repositories.DB, source TrackSource, logger *log.Logger) *Ingestor {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Ingestor{
		source:    source,
		logger:    logger,
		artists:   repositories.NewArtistRepository(db),
		albums:    repositories.NewAlbumRepository(db),
		tracks:    repositories.NewTrackRepository(db),
		playlists: repositories.NewPlaylistRepository(db),
		edges:     repositories.NewPlaylistTrackRepository(db),
	}
}

// withLogger returns a shallow copy of the Ingestor logging through l.
func (in *Ingestor) withLogger(l *log.Logger) *Ingestor {
	c := *in
	c.logger = l
	return &c
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
