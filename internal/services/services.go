package services

import (
	"net/http"
	"time"
)

const (
	DefaultBaseURL   = "https://api.spotify.com/v1"
	DefaultPageLimit = 5
	DefaultPageDelay = time.Second
	DefaultTimeout   = 30 * time.Second
)

// Option configures a [SpotifyService].
type Option func(*options)

type options struct {
	baseURL    string
	httpClient *http.Client
	pageLimit  int
	pageDelay  time.Duration
	timeout    time.Duration
}

func defaultOptions() options {
	return options{
		baseURL:   DefaultBaseURL,
		pageLimit: DefaultPageLimit,
		pageDelay: DefaultPageDelay,
		timeout:   DefaultTimeout,
	}
}

// WithBaseURL points the service at a different API root, e.g. an [httptest.Server].
func WithBaseURL(u string) Option {
	return func(o *options) {
		if u != "" {
			o.baseURL = u
		}
	}
}

// WithHTTPClient sets the client whose transport carries the authorized requests.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithPageLimit sets the number of items requested per page.
func WithPageLimit(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.pageLimit = n
		}
	}
}

// WithPageDelay sets the minimum spacing between page requests. Zero disables it.
func WithPageDelay(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.pageDelay = d
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Artists     []SpotifyArtist `json:"artists"`
	ReleaseDate string          `json:"release_date"`
	TotalTracks int             `json:"total_tracks"`
	URI         string          `json:"uri"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Artists     []SpotifyArtist `json:"artists"`
	Album       SpotifyAlbum    `json:"album"`
	TrackNumber int             `json:"track_number"`
	DurationMS  int             `json:"duration_ms"`
	Explicit    bool            `json:"explicit"`
	Popularity  int             `json:"popularity"`
	URI         string          `json:"uri"`
}

// SpotifyPlaylistTrack represents a track within a playlist context.
//
// Track is nil for items that were removed from the catalogue.
type SpotifyPlaylistTrack struct {
	AddedAt string        `json:"added_at"`
	Track   *SpotifyTrack `json:"track"`
}

// PlaylistTrackPage is one page of GET /playlists/{id}/tracks.
type PlaylistTrackPage struct {
	Href     string                 `json:"href"`
	Items    []SpotifyPlaylistTrack `json:"items"`
	Next     *string                `json:"next"`
	Previous *string                `json:"previous"`
	Total    int                    `json:"total"`
	Limit    int                    `json:"limit"`
	Offset   int                    `json:"offset"`
}

// HasNext reports whether the page points at a following page.
func (p *PlaylistTrackPage) HasNext() bool {
	return p.Next != nil && *p.Next != ""
}
