package testing

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// TrackFixture describes one playlist item served by [FakeSpotify].
type TrackFixture struct {
	ID          string
	Name        string
	TrackNumber int
	DurationMS  int
	Popularity  int
	Explicit    bool
	Artists     []string

	AlbumID      string
	AlbumName    string
	ReleaseDate  string
	AlbumArtists []string
}

// ArtistURI derives the fixture uri for an artist name.
func ArtistURI(name string) string {
	return "spotify:artist:" + strings.ReplaceAll(strings.ToLower(name), " ", "")
}

func artistsJSON(names []string) []map[string]any {
	out := make([]map[string]any, 0, len(names))
	for _, n := range names {
		out = append(out, map[string]any{
			"id":   strings.TrimPrefix(ArtistURI(n), "spotify:artist:"),
			"name": n,
			"uri":  ArtistURI(n),
		})
	}
	return out
}

// JSON renders the fixture the way the tracks endpoint does.
// An empty AlbumID renders the album the way local files come back, without a uri.
func (f TrackFixture) JSON() map[string]any {
	var albumURI any
	if f.AlbumID != "" {
		albumURI = "spotify:album:" + f.AlbumID
	}
	return map[string]any{
		"id":           f.ID,
		"name":         f.Name,
		"track_number": f.TrackNumber,
		"duration_ms":  f.DurationMS,
		"popularity":   f.Popularity,
		"explicit":     f.Explicit,
		"uri":          "spotify:track:" + f.ID,
		"artists":      artistsJSON(f.Artists),
		"album": map[string]any{
			"id":           f.AlbumID,
			"name":         f.AlbumName,
			"release_date": f.ReleaseDate,
			"uri":          albumURI,
			"artists":      artistsJSON(f.AlbumArtists),
		},
	}
}

// NewTrack builds a single-artist fixture whose album belongs to the same artist.
func NewTrack(id, name, albumID, artist string) TrackFixture {
	return TrackFixture{
		ID:           id,
		Name:         name,
		TrackNumber:  1,
		DurationMS:   200000,
		Popularity:   50,
		Artists:      []string{artist},
		AlbumID:      albumID,
		AlbumName:    "Album " + albumID,
		ReleaseDate:  "2020-01-01",
		AlbumArtists: []string{artist},
	}
}

// FakePlaylist is a playlist served by [FakeSpotify]. A nil entry in Tracks is served as a null track.
type FakePlaylist struct {
	Name   string
	Tracks []*TrackFixture
}

// RecordedRequest captures what [FakeSpotify] received.
type RecordedRequest struct {
	Path          string
	Query         string
	Authorization string
}

type failure struct {
	status  int
	message string
}

// FakeSpotify is an [httptest.Server] implementing the playlist endpoints.
//
// Pages are cut with the offset and limit query parameters and linked with absolute next URLs.
type FakeSpotify struct {
	*httptest.Server

	mu        sync.Mutex
	playlists map[string]FakePlaylist
	failures  map[string]failure
	requests  []RecordedRequest
}

// NewFakeSpotify starts a fake API server that is closed when the test ends.
func NewFakeSpotify(t *testing.T) *FakeSpotify {
	t.Helper()

	f := &FakeSpotify{
		playlists: make(map[string]FakePlaylist),
		failures:  make(map[string]failure),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /playlists/{id}", f.handlePlaylist)
	mux.HandleFunc("GET /playlists/{id}/tracks", f.handleTracks)

	f.Server = httptest.NewServer(f.record(mux))
	t.Cleanup(f.Close)
	return f
}

// AddPlaylist registers a playlist under id.
func (f *FakeSpotify) AddPlaylist(id string, p FakePlaylist) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.playlists[id] = p
}

// FailTracks makes the tracks page starting at offset answer with status.
// An empty message produces a body that is not the API's error envelope.
func (f *FakeSpotify) FailTracks(id string, offset, status int, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[fmt.Sprintf("%s/tracks@%d", id, offset)] = failure{status, message}
}

// FailName makes the playlist name request for id answer with status.
func (f *FakeSpotify) FailName(id string, status int, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[id] = failure{status, message}
}

// Requests returns a copy of every request received so far.
func (f *FakeSpotify) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]RecordedRequest(nil), f.requests...)
}

// TrackRequests returns the requests made against tracks endpoints.
func (f *FakeSpotify) TrackRequests() []RecordedRequest {
	var out []RecordedRequest
	for _, r := range f.Requests() {
		if strings.HasSuffix(r.Path, "/tracks") {
			out = append(out, r)
		}
	}
	return out
}

func (f *FakeSpotify) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests = append(f.requests, RecordedRequest{
			Path:          r.URL.Path,
			Query:         r.URL.RawQuery,
			Authorization: r.Header.Get("Authorization"),
		})
		f.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (f *FakeSpotify) lookup(key, id string) (FakePlaylist, *failure, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.playlists[id]
	if fail, failed := f.failures[key]; failed {
		return p, &fail, ok
	}
	return p, nil, ok
}

func (f *FakeSpotify) handlePlaylist(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	p, fail, ok := f.lookup(id, id)
	switch {
	case fail != nil:
		writeFailure(w, *fail)
	case !ok:
		writeFailure(w, failure{http.StatusNotFound, "Resource not found"})
	default:
		writeJSON(w, map[string]any{"name": p.Name})
	}
}

func (f *FakeSpotify) handleTracks(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 20
	}

	p, fail, ok := f.lookup(fmt.Sprintf("%s/tracks@%d", id, offset), id)
	switch {
	case fail != nil:
		writeFailure(w, *fail)
		return
	case !ok:
		writeFailure(w, failure{http.StatusNotFound, "Resource not found"})
		return
	}

	total := len(p.Tracks)
	end := min(offset+limit, total)
	start := min(offset, total)

	items := make([]map[string]any, 0, end-start)
	for _, tr := range p.Tracks[start:end] {
		item := map[string]any{"added_at": "2024-01-01T00:00:00Z", "track": nil}
		if tr != nil {
			item["track"] = tr.JSON()
		}
		items = append(items, item)
	}

	self := fmt.Sprintf("%s/playlists/%s/tracks?offset=%d&limit=%d", f.URL, id, offset, limit)
	page := map[string]any{
		"href":   self,
		"items":  items,
		"total":  total,
		"limit":  limit,
		"offset": offset,
		"next":   nil,
	}
	if end < total {
		page["next"] = fmt.Sprintf("%s/playlists/%s/tracks?offset=%d&limit=%d", f.URL, id, end, limit)
	}
	writeJSON(w, page)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeFailure(w http.ResponseWriter, fail failure) {
	if fail.message == "" {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(fail.status)
		w.Write([]byte("<html>upstream error</html>"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(fail.status)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{"status": fail.status, "message": fail.message},
	})
}
