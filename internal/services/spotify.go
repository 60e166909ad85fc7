// Spotify API client
//
// Response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/spotdb/internal/shared"
	"golang.org/x/oauth2"
)

// RemoteRequestError is a non-2xx response from the API.
type RemoteRequestError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *RemoteRequestError) Error() string {
	return fmt.Sprintf("%v: status %d: %s (%s)", shared.ErrAPIRequest, e.StatusCode, e.Message, e.URL)
}

func (e *RemoteRequestError) Unwrap() error { return shared.ErrAPIRequest }

// apiError is the error envelope the API returns with non-2xx responses.
type apiError struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

// SpotifyService is a read-only client for playlist endpoints, authorized with a static bearer token.
type SpotifyService struct {
	baseURL    string
	httpClient *http.Client
	pageLimit  int
	pageDelay  time.Duration
}

// NewSpotifyService creates a client that sends token as the bearer credential on every request.
func NewSpotifyService(token string, opts ...Option) (*SpotifyService, error) {
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("%w: empty bearer token", shared.ErrCredentialInvalid)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	base := o.httpClient
	if base == nil {
		base = &http.Client{Timeout: o.timeout}
	}

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}))
	if client.Timeout == 0 {
		client.Timeout = o.timeout
	}

	return &SpotifyService{
		baseURL:    strings.TrimRight(o.baseURL, "/"),
		httpClient: client,
		pageLimit:  o.pageLimit,
		pageDelay:  o.pageDelay,
	}, nil
}

// PageLimit returns the number of items requested per page.
func (s *SpotifyService) PageLimit() int { return s.pageLimit }

// doRequest performs an authenticated GET against rawURL and decodes the JSON body into result.
func (s *SpotifyService) doRequest(ctx context.Context, rawURL string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", shared.ErrAPIRequest, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: request failed: %w", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newRemoteRequestError(resp, rawURL)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("%w: failed to decode response: %v", shared.ErrAPIRequest, err)
		}
	}

	return nil
}

// newRemoteRequestError reads the error envelope, falling back to the status text.
func newRemoteRequestError(resp *http.Response, rawURL string) *RemoteRequestError {
	e := &RemoteRequestError{StatusCode: resp.StatusCode, URL: rawURL}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var envelope apiError
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		e.Message = envelope.Error.Message
	} else {
		e.Message = http.StatusText(resp.StatusCode)
	}
	return e
}

func (s *SpotifyService) playlistURL(id string, suffix string, query url.Values) string {
	u := s.baseURL + "/playlists/" + url.PathEscape(id) + suffix
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// PlaylistName retrieves only the display name of a playlist.
func (s *SpotifyService) PlaylistName(ctx context.Context, playlistID string) (string, error) {
	var playlist struct {
		Name string `json:"name"`
	}

	endpoint := s.playlistURL(playlistID, "", url.Values{"fields": {"name"}})
	if err := s.doRequest(ctx, endpoint, &playlist); err != nil {
		return "", err
	}
	return playlist.Name, nil
}

// PlaylistTracks returns a [Pager] over the playlist's tracks. No request is made until [Pager.Next].
func (s *SpotifyService) PlaylistTracks(ctx context.Context, playlistID string) *Pager {
	endpoint := s.playlistURL(playlistID, "/tracks", url.Values{
		"offset": {"0"},
		"limit":  {strconv.Itoa(s.pageLimit)},
	})
	return newPager(s, endpoint, s.pageDelay)
}
