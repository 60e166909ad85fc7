// Package services talks to the Spotify Web API.
//
// # Spotify Client
//
// [SpotifyService] wraps an [http.Client] whose transport attaches a static
// bearer token through [oauth2.StaticTokenSource]. The token is read once per
// run by [shared.LoadToken] and never refreshed.
//
// # Pagination
//
// [SpotifyService.PlaylistTracks] returns a [Pager], a lazy and
// non-restartable walk over a playlist's tracks. The first request carries
// offset and limit; every following request uses the "next" URL from the
// previous page as-is. The page without a "next" URL is the last one.
//
// Consecutive requests are spaced by a [rate.Limiter] allowing one request
// per page delay. The first page is never delayed.
//
// # Error Handling
//
// A non-2xx response is returned as a [*RemoteRequestError] carrying the
// status code and the message from the body's error object. It wraps
// [shared.ErrAPIRequest], as do transport failures. Nothing is retried and a
// failed pager stays done.
package services
