// package models defines the data model for the playlist store
package models

import (
	"errors"
	"fmt"
)

var ErrValidation = errors.New("validation failed")

// Model defines the base interface for all persistent models.
type Model interface {
	Table() string   // Table returns the backing table name
	NaturalKey() any // NaturalKey returns the value that deduplicates rows
	Validate() error // Validate checks if the model's data is valid and returns an error if not
}

// Artist is a performer referenced by albums.
type Artist struct {
	ID   int64  `json:"artist_id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

func (a *Artist) Table() string   { return "artist" }
func (a *Artist) NaturalKey() any { return a.URI }

func (a *Artist) Validate() error {
	if a.URI == "" {
		return fmt.Errorf("%w: artist uri is required", ErrValidation)
	}
	return nil
}

// Album belongs to a single artist.
type Album struct {
	ID          int64  `json:"album_id"`
	Name        string `json:"name"`
	ReleaseDate string `json:"release_date"`
	ArtistID    int64  `json:"artist_id"`
	URI         string `json:"uri"`
}

func (a *Album) Table() string   { return "album" }
func (a *Album) NaturalKey() any { return a.URI }

func (a *Album) Validate() error {
	if a.URI == "" {
		return fmt.Errorf("%w: album uri is required", ErrValidation)
	}
	if a.ArtistID <= 0 {
		return fmt.Errorf("%w: album %s has no artist", ErrValidation, a.URI)
	}
	return nil
}

// Track belongs to a single album.
type Track struct {
	ID          int64   `json:"track_id"`
	Name        string  `json:"name"`
	AlbumID     int64   `json:"album_id"`
	TrackNumber int     `json:"track_number"`
	Composer    string  `json:"composer"`
	DurationMS  int     `json:"duration_ms"`
	Popularity  float64 `json:"popularity"`
	Explicit    bool    `json:"explicit"`
	URI         string  `json:"uri"`
}

func (t *Track) Table() string   { return "track" }
func (t *Track) NaturalKey() any { return t.URI }

func (t *Track) Validate() error {
	switch {
	case t.URI == "":
		return fmt.Errorf("%w: track uri is required", ErrValidation)
	case t.AlbumID <= 0:
		return fmt.Errorf("%w: track %s has no album", ErrValidation, t.URI)
	case t.TrackNumber < 0:
		return fmt.Errorf("%w: track %s has negative track number", ErrValidation, t.URI)
	case t.DurationMS < 0:
		return fmt.Errorf("%w: track %s has negative duration", ErrValidation, t.URI)
	case t.Popularity < 0:
		return fmt.Errorf("%w: track %s has negative popularity", ErrValidation, t.URI)
	}
	return nil
}

// Playlist is a remote playlist identified by its bare id.
type Playlist struct {
	ID   int64  `json:"playlist_id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

func (p *Playlist) Table() string   { return "playlist" }
func (p *Playlist) NaturalKey() any { return p.URI }

func (p *Playlist) Validate() error {
	if p.URI == "" {
		return fmt.Errorf("%w: playlist uri is required", ErrValidation)
	}
	return nil
}

// PlaylistTrack links a playlist to a track. The pair is the primary key.
type PlaylistTrack struct {
	PlaylistID int64 `json:"playlist_id"`
	TrackID    int64 `json:"track_id"`
}

func (pt *PlaylistTrack) Table() string   { return "playlist_track" }
func (pt *PlaylistTrack) NaturalKey() any { return [2]int64{pt.PlaylistID, pt.TrackID} }

func (pt *PlaylistTrack) Validate() error {
	if pt.PlaylistID <= 0 || pt.TrackID <= 0 {
		return fmt.Errorf("%w: playlist track needs both ids", ErrValidation)
	}
	return nil
}
