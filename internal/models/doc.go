// Package models defines the normalized entities persisted by spotdb.
//
// Each entity carries two keys:
//   - a surrogate integer id assigned by the database, used for foreign keys
//   - the remote uri (Spotify id), unique per entity type, used for deduplication
//
// Entities:
//   - [Artist] : first-listed album artist, shared by many albums
//   - [Album] : owned by exactly one [Artist]
//   - [Track] : owned by one [Album], composer holds every contributing artist name
//   - [Playlist] : a remote playlist by name
//   - [PlaylistTrack] : membership edge between a [Playlist] and a [Track]
//
// All entities implement [Model]. Rows are append-only; there is no update path.
package models
