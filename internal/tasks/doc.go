// Package tasks ingests Spotify playlists into the local database with progress reporting.
//
// # Ingestion
//
// [Ingestor.IngestPlaylist] resolves a playlist reference to its bare id,
// stores the playlist row and then drains the tracks [PageIterator] one page
// at a time. Each page goes through [Ingestor.UpsertPage], which decomposes
// every nested track record in strict order:
//
//  1. first-listed album artist, INSERT OR IGNORE by uri
//  2. album, carrying the artist's surrogate id
//  3. track, carrying the album's surrogate id, composer built from every track artist
//  4. playlist membership edge
//
// Each step looks up the surrogate id written by the step before it. A lookup
// that finds nothing right after an insert-or-ignore is a
// [shared.InternalConsistencyError]; it aborts the playlist and indicates a
// defect, not bad input.
//
// Albums listing more than one artist resolve to the first one with a
// warning. Items whose track is null are skipped with a warning.
//
// # Batches
//
// [Ingestor.IngestAll] runs playlists in sequence and keeps going past
// failures. The returned [BatchResult] lists every failure and
// [BatchResult.Err] joins them. Rows written before a failure stay in place.
//
// # Progress Reporting
//
// Operations take an optional channel of [ProgressUpdate]. Sends use select
// with default so reporting never blocks ingestion.
package tasks
