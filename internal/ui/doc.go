// Package ui renders styled terminal output for the CLI with lipgloss.
//
// A [Palette] holds the named styles. The package-level palette backs
// [RenderProgress], which formats a single [tasks.ProgressUpdate] line, and
// [RenderBatch], which summarizes an ingestion run: one line per playlist,
// the failures with their errors, and humanized totals.
//
// lipgloss drops colors when the output is not a terminal, so the same
// strings are safe to write to files and pipes.
package ui
