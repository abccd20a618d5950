// Package ui renders catalog views for the terminal with lipgloss.
//
// [RecordsTable] draws the record listing and [RecordDetail] a single record with its tracks.
// Colors come from a fixed [Palette]; lipgloss drops them when output is not a terminal,
// so the same functions serve piped output.
package ui
