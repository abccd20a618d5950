// Package tasks runs long catalog operations in the background with progress reporting.
//
// # Bulk Export
//
// [ExportEngine.BulkExport] encodes the catalog once per requested format and writes each encoding to
// a [storage.Storage]. Formats are handed to a small worker pool; an optional rate limiter spaces out
// the exports so a remote server or object store is not hit all at once.
//
// When more than one format is exported a manifest listing every object (or the error that kept it from
// being written) is stored next to the exports as <name>.manifest.json.
//
// # Progress Reporting
//
// Operations accept a send-only [ProgressUpdate] channel, which may be nil.
// Updates use select with default so a slow reader never blocks an export.
package tasks
