// Package services implements the catalog operations on top of a [models.Store].
//
// # Catalog Service
//
// [CatalogService] is the only entry point for mutating the catalog. Every operation runs in one
// store transaction, so a failed track insert or a partial cascade delete never becomes visible.
//
// # Errors
//
// Store failures callers can act on are translated into [shared.CatalogError] values:
//   - [shared.ErrConflict] : duplicate record title, or a track already attached to the record
//   - [shared.ErrNotFound] : no record matches the title or id
//   - [shared.ErrBadRequest] : the record or track could not be saved
//
// Anything else is returned as-is and treated as an internal failure.
//
// # Client
//
// [Client] talks to a running discos server over HTTP and returns the same presentation views
// the server renders, so the CLI can drive a remote catalog.
package services
