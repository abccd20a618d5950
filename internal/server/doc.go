// Package server exposes the record catalog over HTTP.
//
// # Routes
//
//	POST   /record            create a record (JSON or form body)
//	GET    /records           list record summaries
//	GET    /record?title=     fetch one record with its tracks
//	DELETE /record?title=     delete every record matching the title
//	POST   /track             attach a track to a record
//	GET    /records/export    download the catalog (?format=json|csv|markdown|yaml)
//	GET    /health            liveness check; / redirects here
//
// Handlers call [services.CatalogService] and shape results with the formatter package.
// Failures are written as {"message": "..."}; catalog error kinds map to 409, 404 and 400,
// anything else to 500 with a generic message.
//
// # Middleware
//
// Every request passes through panic recovery, request ids (X-Request-ID), request logging,
// CORS for the configured origins and an optional token-bucket rate limit from golang.org/x/time/rate.
//
// [Server.Start] serves until its context is cancelled and then shuts down gracefully.
package server
