// Package models defines the catalog entities and the persistence interface for the discos service.
//
// A [Record] is the aggregate root: it owns an ordered collection of [Track] entries and
// nothing else may reference a track. Deleting a record removes its tracks with it.
//
// Input is carried by [RecordFields] and [TrackFields], which the HTTP and CLI layers fill from
// requests before calling the catalog service.
//
// The [Store] interface is implemented by the repositories package, once over database/sql
// for SQLite and once over gorm for MySQL. Struct tags on the entities serve both: column
// names match the SQL schema and gorm tags describe the same constraints for AutoMigrate.
package models
