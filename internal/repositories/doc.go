// Package repositories implements [models.Store], the persistence layer for records and tracks.
//
// Two implementations share the same contract:
//   - [SQLStore] : hand-written SQL over database/sql and mattn/go-sqlite3, schema from shared/sql
//   - [GormStore] : gorm over the MySQL driver, schema from gorm AutoMigrate of the tagged models
//
// [Open] picks one from the database driver in the configuration.
//
// Both enforce the same integrity rules. Record titles are unique through an index, while title
// lookups and deletes compare lower-cased titles, so two titles differing only in case can be
// stored and are then both matched by a lookup. Tracks are unique per (record, name, version).
// Deleting a record removes its tracks in the same transaction.
//
// Unique violations surface as [shared.ErrDuplicateTitle] and [shared.ErrDuplicateTrack];
// lookups that match nothing return [shared.ErrRecordNotFound] and [shared.ErrTrackNotFound].
package repositories
