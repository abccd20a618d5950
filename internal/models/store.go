package models

import "context"

// Store persists Records and their Tracks with referential integrity.
//
// Lookups that find nothing return [shared.ErrRecordNotFound] or [shared.ErrTrackNotFound].
// Writes violating a unique index return [shared.ErrDuplicateTitle] or [shared.ErrDuplicateTrack].
type Store interface {
	// InsertRecord persists a new record and assigns its ID.
	InsertRecord(ctx context.Context, record *Record) (int64, error)

	// ListRecords returns every record without tracks, ordered by ID.
	ListRecords(ctx context.Context) ([]*Record, error)

	// ListRecordsWithTracks returns every record with its tracks loaded, ordered by ID.
	ListRecordsWithTracks(ctx context.Context) ([]*Record, error)

	// FindRecordByTitle matches title case-insensitively and loads the record's tracks.
	FindRecordByTitle(ctx context.Context, title string) (*Record, error)

	// FindRecordByID loads a record and its tracks.
	FindRecordByID(ctx context.Context, id int64) (*Record, error)

	// DeleteRecordsByTitle removes every record whose title matches case-insensitively,
	// along with their tracks, and returns how many records were removed.
	DeleteRecordsByTitle(ctx context.Context, title string) (int, error)

	// FindTrack matches recordID, name and version exactly.
	FindTrack(ctx context.Context, recordID int64, name, version string) (*Track, error)

	// AppendTrack stores track as owned by record and appends it to record.Tracks.
	AppendTrack(ctx context.Context, record *Record, track *Track) error

	// Tx runs fn against a Store bound to a single transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	Tx(ctx context.Context, fn func(Store) error) error
}
