package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/desertthunder/discos/internal/models"
	"github.com/desertthunder/discos/internal/shared"
)

const recordColumns = `id, artist, title, label, track_count, release_year, origin, promo, price, notes`

// Tx runs fn against a SQLStore bound to one transaction. Nested calls reuse the open transaction.
func (s *SQLStore) Tx(ctx context.Context, fn func(models.Store) error) error {
	if s.inTx() {
		return fn(s)
	}

	return s.atomic(ctx, func(q querier) error {
		return fn(&SQLStore{db: s.db, q: q})
	})
}

// InsertRecord inserts a new [models.Record] and sets its ID
func (s *SQLStore) InsertRecord(ctx context.Context, record *models.Record) (int64, error) {
	if err := record.Validate(); err != nil {
		return 0, fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO records (artist, title, label, track_count, release_year, origin, promo, price, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := s.q.ExecContext(ctx, query,
		record.Artist,
		record.Title,
		record.Label,
		record.TrackCount,
		record.ReleaseYear,
		record.Origin,
		record.Promo,
		record.Price,
		record.Notes,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%w: %s", shared.ErrDuplicateTitle, record.Title)
		}
		return 0, fmt.Errorf("failed to insert record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get record id: %w", err)
	}

	record.ID = id
	if record.Tracks == nil {
		record.Tracks = []models.Track{}
	}

	return id, nil
}

// ListRecords retrieves all records ordered by ID, without their tracks
func (s *SQLStore) ListRecords(ctx context.Context) ([]*models.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records ORDER BY id ASC`

	rows, err := s.q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	records := []*models.Record{}
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return records, nil
}

// ListRecordsWithTracks retrieves all records ordered by ID with their tracks attached
func (s *SQLStore) ListRecordsWithTracks(ctx context.Context) ([]*models.Record, error) {
	records, err := s.ListRecords(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]*models.Record, len(records))
	for _, record := range records {
		byID[record.ID] = record
	}

	query := `SELECT ` + trackColumns + ` FROM tracks ORDER BY record_id ASC, id ASC`

	rows, err := s.q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		track, err := scanTrack(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan track: %w", err)
		}
		if record, ok := byID[track.RecordID]; ok {
			record.Tracks = append(record.Tracks, *track)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return records, nil
}

// FindRecordByTitle retrieves a record by case-insensitive title, with its tracks
func (s *SQLStore) FindRecordByTitle(ctx context.Context, title string) (*models.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records WHERE lower(title) = lower(?) ORDER BY id ASC LIMIT 1`

	record, err := scanRecord(s.q.QueryRowContext(ctx, query, title))
	if err != nil {
		return nil, err
	}

	if err := s.loadTracks(ctx, record); err != nil {
		return nil, err
	}

	return record, nil
}

// FindRecordByID retrieves a record by ID, with its tracks
func (s *SQLStore) FindRecordByID(ctx context.Context, id int64) (*models.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records WHERE id = ?`

	record, err := scanRecord(s.q.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}

	if err := s.loadTracks(ctx, record); err != nil {
		return nil, err
	}

	return record, nil
}

// DeleteRecordsByTitle deletes every record matching title case-insensitively together with its tracks.
//
// Tracks are removed explicitly before their records so the cascade holds even on connections
// opened without foreign key enforcement.
func (s *SQLStore) DeleteRecordsByTitle(ctx context.Context, title string) (int, error) {
	var count int64

	err := s.atomic(ctx, func(q querier) error {
		_, err := q.ExecContext(ctx, `
			DELETE FROM tracks
			WHERE record_id IN (SELECT id FROM records WHERE lower(title) = lower(?))
		`, title)
		if err != nil {
			return fmt.Errorf("failed to delete tracks: %w", err)
		}

		result, err := q.ExecContext(ctx, `DELETE FROM records WHERE lower(title) = lower(?)`, title)
		if err != nil {
			return fmt.Errorf("failed to delete records: %w", err)
		}

		count, err = result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get affected rows: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return int(count), nil
}

// scanRecord scans a single row into a [models.Record] with an empty track collection
func scanRecord(row rowScanner) (*models.Record, error) {
	record := &models.Record{Tracks: []models.Track{}}

	err := row.Scan(
		&record.ID, &record.Artist, &record.Title, &record.Label, &record.TrackCount,
		&record.ReleaseYear, &record.Origin, &record.Promo, &record.Price, &record.Notes,
	)
	if err == sql.ErrNoRows {
		return nil, shared.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan record: %w", err)
	}

	return record, nil
}
