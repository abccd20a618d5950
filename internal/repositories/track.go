package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/desertthunder/discos/internal/models"
	"github.com/desertthunder/discos/internal/shared"
)

const trackColumns = `id, record_id, name, version, duration`

// FindTrack retrieves the track of recordID with exactly this name and version
func (s *SQLStore) FindTrack(ctx context.Context, recordID int64, name, version string) (*models.Track, error) {
	query := `
		SELECT ` + trackColumns + `
		FROM tracks
		WHERE record_id = ? AND name = ? AND version = ?
	`

	track, err := scanTrack(s.q.QueryRowContext(ctx, query, recordID, name, version))
	if err == sql.ErrNoRows {
		return nil, shared.ErrTrackNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan track: %w", err)
	}

	return track, nil
}

// AppendTrack inserts track as owned by record and appends it to the record's collection
func (s *SQLStore) AppendTrack(ctx context.Context, record *models.Record, track *models.Track) error {
	if record.ID == 0 {
		return fmt.Errorf("%w: record must be saved before adding tracks", shared.ErrInvalidInput)
	}

	if err := track.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	track.RecordID = record.ID

	query := `
		INSERT INTO tracks (record_id, name, version, duration)
		VALUES (?, ?, ?, ?)
	`

	result, err := s.q.ExecContext(ctx, query, track.RecordID, track.Name, track.Version, track.Duration)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s (%s)", shared.ErrDuplicateTrack, track.Name, track.Version)
		}
		return fmt.Errorf("failed to insert track: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get track id: %w", err)
	}

	track.ID = id
	record.AddTrack(*track)

	return nil
}

// loadTracks replaces record.Tracks with the stored tracks in insertion order
func (s *SQLStore) loadTracks(ctx context.Context, record *models.Record) error {
	query := `SELECT ` + trackColumns + ` FROM tracks WHERE record_id = ? ORDER BY id ASC`

	rows, err := s.q.QueryContext(ctx, query, record.ID)
	if err != nil {
		return fmt.Errorf("failed to query tracks: %w", err)
	}
	defer rows.Close()

	tracks := []models.Track{}
	for rows.Next() {
		track, err := scanTrack(rows)
		if err != nil {
			return fmt.Errorf("failed to scan track: %w", err)
		}
		tracks = append(tracks, *track)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("row iteration error: %w", err)
	}

	record.Tracks = tracks
	return nil
}

// scanTrack scans a single row into a [models.Track], passing [sql.ErrNoRows] through unwrapped
func scanTrack(row rowScanner) (*models.Track, error) {
	var track models.Track
	if err := row.Scan(&track.ID, &track.RecordID, &track.Name, &track.Version, &track.Duration); err != nil {
		return nil, err
	}
	return &track, nil
}
