package services

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/discos/internal/models"
	"github.com/desertthunder/discos/internal/shared"
)

// CatalogService runs the catalog operations, one store transaction each.
type CatalogService struct {
	store  models.Store
	logger *log.Logger
}

// NewCatalogService creates a CatalogService over store. A nil logger writes to stderr.
func NewCatalogService(store models.Store, logger *log.Logger) *CatalogService {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &CatalogService{store: store, logger: shared.WithLogger(logger, "service", "catalog")}
}

// AddRecord stores a new record built from fields.
//
// A duplicate title is a [shared.ErrConflict]; any other failure, validation included, is a [shared.ErrBadRequest].
func (s *CatalogService) AddRecord(ctx context.Context, fields models.RecordFields) (*models.Record, error) {
	record := models.NewRecord(fields)
	s.logger.Debug("adding record", "title", record.Title)

	err := s.store.Tx(ctx, func(tx models.Store) error {
		_, err := tx.InsertRecord(ctx, record)
		return err
	})

	switch {
	case err == nil:
		s.logger.Debug("record added", "id", record.ID, "title", record.Title)
		return record, nil
	case errors.Is(err, shared.ErrDuplicateTitle):
		s.logger.Warn("could not add record", "title", record.Title, "error", err)
		return nil, shared.NewCatalogError(shared.ErrConflict, "record with this title already exists")
	default:
		s.logger.Warn("could not add record", "title", record.Title, "error", err)
		return nil, shared.NewCatalogError(shared.ErrBadRequest, "could not save record")
	}
}

// ListRecords returns every record without tracks. An empty catalog is an empty slice.
func (s *CatalogService) ListRecords(ctx context.Context) ([]*models.Record, error) {
	s.logger.Debug("listing records")

	var records []*models.Record
	err := s.store.Tx(ctx, func(tx models.Store) error {
		var err error
		records, err = tx.ListRecords(ctx)
		return err
	})
	if err != nil {
		s.logger.Error("could not list records", "error", err)
		return nil, err
	}

	s.logger.Debug("records found", "count", len(records))
	return records, nil
}

// GetRecord finds a record by case-insensitive title, with its tracks.
func (s *CatalogService) GetRecord(ctx context.Context, title string) (*models.Record, error) {
	s.logger.Debug("fetching record", "title", title)

	var record *models.Record
	err := s.store.Tx(ctx, func(tx models.Store) error {
		var err error
		record, err = tx.FindRecordByTitle(ctx, title)
		return err
	})

	switch {
	case err == nil:
		return record, nil
	case errors.Is(err, shared.ErrRecordNotFound):
		s.logger.Warn("record not found", "title", title)
		return nil, shared.NewCatalogError(shared.ErrNotFound, "record title not found")
	default:
		s.logger.Error("could not fetch record", "title", title, "error", err)
		return nil, err
	}
}

// DeleteRecord removes every record matching title case-insensitively, with their tracks.
func (s *CatalogService) DeleteRecord(ctx context.Context, title string) (*models.Deletion, error) {
	s.logger.Debug("deleting record", "title", title)

	var count int
	err := s.store.Tx(ctx, func(tx models.Store) error {
		var err error
		count, err = tx.DeleteRecordsByTitle(ctx, title)
		return err
	})
	if err != nil {
		s.logger.Error("could not delete record", "title", title, "error", err)
		return nil, err
	}

	if count == 0 {
		s.logger.Warn("record not found", "title", title)
		return nil, shared.NewCatalogError(shared.ErrNotFound, "record not found")
	}

	s.logger.Debug("record deleted", "title", title, "count", count)
	return &models.Deletion{Title: title, Count: count}, nil
}

// AddTrack attaches a new track to the record with recordID and returns the updated record.
//
// A missing record is a [shared.ErrNotFound]; a track with the same name and version already on the record is a
// [shared.ErrConflict].
func (s *CatalogService) AddTrack(ctx context.Context, recordID int64, fields models.TrackFields) (*models.Record, error) {
	s.logger.Debug("adding track", "record_id", recordID, "name", fields.Name, "version", fields.Version)

	var record *models.Record
	err := s.store.Tx(ctx, func(tx models.Store) error {
		var err error
		record, err = tx.FindRecordByID(ctx, recordID)
		if err != nil {
			return err
		}

		_, err = tx.FindTrack(ctx, recordID, fields.Name, fields.Version)
		switch {
		case err == nil:
			return shared.ErrDuplicateTrack
		case !errors.Is(err, shared.ErrTrackNotFound):
			return err
		}

		return tx.AppendTrack(ctx, record, models.NewTrack(fields))
	})

	switch {
	case err == nil:
		s.logger.Debug("track added", "record_id", recordID, "tracks", record.TotalTracks())
		return record, nil
	case errors.Is(err, shared.ErrRecordNotFound):
		s.logger.Warn("could not add track", "record_id", recordID, "error", err)
		return nil, shared.NewCatalogError(shared.ErrNotFound,
			"record %d cannot accept this track because it does not exist", recordID)
	case errors.Is(err, shared.ErrDuplicateTrack):
		s.logger.Warn("could not add track", "record_id", recordID, "error", err)
		return nil, shared.NewCatalogError(shared.ErrConflict, "track already attached to record %d", recordID)
	case errors.Is(err, shared.ErrInvalidInput):
		s.logger.Warn("could not add track", "record_id", recordID, "error", err)
		return nil, shared.NewCatalogError(shared.ErrBadRequest, "could not save track")
	default:
		s.logger.Error("could not add track", "record_id", recordID, "error", err)
		return nil, err
	}
}

// ExportCatalog returns every record with its tracks.
func (s *CatalogService) ExportCatalog(ctx context.Context) ([]*models.Record, error) {
	var records []*models.Record
	err := s.store.Tx(ctx, func(tx models.Store) error {
		var err error
		records, err = tx.ListRecordsWithTracks(ctx)
		return err
	})
	if err != nil {
		s.logger.Error("could not export catalog", "error", err)
		return nil, err
	}

	s.logger.Debug("catalog exported", "records", len(records))
	return records, nil
}
