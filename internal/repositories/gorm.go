package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/desertthunder/discos/internal/models"
	"github.com/desertthunder/discos/internal/shared"
)

// GormStore implements [models.Store] with gorm. It backs the MySQL driver.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GormStore with the given gorm handle
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// OpenGorm opens a gorm handle for dialector, routes gorm's logging through logger and
// creates the records and tracks tables when missing.
func OpenGorm(dialector gorm.Dialector, logger *log.Logger) (*gorm.DB, error) {
	gl := gormlogger.Discard
	if logger != nil {
		gl = gormlogger.New(logger, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		})
	}

	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true, Logger: gl})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&models.Record{}, &models.Track{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return db, nil
}

// Tx runs fn inside a gorm transaction; nested calls become savepoints.
func (g *GormStore) Tx(ctx context.Context, fn func(models.Store) error) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

// InsertRecord inserts a new [models.Record] without its associations and sets its ID
func (g *GormStore) InsertRecord(ctx context.Context, record *models.Record) (int64, error) {
	if err := record.Validate(); err != nil {
		return 0, fmt.Errorf("validation failed: %w", err)
	}

	if err := g.db.WithContext(ctx).Omit(clause.Associations).Create(record).Error; err != nil {
		if isDuplicate(err) {
			return 0, fmt.Errorf("%w: %s", shared.ErrDuplicateTitle, record.Title)
		}
		return 0, fmt.Errorf("failed to insert record: %w", err)
	}

	if record.Tracks == nil {
		record.Tracks = []models.Track{}
	}

	return record.ID, nil
}

// ListRecords retrieves all records ordered by ID, without their tracks
func (g *GormStore) ListRecords(ctx context.Context) ([]*models.Record, error) {
	records := []*models.Record{}
	if err := g.db.WithContext(ctx).Order("id ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}

	for _, record := range records {
		record.Tracks = []models.Track{}
	}

	return records, nil
}

// ListRecordsWithTracks retrieves all records ordered by ID with their tracks preloaded
func (g *GormStore) ListRecordsWithTracks(ctx context.Context) ([]*models.Record, error) {
	records := []*models.Record{}
	if err := g.withTracks(ctx).Order("id ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}

	for _, record := range records {
		if record.Tracks == nil {
			record.Tracks = []models.Track{}
		}
	}

	return records, nil
}

// FindRecordByTitle retrieves a record by case-insensitive title, with its tracks
func (g *GormStore) FindRecordByTitle(ctx context.Context, title string) (*models.Record, error) {
	var record models.Record
	err := g.withTracks(ctx).Where("lower(title) = lower(?)", title).Order("id ASC").First(&record).Error
	if err != nil {
		return nil, notFound(err, shared.ErrRecordNotFound, "record")
	}

	if record.Tracks == nil {
		record.Tracks = []models.Track{}
	}

	return &record, nil
}

// FindRecordByID retrieves a record by ID, with its tracks
func (g *GormStore) FindRecordByID(ctx context.Context, id int64) (*models.Record, error) {
	var record models.Record
	if err := g.withTracks(ctx).Where("id = ?", id).First(&record).Error; err != nil {
		return nil, notFound(err, shared.ErrRecordNotFound, "record")
	}

	if record.Tracks == nil {
		record.Tracks = []models.Track{}
	}

	return &record, nil
}

// DeleteRecordsByTitle deletes every record matching title case-insensitively, tracks first
func (g *GormStore) DeleteRecordsByTitle(ctx context.Context, title string) (int, error) {
	var count int64

	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []int64
		if err := tx.Model(&models.Record{}).Where("lower(title) = lower(?)", title).Pluck("id", &ids).Error; err != nil {
			return fmt.Errorf("failed to query records: %w", err)
		}
		if len(ids) == 0 {
			return nil
		}

		if err := tx.Where("record_id IN ?", ids).Delete(&models.Track{}).Error; err != nil {
			return fmt.Errorf("failed to delete tracks: %w", err)
		}

		result := tx.Where("id IN ?", ids).Delete(&models.Record{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete records: %w", result.Error)
		}
		count = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}

	return int(count), nil
}

// FindTrack retrieves the track of recordID with exactly this name and version
func (g *GormStore) FindTrack(ctx context.Context, recordID int64, name, version string) (*models.Track, error) {
	var track models.Track
	err := g.db.WithContext(ctx).
		Where("record_id = ? AND name = ? AND version = ?", recordID, name, version).
		First(&track).Error
	if err != nil {
		return nil, notFound(err, shared.ErrTrackNotFound, "track")
	}

	return &track, nil
}

// AppendTrack inserts track as owned by record and appends it to the record's collection
func (g *GormStore) AppendTrack(ctx context.Context, record *models.Record, track *models.Track) error {
	if record.ID == 0 {
		return fmt.Errorf("%w: record must be saved before adding tracks", shared.ErrInvalidInput)
	}

	if err := track.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	track.RecordID = record.ID
	if err := g.db.WithContext(ctx).Create(track).Error; err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("%w: %s (%s)", shared.ErrDuplicateTrack, track.Name, track.Version)
		}
		return fmt.Errorf("failed to insert track: %w", err)
	}

	record.AddTrack(*track)
	return nil
}

// withTracks preloads tracks in insertion order
func (g *GormStore) withTracks(ctx context.Context) *gorm.DB {
	return g.db.WithContext(ctx).Preload("Tracks", func(db *gorm.DB) *gorm.DB {
		return db.Order("tracks.id ASC")
	})
}

// isDuplicate reports unique violations, translated by gorm or raw from the sqlite driver.
func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err)
}

// notFound maps gorm.ErrRecordNotFound to sentinel and wraps anything else.
func notFound(err, sentinel error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return fmt.Errorf("failed to query %s: %w", entity, err)
}
