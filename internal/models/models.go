package models

import (
	"fmt"
	"strings"

	"github.com/desertthunder/discos/internal/shared"
)

// Promo flag values.
const (
	PromoYes = "S"
	PromoNo  = "N"
)

// Record is a cataloged music release. It owns its Tracks.
type Record struct {
	ID          int64   `json:"id" gorm:"primaryKey;autoIncrement"`
	Artist      string  `json:"artist" gorm:"size:250;not null;default:''"`
	Title       string  `json:"title" gorm:"size:250;not null;uniqueIndex"`
	Label       string  `json:"label" gorm:"size:100;not null;default:''"`
	TrackCount  int     `json:"track_count" gorm:"not null;default:0"`
	ReleaseYear int     `json:"release_year" gorm:"not null;default:0"`
	Origin      string  `json:"origin" gorm:"size:50;not null;default:''"`
	Promo       string  `json:"promo" gorm:"size:1;not null;default:'N'"`
	Price       float64 `json:"price" gorm:"not null;default:0"`
	Notes       string  `json:"notes" gorm:"size:1000;not null;default:''"`
	Tracks      []Track `json:"tracks" gorm:"foreignKey:RecordID;constraint:OnDelete:CASCADE"`
}

// TableName sets the gorm table name.
func (Record) TableName() string { return "records" }

// Track is a song entry belonging to exactly one Record.
//
// Duration is free text, conventionally "MM:SS".
type Track struct {
	ID       int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	RecordID int64  `json:"record_id" gorm:"not null;index;uniqueIndex:idx_tracks_record_name_version,priority:1"`
	Name     string `json:"name" gorm:"size:250;not null;uniqueIndex:idx_tracks_record_name_version,priority:2"`
	Version  string `json:"version" gorm:"size:250;not null;default:'';uniqueIndex:idx_tracks_record_name_version,priority:3"`
	Duration string `json:"duration" gorm:"size:5;not null;default:''"`
}

// TableName sets the gorm table name.
func (Track) TableName() string { return "tracks" }

// RecordFields are the caller-supplied attributes of a new Record.
type RecordFields struct {
	Artist      string
	Title       string
	Label       string
	TrackCount  int
	ReleaseYear int
	Origin      string
	Promo       string
	Price       float64
	Notes       string
}

// TrackFields are the caller-supplied attributes of a new Track.
type TrackFields struct {
	Name     string
	Version  string
	Duration string
}

// Deletion confirms the removal of records matching Title.
type Deletion struct {
	Title string
	Count int
}

// NewRecord builds an unsaved Record with an empty track collection.
// An empty promo flag defaults to [PromoNo].
func NewRecord(f RecordFields) *Record {
	promo := strings.ToUpper(strings.TrimSpace(f.Promo))
	if promo == "" {
		promo = PromoNo
	}

	return &Record{
		Artist:      f.Artist,
		Title:       f.Title,
		Label:       f.Label,
		TrackCount:  f.TrackCount,
		ReleaseYear: f.ReleaseYear,
		Origin:      f.Origin,
		Promo:       promo,
		Price:       f.Price,
		Notes:       f.Notes,
		Tracks:      []Track{},
	}
}

// NewTrack builds an unsaved Track not yet attached to a Record.
func NewTrack(f TrackFields) *Track {
	return &Track{
		Name:     f.Name,
		Version:  f.Version,
		Duration: f.Duration,
	}
}

// Validate checks the record attributes the store cannot check itself.
func (r *Record) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("%w: title is required", shared.ErrInvalidInput)
	}
	if r.Promo != PromoYes && r.Promo != PromoNo {
		return fmt.Errorf("%w: promo must be %q or %q, got %q", shared.ErrInvalidInput, PromoYes, PromoNo, r.Promo)
	}
	return nil
}

// Validate checks that the track can be stored.
func (t *Track) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: track name is required", shared.ErrInvalidInput)
	}
	return nil
}

// AddTrack appends t to the owned collection and binds it to r.
func (r *Record) AddTrack(t Track) {
	t.RecordID = r.ID
	r.Tracks = append(r.Tracks, t)
}

// TotalTracks is the number of tracks attached, as opposed to the declared TrackCount.
func (r *Record) TotalTracks() int {
	return len(r.Tracks)
}
