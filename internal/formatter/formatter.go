// package formatter maps catalog entities to response views and encodes catalog exports (JSON, CSV, Markdown, YAML)
package formatter

import (
	"github.com/desertthunder/discos/internal/models"
)

// TrackView is a track as shown inside a [RecordView]
type TrackView struct {
	Name     string `json:"name" yaml:"name"`
	Version  string `json:"version" yaml:"version"`
	Duration string `json:"duration" yaml:"duration"`
}

// RecordView is the full representation of a record with its tracks
type RecordView struct {
	ID          int64       `json:"id" yaml:"id"`
	Artist      string      `json:"artist" yaml:"artist"`
	Title       string      `json:"title" yaml:"title"`
	Label       string      `json:"label" yaml:"label"`
	TrackCount  int         `json:"track_count" yaml:"track_count"`
	ReleaseYear int         `json:"release_year" yaml:"release_year"`
	Origin      string      `json:"origin" yaml:"origin"`
	Promo       string      `json:"promo" yaml:"promo"`
	Price       float64     `json:"price" yaml:"price"`
	Notes       string      `json:"notes" yaml:"notes"`
	TotalTracks int         `json:"total_tracks" yaml:"total_tracks"`
	Tracks      []TrackView `json:"tracks" yaml:"tracks"`
}

// RecordSummary is a record in a listing, without id and tracks
type RecordSummary struct {
	Artist      string  `json:"artist"`
	Title       string  `json:"title"`
	Label       string  `json:"label"`
	TrackCount  int     `json:"track_count"`
	ReleaseYear int     `json:"release_year"`
	Origin      string  `json:"origin"`
	Promo       string  `json:"promo"`
	Price       float64 `json:"price"`
	Notes       string  `json:"notes"`
}

// RecordList wraps the listing so it encodes as {"records": [...]}
type RecordList struct {
	Records []RecordSummary `json:"records"`
}

// DeletionView confirms a removal
type DeletionView struct {
	Message string `json:"message"`
	Title   string `json:"title"`
}

// DeletedMessage is the confirmation text of a [DeletionView]
const DeletedMessage = "record removed"

// PresentRecord flattens record and lists its tracks in collection order
func PresentRecord(record *models.Record) RecordView {
	tracks := make([]TrackView, 0, len(record.Tracks))
	for _, t := range record.Tracks {
		tracks = append(tracks, TrackView{Name: t.Name, Version: t.Version, Duration: t.Duration})
	}

	return RecordView{
		ID:          record.ID,
		Artist:      record.Artist,
		Title:       record.Title,
		Label:       record.Label,
		TrackCount:  record.TrackCount,
		ReleaseYear: record.ReleaseYear,
		Origin:      record.Origin,
		Promo:       record.Promo,
		Price:       record.Price,
		Notes:       record.Notes,
		TotalTracks: record.TotalTracks(),
		Tracks:      tracks,
	}
}

// PresentRecords summarizes records for a listing. The list is never nil.
func PresentRecords(records []*models.Record) RecordList {
	list := RecordList{Records: make([]RecordSummary, 0, len(records))}
	for _, r := range records {
		list.Records = append(list.Records, RecordSummary{
			Artist:      r.Artist,
			Title:       r.Title,
			Label:       r.Label,
			TrackCount:  r.TrackCount,
			ReleaseYear: r.ReleaseYear,
			Origin:      r.Origin,
			Promo:       r.Promo,
			Price:       r.Price,
			Notes:       r.Notes,
		})
	}
	return list
}

// PresentDeletion builds the confirmation for a successful delete
func PresentDeletion(d *models.Deletion) DeletionView {
	return DeletionView{Message: DeletedMessage, Title: d.Title}
}
