package server

import (
	"github.com/desertthunder/discos/internal/models"
)

// RecordRequest is the body of POST /record, accepted as JSON or form data
type RecordRequest struct {
	Artist      string  `json:"artist" form:"artist"`
	Title       string  `json:"title" form:"title"`
	Label       string  `json:"label" form:"label"`
	TrackCount  int     `json:"track_count" form:"track_count"`
	ReleaseYear int     `json:"release_year" form:"release_year"`
	Origin      string  `json:"origin" form:"origin"`
	Promo       string  `json:"promo" form:"promo"`
	Price       float64 `json:"price" form:"price"`
	Notes       string  `json:"notes" form:"notes"`
}

func (r RecordRequest) fields() models.RecordFields {
	return models.RecordFields{
		Artist:      r.Artist,
		Title:       r.Title,
		Label:       r.Label,
		TrackCount:  r.TrackCount,
		ReleaseYear: r.ReleaseYear,
		Origin:      r.Origin,
		Promo:       r.Promo,
		Price:       r.Price,
		Notes:       r.Notes,
	}
}

// TrackRequest is the body of POST /track, accepted as JSON or form data.
// RecordID is a pointer so an absent field fails binding while an explicit 0 reaches the catalog.
type TrackRequest struct {
	RecordID *int64 `json:"record_id" form:"record_id" binding:"required"`
	Name     string `json:"name" form:"name"`
	Version  string `json:"version" form:"version"`
	Duration string `json:"duration" form:"duration"`
}

func (r TrackRequest) fields() models.TrackFields {
	return models.TrackFields{Name: r.Name, Version: r.Version, Duration: r.Duration}
}

// TitleQuery selects records by title
type TitleQuery struct {
	Title string `form:"title" binding:"required"`
}

// ExportQuery selects the export encoding
type ExportQuery struct {
	Format string `form:"format"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Message string `json:"message"`
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp"`
}
