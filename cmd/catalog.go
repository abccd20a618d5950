package main

import (
	"context"

	"github.com/desertthunder/discos/internal/formatter"
	"github.com/desertthunder/discos/internal/models"
	"github.com/desertthunder/discos/internal/services"
)

// Catalog is what the records commands operate on, either a local store or a remote server.
// [services.Client] implements it directly.
type Catalog interface {
	AddRecord(ctx context.Context, fields models.RecordFields) (*formatter.RecordView, error)
	ListRecords(ctx context.Context) (*formatter.RecordList, error)
	GetRecord(ctx context.Context, title string) (*formatter.RecordView, error)
	DeleteRecord(ctx context.Context, title string) (*formatter.DeletionView, error)
	AddTrack(ctx context.Context, recordID int64, fields models.TrackFields) (*formatter.RecordView, error)
	Export(ctx context.Context, format formatter.Format) ([]byte, error)
}

var (
	_ Catalog = (*LocalCatalog)(nil)
	_ Catalog = (*services.Client)(nil)
)

// LocalCatalog presents the results of a [services.CatalogService] the same way the HTTP API does
type LocalCatalog struct {
	svc *services.CatalogService
}

func NewLocalCatalog(svc *services.CatalogService) *LocalCatalog {
	return &LocalCatalog{svc: svc}
}

func (c *LocalCatalog) AddRecord(ctx context.Context, fields models.RecordFields) (*formatter.RecordView, error) {
	record, err := c.svc.AddRecord(ctx, fields)
	if err != nil {
		return nil, err
	}
	view := formatter.PresentRecord(record)
	return &view, nil
}

func (c *LocalCatalog) ListRecords(ctx context.Context) (*formatter.RecordList, error) {
	records, err := c.svc.ListRecords(ctx)
	if err != nil {
		return nil, err
	}
	list := formatter.PresentRecords(records)
	return &list, nil
}

func (c *LocalCatalog) GetRecord(ctx context.Context, title string) (*formatter.RecordView, error) {
	record, err := c.svc.GetRecord(ctx, title)
	if err != nil {
		return nil, err
	}
	view := formatter.PresentRecord(record)
	return &view, nil
}

func (c *LocalCatalog) DeleteRecord(ctx context.Context, title string) (*formatter.DeletionView, error) {
	deletion, err := c.svc.DeleteRecord(ctx, title)
	if err != nil {
		return nil, err
	}
	view := formatter.PresentDeletion(deletion)
	return &view, nil
}

func (c *LocalCatalog) AddTrack(ctx context.Context, recordID int64, fields models.TrackFields) (*formatter.RecordView, error) {
	record, err := c.svc.AddTrack(ctx, recordID, fields)
	if err != nil {
		return nil, err
	}
	view := formatter.PresentRecord(record)
	return &view, nil
}

func (c *LocalCatalog) Export(ctx context.Context, format formatter.Format) ([]byte, error) {
	records, err := c.svc.ExportCatalog(ctx)
	if err != nil {
		return nil, err
	}
	return formatter.Export(format, records)
}
