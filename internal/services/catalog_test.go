package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desertthunder/discos/internal/models"
	"github.com/desertthunder/discos/internal/shared"
	tu "github.com/desertthunder/discos/internal/testing"
)

func newTestService(t *testing.T) *CatalogService {
	t.Helper()
	return NewCatalogService(tu.NewMemoryStore(t), shared.NewLogger(io.Discard))
}

func recordFields(title string) models.RecordFields {
	return models.RecordFields{
		Artist:      "Legião Urbana",
		Title:       title,
		Label:       "EMI",
		TrackCount:  11,
		ReleaseYear: 1989,
		Origin:      "Brasil",
		Promo:       "N",
		Price:       50,
		Notes:       "Capa original",
	}
}

func assertKind(t *testing.T, err error, kind error, message string) {
	t.Helper()

	var catalogErr *shared.CatalogError
	require.ErrorAs(t, err, &catalogErr)
	assert.ErrorIs(t, err, kind)
	assert.Equal(t, message, catalogErr.Message)
}

func TestCatalogService_AddRecord(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns id and empty tracks", func(t *testing.T) {
		svc := newTestService(t)

		record, err := svc.AddRecord(ctx, recordFields("As Quatro Estações"))
		require.NoError(t, err)
		assert.NotZero(t, record.ID)
		assert.Equal(t, "As Quatro Estações", record.Title)
		assert.Equal(t, 0, record.TotalTracks())
		assert.NotNil(t, record.Tracks)
	})

	t.Run("duplicate title is a conflict", func(t *testing.T) {
		svc := newTestService(t)

		_, err := svc.AddRecord(ctx, recordFields("Dois"))
		require.NoError(t, err)

		_, err = svc.AddRecord(ctx, recordFields("Dois"))
		assertKind(t, err, shared.ErrConflict, "record with this title already exists")

		records, err := svc.ListRecords(ctx)
		require.NoError(t, err)
		assert.Len(t, records, 1)
	})

	t.Run("invalid record is a bad request", func(t *testing.T) {
		svc := newTestService(t)

		fields := recordFields("V")
		fields.Promo = "X"
		_, err := svc.AddRecord(ctx, fields)
		assertKind(t, err, shared.ErrBadRequest, "could not save record")
	})

	t.Run("store failure is a bad request", func(t *testing.T) {
		svc := NewCatalogService(tu.FailingStore{}, shared.NewLogger(io.Discard))

		_, err := svc.AddRecord(ctx, recordFields("V"))
		assertKind(t, err, shared.ErrBadRequest, "could not save record")
	})

	t.Run("empty promo defaults to N", func(t *testing.T) {
		svc := newTestService(t)

		fields := recordFields("Música para Acampamentos")
		fields.Promo = ""
		record, err := svc.AddRecord(ctx, fields)
		require.NoError(t, err)
		assert.Equal(t, models.PromoNo, record.Promo)
	})
}

func TestCatalogService_ListRecords(t *testing.T) {
	ctx := context.Background()

	t.Run("empty catalog", func(t *testing.T) {
		svc := newTestService(t)

		records, err := svc.ListRecords(ctx)
		require.NoError(t, err)
		assert.NotNil(t, records)
		assert.Empty(t, records)
	})

	t.Run("returns records in insertion order", func(t *testing.T) {
		svc := newTestService(t)

		for _, title := range []string{"Dois", "V", "O Descobrimento do Brasil"} {
			_, err := svc.AddRecord(ctx, recordFields(title))
			require.NoError(t, err)
		}

		records, err := svc.ListRecords(ctx)
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, "Dois", records[0].Title)
		assert.Equal(t, "O Descobrimento do Brasil", records[2].Title)
	})

	t.Run("store failure propagates", func(t *testing.T) {
		svc := NewCatalogService(tu.FailingStore{}, shared.NewLogger(io.Discard))

		_, err := svc.ListRecords(ctx)
		assert.ErrorIs(t, err, tu.ErrStoreFailure)
	})
}

func TestCatalogService_GetRecord(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	created, err := svc.AddRecord(ctx, recordFields("Que País é Este"))
	require.NoError(t, err)

	t.Run("matches title case-insensitively", func(t *testing.T) {
		record, err := svc.GetRecord(ctx, "que país é este")
		require.NoError(t, err)
		assert.Equal(t, created.ID, record.ID)
		assert.Equal(t, "Que País é Este", record.Title)
	})

	t.Run("unknown title is not found", func(t *testing.T) {
		_, err := svc.GetRecord(ctx, "Tempestade")
		assertKind(t, err, shared.ErrNotFound, "record title not found")
	})
}

func TestCatalogService_DeleteRecord(t *testing.T) {
	ctx := context.Background()

	t.Run("removes record and tracks", func(t *testing.T) {
		svc := newTestService(t)

		record, err := svc.AddRecord(ctx, recordFields("Dois"))
		require.NoError(t, err)
		_, err = svc.AddTrack(ctx, record.ID, models.TrackFields{Name: "Tempo Perdido", Version: "Album", Duration: "05:01"})
		require.NoError(t, err)

		deletion, err := svc.DeleteRecord(ctx, "DOIS")
		require.NoError(t, err)
		assert.Equal(t, "DOIS", deletion.Title)
		assert.Equal(t, 1, deletion.Count)

		_, err = svc.GetRecord(ctx, "Dois")
		assertKind(t, err, shared.ErrNotFound, "record title not found")

		_, err = svc.AddTrack(ctx, record.ID, models.TrackFields{Name: "Índios"})
		assertKind(t, err, shared.ErrNotFound,
			fmt.Sprintf("record %d cannot accept this track because it does not exist", record.ID))
	})

	t.Run("unknown title is not found", func(t *testing.T) {
		svc := newTestService(t)

		_, err := svc.DeleteRecord(ctx, "Tempestade")
		assertKind(t, err, shared.ErrNotFound, "record not found")
	})

	t.Run("store failure propagates", func(t *testing.T) {
		svc := NewCatalogService(tu.FailingStore{}, shared.NewLogger(io.Discard))

		_, err := svc.DeleteRecord(ctx, "Dois")
		assert.ErrorIs(t, err, tu.ErrStoreFailure)
		assert.False(t, errors.Is(err, shared.ErrNotFound))
	})
}

func TestCatalogService_AddTrack(t *testing.T) {
	ctx := context.Background()

	t.Run("appends in order", func(t *testing.T) {
		svc := newTestService(t)

		record, err := svc.AddRecord(ctx, recordFields("As Quatro Estações"))
		require.NoError(t, err)

		_, err = svc.AddTrack(ctx, record.ID, models.TrackFields{Name: "Há Tempos", Version: "Album", Duration: "03:16"})
		require.NoError(t, err)
		updated, err := svc.AddTrack(ctx, record.ID, models.TrackFields{Name: "Pais e Filhos", Version: "Album", Duration: "05:08"})
		require.NoError(t, err)

		require.Equal(t, 2, updated.TotalTracks())
		assert.Equal(t, "Há Tempos", updated.Tracks[0].Name)
		assert.Equal(t, "Pais e Filhos", updated.Tracks[1].Name)
	})

	t.Run("same name with another version is allowed", func(t *testing.T) {
		svc := newTestService(t)

		record, err := svc.AddRecord(ctx, recordFields("Dois"))
		require.NoError(t, err)

		_, err = svc.AddTrack(ctx, record.ID, models.TrackFields{Name: "Eduardo e Mônica", Version: "Album"})
		require.NoError(t, err)
		updated, err := svc.AddTrack(ctx, record.ID, models.TrackFields{Name: "Eduardo e Mônica", Version: "Ao Vivo"})
		require.NoError(t, err)
		assert.Equal(t, 2, updated.TotalTracks())
	})

	t.Run("duplicate track is a conflict", func(t *testing.T) {
		svc := newTestService(t)

		record, err := svc.AddRecord(ctx, recordFields("Dois"))
		require.NoError(t, err)

		track := models.TrackFields{Name: "Índios", Version: "Album", Duration: "04:23"}
		_, err = svc.AddTrack(ctx, record.ID, track)
		require.NoError(t, err)

		_, err = svc.AddTrack(ctx, record.ID, track)
		assertKind(t, err, shared.ErrConflict, fmt.Sprintf("track already attached to record %d", record.ID))

		current, err := svc.GetRecord(ctx, "Dois")
		require.NoError(t, err)
		assert.Equal(t, 1, current.TotalTracks())
	})

	t.Run("unknown record is not found", func(t *testing.T) {
		svc := newTestService(t)

		_, err := svc.AddTrack(ctx, 42, models.TrackFields{Name: "Índios"})
		assertKind(t, err, shared.ErrNotFound, "record 42 cannot accept this track because it does not exist")
	})

	t.Run("blank name is a bad request", func(t *testing.T) {
		svc := newTestService(t)

		record, err := svc.AddRecord(ctx, recordFields("Dois"))
		require.NoError(t, err)

		_, err = svc.AddTrack(ctx, record.ID, models.TrackFields{Name: "  "})
		assertKind(t, err, shared.ErrBadRequest, "could not save track")
	})
}

func TestCatalogService_ExportCatalog(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	first, err := svc.AddRecord(ctx, recordFields("Dois"))
	require.NoError(t, err)
	_, err = svc.AddRecord(ctx, recordFields("V"))
	require.NoError(t, err)
	_, err = svc.AddTrack(ctx, first.ID, models.TrackFields{Name: "Tempo Perdido"})
	require.NoError(t, err)

	records, err := svc.ExportCatalog(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 1, records[0].TotalTracks())
	assert.Equal(t, 0, records[1].TotalTracks())
}

func TestCatalogService_Scenario(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	fields := recordFields("Y")
	fields.Artist = "X"
	fields.TrackCount = 3

	record, err := svc.AddRecord(ctx, fields)
	require.NoError(t, err)
	assert.NotZero(t, record.ID)
	assert.Equal(t, 0, record.TotalTracks())

	track := models.TrackFields{Name: "A", Version: "Album", Duration: "03:30"}
	updated, err := svc.AddTrack(ctx, record.ID, track)
	require.NoError(t, err)
	require.Equal(t, 1, updated.TotalTracks())
	assert.Equal(t, "A", updated.Tracks[0].Name)

	_, err = svc.AddTrack(ctx, record.ID, track)
	assert.ErrorIs(t, err, shared.ErrConflict)

	deletion, err := svc.DeleteRecord(ctx, "Y")
	require.NoError(t, err)
	assert.Equal(t, "Y", deletion.Title)

	_, err = svc.GetRecord(ctx, "Y")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
