package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desertthunder/discos/internal/formatter"
	"github.com/desertthunder/discos/internal/models"
	"github.com/desertthunder/discos/internal/shared"
	tu "github.com/desertthunder/discos/internal/testing"
)

func TestNewClient(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		c := NewClient("", nil)
		assert.Equal(t, defaultBaseURL, c.baseURL)
		assert.Equal(t, http.DefaultClient, c.httpClient)
	})

	t.Run("trims trailing slash", func(t *testing.T) {
		custom := &http.Client{}
		c := NewClient("http://example.com/", custom)
		assert.Equal(t, "http://example.com", c.baseURL)
		assert.Same(t, custom, c.httpClient)
	})
}

func TestClient(t *testing.T) {
	ctx := context.Background()

	t.Run("AddRecord sends JSON body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/record", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var body recordRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "Dois", body.Title)
			assert.Equal(t, 1986, body.ReleaseYear)

			json.NewEncoder(w).Encode(formatter.RecordView{ID: 1, Title: body.Title, Tracks: []formatter.TrackView{}})
		}))
		defer server.Close()

		view, err := NewClient(server.URL, nil).AddRecord(ctx, models.RecordFields{Title: "Dois", ReleaseYear: 1986})
		require.NoError(t, err)
		assert.Equal(t, int64(1), view.ID)
		assert.Equal(t, "Dois", view.Title)
	})

	t.Run("GetRecord escapes title", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Que País é Este", r.URL.Query().Get("title"))
			json.NewEncoder(w).Encode(formatter.RecordView{ID: 3, Title: "Que País é Este", TotalTracks: 0})
		}))
		defer server.Close()

		view, err := NewClient(server.URL, nil).GetRecord(ctx, "Que País é Este")
		require.NoError(t, err)
		assert.Equal(t, int64(3), view.ID)
	})

	t.Run("ListRecords", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/records", r.URL.Path)
			w.Write([]byte(`{"records":[{"title":"Dois"},{"title":"V"}]}`))
		}))
		defer server.Close()

		list, err := NewClient(server.URL, nil).ListRecords(ctx)
		require.NoError(t, err)
		require.Len(t, list.Records, 2)
		assert.Equal(t, "V", list.Records[1].Title)
	})

	t.Run("DeleteRecord", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			json.NewEncoder(w).Encode(formatter.DeletionView{Message: formatter.DeletedMessage, Title: r.URL.Query().Get("title")})
		}))
		defer server.Close()

		view, err := NewClient(server.URL, nil).DeleteRecord(ctx, "Dois")
		require.NoError(t, err)
		assert.Equal(t, "Dois", view.Title)
		assert.Equal(t, formatter.DeletedMessage, view.Message)
	})

	t.Run("DeleteRecord escapes titles twice", func(t *testing.T) {
		var received string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			received = r.URL.Query().Get("title")
			json.NewEncoder(w).Encode(formatter.DeletionView{Message: formatter.DeletedMessage, Title: "100%41"})
		}))
		defer server.Close()

		_, err := NewClient(server.URL, nil).DeleteRecord(ctx, "100%41")
		require.NoError(t, err)
		assert.Equal(t, "100%252541", received)
	})

	t.Run("AddTrack", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var body trackRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, int64(9), body.RecordID)
			assert.Equal(t, "Índios", body.Name)

			json.NewEncoder(w).Encode(formatter.RecordView{
				ID:          9,
				TotalTracks: 1,
				Tracks:      []formatter.TrackView{{Name: body.Name, Version: body.Version, Duration: body.Duration}},
			})
		}))
		defer server.Close()

		view, err := NewClient(server.URL, nil).AddTrack(ctx, 9, models.TrackFields{Name: "Índios", Version: "Album", Duration: "04:23"})
		require.NoError(t, err)
		assert.Equal(t, 1, view.TotalTracks)
		assert.Equal(t, "Album", view.Tracks[0].Version)
	})

	t.Run("Export returns raw body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "csv", r.URL.Query().Get("format"))
			w.Write([]byte("Record ID,Artist\n"))
		}))
		defer server.Close()

		data, err := NewClient(server.URL, nil).Export(ctx, formatter.FormatCSV)
		require.NoError(t, err)
		assert.Equal(t, "Record ID,Artist\n", string(data))
	})

	t.Run("maps error statuses to catalog errors", func(t *testing.T) {
		tests := []struct {
			status int
			kind   error
		}{
			{http.StatusConflict, shared.ErrConflict},
			{http.StatusNotFound, shared.ErrNotFound},
			{http.StatusBadRequest, shared.ErrBadRequest},
		}

		for _, tt := range tests {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(`{"message":"record title not found"}`))
			}))

			_, err := NewClient(server.URL, nil).GetRecord(ctx, "Tempestade")
			server.Close()

			assert.ErrorIs(t, err, tt.kind)
			assert.EqualError(t, err, "record title not found")
		}
	})

	t.Run("unexpected status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		err := NewClient(server.URL, nil).Health(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "500")
		assert.False(t, errors.Is(err, shared.ErrBadRequest))
	})

	t.Run("transport failure", func(t *testing.T) {
		client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection refused"))}

		err := NewClient("http://example.com", client).Health(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "request failed")
	})

	t.Run("body read failure", func(t *testing.T) {
		resp := &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(&tu.FCloser{}), Header: http.Header{}}
		client := &http.Client{Transport: tu.NewMockRoundTripper(resp, nil)}

		err := NewClient("http://example.com", client).Health(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read response")
	})
}
