// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/desertthunder/discos/internal/models"
	"github.com/desertthunder/discos/internal/repositories"
	"github.com/desertthunder/discos/internal/shared"
)

// ErrStoreFailure is returned by every [FailingStore] method
var ErrStoreFailure = errors.New("store unavailable")

// NewMemoryStore opens a migrated in-memory SQLite store that is closed when the test ends
func NewMemoryStore(t *testing.T) models.Store {
	t.Helper()

	db, err := shared.NewDatabase(shared.MemoryDatabase)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return repositories.NewSQLStore(db)
}

// FailingStore is a [models.Store] whose operations all fail with [ErrStoreFailure]
type FailingStore struct{}

func (FailingStore) InsertRecord(context.Context, *models.Record) (int64, error) {
	return 0, ErrStoreFailure
}

func (FailingStore) ListRecords(context.Context) ([]*models.Record, error) {
	return nil, ErrStoreFailure
}

func (FailingStore) ListRecordsWithTracks(context.Context) ([]*models.Record, error) {
	return nil, ErrStoreFailure
}

func (FailingStore) FindRecordByTitle(context.Context, string) (*models.Record, error) {
	return nil, ErrStoreFailure
}

func (FailingStore) FindRecordByID(context.Context, int64) (*models.Record, error) {
	return nil, ErrStoreFailure
}

func (FailingStore) DeleteRecordsByTitle(context.Context, string) (int, error) {
	return 0, ErrStoreFailure
}

func (FailingStore) FindTrack(context.Context, int64, string, string) (*models.Track, error) {
	return nil, ErrStoreFailure
}

func (FailingStore) AppendTrack(context.Context, *models.Record, *models.Track) error {
	return ErrStoreFailure
}

func (f FailingStore) Tx(_ context.Context, fn func(models.Store) error) error {
	return fn(f)
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
