package tasks

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/discos/internal/formatter"
	"github.com/desertthunder/discos/internal/shared"
	"github.com/desertthunder/discos/internal/storage"
)

// Exporter encodes the whole catalog, tracks included, in a format.
// Both the local catalog and the HTTP client satisfy it.
type Exporter interface {
	Export(ctx context.Context, format formatter.Format) ([]byte, error)
}

// FormatExportResult is the outcome of exporting the catalog in one format.
type FormatExportResult struct {
	Format   formatter.Format `json:"format"`
	Key      string           `json:"key"`
	Location string           `json:"location,omitempty"`
	Bytes    int              `json:"bytes"`
	Success  bool             `json:"success"`
	Error    string           `json:"error,omitempty"`
	Err      error            `json:"-"`
}

// BulkExportResult summarizes a bulk export. It doubles as the manifest document.
type BulkExportResult struct {
	Name              string               `json:"name"`
	Backend           string               `json:"backend"`
	CreatedAt         time.Time            `json:"created_at"`
	TotalFormats      int                  `json:"total_formats"`
	SuccessfulExports int                  `json:"successful_exports"`
	FailedExports     int                  `json:"failed_exports"`
	Results           []FormatExportResult `json:"results"`
	ManifestKey       string               `json:"-"`
	ManifestLocation  string               `json:"-"`
}

// ExportEngine writes catalog exports to a storage backend.
type ExportEngine struct {
	catalog Exporter
	storage storage.Storage
	logger  *log.Logger
	now     func() time.Time
}

// NewExportEngine creates an ExportEngine. A nil logger writes to stderr.
func NewExportEngine(catalog Exporter, store storage.Storage, logger *log.Logger) *ExportEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &ExportEngine{
		catalog: catalog,
		storage: store,
		logger:  shared.WithLogger(logger, "task", "export"),
		now:     time.Now,
	}
}

// sendProgress sends a progress update without blocking
func (e *ExportEngine) sendProgress(prog chan<- ProgressUpdate, update ProgressUpdate) {
	if prog == nil {
		return
	}
	select {
	case prog <- update:
	default:
	}
}
