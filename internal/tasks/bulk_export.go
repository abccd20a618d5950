package tasks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/desertthunder/discos/internal/formatter"
	"github.com/desertthunder/discos/internal/shared"
)

const (
	defaultWorkers = 4
	maxWorkers     = 8
)

// BulkExportOpts contains configuration for bulk catalog exports.
type BulkExportOpts struct {
	Formats    []formatter.Format // Formats to export, at least one
	Name       string             // Object name without extension (default: catalog-{timestamp})
	NumWorkers int                // Concurrent workers (default: 4, capped at the number of formats)
	RateLimit  float64            // Exports started per second, unlimited when <= 0
}

type exportJob struct {
	index  int
	total  int
	format formatter.Format
}

// ExportName is the default object name for an export started at t.
func ExportName(t time.Time) string {
	return fmt.Sprintf("catalog-%s", t.Format("20060102-150405"))
}

// BulkExport exports the catalog in every requested format concurrently.
//
// Each format is stored as <name>.<extension>. A failed format is recorded in the result and does not stop
// the others. With more than one format a manifest is stored as <name>.manifest.json.
func (e *ExportEngine) BulkExport(ctx context.Context, prog chan<- ProgressUpdate, opts BulkExportOpts) (*BulkExportResult, error) {
	if e.catalog == nil || e.storage == nil {
		return nil, fmt.Errorf("%w: export engine needs a catalog and a storage backend", shared.ErrInvalidConfig)
	}
	if len(opts.Formats) == 0 {
		return nil, fmt.Errorf("%w: no export formats", shared.ErrMissingArgument)
	}

	createdAt := e.now().UTC()
	if opts.Name == "" {
		opts.Name = ExportName(createdAt)
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = defaultWorkers
	}
	opts.NumWorkers = min(opts.NumWorkers, maxWorkers, len(opts.Formats))

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}
	limiter := rate.NewLimiter(limit, 1)

	result := &BulkExportResult{
		Name:         opts.Name,
		Backend:      e.storage.Name(),
		CreatedAt:    createdAt,
		TotalFormats: len(opts.Formats),
		Results:      make([]FormatExportResult, 0, len(opts.Formats)),
	}

	e.logger.Debug("starting bulk export", "name", opts.Name, "formats", len(opts.Formats), "workers", opts.NumWorkers)

	jobs := make(chan exportJob, len(opts.Formats))
	results := make(chan indexedResult, len(opts.Formats))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, prog, limiter, opts.Name, jobs, results)
	}

	for i, format := range opts.Formats {
		jobs <- exportJob{index: i, total: len(opts.Formats), format: format}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	collected := make([]indexedResult, 0, len(opts.Formats))
	for res := range results {
		collected = append(collected, res)

		if res.Success {
			result.SuccessfulExports++
			e.sendProgress(prog, exportCompletedUpdate(len(collected), len(opts.Formats), res.FormatExportResult))
		} else {
			result.FailedExports++
			e.logger.Warn("export failed", "format", res.Format, "error", res.Err)
			e.sendProgress(prog, exportFailedUpdate(len(collected), len(opts.Formats), res.FormatExportResult))
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(collected, func(i, j int) bool { return collected[i].index < collected[j].index })
	for _, res := range collected {
		result.Results = append(result.Results, res.FormatExportResult)
	}

	if len(opts.Formats) > 1 {
		if err := e.writeManifest(ctx, prog, result); err != nil {
			return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
		}
	}

	e.logger.Debug("bulk export finished", "name", opts.Name, "ok", result.SuccessfulExports, "failed", result.FailedExports)
	return result, nil
}

type indexedResult struct {
	index int
	FormatExportResult
}

// exportWorker encodes and stores formats from the jobs channel until it is drained.
func (e *ExportEngine) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	prog chan<- ProgressUpdate,
	limiter *rate.Limiter,
	name string,
	jobs <-chan exportJob,
	results chan<- indexedResult,
) {
	defer wg.Done()

	for job := range jobs {
		res := FormatExportResult{
			Format: job.format,
			Key:    fmt.Sprintf("%s.%s", name, job.format.Extension()),
		}

		if err := limiter.Wait(ctx); err != nil {
			res.Err = err
		} else {
			e.sendProgress(prog, encodingUpdate(job.index+1, job.total, job.format))
			e.exportFormat(ctx, &res)
		}

		if res.Err != nil {
			res.Error = res.Err.Error()
		}
		results <- indexedResult{index: job.index, FormatExportResult: res}
	}
}

func (e *ExportEngine) exportFormat(ctx context.Context, res *FormatExportResult) {
	data, err := e.catalog.Export(ctx, res.Format)
	if err != nil {
		res.Err = fmt.Errorf("encoding failed: %w", err)
		return
	}

	location, err := e.storage.Put(ctx, res.Key, bytes.NewReader(data))
	if err != nil {
		res.Err = fmt.Errorf("upload failed: %w", err)
		return
	}

	res.Location = location
	res.Bytes = len(data)
	res.Success = true
}

func (e *ExportEngine) writeManifest(ctx context.Context, prog chan<- ProgressUpdate, result *BulkExportResult) error {
	key := result.Name + ".manifest.json"
	e.sendProgress(prog, manifestUpdate(key))

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}

	location, err := e.storage.Put(ctx, key, bytes.NewReader(data))
	if err != nil {
		return err
	}

	result.ManifestKey = key
	result.ManifestLocation = location
	return nil
}
