package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/discos/internal/formatter"
	"github.com/desertthunder/discos/internal/models"
	"github.com/desertthunder/discos/internal/shared"
	"github.com/desertthunder/discos/internal/tasks"
	"github.com/desertthunder/discos/internal/ui"
)

// RecordsList prints every record as a table or JSON.
func (r *Runner) RecordsList(ctx context.Context, cmd *cli.Command) error {
	catalog, closeFn, err := r.openCatalog(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	list, err := catalog.ListRecords(ctx)
	if err != nil {
		return fmt.Errorf("failed to list records: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(list, true)
	}

	return r.writePlainln("%s", ui.RecordsTable(*list))
}

// RecordsGet prints one record with its tracks.
func (r *Runner) RecordsGet(ctx context.Context, cmd *cli.Command) error {
	catalog, closeFn, err := r.openCatalog(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	view, err := catalog.GetRecord(ctx, cmd.String("title"))
	if err != nil {
		return err
	}

	return r.writeRecord(cmd, view)
}

// RecordsAdd creates a record from flags.
func (r *Runner) RecordsAdd(ctx context.Context, cmd *cli.Command) error {
	catalog, closeFn, err := r.openCatalog(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	view, err := catalog.AddRecord(ctx, models.RecordFields{
		Artist:      cmd.String("artist"),
		Title:       cmd.String("title"),
		Label:       cmd.String("label"),
		TrackCount:  cmd.Int("track-count"),
		ReleaseYear: cmd.Int("release-year"),
		Origin:      cmd.String("origin"),
		Promo:       cmd.String("promo"),
		Price:       cmd.Float("price"),
		Notes:       cmd.String("notes"),
	})
	if err != nil {
		return err
	}

	r.logger.Info("record added", "id", view.ID, "title", view.Title)
	return r.writeRecord(cmd, view)
}

// RecordsDelete removes the records matching --title.
func (r *Runner) RecordsDelete(ctx context.Context, cmd *cli.Command) error {
	catalog, closeFn, err := r.openCatalog(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	view, err := catalog.DeleteRecord(ctx, cmd.String("title"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(view, true)
	}
	return r.writePlainln("%s: %s", ui.Success("✓ "+view.Message), view.Title)
}

// RecordsAddTrack attaches a track to --record-id.
func (r *Runner) RecordsAddTrack(ctx context.Context, cmd *cli.Command) error {
	catalog, closeFn, err := r.openCatalog(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	view, err := catalog.AddTrack(ctx, cmd.Int64("record-id"), models.TrackFields{
		Name:     cmd.String("name"),
		Version:  cmd.String("version"),
		Duration: cmd.String("duration"),
	})
	if err != nil {
		return err
	}

	r.logger.Info("track added", "record_id", view.ID, "tracks", view.TotalTracks)
	return r.writeRecord(cmd, view)
}

// RecordsExport encodes the catalog in one or more formats and writes each to the configured storage,
// or a single format to stdout with --stdout.
func (r *Runner) RecordsExport(ctx context.Context, cmd *cli.Command) error {
	formats, err := formatter.ParseFormats(cmd.String("format"))
	if err != nil {
		return err
	}

	if cmd.Bool("stdout") && len(formats) != 1 {
		return fmt.Errorf("%w: --stdout takes a single format", shared.ErrInvalidArgument)
	}

	catalog, closeFn, err := r.openCatalog(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	if cmd.Bool("stdout") {
		data, err := catalog.Export(ctx, formats[0])
		if err != nil {
			return fmt.Errorf("failed to export catalog: %w", err)
		}
		_, err = r.output.Write(data)
		return err
	}

	store, err := r.openStorage(ctx)
	if err != nil {
		return err
	}

	prog := make(chan tasks.ProgressUpdate, len(formats)*2+1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range prog {
			r.logger.Debug(update.Message, "phase", update.Phase, "step", update.Step, "total", update.Total)
		}
	}()

	engine := tasks.NewExportEngine(catalog, store, r.logger)
	result, err := engine.BulkExport(ctx, prog, tasks.BulkExportOpts{
		Formats:    formats,
		Name:       cmd.String("name"),
		NumWorkers: cmd.Int("workers"),
		RateLimit:  cmd.Float("rate"),
	})
	close(prog)
	<-done
	if err != nil {
		return err
	}

	r.logger.Info("catalog exported", "backend", result.Backend, "ok", result.SuccessfulExports, "failed", result.FailedExports)

	for _, res := range result.Results {
		if res.Success {
			r.writePlainln("%s %s", ui.Success("✓ Exported to"), res.Location)
		} else {
			r.writePlainln("%s %s: %s", ui.Failure("✗ Failed"), res.Format, res.Error)
		}
	}
	if result.ManifestLocation != "" {
		r.writePlainln("Manifest: %s", result.ManifestLocation)
	}

	if result.FailedExports > 0 {
		return fmt.Errorf("%d of %d exports failed", result.FailedExports, result.TotalFormats)
	}
	return nil
}

// RecordsExports lists the exports held by the configured storage.
func (r *Runner) RecordsExports(ctx context.Context, cmd *cli.Command) error {
	if err := r.loadConfig(cmd); err != nil {
		return err
	}

	store, err := r.openStorage(ctx)
	if err != nil {
		return err
	}

	keys, err := store.List(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(keys, true)
	}

	if len(keys) == 0 {
		return r.writePlainln("%s", ui.Help("No exports found."))
	}
	for _, key := range keys {
		if err := r.writePlainln("%s", key); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) writeRecord(cmd *cli.Command, view *formatter.RecordView) error {
	if cmd.Bool("json") {
		return r.writeJSON(view, true)
	}
	return r.writePlain("%s", ui.RecordDetail(*view))
}
