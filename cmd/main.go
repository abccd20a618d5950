package main

import (
	"context"
	"errors"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/discos/internal/shared"
	"github.com/desertthunder/discos/internal/ui"
)

func main() {
	logger := shared.NewLogger(nil)

	runner := NewRunner(RunnerOpts{
		ConfigPath: "config.toml",
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "discos",
		Usage:    "Catalog records and their tracks",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		var catalogErr *shared.CatalogError
		if errors.As(err, &catalogErr) {
			os.Stderr.WriteString(ui.Failure("✗ "+catalogErr.Message) + "\n")
			os.Exit(1)
		}
		logger.Fatalf("application error: %v", err)
	}
}
