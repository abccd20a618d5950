package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/discos/internal/shared"
	"github.com/desertthunder/discos/internal/ui"
)

// Setup creates the configuration file when missing, then opens the database so its schema is created.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); err != nil {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		r.logger.Info("config file created", "path", configPath)
	}

	if err := r.loadConfig(cmd); err != nil {
		return err
	}

	db := r.config.Database
	r.logger.Info("initializing database", "driver", db.Driver, "path", db.Path)

	_, closeFn, err := r.openService()
	if err != nil {
		return err
	}
	defer closeFn()

	r.logger.Info("setup complete", "driver", db.Driver)
	r.writePlainln("%s", ui.Success("✓ Catalog ready"))
	r.writePlainln("Config: %s", configPath)
	if db.Driver == shared.DriverMySQL {
		r.writePlainln("Database: mysql")
	} else {
		r.writePlainln("Database: %s", db.Path)
	}
	return nil
}
