package repositories

import (
	"fmt"

	"github.com/charmbracelet/log"
	"gorm.io/driver/mysql"

	"github.com/desertthunder/discos/internal/models"
	"github.com/desertthunder/discos/internal/shared"
)

// Open connects to the configured database, brings the schema up to date and returns
// the matching [models.Store] together with a func releasing the connection pool.
func Open(cfg shared.DatabaseConfig, logger *log.Logger) (models.Store, func() error, error) {
	switch cfg.Driver {
	case shared.DriverSQLite, "":
		db, err := shared.NewDatabase(cfg.Path)
		if err != nil {
			return nil, nil, err
		}

		if cfg.Path != shared.MemoryDatabase {
			shared.ConfigureDatabase(db, cfg.MaxOpenConns, cfg.MaxIdleConns)
		}

		if err := shared.RunMigrations(db); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}

		return NewSQLStore(db), db.Close, nil
	case shared.DriverMySQL:
		gdb, err := OpenGorm(mysql.Open(cfg.DSN), logger)
		if err != nil {
			return nil, nil, err
		}

		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get connection pool: %w", err)
		}
		shared.ConfigureDatabase(sqlDB, cfg.MaxOpenConns, cfg.MaxIdleConns)

		return NewGormStore(gdb), sqlDB.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w: unsupported database driver %q", shared.ErrInvalidConfig, cfg.Driver)
	}
}
