package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/discos/internal/repositories"
	"github.com/desertthunder/discos/internal/services"
	"github.com/desertthunder/discos/internal/shared"
	"github.com/desertthunder/discos/internal/storage"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	catalog    Catalog
	storage    storage.Storage
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Catalog and Storage are opened from the configuration on demand when nil.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Catalog    Catalog
	Storage    storage.Storage
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		catalog:    opts.Catalog,
		storage:    opts.Storage,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){setupCommand, serveCommand, recordsCommand} {
		commands = append(commands, fn(r))
	}

	return commands
}

// loadConfig reads the file named by --config when it exists and applies the log level.
// A missing file keeps the current configuration.
func (r *Runner) loadConfig(cmd *cli.Command) error {
	path := cmd.String("config")
	if path == "" {
		path = r.configPath
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			config, err := shared.LoadConfig(path)
			if err != nil {
				return err
			}
			r.config = config
			r.configPath = path
		} else {
			r.logger.Debug("config file not found, using defaults", "path", path)
		}
	}

	shared.SetLogLevel(r.logger, r.config.Log.Level)
	return nil
}

// openCatalog returns the catalog to operate on: the injected one, a remote server when --server is set,
// or a local store opened from the configuration. The returned func releases what was opened.
func (r *Runner) openCatalog(cmd *cli.Command) (Catalog, func(), error) {
	if r.catalog != nil {
		return r.catalog, func() {}, nil
	}

	if err := r.loadConfig(cmd); err != nil {
		return nil, nil, err
	}

	if serverURL := cmd.String("server"); serverURL != "" {
		r.logger.Debug("using remote catalog", "url", serverURL)
		return services.NewClient(serverURL, r.httpClient), func() {}, nil
	}

	svc, closeFn, err := r.openService()
	if err != nil {
		return nil, nil, err
	}
	return NewLocalCatalog(svc), closeFn, nil
}

// openService opens the configured store and wraps it in a [services.CatalogService]
func (r *Runner) openService() (*services.CatalogService, func(), error) {
	store, closeDB, err := repositories.Open(r.config.Database, r.logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	closeFn := func() {
		if err := closeDB(); err != nil {
			r.logger.Warn("failed to close database", "error", err)
		}
	}

	return services.NewCatalogService(store, r.logger), closeFn, nil
}

// openStorage returns the injected export storage or opens the configured one
func (r *Runner) openStorage(ctx context.Context) (storage.Storage, error) {
	if r.storage != nil {
		return r.storage, nil
	}

	s, err := storage.New(ctx, r.config.Export)
	if err != nil {
		return nil, fmt.Errorf("failed to open export storage: %w", err)
	}
	return s, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
