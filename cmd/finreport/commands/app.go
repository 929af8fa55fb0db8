// ABOUTME: Shared bootstrap for commands: config, schema, model client, storage and service
// ABOUTME: Commands that only read the ledger open storage without touching a model provider
package commands

import (
	"fmt"

	"github.com/harper/finreport/internal/config"
	"github.com/harper/finreport/internal/core"
	"github.com/harper/finreport/internal/llm"
	"github.com/harper/finreport/internal/models"
	"github.com/harper/finreport/internal/report"
	"github.com/harper/finreport/internal/storage"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// newModelClient builds the model client; tests replace it with a fake
var newModelClient = func(cfg *config.Config) (llm.Client, error) {
	return llm.New(cfg)
}

// overrides are per-command flag values layered over the environment
type overrides struct {
	mode   string
	layout string
}

type app struct {
	cfg    *config.Config
	schema models.Schema
	store  *storage.Storage
	svc    *report.Service
}

// loadConfig reads .env and the environment, then applies global and command flags
func loadConfig(o overrides) (*config.Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if schemaPath != "" {
		cfg.SchemaPath = schemaPath
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if o.mode != "" {
		cfg.Mode = o.mode
	}
	if o.layout != "" {
		cfg.Layout = o.layout
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// openStore opens storage alone, for commands that never call a model
func openStore() (*storage.Storage, *config.Config, error) {
	cfg, err := loadConfig(overrides{})
	if err != nil {
		return nil, nil, err
	}
	store, err := storage.NewStorage(cfg.DataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	return store, cfg, nil
}

// newApp wires the full pipeline. withStore false skips storage for dry runs.
func newApp(o overrides, withStore bool) (*app, error) {
	cfg, err := loadConfig(o)
	if err != nil {
		return nil, err
	}

	schema, err := config.LoadSchema(cfg.SchemaPath)
	if err != nil {
		return nil, err
	}

	client, err := newModelClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s client: %w", cfg.Provider, err)
	}

	pipeline, err := core.NewPipeline(cfg.Pipeline(), schema, client, client, client)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, schema: schema}
	if withStore {
		a.store, err = storage.NewStorage(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
	}

	a.svc, err = report.NewService(pipeline, a.store, report.OptionsFromConfig(cfg, schema))
	if err != nil {
		a.close()
		return nil, err
	}

	log.Debug().
		Str("provider", cfg.Provider).
		Str("mode", cfg.Mode).
		Str("layout", cfg.Layout).
		Int("fields", len(schema.Fields)).
		Str("data_dir", cfg.DataDir).
		Msg("pipeline ready")
	return a, nil
}

func (a *app) close() {
	if a.store == nil {
		return
	}
	if err := a.store.Close(); err != nil {
		log.Warn().Err(err).Msg("error closing storage")
	}
}
