package cmd

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ziadkadry99/slidesync/internal/config"
	"github.com/ziadkadry99/slidesync/internal/db"
	"github.com/ziadkadry99/slidesync/internal/logging"
	"github.com/ziadkadry99/slidesync/internal/persist"
	"github.com/ziadkadry99/slidesync/internal/slides"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `slidesync init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// newLogger builds the process logger from config. --verbose forces debug.
func newLogger(cfg *config.Config) (*zap.Logger, func(), error) {
	level := string(cfg.Log.Level)
	if verbose {
		level = string(config.LogDebug)
	}
	logger, closeFn, err := logging.New(logging.Options{Level: level, File: cfg.Log.File})
	if err != nil {
		return nil, nil, fmt.Errorf("creating logger: %w", err)
	}
	return logger, closeFn, nil
}

// deck is the persisted slide collection opened for one command.
type deck struct {
	db      *db.DB
	adapter *persist.Adapter
	slides  []slides.Slide
}

// openDeck opens the database and loads the stored collection, falling back
// to the default deck when nothing usable is stored.
func openDeck(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*deck, error) {
	database, err := db.Open(cfg.DBPath())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	adapter := persist.NewAdapter(database, cfg.StorageKey, logger.Named("persist"))
	loaded, err := adapter.Load(ctx)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("loading slides: %w", err)
	}
	return &deck{db: database, adapter: adapter, slides: loaded}, nil
}

func (d *deck) Close() error {
	return d.db.Close()
}
