package database

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/solarpvlab/irradiance/pkg/config"
)

// OpenStores opens every storage backend named in the config. An empty
// storage section yields an empty slice, which callers treat as
// "summarize but don't persist".
func OpenStores(cfg config.Storage, logger *zap.SugaredLogger) ([]Store, error) {
	var stores []Store
	if cfg.SQLite != nil && cfg.SQLite.Path != "" {
		s, err := NewSQLiteStore(cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		stores = append(stores, s)
	}
	if cfg.TimescaleDB != nil && cfg.TimescaleDB.ConnectionString != "" {
		c := NewClient(cfg.TimescaleDB.ConnectionString, logger)
		if err := c.Connect(); err != nil {
			return nil, fmt.Errorf("connecting to TimescaleDB: %w", err)
		}
		stores = append(stores, c)
	}
	return stores, nil
}
