package database

import (
	"fmt"
	"os"
	"path/filepath"

	"screenkeep/internal/catalog"
	"screenkeep/internal/config"
)

// NewStoreFromConfig creates a Store implementation based on the database config type.
func NewStoreFromConfig(cfg config.DatabaseConfig) (catalog.Store, error) {
	switch cfg.Type {
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite database")
		}
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		store, err := NewSQLiteStore(filepath.Join(cfg.DataDir, "catalog.db"))
		if err != nil {
			return nil, err
		}
		// The store is turnkey: the schema is brought up to date on open
		// rather than through a user-facing migration step.
		if err := store.MigrateUp(); err != nil {
			store.Close()
			return nil, fmt.Errorf("migrating database: %w", err)
		}
		return store, nil
	case "memory":
		store, err := NewSQLiteStore(":memory:")
		if err != nil {
			return nil, err
		}
		// In-memory stores are throwaway: apply the schema directly instead
		// of running the migration chain.
		if _, err := store.db.Exec(Schema); err != nil {
			store.Close()
			return nil, fmt.Errorf("applying schema: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown database type: %s", cfg.Type)
	}
}
