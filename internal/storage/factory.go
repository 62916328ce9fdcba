// internal/storage/factory.go
package storage

import (
	"fmt"

	"github.com/gridline/racesim/internal/config"
	"github.com/gridline/racesim/internal/storage/memory"
	sqlitestorage "github.com/gridline/racesim/internal/storage/sqlite"
)

// NewBackend creates a results store based on configuration
func NewBackend(cfg config.StorageConfig) (Backend, error) {
	switch cfg.Type {
	case "", "memory":
		return memory.New(), nil
	case "sqlite":
		return sqlitestorage.New(sqlitestorage.Config{Name: cfg.SQLite.Name}), nil
	case "postgres":
		return nil, fmt.Errorf("postgres backend not supported: results are kept in process memory")
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
