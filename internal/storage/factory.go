package storage

import (
	"fmt"

	"calmd/internal/providers"
	"calmd/internal/structures"
)

func NewStore(conf *structures.Config, logger providers.Logger) (Store, error) {
	switch conf.Storage.Driver {
	case "", "file":
		logger.Infof(providers.TypeApp, "Using in-memory store with snapshots at %s", conf.Persistence.FilePath)
		return NewMemoryStore(), nil
	case "sqlite":
		logger.Infof(providers.TypeApp, "Using sqlite store at %s", conf.Storage.DSN)
		store, err := NewSQLiteStore(conf.Storage.DSN)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", conf.Storage.Driver)
	}
}
