package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/verdora-group/footprint-cli/internal/engine"
	"github.com/verdora-group/footprint-cli/internal/store"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		path := cfg.Store.Path
		if path == "" {
			path = "footprint.db"
		}
		return store.NewSQLite(path)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, cfg.Store.Pool)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// initEngine builds the aggregation engine, overlaying the factor tables
// from the configured YAML file when one is set.
func initEngine() (*engine.Engine, error) {
	if cfg.Engine.TablesPath == "" {
		return engine.New(engine.DefaultTables()), nil
	}
	tables, err := engine.LoadTables(cfg.Engine.TablesPath)
	if err != nil {
		return nil, eris.Wrapf(err, "load factor tables %s", cfg.Engine.TablesPath)
	}
	return engine.New(tables), nil
}
