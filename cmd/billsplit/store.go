package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmynk/billsplit/internal/config"
	"github.com/mmynk/billsplit/internal/storage"
	"github.com/mmynk/billsplit/internal/storage/badger"
	"github.com/mmynk/billsplit/internal/storage/postgres"
	"github.com/mmynk/billsplit/internal/storage/sqlite"
)

// openStore opens the session store selected by cfg.Driver.
func openStore(ctx context.Context, cfg config.StorageConfig) (storage.Store, error) {
	switch cfg.Driver {
	case "sqlite":
		store, err := sqlite.New(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		slog.Info("Storage initialized", "driver", cfg.Driver, "database", cfg.SQLitePath)
		return store, nil
	case "postgres":
		store, err := postgres.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		slog.Info("Storage initialized", "driver", cfg.Driver)
		return store, nil
	case "badger":
		store, err := badger.New(badger.Config{
			Path:   cfg.BadgerPath,
			Logger: slog.Default().With("component", "badger"),
		})
		if err != nil {
			return nil, err
		}
		slog.Info("Storage initialized", "driver", cfg.Driver, "path", cfg.BadgerPath)
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
