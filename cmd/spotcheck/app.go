package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/spotcheck/internal/config"
	"github.com/aretw0/spotcheck/internal/logging"
	"github.com/aretw0/spotcheck/pkg/adapters/file"
	"github.com/aretw0/spotcheck/pkg/adapters/memory"
	"github.com/aretw0/spotcheck/pkg/adapters/redis"
	"github.com/aretw0/spotcheck/pkg/adapters/sqlite"
	"github.com/aretw0/spotcheck/pkg/ports"
)

// app holds the adapters selected by the configuration.
type app struct {
	cfg    config.Config
	logger *slog.Logger

	db      *sqlite.DB
	catalog ports.Catalog
	store   ports.StateStore
	locker  ports.DistributedLocker
	redis   *redis.Store
}

func newLogger(cfg config.Config) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return logging.New(level, cfg.LogFormat), nil
}

// openApp opens the result database and the configured catalog.
// The session store is only opened when withStore is set.
func openApp(ctx context.Context, cfg config.Config, withStore bool) (*app, error) {
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sqlite.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: logger, db: db}

	switch cfg.Catalog {
	case "yaml":
		a.catalog = file.NewCatalog(cfg.StepsFile)
	default:
		a.catalog = db
	}

	if withStore {
		if err := a.openStore(ctx); err != nil {
			_ = a.Close()
			return nil, err
		}
	}
	return a, nil
}

func (a *app) openStore(ctx context.Context) error {
	switch a.cfg.Store {
	case "file":
		a.store = file.New(a.cfg.SessionsDir)
	case "redis":
		rc := a.cfg.Redis
		a.redis = redis.New(rc.Addr, rc.Password, rc.DB,
			redis.WithPrefix(rc.Prefix),
			redis.WithTTL(a.cfg.SessionTTL),
		)
		if err := a.redis.Ping(ctx); err != nil {
			return fmt.Errorf("failed to reach redis at %s: %w", rc.Addr, err)
		}
		a.store = a.redis
		a.locker = redis.NewLocker(a.redis.Client(), a.redis.Prefix())
	default:
		a.store = memory.NewStore()
	}
	a.logger.Debug("session store ready", "store", a.cfg.Store)
	return nil
}

// admin returns the catalog as CatalogAdmin, or an error for read-only catalogs.
func (a *app) admin() (ports.CatalogAdmin, error) {
	admin, ok := a.catalog.(ports.CatalogAdmin)
	if !ok {
		return nil, fmt.Errorf("the %s catalog is read-only; edit %s instead", a.cfg.Catalog, a.cfg.StepsFile)
	}
	return admin, nil
}

// Health checks every remote dependency.
func (a *app) Health(ctx context.Context) error {
	if err := a.db.Ping(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if a.redis != nil {
		if err := a.redis.Ping(ctx); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	return nil
}

func (a *app) Close() error {
	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	errs = append(errs, a.db.Close())
	return errors.Join(errs...)
}
