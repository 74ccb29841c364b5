// Package app wires the data layer together. Each slice of state has exactly
// one owner, constructed once per process and shared by every surface (HTTP
// API, CLI commands).
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/joestump/animeshelf/internal/account"
	"github.com/joestump/animeshelf/internal/catalog"
	"github.com/joestump/animeshelf/internal/config"
	"github.com/joestump/animeshelf/internal/db"
	"github.com/joestump/animeshelf/internal/favourites"
	"github.com/joestump/animeshelf/internal/kv"
	"github.com/joestump/animeshelf/internal/metrics"
)

// App holds the state owners.
type App struct {
	Log        *logrus.Logger
	Store      kv.Store
	Writer     *kv.Writer
	Feed       *catalog.Feed
	Favourites *favourites.Store
	Accounts   *account.Store
}

// OpenStore opens the configured key-value backend. SQL backends are migrated
// before they are returned.
func OpenStore(cfg *config.Config, log *logrus.Logger) (kv.Store, error) {
	switch cfg.Store.Backend {
	case config.BackendSQLite, config.BackendMySQL, config.BackendPostgres:
		database, err := db.New(cfg.Store.Backend, cfg.Store.DSN)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(database, cfg.Store.Backend); err != nil {
			_ = database.Close()
			return nil, err
		}
		return kv.NewSQLStore(database), nil
	case config.BackendBadger:
		return kv.NewBadgerStore(kv.BadgerConfig{Path: cfg.Store.Path, Logger: log})
	case config.BackendMemory:
		return kv.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported store backend %q", cfg.Store.Backend)
	}
}

// New builds an App over an already opened store and loads the persisted
// favourites. fetcher may be nil, in which case the catalog HTTP client is
// built from cfg.
func New(ctx context.Context, cfg *config.Config, store kv.Store, fetcher catalog.Fetcher, log *logrus.Logger) *App {
	if fetcher == nil {
		fetcher = catalog.NewClient(cfg.Catalog.BaseURL, &http.Client{Timeout: cfg.Catalog.Timeout}, log)
	}

	var hasher account.Hasher = account.PlainHasher{}
	if cfg.Auth.HashPasswords {
		hasher = account.BcryptHasher{}
	}

	writer := kv.NewWriter(store, log, 0)
	feed := catalog.NewFeed(fetcher, log)
	feed.OnChange(func(s catalog.State) {
		metrics.CatalogItems.Set(float64(len(s.Items)))
	})

	favs := favourites.NewStore(store, writer, log)
	favs.Load(ctx)

	return &App{
		Log:        log,
		Store:      store,
		Writer:     writer,
		Feed:       feed,
		Favourites: favs,
		Accounts:   account.NewStore(store, hasher, log),
	}
}

// Open is OpenStore followed by New.
func Open(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*App, error) {
	store, err := OpenStore(cfg, log)
	if err != nil {
		return nil, err
	}
	return New(ctx, cfg, store, nil, log), nil
}

// Close lets queued favourites writes land, then closes the store.
func (a *App) Close() error {
	a.Writer.Close()
	return a.Store.Close()
}
