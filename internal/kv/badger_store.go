package kv

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"
)

// BadgerConfig configures a BadgerStore.
type BadgerConfig struct {
	Path   string // directory; created if missing
	Logger *logrus.Logger
	// InMemory keeps everything in RAM. Path is ignored. Used by tests.
	InMemory bool
}

// BadgerStore is an embedded Store backed by badger.
type BadgerStore struct {
	db  *badger.DB
	log *logrus.Logger
}

func NewBadgerStore(cfg BadgerConfig) (*BadgerStore, error) {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Path == "" {
			return nil, errors.New("badger store: no path provided in configuration")
		}
		if err := os.MkdirAll(cfg.Path, 0o700); err != nil {
			return nil, fmt.Errorf("badger store: mkdir %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path).WithSyncWrites(true)
	}
	opts.Logger = nil
	// Values are small JSON documents; keep the value log modest.
	opts.ValueLogFileSize = 1024 * 1024 * 16

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger store: open: %w", err)
	}

	cfg.Logger.WithField("path", cfg.Path).Debug("badger store opened")
	return &BadgerStore{db: db, log: cfg.Logger}, nil
}

func (b *BadgerStore) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var value []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("error reading key %s: %w", key, err)
	}
	return string(value), nil
}

func (b *BadgerStore) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(value))
	})
}

func (b *BadgerStore) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// Close syncs and closes the database, running a value log GC pass first.
func (b *BadgerStore) Close() error {
	if err := b.db.RunValueLogGC(0.5); err != nil && !errors.Is(err, badger.ErrNoRewrite) && !errors.Is(err, badger.ErrGCInMemoryMode) {
		b.log.WithError(err).Warn("badger value log gc failed")
	}
	return b.db.Close()
}
