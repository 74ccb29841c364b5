package kv

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

// SQLStore is the sqlx-backed Store over the kv_entries table.
type SQLStore struct {
	db *sqlx.DB
}

// NewSQLStore creates a SQLStore. The kv_entries migration must already have run.
func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

// q rebinds ? placeholders to the driver's native format.
func (s *SQLStore) q(query string) string { return s.db.Rebind(query) }

func (s *SQLStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.GetContext(ctx, &value, s.q(`SELECT kv_value FROM kv_entries WHERE kv_key = ?`), key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// Set upserts key. MySQL has no ON CONFLICT clause, so it gets its own statement.
func (s *SQLStore) Set(ctx context.Context, key, value string) error {
	now := time.Now().UTC()
	query := `
		INSERT INTO kv_entries (kv_key, kv_value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (kv_key) DO UPDATE SET
			kv_value = excluded.kv_value,
			updated_at = excluded.updated_at
	`
	if s.db.DriverName() == "mysql" {
		query = `
		INSERT INTO kv_entries (kv_key, kv_value, updated_at)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE
			kv_value = VALUES(kv_value),
			updated_at = VALUES(updated_at)
	`
	}
	_, err := s.db.ExecContext(ctx, s.q(query), key, value, now)
	return err
}

func (s *SQLStore) Remove(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, s.q(`DELETE FROM kv_entries WHERE kv_key = ?`), key)
	return err
}

// Close closes the underlying database handle.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
