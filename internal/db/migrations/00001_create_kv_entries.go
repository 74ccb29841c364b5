package migrations

// The kv_entries column types differ by driver: MySQL cannot index an
// unbounded TEXT primary key and needs LONGTEXT for large favourite lists.

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateKVEntries, downCreateKVEntries)
}

func upCreateKVEntries(ctx context.Context, tx *sql.Tx) error {
	var ddl string
	switch dialect {
	case "postgres":
		ddl = `CREATE TABLE IF NOT EXISTS kv_entries (
    kv_key     TEXT PRIMARY KEY,
    kv_value   TEXT NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
)`
	case "mysql":
		ddl = `CREATE TABLE IF NOT EXISTS kv_entries (
    kv_key     VARCHAR(191) PRIMARY KEY,
    kv_value   LONGTEXT NOT NULL,
    updated_at TIMESTAMP(6) NOT NULL
)`
	default: // sqlite3
		ddl = `CREATE TABLE IF NOT EXISTS kv_entries (
    kv_key     TEXT PRIMARY KEY,
    kv_value   TEXT NOT NULL,
    updated_at DATETIME NOT NULL
)`
	}
	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create kv_entries table: %w", err)
	}
	return nil
}

func downCreateKVEntries(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS kv_entries`)
	return err
}
