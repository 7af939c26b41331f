package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

const savesSchema = `
CREATE TABLE IF NOT EXISTS saves (
	slot       TEXT PRIMARY KEY,
	payload    TEXT NOT NULL,
	updated_at BIGINT NOT NULL
)`

// SQLBackend stores blobs in a saves table. The same queries serve SQLite and Postgres;
// sqlx rebinds placeholders for the driver.
type SQLBackend struct {
	db     *sqlx.DB
	driver Driver
}

// OpenSQLite opens (or creates) a SQLite database file
func OpenSQLite(ctx context.Context, path string) (*SQLBackend, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sqlx.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	return newSQLBackend(ctx, db, DriverSQLite)
}

// OpenPostgres connects to Postgres through pgx
func OpenPostgres(ctx context.Context, dsn string) (*SQLBackend, error) {
	if dsn == "" {
		return nil, errors.New("postgres DSN required")
	}
	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return newSQLBackend(ctx, db, DriverPostgres)
}

func newSQLBackend(ctx context.Context, db *sqlx.DB, driver Driver) (*SQLBackend, error) {
	if _, err := db.ExecContext(ctx, savesSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLBackend{db: db, driver: driver}, nil
}

func (b *SQLBackend) Driver() Driver { return b.driver }

func (b *SQLBackend) Get(ctx context.Context, key string) ([]byte, error) {
	var payload string
	err := b.db.GetContext(ctx, &payload, b.db.Rebind(`SELECT payload FROM saves WHERE slot = ?`), key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get save %s: %w", key, err)
	}
	return []byte(payload), nil
}

func (b *SQLBackend) Put(ctx context.Context, key string, data []byte) error {
	_, err := b.db.ExecContext(ctx, b.db.Rebind(`
		INSERT INTO saves (slot, payload, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (slot) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`),
		key, string(data), time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("put save %s: %w", key, err)
	}
	return nil
}

func (b *SQLBackend) Delete(ctx context.Context, key string) error {
	if _, err := b.db.ExecContext(ctx, b.db.Rebind(`DELETE FROM saves WHERE slot = ?`), key); err != nil {
		return fmt.Errorf("delete save %s: %w", key, err)
	}
	return nil
}

func (b *SQLBackend) Close() error {
	return b.db.Close()
}
