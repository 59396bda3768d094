package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Database owns the ledger connection and its lifecycle.
//
// Usage:
//
//	d, err := OpenDatabase("runs.db")
//	if err != nil {
//	    return err
//	}
//	defer d.Close()
type Database struct {
	conn *sql.DB
	path string
	mu   sync.RWMutex
}

// OpenDatabase creates path and its parent directories if missing, brings
// the schema up to date and opens the connection used by the repository.
func OpenDatabase(path string) (*Database, error) {
	return OpenDatabaseWithConfig(DefaultConnectionConfig(path))
}

// OpenDatabaseWithConfig is OpenDatabase with a custom connection config.
func OpenDatabaseWithConfig(config ConnectionConfig) (*Database, error) {
	if config.Path == "" {
		return nil, fmt.Errorf("database path is required")
	}

	if dir := filepath.Dir(config.Path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
		}
	}

	// golang-migrate closes the connection it is handed, so migrations run on
	// their own connection before the long-lived one is opened.
	if err := MigrateUpFromPath(config.Path); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	conn, err := NewSQLiteConnection(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection: %w", err)
	}

	return &Database{conn: conn, path: config.Path}, nil
}

// Path returns the database file path.
func (d *Database) Path() string {
	return d.path
}

// Close closes the connection. Close on a closed Database is a no-op.
func (d *Database) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.conn == nil {
		return nil
	}
	if err := d.conn.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	d.conn = nil
	return nil
}

// Ping verifies the connection is alive.
func (d *Database) Ping(ctx context.Context) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.conn == nil {
		return errClosed
	}
	return d.conn.PingContext(ctx)
}

// ExecContext executes a statement without returning rows.
func (d *Database) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.conn == nil {
		return nil, errClosed
	}
	return d.conn.ExecContext(ctx, query, args...)
}

// QueryContext executes a query that returns rows.
func (d *Database) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.conn == nil {
		return nil, errClosed
	}
	return d.conn.QueryContext(ctx, query, args...)
}

// QueryRowContext executes a query that returns at most one row. The error,
// if any, surfaces from Scan.
func (d *Database) QueryRowContext(ctx context.Context, query string, args ...interface{}) (*sql.Row, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.conn == nil {
		return nil, errClosed
	}
	return d.conn.QueryRowContext(ctx, query, args...), nil
}

// BeginTx starts a transaction.
func (d *Database) BeginTx(ctx context.Context) (*sql.Tx, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.conn == nil {
		return nil, errClosed
	}
	return d.conn.BeginTx(ctx, nil)
}

var errClosed = errors.New("database connection is closed")
