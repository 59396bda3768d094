package db

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConnectionConfig(t *testing.T) {
	config := DefaultConnectionConfig("/test/path.db")

	if config.Path != "/test/path.db" {
		t.Errorf("Path = %q, want /test/path.db", config.Path)
	}
	if config.BusyTimeout != 5000 {
		t.Errorf("BusyTimeout = %d, want 5000", config.BusyTimeout)
	}
	if config.MaxOpenConns != 1 || config.MaxIdleConns != 1 {
		t.Errorf("pool = %d/%d, want 1/1", config.MaxOpenConns, config.MaxIdleConns)
	}
}

func TestConnectionConfig_DSN(t *testing.T) {
	dsn := DefaultConnectionConfig("runs.db").DSN()

	if !strings.HasPrefix(dsn, "file:runs.db?") {
		t.Errorf("DSN = %q, want file:runs.db? prefix", dsn)
	}
	if strings.Count(dsn, "_pragma=") != 3 {
		t.Errorf("DSN = %q, want three pragmas", dsn)
	}
}

func TestNewSQLiteConnection_EmptyPath(t *testing.T) {
	conn, err := NewSQLiteConnection(ConnectionConfig{})
	if err == nil {
		conn.Close()
		t.Fatal("expected error for empty path, got nil")
	}
}

func TestNewSQLiteConnection_Pragmas(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	conn, err := NewSQLiteConnectionWithDefaults(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteConnection() error = %v", err)
	}
	defer conn.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file was not created")
	}

	var journalMode string
	if err := conn.QueryRow("PRAGMA journal_mode").Scan(&journalMode); err != nil {
		t.Fatal(err)
	}
	if journalMode != "wal" {
		t.Errorf("journal_mode = %q, want wal", journalMode)
	}

	var foreignKeys int
	if err := conn.QueryRow("PRAGMA foreign_keys").Scan(&foreignKeys); err != nil {
		t.Fatal(err)
	}
	if foreignKeys != 1 {
		t.Errorf("foreign_keys = %d, want 1", foreignKeys)
	}
}
