package db_test

import (
	"path/filepath"
	"testing"

	"github.com/atinyakov/postboard/internal/db"
)

func TestInitSQLite_CreatesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")

	conn, err := db.InitSQLite(path)
	if err != nil {
		t.Fatalf("InitSQLite(%q) returned error: %v", path, err)
	}
	defer conn.Close()

	if _, err := conn.Exec(`INSERT INTO kv (key, value) VALUES ('k', 'v')`); err != nil {
		t.Fatalf("insert into kv: %v", err)
	}
	var v string
	if err := conn.QueryRow(`SELECT value FROM kv WHERE key = 'k'`).Scan(&v); err != nil {
		t.Fatalf("select from kv: %v", err)
	}
	if v != "v" {
		t.Errorf("value = %q; want %q", v, "v")
	}

	// second init over the same file must be a no-op for the schema
	again, err := db.InitSQLite(path)
	if err != nil {
		t.Fatalf("re-init: %v", err)
	}
	again.Close()
}

func TestInitSQLite_ErrorPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "dir", "session.db")
	if _, err := db.InitSQLite(path); err == nil {
		t.Fatalf("InitSQLite(%q) did not return error", path)
	}
}
