package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestOpenFileStore_FileNotExist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	fs, err := OpenFileStore(path, nil)
	if err != nil {
		t.Fatalf("OpenFileStore failed: %v", err)
	}
	if _, ok, _ := fs.Get(KeyAuthToken); ok {
		t.Errorf("expected empty store")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("opening must not create the file, stat err = %v", err)
	}
}

func TestOpenFileStore_FileExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	buf, _ := json.Marshal(map[string]string{KeyAuthToken: "tok", KeyCurrentUsername: "alice"})
	if err := os.WriteFile(path, buf, 0o600); err != nil {
		t.Fatal(err)
	}

	fs, err := OpenFileStore(path, nil)
	if err != nil {
		t.Fatalf("OpenFileStore failed: %v", err)
	}
	if v, ok, _ := fs.Get(KeyCurrentUsername); !ok || v != "alice" {
		t.Errorf("Get(%q) = %q, %v; want alice, true", KeyCurrentUsername, v, ok)
	}
}

func TestOpenFileStore_Corrupt(t *testing.T) {
	for name, content := range map[string]string{
		"truncated":  `{"authToken":"to`,
		"garbage":    "not-json",
		"wrong type": `["authToken"]`,
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "session.json")
			if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
				t.Fatal(err)
			}
			core, logs := observer.New(zapcore.WarnLevel)

			s, closeFn, err := Open(DriverFile, path, zap.New(core))
			if err != nil {
				t.Fatalf("Open on damaged file failed: %v", err)
			}
			defer closeFn()

			if _, ok, _ := s.Get(KeyAuthToken); ok {
				t.Errorf("damaged file must load as an empty store")
			}
			if logs.FilterMessage("session store is unreadable, starting empty").Len() != 1 {
				t.Errorf("expected a warning, got %v", logs.All())
			}

			// the next write replaces the damaged file
			if err := s.Set(KeyCurrentUsername, "alice"); err != nil {
				t.Fatalf("Set failed: %v", err)
			}
			reopened, err := OpenFileStore(path, nil)
			if err != nil {
				t.Fatal(err)
			}
			if v, _, _ := reopened.Get(KeyCurrentUsername); v != "alice" {
				t.Errorf("username = %q; want alice", v)
			}
		})
	}
}

func TestFileStore_SaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.json")

	fs, err := OpenFileStore(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range []string{"a", "b", "c"} {
		if err := fs.Set(KeyAuthToken, v); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "session.json" {
		t.Errorf("directory holds %v; want only session.json", entries)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("mode = %o; want 600", perm)
	}
}

func TestFileStore_SetRemovePersist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	fs, err := OpenFileStore(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := fs.Set(KeyAuthToken, "tok"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := fs.Set(KeyCurrentUsername, "bob"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	// a second handle sees what the first wrote
	reopened, err := OpenFileStore(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if v, ok, _ := reopened.Get(KeyAuthToken); !ok || v != "tok" {
		t.Errorf("reopened Get = %q, %v", v, ok)
	}

	if err := fs.Remove(KeyAuthToken); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if err := fs.Remove("never-set"); err != nil {
		t.Fatalf("Remove of missing key failed: %v", err)
	}

	reopened, err = OpenFileStore(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := reopened.Get(KeyAuthToken); ok {
		t.Errorf("token must be gone after Remove")
	}
	if v, _, _ := reopened.Get(KeyCurrentUsername); v != "bob" {
		t.Errorf("username = %q; want bob", v)
	}
}

func TestOpen_Drivers(t *testing.T) {
	dir := t.TempDir()

	s, closeFn, err := Open(DriverFile, filepath.Join(dir, "s.json"), nil)
	if err != nil {
		t.Fatalf("file driver: %v", err)
	}
	if _, ok := s.(*FileStore); !ok {
		t.Errorf("file driver returned %T", s)
	}
	_ = closeFn()

	s, closeFn, err = Open(DriverSQLite, filepath.Join(dir, "s.db"), nil)
	if err != nil {
		t.Fatalf("sqlite driver: %v", err)
	}
	defer closeFn()
	if err := s.Set(KeyAuthToken, "tok"); err != nil {
		t.Fatalf("sqlite Set: %v", err)
	}
	if err := s.Set(KeyAuthToken, "tok2"); err != nil {
		t.Fatalf("sqlite upsert: %v", err)
	}
	if v, ok, err := s.Get(KeyAuthToken); err != nil || !ok || v != "tok2" {
		t.Errorf("sqlite Get = %q, %v, %v", v, ok, err)
	}

	if _, _, err := Open("redis", "x", nil); err == nil {
		t.Error("expected unknown driver error")
	}
}
