// Package storage provides the durable key-value store that keeps the
// client session across restarts.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// Keys under which the session is persisted.
const (
	KeyAuthToken       = "authToken"
	KeyCurrentUsername = "currentUsername"
)

// Store is a synchronous, durable string key-value store.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool, error)
	// Set stores value under key, replacing any previous value.
	Set(key, value string) error
	// Remove deletes key. Removing a missing key is not an error.
	Remove(key string) error
}

// FileStore keeps all entries in a single JSON object on disk. Every
// mutation rewrites the file before returning.
type FileStore struct {
	path    string
	log     *zap.Logger
	mu      sync.Mutex
	entries map[string]string
}

// OpenFileStore loads path into memory. A missing file yields an empty store,
// and so does a file that cannot be decoded: the damage is logged and the
// next mutation replaces it.
func OpenFileStore(path string, log *zap.Logger) (*FileStore, error) {
	if log == nil {
		log = zap.NewNop()
	}
	fs := &FileStore{path: path, log: log, entries: map[string]string{}}
	if err := fs.load(); err != nil {
		return nil, err
	}
	return fs, nil
}

func (fs *FileStore) load() error {
	f, err := os.Open(fs.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open store: %w", err)
	}
	defer f.Close()

	var entries map[string]string
	if err := json.NewDecoder(f).Decode(&entries); err != nil {
		fs.log.Warn("session store is unreadable, starting empty",
			zap.String("path", fs.path), zap.Error(err))
		return nil
	}
	if entries != nil {
		fs.entries = entries
	}
	return nil
}

// save writes the entries to a temporary file in the same directory and
// renames it over path, so readers see either the old or the new content.
// Must be called with mu held.
func (fs *FileStore) save() error {
	f, err := os.CreateTemp(filepath.Dir(fs.path), filepath.Base(fs.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create store: %w", err)
	}
	tmp := f.Name()

	if err := json.NewEncoder(f).Encode(fs.entries); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("encode store: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("sync store: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close store: %w", err)
	}
	if err := os.Rename(tmp, fs.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace store: %w", err)
	}
	return nil
}

func (fs *FileStore) Get(key string) (string, bool, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	v, ok := fs.entries[key]
	return v, ok, nil
}

func (fs *FileStore) Set(key, value string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.entries[key] = value
	return fs.save()
}

func (fs *FileStore) Remove(key string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if _, ok := fs.entries[key]; !ok {
		return nil
	}
	delete(fs.entries, key)
	return fs.save()
}
