package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQLStore keeps entries in the kv table of a SQL database. See db.InitSQLite
// for the schema.
type SQLStore struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewSQLStore creates a SQLStore over an initialized database.
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{DB: db}
}

// Get reads key from the kv table.
func (s *SQLStore) Get(key string) (string, bool, error) {
	var value string
	err := s.DB.QueryRowContext(context.Background(),
		`SELECT value FROM kv WHERE key = ?`, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

// Set upserts key.
func (s *SQLStore) Set(key, value string) error {
	_, err := s.DB.ExecContext(context.Background(), `
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Remove deletes key.
func (s *SQLStore) Remove(key string) error {
	if _, err := s.DB.ExecContext(context.Background(), `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}
