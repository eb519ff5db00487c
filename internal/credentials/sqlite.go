package credentials

import (
	"database/sql"
	"fmt"
)

// SQLiteStore implements [KeyValueStore] over the kv table created by the
// shared migrations. It also satisfies the provider package's session
// storage interface, so one handle serves both concerns.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a store over the given database connection.
// A nil connection yields an unavailable store rather than an error.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Available() bool {
	return s.db != nil
}

func (s *SQLiteStore) Get(key string) (string, bool, error) {
	if s.db == nil {
		return "", false, nil
	}

	var value string
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read key %s: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLiteStore) Set(key, value string) error {
	if s.db == nil {
		return nil
	}

	query := `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`
	if _, err := s.db.Exec(query, key, value); err != nil {
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	return nil
}

// SetMany writes all pairs in a single transaction so a partial remember-me
// record can never be observed.
func (s *SQLiteStore) SetMany(pairs map[string]string) error {
	if s.db == nil {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`
	for key, value := range pairs {
		if _, err := tx.Exec(query, key, value); err != nil {
			return fmt.Errorf("failed to write key %s: %w", key, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) Delete(keys ...string) error {
	if s.db == nil || len(keys) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, key := range keys {
		if _, err := tx.Exec("DELETE FROM kv WHERE key = ?", key); err != nil {
			return fmt.Errorf("failed to delete key %s: %w", key, err)
		}
	}

	return tx.Commit()
}
