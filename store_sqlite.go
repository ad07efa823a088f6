package psyche

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/zoobzio/capitan"
)

const kvSchema = `
CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// SQLStore is an embedded SQLite-backed Store. Writes are whole-value
// replace operations, matching the adapter contract: every Save carries a
// complete, internally consistent snapshot.
type SQLStore struct {
	db *sqlx.DB
}

// NewSQLStore opens (or creates) a SQLite database at path and prepares
// the key/value table. Use ":memory:" for an ephemeral store.
func NewSQLStore(path string) (*SQLStore, error) {
	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store pragma: %w", err)
	}
	if _, err := db.Exec(kvSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store schema: %w", err)
	}
	return &SQLStore{db: db}, nil
}

// Set upserts one key. Failures are absorbed per the Store contract and
// surfaced only as a StoreSaveFailed signal.
func (s *SQLStore) Set(key, value string) {
	_, err := s.db.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		capitan.Error(context.Background(), StoreSaveFailed,
			FieldStoreKey.Field(key),
			FieldError.Field(err),
		)
	}
}

// Get reads one key; any error behaves as a miss.
func (s *SQLStore) Get(key string) (string, bool) {
	var value string
	if err := s.db.Get(&value, `SELECT value FROM kv WHERE key = ?`, key); err != nil {
		return "", false
	}
	return value, true
}

// Delete removes one key. Absent keys and errors are both silent.
func (s *SQLStore) Delete(key string) {
	_, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key)
	if err != nil {
		capitan.Error(context.Background(), StoreSaveFailed,
			FieldStoreKey.Field(key),
			FieldError.Field(err),
		)
	}
}

// Close releases the underlying database handle.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
