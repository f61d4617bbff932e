package storage

import (
	"context"
	"database/sql"
	"errors"

	_ "modernc.org/sqlite"
)

const kvTable = `
CREATE TABLE IF NOT EXISTS kv (
	k TEXT PRIMARY KEY,
	v BLOB NOT NULL
);`

// sqliteKey is the fixed row the record-set blob lives under.
const sqliteKey = "url_shortener_data"

// SQLite keeps the blob in a one-row kv table, for deployments that
// want durable local storage without running Redis.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the database at path and ensures the
// kv table exists.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(kvTable); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Load(ctx context.Context) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT v FROM kv WHERE k = ?`, sqliteKey).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *SQLite) Store(ctx context.Context, data []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (k, v) VALUES (?, ?) ON CONFLICT(k) DO UPDATE SET v = excluded.v`,
		sqliteKey, data)
	return err
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
