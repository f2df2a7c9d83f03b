package cache

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteStore is the default single-file cache backend.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and migrates) the cache database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "cache: open sqlite")
	}
	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS scrape_cache (
			source TEXT NOT NULL,
			key TEXT NOT NULL,
			payload BLOB NOT NULL,
			fetched_at TIMESTAMP NOT NULL,
			PRIMARY KEY (source, key)
		);`,
		`CREATE TABLE IF NOT EXISTS fetch_log (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			key TEXT NOT NULL,
			bytes INTEGER NOT NULL,
			created_at TIMESTAMP NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return eris.Wrap(err, "cache: migrate")
		}
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, source, key string, maxAge time.Duration) (Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT payload, fetched_at FROM scrape_cache WHERE source = ? AND key = ?`, source, key)
	e := Entry{Source: source, Key: key}
	if err := row.Scan(&e.Payload, &e.FetchedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, ErrMiss
		}
		return Entry{}, eris.Wrap(err, "cache: get")
	}
	if maxAge > 0 && time.Since(e.FetchedAt) > maxAge {
		return Entry{}, ErrMiss
	}
	return e, nil
}

func (s *SQLiteStore) Put(ctx context.Context, source, key string, payload []byte) error {
	now := time.Now().UTC().Truncate(time.Second)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scrape_cache(source, key, payload, fetched_at) VALUES(?, ?, ?, ?)
		 ON CONFLICT(source, key) DO UPDATE SET payload = excluded.payload, fetched_at = excluded.fetched_at`,
		source, key, payload, now)
	if err != nil {
		return eris.Wrap(err, "cache: put")
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO fetch_log(id, source, key, bytes, created_at) VALUES(?, ?, ?, ?, ?)`,
		uuid.NewString(), source, key, len(payload), now)
	if err != nil {
		return eris.Wrap(err, "cache: fetch log")
	}
	return nil
}
