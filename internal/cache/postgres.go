package cache

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/rotisserie/eris"
)

// PostgresStore backs the scrape cache with a shared Postgres database,
// useful when several machines run the tool against the same cache.
type PostgresStore struct {
	db *sql.DB
}

// OpenPostgres connects to databaseURL and migrates the cache schema.
func OpenPostgres(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, eris.Wrap(err, "cache: open postgres")
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "cache: ping postgres")
	}
	s := &PostgresStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) Close() error { return s.db.Close() }

func (s *PostgresStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS scrape_cache (
			source TEXT NOT NULL,
			key TEXT NOT NULL,
			payload BYTEA NOT NULL,
			fetched_at TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (source, key)
		);`,
		`CREATE TABLE IF NOT EXISTS fetch_log (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			key TEXT NOT NULL,
			bytes BIGINT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return eris.Wrap(err, "cache: migrate")
		}
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, source, key string, maxAge time.Duration) (Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT payload, fetched_at FROM scrape_cache WHERE source = $1 AND key = $2`, source, key)
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

func (s *PostgresStore) Put(ctx context.Context, source, key string, payload []byte) error {
	now := time.Now().UTC().Truncate(time.Second)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scrape_cache(source, key, payload, fetched_at) VALUES($1, $2, $3, $4)
		 ON CONFLICT (source, key) DO UPDATE SET payload = EXCLUDED.payload, fetched_at = EXCLUDED.fetched_at`,
		source, key, payload, now)
	if err != nil {
		return eris.Wrap(err, "cache: put")
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO fetch_log(id, source, key, bytes, created_at) VALUES($1, $2, $3, $4, $5)`,
		uuid.NewString(), source, key, len(payload), now)
	if err != nil {
		return eris.Wrap(err, "cache: fetch log")
	}
	return nil
}
