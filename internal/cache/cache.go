// Package cache persists scraped source tables between runs so repeated
// invocations do not hammer the ranking portals. The default backend is a
// local SQLite file; a shared Postgres database can be used instead by
// setting CACHE_DATABASE_URL.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned when no usable entry exists for a key.
var ErrMiss = errors.New("cache miss")

// Entry is one cached payload with its fetch metadata.
type Entry struct {
	Source    string
	Key       string
	Payload   []byte
	FetchedAt time.Time
}

// Store is the scrape-cache contract shared by the SQLite and Postgres
// backends. Get honours maxAge when it is positive; zero means entries
// never expire. Put also records the refresh in the fetch log.
type Store interface {
	Get(ctx context.Context, source, key string, maxAge time.Duration) (Entry, error)
	Put(ctx context.Context, source, key string, payload []byte) error
	Close() error
}
