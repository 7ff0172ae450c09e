package model

import (
	"time"
)

// CacheEntry is a captured HTTP response tagged with the cache generation
// it belongs to. Keyed by (generation, url, method); method is always GET
// in practice since non-GET requests are never cached.
type CacheEntry struct {
	Generation string            `db:"generation"`
	URL        string            `db:"url"`
	Method     string            `db:"method"`
	Status     int               `db:"status"`
	Headers    map[string]string `db:"-"`
	Body       []byte            `db:"body"`
	StoredAt   time.Time         `db:"stored_at"`
}
