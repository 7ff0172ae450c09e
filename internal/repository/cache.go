package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/TyReed12/ResTracker/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrCacheMiss = errors.New("cache entry not found")
)

// CacheRepository persists captured HTTP responses, tagged with the cache
// generation they belong to. Superseded generations are dropped wholesale,
// never entry by entry.
type CacheRepository interface {
	Get(generation, url, method string) (*model.CacheEntry, error)
	Put(entry *model.CacheEntry) error
	Generations() ([]string, error)
	DropGeneration(generation string) error
}

type cacheEntryRow struct {
	Generation string    `db:"generation"`
	URL        string    `db:"url"`
	Method     string    `db:"method"`
	Status     int       `db:"status"`
	Headers    string    `db:"headers"`
	Body       []byte    `db:"body"`
	StoredAt   time.Time `db:"stored_at"`
}

type cacheRepository struct {
	db *sqlx.DB
}

func NewCacheRepository(db *sqlx.DB) CacheRepository {
	return &cacheRepository{db: db}
}

func (r *cacheRepository) Get(generation, url, method string) (*model.CacheEntry, error) {
	row := &cacheEntryRow{}
	query := `SELECT * FROM cache_entries WHERE generation = $1 AND url = $2 AND method = $3`

	err := r.db.Get(row, query, generation, url, method)
	if err == sql.ErrNoRows {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}

	entry := &model.CacheEntry{
		Generation: row.Generation,
		URL:        row.URL,
		Method:     row.Method,
		Status:     row.Status,
		Body:       row.Body,
		StoredAt:   row.StoredAt,
	}
	err = json.Unmarshal([]byte(row.Headers), &entry.Headers)
	if err != nil {
		entry.Headers = map[string]string{}
	}

	return entry, nil
}

func (r *cacheRepository) Put(entry *model.CacheEntry) error {
	headers, err := json.Marshal(entry.Headers)
	if err != nil {
		return err
	}

	if entry.StoredAt.IsZero() {
		entry.StoredAt = time.Now()
	}

	// Upsert: a refreshed response replaces the previous capture
	query := `INSERT INTO cache_entries (generation, url, method, status, headers, body, stored_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          ON CONFLICT (generation, url, method) DO UPDATE
	          SET status = excluded.status, headers = excluded.headers, body = excluded.body, stored_at = excluded.stored_at`

	_, err = r.db.Exec(query,
		entry.Generation,
		entry.URL,
		entry.Method,
		entry.Status,
		string(headers),
		entry.Body,
		entry.StoredAt,
	)

	return err
}

func (r *cacheRepository) Generations() ([]string, error) {
	var generations []string
	err := r.db.Select(&generations, `SELECT DISTINCT generation FROM cache_entries ORDER BY generation`)
	return generations, err
}

func (r *cacheRepository) DropGeneration(generation string) error {
	_, err := r.db.Exec(`DELETE FROM cache_entries WHERE generation = $1`, generation)
	return err
}
