package cache

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/TyReed12/ResTracker/internal/model"
	"github.com/TyReed12/ResTracker/internal/repository"
)

// Response is a captured upstream response.
type Response struct {
	Status  int
	Headers map[string]string
	Body    []byte
}

// OK reports whether the response has a 2xx status.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Fetcher fetches a URL from the upstream origin.
type Fetcher interface {
	Fetch(ctx context.Context, method, url string) (*Response, error)
}

// Manager owns the two named cache generations: a static one seeded once
// from the fixed asset manifest and a dynamic one populated lazily from
// fetched responses. Generation names carry the deploy version, so a new
// version supersedes both wholesale.
type Manager struct {
	repo        repository.CacheRepository
	staticName  string
	dynamicName string
}

func NewManager(repo repository.CacheRepository, staticName, dynamicName string) *Manager {
	return &Manager{
		repo:        repo,
		staticName:  staticName,
		dynamicName: dynamicName,
	}
}

// Seed populates the static generation from the asset manifest. Seeding
// is all-or-nothing: every asset is fetched before anything is stored,
// and any fetch failure aborts the whole initialization.
func (m *Manager) Seed(ctx context.Context, fetcher Fetcher, manifest []string) error {
	fetched := make([]*Response, 0, len(manifest))
	for _, url := range manifest {
		resp, err := fetcher.Fetch(ctx, "GET", url)
		if err != nil {
			return fmt.Errorf("seed static cache %s: %w", url, err)
		}
		if !resp.OK() {
			return fmt.Errorf("seed static cache %s: status %d", url, resp.Status)
		}
		fetched = append(fetched, resp)
	}

	for i, url := range manifest {
		err := m.put(m.staticName, url, fetched[i])
		if err != nil {
			return fmt.Errorf("seed static cache %s: %w", url, err)
		}
	}

	slog.Info("static cache seeded", "generation", m.staticName, "assets", len(manifest))
	return nil
}

// Activate purges every cache generation whose name is not the current
// static or dynamic generation. Superseded generations are removed
// entirely, never partially.
func (m *Manager) Activate() error {
	generations, err := m.repo.Generations()
	if err != nil {
		return err
	}

	for _, generation := range generations {
		if generation == m.staticName || generation == m.dynamicName {
			continue
		}
		err = m.repo.DropGeneration(generation)
		if err != nil {
			return fmt.Errorf("drop cache generation %s: %w", generation, err)
		}
		slog.Info("purged stale cache generation", "generation", generation)
	}

	return nil
}

// Match looks a GET request up in the static generation first, then the
// dynamic one.
func (m *Manager) Match(url string) (*model.CacheEntry, bool) {
	entry, err := m.repo.Get(m.staticName, url, "GET")
	if err == nil {
		return entry, true
	}
	entry, err = m.repo.Get(m.dynamicName, url, "GET")
	if err == nil {
		return entry, true
	}
	return nil, false
}

// PutDynamic stores a response copy in the dynamic generation. Growth is
// bounded only by what the routing layer chooses to write.
func (m *Manager) PutDynamic(url string, resp *Response) {
	err := m.put(m.dynamicName, url, resp)
	if err != nil {
		slog.Error("failed to store dynamic cache entry", "error", err, "url", url)
	}
}

func (m *Manager) put(generation, url string, resp *Response) error {
	return m.repo.Put(&model.CacheEntry{
		Generation: generation,
		URL:        url,
		Method:     "GET",
		Status:     resp.Status,
		Headers:    resp.Headers,
		Body:       resp.Body,
	})
}
