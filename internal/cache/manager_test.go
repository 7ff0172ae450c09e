package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/TyReed12/ResTracker/internal/model"
	"github.com/TyReed12/ResTracker/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	responses map[string]*Response
	errs      map[string]error
	calls     []string
}

func (f *fakeFetcher) Fetch(ctx context.Context, method, url string) (*Response, error) {
	f.calls = append(f.calls, url)
	if err := f.errs[url]; err != nil {
		return nil, err
	}
	if resp, ok := f.responses[url]; ok {
		return resp, nil
	}
	return &Response{Status: 404, Body: []byte("not found")}, nil
}

func okResponse(body string) *Response {
	return &Response{
		Status:  200,
		Headers: map[string]string{"Content-Type": "text/plain"},
		Body:    []byte(body),
	}
}

func TestSeedStoresEveryManifestEntry(t *testing.T) {
	repo := repository.NewMemoryCacheRepository()
	m := NewManager(repo, "static-v2", "dynamic-v2")
	fetcher := &fakeFetcher{responses: map[string]*Response{
		"/":              okResponse("index"),
		"/assets/app.js": okResponse("js"),
	}}

	require.NoError(t, m.Seed(context.Background(), fetcher, []string{"/", "/assets/app.js"}))

	entry, ok := m.Match("/assets/app.js")
	require.True(t, ok)
	assert.Equal(t, "static-v2", entry.Generation)
	assert.Equal(t, []byte("js"), entry.Body)
}

func TestSeedIsAllOrNothing(t *testing.T) {
	repo := repository.NewMemoryCacheRepository()
	m := NewManager(repo, "static-v2", "dynamic-v2")
	fetcher := &fakeFetcher{
		responses: map[string]*Response{"/": okResponse("index")},
		errs:      map[string]error{"/assets/app.js": errors.New("connection refused")},
	}

	err := m.Seed(context.Background(), fetcher, []string{"/", "/assets/app.js"})
	require.Error(t, err)

	_, ok := m.Match("/")
	assert.False(t, ok, "a failed seed must store nothing at all")
}

func TestSeedRejectsNonSuccessStatus(t *testing.T) {
	repo := repository.NewMemoryCacheRepository()
	m := NewManager(repo, "static-v2", "dynamic-v2")
	fetcher := &fakeFetcher{responses: map[string]*Response{
		"/":       okResponse("index"),
		"/broken": {Status: 500, Body: []byte("boom")},
	}}

	err := m.Seed(context.Background(), fetcher, []string{"/", "/broken"})
	require.Error(t, err)

	_, ok := m.Match("/")
	assert.False(t, ok)
}

func TestActivatePurgesSupersededGenerations(t *testing.T) {
	repo := repository.NewMemoryCacheRepository()
	for _, generation := range []string{"static-v1", "dynamic-v1", "static-v2", "dynamic-v2"} {
		require.NoError(t, repo.Put(&model.CacheEntry{
			Generation: generation,
			URL:        "/",
			Method:     "GET",
			Status:     200,
			Body:       []byte(generation),
		}))
	}

	m := NewManager(repo, "static-v2", "dynamic-v2")
	require.NoError(t, m.Activate())

	generations, err := repo.Generations()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"static-v2", "dynamic-v2"}, generations)
}

func TestMatchPrefersStaticGeneration(t *testing.T) {
	repo := repository.NewMemoryCacheRepository()
	m := NewManager(repo, "static-v2", "dynamic-v2")

	m.PutDynamic("/page", okResponse("dynamic copy"))
	require.NoError(t, repo.Put(&model.CacheEntry{
		Generation: "static-v2",
		URL:        "/page",
		Method:     "GET",
		Status:     200,
		Body:       []byte("static copy"),
	}))

	entry, ok := m.Match("/page")
	require.True(t, ok)
	assert.Equal(t, "static-v2", entry.Generation)

	entry, ok = m.Match("/only-dynamic")
	assert.False(t, ok)
	assert.Nil(t, entry)
}
