package interceptor

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/TyReed12/ResTracker/internal/cache"
	"github.com/TyReed12/ResTracker/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrigin struct {
	mu        sync.Mutex
	responses map[string]*cache.Response
	down      bool
	fetches   []string
	forwards  []string
}

func (f *fakeOrigin) Fetch(ctx context.Context, method, url string) (*cache.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches = append(f.fetches, url)
	if f.down {
		return nil, errors.New("connection refused")
	}
	if resp, ok := f.responses[url]; ok {
		copied := *resp
		return &copied, nil
	}
	return &cache.Response{Status: 404, Body: []byte("not found")}, nil
}

func (f *fakeOrigin) Forward(r *http.Request) (*cache.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forwards = append(f.forwards, r.URL.Path)
	if f.down {
		return nil, errors.New("connection refused")
	}
	return &cache.Response{Status: 200, Body: []byte("forwarded")}, nil
}

func (f *fakeOrigin) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.fetches)
}

func (f *fakeOrigin) setDown(down bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.down = down
}

func newTestInterceptor(origin *fakeOrigin) (*Interceptor, *cache.Manager) {
	manager := cache.NewManager(repository.NewMemoryCacheRepository(), "static-v1", "dynamic-v1")
	ic := New(DefaultRoutes("/api/", DefaultManifest), manager, origin, []byte("<html>offline</html>"))
	return ic, manager
}

func serve(ic *Interceptor, r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	ic.ServeHTTP(w, r)
	return w
}

func TestCacheFirstServesCachedWithoutNetwork(t *testing.T) {
	origin := &fakeOrigin{responses: map[string]*cache.Response{
		"/assets/app.js": {Status: 200, Body: []byte("v1")},
	}}
	ic, manager := newTestInterceptor(origin)

	require.NoError(t, manager.Seed(context.Background(), origin, []string{"/assets/app.js"}))
	seedFetches := origin.fetchCount()

	w := serve(ic, get("/assets/app.js"))

	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "v1", w.Body.String())
	assert.Equal(t, "static-v1", w.Header().Get("X-Cache"))
	assert.Equal(t, seedFetches, origin.fetchCount(), "a cache hit must not touch the network")
}

func TestCacheFirstFetchesAndStoresOnMiss(t *testing.T) {
	origin := &fakeOrigin{responses: map[string]*cache.Response{
		"/assets/vendor.css": {Status: 200, Body: []byte("css")},
	}}
	ic, manager := newTestInterceptor(origin)

	w := serve(ic, get("/assets/vendor.css"))
	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "css", w.Body.String())

	entry, ok := manager.Match("/assets/vendor.css")
	require.True(t, ok)
	assert.Equal(t, "dynamic-v1", entry.Generation)
}

func TestCacheFirstMissWithoutNetworkIs503(t *testing.T) {
	origin := &fakeOrigin{down: true}
	ic, _ := newTestInterceptor(origin)

	w := serve(ic, get("/assets/app.js"))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"error":"offline","message":"network unavailable and no cached copy"}`, w.Body.String())
}

func TestNetworkFirstStoresCopyAndFallsBack(t *testing.T) {
	origin := &fakeOrigin{responses: map[string]*cache.Response{
		"/api/goals": {Status: 200, Headers: map[string]string{"Content-Type": "application/json"}, Body: []byte(`[]`)},
	}}
	ic, _ := newTestInterceptor(origin)

	w := serve(ic, get("/api/goals"))
	assert.Equal(t, 200, w.Code)
	assert.Empty(t, w.Header().Get("X-Cache"))

	// Origin gone: the stored copy answers instead
	origin.setDown(true)
	w = serve(ic, get("/api/goals"))
	assert.Equal(t, 200, w.Code)
	assert.Equal(t, `[]`, w.Body.String())
	assert.Equal(t, "dynamic-v1", w.Header().Get("X-Cache"))
}

func TestNetworkFirstOfflineFallbacks(t *testing.T) {
	origin := &fakeOrigin{down: true}
	ic, _ := newTestInterceptor(origin)

	// HTML navigation gets the offline document
	w := serve(ic, get("/about", "Accept", "text/html"))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "offline")
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")

	// Everything else gets the synthetic JSON error
	w = serve(ic, get("/api/goals"))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
}

func TestNetworkFirstDoesNotCacheErrors(t *testing.T) {
	origin := &fakeOrigin{}
	ic, manager := newTestInterceptor(origin)

	w := serve(ic, get("/api/missing"))
	assert.Equal(t, 404, w.Code)

	_, ok := manager.Match("/api/missing")
	assert.False(t, ok, "non-success responses are never cached")
}

func TestStaleWhileRevalidateServesStaleThenRefreshes(t *testing.T) {
	origin := &fakeOrigin{responses: map[string]*cache.Response{
		"/data/export.json": {Status: 200, Body: []byte("old")},
	}}
	ic, manager := newTestInterceptor(origin)

	// First request has nothing cached: waits on the network
	w := serve(ic, get("/data/export.json"))
	assert.Equal(t, "old", w.Body.String())

	origin.mu.Lock()
	origin.responses["/data/export.json"] = &cache.Response{Status: 200, Body: []byte("new")}
	origin.mu.Unlock()

	// Second request serves the stale copy immediately
	w = serve(ic, get("/data/export.json"))
	assert.Equal(t, "old", w.Body.String())
	assert.Equal(t, "dynamic-v1", w.Header().Get("X-Cache"))

	// The background revalidation lands shortly after
	require.Eventually(t, func() bool {
		entry, ok := manager.Match("/data/export.json")
		return ok && string(entry.Body) == "new"
	}, time.Second, 5*time.Millisecond)
}

func TestNonGETForwardsUntouched(t *testing.T) {
	origin := &fakeOrigin{}
	ic, manager := newTestInterceptor(origin)

	w := serve(ic, httptest.NewRequest(http.MethodPost, "/submit", nil))

	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "forwarded", w.Body.String())
	assert.Equal(t, []string{"/submit"}, origin.forwards)

	_, ok := manager.Match("/submit")
	assert.False(t, ok, "non-GET responses are never cached")
}
