package interceptor

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/TyReed12/ResTracker/internal/cache"
	"github.com/TyReed12/ResTracker/internal/model"
)

// Forwarder extends cache.Fetcher with untouched pass-through for
// non-GET requests.
type Forwarder interface {
	cache.Fetcher
	Forward(r *http.Request) (*cache.Response, error)
}

// Interceptor fronts the upstream origin, applying exactly one caching
// strategy per request according to the ordered routing table. It is the
// fallback handler behind the local API routes.
type Interceptor struct {
	routes  []Route
	cache   *cache.Manager
	origin  Forwarder
	offline []byte
}

func New(routes []Route, manager *cache.Manager, origin Forwarder, offlineHTML []byte) *Interceptor {
	return &Interceptor{
		routes:  routes,
		cache:   manager,
		origin:  origin,
		offline: offlineHTML,
	}
}

func (ic *Interceptor) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch Resolve(ic.routes, r) {
	case PassThrough:
		ic.passThrough(w, r)
	case CacheFirst:
		ic.cacheFirst(w, r)
	case NetworkFirst:
		ic.networkFirst(w, r)
	default:
		ic.staleWhileRevalidate(w, r)
	}
}

func (ic *Interceptor) passThrough(w http.ResponseWriter, r *http.Request) {
	resp, err := ic.origin.Forward(r)
	if err != nil {
		slog.Warn("pass-through failed", "error", err, "method", r.Method, "path", r.URL.Path)
		writeUnavailable(w)
		return
	}
	writeResponse(w, resp)
}

// cacheFirst serves the cached entry when present. Otherwise it fetches,
// stores a copy of a successful response, and returns it; with no cache
// entry and no network it degrades to a synthetic 503.
func (ic *Interceptor) cacheFirst(w http.ResponseWriter, r *http.Request) {
	url := r.URL.RequestURI()

	if entry, ok := ic.cache.Match(url); ok {
		writeEntry(w, entry)
		return
	}

	resp, err := ic.origin.Fetch(r.Context(), "GET", url)
	if err != nil {
		writeUnavailable(w)
		return
	}
	if resp.OK() {
		ic.cache.PutDynamic(url, resp)
	}
	writeResponse(w, resp)
}

// networkFirst prefers a fresh fetch, storing a copy of a successful
// response. On network failure it falls back to any cached entry, then to
// the offline document for HTML requests, then to a synthetic 503.
func (ic *Interceptor) networkFirst(w http.ResponseWriter, r *http.Request) {
	url := r.URL.RequestURI()

	resp, err := ic.origin.Fetch(r.Context(), "GET", url)
	if err == nil {
		if resp.OK() {
			ic.cache.PutDynamic(url, resp)
		}
		writeResponse(w, resp)
		return
	}

	if entry, ok := ic.cache.Match(url); ok {
		writeEntry(w, entry)
		return
	}

	if wantsHTML(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write(ic.offline)
		return
	}

	writeUnavailable(w)
}

// staleWhileRevalidate returns the cached entry immediately while a
// background fetch refreshes the cache for next time. With no cached
// entry the caller waits on the network fetch instead.
func (ic *Interceptor) staleWhileRevalidate(w http.ResponseWriter, r *http.Request) {
	url := r.URL.RequestURI()

	if entry, ok := ic.cache.Match(url); ok {
		// Revalidation must not block the response
		go func() {
			resp, err := ic.origin.Fetch(context.Background(), "GET", url)
			if err == nil && resp.OK() {
				ic.cache.PutDynamic(url, resp)
			}
		}()
		writeEntry(w, entry)
		return
	}

	resp, err := ic.origin.Fetch(r.Context(), "GET", url)
	if err != nil {
		writeUnavailable(w)
		return
	}
	if resp.OK() {
		ic.cache.PutDynamic(url, resp)
	}
	writeResponse(w, resp)
}

func writeResponse(w http.ResponseWriter, resp *cache.Response) {
	for name, value := range resp.Headers {
		w.Header().Set(name, value)
	}
	w.WriteHeader(resp.Status)
	w.Write(resp.Body)
}

func writeEntry(w http.ResponseWriter, entry *model.CacheEntry) {
	for name, value := range entry.Headers {
		w.Header().Set(name, value)
	}
	w.Header().Set("X-Cache", entry.Generation)
	w.WriteHeader(entry.Status)
	w.Write(entry.Body)
}

func writeUnavailable(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusServiceUnavailable)
	w.Write([]byte(`{"error":"offline","message":"network unavailable and no cached copy"}`))
}
