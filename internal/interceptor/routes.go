package interceptor

import (
	"net/http"
	"path"
	"strings"
)

// Strategy is a caching strategy applied to an intercepted request.
type Strategy int

const (
	// PassThrough forwards the request untouched, never caching.
	PassThrough Strategy = iota
	// CacheFirst serves the cached entry when present, fetching and
	// storing a copy otherwise.
	CacheFirst
	// NetworkFirst prefers a fresh fetch and falls back to cache.
	NetworkFirst
	// StaleWhileRevalidate serves the cached entry immediately while a
	// background fetch refreshes it for next time.
	StaleWhileRevalidate
)

func (s Strategy) String() string {
	switch s {
	case CacheFirst:
		return "cache-first"
	case NetworkFirst:
		return "network-first"
	case StaleWhileRevalidate:
		return "stale-while-revalidate"
	default:
		return "pass-through"
	}
}

// Route pairs a predicate with a strategy. The routing table is an
// explicit ordered list; the first matching route wins.
type Route struct {
	Name     string
	Match    func(r *http.Request) bool
	Strategy Strategy
}

// DefaultManifest is the fixed manifest of core application assets seeded
// into the static cache generation.
var DefaultManifest = []string{
	"/",
	"/index.html",
	"/assets/app.js",
	"/assets/app.css",
	"/manifest.webmanifest",
	"/icons/icon-192.png",
	"/icons/icon-512.png",
}

// staticExtensions are file extensions recognized as static assets.
var staticExtensions = map[string]bool{
	".js":          true,
	".css":         true,
	".png":         true,
	".jpg":         true,
	".jpeg":        true,
	".gif":         true,
	".svg":         true,
	".ico":         true,
	".woff":        true,
	".woff2":       true,
	".webmanifest": true,
}

// DefaultRoutes builds the routing policy, evaluated in order:
//  1. API endpoints are always network-first, regardless of extension.
//  2. Manifest entries and static-asset extensions are cache-first.
//  3. HTML documents are network-first: freshness over speed.
//  4. Everything else is stale-while-revalidate.
func DefaultRoutes(apiPrefix string, manifest []string) []Route {
	inManifest := make(map[string]bool, len(manifest))
	for _, url := range manifest {
		inManifest[url] = true
	}

	return []Route{
		{
			Name: "api",
			Match: func(r *http.Request) bool {
				return strings.HasPrefix(r.URL.Path, apiPrefix)
			},
			Strategy: NetworkFirst,
		},
		{
			Name: "static",
			Match: func(r *http.Request) bool {
				if inManifest[r.URL.Path] {
					return true
				}
				return staticExtensions[path.Ext(r.URL.Path)]
			},
			Strategy: CacheFirst,
		},
		{
			Name: "document",
			Match: func(r *http.Request) bool {
				return wantsHTML(r)
			},
			Strategy: NetworkFirst,
		},
		{
			Name:     "default",
			Match:    func(r *http.Request) bool { return true },
			Strategy: StaleWhileRevalidate,
		},
	}
}

// Resolve picks exactly one strategy for a request. Non-GET requests are
// never intercepted.
func Resolve(routes []Route, r *http.Request) Strategy {
	if r.Method != http.MethodGet {
		return PassThrough
	}
	for _, route := range routes {
		if route.Match(r) {
			return route.Strategy
		}
	}
	return StaleWhileRevalidate
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
