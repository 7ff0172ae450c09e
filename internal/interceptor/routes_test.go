package interceptor

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func get(path string, headers ...string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, path, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		r.Header.Set(headers[i], headers[i+1])
	}
	return r
}

func TestResolve(t *testing.T) {
	routes := DefaultRoutes("/api/", DefaultManifest)

	tests := []struct {
		name string
		req  *http.Request
		want Strategy
	}{
		{"api endpoint", get("/api/goals"), NetworkFirst},
		{"api path with asset extension stays network-first", get("/api/export.js"), NetworkFirst},
		{"manifest entry", get("/index.html"), CacheFirst},
		{"root document in manifest", get("/"), CacheFirst},
		{"asset by extension outside manifest", get("/assets/vendor.css"), CacheFirst},
		{"icon", get("/icons/icon-192.png"), CacheFirst},
		{"html navigation", get("/about", "Accept", "text/html,application/xhtml+xml"), NetworkFirst},
		{"unclassified get", get("/data/export.json"), StaleWhileRevalidate},
		{"post is never intercepted", httptest.NewRequest(http.MethodPost, "/api/goals", nil), PassThrough},
		{"put is never intercepted", httptest.NewRequest(http.MethodPut, "/index.html", nil), PassThrough},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(routes, tt.req))
		})
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	routes := DefaultRoutes("/api/", DefaultManifest)
	req := get("/assets/app.js", "Accept", "text/html")

	// Matches both the static route and the document route; the first
	// match in table order must win every time.
	for range 10 {
		assert.Equal(t, CacheFirst, Resolve(routes, req))
	}
}
