// Package web holds the few assets the gateway serves itself rather than
// proxying from the origin.
package web

import (
	_ "embed"
)

// OfflineHTML is the dedicated offline document returned when an HTML
// request cannot be served from network or cache.
//
//go:embed offline.html
var OfflineHTML []byte
