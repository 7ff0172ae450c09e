package netwatch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

// Watcher is the server-side stand-in for the browser's online/offline
// events: it probes the remote base URL on an interval and notifies
// subscribers on every transition. Any HTTP response counts as reachable;
// only transport failures (including the bounded probe timeout) count as
// offline.
type Watcher struct {
	mu       sync.RWMutex
	online   bool
	forced   *bool // manual override, wins over probing
	subs     []chan bool
	http     *resty.Client
	probeURL string
	interval time.Duration
}

func New(probeURL string, interval, timeout time.Duration) *Watcher {
	return &Watcher{
		http:     resty.New().SetTimeout(timeout),
		probeURL: probeURL,
		interval: interval,
	}
}

// Start probes once immediately, then on the configured interval, until
// the context is canceled. It must run in its own goroutine.
func (w *Watcher) Start(ctx context.Context) {
	w.Probe(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Probe(ctx)
		}
	}
}

// Probe runs a single connectivity check synchronously. Startup calls it
// before the first load so the initial flag reflects reality instead of
// the zero value.
func (w *Watcher) Probe(ctx context.Context) {
	if w.probeURL == "" {
		return
	}

	w.mu.RLock()
	forced := w.forced
	w.mu.RUnlock()
	if forced != nil {
		return
	}

	_, err := w.http.R().SetContext(ctx).Head(w.probeURL)
	w.set(err == nil)
}

// Online reports the current connectivity flag.
func (w *Watcher) Online() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.forced != nil {
		return *w.forced
	}
	return w.online
}

// Force pins the connectivity flag, overriding the probe. Used by the
// manual override endpoint and by tests.
func (w *Watcher) Force(online bool) {
	w.mu.Lock()
	w.forced = &online
	w.mu.Unlock()
	w.set(online)
}

// Unforce returns control to the probe loop.
func (w *Watcher) Unforce() {
	w.mu.Lock()
	w.forced = nil
	w.mu.Unlock()
}

// Subscribe returns a channel receiving the new flag on every transition.
// Delivery is best-effort: a slow subscriber misses intermediate flips
// but always observes the latest state on its next receive.
func (w *Watcher) Subscribe() <-chan bool {
	ch := make(chan bool, 4)
	w.mu.Lock()
	w.subs = append(w.subs, ch)
	w.mu.Unlock()
	return ch
}

func (w *Watcher) set(online bool) {
	w.mu.Lock()
	if w.online == online {
		w.mu.Unlock()
		return
	}
	w.online = online
	subs := make([]chan bool, len(w.subs))
	copy(subs, w.subs)
	w.mu.Unlock()

	slog.Info("connectivity changed", "online", online)
	for _, ch := range subs {
		select {
		case ch <- online:
		default:
		}
	}
}
