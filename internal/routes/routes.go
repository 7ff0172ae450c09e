package routes

import (
	"net/http"

	"github.com/TyReed12/ResTracker/internal/app"
	"github.com/TyReed12/ResTracker/internal/handler"
	"github.com/TyReed12/ResTracker/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	goal := handler.NewGoalHandler(app.Syncer)
	sync := handler.NewSyncHandler(app.Syncer, app.Watcher)
	notify := handler.NewNotifyHandler(app.Cfg.NotifyWebhookSecret)

	mux := http.NewServeMux()

	// Health
	mux.HandleFunc("GET /api/health", handler.Health)

	// Goals
	mux.HandleFunc("GET /api/goals", goal.List)
	mux.HandleFunc("POST /api/goals", goal.Create)
	mux.HandleFunc("POST /api/goals/{id}/checkin", goal.CheckIn)
	mux.HandleFunc("DELETE /api/goals/{id}", goal.Archive)

	// Sync
	mux.HandleFunc("GET /api/sync/status", sync.Status)
	mux.HandleFunc("POST /api/sync/refresh", sync.Refresh)
	mux.HandleFunc("POST /api/sync/replay", sync.Replay)
	mux.HandleFunc("PUT /api/sync/connectivity", sync.Connectivity)

	// Inbound notification webhook
	mux.HandleFunc("POST /api/notify", notify.Webhook)

	// Snapshot backup (only wired when S3 is configured)
	if app.Snapshots != nil {
		snapshot := handler.NewSnapshotHandler(app.Syncer, app.Snapshots)
		mux.HandleFunc("POST /api/snapshot", snapshot.Create)
	}

	// Everything else goes through the caching layer in front of the
	// upstream origin
	mux.Handle("/", app.Interceptor)

	// Global middleware - executed in order (top to bottom)
	h := middleware.Chain(
		mux,
		middleware.RequestLogging,
	)

	return h
}
