package handler

import (
	"log/slog"
	"net/http"

	"github.com/TyReed12/ResTracker/internal/storage"
	"github.com/TyReed12/ResTracker/internal/syncer"
)

type SnapshotHandler struct {
	syncer    *syncer.Syncer
	snapshots *storage.SnapshotService
}

func NewSnapshotHandler(s *syncer.Syncer, snapshots *storage.SnapshotService) *SnapshotHandler {
	return &SnapshotHandler{syncer: s, snapshots: snapshots}
}

// Create uploads a snapshot of the current goal collection.
func (h *SnapshotHandler) Create(w http.ResponseWriter, r *http.Request) {
	key, err := h.snapshots.Snapshot(r.Context(), h.syncer.Goals())
	if err != nil {
		slog.Error("snapshot failed", "error", err)
		writeError(w, http.StatusBadGateway, "snapshot upload failed")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"key": key})
}
