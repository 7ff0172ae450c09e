package handler

import (
	"encoding/json"
	"net/http"

	"github.com/TyReed12/ResTracker/internal/model"
	"github.com/TyReed12/ResTracker/internal/netwatch"
	"github.com/TyReed12/ResTracker/internal/syncer"
)

// ReplayTag is the single background-sync tag the replay trigger is
// registered under. The platform may fire it multiple times; draining an
// empty queue is a no-op.
const ReplayTag = "sync-pending-updates"

type SyncHandler struct {
	syncer  *syncer.Syncer
	watcher *netwatch.Watcher
}

func NewSyncHandler(s *syncer.Syncer, watcher *netwatch.Watcher) *SyncHandler {
	return &SyncHandler{syncer: s, watcher: watcher}
}

type syncStatusResponse struct {
	Status  model.SyncStatus `json:"status"`
	Online  bool             `json:"online"`
	Pending int              `json:"pending"`
	Tag     string           `json:"tag"`
}

func (h *SyncHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, syncStatusResponse{
		Status:  h.syncer.Status(),
		Online:  h.watcher.Online(),
		Pending: h.syncer.QueueLen(),
		Tag:     ReplayTag,
	})
}

// Refresh re-runs the startup reconciliation on demand.
func (h *SyncHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	h.syncer.Load(r.Context())
	h.Status(w, r)
}

type replayRequest struct {
	Tag string `json:"tag"`
}

// Replay is the background-sync trigger: it drains the pending-update
// queue. Idempotent by design.
func (h *SyncHandler) Replay(w http.ResponseWriter, r *http.Request) {
	var req replayRequest
	if r.Body != nil && r.ContentLength != 0 {
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Tag != "" && req.Tag != ReplayTag {
			writeError(w, http.StatusBadRequest, "unknown sync tag")
			return
		}
	}

	h.syncer.Drain(r.Context())
	h.Status(w, r)
}

type connectivityRequest struct {
	Online *bool `json:"online"`
}

// Connectivity overrides the probed connectivity flag; a null value hands
// control back to the probe loop.
func (h *SyncHandler) Connectivity(w http.ResponseWriter, r *http.Request) {
	var req connectivityRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Online == nil {
		h.watcher.Unforce()
	} else {
		h.watcher.Force(*req.Online)
	}

	h.Status(w, r)
}
