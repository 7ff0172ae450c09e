package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/TyReed12/ResTracker/internal/model"
	"github.com/TyReed12/ResTracker/internal/syncer"
)

type GoalHandler struct {
	syncer *syncer.Syncer
}

func NewGoalHandler(s *syncer.Syncer) *GoalHandler {
	return &GoalHandler{syncer: s}
}

type goalListResponse struct {
	Goals   []*model.Goal    `json:"goals"`
	Status  model.SyncStatus `json:"status"`
	Pending int              `json:"pending"`
}

func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, goalListResponse{
		Goals:   h.syncer.Goals(),
		Status:  h.syncer.Status(),
		Pending: h.syncer.QueueLen(),
	})
}

type createGoalRequest struct {
	Title     string  `json:"title"`
	Category  string  `json:"category"`
	Target    float64 `json:"target"`
	Unit      string  `json:"unit"`
	Frequency string  `json:"frequency"`
}

func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createGoalRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	goal, err := h.syncer.Create(r.Context(), &model.Goal{
		Title:     req.Title,
		Category:  req.Category,
		Target:    req.Target,
		Unit:      req.Unit,
		Frequency: req.Frequency,
	})
	if err != nil {
		slog.Error("failed to create goal", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create goal")
		return
	}

	writeJSON(w, http.StatusCreated, goal)
}

type checkInRequest struct {
	Delta float64 `json:"delta"`
}

func (h *GoalHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	goalID := r.PathValue("id")

	req := checkInRequest{Delta: 1}
	if r.Body != nil && r.ContentLength != 0 {
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	goal, err := h.syncer.CheckIn(r.Context(), goalID, req.Delta)
	if errors.Is(err, syncer.ErrGoalNotFound) {
		writeError(w, http.StatusNotFound, "goal not found")
		return
	}
	if err != nil {
		slog.Error("failed to check in", "error", err, "goal_id", goalID)
		writeError(w, http.StatusInternalServerError, "failed to check in")
		return
	}

	writeJSON(w, http.StatusOK, goal)
}

func (h *GoalHandler) Archive(w http.ResponseWriter, r *http.Request) {
	goalID := r.PathValue("id")

	err := h.syncer.Archive(r.Context(), goalID)
	if errors.Is(err, syncer.ErrGoalNotFound) {
		writeError(w, http.StatusNotFound, "goal not found")
		return
	}
	if err != nil {
		slog.Error("failed to archive goal", "error", err, "goal_id", goalID)
		writeError(w, http.StatusInternalServerError, "failed to archive goal")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
