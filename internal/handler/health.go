package handler

import "net/http"

// Health is the liveness endpoint. It reports nothing about sync state;
// use the sync status endpoint for that.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
