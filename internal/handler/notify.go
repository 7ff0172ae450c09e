package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	standardwebhooks "github.com/standard-webhooks/standard-webhooks/libraries/go"
)

// NotifyHandler accepts inbound push-notification payloads (fired by
// external automation) and turns them into notification descriptors with
// the two fixed actions: "check in" deep-links into the app with a
// check-in intent, "dismiss" is a pure no-op.
type NotifyHandler struct {
	secret string
}

func NewNotifyHandler(secret string) *NotifyHandler {
	return &NotifyHandler{secret: secret}
}

type notifyPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url"`
}

type notificationAction struct {
	Action string `json:"action"`
	Title  string `json:"title"`
	URL    string `json:"url,omitempty"`
}

type notificationResponse struct {
	Title   string               `json:"title"`
	Body    string               `json:"body"`
	Actions []notificationAction `json:"actions"`
}

func (h *NotifyHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read payload")
		return
	}

	if h.secret == "" {
		slog.Warn("no webhook secret configured, skipping signature verification")
	} else {
		wh, err := standardwebhooks.NewWebhookRaw([]byte(h.secret))
		if err != nil {
			slog.Error("failed to create webhook verifier", "error", err)
			writeError(w, http.StatusInternalServerError, "verifier unavailable")
			return
		}
		err = wh.Verify(payload, r.Header)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid webhook signature")
			return
		}
	}

	var note notifyPayload
	err = json.Unmarshal(payload, &note)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if note.Title == "" {
		note.Title = "ResTracker"
	}
	if note.URL == "" {
		note.URL = "/"
	}

	slog.Info("notification received", "title", note.Title)

	writeJSON(w, http.StatusOK, notificationResponse{
		Title: note.Title,
		Body:  note.Body,
		Actions: []notificationAction{
			{Action: "checkin", Title: "Check in", URL: checkInLink(note.URL)},
			{Action: "dismiss", Title: "Dismiss"},
		},
	})
}

// checkInLink appends the check-in intent to the notification's deep link.
func checkInLink(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "/?intent=checkin"
	}
	q := u.Query()
	q.Set("intent", "checkin")
	u.RawQuery = q.Encode()
	return u.String()
}
