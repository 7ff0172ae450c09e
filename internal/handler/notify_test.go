package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	standardwebhooks "github.com/standard-webhooks/standard-webhooks/libraries/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postNotify(h *NotifyHandler, body string, headers http.Header) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, "/api/notify", strings.NewReader(body))
	for name, values := range headers {
		for _, value := range values {
			r.Header.Add(name, value)
		}
	}
	w := httptest.NewRecorder()
	h.Webhook(w, r)
	return w
}

func TestNotifyBuildsActions(t *testing.T) {
	h := NewNotifyHandler("")

	w := postNotify(h, `{"title":"Time to check in","body":"Run 500 km is waiting","url":"/goals/abc"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp notificationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Time to check in", resp.Title)
	assert.Equal(t, "Run 500 km is waiting", resp.Body)

	require.Len(t, resp.Actions, 2)
	assert.Equal(t, "checkin", resp.Actions[0].Action)
	assert.Equal(t, "/goals/abc?intent=checkin", resp.Actions[0].URL)
	assert.Equal(t, "dismiss", resp.Actions[1].Action)
	assert.Empty(t, resp.Actions[1].URL, "dismiss is a pure no-op")
}

func TestNotifyDefaults(t *testing.T) {
	h := NewNotifyHandler("")

	w := postNotify(h, `{}`, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp notificationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ResTracker", resp.Title)
	assert.Equal(t, "/?intent=checkin", resp.Actions[0].URL)
}

func TestNotifyRejectsInvalidPayload(t *testing.T) {
	h := NewNotifyHandler("")
	w := postNotify(h, `not json`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNotifyVerifiesSignature(t *testing.T) {
	secret := "whsec_testsecrettestsecret"
	h := NewNotifyHandler(secret)
	payload := `{"title":"Reminder"}`

	// Unsigned requests are rejected
	w := postNotify(h, payload, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// A properly signed request passes
	wh, err := standardwebhooks.NewWebhookRaw([]byte(secret))
	require.NoError(t, err)

	now := time.Now()
	signature, err := wh.Sign("msg-1", now, []byte(payload))
	require.NoError(t, err)

	headers := http.Header{}
	headers.Set("webhook-id", "msg-1")
	headers.Set("webhook-timestamp", timestamp(now))
	headers.Set("webhook-signature", signature)

	w = postNotify(h, payload, headers)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCheckInLink(t *testing.T) {
	assert.Equal(t, "/?intent=checkin", checkInLink("/"))
	assert.Equal(t, "/goals/abc?intent=checkin", checkInLink("/goals/abc"))
	assert.Equal(t, "/goals?intent=checkin&tab=all", checkInLink("/goals?tab=all"))
	assert.Equal(t, "/?intent=checkin", checkInLink("://bad url"))
}

func timestamp(t time.Time) string {
	return strconv.FormatInt(t.Unix(), 10)
}
