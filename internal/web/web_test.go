package web

import (
	"encoding/json"
	"mime"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"huntersledger/internal/config"
	"huntersledger/internal/invite"
)

func newTestServer(cfg *config.Config) http.Handler {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return NewServer(cfg, invite.NewBuilder(invite.Options{})).Handler()
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(nil), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestCreateInvite(t *testing.T) {
	rec := do(t, newTestServer(nil), http.MethodPost, "/api/invites",
		`{"title":"Dark Souls","date":"17/09/2025","time":"5pm","timezone":"PST"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp inviteResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Dark_Souls_2025-09-17_1700_America-Los_Angeles.ics", resp.Filename)
	assert.Equal(t, "America/Los_Angeles", resp.Timezone)
	assert.Equal(t, "Wed 17 Sep 2025 • 17:00", resp.LocalStart)
	assert.Equal(t, 120, resp.DurationMinutes)
	assert.Equal(t, 15, resp.ReminderMinutes)
	assert.True(t, resp.StartUTC.Equal(time.Date(2025, time.September, 18, 0, 0, 0, 0, time.UTC)))
	assert.True(t, resp.EndUTC.Equal(time.Date(2025, time.September, 18, 2, 0, 0, 0, time.UTC)))
	assert.Contains(t, resp.ICS, "DTSTART:20250918T000000Z")
	assert.Contains(t, resp.Summary, "**Dark Souls**")
}

func TestCreateInvite_BadInput(t *testing.T) {
	h := newTestServer(nil)
	tests := []struct {
		name string
		body string
		hint string
	}{
		{"bad date", `{"title":"x","date":"31/09/2025","time":"5pm"}`, "Invalid date format"},
		{"bad time", `{"title":"x","date":"2025-09-17","time":"25:00"}`, "Invalid time format"},
		{"no title", `{"title":"  ","date":"2025-09-17","time":"5pm"}`, ""},
		{"bad json", `{"title":`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/invites", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var resp errorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.NotEmpty(t, resp.Error)
			if tt.hint != "" {
				assert.Contains(t, resp.Hint, tt.hint)
			}
		})
	}
}

func TestCreateInvite_MethodNotAllowed(t *testing.T) {
	rec := do(t, newTestServer(nil), http.MethodGet, "/api/invites", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"))

	rec = do(t, newTestServer(nil), http.MethodDelete, "/api/invites.ics", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestInviteFile(t *testing.T) {
	h := newTestServer(nil)

	q := url.Values{}
	q.Set("title", "Elden Ring: Nightreign!!")
	q.Set("date", "17 Sep 2025")
	q.Set("time", "17:00")
	q.Set("timezone", "BST")

	for _, rec := range []*httptest.ResponseRecorder{
		do(t, h, http.MethodGet, "/api/invites.ics?"+q.Encode(), ""),
		do(t, h, http.MethodPost, "/api/invites.ics", `{"title":"Elden Ring: Nightreign!!","date":"17 Sep 2025","time":"17:00","timezone":"BST"}`),
	} {
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		ct, _, err := mime.ParseMediaType(rec.Header().Get("Content-Type"))
		require.NoError(t, err)
		assert.Equal(t, "text/calendar", ct)

		disp, params, err := mime.ParseMediaType(rec.Header().Get("Content-Disposition"))
		require.NoError(t, err)
		assert.Equal(t, "attachment", disp)
		assert.Equal(t, "Elden_Ring_Nightreign_2025-09-17_1700_Europe-London.ics", params["filename"])

		body := rec.Body.String()
		assert.True(t, strings.HasPrefix(body, "BEGIN:VCALENDAR"))
		assert.Contains(t, body, "DTSTART:20250917T160000Z")
	}
}

func TestBasicAuth(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.BasicAuth = &config.BasicAuthConfig{Username: "hunter", Password: "secret"}
	h := newTestServer(cfg)

	rec := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	body := `{"title":"x","date":"2025-09-17","time":"5pm"}`
	rec = do(t, h, http.MethodPost, "/api/invites", body)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))

	req := httptest.NewRequest(http.MethodPost, "/api/invites", strings.NewReader(body))
	req.SetBasicAuth("hunter", "secret")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/invites", strings.NewReader(body))
	req.SetBasicAuth("hunter", "wrong")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBasicAuth_EmptyCredentialsDisabled(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.BasicAuth = &config.BasicAuthConfig{Username: "hunter"}
	rec := do(t, newTestServer(cfg), http.MethodPost, "/api/invites", `{"title":"x","date":"2025-09-17","time":"5pm"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}
