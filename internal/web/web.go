package web

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strings"
	"time"

	"huntersledger/internal/config"
	"huntersledger/internal/ics"
	"huntersledger/internal/invite"
	appLog "huntersledger/internal/log"
)

const maxBodyBytes = 64 << 10

// Server exposes the invite builder over HTTP.
type Server struct {
	cfg     *config.Config
	builder *invite.Builder
	mux     *http.ServeMux
}

// NewServer constructs a new Server.
func NewServer(cfg *config.Config, builder *invite.Builder) *Server {
	s := &Server{
		cfg:     cfg,
		builder: builder,
		mux:     http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

// basicAuthEnabled reports whether HTTP Basic Auth is configured.
func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	// Empty username or password counts as disabled.
	return s.cfg.BasicAuth.Username != "" && s.cfg.BasicAuth.Password != ""
}

// basicAuthMiddleware wraps all handlers except /health with HTTP Basic Auth.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="HuntersLedger", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// Run serves on cfg.Listen until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+s.cfg.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/invites", s.handleInvite)
	s.mux.HandleFunc("/api/invites.ics", s.handleInviteFile)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// inviteRequest is the JSON request shape for both invite endpoints.
type inviteRequest struct {
	Title    string `json:"title"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Timezone string `json:"timezone,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// inviteResponse is the JSON response shape for /api/invites.
type inviteResponse struct {
	Filename        string    `json:"filename"`
	Summary         string    `json:"summary"`
	LocalStart      string    `json:"local_start"`
	Timezone        string    `json:"timezone"`
	DurationMinutes int       `json:"duration_minutes"`
	ReminderMinutes int       `json:"reminder_minutes"`
	StartUTC        time.Time `json:"start_utc"`
	EndUTC          time.Time `json:"end_utc"`
	ICS             string    `json:"ics"`
}

type errorResponse struct {
	Error string `json:"error"`
	Hint  string `json:"hint,omitempty"`
}

// handleInvite builds an invite and returns it with its metadata as JSON.
//
// POST /api/invites {"title": "...", "date": "...", "time": "...", "timezone": "...", "notes": "..."}
func (s *Server) handleInvite(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}
	req, ok := decodeInviteRequest(w, r)
	if !ok {
		return
	}
	res, ok := s.build(w, req)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, inviteResponse{
		Filename:        res.Filename,
		Summary:         res.Confirmation(),
		LocalStart:      res.LocalStart(),
		Timezone:        res.Zone,
		DurationMinutes: int(res.Duration / time.Minute),
		ReminderMinutes: int(res.ReminderLead / time.Minute),
		StartUTC:        res.Window.StartUTC,
		EndUTC:          res.Window.EndUTC,
		ICS:             string(res.Document),
	})
}

// handleInviteFile returns the raw calendar document as an attachment.
//
// POST /api/invites.ics with the JSON body of /api/invites, or
// GET  /api/invites.ics?title=...&date=...&time=...&timezone=...&notes=...
func (s *Server) handleInviteFile(w http.ResponseWriter, r *http.Request) {
	var req inviteRequest
	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		req = inviteRequest{
			Title:    q.Get("title"),
			Date:     q.Get("date"),
			Time:     q.Get("time"),
			Timezone: q.Get("timezone"),
			Notes:    q.Get("notes"),
		}
	case http.MethodPost:
		var ok bool
		if req, ok = decodeInviteRequest(w, r); !ok {
			return
		}
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}

	res, ok := s.build(w, req)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", res.ContentType()+"; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": res.Filename}))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Document)
}

func decodeInviteRequest(w http.ResponseWriter, r *http.Request) (inviteRequest, bool) {
	var req inviteRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", "")
		return req, false
	}
	return req, true
}

// build runs the builder and writes a 400 for bad input. It reports whether
// the caller should go on writing a response.
func (s *Server) build(w http.ResponseWriter, req inviteRequest) (*invite.Result, bool) {
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, http.StatusBadRequest, "title is required", "")
		return nil, false
	}
	res, err := s.builder.Build(invite.Request{
		Title:    req.Title,
		Date:     req.Date,
		Time:     req.Time,
		Timezone: req.Timezone,
		Notes:    req.Notes,
	})
	if err != nil {
		appLog.Info("invite rejected", "err", err)
		writeError(w, http.StatusBadRequest, err.Error(), invite.Hint(err))
		return nil, false
	}
	appLog.Info("invite created",
		"title", req.Title,
		"local_start", res.Window.Start.Format(time.RFC3339),
		"timezone", res.Zone,
		"dtstart", ics.FormatUTC(res.Window.StartUTC),
		"filename", res.Filename,
	)
	return res, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg, hint string) {
	writeJSON(w, status, errorResponse{Error: msg, Hint: hint})
}
