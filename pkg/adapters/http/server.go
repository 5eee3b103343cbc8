package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/aretw0/mathpad"
	"github.com/aretw0/mathpad/internal/logging"
	"github.com/aretw0/mathpad/internal/presentation/graph"
	"github.com/aretw0/mathpad/pkg/domain"
	"github.com/aretw0/mathpad/pkg/ports"
	"github.com/aretw0/mathpad/pkg/runner"
	"github.com/go-chi/chi/v5"
)

// maxBodySize bounds request bodies. Event payloads are small; the sanitizer
// applies the finer per-input limit.
const maxBodySize = 1 << 20

// Server exposes a ports.Editor over HTTP.
type Server struct {
	Editor  ports.Editor
	Streams *StreamManager

	logger  *slog.Logger
	metrics http.Handler
}

// Option configures the HTTP server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetricsHandler mounts h (usually promhttp) on GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// NewHandler creates a new HTTP handler for the editor.
func NewHandler(editor ports.Editor, opts ...Option) http.Handler {
	server := &Server{
		Editor:  editor,
		Streams: NewStreamManager(),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(server)
	}
	server.Streams.logger = server.logger

	r := chi.NewRouter()
	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)
	r.Get("/snippets", server.ListSnippets)
	if server.metrics != nil {
		r.Method(http.MethodGet, "/metrics", server.metrics)
	}

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", server.ListSessions)
		r.Post("/", server.StartSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", server.GetSession)
			r.Put("/", server.StartSession)
			r.Delete("/", server.DeleteSession)
			r.Post("/events", server.PostEvents)
			r.Post("/evaluate", server.Evaluate)
			r.Get("/stream", server.SubscribeEvents)
			r.Get("/graph", server.GetGraph)
		})
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Custom-Header")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":     "mathpad-http",
		"version": strings.TrimSpace(mathpad.Version),
	})
}

// ListSnippets handles the GET /snippets request.
func (s *Server) ListSnippets(w http.ResponseWriter, r *http.Request) {
	snippets, err := s.Editor.Snippets(r.Context())
	if err != nil {
		s.fail(w, "ListSnippets", err)
		return
	}
	writeJSON(w, http.StatusOK, snippets)
}

// ListSessions handles the GET /sessions request.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Editor.List(r.Context())
	if err != nil {
		s.fail(w, "ListSessions", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, ids)
}

// StartSession handles POST /sessions (generated id) and PUT /sessions/{id}.
// Starting an existing session returns it unchanged.
func (s *Server) StartSession(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Editor.Start(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, "StartSession", err)
		return
	}
	s.logger.Debug("Session started", "session_id", snap.SessionID)
	writeJSON(w, http.StatusCreated, snap)
}

// GetSession handles the GET /sessions/{id} request.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Editor.Snapshot(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, "GetSession", err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// DeleteSession handles the DELETE /sessions/{id} request.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Editor.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, "DeleteSession", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetGraph handles the GET /sessions/{id}/graph request.
// It returns the expression tree as a Mermaid flowchart.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Editor.Snapshot(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, "GetGraph", err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, graph.GenerateMermaid(snap))
}

// PostEvents handles the POST /sessions/{id}/events request.
// The body is one InputEvent, an array of them, a JSON string (typed) or
// plain text (pasted). Events run in order and the last outcome is returned.
func (s *Server) PostEvents(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		s.fail(w, "PostEvents", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err))
		return
	}
	line := strings.TrimSpace(string(body))
	if line == "" {
		s.fail(w, "PostEvents", fmt.Errorf("%w: empty body", domain.ErrInvalidInput))
		return
	}
	events, err := runner.DecodeEvents(line)
	if err != nil {
		s.fail(w, "PostEvents", err)
		return
	}

	s.apply(w, r, id, events...)
}

// Evaluate handles the POST /sessions/{id}/evaluate request.
// An expression the evaluator rejects answers 422 with the outcome as body.
func (s *Server) Evaluate(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r, chi.URLParam(r, "id"), domain.InputEvent{Type: domain.InputEvaluate})
}

func (s *Server) apply(w http.ResponseWriter, r *http.Request, id string, events ...domain.InputEvent) {
	before, err := s.Editor.Snapshot(r.Context(), id)
	if err != nil {
		s.fail(w, "Apply", err)
		return
	}

	out := domain.Outcome{Snapshot: before}
	for _, ev := range events {
		next, err := s.Editor.Apply(r.Context(), id, ev)
		if err != nil {
			// Earlier events of the batch are already saved.
			s.broadcast(id, before, out.Snapshot)
			s.fail(w, "Apply", err)
			return
		}
		out = next
	}
	s.broadcast(id, before, out.Snapshot)

	status := http.StatusOK
	if out.Action == domain.ActionEvaluate && out.Result == nil && out.Output != "" {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, out)
}

func (s *Server) broadcast(id string, before, after domain.Snapshot) {
	diff := domain.Diff(&before, &after)
	if diff == nil {
		return
	}
	s.logger.Debug("Apply: Diff calculated", "session_id", id)
	if bytes, err := json.Marshal(diff); err == nil {
		s.Streams.Broadcast(id, string(bytes))
	}
}

// StreamManager handles active SSE connections.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{} // SessionID -> Set of Channels
	logger      *slog.Logger
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
		logger:      logging.NewNop(),
	}
}

func (sm *StreamManager) Subscribe(sessionID string) (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[sessionID]; !ok {
		sm.subscribers[sessionID] = make(map[chan<- string]struct{})
	}
	sm.subscribers[sessionID][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[sessionID]; ok {
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, sessionID)
			}
		}
	}
}

func (sm *StreamManager) Broadcast(sessionID string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[sessionID] {
		select {
		case ch <- msg:
		default:
			// Drop message if channel is full (slow client)
			sm.logger.Warn("SSE: Client buffer full, dropping message", "session_id", sessionID)
		}
	}
}

// SubscribeEvents handles the GET /sessions/{id}/stream request (SSE).
// Each message is a domain.SnapshotDiff. The optional watch query
// (comma separated: mode, active, nodes, linear_text) drops diffs that touch
// none of the listed fields.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	sessionID := chi.URLParam(r, "id")
	if _, err := s.Editor.Snapshot(r.Context(), sessionID); err != nil {
		s.fail(w, "SubscribeEvents", err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	s.logger.Info("SSE: Subscribing to Session Updates", "session_id", sessionID)
	ch, cancel := s.Streams.Subscribe(sessionID)
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	var watchList []string
	if watch := r.URL.Query().Get("watch"); watch != "" {
		watchList = strings.Split(watch, ",")
	}

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE Client Disconnected", "session_id", sessionID)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if len(watchList) > 0 && !watched(msg, watchList) {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func watched(msg string, fields []string) bool {
	var diff domain.SnapshotDiff
	if err := json.Unmarshal([]byte(msg), &diff); err != nil {
		return true
	}
	for _, field := range fields {
		switch strings.TrimSpace(field) {
		case "mode":
			if diff.Mode != nil || diff.Label != nil {
				return true
			}
		case "active":
			if diff.Active != nil {
				return true
			}
		case "nodes":
			if diff.Nodes != nil {
				return true
			}
		case "linear_text":
			if diff.LinearText != nil {
				return true
			}
		}
	}
	return false
}

// -- Helpers --

// StatusFor maps editor errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case runner.Rejected(err):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrEvaluation):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error(op+" failed", "err", err)
	} else {
		s.logger.Warn(op+": request rejected", "err", err, "status", status)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
