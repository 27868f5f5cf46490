// Package server exposes the orchestrator over HTTP. The chat endpoint
// delivers the event stream as Server-Sent Events so clients render the
// answer before the supporting details arrive.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/noeul-sumini/travel-agent/core"
	"github.com/noeul-sumini/travel-agent/logging"
	"github.com/noeul-sumini/travel-agent/orchestrator"
)

// ChatRequest is the JSON body of the chat endpoint. SessionID is optional;
// a fresh one is minted and returned in the X-Session-ID header when absent.
type ChatRequest struct {
	Message   string         `json:"message"`
	SessionID string         `json:"session_id,omitempty"`
	Context   map[string]any `json:"context,omitempty"`
}

// Options holds configuration overrides passed to New.
type Options struct {
	Logger logging.Logger
	// ReadHeaderTimeout guards against slow-header clients.
	ReadHeaderTimeout time.Duration
}

// Server is the HTTP front for the orchestrator and session store.
type Server struct {
	orch   *orchestrator.Orchestrator
	store  core.SessionStore
	logger logging.Logger
	http   *http.Server
}

// New builds a Server listening on addr.
func New(addr string, orch *orchestrator.Orchestrator, store core.SessionStore, optFns ...func(o *Options)) *Server {
	opts := Options{
		Logger:            logging.NoOpLogger{},
		ReadHeaderTimeout: 10 * time.Second,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	s := &Server{orch: orch, store: store, logger: opts.Logger}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/chat", s.handleChat)
	mux.HandleFunc("GET /api/v1/sessions/{id}", s.handleGetSession)
	mux.HandleFunc("DELETE /api/v1/sessions/{id}", s.handleClearSession)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	s.http = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: opts.ReadHeaderTimeout,
	}
	return s
}

// ListenAndServe blocks serving requests until Shutdown is called.
func (s *Server) ListenAndServe() error {
	s.logger.Info("http server listening", "addr", s.http.Addr)
	return s.http.ListenAndServe()
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// Handler returns the routing handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if req.Message == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.Header().Set("X-Session-ID", sessionID)

	for ev := range s.orch.Stream(r.Context(), sessionID, req.Message, req.Context) {
		payload, err := json.Marshal(ev)
		if err != nil {
			s.logger.Error("failed to encode stream event", "session_id", sessionID, "error", err)
			return
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
			// Client went away; the orchestrator has already persisted.
			s.logger.Debug("client disconnected mid-stream", "session_id", sessionID)
			return
		}
		flusher.Flush()
	}
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.logger.Error("failed to load session", "error", err)
		http.Error(w, "failed to load session", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(sess); err != nil {
		s.logger.Error("failed to encode session", "error", err)
	}
}

func (s *Server) handleClearSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.store.Clear(r.Context(), id); err != nil {
		s.logger.Error("failed to clear session", "session_id", id, "error", err)
		http.Error(w, "failed to clear session", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, `{"status":"ok"}`)
}
