package server

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noeul-sumini/travel-agent/core"
	"github.com/noeul-sumini/travel-agent/intent"
	"github.com/noeul-sumini/travel-agent/internal/testutil"
	"github.com/noeul-sumini/travel-agent/orchestrator"
	"github.com/noeul-sumini/travel-agent/registry"
	"github.com/noeul-sumini/travel-agent/session"
)

func newTestServer(t *testing.T) (*Server, core.SessionStore) {
	t.Helper()
	store := session.NewInMemoryStore()
	reg, err := registry.New([]core.Handler{
		testutil.NewStubHandler(core.Planner, "Hi"),
		testutil.NewStubHandler(core.Budget, "Cheap."),
	})
	require.NoError(t, err)
	orch := orchestrator.New(intent.NewClassifier(), reg, store)
	return New(":0", orch, store), store
}

// readSSE decodes every data frame from an SSE response body.
func readSSE(t *testing.T, body string) []core.StreamEvent {
	t.Helper()
	var events []core.StreamEvent
	scanner := bufio.NewScanner(strings.NewReader(body))
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var ev core.StreamEvent
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &ev))
		events = append(events, ev)
	}
	return events
}

func TestHandleChat_StreamsEvents(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat",
		strings.NewReader(`{"message": "Hello", "session_id": "abc"}`))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "abc", rec.Header().Get("X-Session-ID"))

	events := readSSE(t, rec.Body.String())
	require.Len(t, events, 3)
	assert.Equal(t, core.EventMessage, events[0].Type)
	assert.Equal(t, core.EventCollaboration, events[1].Type)
	assert.Equal(t, core.EventComplete, events[2].Type)
}

func TestHandleChat_MintsSessionID(t *testing.T) {
	srv, store := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat",
		strings.NewReader(`{"message": "Hello"}`))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	id := rec.Header().Get("X-Session-ID")
	require.NotEmpty(t, id)

	sess, err := store.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Len(t, sess.Messages, 2)
}

func TestHandleChat_BadRequests(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"message":`},
		{"missing message", `{"session_id": "abc"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandleChat_ErrorFrameOnFatalFailure(t *testing.T) {
	store := session.NewInMemoryStore()
	reg, err := registry.New(nil)
	require.NoError(t, err)
	orch := orchestrator.New(intent.NewClassifier(), reg, store)
	srv := New(":0", orch, store)

	// No handlers registered, so the primary dispatch fails.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat",
		strings.NewReader(`{"message": "Hello", "session_id": "abc"}`))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	events := readSSE(t, rec.Body.String())
	require.Len(t, events, 1)
	assert.Equal(t, core.EventError, events[0].Type)
}

func TestHandleGetSession(t *testing.T) {
	srv, store := newTestServer(t)
	require.NoError(t, store.Append(context.Background(), "abc", core.NewUserMessage("Hello")))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/abc", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var sess core.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sess))
	assert.Equal(t, "abc", sess.ID)
	require.Len(t, sess.Messages, 1)
	assert.Equal(t, "Hello", sess.Messages[0].Content)
}

func TestHandleClearSession(t *testing.T) {
	srv, store := newTestServer(t)
	require.NoError(t, store.Append(context.Background(), "abc", core.NewUserMessage("Hello")))

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/sessions/abc", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)

	sess, err := store.Get(context.Background(), "abc")
	require.NoError(t, err)
	assert.Empty(t, sess.Messages)
}

func TestHandleHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
