// Package session provides SessionStore implementations. The in-memory
// store lives here; durable backends live in the redis and sqlite
// subpackages.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/noeul-sumini/travel-agent/core"
)

// Options holds configuration overrides for NewInMemoryStore.
type Options struct {
	// TTL is the sliding expiry applied on every write.
	TTL time.Duration
	// Clock overrides time.Now, mainly for expiry tests.
	Clock func() time.Time
}

// InMemoryStore is a volatile core.SessionStore keeping sessions in a
// process-local map. It is safe for concurrent access: the store mutex makes
// every get-then-append an atomic read-modify-write, so concurrent requests
// against the same session never lose messages. Returned sessions are clones
// to prevent external mutation of internal state.
//
// Best suited for tests and single-process deployments; use the redis or
// sqlite stores when history must survive a restart.
type InMemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*core.Session
	ttl      time.Duration
	now      func() time.Time
}

var _ core.SessionStore = (*InMemoryStore)(nil)

// NewInMemoryStore constructs an empty in-memory session store with a
// 7-day sliding TTL unless overridden.
func NewInMemoryStore(optFns ...func(o *Options)) *InMemoryStore {
	opts := Options{TTL: core.DefaultSessionTTL, Clock: time.Now}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &InMemoryStore{
		sessions: make(map[string]*core.Session),
		ttl:      opts.TTL,
		now:      opts.Clock,
	}
}

// Get returns a snapshot of the session, or an empty session if the id is
// unknown or the session has expired.
func (s *InMemoryStore) Get(_ context.Context, sessionID string) (*core.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess := s.liveLocked(sessionID); sess != nil {
		return sess.Clone(), nil
	}
	return core.NewSession(sessionID), nil
}

// Append adds messages to the session's history in one atomic step, creating
// the session if absent and refreshing its expiry.
func (s *InMemoryStore) Append(_ context.Context, sessionID string, msgs ...core.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.liveOrCreateLocked(sessionID)
	sess.Messages = append(sess.Messages, msgs...)
	sess.ExpiresAt = s.now().Add(s.ttl)
	return nil
}

// SetContext replaces the session's context mapping and refreshes its expiry.
func (s *InMemoryStore) SetContext(_ context.Context, sessionID string, context map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.liveOrCreateLocked(sessionID)
	sess.Context = make(map[string]any, len(context))
	for k, v := range context {
		sess.Context[k] = v
	}
	sess.ExpiresAt = s.now().Add(s.ttl)
	return nil
}

// GetContext returns a copy of the session's context mapping; empty for
// unknown or expired sessions.
func (s *InMemoryStore) GetContext(_ context.Context, sessionID string) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.liveLocked(sessionID)
	if sess == nil {
		return map[string]any{}, nil
	}
	copied := make(map[string]any, len(sess.Context))
	for k, v := range sess.Context {
		copied[k] = v
	}
	return copied, nil
}

// Clear removes the session entirely.
func (s *InMemoryStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

// liveLocked returns the stored session if present and unexpired, purging it
// lazily otherwise. Caller must hold the mutex.
func (s *InMemoryStore) liveLocked(sessionID string) *core.Session {
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil
	}
	if sess.Expired(s.now()) {
		delete(s.sessions, sessionID)
		return nil
	}
	return sess
}

func (s *InMemoryStore) liveOrCreateLocked(sessionID string) *core.Session {
	if sess := s.liveLocked(sessionID); sess != nil {
		return sess
	}
	sess := core.NewSession(sessionID)
	s.sessions[sessionID] = sess
	return sess
}
