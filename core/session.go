package core

import (
	"context"
	"time"
)

// DefaultSessionTTL is the sliding expiry applied to a session on every
// write. Sessions with no writes for this long are treated as gone.
const DefaultSessionTTL = 7 * 24 * time.Hour

// Session is a caller-scoped conversation record: ordered message history
// (insertion order is chronological), a last-write-wins context mapping and
// an expiry refreshed on every write.
//
// Sessions are owned exclusively by their SessionStore. Callers receive
// snapshots and never hold a long-lived reference.
type Session struct {
	ID        string         `json:"id"`
	Messages  []Message      `json:"messages"`
	Context   map[string]any `json:"context"`
	ExpiresAt time.Time      `json:"expires_at"`
}

// NewSession creates an empty session with the given id and no expiry set.
func NewSession(id string) *Session {
	return &Session{ID: id, Messages: []Message{}, Context: map[string]any{}}
}

// Expired reports whether the session's expiry has passed at the given time.
// A zero expiry means the session has never been written and never expires
// on its own.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// Clone returns a deep copy safe for independent mutation.
func (s *Session) Clone() *Session {
	clone := &Session{
		ID:        s.ID,
		Messages:  make([]Message, len(s.Messages)),
		Context:   make(map[string]any, len(s.Context)),
		ExpiresAt: s.ExpiresAt,
	}
	copy(clone.Messages, s.Messages)
	for k, v := range s.Context {
		clone.Context[k] = v
	}
	return clone
}

// SessionStore persists conversation history and side-channel context keyed
// by session id, with a sliding TTL refreshed on every write.
//
// Contract:
//   - Get on an unknown or expired session returns an empty session, never
//     an error.
//   - Append is atomic per session: concurrent appends for the same id must
//     not lose messages, and all messages of a single call land adjacently.
//   - Every write (Append, SetContext) refreshes the expiry to the store's
//     TTL measured from the time of the write.
type SessionStore interface {
	Get(ctx context.Context, sessionID string) (*Session, error)
	Append(ctx context.Context, sessionID string, msgs ...Message) error
	SetContext(ctx context.Context, sessionID string, context map[string]any) error
	GetContext(ctx context.Context, sessionID string) (map[string]any, error)
	Clear(ctx context.Context, sessionID string) error
}
