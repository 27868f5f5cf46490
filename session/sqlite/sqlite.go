// Package sqlite implements core.SessionStore on an embedded SQLite
// database (cgo-free driver). History appends run in a single transaction,
// so a request's user/assistant pair lands atomically and adjacently even
// under concurrent requests for the same session. Expiry is a per-session
// timestamp refreshed on every write; expired sessions are purged lazily
// when read.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/noeul-sumini/travel-agent/core"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id         TEXT PRIMARY KEY,
	context    TEXT NOT NULL DEFAULT '{}',
	expires_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS messages (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL,
	role       TEXT NOT NULL,
	content    TEXT NOT NULL,
	timestamp  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id);
`

// Options holds expiry and clock overrides for New.
type Options struct {
	TTL   time.Duration
	Clock func() time.Time
}

// Store is a SQLite-backed core.SessionStore.
type Store struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

var _ core.SessionStore = (*Store)(nil)

// New opens (or creates) the database at path and ensures the schema.
func New(path string, optFns ...func(o *Options)) (*Store, error) {
	opts := Options{TTL: core.DefaultSessionTTL, Clock: time.Now}
	for _, fn := range optFns {
		fn(&opts)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// SQLite allows one writer at a time; a single connection avoids
	// SQLITE_BUSY churn under concurrent appends.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db, ttl: opts.TTL, now: opts.Clock}, nil
}

// Get loads the session, returning an empty one when the id is unknown or
// the session has expired. Expired rows are purged on the way out.
func (s *Store) Get(ctx context.Context, sessionID string) (*core.Session, error) {
	sess := core.NewSession(sessionID)

	expiresAt, ok, err := s.liveExpiry(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return sess, nil
	}
	sess.ExpiresAt = expiresAt

	rows, err := s.db.QueryContext(ctx,
		`SELECT role, content, timestamp FROM messages WHERE session_id = ? ORDER BY id`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var role, content string
		var ts int64
		if err := rows.Scan(&role, &content, &ts); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		sess.Messages = append(sess.Messages, core.Message{
			Role:      core.Role(role),
			Content:   content,
			Timestamp: time.Unix(0, ts).UTC(),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}

	var rawCtx string
	err = s.db.QueryRowContext(ctx, `SELECT context FROM sessions WHERE id = ?`, sessionID).Scan(&rawCtx)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("read context: %w", err)
	}
	if rawCtx != "" {
		if err := json.Unmarshal([]byte(rawCtx), &sess.Context); err != nil {
			return nil, fmt.Errorf("decode context: %w", err)
		}
	}

	return sess, nil
}

// Append inserts the messages and refreshes the session expiry in one
// transaction.
func (s *Store) Append(ctx context.Context, sessionID string, msgs ...core.Message) error {
	if len(msgs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append: %w", err)
	}
	defer tx.Rollback()

	if err := s.touchSession(ctx, tx, sessionID); err != nil {
		return err
	}
	for _, msg := range msgs {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO messages (session_id, role, content, timestamp) VALUES (?, ?, ?, ?)`,
			sessionID, string(msg.Role), msg.Content, msg.Timestamp.UnixNano())
		if err != nil {
			return fmt.Errorf("insert message: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit append: %w", err)
	}
	return nil
}

// SetContext replaces the session's context mapping and refreshes its expiry.
func (s *Store) SetContext(ctx context.Context, sessionID string, sessCtx map[string]any) error {
	raw, err := json.Marshal(sessCtx)
	if err != nil {
		return fmt.Errorf("encode context: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, context, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET context = excluded.context, expires_at = excluded.expires_at`,
		sessionID, string(raw), s.now().Add(s.ttl).UnixNano())
	if err != nil {
		return fmt.Errorf("save context: %w", err)
	}
	return nil
}

// GetContext returns the session's context mapping; empty when the session
// is unknown or expired.
func (s *Store) GetContext(ctx context.Context, sessionID string) (map[string]any, error) {
	_, ok, err := s.liveExpiry(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return map[string]any{}, nil
	}

	var rawCtx string
	err = s.db.QueryRowContext(ctx, `SELECT context FROM sessions WHERE id = ?`, sessionID).Scan(&rawCtx)
	if err == sql.ErrNoRows {
		return map[string]any{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read context: %w", err)
	}

	sessCtx := map[string]any{}
	if err := json.Unmarshal([]byte(rawCtx), &sessCtx); err != nil {
		return nil, fmt.Errorf("decode context: %w", err)
	}
	return sessCtx, nil
}

// Clear removes the session row and its history.
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin clear: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, sessionID); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit clear: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// liveExpiry reports whether the session exists and is unexpired, purging
// expired rows as a side effect.
func (s *Store) liveExpiry(ctx context.Context, sessionID string) (time.Time, bool, error) {
	var expiresAt int64
	err := s.db.QueryRowContext(ctx, `SELECT expires_at FROM sessions WHERE id = ?`, sessionID).Scan(&expiresAt)
	if err == sql.ErrNoRows {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("read session expiry: %w", err)
	}

	expiry := time.Unix(0, expiresAt)
	if s.now().After(expiry) {
		if err := s.Clear(ctx, sessionID); err != nil {
			return time.Time{}, false, err
		}
		return time.Time{}, false, nil
	}
	return expiry.UTC(), true, nil
}

// touchSession upserts the session row with a refreshed expiry inside tx.
func (s *Store) touchSession(ctx context.Context, tx *sql.Tx, sessionID string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO sessions (id, context, expires_at) VALUES (?, '{}', ?)
		ON CONFLICT(id) DO UPDATE SET expires_at = excluded.expires_at`,
		sessionID, s.now().Add(s.ttl).UnixNano())
	if err != nil {
		return fmt.Errorf("refresh session expiry: %w", err)
	}
	return nil
}
