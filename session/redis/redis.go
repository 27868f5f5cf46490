// Package redis implements core.SessionStore on top of a Redis server with
// native key expiry. History is a Redis list appended with RPUSH, so the
// read-modify-write race of a get-then-set JSON blob cannot occur: appends
// from concurrent requests interleave without losing messages. Both the
// history list and the context key carry the same sliding TTL, refreshed on
// every write.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noeul-sumini/travel-agent/core"
)

// Options holds connection and expiry overrides for New.
type Options struct {
	Password string
	DB       int
	TTL      time.Duration
}

// Store is a Redis-backed core.SessionStore.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

var _ core.SessionStore = (*Store)(nil)

// New connects to the Redis server at addr and verifies the connection with
// a ping before returning the store.
func New(addr string, optFns ...func(o *Options)) (*Store, error) {
	if addr == "" {
		return nil, errors.New("redis address must not be empty")
	}
	opts := Options{TTL: core.DefaultSessionTTL}
	for _, fn := range optFns {
		fn(&opts)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &Store{client: client, ttl: opts.TTL}, nil
}

// NewFromClient wraps an existing client, mainly for tests.
func NewFromClient(client *redis.Client, optFns ...func(o *Options)) *Store {
	opts := Options{TTL: core.DefaultSessionTTL}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Store{client: client, ttl: opts.TTL}
}

func historyKey(sessionID string) string { return "chat_history:" + sessionID }
func contextKey(sessionID string) string { return "context:" + sessionID }

// Get loads the session's history and context. Unknown or expired sessions
// read as empty; Redis expiry removes the keys on its own.
func (s *Store) Get(ctx context.Context, sessionID string) (*core.Session, error) {
	sess := core.NewSession(sessionID)

	raw, err := s.client.LRange(ctx, historyKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis read history: %w", err)
	}
	for _, item := range raw {
		var msg core.Message
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			return nil, fmt.Errorf("decode history entry: %w", err)
		}
		sess.Messages = append(sess.Messages, msg)
	}

	sessCtx, err := s.GetContext(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	sess.Context = sessCtx

	return sess, nil
}

// Append pushes the messages onto the history list and refreshes the TTL of
// both session keys in one pipelined transaction.
func (s *Store) Append(ctx context.Context, sessionID string, msgs ...core.Message) error {
	if len(msgs) == 0 {
		return nil
	}

	encoded := make([]interface{}, len(msgs))
	for i, msg := range msgs {
		raw, err := json.Marshal(msg)
		if err != nil {
			return fmt.Errorf("encode message: %w", err)
		}
		encoded[i] = raw
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, historyKey(sessionID), encoded...)
		pipe.Expire(ctx, historyKey(sessionID), s.ttl)
		pipe.Expire(ctx, contextKey(sessionID), s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis append: %w", err)
	}
	return nil
}

// SetContext replaces the session's context mapping and refreshes the TTL of
// both session keys.
func (s *Store) SetContext(ctx context.Context, sessionID string, sessCtx map[string]any) error {
	raw, err := json.Marshal(sessCtx)
	if err != nil {
		return fmt.Errorf("encode context: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, contextKey(sessionID), raw, s.ttl)
		pipe.Expire(ctx, historyKey(sessionID), s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis set context: %w", err)
	}
	return nil
}

// GetContext returns the session's context mapping; empty when absent.
func (s *Store) GetContext(ctx context.Context, sessionID string) (map[string]any, error) {
	raw, err := s.client.Get(ctx, contextKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return map[string]any{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis read context: %w", err)
	}

	var sessCtx map[string]any
	if err := json.Unmarshal([]byte(raw), &sessCtx); err != nil {
		return nil, fmt.Errorf("decode context: %w", err)
	}
	return sessCtx, nil
}

// Clear deletes the session's history and context keys.
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, historyKey(sessionID), contextKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis clear session: %w", err)
	}
	return nil
}

// Close releases the underlying Redis connection.
func (s *Store) Close() error {
	return s.client.Close()
}
