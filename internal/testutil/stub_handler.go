// Package testutil provides small test doubles shared across package tests.
package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/noeul-sumini/travel-agent/core"
)

// StubHandler is a configurable core.Handler for tests. It records every
// request it receives and replies with a fixed result, error or panic after
// an optional delay.
type StubHandler struct {
	HandlerName core.HandlerName
	Result      core.HandlerResult
	Err         error
	PanicValue  any
	Delay       time.Duration
	// ProcessFn, when set, overrides the canned behavior entirely.
	ProcessFn func(ctx context.Context, req core.DispatchRequest) (core.HandlerResult, error)

	mu       sync.Mutex
	requests []core.DispatchRequest
}

// NewStubHandler returns a stub replying with a success result carrying message.
func NewStubHandler(name core.HandlerName, message string) *StubHandler {
	return &StubHandler{HandlerName: name, Result: core.SuccessResult(message, nil)}
}

// Name implements core.Handler.
func (s *StubHandler) Name() core.HandlerName { return s.HandlerName }

// Process implements core.Handler.
func (s *StubHandler) Process(ctx context.Context, req core.DispatchRequest) (core.HandlerResult, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()

	if s.Delay > 0 {
		select {
		case <-time.After(s.Delay):
		case <-ctx.Done():
			return core.HandlerResult{}, ctx.Err()
		}
	}
	if s.ProcessFn != nil {
		return s.ProcessFn(ctx, req)
	}
	if s.PanicValue != nil {
		panic(s.PanicValue)
	}
	if s.Err != nil {
		return core.HandlerResult{}, s.Err
	}
	return s.Result, nil
}

// Calls returns how many times Process was invoked.
func (s *StubHandler) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// Requests returns a copy of every request received, in call order.
func (s *StubHandler) Requests() []core.DispatchRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	reqs := make([]core.DispatchRequest, len(s.requests))
	copy(reqs, s.requests)
	return reqs
}
