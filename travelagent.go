// Package travelagent provides a high-level façade over the orchestrator and
// service abstractions (classification, handlers, sessions & logging) for
// building a conversational travel assistant. Most applications interact with
// this package by:
//  1. Creating a TravelAgent via New() (optionally overriding the default
//     in-memory session store, mock generator or handler set)
//  2. Sending messages synchronously (Chat) or as an event stream (ChatStream)
//
// The façade delegates coordination to orchestrator.Orchestrator while keeping
// setup and usage ergonomics concise. All defaults are safe for local
// development and testing; production deployments typically supply a durable
// session store, a real model provider and a structured logger.
package travelagent

import (
	"context"
	"fmt"
	"time"

	"github.com/noeul-sumini/travel-agent/core"
	"github.com/noeul-sumini/travel-agent/handler"
	"github.com/noeul-sumini/travel-agent/intent"
	"github.com/noeul-sumini/travel-agent/logging"
	"github.com/noeul-sumini/travel-agent/model"
	"github.com/noeul-sumini/travel-agent/orchestrator"
	"github.com/noeul-sumini/travel-agent/registry"
	"github.com/noeul-sumini/travel-agent/session"
)

// Options configures the TravelAgent instance.
type Options struct {
	// SessionStore persists conversation history (defaults to in-memory).
	SessionStore core.SessionStore

	// Generator produces handler responses (defaults to the mock generator).
	Generator model.Generator

	// Handlers overrides the default prompt-only handler set, e.g. to attach
	// live data clients. Names must come from the closed handler set.
	Handlers []core.Handler

	// HandlerTimeout bounds each individual handler invocation.
	HandlerTimeout time.Duration

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// TravelAgent is the high-level façade aggregating the underlying
// orchestrator and services.
type TravelAgent struct {
	opts  Options
	orch  *orchestrator.Orchestrator
	store core.SessionStore
}

// New creates a TravelAgent with optional overrides. Any unset service is
// initialized with a local implementation.
func New(optFns ...func(o *Options)) (*TravelAgent, error) {
	opts := Options{
		SessionStore:   session.NewInMemoryStore(),
		Generator:      model.NewMock(),
		HandlerTimeout: registry.DefaultTimeout,
		Logger:         logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	handlers := opts.Handlers
	if handlers == nil {
		handlers = handler.All(opts.Generator, func(o *handler.Options) {
			o.Logger = opts.Logger
		})
	}

	reg, err := registry.New(handlers, func(o *registry.Options) {
		o.Timeout = opts.HandlerTimeout
		o.Logger = opts.Logger
	})
	if err != nil {
		return nil, fmt.Errorf("building handler registry: %w", err)
	}

	orch := orchestrator.New(intent.NewClassifier(), reg, opts.SessionStore, func(o *orchestrator.Options) {
		o.Logger = opts.Logger
	})

	return &TravelAgent{opts: opts, orch: orch, store: opts.SessionStore}, nil
}

// Chat processes one message synchronously and returns the full outcome:
// the aggregated answer plus the raw primary and supporting results.
func (a *TravelAgent) Chat(ctx context.Context, sessionID, message string) (*core.CollaborationOutcome, error) {
	return a.orch.Handle(ctx, sessionID, message, nil)
}

// ChatWithContext is Chat with an explicit request context (destination,
// dates, airport codes) made available to the handlers and persisted on the
// session.
func (a *TravelAgent) ChatWithContext(ctx context.Context, sessionID, message string, reqContext map[string]any) (*core.CollaborationOutcome, error) {
	return a.orch.Handle(ctx, sessionID, message, reqContext)
}

// ChatStream processes one message and returns its finite, ordered event
// stream: a message frame, one collaboration frame per supporting handler
// and a terminal complete or error frame.
func (a *TravelAgent) ChatStream(ctx context.Context, sessionID, message string, reqContext map[string]any) <-chan core.StreamEvent {
	return a.orch.Stream(ctx, sessionID, message, reqContext)
}

// History returns the session's current state: message history and context.
func (a *TravelAgent) History(ctx context.Context, sessionID string) (*core.Session, error) {
	return a.store.Get(ctx, sessionID)
}

// ClearSession removes the session's history and context.
func (a *TravelAgent) ClearSession(ctx context.Context, sessionID string) error {
	return a.store.Clear(ctx, sessionID)
}
