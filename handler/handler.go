// Package handler contains the six specialized travel handlers. Each one
// wraps the text-generation collaborator with a role prompt; Weather, Maps
// and Flights additionally consult a live-data client whose output is folded
// into the prompt. Handlers never call each other: cross-handler needs are
// the orchestrator's job.
package handler

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/noeul-sumini/travel-agent/core"
	"github.com/noeul-sumini/travel-agent/logging"
	"github.com/noeul-sumini/travel-agent/model"
)

// Options holds configuration overrides shared by the handler constructors.
type Options struct {
	Logger logging.Logger
}

// liveDataFn fetches external data for a request. A nil function or an
// error return degrades the handler to prompt-only operation.
type liveDataFn func(ctx context.Context, req core.DispatchRequest) (map[string]any, error)

type base struct {
	name         core.HandlerName
	instructions string
	generator    model.Generator
	logger       logging.Logger
	liveData     liveDataFn
}

var _ core.Handler = (*base)(nil)

func newBase(name core.HandlerName, instructions string, generator model.Generator, liveData liveDataFn, optFns ...func(o *Options)) *base {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &base{
		name:         name,
		instructions: instructions,
		generator:    generator,
		logger:       opts.Logger,
		liveData:     liveData,
	}
}

// Name implements core.Handler.
func (h *base) Name() core.HandlerName { return h.name }

// Process implements core.Handler: fetch live data if configured, fold it
// into the prompt and generate the answer against the conversation history.
func (h *base) Process(ctx context.Context, req core.DispatchRequest) (core.HandlerResult, error) {
	prompt := req.Content
	var data map[string]any

	if h.liveData != nil {
		fetched, err := h.liveData(ctx, req)
		if err != nil {
			// Degrade to prompt-only; the generator still answers.
			h.logger.Warn("live data unavailable", "handler", h.name, "error", err)
		} else if len(fetched) > 0 {
			data = fetched
			if raw, err := json.Marshal(fetched); err == nil {
				prompt = fmt.Sprintf("%s\n\nLive data:\n%s", req.Content, raw)
			}
		}
	}

	messages := append(historyFromContext(req.Context), core.NewUserMessage(prompt))
	text, err := h.generator.Generate(ctx, model.Request{
		Instructions: h.instructions,
		Messages:     messages,
	})
	if err != nil {
		return core.HandlerResult{}, fmt.Errorf("generate answer: %w", err)
	}

	return core.SuccessResult(text, data), nil
}

// historyFromContext extracts prior conversation turns placed in the
// dispatch context by the orchestrator.
func historyFromContext(reqCtx map[string]any) []core.Message {
	if reqCtx == nil {
		return nil
	}
	history, ok := reqCtx["history"].([]core.Message)
	if !ok {
		return nil
	}
	msgs := make([]core.Message, len(history))
	copy(msgs, history)
	return msgs
}

// stringFromContext reads a string value from the dispatch context.
func stringFromContext(reqCtx map[string]any, key string) string {
	if reqCtx == nil {
		return ""
	}
	s, _ := reqCtx[key].(string)
	return s
}
