// Package orchestrator coordinates one conversational request end to end:
// classify the message, dispatch the primary handler, fan out to supporting
// handlers, aggregate the results, persist history and stream the outcome.
//
// Per-request state machine:
//
//	INIT → CLASSIFY → PRIMARY_DISPATCH → SUPPORTING_FANOUT → AGGREGATE → PERSIST → DONE
//
// ERROR is reachable from INIT, CLASSIFY and PRIMARY_DISPATCH only. Once the
// supporting fan-out begins the request always reaches DONE, possibly with
// degraded supporting data.
package orchestrator

import (
	"context"
	"fmt"
	"sync"

	"github.com/noeul-sumini/travel-agent/core"
	"github.com/noeul-sumini/travel-agent/intent"
	"github.com/noeul-sumini/travel-agent/logging"
	"github.com/noeul-sumini/travel-agent/registry"
)

// foldPrompt folds the primary answer into every supporting request so
// supporting handlers build on it rather than starting over.
const foldPrompt = "Based on this information: %s, provide additional insights."

// Options holds configuration overrides passed to New.
type Options struct {
	Logger logging.Logger
}

// Orchestrator routes requests through the classifier, registry and session
// store. It holds no per-request state and is safe for concurrent use; a
// session's history is guarded by the store's atomic append, not by the
// orchestrator.
type Orchestrator struct {
	classifier *intent.Classifier
	registry   *registry.Registry
	store      core.SessionStore
	logger     logging.Logger
}

// New constructs an Orchestrator with optional overrides.
func New(classifier *intent.Classifier, reg *registry.Registry, store core.SessionStore, optFns ...func(o *Options)) *Orchestrator {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Orchestrator{classifier: classifier, registry: reg, store: store, logger: opts.Logger}
}

// Handle processes one message for the given session and returns the full
// collaboration outcome. The primary handler's failure is fatal; supporting
// failures degrade the answer instead of failing the request.
//
// Persistence runs detached from the caller's cancellation: once the
// supporting fan-out has begun, history is appended even if the caller has
// disconnected.
func (o *Orchestrator) Handle(ctx context.Context, sessionID, message string, reqContext map[string]any) (*core.CollaborationOutcome, error) {
	session, err := o.store.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: load session %s: %v", core.ErrPersistence, sessionID, err)
	}

	userMsg := core.NewUserMessage(message)
	session.Messages = append(session.Messages, userMsg)

	cls, err := o.classifier.Classify(message)
	if err != nil {
		return nil, err
	}
	o.logger.Debug("request classified",
		"session_id", sessionID, "primary", cls.Primary, "supporting", cls.Supporting)

	dispatchCtx := dispatchContext(reqContext, session)
	primaryResult := o.registry.Invoke(ctx, core.DispatchRequest{
		Handler: cls.Primary,
		Content: message,
		Context: dispatchCtx,
	})
	if primaryResult.IsError() {
		// The user message is still recorded so the failed exchange shows
		// up in history; nothing else is persisted.
		persistCtx := context.WithoutCancel(ctx)
		if perr := o.store.Append(persistCtx, sessionID, userMsg); perr != nil {
			o.logger.Error("failed to record user message after primary failure",
				"session_id", sessionID, "error", perr)
		}
		return nil, fmt.Errorf("%w: %s: %s", core.ErrHandlerInvocation, cls.Primary, primaryResult.Message)
	}

	supporting := o.fanOut(ctx, cls.Supporting, primaryResult, dispatchCtx)

	aggregated := aggregate(primaryResult, supporting)

	persistCtx := context.WithoutCancel(ctx)
	if err := o.store.Append(persistCtx, sessionID, userMsg, core.NewAssistantMessage(aggregated)); err != nil {
		return nil, fmt.Errorf("%w: append history for %s: %v", core.ErrPersistence, sessionID, err)
	}
	if len(reqContext) > 0 {
		if err := o.store.SetContext(persistCtx, sessionID, reqContext); err != nil {
			return nil, fmt.Errorf("%w: save context for %s: %v", core.ErrPersistence, sessionID, err)
		}
	}

	return &core.CollaborationOutcome{
		Primary:       cls.Primary,
		PrimaryResult: primaryResult,
		Supporting:    supporting,
		Message:       aggregated,
		Data:          outcomeData(cls, reqContext),
	}, nil
}

// fanOut invokes every supporting handler concurrently and waits for all of
// them (barrier synchronization). Results land at their classification-order
// index, so completion order never leaks into aggregation or streaming.
func (o *Orchestrator) fanOut(ctx context.Context, supporting []core.HandlerName, primary core.HandlerResult, dispatchCtx map[string]any) []core.SupportingResult {
	if len(supporting) == 0 {
		return nil
	}

	supportingCtx := make(map[string]any, len(dispatchCtx)+1)
	for k, v := range dispatchCtx {
		supportingCtx[k] = v
	}
	supportingCtx["primary_response"] = primary.Message

	content := fmt.Sprintf(foldPrompt, primary.Message)

	results := make([]core.SupportingResult, len(supporting))
	var wg sync.WaitGroup
	for i, name := range supporting {
		wg.Add(1)
		go func(i int, name core.HandlerName) {
			defer wg.Done()
			result := o.registry.Invoke(ctx, core.DispatchRequest{
				Handler: name,
				Content: content,
				Context: supportingCtx,
			})
			if result.IsError() {
				o.logger.Warn("supporting handler degraded", "handler", name, "error", result.Message)
			}
			results[i] = core.SupportingResult{Handler: name, Result: result}
		}(i, name)
	}
	wg.Wait()

	return results
}

// dispatchContext merges the caller's request context with the session view
// so handlers can see prior conversation turns.
func dispatchContext(reqContext map[string]any, session *core.Session) map[string]any {
	merged := make(map[string]any, len(reqContext)+1)
	for k, v := range reqContext {
		merged[k] = v
	}
	if len(session.Messages) > 0 {
		merged["history"] = session.Messages
	}
	return merged
}

func outcomeData(cls intent.Classification, reqContext map[string]any) map[string]any {
	data := map[string]any{"primary_handler": string(cls.Primary)}
	if len(cls.Supporting) > 0 {
		names := make([]string, len(cls.Supporting))
		for i, n := range cls.Supporting {
			names[i] = string(n)
		}
		data["supporting_handlers"] = names
	}
	if len(reqContext) > 0 {
		data["context"] = reqContext
	}
	return data
}
