// Package registry holds the set of named specialized handlers behind a
// uniform invocation contract. The registry is immutable after construction
// and safe for concurrent use; handlers hold no back-references to the
// orchestrator or to each other.
package registry

import (
	"context"
	"fmt"
	"time"

	"github.com/noeul-sumini/travel-agent/core"
	"github.com/noeul-sumini/travel-agent/logging"
)

// DefaultTimeout bounds a single handler invocation unless overridden.
const DefaultTimeout = 30 * time.Second

// Options holds configuration overrides passed to New.
type Options struct {
	// Timeout bounds each individual handler invocation.
	Timeout time.Duration
	// Logger receives invocation diagnostics.
	Logger logging.Logger
}

// Registry maps handler names to their implementations. Invoke never lets a
// handler failure escape: errors, timeouts and panics all surface as an
// error-status HandlerResult.
type Registry struct {
	handlers map[core.HandlerName]core.Handler
	timeout  time.Duration
	logger   logging.Logger
}

// New builds a Registry from the given handlers. Construction fails on
// handlers with names outside the closed set or on duplicate names.
func New(handlers []core.Handler, optFns ...func(o *Options)) (*Registry, error) {
	opts := Options{
		Timeout: DefaultTimeout,
		Logger:  logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	byName := make(map[core.HandlerName]core.Handler, len(handlers))
	for _, h := range handlers {
		name := h.Name()
		if !name.Valid() {
			return nil, fmt.Errorf("handler name %q is not a member of the handler set", name)
		}
		if _, exists := byName[name]; exists {
			return nil, fmt.Errorf("duplicate handler registration for %q", name)
		}
		byName[name] = h
	}

	return &Registry{handlers: byName, timeout: opts.Timeout, logger: opts.Logger}, nil
}

// Has reports whether a handler is registered under the given name.
func (r *Registry) Has(name core.HandlerName) bool {
	_, ok := r.handlers[name]
	return ok
}

// Names returns the registered handler names in canonical set order.
func (r *Registry) Names() []core.HandlerName {
	names := make([]core.HandlerName, 0, len(r.handlers))
	for _, n := range core.HandlerNames() {
		if _, ok := r.handlers[n]; ok {
			names = append(names, n)
		}
	}
	return names
}

// Invoke dispatches the request to the named handler. Any failure of the
// underlying handler (error return, timeout, panic) is converted into a
// HandlerResult with error status; Invoke itself never returns an error and
// never panics past its boundary.
func (r *Registry) Invoke(ctx context.Context, req core.DispatchRequest) (result core.HandlerResult) {
	handler, ok := r.handlers[req.Handler]
	if !ok {
		return core.ErrorResult(fmt.Sprintf("%s: %s", core.ErrUnknownHandler, req.Handler))
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("handler panicked", "handler", req.Handler, "panic", rec)
			result = core.ErrorResult(fmt.Sprintf("handler %s panicked: %v", req.Handler, rec))
		}
	}()

	start := time.Now()
	result, err := handler.Process(ctx, req)
	if err != nil {
		r.logger.Warn("handler invocation failed",
			"handler", req.Handler, "duration", time.Since(start), "error", err)
		return core.ErrorResult(fmt.Sprintf("handler %s: %v", req.Handler, err))
	}
	if ctx.Err() != nil {
		return core.ErrorResult(fmt.Sprintf("handler %s: %v", req.Handler, ctx.Err()))
	}

	r.logger.Debug("handler invocation completed",
		"handler", req.Handler, "status", result.Status, "duration", time.Since(start))
	return result
}
