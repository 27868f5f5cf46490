package core

import "errors"

// Error categories for the coordination pipeline. Wrap these with
// fmt.Errorf("...: %w", ...) and test with errors.Is.
var (
	// ErrClassification marks malformed or empty input that cannot be routed.
	ErrClassification = errors.New("classification failed")
	// ErrHandlerInvocation marks a failed handler call. Fatal for the
	// primary handler, recovered locally for supporting handlers.
	ErrHandlerInvocation = errors.New("handler invocation failed")
	// ErrPersistence marks an unreachable or failing session store.
	// Always fatal: silently dropping history corrupts future requests.
	ErrPersistence = errors.New("session persistence failed")
	// ErrAggregation marks an internal invariant violation during result
	// merging. Should not occur in correct code.
	ErrAggregation = errors.New("aggregation failed")
	// ErrUnknownHandler marks a dispatch against a name outside the
	// registered set.
	ErrUnknownHandler = errors.New("unknown handler")
)
