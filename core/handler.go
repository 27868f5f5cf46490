package core

import "context"

// HandlerName identifies one of the specialized travel handlers. The set is
// closed: classification, dispatch and aggregation only ever deal with the
// names declared below.
type HandlerName string

const (
	// Planner is the general-purpose travel planning handler and the
	// fallback when no specialized handler matches a request.
	Planner HandlerName = "Planner"
	// Calendar handles scheduling and itinerary date questions.
	Calendar HandlerName = "Calendar"
	// Weather handles forecast and climate questions.
	Weather HandlerName = "Weather"
	// Maps handles locations, directions and nearby places.
	Maps HandlerName = "Maps"
	// Flights handles flight search and airport questions.
	Flights HandlerName = "Flights"
	// Budget handles travel cost estimation and expense tracking.
	Budget HandlerName = "Budget"
)

// HandlerNames returns the closed handler set in its canonical order.
func HandlerNames() []HandlerName {
	return []HandlerName{Planner, Calendar, Weather, Maps, Flights, Budget}
}

// Valid reports whether the name is a member of the closed handler set.
func (n HandlerName) Valid() bool {
	switch n {
	case Planner, Calendar, Weather, Maps, Flights, Budget:
		return true
	}
	return false
}

// DispatchRequest is the input to a single handler invocation.
type DispatchRequest struct {
	Handler HandlerName    `json:"handler"`
	Content string         `json:"content"`
	Context map[string]any `json:"context,omitempty"`
}

// ResultStatus indicates whether a handler invocation succeeded.
type ResultStatus string

const (
	// StatusSuccess marks a handler result that carries a usable answer.
	StatusSuccess ResultStatus = "success"
	// StatusError marks a failed invocation; Message holds the description.
	StatusError ResultStatus = "error"
)

// HandlerResult is the outcome of exactly one handler invocation. It is
// never mutated after creation.
type HandlerResult struct {
	Status  ResultStatus   `json:"status"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

// IsError reports whether the invocation failed.
func (r HandlerResult) IsError() bool { return r.Status == StatusError }

// SuccessResult builds a success result with an answer text and optional data.
func SuccessResult(message string, data map[string]any) HandlerResult {
	return HandlerResult{Status: StatusSuccess, Message: message, Data: data}
}

// ErrorResult builds an error result carrying a human-readable description.
func ErrorResult(message string) HandlerResult {
	return HandlerResult{Status: StatusError, Message: message}
}

// Handler is the single capability every specialized handler implements.
// The orchestrator depends on nothing else: concrete handlers are
// interchangeable implementations registered by name at startup.
//
// Implementations must respect context cancellation and must not call back
// into the orchestrator or into other handlers; cross-handler needs are
// expressed by the orchestrator re-dispatching.
type Handler interface {
	Name() HandlerName
	Process(ctx context.Context, req DispatchRequest) (HandlerResult, error)
}
