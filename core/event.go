package core

// EventType tags a stream event variant on the wire.
type EventType string

const (
	// EventMessage carries the aggregated answer text.
	EventMessage EventType = "message"
	// EventCollaboration carries one supporting handler's raw result.
	EventCollaboration EventType = "collaboration"
	// EventComplete terminates a successful stream.
	EventComplete EventType = "complete"
	// EventError terminates a failed stream; no events follow it.
	EventError EventType = "error"
)

// StreamEvent is one frame of the incremental delivery protocol. A stream is
// a finite, ordered, non-restartable sequence of these, terminated by exactly
// one Complete or Error frame.
type StreamEvent struct {
	Type    EventType      `json:"type"`
	Content string         `json:"content,omitempty"`
	Agent   HandlerName    `json:"agent,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

// Terminal reports whether no further events may follow this one.
func (e StreamEvent) Terminal() bool {
	return e.Type == EventComplete || e.Type == EventError
}

// NewMessageEvent builds the frame carrying the aggregated answer.
func NewMessageEvent(content string, data map[string]any) StreamEvent {
	return StreamEvent{Type: EventMessage, Content: content, Data: data}
}

// NewCollaborationEvent builds a frame exposing one supporting handler's raw result.
func NewCollaborationEvent(handler HandlerName, result HandlerResult) StreamEvent {
	return StreamEvent{Type: EventCollaboration, Agent: handler, Content: result.Message, Data: result.Data}
}

// NewCompleteEvent builds the terminal frame of a successful stream.
func NewCompleteEvent() StreamEvent { return StreamEvent{Type: EventComplete} }

// NewErrorEvent builds the terminal frame of a failed stream.
func NewErrorEvent(description string) StreamEvent {
	return StreamEvent{Type: EventError, Content: description}
}
