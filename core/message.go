package core

import "time"

// Role distinguishes the author of a conversation message.
type Role string

const (
	// RoleUser marks a message authored by the caller.
	RoleUser Role = "user"
	// RoleAssistant marks a message authored by the coordinator.
	RoleAssistant Role = "assistant"
)

// Message is one entry in a session's conversation history. Immutable once
// appended.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// NewUserMessage creates a user message stamped with the current UTC time.
func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content, Timestamp: time.Now().UTC()}
}

// NewAssistantMessage creates an assistant message stamped with the current UTC time.
func NewAssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content, Timestamp: time.Now().UTC()}
}
