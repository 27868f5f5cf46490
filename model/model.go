// Package model abstracts the text-generation collaborator used by the
// specialized handlers. The orchestrator never sees this interface; handlers
// call it internally to produce their answers.
package model

import (
	"context"
	"fmt"

	"github.com/noeul-sumini/travel-agent/core"
)

// Request is the normalized generation input: an instruction block (the
// handler's role prompt) and the conversation turns to answer.
type Request struct {
	Instructions string
	Messages     []core.Message
}

// Info contains metadata about a generator implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "mock", ...
}

// Generator is the minimal interface handlers require to produce free text.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)

	// Info returns information about the generator implementation.
	Info() Info
}

// Mock is a lightweight in-memory Generator useful for tests and examples.
type Mock struct {
	info      Info
	responses map[string]string
}

var _ Generator = (*Mock)(nil)

// NewMock constructs a Mock generator.
func NewMock() *Mock {
	return &Mock{
		info:      Info{Name: "mock", Provider: "mock"},
		responses: make(map[string]string),
	}
}

// AddResponse registers a deterministic canned completion for an input prompt.
func (m *Mock) AddResponse(prompt, response string) { m.responses[prompt] = response }

// Generate returns the canned completion for the last message, or an echo
// when none is registered.
func (m *Mock) Generate(_ context.Context, req Request) (string, error) {
	if len(req.Messages) == 0 {
		return "", fmt.Errorf("mock generator: empty request")
	}
	last := req.Messages[len(req.Messages)-1].Content
	if resp, ok := m.responses[last]; ok {
		return resp, nil
	}
	return fmt.Sprintf("Mock response to: %s", last), nil
}

// Info implements Generator.
func (m *Mock) Info() Info { return m.info }
