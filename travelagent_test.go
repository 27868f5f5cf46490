package travelagent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noeul-sumini/travel-agent/core"
	"github.com/noeul-sumini/travel-agent/internal/testutil"
	"github.com/noeul-sumini/travel-agent/model"
)

func TestNew_DefaultsAreUsable(t *testing.T) {
	agent, err := New()
	require.NoError(t, err)

	outcome, err := agent.Chat(context.Background(), "abc", "Hello")
	require.NoError(t, err)
	assert.Equal(t, core.Planner, outcome.Primary)
	assert.NotEmpty(t, outcome.Message)

	sess, err := agent.History(context.Background(), "abc")
	require.NoError(t, err)
	assert.Len(t, sess.Messages, 2)

	require.NoError(t, agent.ClearSession(context.Background(), "abc"))
	sess, err = agent.History(context.Background(), "abc")
	require.NoError(t, err)
	assert.Empty(t, sess.Messages)
}

func TestNew_HandlerOverride(t *testing.T) {
	agent, err := New(func(o *Options) {
		o.Handlers = []core.Handler{
			testutil.NewStubHandler(core.Planner, "Hi"),
			testutil.NewStubHandler(core.Budget, "Cheap."),
		}
	})
	require.NoError(t, err)

	outcome, err := agent.Chat(context.Background(), "abc", "Hello")
	require.NoError(t, err)
	assert.Equal(t, "Hi\n\nAdditional information (Budget):\nCheap.", outcome.Message)
}

func TestNew_RejectsInvalidHandlers(t *testing.T) {
	_, err := New(func(o *Options) {
		o.Handlers = []core.Handler{testutil.NewStubHandler("Concierge", "nope")}
	})
	assert.Error(t, err)
}

func TestChatStream(t *testing.T) {
	mock := model.NewMock()
	agent, err := New(func(o *Options) {
		o.Generator = mock
	})
	require.NoError(t, err)

	var got []core.StreamEvent
	for ev := range agent.ChatStream(context.Background(), "abc", "Hello", nil) {
		got = append(got, ev)
	}

	require.NotEmpty(t, got)
	assert.Equal(t, core.EventMessage, got[0].Type)
	last := got[len(got)-1]
	assert.Equal(t, core.EventComplete, last.Type)
	assert.True(t, last.Terminal())
}
