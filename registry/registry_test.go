package registry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noeul-sumini/travel-agent/core"
	"github.com/noeul-sumini/travel-agent/internal/testutil"
)

func TestNew_RejectsInvalidName(t *testing.T) {
	_, err := New([]core.Handler{testutil.NewStubHandler("Hotel", "x")})
	require.Error(t, err)
}

func TestNew_RejectsDuplicateName(t *testing.T) {
	_, err := New([]core.Handler{
		testutil.NewStubHandler(core.Planner, "a"),
		testutil.NewStubHandler(core.Planner, "b"),
	})
	require.Error(t, err)
}

func TestRegistry_Names_CanonicalOrder(t *testing.T) {
	r, err := New([]core.Handler{
		testutil.NewStubHandler(core.Budget, "b"),
		testutil.NewStubHandler(core.Planner, "p"),
		testutil.NewStubHandler(core.Weather, "w"),
	})
	require.NoError(t, err)

	assert.Equal(t, []core.HandlerName{core.Planner, core.Weather, core.Budget}, r.Names())
	assert.True(t, r.Has(core.Weather))
	assert.False(t, r.Has(core.Maps))
}

func TestRegistry_Invoke_Success(t *testing.T) {
	stub := testutil.NewStubHandler(core.Planner, "Hi")
	r, err := New([]core.Handler{stub})
	require.NoError(t, err)

	result := r.Invoke(context.Background(), core.DispatchRequest{Handler: core.Planner, Content: "Hello"})

	assert.Equal(t, core.StatusSuccess, result.Status)
	assert.Equal(t, "Hi", result.Message)
	require.Equal(t, 1, stub.Calls())
	assert.Equal(t, "Hello", stub.Requests()[0].Content)
}

func TestRegistry_Invoke_UnknownHandler(t *testing.T) {
	r, err := New(nil)
	require.NoError(t, err)

	result := r.Invoke(context.Background(), core.DispatchRequest{Handler: core.Maps})

	assert.Equal(t, core.StatusError, result.Status)
	assert.Contains(t, result.Message, "Maps")
}

func TestRegistry_Invoke_HandlerErrorBecomesErrorResult(t *testing.T) {
	stub := testutil.NewStubHandler(core.Weather, "")
	stub.Err = errors.New("upstream API unreachable")
	r, err := New([]core.Handler{stub})
	require.NoError(t, err)

	result := r.Invoke(context.Background(), core.DispatchRequest{Handler: core.Weather})

	assert.Equal(t, core.StatusError, result.Status)
	assert.Contains(t, result.Message, "upstream API unreachable")
}

func TestRegistry_Invoke_PanicIsRecovered(t *testing.T) {
	stub := testutil.NewStubHandler(core.Flights, "")
	stub.PanicValue = "nil map write"
	r, err := New([]core.Handler{stub})
	require.NoError(t, err)

	result := r.Invoke(context.Background(), core.DispatchRequest{Handler: core.Flights})

	assert.Equal(t, core.StatusError, result.Status)
	assert.Contains(t, result.Message, "panicked")
}

func TestRegistry_Invoke_Timeout(t *testing.T) {
	stub := testutil.NewStubHandler(core.Calendar, "late")
	stub.Delay = 200 * time.Millisecond
	r, err := New([]core.Handler{stub}, func(o *Options) { o.Timeout = 10 * time.Millisecond })
	require.NoError(t, err)

	start := time.Now()
	result := r.Invoke(context.Background(), core.DispatchRequest{Handler: core.Calendar})

	assert.Equal(t, core.StatusError, result.Status)
	assert.Less(t, time.Since(start), 150*time.Millisecond)
}
