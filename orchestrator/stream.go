package orchestrator

import (
	"context"

	"github.com/noeul-sumini/travel-agent/core"
)

// streamBufferSize bounds the event channel; a full stream is at most one
// message, four collaborations and one terminal frame.
const streamBufferSize = 8

// Stream runs Handle and delivers its outcome as an ordered, finite,
// non-restartable event sequence:
//
//	Message, then one Collaboration per supporting handler in classification
//	order, then Complete — or a single Error frame on fatal failure.
//
// Session persistence happens inside Handle before the first frame is
// emitted, so a client that disconnects mid-stream can always re-read the
// final state. Only delivery is cancellable: abandoning the channel after
// ctx is done never loses history.
func (o *Orchestrator) Stream(ctx context.Context, sessionID, message string, reqContext map[string]any) <-chan core.StreamEvent {
	events := make(chan core.StreamEvent, streamBufferSize)

	go func() {
		defer close(events)

		outcome, err := o.Handle(ctx, sessionID, message, reqContext)
		if err != nil {
			o.logger.Error("request failed", "session_id", sessionID, "error", err)
			o.emit(ctx, events, core.NewErrorEvent(err.Error()))
			return
		}

		if !o.emit(ctx, events, core.NewMessageEvent(outcome.Message, outcome.Data)) {
			return
		}
		for _, sr := range outcome.Supporting {
			if !o.emit(ctx, events, core.NewCollaborationEvent(sr.Handler, sr.Result)) {
				return
			}
		}
		o.emit(ctx, events, core.NewCompleteEvent())
	}()

	return events
}

func (o *Orchestrator) emit(ctx context.Context, events chan<- core.StreamEvent, ev core.StreamEvent) bool {
	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		o.logger.Debug("stream delivery cancelled", "event", ev.Type)
		return false
	}
}
