package agent

import (
	"context"
	"sync/atomic"

	"github.com/tmc/langchaingo/callbacks"
)

// EventKind tags a streamed run event.
type EventKind string

const (
	EventRouted EventKind = "routed" // router picked a specialist
	EventChunk  EventKind = "chunk"  // model output text
	EventTool   EventKind = "tool"   // a tool finished and returned output
)

// Event is one unit of a streamed orchestrator run.
type Event struct {
	Kind EventKind
	Text string
}

func emit(ctx context.Context, events chan<- Event, ev Event) {
	select {
	case events <- ev:
	case <-ctx.Done():
	}
}

// streamHandler forwards model chunks and tool observations from the
// agent executor into the run's event channel.
type streamHandler struct {
	callbacks.SimpleHandler
	ctx     context.Context
	events  chan<- Event
	chunked atomic.Bool
}

func newStreamHandler(ctx context.Context, events chan<- Event) *streamHandler {
	return &streamHandler{ctx: ctx, events: events}
}

func (h *streamHandler) HandleStreamingFunc(_ context.Context, chunk []byte) {
	if len(chunk) == 0 {
		return
	}
	h.chunked.Store(true)
	emit(h.ctx, h.events, Event{Kind: EventChunk, Text: string(chunk)})
}

func (h *streamHandler) HandleToolEnd(_ context.Context, output string) {
	emit(h.ctx, h.events, Event{Kind: EventTool, Text: output})
}

func (h *streamHandler) sawChunks() bool {
	return h.chunked.Load()
}

var _ callbacks.Handler = (*streamHandler)(nil)
