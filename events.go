package quorum

import (
	"context"
	"sync"

	"github.com/tendermint/tendermint/libs/common"
)

// Event is a notification about a state change that has been persisted.
// Tags returns the indexable representation of the event.
type Event interface {
	EventKind() string
	Tags() []common.KVPair
}

// EventSink accepts events emitted by handlers. Implementations must not
// fail the operation that emits an event.
type EventSink interface {
	Emit(ctx Context, ev Event)
}

// EventSinkFunc adapts a plain function to the EventSink interface.
type EventSinkFunc func(ctx Context, ev Event)

// Emit calls f.
func (f EventSinkFunc) Emit(ctx Context, ev Event) {
	f(ctx, ev)
}

// NopEventSink drops all events.
var NopEventSink EventSink = EventSinkFunc(func(Context, Event) {})

// WithEventRecorder returns a context carrying the recorder, so that
// ContextSink can reach it.
func WithEventRecorder(ctx Context, r *EventRecorder) Context {
	return context.WithValue(ctx, contextKeyEvents, r)
}

// GetEventRecorder returns the recorder set on the context, if any.
func GetEventRecorder(ctx Context) (*EventRecorder, bool) {
	r, ok := ctx.Value(contextKeyEvents).(*EventRecorder)
	return r, ok && r != nil
}

// ContextSink logs every event and appends it to the recorder carried by the
// context. Without a recorder the event is only logged.
var ContextSink EventSink = EventSinkFunc(func(ctx Context, ev Event) {
	GetLogger(ctx).Info("event", "kind", ev.EventKind())
	if r, ok := GetEventRecorder(ctx); ok {
		r.Emit(ctx, ev)
	}
})

// EventRecorder collects all emitted events in order. It is safe for
// concurrent use.
type EventRecorder struct {
	mu     sync.Mutex
	events []Event
}

var _ EventSink = (*EventRecorder)(nil)

// Emit appends the event to the recorded list.
func (r *EventRecorder) Emit(ctx Context, ev Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

// Events returns a copy of all recorded events.
func (r *EventRecorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Reset drops all recorded events and returns them.
func (r *EventRecorder) Reset() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	evs := r.events
	r.events = nil
	return evs
}

// Tags flattens the tags of all recorded events.
func (r *EventRecorder) Tags() []common.KVPair {
	r.mu.Lock()
	defer r.mu.Unlock()
	var tags []common.KVPair
	for _, ev := range r.events {
		tags = append(tags, ev.Tags()...)
	}
	return tags
}
