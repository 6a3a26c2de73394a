// Package events collects engine events and fans them out to observers.
// Observers run after a turn completes, single pass, in registration order.
package events

import "github.com/nathoo/battlecore/types"

// Sink receives events as they are emitted.
type Sink interface {
	Emit(types.Event)
}

// Handler observes a dispatched event.
type Handler func(types.Event)

// Recorder buffers emitted events until they are drained.
type Recorder struct {
	pending []types.Event
}

// Emit appends an event to the buffer.
func (r *Recorder) Emit(e types.Event) {
	r.pending = append(r.pending, e)
}

// Drain returns the buffered events in emission order and empties the buffer.
func (r *Recorder) Drain() []types.Event {
	out := r.pending
	r.pending = nil
	return out
}

// Dispatch runs every handler against every event. Single pass: handlers
// cannot emit further events into the same dispatch.
func Dispatch(evts []types.Event, handlers []Handler) {
	for _, event := range evts {
		for _, h := range handlers {
			h(event)
		}
	}
}
