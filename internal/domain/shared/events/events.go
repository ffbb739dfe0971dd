// Package events holds the contract shared by booking-side domain events.
package events

import "time"

// DomainEvent is a fact recorded by an aggregate and relayed through the outbox.
type DomainEvent interface {
	EventName() string
	AggregateID() string
	OccurredAt() time.Time
}

// EventRecorder is embedded by aggregates to collect events until the unit of
// work that changed them commits. The zero value is ready to use.
type EventRecorder struct {
	pending []DomainEvent
}

// Record appends events, skipping nils.
func (r *EventRecorder) Record(evs ...DomainEvent) {
	for _, ev := range evs {
		if ev != nil {
			r.pending = append(r.pending, ev)
		}
	}
}

// Pending returns a copy of the recorded events.
func (r *EventRecorder) Pending() []DomainEvent {
	return append([]DomainEvent(nil), r.pending...)
}

func (r *EventRecorder) Clear() {
	r.pending = nil
}

// Drain returns the recorded events and forgets them.
func (r *EventRecorder) Drain() []DomainEvent {
	out := r.pending
	r.pending = nil
	return out
}
