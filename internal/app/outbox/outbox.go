// Package outbox records domain events in the same unit of work as the
// aggregate change that raised them; a relay publishes them later.
package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"hotelbooking/internal/domain/shared/events"
)

// Header keys set on every encoded record.
const (
	HeaderAggregateType = "aggregate-type"
	HeaderEventName     = "event-name"
)

type EventRecord struct {
	ID         string
	Name       string
	Payload    []byte
	OccurredAt time.Time
	Aggregate  string
	Headers    map[string]string
}

// Outbox buffers event records written alongside aggregate changes. Flush is
// called once the command that produced them succeeded.
type Outbox interface {
	Add(ctx context.Context, record EventRecord) error
	Flush(ctx context.Context) error
}

type EventEncoder interface {
	Encode(ev events.DomainEvent) (EventRecord, error)
}

// JSONEventEncoder marshals the event struct as the payload. The aggregate
// type is the event name up to the first dot (booking.cancelled -> booking).
type JSONEventEncoder struct {
	IDGenerator func() string
}

func (e JSONEventEncoder) Encode(ev events.DomainEvent) (EventRecord, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return EventRecord{}, fmt.Errorf("outbox: encode %s: %w", ev.EventName(), err)
	}
	newID := e.IDGenerator
	if newID == nil {
		newID = uuid.NewString
	}
	name := ev.EventName()
	aggregateType, _, _ := strings.Cut(name, ".")
	return EventRecord{
		ID:         newID(),
		Name:       name,
		Payload:    payload,
		OccurredAt: ev.OccurredAt().UTC(),
		Aggregate:  ev.AggregateID(),
		Headers: map[string]string{
			HeaderAggregateType: aggregateType,
			HeaderEventName:     name,
		},
	}, nil
}

// Record encodes each event and adds it to box, stopping at the first error.
func Record(ctx context.Context, box Outbox, encoder EventEncoder, evs ...events.DomainEvent) error {
	if box == nil || len(evs) == 0 {
		return nil
	}
	if encoder == nil {
		encoder = JSONEventEncoder{}
	}
	for _, ev := range evs {
		rec, err := encoder.Encode(ev)
		if err != nil {
			return err
		}
		if err := box.Add(ctx, rec); err != nil {
			return fmt.Errorf("outbox: add %s: %w", rec.Name, err)
		}
	}
	return nil
}

// Recorder is implemented by aggregates that collect domain events.
type Recorder interface {
	Drain() []events.DomainEvent
}

// RecordPending drains the aggregate and writes its events to the outbox.
func RecordPending(ctx context.Context, box Outbox, encoder EventEncoder, agg Recorder) error {
	return Record(ctx, box, encoder, agg.Drain()...)
}
