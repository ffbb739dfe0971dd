package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	appoutbox "hotelbooking/internal/app/outbox"
	infraoutbox "hotelbooking/internal/infra/outbox"
)

// Outbox keeps event rows in memory until the relay marks them sent.
type Outbox struct {
	mu   sync.Mutex
	rows []*infraoutbox.EventDocument
	now  func() time.Time
}

func NewOutbox() *Outbox {
	return &Outbox{now: time.Now}
}

func (o *Outbox) Add(ctx context.Context, record appoutbox.EventRecord) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.rows = append(o.rows, &infraoutbox.EventDocument{
		ID:          record.ID,
		Name:        record.Name,
		Payload:     append([]byte(nil), record.Payload...),
		OccurredAt:  record.OccurredAt,
		Aggregate:   record.Aggregate,
		Headers:     maps.Clone(record.Headers),
		State:       infraoutbox.StateNew,
		NextAttempt: o.now().UTC(),
	})
	return nil
}

// Flush is a no-op; rows stay until relayed.
func (o *Outbox) Flush(ctx context.Context) error {
	return nil
}

func (o *Outbox) Claim(ctx context.Context, workerID string) (*infraoutbox.EventDocument, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	now := o.now().UTC()
	for _, row := range o.rows {
		if row.State != infraoutbox.StateNew && row.State != infraoutbox.StateFailed {
			continue
		}
		if row.NextAttempt.After(now) {
			continue
		}
		row.State = infraoutbox.StateClaimed
		row.ClaimedBy = workerID
		row.ClaimedAt = now
		cp := *row
		cp.Headers = maps.Clone(row.Headers)
		return &cp, nil
	}
	return nil, nil
}

// MarkSent drops the row.
func (o *Outbox) MarkSent(ctx context.Context, id string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i, row := range o.rows {
		if row.ID == id {
			o.rows = append(o.rows[:i], o.rows[i+1:]...)
			return nil
		}
	}
	return nil
}

func (o *Outbox) MarkFailed(ctx context.Context, id string, next time.Time, errMsg string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, row := range o.rows {
		if row.ID == id {
			row.State = infraoutbox.StateFailed
			row.NextAttempt = next
			row.LastError = errMsg
			row.Attempts++
			return nil
		}
	}
	return nil
}

// Pending lists rows not yet relayed, oldest first.
func (o *Outbox) Pending() []infraoutbox.EventDocument {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]infraoutbox.EventDocument, 0, len(o.rows))
	for _, row := range o.rows {
		out = append(out, *row)
	}
	return out
}

var (
	_ appoutbox.Outbox  = (*Outbox)(nil)
	_ infraoutbox.Store = (*Outbox)(nil)
)
