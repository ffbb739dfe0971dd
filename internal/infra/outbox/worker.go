// Package outbox relays booking, waitlist and notification events from the
// outbox collection to Kafka or RabbitMQ.
package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrWorkerNotConfigured = errors.New("outbox: worker missing dependencies")

const (
	defaultInterval = 500 * time.Millisecond
	defaultBatch    = 32
	defaultRetry    = 5 * time.Second
	defaultSource   = "app://hotelbooking"
	purgeEvery      = time.Hour
	topicSuffix     = ".events.v1"
)

// Store is the claimable side of the outbox the relay drains.
type Store interface {
	Claim(ctx context.Context, workerID string) (*EventDocument, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, next time.Time, errMsg string) error
}

// Purger is implemented by stores that keep relayed rows around.
type Purger interface {
	PurgeSent(ctx context.Context, before time.Time) (int64, error)
}

type Producer interface {
	Publish(ctx context.Context, topic string, key string, payload []byte, headers map[string]string) error
}

// Worker claims outbox rows one at a time and publishes each as a CloudEvent
// keyed by its aggregate id, so events of one booking stay ordered within a
// partition. A failed publish reschedules the row using Backoff.
type Worker struct {
	Store       Store
	Producer    Producer
	Interval    time.Duration
	TopicPrefix string
	Source      string
	ID          string
	Backoff     []time.Duration
	Logger      *slog.Logger
	// Batch caps rows per tick, default 32.
	Batch int
	// OnRelayed is called after a tick that published rows.
	OnRelayed func(n int)
	// Retention enables an hourly purge of relayed rows older than it.
	Retention time.Duration
}

func (w *Worker) Run(ctx context.Context) error {
	if w.Store == nil || w.Producer == nil {
		return ErrWorkerNotConfigured
	}
	relay := time.NewTicker(w.interval())
	defer relay.Stop()

	var purge <-chan time.Time
	if w.purger() != nil {
		t := time.NewTicker(purgeEvery)
		defer t.Stop()
		purge = t.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-purge:
			w.Purge(ctx)
		case <-relay.C:
			w.tick(ctx)
		}
	}
}

func (w *Worker) tick(ctx context.Context) {
	n, err := w.Drain(ctx)
	if err != nil && ctx.Err() == nil {
		w.logger().Error("outbox relay failed", "relay", w.workerID(), "error", err)
	}
	if n > 0 && w.OnRelayed != nil {
		w.OnRelayed(n)
	}
}

// Drain relays up to Batch rows and returns how many were published. It stops
// early once the store has nothing due.
func (w *Worker) Drain(ctx context.Context) (int, error) {
	sent := 0
	for i, n := 0, w.batch(); i < n; i++ {
		doc, err := w.Store.Claim(ctx, w.workerID())
		if err != nil {
			return sent, fmt.Errorf("outbox: claim: %w", err)
		}
		if doc == nil {
			return sent, nil
		}
		if err := w.publish(ctx, doc); err != nil {
			w.logger().Warn("outbox publish failed",
				"event", doc.Name, "id", doc.ID, "attempts", doc.Attempts, "error", err)
			if markErr := w.Store.MarkFailed(ctx, doc.ID, w.nextRetry(doc.Attempts), err.Error()); markErr != nil {
				return sent, fmt.Errorf("outbox: mark %s failed: %w", doc.ID, markErr)
			}
			continue
		}
		if err := w.Store.MarkSent(ctx, doc.ID); err != nil {
			return sent, fmt.Errorf("outbox: mark %s sent: %w", doc.ID, err)
		}
		sent++
	}
	return sent, nil
}

func (w *Worker) publish(ctx context.Context, doc *EventDocument) error {
	evt := NewCloudEvent(doc, w.source())
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return w.Producer.Publish(ctx, w.topicFor(doc.Name), doc.Aggregate, payload, evt.Headers(doc.Headers))
}

// Purge drops relayed rows past Retention and reports how many went.
func (w *Worker) Purge(ctx context.Context) int64 {
	p := w.purger()
	if p == nil {
		return 0
	}
	n, err := p.PurgeSent(ctx, time.Now().UTC().Add(-w.Retention))
	switch {
	case err != nil:
		w.logger().Warn("outbox purge failed", "error", err)
		return 0
	case n > 0:
		w.logger().Info("outbox purged", "rows", n, "retention", w.Retention)
	}
	return n
}

func (w *Worker) purger() Purger {
	p, ok := w.Store.(Purger)
	if !ok || w.Retention <= 0 {
		return nil
	}
	return p
}

// topicFor maps booking.confirmed to <prefix>booking.events.v1.
func (w *Worker) topicFor(name string) string {
	segment, _, _ := strings.Cut(name, ".")
	return w.TopicPrefix + segment + topicSuffix
}

// nextRetry picks Backoff[attempts], repeating the last step once attempts
// outgrow the schedule.
func (w *Worker) nextRetry(attempts int) time.Time {
	delay := defaultRetry
	if n := len(w.Backoff); n > 0 {
		delay = w.Backoff[min(attempts, n-1)]
	}
	return time.Now().Add(delay)
}

func (w *Worker) workerID() string {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	return w.ID
}

func (w *Worker) interval() time.Duration {
	if w.Interval > 0 {
		return w.Interval
	}
	return defaultInterval
}

func (w *Worker) batch() int {
	if w.Batch > 0 {
		return w.Batch
	}
	return defaultBatch
}

func (w *Worker) source() string {
	if w.Source != "" {
		return w.Source
	}
	return defaultSource
}

func (w *Worker) logger() *slog.Logger {
	if w.Logger != nil {
		return w.Logger
	}
	return slog.Default()
}
