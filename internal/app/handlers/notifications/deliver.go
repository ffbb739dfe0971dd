package notifications

import (
	"context"
	"time"

	"hotelbooking/internal/app/outbox"
	domainnotifications "hotelbooking/internal/domain/notifications"
)

// Deliver hands a notification to the outbox and marks it sent. The caller
// persists the notification.
func Deliver(ctx context.Context, box outbox.Outbox, encoder outbox.EventEncoder, n *domainnotifications.Notification, now time.Time) error {
	if box == nil {
		return nil
	}
	if encoder == nil {
		encoder = outbox.JSONEventEncoder{}
	}
	rec, err := encoder.Encode(n.Requested(now))
	if err != nil {
		return err
	}
	rec.Headers["notification-type"] = string(n.Type)
	if err := box.Add(ctx, rec); err != nil {
		return err
	}
	n.MarkSent(now)
	return nil
}
