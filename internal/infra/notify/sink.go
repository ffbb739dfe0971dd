package notify

import (
	"context"
	"fmt"

	notificationsapp "hotelbooking/internal/app/handlers/notifications"
	handlersupport "hotelbooking/internal/app/handlers/support"
	"hotelbooking/internal/app/outbox"
	"hotelbooking/internal/app/policies"
	"hotelbooking/internal/app/uow"
	domainnotifications "hotelbooking/internal/domain/notifications"
)

// Sink stores every notification and enqueues the due ones on the outbox as
// notification.requested. Scheduled ones wait for the reminder worker. It
// joins the caller's unit of work when one is in the context.
type Sink struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	handlersupport.Deps
}

func (s *Sink) Notify(ctx context.Context, n *domainnotifications.Notification) error {
	if n.ID == "" {
		n.ID = domainnotifications.NotificationID(s.ID())
	}
	if err := n.Validate(); err != nil {
		return err
	}
	unit, ctx, err := handlersupport.BeginWriteUnit(ctx, s.UoWFactory)
	if err != nil {
		return err
	}
	defer unit.Close()

	now := s.Clock()
	var deliverErr error
	if n.Due(now) {
		if deliverErr = notificationsapp.Deliver(ctx, s.Outbox, s.Encoder, n, now); deliverErr != nil {
			n.MarkFailed(deliverErr)
		}
	}
	if err := unit.Notifications().Save(ctx, n); err != nil {
		return err
	}
	if err := unit.Commit(ctx); err != nil {
		return err
	}
	if deliverErr != nil {
		return fmt.Errorf("notify: deliver %s: %w", n.Type, deliverErr)
	}
	s.Log().Debug("notification accepted", "notification_id", n.ID, "type", n.Type, "status", n.Status, "booking_id", n.BookingID)
	return nil
}

var _ policies.Notifier = (*Sink)(nil)
