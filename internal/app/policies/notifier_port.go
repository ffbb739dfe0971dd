package policies

import (
	"context"

	domainnotifications "hotelbooking/internal/domain/notifications"
)

// Notifier accepts a notification for delivery. Pending notifications
// scheduled in the future are stored and dispatched when due.
type Notifier interface {
	Notify(ctx context.Context, n *domainnotifications.Notification) error
}

// WaitlistNotifier alerts queued guests that a room was released.
type WaitlistNotifier interface {
	NotifyRoomReleased(ctx context.Context, roomID string) (int, error)
}
