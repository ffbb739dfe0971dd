package rooms

import (
	"context"
	"log/slog"

	"hotelbooking/internal/app/policies"
	domainrooms "hotelbooking/internal/domain/rooms"
)

// ReleaseWaitlist runs the waitlist notifier for a freed room. Failures are
// logged and reported as zero notifications.
func ReleaseWaitlist(ctx context.Context, notifier policies.WaitlistNotifier, logger *slog.Logger, id domainrooms.RoomID) int {
	if notifier == nil {
		return 0
	}
	n, err := notifier.NotifyRoomReleased(ctx, string(id))
	if err != nil {
		logger.Warn("waitlist notification failed", "room_id", id, "error", err)
		return 0
	}
	return n
}
