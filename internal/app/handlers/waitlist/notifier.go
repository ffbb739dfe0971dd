package waitlist

import (
	"context"

	handlersupport "hotelbooking/internal/app/handlers/support"
	"hotelbooking/internal/app/policies"
	"hotelbooking/internal/app/uow"
	domainnotifications "hotelbooking/internal/domain/notifications"
	domainrooms "hotelbooking/internal/domain/rooms"
	domainwaitlist "hotelbooking/internal/domain/waitlist"
)

// Notifier alerts the first active waitlist entries of a released room and
// marks them notified so a later release moves on to the next guests.
type Notifier struct {
	UoWFactory uow.UoWFactory
	Sink       policies.Notifier
	handlersupport.Deps
}

func (n *Notifier) NotifyRoomReleased(ctx context.Context, roomID string) (int, error) {
	unit, ctx, err := handlersupport.BeginWriteUnit(ctx, n.UoWFactory)
	if err != nil {
		return 0, err
	}
	defer unit.Close()

	id := domainrooms.RoomID(roomID)
	entries, err := unit.Waitlist().List(ctx, domainwaitlist.Filter{RoomID: id, Status: domainwaitlist.StatusActive})
	if err != nil {
		return 0, err
	}
	roomName := roomID
	if room, err := unit.Rooms().ByID(ctx, id); err == nil && room.Name != "" {
		roomName = room.Name
	}

	now := n.Clock()
	sent := 0
	for _, entry := range domainwaitlist.NextToNotify(entries, id) {
		name := entry.RoomName
		if name == "" {
			name = roomName
		}
		msg := domainnotifications.WaitlistAvailable(entry.UserID, entry.Email, roomID, name, now)
		msg.ID = domainnotifications.NotificationID(n.ID())
		if n.Sink != nil {
			if err := n.Sink.Notify(ctx, msg); err != nil {
				n.Log().Warn("waitlist notification failed", "room_id", roomID, "waitlist_id", entry.ID, "error", err)
				continue
			}
		}
		if err := entry.MarkNotified(now); err != nil {
			continue
		}
		if err := unit.Waitlist().Save(ctx, entry); err != nil {
			n.Log().Warn("waitlist entry update failed", "room_id", roomID, "waitlist_id", entry.ID, "error", err)
			continue
		}
		sent++
	}
	if err := unit.Commit(ctx); err != nil {
		return sent, err
	}
	if sent > 0 {
		n.Log().Info("waitlist notified", "room_id", roomID, "count", sent)
	}
	return sent, nil
}

var _ policies.WaitlistNotifier = (*Notifier)(nil)
