package notifications

import "time"

// Requested is emitted when a notification is handed to delivery.
type Requested struct {
	NotificationID NotificationID `json:"notification_id"`
	UserID         string         `json:"user_id,omitempty"`
	Email          string         `json:"email,omitempty"`
	BookingID      string         `json:"booking_id,omitempty"`
	RoomID         string         `json:"room_id,omitempty"`
	Type           Type           `json:"type"`
	Subject        string         `json:"subject"`
	Body           string         `json:"body"`
	At             time.Time      `json:"at"`
}

func (e Requested) EventName() string     { return "notification.requested" }
func (e Requested) AggregateID() string   { return string(e.NotificationID) }
func (e Requested) OccurredAt() time.Time { return e.At }

func (n *Notification) Requested(now time.Time) Requested {
	return Requested{
		NotificationID: n.ID,
		UserID:         n.UserID,
		Email:          n.Email,
		BookingID:      n.BookingID,
		RoomID:         n.RoomID,
		Type:           n.Type,
		Subject:        n.Title,
		Body:           n.Message,
		At:             now.UTC(),
	}
}
