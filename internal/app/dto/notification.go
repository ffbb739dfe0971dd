package dto

import (
	"time"

	domainnotifications "hotelbooking/internal/domain/notifications"
)

type NotificationDTO struct {
	ID           string     `json:"notification_id"`
	Type         string     `json:"type"`
	Title        string     `json:"title"`
	Message      string     `json:"message"`
	BookingID    string     `json:"booking_id,omitempty"`
	RoomID       string     `json:"room_id,omitempty"`
	Status       string     `json:"status"`
	ScheduledFor time.Time  `json:"scheduled_for"`
	SentAt       *time.Time `json:"sent_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

func MapNotification(n *domainnotifications.Notification) NotificationDTO {
	out := NotificationDTO{
		ID:           string(n.ID),
		Type:         string(n.Type),
		Title:        n.Title,
		Message:      n.Message,
		BookingID:    n.BookingID,
		RoomID:       n.RoomID,
		Status:       string(n.Status),
		ScheduledFor: n.ScheduledFor,
		CreatedAt:    n.CreatedAt,
	}
	if !n.SentAt.IsZero() {
		at := n.SentAt
		out.SentAt = &at
	}
	return out
}

type NotificationCollection struct {
	Items []NotificationDTO `json:"items"`
}
