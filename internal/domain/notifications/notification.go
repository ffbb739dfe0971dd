package notifications

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hotelbooking/internal/domain/shared/daterange"
)

var (
	ErrNotificationNotFound = errors.New("notifications: not found")
	ErrRecipientRequired    = errors.New("notifications: user id or email required")
)

type NotificationID string

type Type string

const (
	TypeBookingConfirmation Type = "booking_confirmation"
	TypeCheckInReminder     Type = "check_in_reminder"
	TypeWaitlistAvailable   Type = "waitlist_available"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusSent    Status = "sent"
	StatusFailed  Status = "failed"
)

// ReminderLead is how long before check-in the reminder fires.
const ReminderLead = 24 * time.Hour

type Notification struct {
	ID           NotificationID
	UserID       string
	Email        string
	BookingID    string
	RoomID       string
	Type         Type
	Title        string
	Message      string
	Status       Status
	Attempts     int
	LastError    string
	ScheduledFor time.Time
	SentAt       time.Time
	CreatedAt    time.Time
}

// Filter narrows a notification scan. Zero values match everything; DueBy
// selects pending notifications scheduled at or before that instant.
type Filter struct {
	UserID string
	Status Status
	DueBy  time.Time
	Limit  int
}

func (f Filter) Matches(n *Notification) bool {
	if f.UserID != "" && n.UserID != f.UserID {
		return false
	}
	if f.Status != "" && n.Status != f.Status {
		return false
	}
	if !f.DueBy.IsZero() && (n.Status != StatusPending || n.ScheduledFor.After(f.DueBy)) {
		return false
	}
	return true
}

type Repository interface {
	ByID(ctx context.Context, id NotificationID) (*Notification, error)
	Save(ctx context.Context, n *Notification) error
	List(ctx context.Context, filter Filter) ([]*Notification, error)
}

func (n *Notification) Validate() error {
	if n.UserID == "" && n.Email == "" {
		return ErrRecipientRequired
	}
	return nil
}

// Due reports whether a pending notification should be dispatched at now.
func (n *Notification) Due(now time.Time) bool {
	return n.Status == StatusPending && !n.ScheduledFor.After(now)
}

func (n *Notification) MarkSent(now time.Time) {
	n.Status = StatusSent
	n.SentAt = now.UTC()
	n.LastError = ""
}

func (n *Notification) MarkFailed(err error) {
	n.Attempts++
	if err != nil {
		n.LastError = err.Error()
	}
	n.Status = StatusFailed
}

// Retry puts a failed notification back in the pending queue.
func (n *Notification) Retry() {
	if n.Status == StatusFailed {
		n.Status = StatusPending
	}
}

type BookingRef struct {
	BookingID string
	UserID    string
	Email     string
	RoomID    string
	CheckIn   time.Time
	CheckOut  time.Time
	Status    string
}

func Confirmation(ref BookingRef, now time.Time) *Notification {
	return &Notification{
		UserID:    ref.UserID,
		Email:     ref.Email,
		BookingID: ref.BookingID,
		RoomID:    ref.RoomID,
		Type:      TypeBookingConfirmation,
		Title:     "Booking Confirmation - " + ref.BookingID,
		Message: fmt.Sprintf(
			"Your booking has been confirmed.\n\nBooking ID: %s\nCheck-in: %s\nCheck-out: %s\nStatus: %s\n\nThank you for choosing us!",
			ref.BookingID,
			ref.CheckIn.Format(daterange.DayLayout),
			ref.CheckOut.Format(daterange.DayLayout),
			ref.Status,
		),
		Status:       StatusPending,
		ScheduledFor: now.UTC(),
		CreatedAt:    now.UTC(),
	}
}

// CheckInReminder returns the reminder for check-in minus ReminderLead, or
// false when that instant is not in the future.
func CheckInReminder(ref BookingRef, now time.Time) (*Notification, bool) {
	at := ref.CheckIn.Add(-ReminderLead)
	if !at.After(now) {
		return nil, false
	}
	return &Notification{
		UserID:       ref.UserID,
		Email:        ref.Email,
		BookingID:    ref.BookingID,
		RoomID:       ref.RoomID,
		Type:         TypeCheckInReminder,
		Title:        "Check-in Tomorrow!",
		Message:      "Your stay begins tomorrow. Check-in time is 2:00 PM.",
		Status:       StatusPending,
		ScheduledFor: at.UTC(),
		CreatedAt:    now.UTC(),
	}, true
}

func WaitlistAvailable(userID, email, roomID, roomName string, now time.Time) *Notification {
	return &Notification{
		UserID:       userID,
		Email:        email,
		RoomID:       roomID,
		Type:         TypeWaitlistAvailable,
		Title:        "Room Available!",
		Message:      "A room you're interested in is now available: " + roomName,
		Status:       StatusPending,
		ScheduledFor: now.UTC(),
		CreatedAt:    now.UTC(),
	}
}
