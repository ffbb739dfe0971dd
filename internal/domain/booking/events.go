package booking

import (
	"time"

	"hotelbooking/internal/domain/rooms"
	"hotelbooking/internal/domain/shared/money"
)

type BookingConfirmed struct {
	BookingID BookingID    `json:"booking_id"`
	UserID    string       `json:"user_id"`
	RoomID    rooms.RoomID `json:"room_id"`
	BranchID  string       `json:"branch_id"`
	CheckIn   time.Time    `json:"check_in"`
	CheckOut  time.Time    `json:"check_out"`
	Total     money.Money  `json:"total"`
	At        time.Time    `json:"at"`
}

func (e BookingConfirmed) EventName() string     { return "booking.confirmed" }
func (e BookingConfirmed) AggregateID() string   { return string(e.BookingID) }
func (e BookingConfirmed) OccurredAt() time.Time { return e.At }

type BookingCancelled struct {
	BookingID     BookingID    `json:"booking_id"`
	RoomID        rooms.RoomID `json:"room_id"`
	RefundPercent int          `json:"refund_percent"`
	RefundAmount  money.Money  `json:"refund_amount"`
	Fee           money.Money  `json:"cancellation_fee"`
	At            time.Time    `json:"at"`
}

func (e BookingCancelled) EventName() string     { return "booking.cancelled" }
func (e BookingCancelled) AggregateID() string   { return string(e.BookingID) }
func (e BookingCancelled) OccurredAt() time.Time { return e.At }

type BookingModified struct {
	BookingID BookingID   `json:"booking_id"`
	CheckIn   time.Time   `json:"check_in"`
	CheckOut  time.Time   `json:"check_out"`
	Total     money.Money `json:"total"`
	At        time.Time   `json:"at"`
}

func (e BookingModified) EventName() string     { return "booking.modified" }
func (e BookingModified) AggregateID() string   { return string(e.BookingID) }
func (e BookingModified) OccurredAt() time.Time { return e.At }

type BookingCompleted struct {
	BookingID BookingID    `json:"booking_id"`
	RoomID    rooms.RoomID `json:"room_id"`
	At        time.Time    `json:"at"`
}

func (e BookingCompleted) EventName() string     { return "booking.completed" }
func (e BookingCompleted) AggregateID() string   { return string(e.BookingID) }
func (e BookingCompleted) OccurredAt() time.Time { return e.At }

type BookingPaid struct {
	BookingID BookingID   `json:"booking_id"`
	Total     money.Money `json:"total"`
	At        time.Time   `json:"at"`
}

func (e BookingPaid) EventName() string     { return "booking.paid" }
func (e BookingPaid) AggregateID() string   { return string(e.BookingID) }
func (e BookingPaid) OccurredAt() time.Time { return e.At }
