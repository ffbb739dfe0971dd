package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hotelbooking/internal/domain/rooms"
	"hotelbooking/internal/domain/shared/daterange"
	"hotelbooking/internal/domain/shared/events"
	"hotelbooking/internal/domain/shared/money"
)

var (
	ErrInvalidGuests   = errors.New("booking: guests count cannot be negative")
	ErrInvalidState    = errors.New("booking: invalid state transition")
	ErrBookingNotFound = errors.New("booking: not found")
	ErrGuestRequired   = errors.New("booking: guest id required")
	ErrInvalidNights   = errors.New("booking: stay must be at least one night")
	ErrCheckInInPast   = errors.New("booking: check-in date is in the past")
	ErrNotOwner        = errors.New("booking: booking belongs to another guest")
	ErrInvalidStatus   = errors.New("booking: unknown status")
)

type BookingID string

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

// Revision keeps the stay and price a modification replaced.
type Revision struct {
	CheckIn    time.Time
	CheckOut   time.Time
	Nights     int
	Total      money.Money
	ReplacedAt time.Time
}

type Booking struct {
	ID             BookingID
	UserID         string
	GuestName      string
	GuestEmail     string
	RoomID         rooms.RoomID
	RoomName       string
	BranchID       string
	Range          daterange.DateRange
	Nights         int
	Guests         int
	BasePrice      money.Money
	Total          money.Money
	PricingApplied bool
	Status         Status
	PaymentStatus  PaymentStatus
	Refund         *Refund
	Revisions      []Revision
	CreatedAt      time.Time
	UpdatedAt      time.Time
	ModifiedAt     time.Time
	Version        int64
	events.EventRecorder
}

// Filter narrows a booking scan. Zero values match everything.
type Filter struct {
	UserID string
	RoomID rooms.RoomID
	Status Status
}

func (f Filter) Matches(b *Booking) bool {
	if f.UserID != "" && b.UserID != f.UserID {
		return false
	}
	if f.RoomID != "" && b.RoomID != f.RoomID {
		return false
	}
	if f.Status != "" && b.Status != f.Status {
		return false
	}
	return true
}

type Repository interface {
	ByID(ctx context.Context, id BookingID) (*Booking, error)
	Save(ctx context.Context, booking *Booking) error
	List(ctx context.Context, filter Filter) ([]*Booking, error)
}

type CreateParams struct {
	ID             BookingID
	UserID         string
	GuestName      string
	GuestEmail     string
	RoomID         rooms.RoomID
	RoomName       string
	BranchID       string
	Range          daterange.DateRange
	Guests         int
	BasePrice      money.Money
	Total          money.Money
	PricingApplied bool
	CreatedAt      time.Time
}

func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	switch s {
	case StatusConfirmed, StatusCancelled, StatusCompleted:
		return s, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
}

// NewBooking creates a confirmed booking with payment pending.
func NewBooking(params CreateParams) (*Booking, error) {
	if params.UserID == "" {
		return nil, ErrGuestRequired
	}
	if params.Guests < 0 {
		return nil, ErrInvalidGuests
	}
	if err := params.Range.Validate(); err != nil {
		return nil, ErrInvalidNights
	}
	guests := params.Guests
	if guests == 0 {
		guests = 1
	}
	now := params.CreatedAt.UTC()
	b := &Booking{
		ID:             params.ID,
		UserID:         params.UserID,
		GuestName:      params.GuestName,
		GuestEmail:     params.GuestEmail,
		RoomID:         params.RoomID,
		RoomName:       params.RoomName,
		BranchID:       params.BranchID,
		Range:          params.Range,
		Nights:         params.Range.Nights(),
		Guests:         guests,
		BasePrice:      params.BasePrice,
		Total:          params.Total,
		PricingApplied: params.PricingApplied,
		Status:         StatusConfirmed,
		PaymentStatus:  PaymentPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	b.Record(BookingConfirmed{
		BookingID: b.ID,
		UserID:    b.UserID,
		RoomID:    b.RoomID,
		BranchID:  b.BranchID,
		CheckIn:   b.Range.CheckIn,
		CheckOut:  b.Range.CheckOut,
		Total:     b.Total,
		At:        now,
	})
	return b, nil
}

// ValidateStay rejects empty stays and check-ins before today.
func ValidateStay(dr daterange.DateRange, now time.Time) error {
	if dr.Validate() != nil || dr.Nights() <= 0 {
		return ErrInvalidNights
	}
	if dr.CheckIn.Before(daterange.Day(now)) {
		return ErrCheckInInPast
	}
	return nil
}

func (b *Booking) OwnedBy(userID string) bool {
	return userID != "" && b.UserID == userID
}

func (b *Booking) IsActive() bool {
	return b.Status == StatusConfirmed
}

// Cancel moves a confirmed booking to cancelled and prices the refund.
func (b *Booking) Cancel(now time.Time) (Refund, error) {
	if b.Status != StatusConfirmed {
		return Refund{}, ErrInvalidState
	}
	refund := RefundFor(b.Total, b.Range.CheckIn, now)
	b.Status = StatusCancelled
	b.Refund = &refund
	b.UpdatedAt = now.UTC()
	b.Record(BookingCancelled{
		BookingID:     b.ID,
		RoomID:        b.RoomID,
		RefundPercent: refund.Percent,
		RefundAmount:  refund.Amount,
		Fee:           refund.Fee,
		At:            b.UpdatedAt,
	})
	return refund, nil
}

func (b *Booking) Complete(now time.Time) error {
	if b.Status != StatusConfirmed {
		return ErrInvalidState
	}
	b.Status = StatusCompleted
	b.UpdatedAt = now.UTC()
	b.Record(BookingCompleted{BookingID: b.ID, RoomID: b.RoomID, At: b.UpdatedAt})
	return nil
}

func (b *Booking) MarkPaid(now time.Time) error {
	if b.Status == StatusCancelled {
		return ErrInvalidState
	}
	if b.PaymentStatus == PaymentPaid {
		return nil
	}
	b.PaymentStatus = PaymentPaid
	b.UpdatedAt = now.UTC()
	b.Record(BookingPaid{BookingID: b.ID, Total: b.Total, At: b.UpdatedAt})
	return nil
}

type ModifyParams struct {
	Range          daterange.DateRange
	BasePrice      money.Money
	Total          money.Money
	PricingApplied bool
	At             time.Time
}

// Modify replaces dates and price in place, keeping the replaced values as a revision.
func (b *Booking) Modify(params ModifyParams) error {
	if b.Status != StatusConfirmed {
		return ErrInvalidState
	}
	if params.Range.Validate() != nil {
		return ErrInvalidNights
	}
	at := params.At.UTC()
	b.Revisions = append(b.Revisions, Revision{
		CheckIn:    b.Range.CheckIn,
		CheckOut:   b.Range.CheckOut,
		Nights:     b.Nights,
		Total:      b.Total,
		ReplacedAt: at,
	})
	b.Range = params.Range
	b.Nights = params.Range.Nights()
	b.BasePrice = params.BasePrice
	b.Total = params.Total
	b.PricingApplied = params.PricingApplied
	b.ModifiedAt = at
	b.UpdatedAt = at
	b.Record(BookingModified{
		BookingID: b.ID,
		CheckIn:   b.Range.CheckIn,
		CheckOut:  b.Range.CheckOut,
		Total:     b.Total,
		At:        at,
	})
	return nil
}
