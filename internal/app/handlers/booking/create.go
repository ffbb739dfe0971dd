package booking

import (
	"context"
	"errors"
	"strings"

	"hotelbooking/internal/app/auth"
	"hotelbooking/internal/app/commands"
	"hotelbooking/internal/app/dto"
	loyaltyapp "hotelbooking/internal/app/handlers/loyalty"
	handlersupport "hotelbooking/internal/app/handlers/support"
	"hotelbooking/internal/app/middleware"
	"hotelbooking/internal/app/outbox"
	"hotelbooking/internal/app/policies"
	"hotelbooking/internal/app/uow"
	domainbooking "hotelbooking/internal/domain/booking"
	domainloyalty "hotelbooking/internal/domain/loyalty"
	domainnotifications "hotelbooking/internal/domain/notifications"
	domainpricing "hotelbooking/internal/domain/pricing"
	domainrooms "hotelbooking/internal/domain/rooms"
	"hotelbooking/internal/domain/shared/daterange"
)

const createKey = "booking.create"

type CreateCommand struct {
	Principal       auth.Principal
	BookingID       string
	RoomID          string
	CheckIn         string
	CheckOut        string
	Guests          int
	IdempotencyKeyV string
}

func (c CreateCommand) Key() string               { return createKey }
func (c CreateCommand) Actor() auth.Principal     { return c.Principal }
func (c CreateCommand) AllowedRoles() []auth.Role { return []auth.Role{auth.RoleGuest} }
func (c CreateCommand) IdempotencyKey() string    { return c.IdempotencyKeyV }
func (c CreateCommand) ResultPrototype() any      { return &dto.CreateBookingResult{} }

func (c CreateCommand) Validate() error {
	if strings.TrimSpace(c.RoomID) == "" {
		return handlersupport.Invalid("room_id is required")
	}
	if c.Guests < 0 {
		return domainbooking.ErrInvalidGuests
	}
	_, err := parseStay(c.CheckIn, c.CheckOut)
	return err
}

// CreateHandler books a room: price the stay, claim the room with a
// compare-and-swap on its availability, persist the booking, then accrue
// loyalty points and send notifications on a best-effort basis.
type CreateHandler struct {
	UoWFactory uow.UoWFactory
	Calculator domainpricing.Calculator
	Notifier   policies.Notifier
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	handlersupport.Deps
}

func (h *CreateHandler) Handle(ctx context.Context, cmd CreateCommand) (*dto.CreateBookingResult, error) {
	unit, ctx, err := handlersupport.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	defer unit.Close()

	stay, err := parseStay(cmd.CheckIn, cmd.CheckOut)
	if err != nil {
		return nil, err
	}
	now := h.Clock()
	if err := domainbooking.ValidateStay(stay, now); err != nil {
		return nil, err
	}

	room, err := unit.Rooms().ByID(ctx, domainrooms.RoomID(strings.TrimSpace(cmd.RoomID)))
	if err != nil {
		return nil, err
	}
	if !room.IsAvailable() {
		return nil, domainrooms.ErrRoomUnavailable
	}
	clash, err := hasConflict(ctx, unit.Bookings(), room.ID, stay, "")
	if err != nil {
		return nil, err
	}
	if clash {
		return nil, domainrooms.ErrRoomUnavailable
	}

	quote := h.Calculator.Quote(ctx, domainpricing.Input{
		BaseRate: room.Price,
		CheckIn:  stay.CheckIn,
		CheckOut: stay.CheckOut,
		RoomID:   string(room.ID),
		BranchID: room.BranchID,
	})

	userID := cmd.Principal.UserID
	prior, priorErr := unit.Bookings().List(ctx, domainbooking.Filter{UserID: userID})
	if priorErr != nil {
		h.Log().Warn("prior booking lookup failed", "user_id", userID, "error", priorErr)
	}

	if err := unit.Rooms().CompareAndSetAvailability(ctx, room.ID, domainrooms.Available, domainrooms.Unavailable); err != nil {
		if errors.Is(err, domainrooms.ErrAvailabilityConflict) {
			return nil, domainrooms.ErrRoomUnavailable
		}
		return nil, err
	}

	id := cmd.BookingID
	if id == "" {
		id = h.ID()
	}
	booking, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID:             domainbooking.BookingID(id),
		UserID:         userID,
		GuestName:      cmd.Principal.Name,
		GuestEmail:     cmd.Principal.Email,
		RoomID:         room.ID,
		RoomName:       room.Name,
		BranchID:       room.BranchID,
		Range:          stay,
		Guests:         cmd.Guests,
		BasePrice:      quote.BaseTotal,
		Total:          quote.Total,
		PricingApplied: !quote.Fallback,
		CreatedAt:      now,
	})
	if err == nil {
		err = unit.Bookings().Save(ctx, booking)
	}
	if err != nil {
		h.releaseClaim(ctx, unit, room.ID)
		return nil, err
	}
	if err := outbox.RecordPending(ctx, h.Outbox, h.Encoder, booking); err != nil {
		h.releaseClaim(ctx, unit, room.ID)
		return nil, err
	}

	var earned int64
	if priorErr == nil {
		accrual := domainloyalty.AccrualFor(booking.Total.Amount, len(prior))
		if _, err := loyaltyapp.Accrue(ctx, unit.Loyalty(), userID, accrual, now); err != nil {
			h.Log().Warn("loyalty accrual failed", "booking_id", booking.ID, "user_id", userID, "error", err)
		} else {
			earned = accrual.Total()
		}
	}
	h.notify(ctx, booking)

	if err := unit.Commit(ctx); err != nil {
		return nil, err
	}
	h.Log().Info("booking confirmed", "booking_id", booking.ID, "room_id", room.ID, "nights", booking.Nights, "total", booking.Total.String())
	return &dto.CreateBookingResult{
		Booking:        dto.MapBooking(booking),
		PointsEarned:   earned,
		PricingApplied: booking.PricingApplied,
	}, nil
}

// releaseClaim undoes the availability swap after the booking or its event
// could not be stored.
func (h *CreateHandler) releaseClaim(ctx context.Context, unit uow.UnitOfWork, id domainrooms.RoomID) {
	if err := unit.Rooms().CompareAndSetAvailability(ctx, id, domainrooms.Unavailable, domainrooms.Available); err != nil {
		h.Log().Error("room claim compensation failed", "room_id", id, "error", err)
	}
}

func (h *CreateHandler) notify(ctx context.Context, b *domainbooking.Booking) {
	if h.Notifier == nil {
		return
	}
	ref := bookingRef(b)
	now := h.Clock()
	confirmation := domainnotifications.Confirmation(ref, now)
	confirmation.ID = domainnotifications.NotificationID(h.ID())
	if err := h.Notifier.Notify(ctx, confirmation); err != nil {
		h.Log().Warn("booking confirmation failed", "booking_id", b.ID, "error", err)
	}
	if reminder, ok := domainnotifications.CheckInReminder(ref, now); ok {
		reminder.ID = domainnotifications.NotificationID(h.ID())
		if err := h.Notifier.Notify(ctx, reminder); err != nil {
			h.Log().Warn("check-in reminder scheduling failed", "booking_id", b.ID, "error", err)
		}
	}
}

func bookingRef(b *domainbooking.Booking) domainnotifications.BookingRef {
	return domainnotifications.BookingRef{
		BookingID: string(b.ID),
		UserID:    b.UserID,
		Email:     b.GuestEmail,
		RoomID:    string(b.RoomID),
		CheckIn:   b.Range.CheckIn,
		CheckOut:  b.Range.CheckOut,
		Status:    string(b.Status),
	}
}

func parseStay(checkIn, checkOut string) (daterange.DateRange, error) {
	in, err := daterange.ParseDay(checkIn)
	if err != nil {
		return daterange.DateRange{}, handlersupport.Invalid("check_in: %v", err)
	}
	out, err := daterange.ParseDay(checkOut)
	if err != nil {
		return daterange.DateRange{}, handlersupport.Invalid("check_out: %v", err)
	}
	return daterange.DateRange{CheckIn: in, CheckOut: out}, nil
}

// hasConflict reports whether another confirmed booking of the room overlaps stay.
func hasConflict(ctx context.Context, repo domainbooking.Repository, roomID domainrooms.RoomID, stay daterange.DateRange, exclude domainbooking.BookingID) (bool, error) {
	existing, err := repo.List(ctx, domainbooking.Filter{RoomID: roomID, Status: domainbooking.StatusConfirmed})
	if err != nil {
		return false, err
	}
	for _, b := range existing {
		if b.ID != exclude && b.Range.Overlaps(stay) {
			return true, nil
		}
	}
	return false, nil
}

var (
	_ commands.Handler[CreateCommand, *dto.CreateBookingResult] = (*CreateHandler)(nil)
	_ middleware.IdempotentCommand                              = CreateCommand{}
)
