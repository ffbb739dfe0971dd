package booking

import (
	"context"
	"strings"

	"hotelbooking/internal/app/auth"
	"hotelbooking/internal/app/commands"
	"hotelbooking/internal/app/dto"
	handlersupport "hotelbooking/internal/app/handlers/support"
	"hotelbooking/internal/app/outbox"
	"hotelbooking/internal/app/policies"
	"hotelbooking/internal/app/uow"
	domainbooking "hotelbooking/internal/domain/booking"
	domainrooms "hotelbooking/internal/domain/rooms"
)

const updateStatusKey = "booking.update_status"

// StatusPaid is accepted alongside the booking statuses and settles payment.
const StatusPaid = "paid"

type UpdateStatusCommand struct {
	Principal auth.Principal
	BookingID string
	Status    string
}

func (c UpdateStatusCommand) Key() string               { return updateStatusKey }
func (c UpdateStatusCommand) Actor() auth.Principal     { return c.Principal }
func (c UpdateStatusCommand) AllowedRoles() []auth.Role { return auth.StaffRoles }

func (c UpdateStatusCommand) target() string {
	return strings.ToLower(strings.TrimSpace(c.Status))
}

func (c UpdateStatusCommand) Validate() error {
	if c.BookingID == "" {
		return handlersupport.Invalid("booking_id is required")
	}
	if c.target() == StatusPaid {
		return nil
	}
	if _, err := domainbooking.ParseStatus(c.Status); err != nil {
		return handlersupport.Invalid("%v", err)
	}
	return nil
}

// UpdateStatusHandler applies staff status changes. Cancelling or completing
// frees the room and notifies its waitlist; confirming holds the room.
type UpdateStatusHandler struct {
	UoWFactory uow.UoWFactory
	Waitlist   policies.WaitlistNotifier
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	handlersupport.Deps
}

func (h *UpdateStatusHandler) Handle(ctx context.Context, cmd UpdateStatusCommand) (dto.BookingDTO, error) {
	unit, ctx, err := handlersupport.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.BookingDTO{}, err
	}
	defer unit.Close()

	b, err := unit.Bookings().ByID(ctx, domainbooking.BookingID(cmd.BookingID))
	if err != nil {
		return dto.BookingDTO{}, err
	}
	now := h.Clock()
	release, hold := false, false
	switch target := cmd.target(); target {
	case StatusPaid:
		err = b.MarkPaid(now)
	case string(domainbooking.StatusCancelled):
		_, err = b.Cancel(now)
		release = true
	case string(domainbooking.StatusCompleted):
		err = b.Complete(now)
		release = true
	case string(domainbooking.StatusConfirmed):
		if !b.IsActive() {
			err = domainbooking.ErrInvalidState
		}
		hold = true
	default:
		err = handlersupport.Invalid("unsupported status %q", cmd.Status)
	}
	if err != nil {
		return dto.BookingDTO{}, err
	}

	if err := unit.Bookings().Save(ctx, b); err != nil {
		return dto.BookingDTO{}, err
	}
	if err := outbox.RecordPending(ctx, h.Outbox, h.Encoder, b); err != nil {
		return dto.BookingDTO{}, err
	}
	switch {
	case release:
		freeRoom(ctx, unit, h.Waitlist, h.Deps, b.RoomID)
	case hold:
		if err := unit.Rooms().SetAvailability(ctx, b.RoomID, domainrooms.Unavailable); err != nil {
			h.Log().Warn("room hold failed", "room_id", b.RoomID, "booking_id", b.ID, "error", err)
		}
	}
	if err := unit.Commit(ctx); err != nil {
		return dto.BookingDTO{}, err
	}
	h.Log().Info("booking status updated", "booking_id", b.ID, "status", cmd.target(), "by", cmd.Principal.UserID)
	return dto.MapBooking(b), nil
}

var _ commands.Handler[UpdateStatusCommand, dto.BookingDTO] = (*UpdateStatusHandler)(nil)
