package booking

import (
	"context"

	"hotelbooking/internal/app/auth"
	"hotelbooking/internal/app/commands"
	"hotelbooking/internal/app/dto"
	roomsapp "hotelbooking/internal/app/handlers/rooms"
	handlersupport "hotelbooking/internal/app/handlers/support"
	"hotelbooking/internal/app/outbox"
	"hotelbooking/internal/app/policies"
	"hotelbooking/internal/app/uow"
	domainbooking "hotelbooking/internal/domain/booking"
	domainrooms "hotelbooking/internal/domain/rooms"
)

const cancelKey = "booking.cancel"

type CancelCommand struct {
	Principal auth.Principal
	BookingID string
}

func (c CancelCommand) Key() string               { return cancelKey }
func (c CancelCommand) Actor() auth.Principal     { return c.Principal }
func (c CancelCommand) AllowedRoles() []auth.Role { return nil }

func (c CancelCommand) Validate() error {
	if c.BookingID == "" {
		return handlersupport.Invalid("booking_id is required")
	}
	return nil
}

// CancelHandler cancels the caller's own booking, prices the refund, frees the
// room and notifies the room's waitlist.
type CancelHandler struct {
	UoWFactory uow.UoWFactory
	Waitlist   policies.WaitlistNotifier
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	handlersupport.Deps
}

func (h *CancelHandler) Handle(ctx context.Context, cmd CancelCommand) (*dto.CancelBookingResult, error) {
	unit, ctx, err := handlersupport.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	defer unit.Close()

	b, err := unit.Bookings().ByID(ctx, domainbooking.BookingID(cmd.BookingID))
	if err != nil {
		return nil, err
	}
	if !b.OwnedBy(cmd.Principal.UserID) {
		return nil, domainbooking.ErrNotOwner
	}
	refund, err := b.Cancel(h.Clock())
	if err != nil {
		return nil, err
	}
	if err := unit.Bookings().Save(ctx, b); err != nil {
		return nil, err
	}
	if err := outbox.RecordPending(ctx, h.Outbox, h.Encoder, b); err != nil {
		return nil, err
	}
	freeRoom(ctx, unit, h.Waitlist, h.Deps, b.RoomID)

	if err := unit.Commit(ctx); err != nil {
		return nil, err
	}
	h.Log().Info("booking cancelled", "booking_id", b.ID, "refund_percent", refund.Percent, "refund", refund.Amount.String())
	return &dto.CancelBookingResult{
		BookingID: string(b.ID),
		Status:    string(b.Status),
		Refund:    dto.MapRefund(refund),
	}, nil
}

// freeRoom makes the room available and notifies its waitlist. Failures are
// logged; the booking change stands.
func freeRoom(ctx context.Context, unit uow.UnitOfWork, waitlist policies.WaitlistNotifier, deps handlersupport.Deps, id domainrooms.RoomID) {
	if err := unit.Rooms().SetAvailability(ctx, id, domainrooms.Available); err != nil {
		deps.Log().Warn("room release failed", "room_id", id, "error", err)
		return
	}
	roomsapp.ReleaseWaitlist(ctx, waitlist, deps.Log(), id)
}

var _ commands.Handler[CancelCommand, *dto.CancelBookingResult] = (*CancelHandler)(nil)
