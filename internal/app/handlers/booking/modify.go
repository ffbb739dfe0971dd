package booking

import (
	"context"

	"hotelbooking/internal/app/auth"
	"hotelbooking/internal/app/commands"
	"hotelbooking/internal/app/dto"
	handlersupport "hotelbooking/internal/app/handlers/support"
	"hotelbooking/internal/app/outbox"
	"hotelbooking/internal/app/uow"
	domainbooking "hotelbooking/internal/domain/booking"
	domainpricing "hotelbooking/internal/domain/pricing"
	domainrooms "hotelbooking/internal/domain/rooms"
)

const modifyKey = "booking.modify"

type ModifyCommand struct {
	Principal auth.Principal
	BookingID string
	CheckIn   string
	CheckOut  string
}

func (c ModifyCommand) Key() string               { return modifyKey }
func (c ModifyCommand) Actor() auth.Principal     { return c.Principal }
func (c ModifyCommand) AllowedRoles() []auth.Role { return nil }

func (c ModifyCommand) Validate() error {
	if c.BookingID == "" {
		return handlersupport.Invalid("booking_id is required")
	}
	_, err := parseStay(c.CheckIn, c.CheckOut)
	return err
}

// ModifyHandler moves a confirmed booking to new dates on the same room and
// reprices it at the room's current base rate.
type ModifyHandler struct {
	UoWFactory uow.UoWFactory
	Calculator domainpricing.Calculator
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	handlersupport.Deps
}

func (h *ModifyHandler) Handle(ctx context.Context, cmd ModifyCommand) (dto.BookingDTO, error) {
	unit, ctx, err := handlersupport.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.BookingDTO{}, err
	}
	defer unit.Close()

	stay, err := parseStay(cmd.CheckIn, cmd.CheckOut)
	if err != nil {
		return dto.BookingDTO{}, err
	}
	now := h.Clock()
	if err := domainbooking.ValidateStay(stay, now); err != nil {
		return dto.BookingDTO{}, err
	}

	b, err := unit.Bookings().ByID(ctx, domainbooking.BookingID(cmd.BookingID))
	if err != nil {
		return dto.BookingDTO{}, err
	}
	if !b.OwnedBy(cmd.Principal.UserID) {
		return dto.BookingDTO{}, domainbooking.ErrNotOwner
	}
	if !b.IsActive() {
		return dto.BookingDTO{}, domainbooking.ErrInvalidState
	}
	room, err := unit.Rooms().ByID(ctx, b.RoomID)
	if err != nil {
		return dto.BookingDTO{}, err
	}
	clash, err := hasConflict(ctx, unit.Bookings(), b.RoomID, stay, b.ID)
	if err != nil {
		return dto.BookingDTO{}, err
	}
	if clash {
		return dto.BookingDTO{}, domainrooms.ErrRoomUnavailable
	}

	quote := h.Calculator.Quote(ctx, domainpricing.Input{
		BaseRate: room.Price,
		CheckIn:  stay.CheckIn,
		CheckOut: stay.CheckOut,
		RoomID:   string(room.ID),
		BranchID: room.BranchID,
	})
	if err := b.Modify(domainbooking.ModifyParams{
		Range:          stay,
		BasePrice:      quote.BaseTotal,
		Total:          quote.Total,
		PricingApplied: !quote.Fallback,
		At:             now,
	}); err != nil {
		return dto.BookingDTO{}, err
	}
	if err := unit.Bookings().Save(ctx, b); err != nil {
		return dto.BookingDTO{}, err
	}
	if err := outbox.RecordPending(ctx, h.Outbox, h.Encoder, b); err != nil {
		return dto.BookingDTO{}, err
	}
	if err := unit.Commit(ctx); err != nil {
		return dto.BookingDTO{}, err
	}
	return dto.MapBooking(b), nil
}

var _ commands.Handler[ModifyCommand, dto.BookingDTO] = (*ModifyHandler)(nil)
