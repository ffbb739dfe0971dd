package rooms

import (
	"context"
	"strings"

	"hotelbooking/internal/app/auth"
	"hotelbooking/internal/app/commands"
	"hotelbooking/internal/app/dto"
	handlersupport "hotelbooking/internal/app/handlers/support"
	"hotelbooking/internal/app/policies"
	"hotelbooking/internal/app/uow"
	domainrooms "hotelbooking/internal/domain/rooms"
)

const (
	setAvailabilityKey = "rooms.set_availability"
	releaseKey         = "rooms.release"
)

// SetAvailabilityCommand is a staff status update. Unavailable is reserved for
// the booking flow.
type SetAvailabilityCommand struct {
	Principal auth.Principal
	RoomID    string
	Status    string
}

func (c SetAvailabilityCommand) Key() string               { return setAvailabilityKey }
func (c SetAvailabilityCommand) Actor() auth.Principal     { return c.Principal }
func (c SetAvailabilityCommand) AllowedRoles() []auth.Role { return auth.StaffRoles }

func (c SetAvailabilityCommand) Validate() error {
	if strings.TrimSpace(c.RoomID) == "" {
		return handlersupport.Invalid("room_id is required")
	}
	status, err := domainrooms.ParseAvailability(c.Status)
	if err != nil {
		return handlersupport.Invalid("%v", err)
	}
	if !status.StaffSettable() {
		return domainrooms.ErrStatusNotAllowed
	}
	return nil
}

type SetAvailabilityHandler struct {
	UoWFactory uow.UoWFactory
	handlersupport.Deps
}

func (h *SetAvailabilityHandler) Handle(ctx context.Context, cmd SetAvailabilityCommand) (dto.RoomDTO, error) {
	status, err := domainrooms.ParseAvailability(cmd.Status)
	if err != nil {
		return dto.RoomDTO{}, handlersupport.Invalid("%v", err)
	}
	if !status.StaffSettable() {
		return dto.RoomDTO{}, domainrooms.ErrStatusNotAllowed
	}
	unit, ctx, err := handlersupport.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.RoomDTO{}, err
	}
	defer unit.Close()

	id := domainrooms.RoomID(strings.TrimSpace(cmd.RoomID))
	if err := unit.Rooms().SetAvailability(ctx, id, status); err != nil {
		return dto.RoomDTO{}, err
	}
	room, err := unit.Rooms().ByID(ctx, id)
	if err != nil {
		return dto.RoomDTO{}, err
	}
	if err := unit.Commit(ctx); err != nil {
		return dto.RoomDTO{}, err
	}
	h.Log().Info("room availability updated", "room_id", id, "status", status, "by", cmd.Principal.UserID)
	return dto.MapRoom(room), nil
}

// ReleaseCommand makes a room available and notifies its waitlist.
type ReleaseCommand struct {
	Principal auth.Principal
	RoomID    string
}

func (c ReleaseCommand) Key() string               { return releaseKey }
func (c ReleaseCommand) Actor() auth.Principal     { return c.Principal }
func (c ReleaseCommand) AllowedRoles() []auth.Role { return auth.StaffRoles }

func (c ReleaseCommand) Validate() error {
	if strings.TrimSpace(c.RoomID) == "" {
		return handlersupport.Invalid("room_id is required")
	}
	return nil
}

type ReleaseHandler struct {
	UoWFactory uow.UoWFactory
	Waitlist   policies.WaitlistNotifier
	handlersupport.Deps
}

func (h *ReleaseHandler) Handle(ctx context.Context, cmd ReleaseCommand) (dto.RoomReleaseResult, error) {
	unit, ctx, err := handlersupport.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.RoomReleaseResult{}, err
	}
	defer unit.Close()

	id := domainrooms.RoomID(strings.TrimSpace(cmd.RoomID))
	if _, err := unit.Rooms().ByID(ctx, id); err != nil {
		return dto.RoomReleaseResult{}, err
	}
	if err := unit.Rooms().SetAvailability(ctx, id, domainrooms.Available); err != nil {
		return dto.RoomReleaseResult{}, err
	}
	notified := ReleaseWaitlist(ctx, h.Waitlist, h.Log(), id)
	if err := unit.Commit(ctx); err != nil {
		return dto.RoomReleaseResult{}, err
	}
	return dto.RoomReleaseResult{RoomID: string(id), Notified: notified}, nil
}

var (
	_ commands.Handler[SetAvailabilityCommand, dto.RoomDTO]   = (*SetAvailabilityHandler)(nil)
	_ commands.Handler[ReleaseCommand, dto.RoomReleaseResult] = (*ReleaseHandler)(nil)
)
