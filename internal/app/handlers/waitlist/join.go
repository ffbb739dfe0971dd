package waitlist

import (
	"context"
	"strings"

	"hotelbooking/internal/app/auth"
	"hotelbooking/internal/app/commands"
	"hotelbooking/internal/app/dto"
	handlersupport "hotelbooking/internal/app/handlers/support"
	"hotelbooking/internal/app/uow"
	domainrooms "hotelbooking/internal/domain/rooms"
	"hotelbooking/internal/domain/shared/daterange"
	domainwaitlist "hotelbooking/internal/domain/waitlist"
)

const joinKey = "waitlist.join"

type JoinCommand struct {
	Principal auth.Principal
	RoomID    string
	CheckIn   string
	CheckOut  string
}

func (c JoinCommand) Key() string               { return joinKey }
func (c JoinCommand) Actor() auth.Principal     { return c.Principal }
func (c JoinCommand) AllowedRoles() []auth.Role { return nil }

func (c JoinCommand) Validate() error {
	if strings.TrimSpace(c.RoomID) == "" {
		return handlersupport.Invalid("room_id is required")
	}
	if _, err := c.stay(); err != nil {
		return handlersupport.Invalid("%v", err)
	}
	return nil
}

// stay parses the optional desired dates; both or neither must be given.
func (c JoinCommand) stay() (daterange.DateRange, error) {
	if c.CheckIn == "" && c.CheckOut == "" {
		return daterange.DateRange{}, nil
	}
	return daterange.Parse(c.CheckIn, c.CheckOut)
}

type JoinHandler struct {
	UoWFactory uow.UoWFactory
	handlersupport.Deps
}

func (h *JoinHandler) Handle(ctx context.Context, cmd JoinCommand) (dto.WaitlistEntryDTO, error) {
	unit, ctx, err := handlersupport.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.WaitlistEntryDTO{}, err
	}
	defer unit.Close()

	stay, err := cmd.stay()
	if err != nil {
		return dto.WaitlistEntryDTO{}, handlersupport.Invalid("%v", err)
	}
	room, err := unit.Rooms().ByID(ctx, domainrooms.RoomID(strings.TrimSpace(cmd.RoomID)))
	if err != nil {
		return dto.WaitlistEntryDTO{}, err
	}
	entry, err := domainwaitlist.Join(domainwaitlist.JoinParams{
		ID:       domainwaitlist.EntryID(h.ID()),
		UserID:   cmd.Principal.UserID,
		Email:    cmd.Principal.Email,
		Room:     room,
		Range:    stay,
		JoinedAt: h.Clock(),
	})
	if err != nil {
		return dto.WaitlistEntryDTO{}, err
	}
	if err := unit.Waitlist().Save(ctx, entry); err != nil {
		return dto.WaitlistEntryDTO{}, err
	}
	if err := unit.Commit(ctx); err != nil {
		return dto.WaitlistEntryDTO{}, err
	}
	return dto.MapWaitlistEntry(entry), nil
}

var _ commands.Handler[JoinCommand, dto.WaitlistEntryDTO] = (*JoinHandler)(nil)
