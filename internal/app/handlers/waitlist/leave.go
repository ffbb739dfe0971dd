package waitlist

import (
	"context"

	"hotelbooking/internal/app/auth"
	"hotelbooking/internal/app/commands"
	"hotelbooking/internal/app/dto"
	handlersupport "hotelbooking/internal/app/handlers/support"
	"hotelbooking/internal/app/uow"
	domainwaitlist "hotelbooking/internal/domain/waitlist"
)

const leaveKey = "waitlist.leave"

type LeaveCommand struct {
	Principal auth.Principal
	EntryID   string
}

func (c LeaveCommand) Key() string               { return leaveKey }
func (c LeaveCommand) Actor() auth.Principal     { return c.Principal }
func (c LeaveCommand) AllowedRoles() []auth.Role { return nil }

func (c LeaveCommand) Validate() error {
	if c.EntryID == "" {
		return handlersupport.Invalid("waitlist_id is required")
	}
	return nil
}

type LeaveHandler struct {
	UoWFactory uow.UoWFactory
	handlersupport.Deps
}

func (h *LeaveHandler) Handle(ctx context.Context, cmd LeaveCommand) (dto.WaitlistEntryDTO, error) {
	unit, ctx, err := handlersupport.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.WaitlistEntryDTO{}, err
	}
	defer unit.Close()

	entry, err := unit.Waitlist().ByID(ctx, domainwaitlist.EntryID(cmd.EntryID))
	if err != nil {
		return dto.WaitlistEntryDTO{}, err
	}
	if err := entry.Leave(cmd.Principal.UserID, h.Clock()); err != nil {
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

var _ commands.Handler[LeaveCommand, dto.WaitlistEntryDTO] = (*LeaveHandler)(nil)
