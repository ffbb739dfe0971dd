package waitlist

import (
	"context"

	"hotelbooking/internal/app/auth"
	"hotelbooking/internal/app/dto"
	handlersupport "hotelbooking/internal/app/handlers/support"
	"hotelbooking/internal/app/queries"
	"hotelbooking/internal/app/uow"
	domainrooms "hotelbooking/internal/domain/rooms"
	domainwaitlist "hotelbooking/internal/domain/waitlist"
)

const listKey = "waitlist.list"

// ListQuery returns the caller's entries, or a room's entries for staff.
type ListQuery struct {
	Principal auth.Principal
	RoomID    string
}

func (q ListQuery) Key() string           { return listKey }
func (q ListQuery) Actor() auth.Principal { return q.Principal }

func (q ListQuery) AllowedRoles() []auth.Role {
	if q.RoomID != "" {
		return auth.StaffRoles
	}
	return nil
}

type ListHandler struct {
	UoWFactory uow.UoWFactory
	handlersupport.Deps
}

func (h *ListHandler) Handle(ctx context.Context, q ListQuery) (dto.WaitlistCollection, error) {
	out := dto.WaitlistCollection{Items: []dto.WaitlistEntryDTO{}}
	unit, ctx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return out, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	filter := domainwaitlist.Filter{RoomID: domainrooms.RoomID(q.RoomID)}
	if q.RoomID == "" {
		filter.UserID = q.Principal.UserID
	}
	entries, err := unit.Waitlist().List(ctx, filter)
	if err != nil {
		h.Log().Warn("waitlist scan failed", "user_id", q.Principal.UserID, "room_id", q.RoomID, "error", err)
		return out, nil
	}
	for _, e := range entries {
		out.Items = append(out.Items, dto.MapWaitlistEntry(e))
	}
	return out, nil
}

var _ queries.Handler[ListQuery, dto.WaitlistCollection] = (*ListHandler)(nil)
