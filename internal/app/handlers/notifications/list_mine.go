package notifications

import (
	"context"
	"sort"
	"strings"

	"hotelbooking/internal/app/auth"
	"hotelbooking/internal/app/dto"
	handlersupport "hotelbooking/internal/app/handlers/support"
	"hotelbooking/internal/app/queries"
	"hotelbooking/internal/app/uow"
	domainnotifications "hotelbooking/internal/domain/notifications"
)

const listMineKey = "me.notifications.list"

type ListMineQuery struct {
	Principal auth.Principal
	Status    string
}

func (q ListMineQuery) Key() string               { return listMineKey }
func (q ListMineQuery) Actor() auth.Principal     { return q.Principal }
func (q ListMineQuery) AllowedRoles() []auth.Role { return nil }

type ListMineHandler struct {
	UoWFactory uow.UoWFactory
	handlersupport.Deps
}

func (h *ListMineHandler) Handle(ctx context.Context, q ListMineQuery) (dto.NotificationCollection, error) {
	out := dto.NotificationCollection{Items: []dto.NotificationDTO{}}
	unit, ctx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return out, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	filter := domainnotifications.Filter{
		UserID: q.Principal.UserID,
		Status: domainnotifications.Status(strings.ToLower(strings.TrimSpace(q.Status))),
	}
	items, err := unit.Notifications().List(ctx, filter)
	if err != nil {
		h.Log().Warn("notification scan failed", "user_id", q.Principal.UserID, "error", err)
		return out, nil
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	for _, n := range items {
		out.Items = append(out.Items, dto.MapNotification(n))
	}
	return out, nil
}

var _ queries.Handler[ListMineQuery, dto.NotificationCollection] = (*ListMineHandler)(nil)
