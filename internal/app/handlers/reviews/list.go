package reviews

import (
	"context"
	"strings"

	"hotelbooking/internal/app/auth"
	"hotelbooking/internal/app/dto"
	handlersupport "hotelbooking/internal/app/handlers/support"
	"hotelbooking/internal/app/queries"
	"hotelbooking/internal/app/uow"
	domainreviews "hotelbooking/internal/domain/reviews"
	domainrooms "hotelbooking/internal/domain/rooms"
)

const (
	listRoomKey = "reviews.list_room"
	listMineKey = "reviews.list_mine"
)

// ListRoomQuery is public: anyone browsing rooms may read their reviews.
type ListRoomQuery struct {
	RoomID string
}

func (q ListRoomQuery) Key() string { return listRoomKey }

func (q ListRoomQuery) Validate() error {
	if strings.TrimSpace(q.RoomID) == "" {
		return handlersupport.Invalid("room_id is required")
	}
	return nil
}

type ListRoomHandler struct {
	UoWFactory uow.UoWFactory
	handlersupport.Deps
}

func (h *ListRoomHandler) Handle(ctx context.Context, q ListRoomQuery) (dto.ReviewCollection, error) {
	out := dto.ReviewCollection{Items: []dto.ReviewDTO{}}
	unit, ctx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return out, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	id := domainrooms.RoomID(strings.TrimSpace(q.RoomID))
	if _, err := unit.Rooms().ByID(ctx, id); err != nil {
		return out, err
	}
	list, err := unit.Reviews().List(ctx, domainreviews.Filter{RoomID: id})
	if err != nil {
		h.Log().Warn("review scan failed", "room_id", id, "error", err)
		return out, nil
	}
	ratings := make([]int, 0, len(list))
	for _, r := range list {
		out.Items = append(out.Items, dto.MapReview(r))
		ratings = append(ratings, r.Rating)
	}
	summary := domainreviews.Summarize(ratings)
	out.Rating = dto.RatingDTO{Average: summary.Average, Count: summary.Count}
	return out, nil
}

// ListMineQuery returns the reviews written by the caller.
type ListMineQuery struct {
	Principal auth.Principal
}

func (q ListMineQuery) Key() string               { return listMineKey }
func (q ListMineQuery) Actor() auth.Principal     { return q.Principal }
func (q ListMineQuery) AllowedRoles() []auth.Role { return nil }

type ListMineHandler struct {
	UoWFactory uow.UoWFactory
	handlersupport.Deps
}

func (h *ListMineHandler) Handle(ctx context.Context, q ListMineQuery) (dto.ReviewCollection, error) {
	out := dto.ReviewCollection{Items: []dto.ReviewDTO{}}
	unit, ctx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return out, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	list, err := unit.Reviews().List(ctx, domainreviews.Filter{AuthorID: q.Principal.UserID})
	if err != nil {
		h.Log().Warn("review scan failed", "user_id", q.Principal.UserID, "error", err)
		return out, nil
	}
	ratings := make([]int, 0, len(list))
	for _, r := range list {
		out.Items = append(out.Items, dto.MapReview(r))
		ratings = append(ratings, r.Rating)
	}
	summary := domainreviews.Summarize(ratings)
	out.Rating = dto.RatingDTO{Average: summary.Average, Count: summary.Count}
	return out, nil
}

var (
	_ queries.Handler[ListRoomQuery, dto.ReviewCollection] = (*ListRoomHandler)(nil)
	_ queries.Handler[ListMineQuery, dto.ReviewCollection] = (*ListMineHandler)(nil)
)
