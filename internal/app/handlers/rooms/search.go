package rooms

import (
	"context"
	"strings"

	"hotelbooking/internal/app/dto"
	handlersupport "hotelbooking/internal/app/handlers/support"
	"hotelbooking/internal/app/queries"
	"hotelbooking/internal/app/uow"
	domainbooking "hotelbooking/internal/domain/booking"
	domainrooms "hotelbooking/internal/domain/rooms"
	"hotelbooking/internal/domain/shared/daterange"
)

const searchKey = "rooms.search"

// SearchQuery lists rooms. Without dates only rooms currently available are
// returned. With dates the confirmed bookings decide: rooms holding an
// overlapping stay are excluded, as are rooms under maintenance. An explicit
// availability always applies. Each room carries its review rating.
type SearchQuery struct {
	BranchID     string
	Type         string
	MinCapacity  int
	Availability string
	CheckIn      string
	CheckOut     string
}

func (q SearchQuery) Key() string { return searchKey }

func (q SearchQuery) Validate() error {
	if q.MinCapacity < 0 {
		return handlersupport.Invalid("capacity cannot be negative")
	}
	if q.Availability != "" {
		if _, err := domainrooms.ParseAvailability(q.Availability); err != nil {
			return handlersupport.Invalid("%v", err)
		}
	}
	if _, err := q.stay(); err != nil {
		return handlersupport.Invalid("%v", err)
	}
	return nil
}

func (q SearchQuery) stay() (*daterange.DateRange, error) {
	if q.CheckIn == "" && q.CheckOut == "" {
		return nil, nil
	}
	dr, err := daterange.Parse(q.CheckIn, q.CheckOut)
	if err != nil {
		return nil, err
	}
	return &dr, nil
}

type SearchHandler struct {
	UoWFactory uow.UoWFactory
	handlersupport.Deps
}

func (h *SearchHandler) Handle(ctx context.Context, q SearchQuery) (dto.RoomCollection, error) {
	out := dto.RoomCollection{Items: []dto.RoomDTO{}}
	stay, err := q.stay()
	if err != nil {
		return out, handlersupport.Invalid("%v", err)
	}
	filter := domainrooms.Filter{
		BranchID:     strings.TrimSpace(q.BranchID),
		Type:         strings.TrimSpace(q.Type),
		MinCapacity:  q.MinCapacity,
		Availability: domainrooms.Available,
	}
	if stay != nil {
		filter.Availability = ""
	}
	if q.Availability != "" {
		if filter.Availability, err = domainrooms.ParseAvailability(q.Availability); err != nil {
			return out, handlersupport.Invalid("%v", err)
		}
	}

	unit, ctx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return out, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	list, err := unit.Rooms().List(ctx, filter)
	if err != nil {
		h.Log().Warn("room scan failed", "branch_id", filter.BranchID, "error", err)
		return out, nil
	}
	if stay != nil {
		occ, err := ConfirmedOccupancy(ctx, unit.Bookings(), "")
		if err != nil {
			h.Log().Warn("booking scan failed", "branch_id", filter.BranchID, "error", err)
			return out, nil
		}
		if q.Availability == "" {
			list = withoutMaintenance(list)
		}
		list = domainrooms.FreeFor(list, occ, stay)
	}
	ids := make([]domainrooms.RoomID, 0, len(list))
	for _, r := range list {
		ids = append(ids, r.ID)
	}
	ratings, err := unit.Reviews().Ratings(ctx, ids)
	if err != nil {
		h.Log().Warn("rating scan failed", "branch_id", filter.BranchID, "error", err)
	}
	for _, r := range list {
		out.Items = append(out.Items, dto.MapRoom(r).WithRating(ratings[r.ID]))
	}
	return out, nil
}

func withoutMaintenance(list []*domainrooms.Room) []*domainrooms.Room {
	out := list[:0:0]
	for _, r := range list {
		if r.Availability != domainrooms.Maintenance {
			out = append(out, r)
		}
	}
	return out
}

// ConfirmedOccupancy collects the stays of confirmed bookings, optionally for one room.
func ConfirmedOccupancy(ctx context.Context, repo domainbooking.Repository, roomID domainrooms.RoomID) (domainrooms.Occupancy, error) {
	bookings, err := repo.List(ctx, domainbooking.Filter{RoomID: roomID, Status: domainbooking.StatusConfirmed})
	if err != nil {
		return nil, err
	}
	occ := domainrooms.Occupancy{}
	for _, b := range bookings {
		occ.Add(b.RoomID, b.Range)
	}
	return occ, nil
}

var _ queries.Handler[SearchQuery, dto.RoomCollection] = (*SearchHandler)(nil)
