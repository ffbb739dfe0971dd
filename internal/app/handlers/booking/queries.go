package booking

import (
	"context"
	"sort"
	"strings"
	"time"

	"hotelbooking/internal/app/auth"
	"hotelbooking/internal/app/dto"
	handlersupport "hotelbooking/internal/app/handlers/support"
	"hotelbooking/internal/app/queries"
	"hotelbooking/internal/app/uow"
	domainbooking "hotelbooking/internal/domain/booking"
	"hotelbooking/internal/domain/shared/daterange"
	"hotelbooking/internal/domain/shared/money"
)

const (
	listMineKey = "me.bookings.list"
	getKey      = "booking.get"
	statsKey    = "me.bookings.stats"
)

type ListMineQuery struct {
	Principal auth.Principal
	Status    string
}

func (q ListMineQuery) Key() string               { return listMineKey }
func (q ListMineQuery) Actor() auth.Principal     { return q.Principal }
func (q ListMineQuery) AllowedRoles() []auth.Role { return nil }

func (q ListMineQuery) Validate() error {
	if q.Status == "" {
		return nil
	}
	if _, err := domainbooking.ParseStatus(q.Status); err != nil {
		return handlersupport.Invalid("%v", err)
	}
	return nil
}

type ListMineHandler struct {
	UoWFactory uow.UoWFactory
	handlersupport.Deps
}

// Handle lists the caller's bookings, newest first. A failing scan yields an
// empty list.
func (h *ListMineHandler) Handle(ctx context.Context, q ListMineQuery) (dto.BookingCollection, error) {
	out := dto.BookingCollection{Items: []dto.BookingDTO{}}
	unit, ctx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return out, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	filter := domainbooking.Filter{UserID: q.Principal.UserID}
	if q.Status != "" {
		filter.Status = domainbooking.Status(strings.ToLower(strings.TrimSpace(q.Status)))
	}
	bookings, err := unit.Bookings().List(ctx, filter)
	if err != nil {
		h.Log().Warn("booking scan failed", "user_id", q.Principal.UserID, "error", err)
		return out, nil
	}
	sort.SliceStable(bookings, func(i, j int) bool {
		return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
	})
	for _, b := range bookings {
		out.Items = append(out.Items, dto.MapBooking(b))
	}
	return out, nil
}

type GetQuery struct {
	Principal auth.Principal
	BookingID string
}

func (q GetQuery) Key() string               { return getKey }
func (q GetQuery) Actor() auth.Principal     { return q.Principal }
func (q GetQuery) AllowedRoles() []auth.Role { return nil }

type GetHandler struct {
	UoWFactory uow.UoWFactory
}

// Handle returns a booking to its owner or to staff.
func (h *GetHandler) Handle(ctx context.Context, q GetQuery) (dto.BookingDTO, error) {
	unit, ctx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.BookingDTO{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	b, err := unit.Bookings().ByID(ctx, domainbooking.BookingID(q.BookingID))
	if err != nil {
		return dto.BookingDTO{}, err
	}
	if !b.OwnedBy(q.Principal.UserID) && !q.Principal.IsStaff() {
		return dto.BookingDTO{}, domainbooking.ErrNotOwner
	}
	return dto.MapBooking(b), nil
}

type StatsQuery struct {
	Principal auth.Principal
}

func (q StatsQuery) Key() string               { return statsKey }
func (q StatsQuery) Actor() auth.Principal     { return q.Principal }
func (q StatsQuery) AllowedRoles() []auth.Role { return nil }

type StatsHandler struct {
	UoWFactory uow.UoWFactory
	handlersupport.Deps
}

func (h *StatsHandler) Handle(ctx context.Context, q StatsQuery) (dto.BookingStats, error) {
	unit, ctx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.BookingStats{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	bookings, err := unit.Bookings().List(ctx, domainbooking.Filter{UserID: q.Principal.UserID})
	if err != nil {
		h.Log().Warn("booking scan failed", "user_id", q.Principal.UserID, "error", err)
		bookings = nil
	}
	return Summarize(bookings, h.Clock()), nil
}

// Summarize counts a guest's bookings relative to today. Spend and nights
// cover confirmed and completed stays.
func Summarize(bookings []*domainbooking.Booking, now time.Time) dto.BookingStats {
	today := daterange.Day(now)
	spent := money.Money{Currency: money.DefaultCurrency}
	stats := dto.BookingStats{Total: len(bookings)}
	for _, b := range bookings {
		switch b.Status {
		case domainbooking.StatusCompleted:
			stats.Completed++
		case domainbooking.StatusCancelled:
			stats.Cancelled++
		}
		if b.Status == domainbooking.StatusConfirmed && !b.Range.CheckIn.Before(today) {
			stats.Upcoming++
		}
		if b.Range.CheckOut.Before(today) {
			stats.Past++
		}
		if b.Status != domainbooking.StatusCancelled {
			spent.Amount += b.Total.Amount
			stats.TotalNights += b.Nights
		}
	}
	stats.TotalSpent = dto.MapMoney(spent)
	return stats
}

var (
	_ queries.Handler[ListMineQuery, dto.BookingCollection] = (*ListMineHandler)(nil)
	_ queries.Handler[GetQuery, dto.BookingDTO]             = (*GetHandler)(nil)
	_ queries.Handler[StatsQuery, dto.BookingStats]         = (*StatsHandler)(nil)
)
