package memory

import (
	"context"
	"errors"

	"hotelbooking/internal/app/uow"
	domainbooking "hotelbooking/internal/domain/booking"
	domainloyalty "hotelbooking/internal/domain/loyalty"
	domainnotifications "hotelbooking/internal/domain/notifications"
	domainreviews "hotelbooking/internal/domain/reviews"
	domainrooms "hotelbooking/internal/domain/rooms"
	domainwaitlist "hotelbooking/internal/domain/waitlist"
)

// ErrFactoryMisconfigured indicates missing repositories.
var ErrFactoryMisconfigured = errors.New("memory: unit of work factory misconfigured")

// Factory wires in-memory repositories into a unit-of-work boundary.
type Factory struct {
	RoomsRepo         domainrooms.Repository
	BookingsRepo      domainbooking.Repository
	WaitlistRepo      domainwaitlist.Repository
	LoyaltyRepo       domainloyalty.Repository
	NotificationsRepo domainnotifications.Repository
	ReviewsRepo       domainreviews.Repository
}

// NewFactory builds a factory over fresh repositories.
func NewFactory() Factory {
	return Factory{
		RoomsRepo:         NewRoomRepository(),
		BookingsRepo:      NewBookingRepository(),
		WaitlistRepo:      NewWaitlistRepository(),
		LoyaltyRepo:       NewLoyaltyRepository(),
		NotificationsRepo: NewNotificationRepository(),
		ReviewsRepo:       NewReviewRepository(),
	}
}

// Begin starts a write-through unit. No isolation is provided; room claims
// rely on the repository's compare-and-swap instead.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.RoomsRepo == nil || f.BookingsRepo == nil || f.WaitlistRepo == nil || f.LoyaltyRepo == nil || f.NotificationsRepo == nil || f.ReviewsRepo == nil {
		return nil, ErrFactoryMisconfigured
	}
	return &Unit{
		rooms:         f.RoomsRepo,
		bookings:      f.BookingsRepo,
		waitlist:      f.WaitlistRepo,
		loyalty:       f.LoyaltyRepo,
		notifications: f.NotificationsRepo,
		reviews:       f.ReviewsRepo,
	}, nil
}

// Unit is a lightweight uow.UnitOfWork backed by in-memory stores.
type Unit struct {
	rooms         domainrooms.Repository
	bookings      domainbooking.Repository
	waitlist      domainwaitlist.Repository
	loyalty       domainloyalty.Repository
	notifications domainnotifications.Repository
	reviews       domainreviews.Repository
}

func (u *Unit) Rooms() domainrooms.Repository {
	return u.rooms
}

func (u *Unit) Bookings() domainbooking.Repository {
	return u.bookings
}

func (u *Unit) Waitlist() domainwaitlist.Repository {
	return u.waitlist
}

func (u *Unit) Loyalty() domainloyalty.Repository {
	return u.loyalty
}

func (u *Unit) Notifications() domainnotifications.Repository {
	return u.notifications
}

func (u *Unit) Reviews() domainreviews.Repository {
	return u.reviews
}

func (u *Unit) Commit(ctx context.Context) error {
	return nil
}

func (u *Unit) Rollback(ctx context.Context) error {
	return nil
}

var _ uow.UoWFactory = Factory{}
