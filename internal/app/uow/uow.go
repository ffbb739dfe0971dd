package uow

import (
	"context"

	domainbooking "hotelbooking/internal/domain/booking"
	domainloyalty "hotelbooking/internal/domain/loyalty"
	domainnotifications "hotelbooking/internal/domain/notifications"
	domainreviews "hotelbooking/internal/domain/reviews"
	domainrooms "hotelbooking/internal/domain/rooms"
	domainwaitlist "hotelbooking/internal/domain/waitlist"
)

// UnitOfWork coordinates repositories inside a transaction boundary.
type UnitOfWork interface {
	Rooms() domainrooms.Repository
	Bookings() domainbooking.Repository
	Waitlist() domainwaitlist.Repository
	Loyalty() domainloyalty.Repository
	Notifications() domainnotifications.Repository
	Reviews() domainreviews.Repository

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UoWFactory starts unit of work instances.
type UoWFactory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

// TxOptions configure transaction boundaries.
type TxOptions struct {
	ReadOnly bool
}
