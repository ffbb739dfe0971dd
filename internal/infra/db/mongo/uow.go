package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hotelbooking/internal/app/uow"
	domainbooking "hotelbooking/internal/domain/booking"
	domainloyalty "hotelbooking/internal/domain/loyalty"
	domainnotifications "hotelbooking/internal/domain/notifications"
	domainreviews "hotelbooking/internal/domain/reviews"
	domainrooms "hotelbooking/internal/domain/rooms"
	domainwaitlist "hotelbooking/internal/domain/waitlist"
)

// Factory wires Mongo transactions into the generic UnitOfWork interface.
// Transactions need a replica set; with Transactional unset every write
// lands immediately and Commit is a no-op.
type Factory struct {
	DB            *mongo.Database
	Transactional bool

	RoomsRepo         domainrooms.Repository
	BookingsRepo      domainbooking.Repository
	WaitlistRepo      domainwaitlist.Repository
	LoyaltyRepo       domainloyalty.Repository
	NotificationsRepo domainnotifications.Repository
	ReviewsRepo       domainreviews.Repository
}

var ErrUnitOfWorkNotConfigured = errors.New("mongo: unit of work factory missing database")

// Begin starts a MongoDB session/transaction.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.DB == nil {
		return nil, ErrUnitOfWorkNotConfigured
	}
	unit := &Unit{
		rooms:         f.RoomsRepo,
		bookings:      f.BookingsRepo,
		waitlist:      f.WaitlistRepo,
		loyalty:       f.LoyaltyRepo,
		notifications: f.NotificationsRepo,
		reviews:       f.ReviewsRepo,
	}
	if !f.Transactional || opts.ReadOnly {
		return unit, nil
	}
	session, err := f.DB.Client().StartSession()
	if err != nil {
		return nil, err
	}
	txnOpts := options.Transaction().SetReadConcern(f.DB.ReadConcern()).SetWriteConcern(f.DB.WriteConcern())
	if err := session.StartTransaction(txnOpts); err != nil {
		session.EndSession(ctx)
		return nil, err
	}
	unit.session = session
	return unit, nil
}

type Unit struct {
	session mongo.Session

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
	if u.session == nil {
		return nil
	}
	defer u.session.EndSession(ctx)
	return u.session.CommitTransaction(ctx)
}

func (u *Unit) Rollback(ctx context.Context) error {
	if u.session == nil {
		return nil
	}
	defer u.session.EndSession(ctx)
	return u.session.AbortTransaction(ctx)
}

// InjectContext ensures Mongo session is available in context for downstream repos.
func (u *Unit) InjectContext(ctx context.Context) context.Context {
	if u.session == nil {
		return ctx
	}
	return mongo.NewSessionContext(ctx, u.session)
}

var _ uow.UoWFactory = Factory{}
