package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

const connectTimeout = 10 * time.Second

// Client owns the driver connection for the booking database.
type Client struct {
	DB *mongo.Database
}

// Connect dials uri and verifies a primary is reachable. Booking writes use
// majority write concern so a confirmed room claim survives failover.
func Connect(ctx context.Context, uri, database string) (*Client, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	opts := options.Client().
		ApplyURI(uri).
		SetAppName("hotelbooking").
		SetRetryWrites(true).
		SetWriteConcern(writeconcern.Majority())
	m, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: connect: %w", err)
	}
	c := &Client{DB: m.Database(database)}
	if err := c.Ping(ctx); err != nil {
		_ = m.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo: ping %s: %w", database, err)
	}
	return c, nil
}

// Ping doubles as the readiness check.
func (c *Client) Ping(ctx context.Context) error {
	return c.DB.Client().Ping(ctx, readpref.Primary())
}

func (c *Client) Close(ctx context.Context) error {
	return c.DB.Client().Disconnect(ctx)
}

// Factory builds a unit-of-work factory over every booking repository.
func (c *Client) Factory(transactional bool) Factory {
	return Factory{
		DB:                c.DB,
		Transactional:     transactional,
		RoomsRepo:         NewRoomRepository(c.DB),
		BookingsRepo:      NewBookingRepository(c.DB),
		WaitlistRepo:      NewWaitlistRepository(c.DB),
		LoyaltyRepo:       NewLoyaltyRepository(c.DB),
		NotificationsRepo: NewNotificationRepository(c.DB),
		ReviewsRepo:       NewReviewRepository(c.DB),
	}
}
