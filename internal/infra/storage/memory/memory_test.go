package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelbooking/internal/app/middleware"
	appoutbox "hotelbooking/internal/app/outbox"
	"hotelbooking/internal/app/uow"
	domainbooking "hotelbooking/internal/domain/booking"
	domainnotifications "hotelbooking/internal/domain/notifications"
	domainrooms "hotelbooking/internal/domain/rooms"
	"hotelbooking/internal/domain/shared/daterange"
	"hotelbooking/internal/domain/shared/money"
	infraoutbox "hotelbooking/internal/infra/outbox"
)

func TestRoomCompareAndSetSingleWinner(t *testing.T) {
	ctx := context.Background()
	repo := NewRoomRepository()
	require.NoError(t, repo.Save(ctx, &domainrooms.Room{ID: "r-1", BranchID: "blr", Availability: domainrooms.Available}))

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if repo.CompareAndSetAvailability(ctx, "r-1", domainrooms.Available, domainrooms.Unavailable) == nil {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins.Load())

	err := repo.CompareAndSetAvailability(ctx, "r-1", domainrooms.Available, domainrooms.Unavailable)
	assert.ErrorIs(t, err, domainrooms.ErrAvailabilityConflict)

	_, err = repo.ByID(ctx, "missing")
	assert.ErrorIs(t, err, domainrooms.ErrRoomNotFound)
}

func TestRoomListOrderAndFilter(t *testing.T) {
	ctx := context.Background()
	repo := NewRoomRepository()
	for _, r := range []domainrooms.Room{
		{ID: "b", BranchID: "del", Type: "suite", Capacity: 4, Availability: domainrooms.Available},
		{ID: "a", BranchID: "del", Type: "standard", Capacity: 2, Availability: domainrooms.Maintenance},
		{ID: "c", BranchID: "blr", Type: "suite", Capacity: 3, Availability: domainrooms.Available},
	} {
		room := r
		require.NoError(t, repo.Save(ctx, &room))
	}

	all, err := repo.List(ctx, domainrooms.Filter{})
	require.NoError(t, err)
	ids := make([]domainrooms.RoomID, 0, len(all))
	for _, r := range all {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []domainrooms.RoomID{"c", "a", "b"}, ids)

	suites, err := repo.List(ctx, domainrooms.Filter{Type: "Suite", MinCapacity: 4})
	require.NoError(t, err)
	require.Len(t, suites, 1)
	assert.Equal(t, domainrooms.RoomID("b"), suites[0].ID)
}

func TestBookingRepositoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepository()
	dr, err := daterange.Parse("2025-06-10", "2025-06-12")
	require.NoError(t, err)
	b, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID:        "b-1",
		UserID:    "u-1",
		RoomID:    "r-1",
		Range:     dr,
		Total:     money.Must(20000, "INR"),
		CreatedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, b))
	assert.Equal(t, int64(1), b.Version)

	loaded, err := repo.ByID(ctx, "b-1")
	require.NoError(t, err)
	assert.Empty(t, loaded.Pending())
	loaded.Status = domainbooking.StatusCancelled

	again, err := repo.ByID(ctx, "b-1")
	require.NoError(t, err)
	assert.Equal(t, domainbooking.StatusConfirmed, again.Status)

	mine, err := repo.List(ctx, domainbooking.Filter{UserID: "u-1"})
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	_, err = repo.ByID(ctx, "nope")
	assert.ErrorIs(t, err, domainbooking.ErrBookingNotFound)
}

func TestNotificationListHonoursLimitAndDue(t *testing.T) {
	ctx := context.Background()
	repo := NewNotificationRepository()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i, at := range []time.Time{now.Add(-time.Hour), now, now.Add(time.Hour), now.Add(-2 * time.Hour)} {
		n := &domainnotifications.Notification{
			ID:           domainnotifications.NotificationID(string(rune('a' + i))),
			UserID:       "u-1",
			Status:       domainnotifications.StatusPending,
			ScheduledFor: at,
		}
		require.NoError(t, repo.Save(ctx, n))
	}

	due, err := repo.List(ctx, domainnotifications.Filter{DueBy: now})
	require.NoError(t, err)
	assert.Len(t, due, 3)

	limited, err := repo.List(ctx, domainnotifications.Filter{DueBy: now, Limit: 2})
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, domainnotifications.NotificationID("a"), limited[0].ID)
}

func TestLoyaltyMissingAccountIsNil(t *testing.T) {
	repo := NewLoyaltyRepository()
	acct, err := repo.ByUser(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Nil(t, acct)
}

func TestOutboxClaimLifecycle(t *testing.T) {
	ctx := context.Background()
	box := NewOutbox()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	box.now = func() time.Time { return now }

	require.NoError(t, box.Add(ctx, appoutbox.EventRecord{ID: "e-1", Name: "booking.confirmed", Payload: []byte(`{}`)}))
	require.NoError(t, box.Add(ctx, appoutbox.EventRecord{ID: "e-2", Name: "booking.cancelled", Payload: []byte(`{}`)}))

	doc, err := box.Claim(ctx, "w")
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "e-1", doc.ID)
	require.NoError(t, box.MarkFailed(ctx, doc.ID, now.Add(time.Minute), "broker down"))

	doc, err = box.Claim(ctx, "w")
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "e-2", doc.ID)
	require.NoError(t, box.MarkSent(ctx, doc.ID))

	doc, err = box.Claim(ctx, "w")
	require.NoError(t, err)
	assert.Nil(t, doc, "failed row waits for its retry time")

	now = now.Add(2 * time.Minute)
	doc, err = box.Claim(ctx, "w")
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, 1, doc.Attempts)

	pending := box.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, infraoutbox.StateClaimed, pending[0].State)
}

func TestIdempotencyStoreExpires(t *testing.T) {
	ctx := context.Background()
	store := NewIdempotencyStore(time.Minute)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Save(ctx, middleware.IdempotencyRecord{Key: "k", Payload: []byte(`{}`), OccurredAt: now}))
	_, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Save(ctx, middleware.IdempotencyRecord{Key: "k2"}))
	assert.Len(t, store.entries, 1)
}

func TestFactoryRequiresRepositories(t *testing.T) {
	_, err := Factory{}.Begin(context.Background(), uow.TxOptions{})
	assert.ErrorIs(t, err, ErrFactoryMisconfigured)

	unit, err := NewFactory().Begin(context.Background(), uow.TxOptions{})
	require.NoError(t, err)
	assert.NotNil(t, unit.Rooms())
	assert.NoError(t, unit.Commit(context.Background()))
}
