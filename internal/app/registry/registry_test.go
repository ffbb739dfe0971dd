package registry

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelbooking/internal/app/auth"
	"hotelbooking/internal/app/commands"
	"hotelbooking/internal/app/dto"
	bookingapp "hotelbooking/internal/app/handlers/booking"
	branchesapp "hotelbooking/internal/app/handlers/branches"
	loyaltyapp "hotelbooking/internal/app/handlers/loyalty"
	notificationsapp "hotelbooking/internal/app/handlers/notifications"
	pricingapp "hotelbooking/internal/app/handlers/pricing"
	reviewsapp "hotelbooking/internal/app/handlers/reviews"
	roomsapp "hotelbooking/internal/app/handlers/rooms"
	handlersupport "hotelbooking/internal/app/handlers/support"
	waitlistapp "hotelbooking/internal/app/handlers/waitlist"
	"hotelbooking/internal/app/outbox"
	"hotelbooking/internal/app/queries"
	domainbooking "hotelbooking/internal/domain/booking"
	domainbranches "hotelbooking/internal/domain/branches"
	domainloyalty "hotelbooking/internal/domain/loyalty"
	domainpricing "hotelbooking/internal/domain/pricing"
	domainreviews "hotelbooking/internal/domain/reviews"
	domainrooms "hotelbooking/internal/domain/rooms"
	"hotelbooking/internal/domain/shared/money"
	domainwaitlist "hotelbooking/internal/domain/waitlist"
	"hotelbooking/internal/infra/notify"
	"hotelbooking/internal/infra/storage/memory"
)

var (
	alice = auth.Principal{UserID: "guest-alice", Email: "alice@example.com", Name: "Alice", Role: auth.RoleGuest}
	bob   = auth.Principal{UserID: "guest-bob", Email: "bob@example.com", Name: "Bob", Role: auth.RoleGuest}
	staff = auth.Principal{UserID: "staff-1", Role: auth.RoleStaff}
	admin = auth.Principal{UserID: "admin-1", Role: auth.RoleAdmin}
)

type harness struct {
	buses    Buses
	factory  memory.Factory
	rules    *memory.RuleStore
	branches *memory.BranchRepository
	box      *memory.Outbox
	now      time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		factory:  memory.NewFactory(),
		rules:    memory.NewRuleStore(),
		branches: memory.NewBranchRepository(),
		box:      memory.NewOutbox(),
		now:      time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
	}
	seq := 0
	clock := func() time.Time { return h.now }
	newID := func() string {
		seq++
		return fmt.Sprintf("id-%03d", seq)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	deps := handlersupport.Deps{Now: clock, NewID: newID, Logger: logger}

	engine := domainpricing.NewEngine(h.rules, logger)
	engine.Now = clock
	h.buses = Build(Components{
		UoWFactory:  h.factory,
		Rules:       h.rules,
		Branches:    h.branches,
		Calculator:  engine,
		Outbox:      h.box,
		Notifier:    &notify.Sink{UoWFactory: h.factory, Outbox: h.box, Encoder: outbox.JSONEventEncoder{IDGenerator: newID}, Deps: deps},
		Idempotency: memory.NewIdempotencyStore(time.Hour),
		Logger:      logger,
		Now:         clock,
		NewID:       newID,
	})

	require.NoError(t, h.factory.RoomsRepo.Save(context.Background(), &domainrooms.Room{
		ID:           "r-101",
		BranchID:     "blr",
		Name:         "Deluxe 101",
		Type:         "deluxe",
		Capacity:     2,
		Price:        money.Must(500000, "INR"),
		Availability: domainrooms.Available,
	}))
	return h
}

func (h *harness) book(t *testing.T, p auth.Principal, key string) *dto.CreateBookingResult {
	t.Helper()
	res, err := commands.Dispatch[bookingapp.CreateCommand, *dto.CreateBookingResult](context.Background(), h.buses.Commands, bookingapp.CreateCommand{
		Principal:       p,
		RoomID:          "r-101",
		CheckIn:         "2025-06-10",
		CheckOut:        "2025-06-12",
		Guests:          2,
		IdempotencyKeyV: key,
	})
	require.NoError(t, err)
	return res
}

func (h *harness) room(t *testing.T) *domainrooms.Room {
	t.Helper()
	r, err := h.factory.RoomsRepo.ByID(context.Background(), "r-101")
	require.NoError(t, err)
	return r
}

func TestCreateBookingClaimsRoomAndAccruesPoints(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	res := h.book(t, alice, "")
	assert.Equal(t, "confirmed", res.Booking.Status)
	assert.Equal(t, "pending", res.Booking.PaymentStatus)
	assert.Equal(t, 2, res.Booking.Nights)
	assert.Equal(t, int64(1000000), res.Booking.Total.Amount)
	assert.True(t, res.PricingApplied)
	assert.Equal(t, int64(100+domainloyalty.FirstBookingBonus), res.PointsEarned)
	assert.Equal(t, domainrooms.Unavailable, h.room(t).Availability)

	account, err := queries.Ask[loyaltyapp.GetAccountQuery, dto.LoyaltyAccountDTO](ctx, h.buses.Queries, loyaltyapp.GetAccountQuery{Principal: alice})
	require.NoError(t, err)
	assert.Equal(t, int64(600), account.Points)
	assert.Len(t, account.Transactions, 2)

	notes, err := queries.Ask[notificationsapp.ListMineQuery, dto.NotificationCollection](ctx, h.buses.Queries, notificationsapp.ListMineQuery{Principal: alice})
	require.NoError(t, err)
	statuses := map[string]string{}
	for _, n := range notes.Items {
		statuses[n.Type] = n.Status
	}
	assert.Equal(t, map[string]string{"booking_confirmation": "sent", "check_in_reminder": "pending"}, statuses)

	names := map[string]int{}
	for _, row := range h.box.Pending() {
		names[row.Name]++
	}
	assert.Equal(t, 1, names["booking.confirmed"])
	assert.Equal(t, 1, names["notification.requested"])
}

func TestCreateBookingRejections(t *testing.T) {
	h := newHarness(t)
	h.book(t, alice, "")

	tests := []struct {
		name  string
		actor auth.Principal
		cmd   bookingapp.CreateCommand
		want  error
	}{
		{"anonymous", auth.Principal{}, bookingapp.CreateCommand{RoomID: "r-101", CheckIn: "2025-06-20", CheckOut: "2025-06-21"}, auth.ErrUnauthenticated},
		{"staff cannot book", staff, bookingapp.CreateCommand{RoomID: "r-101", CheckIn: "2025-06-20", CheckOut: "2025-06-21"}, auth.ErrForbidden},
		{"room already taken", bob, bookingapp.CreateCommand{RoomID: "r-101", CheckIn: "2025-06-11", CheckOut: "2025-06-13"}, domainrooms.ErrRoomUnavailable},
		{"unknown room", bob, bookingapp.CreateCommand{RoomID: "r-404", CheckIn: "2025-06-20", CheckOut: "2025-06-21"}, domainrooms.ErrRoomNotFound},
		{"inverted stay", bob, bookingapp.CreateCommand{RoomID: "r-101", CheckIn: "2025-06-21", CheckOut: "2025-06-20"}, domainbooking.ErrInvalidNights},
		{"past check-in", bob, bookingapp.CreateCommand{RoomID: "r-101", CheckIn: "2025-05-20", CheckOut: "2025-05-21"}, domainbooking.ErrCheckInInPast},
		{"bad date", bob, bookingapp.CreateCommand{RoomID: "r-101", CheckIn: "20-06-2025", CheckOut: "2025-06-21"}, handlersupport.ErrInvalidInput},
		{"negative guests", bob, bookingapp.CreateCommand{RoomID: "r-101", CheckIn: "2025-06-20", CheckOut: "2025-06-21", Guests: -1}, domainbooking.ErrInvalidGuests},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cmd := tc.cmd
			cmd.Principal = tc.actor
			_, err := commands.Dispatch[bookingapp.CreateCommand, *dto.CreateBookingResult](context.Background(), h.buses.Commands, cmd)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestCreateBookingReplaysIdempotencyKey(t *testing.T) {
	h := newHarness(t)
	first := h.book(t, alice, "key-1")
	second := h.book(t, alice, "key-1")
	assert.Equal(t, first.Booking.ID, second.Booking.ID)

	mine, err := queries.Ask[bookingapp.ListMineQuery, dto.BookingCollection](context.Background(), h.buses.Queries, bookingapp.ListMineQuery{Principal: alice})
	require.NoError(t, err)
	assert.Len(t, mine.Items, 1)
}

func TestCancelRefundsAndNotifiesWaitlist(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	booked := h.book(t, alice, "")

	entry, err := commands.Dispatch[waitlistapp.JoinCommand, dto.WaitlistEntryDTO](ctx, h.buses.Commands, waitlistapp.JoinCommand{Principal: bob, RoomID: "r-101"})
	require.NoError(t, err)
	assert.Equal(t, "active", entry.Status)

	_, err = commands.Dispatch[bookingapp.CancelCommand, *dto.CancelBookingResult](ctx, h.buses.Commands, bookingapp.CancelCommand{Principal: bob, BookingID: booked.Booking.ID})
	assert.ErrorIs(t, err, domainbooking.ErrNotOwner)

	res, err := commands.Dispatch[bookingapp.CancelCommand, *dto.CancelBookingResult](ctx, h.buses.Commands, bookingapp.CancelCommand{Principal: alice, BookingID: booked.Booking.ID})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", res.Status)
	assert.Equal(t, 100, res.Refund.RefundPercent)
	assert.Equal(t, int64(1000000), res.Refund.RefundAmount.Amount)
	assert.Zero(t, res.Refund.CancellationFee.Amount)
	assert.Equal(t, domainrooms.Available, h.room(t).Availability)

	stored, err := h.factory.WaitlistRepo.ByID(ctx, domainwaitlist.EntryID(entry.ID))
	require.NoError(t, err)
	assert.Equal(t, domainwaitlist.StatusNotified, stored.Status)

	notes, err := queries.Ask[notificationsapp.ListMineQuery, dto.NotificationCollection](ctx, h.buses.Queries, notificationsapp.ListMineQuery{Principal: bob})
	require.NoError(t, err)
	require.Len(t, notes.Items, 1)
	assert.Equal(t, "waitlist_available", notes.Items[0].Type)

	_, err = commands.Dispatch[bookingapp.CancelCommand, *dto.CancelBookingResult](ctx, h.buses.Commands, bookingapp.CancelCommand{Principal: alice, BookingID: booked.Booking.ID})
	assert.ErrorIs(t, err, domainbooking.ErrInvalidState)
}

func TestModifyRepricesAndKeepsRevision(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	booked := h.book(t, alice, "")

	res, err := commands.Dispatch[bookingapp.ModifyCommand, dto.BookingDTO](ctx, h.buses.Commands, bookingapp.ModifyCommand{
		Principal: alice,
		BookingID: booked.Booking.ID,
		CheckIn:   "2025-06-10",
		CheckOut:  "2025-06-13",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Nights)
	assert.Equal(t, int64(1500000), res.Total.Amount)
	require.Len(t, res.Revisions, 1)
	assert.Equal(t, 2, res.Revisions[0].Nights)
}

func TestAdminStatusTransitions(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	booked := h.book(t, alice, "")

	update := func(p auth.Principal, status string) (dto.BookingDTO, error) {
		return commands.Dispatch[bookingapp.UpdateStatusCommand, dto.BookingDTO](ctx, h.buses.Commands, bookingapp.UpdateStatusCommand{
			Principal: p,
			BookingID: booked.Booking.ID,
			Status:    status,
		})
	}

	_, err := update(alice, "paid")
	assert.ErrorIs(t, err, auth.ErrForbidden)

	paid, err := update(admin, "paid")
	require.NoError(t, err)
	assert.Equal(t, "paid", paid.PaymentStatus)
	assert.Equal(t, "confirmed", paid.Status)

	done, err := update(staff, "completed")
	require.NoError(t, err)
	assert.Equal(t, "completed", done.Status)
	assert.Equal(t, domainrooms.Available, h.room(t).Availability)

	_, err = update(staff, "cancelled")
	assert.ErrorIs(t, err, domainbooking.ErrInvalidState)
}

func TestRoomSearchAndRelease(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	search := func(q roomsapp.SearchQuery) dto.RoomCollection {
		res, err := queries.Ask[roomsapp.SearchQuery, dto.RoomCollection](ctx, h.buses.Queries, q)
		require.NoError(t, err)
		return res
	}
	assert.Len(t, search(roomsapp.SearchQuery{BranchID: "blr"}).Items, 1)
	assert.Empty(t, search(roomsapp.SearchQuery{MinCapacity: 3}).Items)

	h.book(t, alice, "")
	assert.Empty(t, search(roomsapp.SearchQuery{BranchID: "blr"}).Items)

	_, err := commands.Dispatch[roomsapp.ReleaseCommand, dto.RoomReleaseResult](ctx, h.buses.Commands, roomsapp.ReleaseCommand{Principal: alice, RoomID: "r-101"})
	assert.ErrorIs(t, err, auth.ErrForbidden)

	_, err = commands.Dispatch[roomsapp.SetAvailabilityCommand, dto.RoomDTO](ctx, h.buses.Commands, roomsapp.SetAvailabilityCommand{Principal: staff, RoomID: "r-101", Status: "unavailable"})
	assert.ErrorIs(t, err, domainrooms.ErrStatusNotAllowed)

	released, err := commands.Dispatch[roomsapp.ReleaseCommand, dto.RoomReleaseResult](ctx, h.buses.Commands, roomsapp.ReleaseCommand{Principal: staff, RoomID: "r-101"})
	require.NoError(t, err)
	assert.Equal(t, "r-101", released.RoomID)
	assert.Equal(t, domainrooms.Available, h.room(t).Availability)
}

func TestPricingRulesAndQuote(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := commands.Dispatch[pricingapp.AddRuleCommand, dto.PricingRuleDTO](ctx, h.buses.Commands, pricingapp.AddRuleCommand{Principal: staff, Type: "weekend", Multiplier: 1.2})
	assert.ErrorIs(t, err, auth.ErrForbidden)

	_, err = commands.Dispatch[pricingapp.AddRuleCommand, dto.PricingRuleDTO](ctx, h.buses.Commands, pricingapp.AddRuleCommand{Principal: admin, Type: "bogus", Multiplier: 1.2})
	assert.ErrorIs(t, err, handlersupport.ErrInvalidInput)

	seeded, err := commands.Dispatch[pricingapp.SeedDefaultsCommand, dto.PricingRuleCollection](ctx, h.buses.Commands, pricingapp.SeedDefaultsCommand{Principal: admin, BranchID: "blr"})
	require.NoError(t, err)
	assert.NotEmpty(t, seeded.Items)

	again, err := commands.Dispatch[pricingapp.SeedDefaultsCommand, dto.PricingRuleCollection](ctx, h.buses.Commands, pricingapp.SeedDefaultsCommand{Principal: admin, BranchID: "blr"})
	require.NoError(t, err)
	assert.Equal(t, seeded.Items[0].ID, again.Items[0].ID)

	listed, err := queries.Ask[pricingapp.ListRulesQuery, dto.PricingRuleCollection](ctx, h.buses.Queries, pricingapp.ListRulesQuery{Principal: admin, BranchID: "blr"})
	require.NoError(t, err)
	assert.Len(t, listed.Items, len(seeded.Items))

	quote, err := queries.Ask[pricingapp.QuoteQuery, dto.QuoteDTO](ctx, h.buses.Queries, pricingapp.QuoteQuery{RoomID: "r-101", CheckIn: "2025-06-10", CheckOut: "2025-06-12"})
	require.NoError(t, err)
	assert.Equal(t, 2, quote.Nights)
	assert.False(t, quote.Fallback)
	assert.Equal(t, int64(1000000), quote.BaseTotal.Amount)
	assert.Len(t, quote.PerNight, 2)
}

func TestRedeemLoyalty(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.book(t, alice, "")

	redeem := func(points int64) (dto.LoyaltyAccountDTO, error) {
		return commands.Dispatch[loyaltyapp.RedeemCommand, dto.LoyaltyAccountDTO](ctx, h.buses.Commands, loyaltyapp.RedeemCommand{Principal: alice, Points: points})
	}
	account, err := redeem(200)
	require.NoError(t, err)
	assert.Equal(t, int64(400), account.Points)

	_, err = redeem(1000)
	assert.ErrorIs(t, err, domainloyalty.ErrInsufficientPoints)
	_, err = redeem(0)
	assert.ErrorIs(t, err, domainloyalty.ErrInvalidPoints)
}

func TestReviewsAfterCompletedStay(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	booked := h.book(t, alice, "")

	submit := func(p auth.Principal, rating int) (dto.ReviewDTO, error) {
		return commands.Dispatch[reviewsapp.SubmitCommand, dto.ReviewDTO](ctx, h.buses.Commands, reviewsapp.SubmitCommand{
			Principal: p,
			BookingID: booked.Booking.ID,
			Rating:    rating,
			Title:     "Lovely stay",
			Text:      "Quiet room, friendly desk.",
		})
	}

	_, err := submit(alice, 4)
	assert.ErrorIs(t, err, domainreviews.ErrStayNotEligible)

	_, err = commands.Dispatch[bookingapp.UpdateStatusCommand, dto.BookingDTO](ctx, h.buses.Commands, bookingapp.UpdateStatusCommand{
		Principal: staff,
		BookingID: booked.Booking.ID,
		Status:    "completed",
	})
	require.NoError(t, err)

	_, err = submit(bob, 4)
	assert.ErrorIs(t, err, domainreviews.ErrNotAuthor)
	_, err = submit(staff, 4)
	assert.ErrorIs(t, err, auth.ErrForbidden)
	_, err = submit(alice, 6)
	assert.ErrorIs(t, err, domainreviews.ErrInvalidRating)

	review, err := submit(alice, 4)
	require.NoError(t, err)
	assert.Equal(t, "Alice", review.Author)
	assert.Equal(t, "r-101", review.RoomID)

	_, err = submit(alice, 5)
	assert.ErrorIs(t, err, domainreviews.ErrDuplicate)

	rooms, err := queries.Ask[roomsapp.SearchQuery, dto.RoomCollection](ctx, h.buses.Queries, roomsapp.SearchQuery{BranchID: "blr"})
	require.NoError(t, err)
	require.Len(t, rooms.Items, 1)
	assert.Equal(t, 4.0, rooms.Items[0].Rating)
	assert.Equal(t, 1, rooms.Items[0].ReviewCount)

	_, err = commands.Dispatch[reviewsapp.UpdateCommand, dto.ReviewDTO](ctx, h.buses.Commands, reviewsapp.UpdateCommand{Principal: bob, ReviewID: review.ID, Rating: 1})
	assert.ErrorIs(t, err, domainreviews.ErrNotAuthor)
	updated, err := commands.Dispatch[reviewsapp.UpdateCommand, dto.ReviewDTO](ctx, h.buses.Commands, reviewsapp.UpdateCommand{Principal: alice, ReviewID: review.ID, Rating: 5, Text: "Even better on reflection."})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Rating)
	assert.Empty(t, updated.Title)

	listed, err := queries.Ask[reviewsapp.ListRoomQuery, dto.ReviewCollection](ctx, h.buses.Queries, reviewsapp.ListRoomQuery{RoomID: "r-101"})
	require.NoError(t, err)
	require.Len(t, listed.Items, 1)
	assert.Equal(t, dto.RatingDTO{Average: 5, Count: 1}, listed.Rating)

	_, err = queries.Ask[reviewsapp.ListRoomQuery, dto.ReviewCollection](ctx, h.buses.Queries, reviewsapp.ListRoomQuery{RoomID: "r-404"})
	assert.ErrorIs(t, err, domainrooms.ErrRoomNotFound)

	mine, err := queries.Ask[reviewsapp.ListMineQuery, dto.ReviewCollection](ctx, h.buses.Queries, reviewsapp.ListMineQuery{Principal: alice})
	require.NoError(t, err)
	assert.Len(t, mine.Items, 1)
	theirs, err := queries.Ask[reviewsapp.ListMineQuery, dto.ReviewCollection](ctx, h.buses.Queries, reviewsapp.ListMineQuery{Principal: bob})
	require.NoError(t, err)
	assert.Empty(t, theirs.Items)

	names := map[string]int{}
	for _, row := range h.box.Pending() {
		names[row.Name]++
	}
	assert.Equal(t, 1, names["review.submitted"])
	assert.Equal(t, 1, names["review.updated"])
}

func TestBranchDirectory(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	for _, b := range domainbranches.IndianBranches(h.now) {
		_, err := h.branches.Insert(ctx, &b)
		require.NoError(t, err)
	}

	list := func(q branchesapp.ListQuery) dto.BranchCollection {
		res, err := queries.Ask[branchesapp.ListQuery, dto.BranchCollection](ctx, h.buses.Queries, q)
		require.NoError(t, err)
		return res
	}
	assert.Len(t, list(branchesapp.ListQuery{}).Items, 5)
	goa := list(branchesapp.ListQuery{City: "goa"})
	require.Len(t, goa.Items, 1)
	assert.Equal(t, "BLISS-GOA", goa.Items[0].ID)

	add := func(p auth.Principal, cmd branchesapp.AddCommand) (dto.BranchDTO, error) {
		cmd.Principal = p
		return commands.Dispatch[branchesapp.AddCommand, dto.BranchDTO](ctx, h.buses.Commands, cmd)
	}
	pune := branchesapp.AddCommand{ID: "BLISS-PUNE", Name: "Hotel Bliss Pune", City: "Pune", StartingPrice: 4200, Status: "inactive"}

	_, err := add(staff, pune)
	assert.ErrorIs(t, err, auth.ErrForbidden)

	added, err := add(admin, pune)
	require.NoError(t, err)
	assert.Equal(t, int64(420000), added.StartingPrice.Amount)
	assert.Equal(t, domainbranches.DefaultCheckInTime, added.CheckInTime)
	assert.Equal(t, "inactive", added.Status)

	_, err = add(admin, pune)
	assert.ErrorIs(t, err, domainbranches.ErrBranchExists)
	_, err = add(admin, branchesapp.AddCommand{ID: "BLISS-NGP", Name: "Hotel Bliss Nagpur", CheckInTime: "2pm"})
	assert.ErrorIs(t, err, domainbranches.ErrInvalidBranch)

	assert.Len(t, list(branchesapp.ListQuery{}).Items, 5)
	assert.Len(t, list(branchesapp.ListQuery{Status: "all"}).Items, 6)
	_, err = queries.Ask[branchesapp.ListQuery, dto.BranchCollection](ctx, h.buses.Queries, branchesapp.ListQuery{Status: "closed"})
	assert.ErrorIs(t, err, handlersupport.ErrInvalidInput)

	got, err := queries.Ask[branchesapp.GetQuery, dto.BranchDTO](ctx, h.buses.Queries, branchesapp.GetQuery{ID: "BLISS-PUNE"})
	require.NoError(t, err)
	assert.Equal(t, "Pune", got.Location.City)
	_, err = queries.Ask[branchesapp.GetQuery, dto.BranchDTO](ctx, h.buses.Queries, branchesapp.GetQuery{ID: "BLISS-NOPE"})
	assert.ErrorIs(t, err, domainbranches.ErrBranchNotFound)
}
