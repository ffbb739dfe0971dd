package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelbooking/internal/domain/shared/daterange"
	"hotelbooking/internal/domain/shared/money"
)

func stay(t *testing.T, in, out string) daterange.DateRange {
	t.Helper()
	dr, err := daterange.Parse(in, out)
	require.NoError(t, err)
	return dr
}

func newConfirmed(t *testing.T, total int64) *Booking {
	t.Helper()
	b, err := NewBooking(CreateParams{
		ID:        "b-1",
		UserID:    "guest-1",
		RoomID:    "room-1",
		BranchID:  "blr",
		Range:     stay(t, "2025-06-10", "2025-06-12"),
		BasePrice: money.Must(10000, "INR"),
		Total:     money.Must(total, "INR"),
		CreatedAt: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return b
}

func TestNewBooking(t *testing.T) {
	b := newConfirmed(t, 20000)
	assert.Equal(t, StatusConfirmed, b.Status)
	assert.Equal(t, PaymentPending, b.PaymentStatus)
	assert.Equal(t, 2, b.Nights)
	assert.Equal(t, 1, b.Guests)

	evts := b.Drain()
	require.Len(t, evts, 1)
	assert.Equal(t, "booking.confirmed", evts[0].EventName())
	assert.Empty(t, b.Pending())

	_, err := NewBooking(CreateParams{Range: stay(t, "2025-06-10", "2025-06-12")})
	assert.ErrorIs(t, err, ErrGuestRequired)

	_, err = NewBooking(CreateParams{UserID: "g", Guests: -1, Range: stay(t, "2025-06-10", "2025-06-12")})
	assert.ErrorIs(t, err, ErrInvalidGuests)

	_, err = NewBooking(CreateParams{UserID: "g"})
	assert.ErrorIs(t, err, ErrInvalidNights)
}

func TestValidateStay(t *testing.T) {
	now := time.Date(2025, 6, 10, 18, 0, 0, 0, time.UTC)
	assert.NoError(t, ValidateStay(stay(t, "2025-06-10", "2025-06-11"), now))
	assert.ErrorIs(t, ValidateStay(stay(t, "2025-06-09", "2025-06-11"), now), ErrCheckInInPast)
	assert.ErrorIs(t, ValidateStay(daterange.DateRange{}, now), ErrInvalidNights)
}

func TestRefundTiers(t *testing.T) {
	checkIn := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	total := money.Must(30000, "INR")
	tests := []struct {
		name    string
		now     time.Time
		percent int
		refund  int64
		fee     int64
	}{
		{"seven days out", time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC), 100, 30000, 0},
		{"just under seven days", time.Date(2025, 6, 3, 0, 0, 1, 0, time.UTC), 50, 15000, 15000},
		{"three days out", time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC), 50, 15000, 15000},
		{"two days out", time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC), 0, 0, 30000},
		{"after check-in", time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC), 0, 0, 30000},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := RefundFor(total, checkIn, tc.now)
			assert.Equal(t, tc.percent, r.Percent)
			assert.Equal(t, tc.refund, r.Amount.Amount)
			assert.Equal(t, tc.fee, r.Fee.Amount)
			assert.Equal(t, total.Amount, r.Amount.Amount+r.Fee.Amount)
		})
	}
}

func TestCancel(t *testing.T) {
	b := newConfirmed(t, 20001)
	b.Clear()

	refund, err := b.Cancel(time.Date(2025, 6, 6, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 50, refund.Percent)
	assert.Equal(t, int64(10000), refund.Amount.Amount)
	assert.Equal(t, int64(10001), refund.Fee.Amount)
	assert.Equal(t, StatusCancelled, b.Status)
	require.NotNil(t, b.Refund)
	assert.Equal(t, refund, *b.Refund)

	evts := b.Drain()
	require.Len(t, evts, 1)
	assert.Equal(t, "booking.cancelled", evts[0].EventName())

	_, err = b.Cancel(time.Now())
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestModifyKeepsRevision(t *testing.T) {
	b := newConfirmed(t, 20000)
	at := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	err := b.Modify(ModifyParams{
		Range:     stay(t, "2025-06-20", "2025-06-23"),
		BasePrice: money.Must(10000, "INR"),
		Total:     money.Must(33000, "INR"),
		At:        at,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, b.Nights)
	assert.Equal(t, int64(33000), b.Total.Amount)
	assert.Equal(t, at, b.ModifiedAt)
	require.Len(t, b.Revisions, 1)
	assert.Equal(t, 2, b.Revisions[0].Nights)
	assert.Equal(t, int64(20000), b.Revisions[0].Total.Amount)

	require.NoError(t, b.Complete(at))
	assert.ErrorIs(t, b.Modify(ModifyParams{Range: stay(t, "2025-06-20", "2025-06-21")}), ErrInvalidState)
}

func TestMarkPaid(t *testing.T) {
	b := newConfirmed(t, 20000)
	b.Clear()
	now := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	require.NoError(t, b.MarkPaid(now))
	require.NoError(t, b.MarkPaid(now))
	assert.Equal(t, PaymentPaid, b.PaymentStatus)
	assert.Len(t, b.Drain(), 1)

	other := newConfirmed(t, 100)
	_, err := other.Cancel(now)
	require.NoError(t, err)
	assert.ErrorIs(t, other.MarkPaid(now), ErrInvalidState)
}

func TestFilterAndStatus(t *testing.T) {
	b := newConfirmed(t, 100)
	assert.True(t, Filter{UserID: "guest-1", Status: StatusConfirmed}.Matches(b))
	assert.False(t, Filter{RoomID: "room-2"}.Matches(b))
	assert.True(t, b.OwnedBy("guest-1"))
	assert.False(t, b.OwnedBy(""))

	s, err := ParseStatus(" Completed ")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, s)
	_, err = ParseStatus("paid")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
