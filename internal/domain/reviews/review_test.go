package reviews

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelbooking/internal/domain/booking"
	"hotelbooking/internal/domain/shared/daterange"
	"hotelbooking/internal/domain/shared/money"
)

func stay(t *testing.T) *booking.Booking {
	t.Helper()
	dr, err := daterange.Parse("2025-06-10", "2025-06-12")
	require.NoError(t, err)
	b, err := booking.NewBooking(booking.CreateParams{
		ID:        "b-1",
		UserID:    "guest-alice",
		RoomID:    "r-101",
		BranchID:  "blr",
		Range:     dr,
		Total:     money.Must(1000000, "INR"),
		CreatedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return b
}

func TestSubmitNeedsFinishedOwnStay(t *testing.T) {
	during := time.Date(2025, 6, 11, 12, 0, 0, 0, time.UTC)
	after := time.Date(2025, 6, 12, 10, 0, 0, 0, time.UTC)

	_, err := Submit(SubmitParams{ID: "rv-1", Stay: stay(t), AuthorID: "guest-alice", Rating: 5, CreatedAt: during})
	assert.ErrorIs(t, err, ErrStayNotEligible)

	_, err = Submit(SubmitParams{ID: "rv-1", Stay: stay(t), AuthorID: "guest-bob", Rating: 5, CreatedAt: after})
	assert.ErrorIs(t, err, ErrNotAuthor)

	cancelled := stay(t)
	_, err = cancelled.Cancel(time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	_, err = Submit(SubmitParams{ID: "rv-1", Stay: cancelled, AuthorID: "guest-alice", Rating: 5, CreatedAt: after})
	assert.ErrorIs(t, err, ErrStayNotEligible)

	r, err := Submit(SubmitParams{ID: "rv-1", Stay: stay(t), AuthorID: "guest-alice", Rating: 4, Title: " Lovely ", Text: "Quiet room. ", CreatedAt: after})
	require.NoError(t, err)
	assert.Equal(t, "Lovely", r.Title)
	assert.Equal(t, "Quiet room.", r.Text)
	assert.Equal(t, "blr", r.BranchID)
	pending := r.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, "review.submitted", pending[0].EventName())
}

func TestSubmitValidatesRatingAndText(t *testing.T) {
	after := time.Date(2025, 6, 13, 0, 0, 0, 0, time.UTC)
	for _, rating := range []int{0, 6, -1} {
		_, err := Submit(SubmitParams{Stay: stay(t), AuthorID: "guest-alice", Rating: rating, CreatedAt: after})
		assert.ErrorIs(t, err, ErrInvalidRating)
	}
	_, err := Submit(SubmitParams{Stay: stay(t), AuthorID: "guest-alice", Rating: 3, Text: strings.Repeat("a", MaxTextLength+1), CreatedAt: after})
	assert.ErrorIs(t, err, ErrTextTooLong)
}

func TestUpdateKeepsAuthor(t *testing.T) {
	after := time.Date(2025, 6, 13, 0, 0, 0, 0, time.UTC)
	r, err := Submit(SubmitParams{ID: "rv-1", Stay: stay(t), AuthorID: "guest-alice", Rating: 2, CreatedAt: after})
	require.NoError(t, err)
	assert.ErrorIs(t, r.Update("guest-bob", 5, "", "", after), ErrNotAuthor)
	require.NoError(t, r.Update("guest-alice", 5, "Better", "Fixed the AC", after.Add(time.Hour)))
	assert.Equal(t, 5, r.Rating)
	assert.Equal(t, after.Add(time.Hour), r.UpdatedAt)
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, Rating{}, Summarize(nil))
	assert.Equal(t, Rating{Average: 4.3, Count: 3}, Summarize([]int{5, 4, 4}))
	assert.Equal(t, Rating{Average: 3.5, Count: 2}, Summarize([]int{3, 4}))
}
