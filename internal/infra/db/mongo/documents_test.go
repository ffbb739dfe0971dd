package mongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"hotelbooking/internal/app/middleware"
	domainbooking "hotelbooking/internal/domain/booking"
	domainbranches "hotelbooking/internal/domain/branches"
	domainpricing "hotelbooking/internal/domain/pricing"
	domainreviews "hotelbooking/internal/domain/reviews"
	"hotelbooking/internal/domain/shared/daterange"
	"hotelbooking/internal/domain/shared/money"
)

func TestBookingDocumentKeepsRefundAndRevisions(t *testing.T) {
	dr, err := daterange.Parse("2025-06-10", "2025-06-12")
	require.NoError(t, err)
	created := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	b, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID:        "b-1",
		UserID:    "u-1",
		RoomID:    "r-1",
		Range:     dr,
		Total:     money.Must(20000, "INR"),
		CreatedAt: created,
	})
	require.NoError(t, err)
	next, err := daterange.Parse("2025-06-20", "2025-06-21")
	require.NoError(t, err)
	require.NoError(t, b.Modify(domainbooking.ModifyParams{Range: next, Total: money.Must(9000, "INR"), At: created.Add(time.Hour)}))
	_, err = b.Cancel(created.Add(2 * time.Hour))
	require.NoError(t, err)

	got := newBookingDocument(b).toAggregate()
	assert.Equal(t, b.Range, got.Range)
	assert.Equal(t, domainbooking.StatusCancelled, got.Status)
	require.NotNil(t, got.Refund)
	assert.Equal(t, b.Refund.Percent, got.Refund.Percent)
	assert.Equal(t, b.Refund.Fee, got.Refund.Fee)
	require.Len(t, got.Revisions, 1)
	assert.Equal(t, dr.CheckIn, got.Revisions[0].CheckIn)
	assert.Equal(t, int64(20000), got.Revisions[0].Total.Amount)
}

func TestZeroTimestampsStayZero(t *testing.T) {
	assert.Zero(t, timeToTimestamp(time.Time{}))
	assert.True(t, timestampToTime(0).IsZero())
}

func TestIdempotencyDocumentExpiry(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	doc := newIdempotencyDocument(middleware.IdempotencyRecord{Key: "k-1", Payload: []byte(`{}`)}, now, time.Hour)
	assert.Equal(t, "k-1", doc.Key)
	assert.Equal(t, now, doc.OccurredAt)
	assert.Equal(t, now.Add(time.Hour), doc.ExpiresAt)

	rec := doc.toRecord()
	assert.Equal(t, "k-1", rec.Key)
	assert.JSONEq(t, `{}`, string(rec.Payload))
}

func TestRuleDocumentWithoutActiveFieldIsActive(t *testing.T) {
	raw, err := bson.Marshal(bson.M{
		"_id":        "weekend-premium",
		"name":       "Weekend Premium",
		"branch_id":  "all",
		"type":       "weekend",
		"multiplier": 1.3,
		"created_at": time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	var doc ruleDocument
	require.NoError(t, bson.Unmarshal(raw, &doc))
	assert.True(t, doc.toRule().Active)

	raw, err = bson.Marshal(bson.M{"_id": "off", "type": "weekday", "multiplier": 0.9, "active": false})
	require.NoError(t, err)
	doc = ruleDocument{}
	require.NoError(t, bson.Unmarshal(raw, &doc))
	assert.False(t, doc.toRule().Active)

	// an inactive rule must round-trip as inactive, not as a missing field
	stored := newRuleDocument(domainpricing.Rule{ID: "x", Type: domainpricing.RuleWeekday, Multiplier: 1, Active: false})
	require.NotNil(t, stored.Active)
	assert.False(t, stored.toRule().Active)
}

func TestBranchDocumentKeepsLocation(t *testing.T) {
	b := domainbranches.IndianBranches(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))[0]
	got := newBranchDocument(&b).toAggregate()
	assert.Equal(t, b.Location, got.Location)
	assert.Equal(t, b.Contact, got.Contact)
	assert.Equal(t, b.StartingPrice, got.StartingPrice)
	assert.Equal(t, b.CreatedAt, got.CreatedAt)
}

func TestReviewDocumentDropsPendingEvents(t *testing.T) {
	r := &domainreviews.Review{ID: "rv-1", BookingID: "b-1", RoomID: "r-1", AuthorID: "u-1", Rating: 4, CreatedAt: time.Date(2025, 6, 13, 0, 0, 0, 0, time.UTC)}
	r.Record(domainreviews.ReviewSubmitted{ReviewID: r.ID})
	got := newReviewDocument(r).toAggregate()
	assert.Equal(t, 4, got.Rating)
	assert.Equal(t, r.CreatedAt, got.CreatedAt)
	assert.Empty(t, got.Pending())
}
