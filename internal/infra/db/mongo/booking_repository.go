package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "hotelbooking/internal/domain/booking"
	domainrooms "hotelbooking/internal/domain/rooms"
)

type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	col := db.Collection("agg_booking")
	_, _ = col.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: 1}}},
		{Keys: bson.D{{Key: "room_id", Value: 1}, {Key: "status", Value: 1}}},
	})
	return &BookingRepository{col: col}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	var doc bookingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		return nil, notFound(err, domainbooking.ErrBookingNotFound)
	}
	return doc.toAggregate(), nil
}

// Save writes the booking when the stored version still matches.
func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	doc := newBookingDocument(b)
	filter := bson.M{"_id": doc.ID, "version": b.Version}
	doc.Version = b.Version + 1
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)
	res, err := r.col.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	b.Version = doc.Version
	return nil
}

func (r *BookingRepository) List(ctx context.Context, filter domainbooking.Filter) ([]*domainbooking.Booking, error) {
	query := bson.M{}
	if filter.UserID != "" {
		query["user_id"] = filter.UserID
	}
	if filter.RoomID != "" {
		query["room_id"] = string(filter.RoomID)
	}
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}
	cur, err := r.col.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := make([]*domainbooking.Booking, 0)
	for cur.Next(ctx) {
		var doc bookingDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cur.Err()
}

type bookingDocument struct {
	ID             string             `bson:"_id"`
	UserID         string             `bson:"user_id"`
	GuestName      string             `bson:"guest_name"`
	GuestEmail     string             `bson:"guest_email"`
	RoomID         string             `bson:"room_id"`
	RoomName       string             `bson:"room_name"`
	BranchID       string             `bson:"branch_id"`
	Range          rangeDocument      `bson:"range"`
	Nights         int                `bson:"nights"`
	Guests         int                `bson:"guests"`
	BasePrice      moneyDocument      `bson:"base_price"`
	Total          moneyDocument      `bson:"total"`
	PricingApplied bool               `bson:"pricing_applied"`
	Status         string             `bson:"status"`
	PaymentStatus  string             `bson:"payment_status"`
	Refund         *refundDocument    `bson:"refund,omitempty"`
	Revisions      []revisionDocument `bson:"revisions"`
	CreatedAt      int64              `bson:"created_at"`
	UpdatedAt      int64              `bson:"updated_at"`
	ModifiedAt     int64              `bson:"modified_at"`
	Version        int64              `bson:"version"`
}

type refundDocument struct {
	Percent          int           `bson:"percent"`
	Amount           moneyDocument `bson:"amount"`
	Fee              moneyDocument `bson:"fee"`
	DaysUntilCheckIn int           `bson:"days_until_check_in"`
	At               int64         `bson:"at"`
}

type revisionDocument struct {
	Range      rangeDocument `bson:"range"`
	Nights     int           `bson:"nights"`
	Total      moneyDocument `bson:"total"`
	ReplacedAt int64         `bson:"replaced_at"`
}

func newBookingDocument(b *domainbooking.Booking) bookingDocument {
	doc := bookingDocument{
		ID:             string(b.ID),
		UserID:         b.UserID,
		GuestName:      b.GuestName,
		GuestEmail:     b.GuestEmail,
		RoomID:         string(b.RoomID),
		RoomName:       b.RoomName,
		BranchID:       b.BranchID,
		Range:          newRangeDocument(b.Range),
		Nights:         b.Nights,
		Guests:         b.Guests,
		BasePrice:      newMoneyDocument(b.BasePrice),
		Total:          newMoneyDocument(b.Total),
		PricingApplied: b.PricingApplied,
		Status:         string(b.Status),
		PaymentStatus:  string(b.PaymentStatus),
		Revisions:      make([]revisionDocument, 0, len(b.Revisions)),
		CreatedAt:      timeToTimestamp(b.CreatedAt),
		UpdatedAt:      timeToTimestamp(b.UpdatedAt),
		ModifiedAt:     timeToTimestamp(b.ModifiedAt),
		Version:        b.Version,
	}
	if b.Refund != nil {
		doc.Refund = &refundDocument{
			Percent:          b.Refund.Percent,
			Amount:           newMoneyDocument(b.Refund.Amount),
			Fee:              newMoneyDocument(b.Refund.Fee),
			DaysUntilCheckIn: b.Refund.DaysUntilCheckIn,
			At:               timeToTimestamp(b.Refund.At),
		}
	}
	for _, rev := range b.Revisions {
		doc.Revisions = append(doc.Revisions, revisionDocument{
			Range:      rangeDocument{CheckIn: timeToTimestamp(rev.CheckIn), CheckOut: timeToTimestamp(rev.CheckOut)},
			Nights:     rev.Nights,
			Total:      newMoneyDocument(rev.Total),
			ReplacedAt: timeToTimestamp(rev.ReplacedAt),
		})
	}
	return doc
}

func (d bookingDocument) toAggregate() *domainbooking.Booking {
	b := &domainbooking.Booking{
		ID:             domainbooking.BookingID(d.ID),
		UserID:         d.UserID,
		GuestName:      d.GuestName,
		GuestEmail:     d.GuestEmail,
		RoomID:         domainrooms.RoomID(d.RoomID),
		RoomName:       d.RoomName,
		BranchID:       d.BranchID,
		Range:          d.Range.toRange(),
		Nights:         d.Nights,
		Guests:         d.Guests,
		BasePrice:      d.BasePrice.toMoney(),
		Total:          d.Total.toMoney(),
		PricingApplied: d.PricingApplied,
		Status:         domainbooking.Status(d.Status),
		PaymentStatus:  domainbooking.PaymentStatus(d.PaymentStatus),
		CreatedAt:      timestampToTime(d.CreatedAt),
		UpdatedAt:      timestampToTime(d.UpdatedAt),
		ModifiedAt:     timestampToTime(d.ModifiedAt),
		Version:        d.Version,
	}
	if d.Refund != nil {
		b.Refund = &domainbooking.Refund{
			Percent:          d.Refund.Percent,
			Amount:           d.Refund.Amount.toMoney(),
			Fee:              d.Refund.Fee.toMoney(),
			DaysUntilCheckIn: d.Refund.DaysUntilCheckIn,
			At:               timestampToTime(d.Refund.At),
		}
	}
	for _, rev := range d.Revisions {
		dr := rev.Range.toRange()
		b.Revisions = append(b.Revisions, domainbooking.Revision{
			CheckIn:    dr.CheckIn,
			CheckOut:   dr.CheckOut,
			Nights:     rev.Nights,
			Total:      rev.Total.toMoney(),
			ReplacedAt: timestampToTime(rev.ReplacedAt),
		})
	}
	return b
}

var _ domainbooking.Repository = (*BookingRepository)(nil)
