package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainrooms "hotelbooking/internal/domain/rooms"
	domainwaitlist "hotelbooking/internal/domain/waitlist"
)

type WaitlistRepository struct {
	col *mongo.Collection
}

func NewWaitlistRepository(db *mongo.Database) *WaitlistRepository {
	col := db.Collection("waitlist")
	idx := mongo.IndexModel{Keys: bson.D{{Key: "room_id", Value: 1}, {Key: "status", Value: 1}, {Key: "created_at", Value: 1}}}
	_, _ = col.Indexes().CreateOne(context.Background(), idx)
	return &WaitlistRepository{col: col}
}

func (r *WaitlistRepository) ByID(ctx context.Context, id domainwaitlist.EntryID) (*domainwaitlist.Entry, error) {
	var doc waitlistDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		return nil, notFound(err, domainwaitlist.ErrEntryNotFound)
	}
	return doc.toAggregate(), nil
}

func (r *WaitlistRepository) Save(ctx context.Context, e *domainwaitlist.Entry) error {
	doc := newWaitlistDocument(e)
	_, err := r.col.UpdateByID(ctx, doc.ID, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	return err
}

// List returns entries oldest first; created_at ties break on _id.
func (r *WaitlistRepository) List(ctx context.Context, filter domainwaitlist.Filter) ([]*domainwaitlist.Entry, error) {
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
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := make([]*domainwaitlist.Entry, 0)
	for cur.Next(ctx) {
		var doc waitlistDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cur.Err()
}

type waitlistDocument struct {
	ID         string        `bson:"_id"`
	UserID     string        `bson:"user_id"`
	Email      string        `bson:"email"`
	RoomID     string        `bson:"room_id"`
	RoomName   string        `bson:"room_name"`
	BranchID   string        `bson:"branch_id"`
	Range      rangeDocument `bson:"range"`
	Status     string        `bson:"status"`
	CreatedAt  int64         `bson:"created_at"`
	NotifiedAt int64         `bson:"notified_at"`
	UpdatedAt  int64         `bson:"updated_at"`
}

func newWaitlistDocument(e *domainwaitlist.Entry) waitlistDocument {
	return waitlistDocument{
		ID:         string(e.ID),
		UserID:     e.UserID,
		Email:      e.Email,
		RoomID:     string(e.RoomID),
		RoomName:   e.RoomName,
		BranchID:   e.BranchID,
		Range:      newRangeDocument(e.Range),
		Status:     string(e.Status),
		CreatedAt:  timeToTimestamp(e.CreatedAt),
		NotifiedAt: timeToTimestamp(e.NotifiedAt),
		UpdatedAt:  timeToTimestamp(e.UpdatedAt),
	}
}

func (d waitlistDocument) toAggregate() *domainwaitlist.Entry {
	return &domainwaitlist.Entry{
		ID:         domainwaitlist.EntryID(d.ID),
		UserID:     d.UserID,
		Email:      d.Email,
		RoomID:     domainrooms.RoomID(d.RoomID),
		RoomName:   d.RoomName,
		BranchID:   d.BranchID,
		Range:      d.Range.toRange(),
		Status:     domainwaitlist.Status(d.Status),
		CreatedAt:  timestampToTime(d.CreatedAt),
		NotifiedAt: timestampToTime(d.NotifiedAt),
		UpdatedAt:  timestampToTime(d.UpdatedAt),
	}
}

var _ domainwaitlist.Repository = (*WaitlistRepository)(nil)
