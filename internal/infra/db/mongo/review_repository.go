package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "hotelbooking/internal/domain/booking"
	domainreviews "hotelbooking/internal/domain/reviews"
	domainrooms "hotelbooking/internal/domain/rooms"
)

type ReviewRepository struct {
	col *mongo.Collection
}

// NewReviewRepository keeps booking_id unique so a stay holds one review.
func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	col := db.Collection("reviews")
	_, _ = col.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{{Key: "booking_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "room_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "author_id", Value: 1}}},
	})
	return &ReviewRepository{col: col}
}

func (r *ReviewRepository) ByID(ctx context.Context, id domainreviews.ReviewID) (*domainreviews.Review, error) {
	var doc reviewDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		return nil, notFound(err, domainreviews.ErrReviewNotFound)
	}
	return doc.toAggregate(), nil
}

func (r *ReviewRepository) List(ctx context.Context, filter domainreviews.Filter) ([]*domainreviews.Review, error) {
	query := bson.M{}
	if filter.RoomID != "" {
		query["room_id"] = string(filter.RoomID)
	}
	if filter.AuthorID != "" {
		query["author_id"] = filter.AuthorID
	}
	if filter.BookingID != "" {
		query["booking_id"] = string(filter.BookingID)
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := make([]*domainreviews.Review, 0)
	for cur.Next(ctx) {
		var doc reviewDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cur.Err()
}

// Ratings groups on the server; rooms without reviews are absent from the map.
func (r *ReviewRepository) Ratings(ctx context.Context, ids []domainrooms.RoomID) (map[domainrooms.RoomID]domainreviews.Rating, error) {
	out := make(map[domainrooms.RoomID]domainreviews.Rating, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	raw := make([]string, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, string(id))
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"room_id": bson.M{"$in": raw}}}},
		{{Key: "$group", Value: bson.M{
			"_id":     "$room_id",
			"average": bson.M{"$avg": "$rating"},
			"count":   bson.M{"$sum": 1},
		}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var row ratingRow
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out[domainrooms.RoomID(row.RoomID)] = domainreviews.Rating{
			Average: domainreviews.RoundRating(row.Average),
			Count:   row.Count,
		}
	}
	return out, cur.Err()
}

func (r *ReviewRepository) Save(ctx context.Context, review *domainreviews.Review) error {
	doc := newReviewDocument(review)
	_, err := r.col.UpdateByID(ctx, doc.ID, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	if mongo.IsDuplicateKeyError(err) {
		return domainreviews.ErrDuplicate
	}
	return err
}

type ratingRow struct {
	RoomID  string  `bson:"_id"`
	Average float64 `bson:"average"`
	Count   int     `bson:"count"`
}

type reviewDocument struct {
	ID        string `bson:"_id"`
	BookingID string `bson:"booking_id"`
	RoomID    string `bson:"room_id"`
	BranchID  string `bson:"branch_id"`
	AuthorID  string `bson:"author_id"`
	Author    string `bson:"author,omitempty"`
	Rating    int    `bson:"rating"`
	Title     string `bson:"title,omitempty"`
	Text      string `bson:"text,omitempty"`
	CreatedAt int64  `bson:"created_at"`
	UpdatedAt int64  `bson:"updated_at"`
}

func newReviewDocument(r *domainreviews.Review) reviewDocument {
	return reviewDocument{
		ID:        string(r.ID),
		BookingID: string(r.BookingID),
		RoomID:    string(r.RoomID),
		BranchID:  r.BranchID,
		AuthorID:  r.AuthorID,
		Author:    r.Author,
		Rating:    r.Rating,
		Title:     r.Title,
		Text:      r.Text,
		CreatedAt: timeToTimestamp(r.CreatedAt),
		UpdatedAt: timeToTimestamp(r.UpdatedAt),
	}
}

func (d reviewDocument) toAggregate() *domainreviews.Review {
	return &domainreviews.Review{
		ID:        domainreviews.ReviewID(d.ID),
		BookingID: domainbooking.BookingID(d.BookingID),
		RoomID:    domainrooms.RoomID(d.RoomID),
		BranchID:  d.BranchID,
		AuthorID:  d.AuthorID,
		Author:    d.Author,
		Rating:    d.Rating,
		Title:     d.Title,
		Text:      d.Text,
		CreatedAt: timestampToTime(d.CreatedAt),
		UpdatedAt: timestampToTime(d.UpdatedAt),
	}
}

var _ domainreviews.Repository = (*ReviewRepository)(nil)
