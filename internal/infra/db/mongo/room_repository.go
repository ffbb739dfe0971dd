package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainrooms "hotelbooking/internal/domain/rooms"
)

type RoomRepository struct {
	col *mongo.Collection
	now func() time.Time
}

func NewRoomRepository(db *mongo.Database) *RoomRepository {
	col := db.Collection("rooms")
	idx := mongo.IndexModel{Keys: bson.D{{Key: "branch_id", Value: 1}, {Key: "availability", Value: 1}}}
	_, _ = col.Indexes().CreateOne(context.Background(), idx)
	return &RoomRepository{col: col, now: time.Now}
}

func (r *RoomRepository) ByID(ctx context.Context, id domainrooms.RoomID) (*domainrooms.Room, error) {
	var doc roomDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		return nil, notFound(err, domainrooms.ErrRoomNotFound)
	}
	return doc.toAggregate(), nil
}

func (r *RoomRepository) List(ctx context.Context, filter domainrooms.Filter) ([]*domainrooms.Room, error) {
	query := bson.M{}
	if filter.BranchID != "" {
		query["branch_id"] = filter.BranchID
	}
	if filter.MinCapacity > 0 {
		query["capacity"] = bson.M{"$gte": filter.MinCapacity}
	}
	if filter.Availability != "" {
		query["availability"] = string(filter.Availability)
	}
	opts := options.Find().SetSort(bson.D{{Key: "branch_id", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := make([]*domainrooms.Room, 0)
	for cur.Next(ctx) {
		var doc roomDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		room := doc.toAggregate()
		// room type is compared case-insensitively here
		if filter.Matches(room) {
			out = append(out, room)
		}
	}
	return out, cur.Err()
}

func (r *RoomRepository) Save(ctx context.Context, room *domainrooms.Room) error {
	doc := newRoomDocument(room)
	_, err := r.col.UpdateByID(ctx, doc.ID, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	return err
}

// Insert creates the room document only when the id is absent, leaving the
// stored availability of an existing room untouched.
func (r *RoomRepository) Insert(ctx context.Context, room *domainrooms.Room) (bool, error) {
	doc := newRoomDocument(room)
	res, err := r.col.UpdateByID(ctx, doc.ID, bson.M{"$setOnInsert": doc}, options.Update().SetUpsert(true))
	if err != nil {
		return false, err
	}
	return res.UpsertedCount == 1, nil
}

func (r *RoomRepository) SetAvailability(ctx context.Context, id domainrooms.RoomID, status domainrooms.Availability) error {
	update := bson.M{"$set": bson.M{"availability": string(status), "updated_at": r.now().UTC().UnixMilli()}}
	res, err := r.col.UpdateByID(ctx, string(id), update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domainrooms.ErrRoomNotFound
	}
	return nil
}

// CompareAndSetAvailability writes only while the stored status equals from.
func (r *RoomRepository) CompareAndSetAvailability(ctx context.Context, id domainrooms.RoomID, from, to domainrooms.Availability) error {
	filter := bson.M{"_id": string(id), "availability": string(from)}
	update := bson.M{"$set": bson.M{"availability": string(to), "updated_at": r.now().UTC().UnixMilli()}}
	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 1 {
		return nil
	}
	if _, err := r.ByID(ctx, id); err != nil {
		return err
	}
	return domainrooms.ErrAvailabilityConflict
}

type roomDocument struct {
	ID           string        `bson:"_id"`
	BranchID     string        `bson:"branch_id"`
	Name         string        `bson:"name"`
	Type         string        `bson:"type"`
	Capacity     int           `bson:"capacity"`
	Price        moneyDocument `bson:"price"`
	Availability string        `bson:"availability"`
	UpdatedAt    int64         `bson:"updated_at"`
}

func newRoomDocument(r *domainrooms.Room) roomDocument {
	return roomDocument{
		ID:           string(r.ID),
		BranchID:     r.BranchID,
		Name:         r.Name,
		Type:         r.Type,
		Capacity:     r.Capacity,
		Price:        newMoneyDocument(r.Price),
		Availability: string(r.Availability),
		UpdatedAt:    timeToTimestamp(r.UpdatedAt),
	}
}

func (d roomDocument) toAggregate() *domainrooms.Room {
	return &domainrooms.Room{
		ID:           domainrooms.RoomID(d.ID),
		BranchID:     d.BranchID,
		Name:         d.Name,
		Type:         d.Type,
		Capacity:     d.Capacity,
		Price:        d.Price.toMoney(),
		Availability: domainrooms.Availability(d.Availability),
		UpdatedAt:    timestampToTime(d.UpdatedAt),
	}
}

var _ domainrooms.Repository = (*RoomRepository)(nil)
