package mongo

import (
	"context"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbranches "hotelbooking/internal/domain/branches"
)

type BranchRepository struct {
	col *mongo.Collection
}

func NewBranchRepository(db *mongo.Database) *BranchRepository {
	col := db.Collection("branches")
	idx := mongo.IndexModel{Keys: bson.D{{Key: "status", Value: 1}, {Key: "location.city", Value: 1}}}
	_, _ = col.Indexes().CreateOne(context.Background(), idx)
	return &BranchRepository{col: col}
}

func (r *BranchRepository) ByID(ctx context.Context, id domainbranches.BranchID) (*domainbranches.Branch, error) {
	var doc branchDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		return nil, notFound(err, domainbranches.ErrBranchNotFound)
	}
	return doc.toAggregate(), nil
}

func (r *BranchRepository) List(ctx context.Context, filter domainbranches.Filter) ([]*domainbranches.Branch, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}
	if filter.City != "" {
		query["location.city"] = primitive.Regex{Pattern: "^" + regexp.QuoteMeta(filter.City) + "$", Options: "i"}
	}
	cur, err := r.col.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := make([]*domainbranches.Branch, 0)
	for cur.Next(ctx) {
		var doc branchDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cur.Err()
}

// Insert leaves an existing branch document untouched.
func (r *BranchRepository) Insert(ctx context.Context, b *domainbranches.Branch) (bool, error) {
	doc := newBranchDocument(b)
	res, err := r.col.UpdateByID(ctx, doc.ID, bson.M{"$setOnInsert": doc}, options.Update().SetUpsert(true))
	if err != nil {
		return false, err
	}
	return res.UpsertedCount == 1, nil
}

type locationDocument struct {
	Address   string  `bson:"address"`
	City      string  `bson:"city"`
	State     string  `bson:"state"`
	Pincode   string  `bson:"pincode"`
	Latitude  float64 `bson:"latitude"`
	Longitude float64 `bson:"longitude"`
}

type contactDocument struct {
	Phone   string `bson:"phone"`
	Email   string `bson:"email"`
	Manager string `bson:"manager"`
}

type branchDocument struct {
	ID            string           `bson:"_id"`
	Name          string           `bson:"name"`
	Location      locationDocument `bson:"location"`
	Contact       contactDocument  `bson:"contact"`
	Amenities     []string         `bson:"amenities"`
	CheckInTime   string           `bson:"check_in_time"`
	CheckOutTime  string           `bson:"check_out_time"`
	TotalRooms    int              `bson:"total_rooms"`
	RoomTypes     []string         `bson:"room_types"`
	StartingPrice moneyDocument    `bson:"starting_price"`
	Status        string           `bson:"status"`
	CreatedAt     int64            `bson:"created_at"`
}

func newBranchDocument(b *domainbranches.Branch) branchDocument {
	return branchDocument{
		ID:            string(b.ID),
		Name:          b.Name,
		Location:      locationDocument(b.Location),
		Contact:       contactDocument(b.Contact),
		Amenities:     b.Amenities,
		CheckInTime:   b.CheckInTime,
		CheckOutTime:  b.CheckOutTime,
		TotalRooms:    b.TotalRooms,
		RoomTypes:     b.RoomTypes,
		StartingPrice: newMoneyDocument(b.StartingPrice),
		Status:        string(b.Status),
		CreatedAt:     timeToTimestamp(b.CreatedAt),
	}
}

func (d branchDocument) toAggregate() *domainbranches.Branch {
	return &domainbranches.Branch{
		ID:            domainbranches.BranchID(d.ID),
		Name:          d.Name,
		Location:      domainbranches.Location(d.Location),
		Contact:       domainbranches.Contact(d.Contact),
		Amenities:     d.Amenities,
		CheckInTime:   d.CheckInTime,
		CheckOutTime:  d.CheckOutTime,
		TotalRooms:    d.TotalRooms,
		RoomTypes:     d.RoomTypes,
		StartingPrice: d.StartingPrice.toMoney(),
		Status:        domainbranches.Status(d.Status),
		CreatedAt:     timestampToTime(d.CreatedAt),
	}
}

var _ domainbranches.Repository = (*BranchRepository)(nil)
