package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainloyalty "hotelbooking/internal/domain/loyalty"
)

type LoyaltyRepository struct {
	col *mongo.Collection
}

func NewLoyaltyRepository(db *mongo.Database) *LoyaltyRepository {
	return &LoyaltyRepository{col: db.Collection("loyalty_accounts")}
}

// ByUser returns nil, nil for a guest who never earned points.
func (r *LoyaltyRepository) ByUser(ctx context.Context, userID string) (*domainloyalty.Account, error) {
	var doc loyaltyDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *LoyaltyRepository) Save(ctx context.Context, a *domainloyalty.Account) error {
	doc := newLoyaltyDocument(a)
	filter := bson.M{"_id": doc.UserID, "version": a.Version}
	doc.Version = a.Version + 1
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	a.Version = doc.Version
	return nil
}

type loyaltyDocument struct {
	UserID       string                `bson:"_id"`
	Points       int64                 `bson:"points"`
	Transactions []transactionDocument `bson:"transactions"`
	UpdatedAt    int64                 `bson:"updated_at"`
	Version      int64                 `bson:"version"`
}

type transactionDocument struct {
	Points int64  `bson:"points"`
	Reason string `bson:"reason"`
	At     int64  `bson:"at"`
}

func newLoyaltyDocument(a *domainloyalty.Account) loyaltyDocument {
	doc := loyaltyDocument{
		UserID:       a.UserID,
		Points:       a.Points,
		Transactions: make([]transactionDocument, 0, len(a.Transactions)),
		UpdatedAt:    timeToTimestamp(a.UpdatedAt),
		Version:      a.Version,
	}
	for _, tx := range a.Transactions {
		doc.Transactions = append(doc.Transactions, transactionDocument{Points: tx.Points, Reason: tx.Reason, At: timeToTimestamp(tx.At)})
	}
	return doc
}

func (d loyaltyDocument) toAggregate() *domainloyalty.Account {
	a := &domainloyalty.Account{
		UserID:    d.UserID,
		Points:    d.Points,
		UpdatedAt: timestampToTime(d.UpdatedAt),
		Version:   d.Version,
	}
	for _, tx := range d.Transactions {
		a.Transactions = append(a.Transactions, domainloyalty.Transaction{Points: tx.Points, Reason: tx.Reason, At: timestampToTime(tx.At)})
	}
	return a
}

var _ domainloyalty.Repository = (*LoyaltyRepository)(nil)
