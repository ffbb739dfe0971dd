package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainpricing "hotelbooking/internal/domain/pricing"
)

type RuleStore struct {
	col *mongo.Collection
}

func NewRuleStore(db *mongo.Database) *RuleStore {
	col := db.Collection("pricing_rules")
	idx := mongo.IndexModel{Keys: bson.D{{Key: "branch_id", Value: 1}, {Key: "type", Value: 1}}}
	_, _ = col.Indexes().CreateOne(context.Background(), idx)
	return &RuleStore{col: col}
}

func (s *RuleStore) Rules(ctx context.Context, branchID string, ruleType domainpricing.RuleType) ([]domainpricing.Rule, error) {
	query := bson.M{}
	if branchID != "" {
		query["branch_id"] = bson.M{"$in": []string{branchID, domainpricing.AllBranches}}
	}
	if ruleType != "" {
		query["type"] = string(ruleType)
	}
	cur, err := s.col.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := make([]domainpricing.Rule, 0)
	for cur.Next(ctx) {
		var doc ruleDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toRule())
	}
	return out, cur.Err()
}

func (s *RuleStore) Save(ctx context.Context, rule domainpricing.Rule) error {
	doc := newRuleDocument(rule)
	_, err := s.col.UpdateByID(ctx, doc.ID, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	return err
}

// Insert creates the rule document only when the id is absent.
func (s *RuleStore) Insert(ctx context.Context, rule domainpricing.Rule) (bool, error) {
	doc := newRuleDocument(rule)
	res, err := s.col.UpdateByID(ctx, doc.ID, bson.M{"$setOnInsert": doc}, options.Update().SetUpsert(true))
	if err != nil {
		return false, err
	}
	return res.UpsertedCount == 1, nil
}

type ruleDocument struct {
	ID              string    `bson:"_id"`
	Name            string    `bson:"name"`
	BranchID        string    `bson:"branch_id"`
	Type            string    `bson:"type"`
	Multiplier      float64   `bson:"multiplier"`
	StartDate       string    `bson:"start_date,omitempty"`
	EndDate         string    `bson:"end_date,omitempty"`
	DaysThreshold   *int      `bson:"days_threshold,omitempty"`
	MinNights       int       `bson:"min_nights"`
	DiscountPercent float64   `bson:"discount_percent"`
	Active          *bool     `bson:"active,omitempty"`
	CreatedAt       time.Time `bson:"created_at"`
}

func newRuleDocument(r domainpricing.Rule) ruleDocument {
	active := r.Active
	return ruleDocument{
		ID:              r.ID,
		Name:            r.Name,
		BranchID:        r.BranchID,
		Type:            string(r.Type),
		Multiplier:      r.Multiplier,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		DaysThreshold:   r.DaysThreshold,
		MinNights:       r.MinNights,
		DiscountPercent: r.DiscountPercent,
		Active:          &active,
		CreatedAt:       r.CreatedAt.UTC(),
	}
}

// toRule treats a document without an active field as active.
func (d ruleDocument) toRule() domainpricing.Rule {
	active := true
	if d.Active != nil {
		active = *d.Active
	}
	return domainpricing.Rule{
		ID:              d.ID,
		Name:            d.Name,
		BranchID:        d.BranchID,
		Type:            domainpricing.RuleType(d.Type),
		Multiplier:      d.Multiplier,
		StartDate:       d.StartDate,
		EndDate:         d.EndDate,
		DaysThreshold:   d.DaysThreshold,
		MinNights:       d.MinNights,
		DiscountPercent: d.DiscountPercent,
		Active:          active,
		CreatedAt:       d.CreatedAt,
	}
}

var _ domainpricing.RuleStore = (*RuleStore)(nil)
