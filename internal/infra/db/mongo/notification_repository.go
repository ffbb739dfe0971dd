package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainnotifications "hotelbooking/internal/domain/notifications"
)

type NotificationRepository struct {
	col *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) *NotificationRepository {
	col := db.Collection("notifications")
	_, _ = col.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "scheduled_for", Value: 1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: 1}}},
	})
	return &NotificationRepository{col: col}
}

func (r *NotificationRepository) ByID(ctx context.Context, id domainnotifications.NotificationID) (*domainnotifications.Notification, error) {
	var doc notificationDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		return nil, notFound(err, domainnotifications.ErrNotificationNotFound)
	}
	return doc.toAggregate(), nil
}

func (r *NotificationRepository) Save(ctx context.Context, n *domainnotifications.Notification) error {
	doc := newNotificationDocument(n)
	_, err := r.col.UpdateByID(ctx, doc.ID, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	return err
}

func (r *NotificationRepository) List(ctx context.Context, filter domainnotifications.Filter) ([]*domainnotifications.Notification, error) {
	query := bson.M{}
	if filter.UserID != "" {
		query["user_id"] = filter.UserID
	}
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}
	sortKey := "created_at"
	if !filter.DueBy.IsZero() {
		query["status"] = string(domainnotifications.StatusPending)
		query["scheduled_for"] = bson.M{"$lte": filter.DueBy.UnixMilli()}
		sortKey = "scheduled_for"
	}
	opts := options.Find().SetSort(bson.D{{Key: sortKey, Value: 1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}
	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := make([]*domainnotifications.Notification, 0)
	for cur.Next(ctx) {
		var doc notificationDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cur.Err()
}

type notificationDocument struct {
	ID           string `bson:"_id"`
	UserID       string `bson:"user_id"`
	Email        string `bson:"email"`
	BookingID    string `bson:"booking_id"`
	RoomID       string `bson:"room_id"`
	Type         string `bson:"type"`
	Title        string `bson:"title"`
	Message      string `bson:"message"`
	Status       string `bson:"status"`
	Attempts     int    `bson:"attempts"`
	LastError    string `bson:"last_error"`
	ScheduledFor int64  `bson:"scheduled_for"`
	SentAt       int64  `bson:"sent_at"`
	CreatedAt    int64  `bson:"created_at"`
}

func newNotificationDocument(n *domainnotifications.Notification) notificationDocument {
	return notificationDocument{
		ID:           string(n.ID),
		UserID:       n.UserID,
		Email:        n.Email,
		BookingID:    n.BookingID,
		RoomID:       n.RoomID,
		Type:         string(n.Type),
		Title:        n.Title,
		Message:      n.Message,
		Status:       string(n.Status),
		Attempts:     n.Attempts,
		LastError:    n.LastError,
		ScheduledFor: timeToTimestamp(n.ScheduledFor),
		SentAt:       timeToTimestamp(n.SentAt),
		CreatedAt:    timeToTimestamp(n.CreatedAt),
	}
}

func (d notificationDocument) toAggregate() *domainnotifications.Notification {
	return &domainnotifications.Notification{
		ID:           domainnotifications.NotificationID(d.ID),
		UserID:       d.UserID,
		Email:        d.Email,
		BookingID:    d.BookingID,
		RoomID:       d.RoomID,
		Type:         domainnotifications.Type(d.Type),
		Title:        d.Title,
		Message:      d.Message,
		Status:       domainnotifications.Status(d.Status),
		Attempts:     d.Attempts,
		LastError:    d.LastError,
		ScheduledFor: timestampToTime(d.ScheduledFor),
		SentAt:       timestampToTime(d.SentAt),
		CreatedAt:    timestampToTime(d.CreatedAt),
	}
}

var _ domainnotifications.Repository = (*NotificationRepository)(nil)
