package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type InboxRepo interface {
	CreateNotification(ctx context.Context, msg *InboxItem) error
	GetNotificationList(ctx context.Context, userID uint64, limit, offset int64) ([]*InboxItem, error)
	MarkAsRead(ctx context.Context, userID uint64, msgID string) error
	MarkAllAsRead(ctx context.Context, userID uint64) error
	GetUnreadCount(ctx context.Context, userID uint64) (int64, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*InboxItem, error)
}

type inboxRepoImpl struct {
	col *mongo.Collection
}

func NewInboxRepo(db *mongo.Database) InboxRepo {
	return &inboxRepoImpl{
		col: db.Collection("inbox"),
	}
}

func (s *inboxRepoImpl) CreateNotification(ctx context.Context, msg *InboxItem) error {
	_, err := s.col.InsertOne(ctx, msg)
	return err
}

// GetNotificationList pages a user's notifications, newest first.
func (s *inboxRepoImpl) GetNotificationList(ctx context.Context, userID uint64, limit, offset int64) ([]*InboxItem, error) {
	filter := bson.M{"receiver_id": userID}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var list []*InboxItem
	if err = cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *inboxRepoImpl) MarkAsRead(ctx context.Context, userID uint64, msgID string) error {
	objectID, err := primitive.ObjectIDFromHex(msgID)
	if err != nil {
		return mongo.ErrInvalidIndexValue
	}
	filter := bson.M{"_id": objectID, "receiver_id": userID}
	update := bson.M{"$set": bson.M{"is_read": true}}
	result, err := s.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (s *inboxRepoImpl) MarkAllAsRead(ctx context.Context, userID uint64) error {
	filter := bson.M{"receiver_id": userID, "is_read": false}
	update := bson.M{"$set": bson.M{"is_read": true}}
	_, err := s.col.UpdateMany(ctx, filter, update)
	return err
}

func (s *inboxRepoImpl) GetUnreadCount(ctx context.Context, userID uint64) (int64, error) {
	filter := bson.M{"receiver_id": userID, "is_read": false}
	return s.col.CountDocuments(ctx, filter)
}

func (s *inboxRepoImpl) GetByID(ctx context.Context, id primitive.ObjectID) (*InboxItem, error) {
	var msg InboxItem
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&msg)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}
