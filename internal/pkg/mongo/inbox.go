package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types stored in the inbox.
const (
	NotifyPostReaction    int8 = 1
	NotifyCommentReaction int8 = 2
	NotifyPostComment     int8 = 3
	NotifyLeadViewed      int8 = 4
	NotifyContactRequest  int8 = 5
	NotifyContactAccepted int8 = 6
)

// InboxItem is a single notification delivered to a user.
type InboxItem struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ReceiverID uint64             `bson:"receiver_id" json:"receiverId"`
	SenderID   uint64             `bson:"sender_id" json:"senderId"` // 0 for system notices
	Type       int8               `bson:"type" json:"type"`
	TargetID   uint64             `bson:"target_id" json:"targetId"` // post, lead or request id
	Content    string             `bson:"content" json:"content"`
	Payload    map[string]any     `bson:"payload" json:"payload"`
	IsRead     bool               `bson:"is_read" json:"isRead"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
}
