package kafka

import (
	"CAConnect/internal/pkg/consts"
	"CAConnect/internal/pkg/mongo"
	"CAConnect/internal/pkg/redis"
	"CAConnect/internal/repository"
	"context"
	log "log/slog"
	"strconv"
	"time"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

// ReactionsHandler follows the reactions binlog and keeps the cached
// per-type counters warm, marking targets dirty for reconciliation.
type ReactionsHandler struct {
	postRepo  repository.PostRepo
	inboxRepo mongo.InboxRepo
}

func NewReactionsHandler(postRepo repository.PostRepo, inbox mongo.InboxRepo) *ReactionsHandler {
	return &ReactionsHandler{
		postRepo:  postRepo,
		inboxRepo: inbox,
	}
}

func (s *ReactionsHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("reaction consumer setup")
	return nil
}

func (s *ReactionsHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("reaction consumer cleanup")
	return nil
}

func (s *ReactionsHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-reaction consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-reaction process batch error", "err", err)
		return err
	}
	return nil
}

func (s *ReactionsHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, "reactions")
	if err != nil {
		return err
	}

	switch canalMsg.Type {
	case INSERT:
		return s.handleInsert(ctx, canalMsg)
	case UPDATE:
		return s.handleUpdate(ctx, canalMsg)
	case DELETE:
		return s.handleDelete(ctx, canalMsg)
	default:
		return nil
	}
}

// handleInsert bumps the new reaction bucket and notifies the author.
func (s *ReactionsHandler) handleInsert(ctx context.Context, msg *CanalMessage) error {
	row := msg.Data[0]
	userID := StrToUint64(row["user_id"])
	targetType := StrVal(row["target_type"])
	targetID := StrToUint64(row["target_id"])
	reactionType := StrVal(row["reaction_type"])

	ExecAction(ctx, ActionParams{
		CountKey:    ReactionCountKey(targetType, targetID, reactionType),
		DirtyKey:    consts.ReactionDirtyKey,
		DirtyMember: DirtyMember(targetType, targetID),
		IsIncrement: true,
		NotifyFunc:  func() { s.sendReactionNotification(ctx, userID, targetType, targetID, reactionType) },
	})

	log.InfoContext(ctx, "reaction inserted", "userID", userID, "targetType", targetType, "targetID", targetID, "type", reactionType)
	return nil
}

// handleUpdate moves one unit from the old bucket to the new one.
func (s *ReactionsHandler) handleUpdate(ctx context.Context, msg *CanalMessage) error {
	row := msg.Data[0]
	targetType := StrVal(row["target_type"])
	targetID := StrToUint64(row["target_id"])
	newType := StrVal(row["reaction_type"])

	if len(msg.Old) > 0 {
		if oldType := StrVal(msg.Old[0]["reaction_type"]); oldType != "" && oldType != newType {
			ExecAction(ctx, ActionParams{
				CountKey:    ReactionCountKey(targetType, targetID, oldType),
				DirtyKey:    consts.ReactionDirtyKey,
				DirtyMember: DirtyMember(targetType, targetID),
				IsIncrement: false,
			})
		}
	}

	ExecAction(ctx, ActionParams{
		CountKey:    ReactionCountKey(targetType, targetID, newType),
		DirtyKey:    consts.ReactionDirtyKey,
		DirtyMember: DirtyMember(targetType, targetID),
		IsIncrement: true,
	})

	log.InfoContext(ctx, "reaction switched", "targetType", targetType, "targetID", targetID, "type", newType)
	return nil
}

// handleDelete drops one unit from the removed bucket.
func (s *ReactionsHandler) handleDelete(ctx context.Context, msg *CanalMessage) error {
	row := msg.Data[0]
	targetType := StrVal(row["target_type"])
	targetID := StrToUint64(row["target_id"])
	reactionType := StrVal(row["reaction_type"])

	ExecAction(ctx, ActionParams{
		CountKey:    ReactionCountKey(targetType, targetID, reactionType),
		DirtyKey:    consts.ReactionDirtyKey,
		DirtyMember: DirtyMember(targetType, targetID),
		IsIncrement: false,
	})

	log.InfoContext(ctx, "reaction removed", "targetType", targetType, "targetID", targetID, "type", reactionType)
	return nil
}

func (s *ReactionsHandler) sendReactionNotification(ctx context.Context, senderID uint64, targetType string, targetID uint64, reactionType string) {
	var receiverID uint64
	payload := map[string]any{"reaction_type": reactionType}
	content := "reacted to your post"
	notifyType := mongo.NotifyPostReaction

	switch targetType {
	case consts.TargetTypePost:
		posts, err := s.postRepo.GetPostByIds(ctx, []uint64{targetID})
		if err != nil || len(posts) == 0 {
			log.WarnContext(ctx, "failed to get post for notification", "postID", targetID)
			return
		}
		receiverID = posts[0].UserID
		payload["post_title"] = posts[0].Title
	case consts.TargetTypeComment:
		comment, err := s.postRepo.GetCommentByID(ctx, targetID)
		if err != nil || comment == nil {
			log.WarnContext(ctx, "failed to get comment for notification", "commentID", targetID)
			return
		}
		receiverID = comment.UserID
		content = "reacted to your comment"
		notifyType = mongo.NotifyCommentReaction
	default:
		return
	}

	if receiverID == senderID {
		return
	}

	notification := &mongo.InboxItem{
		ReceiverID: receiverID,
		SenderID:   senderID,
		Type:       notifyType,
		TargetID:   targetID,
		Content:    content,
		Payload:    payload,
		IsRead:     false,
		CreatedAt:  time.Now(),
	}

	if err := s.inboxRepo.CreateNotification(ctx, notification); err != nil {
		log.ErrorContext(ctx, "failed to create reaction notification", "targetID", targetID, "err", err)
		return
	}

	pushInboxItem(ctx, notification)
}

// pushInboxItem publishes a freshly stored notification so an open
// websocket can deliver it immediately.
func pushInboxItem(ctx context.Context, item *mongo.InboxItem) {
	data, err := json.Marshal(item)
	if err != nil {
		return
	}
	channel := consts.InboxChannelKey + strconv.FormatUint(item.ReceiverID, 10)
	if err := redis.Publish(ctx, channel, string(data)); err != nil {
		log.WarnContext(ctx, "failed to publish inbox item", "channel", channel, "err", err)
	}
}

// ReactionCountKey builds the cached counter key for one reaction bucket.
func ReactionCountKey(targetType string, targetID uint64, reactionType string) string {
	return consts.ReactionCountKey + targetType + ":" + strconv.FormatUint(targetID, 10) + ":" + reactionType
}

// DirtyMember identifies a target inside the dirty set.
func DirtyMember(targetType string, targetID uint64) string {
	return targetType + ":" + strconv.FormatUint(targetID, 10)
}
