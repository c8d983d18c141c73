package kafka

import (
	"CAConnect/internal/pkg/consts"
	"CAConnect/internal/pkg/mongo"
	"CAConnect/internal/repository"
	"context"
	log "log/slog"
	"strconv"
	"time"

	"github.com/IBM/sarama"
)

// EngagementsHandler follows the lead_engagements binlog and keeps the
// cached distinct viewer counts warm.
type EngagementsHandler struct {
	leadRepo  repository.LeadRepo
	inboxRepo mongo.InboxRepo
}

func NewEngagementsHandler(leadRepo repository.LeadRepo, inbox mongo.InboxRepo) *EngagementsHandler {
	return &EngagementsHandler{
		leadRepo:  leadRepo,
		inboxRepo: inbox,
	}
}

func (s *EngagementsHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("lead engagement consumer setup")
	return nil
}

func (s *EngagementsHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("lead engagement consumer cleanup")
	return nil
}

func (s *EngagementsHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-engagement consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-engagement process batch error", "err", err)
		return err
	}
	return nil
}

func (s *EngagementsHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, "lead_engagements")
	if err != nil {
		return err
	}

	// hide and note edits arrive as UPDATE, they never change the
	// viewer count
	switch canalMsg.Type {
	case INSERT:
		return s.handleInsert(ctx, canalMsg)
	case DELETE:
		return s.handleDelete(ctx, canalMsg)
	default:
		return nil
	}
}

func (s *EngagementsHandler) handleInsert(ctx context.Context, msg *CanalMessage) error {
	row := msg.Data[0]
	caID := StrToUint64(row["ca_id"])
	leadID := StrToUint64(row["lead_id"])

	ExecAction(ctx, ActionParams{
		CountKey:    consts.LeadViewerCountKey + strconv.FormatUint(leadID, 10),
		DirtyKey:    consts.LeadDirtyKey,
		DirtyMember: strconv.FormatUint(leadID, 10),
		IsIncrement: true,
		NotifyFunc:  func() { s.sendLeadViewedNotification(ctx, caID, leadID) },
	})

	log.InfoContext(ctx, "lead engagement inserted", "caID", caID, "leadID", leadID)
	return nil
}

func (s *EngagementsHandler) handleDelete(ctx context.Context, msg *CanalMessage) error {
	leadID := StrToUint64(msg.Data[0]["lead_id"])

	ExecAction(ctx, ActionParams{
		CountKey:    consts.LeadViewerCountKey + strconv.FormatUint(leadID, 10),
		DirtyKey:    consts.LeadDirtyKey,
		DirtyMember: strconv.FormatUint(leadID, 10),
		IsIncrement: false,
	})

	log.InfoContext(ctx, "lead engagement deleted", "leadID", leadID)
	return nil
}

func (s *EngagementsHandler) sendLeadViewedNotification(ctx context.Context, caID, leadID uint64) {
	lead, err := s.leadRepo.GetLead(ctx, leadID)
	if err != nil || lead == nil {
		log.WarnContext(ctx, "failed to get lead for notification", "leadID", leadID)
		return
	}

	notification := &mongo.InboxItem{
		ReceiverID: lead.CustomerID,
		SenderID:   caID,
		Type:       mongo.NotifyLeadViewed,
		TargetID:   leadID,
		Content:    "an accountant viewed your request",
		Payload: map[string]any{
			"lead_title": lead.Title,
		},
		IsRead:    false,
		CreatedAt: time.Now(),
	}

	if err := s.inboxRepo.CreateNotification(ctx, notification); err != nil {
		log.ErrorContext(ctx, "failed to create lead viewed notification", "leadID", leadID, "err", err)
		return
	}

	pushInboxItem(ctx, notification)
}
