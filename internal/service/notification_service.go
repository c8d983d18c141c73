package service

import (
	"CAConnect/internal/api/dto"
	"CAConnect/internal/pkg/mongo"
	"context"
	"errors"

	mongodriver "go.mongodb.org/mongo-driver/mongo"
)

type NotificationService interface {
	GetInbox(ctx context.Context, userID uint64, page, pageSize int) (*dto.InboxListDTO, error)
	MarkAsRead(ctx context.Context, userID uint64, itemID string) error
	MarkAllAsRead(ctx context.Context, userID uint64) error
	GetUnreadCount(ctx context.Context, userID uint64) (int64, error)
}

type NotificationServiceImpl struct {
	inboxRepo mongo.InboxRepo
}

func NewNotificationService(inboxRepo mongo.InboxRepo) NotificationService {
	return &NotificationServiceImpl{inboxRepo: inboxRepo}
}

func (s *NotificationServiceImpl) GetInbox(ctx context.Context, userID uint64, page, pageSize int) (*dto.InboxListDTO, error) {
	items, err := s.inboxRepo.GetNotificationList(ctx, userID, int64(pageSize), int64((page-1)*pageSize))
	if err != nil {
		return nil, err
	}
	unread, err := s.inboxRepo.GetUnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.InboxItemDTO, 0, len(items))
	for _, item := range items {
		result = append(result, &dto.InboxItemDTO{
			ID:        item.ID.Hex(),
			SenderID:  item.SenderID,
			Type:      item.Type,
			TargetID:  item.TargetID,
			Content:   item.Content,
			Payload:   item.Payload,
			IsRead:    item.IsRead,
			CreatedAt: item.CreatedAt,
		})
	}
	return &dto.InboxListDTO{Items: result, UnreadCount: unread}, nil
}

func (s *NotificationServiceImpl) MarkAsRead(ctx context.Context, userID uint64, itemID string) error {
	err := s.inboxRepo.MarkAsRead(ctx, userID, itemID)
	if errors.Is(err, mongodriver.ErrNoDocuments) || errors.Is(err, mongodriver.ErrInvalidIndexValue) {
		return ErrInboxItemNotFound
	}
	return err
}

func (s *NotificationServiceImpl) MarkAllAsRead(ctx context.Context, userID uint64) error {
	return s.inboxRepo.MarkAllAsRead(ctx, userID)
}

func (s *NotificationServiceImpl) GetUnreadCount(ctx context.Context, userID uint64) (int64, error) {
	return s.inboxRepo.GetUnreadCount(ctx, userID)
}
