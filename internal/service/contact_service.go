package service

import (
	"CAConnect/internal/api/dto"
	"CAConnect/internal/model"
	"CAConnect/internal/pkg/consts"
	"CAConnect/internal/pkg/mongo"
	"CAConnect/internal/pkg/redis"
	"CAConnect/internal/repository"
	"context"
	log "log/slog"
	"strconv"
	"time"

	"github.com/goccy/go-json"
)

type ContactService interface {
	CreateRequest(ctx context.Context, customerID uint64, req *dto.ContactRequestCreateDTO) (*dto.ContactRequestDTO, error)
	AcceptRequest(ctx context.Context, caID uint64, requestID uint64) error
	DeclineRequest(ctx context.Context, caID uint64, requestID uint64) error
	GetRequestsForCA(ctx context.Context, caID uint64, page, pageSize int) ([]*dto.ContactRequestDTO, error)
	GetRequestsForCustomer(ctx context.Context, customerID uint64, page, pageSize int) ([]*dto.ContactRequestDTO, error)
}

type ContactServiceImpl struct {
	contactRepo repository.ContactRequestRepo
	profileRepo repository.CAProfileRepo
	userSvc     UserService
	inboxRepo   mongo.InboxRepo
}

func NewContactService(contactRepo repository.ContactRequestRepo, profileRepo repository.CAProfileRepo, userSvc UserService, inboxRepo mongo.InboxRepo) ContactService {
	return &ContactServiceImpl{
		contactRepo: contactRepo,
		profileRepo: profileRepo,
		userSvc:     userSvc,
		inboxRepo:   inboxRepo,
	}
}

func (s *ContactServiceImpl) CreateRequest(ctx context.Context, customerID uint64, req *dto.ContactRequestCreateDTO) (*dto.ContactRequestDTO, error) {
	profile, err := s.profileRepo.GetProfileByUserID(ctx, req.CAID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrCAProfileNotFound
	}
	if !profile.IsVerified {
		return nil, ErrCANotVerified
	}

	request := &model.ContactRequest{
		CustomerID: customerID,
		CAID:       req.CAID,
		Message:    req.Message,
	}
	if err = s.contactRepo.CreateRequest(ctx, request); err != nil {
		if isDuplicateError(err) {
			return nil, ErrContactRequestExist
		}
		return nil, err
	}

	s.notify(ctx, req.CAID, customerID, mongo.NotifyContactRequest, request.ID, "You have a new contact request")

	return s.requestToDTO(ctx, request), nil
}

func (s *ContactServiceImpl) AcceptRequest(ctx context.Context, caID uint64, requestID uint64) error {
	request, err := s.ownRequest(ctx, caID, requestID)
	if err != nil {
		return err
	}
	if err = s.contactRepo.UpdateRequestStatus(ctx, requestID, consts.ContactRequestAccepted); err != nil {
		return err
	}
	s.notify(ctx, request.CustomerID, caID, mongo.NotifyContactAccepted, requestID, "Your contact request was accepted")
	return nil
}

func (s *ContactServiceImpl) DeclineRequest(ctx context.Context, caID uint64, requestID uint64) error {
	if _, err := s.ownRequest(ctx, caID, requestID); err != nil {
		return err
	}
	return s.contactRepo.UpdateRequestStatus(ctx, requestID, consts.ContactRequestDeclined)
}

func (s *ContactServiceImpl) GetRequestsForCA(ctx context.Context, caID uint64, page, pageSize int) ([]*dto.ContactRequestDTO, error) {
	requests, err := s.contactRepo.GetRequestsForCA(ctx, caID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	return s.requestsToDTOs(ctx, requests)
}

func (s *ContactServiceImpl) GetRequestsForCustomer(ctx context.Context, customerID uint64, page, pageSize int) ([]*dto.ContactRequestDTO, error) {
	requests, err := s.contactRepo.GetRequestsForCustomer(ctx, customerID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	return s.requestsToDTOs(ctx, requests)
}

func (s *ContactServiceImpl) ownRequest(ctx context.Context, caID uint64, requestID uint64) (*model.ContactRequest, error) {
	request, err := s.contactRepo.GetRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, ErrContactRequestNotFound
	}
	if request.CAID != caID {
		return nil, UnauthorizedError
	}
	return request, nil
}

// notify stores an inbox item and pushes it to the receiver's live channel.
func (s *ContactServiceImpl) notify(ctx context.Context, receiverID, senderID uint64, notifyType int8, targetID uint64, content string) {
	if s.inboxRepo == nil {
		return
	}
	item := &mongo.InboxItem{
		ReceiverID: receiverID,
		SenderID:   senderID,
		Type:       notifyType,
		TargetID:   targetID,
		Content:    content,
		CreatedAt:  time.Now(),
	}
	if err := s.inboxRepo.CreateNotification(ctx, item); err != nil {
		log.Error("Failed to store contact notification", "receiver_id", receiverID, "err", err)
		return
	}
	if data, err := json.Marshal(item); err == nil {
		_ = redis.Publish(ctx, consts.InboxChannelKey+strconv.FormatUint(receiverID, 10), string(data))
	}
}

func (s *ContactServiceImpl) requestToDTO(ctx context.Context, request *model.ContactRequest) *dto.ContactRequestDTO {
	dtos, err := s.requestsToDTOs(ctx, []*model.ContactRequest{request})
	if err != nil || len(dtos) == 0 {
		return &dto.ContactRequestDTO{
			ID:         request.ID,
			CustomerID: request.CustomerID,
			CAID:       request.CAID,
			Message:    request.Message,
			Status:     request.Status,
			CreatedAt:  request.CreatedAt,
		}
	}
	return dtos[0]
}

func (s *ContactServiceImpl) requestsToDTOs(ctx context.Context, requests []*model.ContactRequest) ([]*dto.ContactRequestDTO, error) {
	if len(requests) == 0 {
		return []*dto.ContactRequestDTO{}, nil
	}
	userIDs := make([]uint64, 0, len(requests)*2)
	for _, request := range requests {
		userIDs = append(userIDs, request.CustomerID, request.CAID)
	}
	users, err := s.userSvc.GetUserSimpleInfoByIds(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.ContactRequestDTO, 0, len(requests))
	for _, request := range requests {
		item := &dto.ContactRequestDTO{
			ID:         request.ID,
			CustomerID: request.CustomerID,
			CAID:       request.CAID,
			Message:    request.Message,
			Status:     request.Status,
			CreatedAt:  request.CreatedAt,
		}
		if user, ok := users[request.CustomerID]; ok {
			item.CustomerName = user.DisplayName
		}
		if user, ok := users[request.CAID]; ok {
			item.CAName = user.DisplayName
		}
		result = append(result, item)
	}
	return result, nil
}
