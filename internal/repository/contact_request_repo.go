package repository

import (
	"CAConnect/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type ContactRequestRepo interface {
	CreateRequest(ctx context.Context, request *model.ContactRequest) error
	GetRequestByID(ctx context.Context, requestID uint64) (*model.ContactRequest, error)
	GetRequestByPair(ctx context.Context, customerID, caID uint64) (*model.ContactRequest, error)
	UpdateRequestStatus(ctx context.Context, requestID uint64, status int8) error
	GetRequestsForCA(ctx context.Context, caID uint64, limit, offset int) ([]*model.ContactRequest, error)
	GetRequestsForCustomer(ctx context.Context, customerID uint64, limit, offset int) ([]*model.ContactRequest, error)
	CountAcceptedBetween(ctx context.Context, caID uint64, from, to time.Time) (int64, error)
}

type ContactRequestRepoImpl struct {
	db *gorm.DB
}

func NewContactRequestRepo(db *gorm.DB) ContactRequestRepo {
	return &ContactRequestRepoImpl{db}
}

func (s *ContactRequestRepoImpl) CreateRequest(ctx context.Context, request *model.ContactRequest) error {
	return s.db.WithContext(ctx).Create(request).Error
}

func (s *ContactRequestRepoImpl) GetRequestByID(ctx context.Context, requestID uint64) (*model.ContactRequest, error) {
	var request model.ContactRequest
	err := s.db.WithContext(ctx).First(&request, requestID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (s *ContactRequestRepoImpl) GetRequestByPair(ctx context.Context, customerID, caID uint64) (*model.ContactRequest, error) {
	var request model.ContactRequest
	err := s.db.WithContext(ctx).
		Where("customer_id = ? AND ca_id = ?", customerID, caID).
		First(&request).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (s *ContactRequestRepoImpl) UpdateRequestStatus(ctx context.Context, requestID uint64, status int8) error {
	return s.db.WithContext(ctx).Model(&model.ContactRequest{}).
		Where("id = ?", requestID).
		Update("status", status).Error
}

func (s *ContactRequestRepoImpl) GetRequestsForCA(ctx context.Context, caID uint64, limit, offset int) ([]*model.ContactRequest, error) {
	var requests []*model.ContactRequest
	err := s.db.WithContext(ctx).
		Where("ca_id = ?", caID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&requests).Error
	return requests, err
}

func (s *ContactRequestRepoImpl) GetRequestsForCustomer(ctx context.Context, customerID uint64, limit, offset int) ([]*model.ContactRequest, error) {
	var requests []*model.ContactRequest
	err := s.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&requests).Error
	return requests, err
}

func (s *ContactRequestRepoImpl) CountAcceptedBetween(ctx context.Context, caID uint64, from, to time.Time) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.ContactRequest{}).
		Where("ca_id = ? AND status = ? AND updated_at >= ? AND updated_at < ?", caID, 1, from, to).
		Count(&count).Error
	return count, err
}
