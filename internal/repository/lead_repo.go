package repository

import (
	"CAConnect/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

// LeadFilter narrows the open-lead listing for CAs.
type LeadFilter struct {
	City        string
	ServiceArea string
	BudgetBand  int8
}

type LeadRepo interface {
	CreateLead(ctx context.Context, lead *model.Lead) error
	GetLead(ctx context.Context, leadID uint64) (*model.Lead, error)
	GetLeadsByIDs(ctx context.Context, leadIDs []uint64) ([]*model.Lead, error)
	GetOpenLeads(ctx context.Context, filter LeadFilter, limit, offset int) ([]*model.Lead, error)
	GetLeadsByCustomer(ctx context.Context, customerID uint64, limit, offset int) ([]*model.Lead, error)
	UpdateLeadStatus(ctx context.Context, leadID uint64, status int8) error
}

type LeadRepoImpl struct {
	db *gorm.DB
}

func NewLeadRepo(db *gorm.DB) LeadRepo {
	return &LeadRepoImpl{db}
}

func (s *LeadRepoImpl) CreateLead(ctx context.Context, lead *model.Lead) error {
	return s.db.WithContext(ctx).Create(lead).Error
}

func (s *LeadRepoImpl) GetLead(ctx context.Context, leadID uint64) (*model.Lead, error) {
	var lead model.Lead
	err := s.db.WithContext(ctx).First(&lead, leadID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

func (s *LeadRepoImpl) GetLeadsByIDs(ctx context.Context, leadIDs []uint64) ([]*model.Lead, error) {
	if len(leadIDs) == 0 {
		return nil, nil
	}
	var leads []*model.Lead
	err := s.db.WithContext(ctx).
		Where("id IN ?", leadIDs).
		Find(&leads).Error
	return leads, err
}

func (s *LeadRepoImpl) GetOpenLeads(ctx context.Context, filter LeadFilter, limit, offset int) ([]*model.Lead, error) {
	query := s.db.WithContext(ctx).Model(&model.Lead{}).
		Where("status = ?", 1)
	if filter.City != "" {
		query = query.Where("city = ?", filter.City)
	}
	if filter.ServiceArea != "" {
		// service_areas is a JSON string array; a quoted LIKE match keeps the
		// filter portable across drivers
		query = query.Where("service_areas LIKE ?", `%"`+filter.ServiceArea+`"%`)
	}
	if filter.BudgetBand > 0 {
		query = query.Where("budget_band = ?", filter.BudgetBand)
	}

	var leads []*model.Lead
	err := query.Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&leads).Error
	return leads, err
}

func (s *LeadRepoImpl) GetLeadsByCustomer(ctx context.Context, customerID uint64, limit, offset int) ([]*model.Lead, error) {
	var leads []*model.Lead
	err := s.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&leads).Error
	return leads, err
}

func (s *LeadRepoImpl) UpdateLeadStatus(ctx context.Context, leadID uint64, status int8) error {
	return s.db.WithContext(ctx).Model(&model.Lead{}).
		Where("id = ?", leadID).
		Update("status", status).Error
}
