package service

import (
	"CAConnect/internal/api/dto"
	"CAConnect/internal/model"
	"CAConnect/internal/pkg/consts"
	"CAConnect/internal/repository"
	"context"
)

type LeadService interface {
	CreateLead(ctx context.Context, customerID uint64, req *dto.LeadCreateDTO) (uint64, error)
	GetOpenLeads(ctx context.Context, caID uint64, query *dto.LeadQueryDTO) ([]*dto.LeadDTO, error)
	GetMyLeads(ctx context.Context, customerID uint64, page, pageSize int) ([]*dto.LeadDTO, error)
	CloseLead(ctx context.Context, customerID, leadID uint64) error
}

type leadServiceImpl struct {
	leadRepo       repository.LeadRepo
	engagementRepo repository.LeadEngagementRepo
}

func NewLeadService(leadRepo repository.LeadRepo, engagementRepo repository.LeadEngagementRepo) LeadService {
	return &leadServiceImpl{
		leadRepo:       leadRepo,
		engagementRepo: engagementRepo,
	}
}

func (s *leadServiceImpl) CreateLead(ctx context.Context, customerID uint64, req *dto.LeadCreateDTO) (uint64, error) {
	lead := &model.Lead{
		CustomerID:   customerID,
		Title:        req.Title,
		Description:  req.Description,
		ServiceAreas: req.ServiceAreas,
		City:         req.City,
		BudgetBand:   req.BudgetBand,
		ContactName:  req.ContactName,
		ContactPhone: req.ContactPhone,
		ContactEmail: req.ContactEmail,
		Status:       consts.LeadStatusOpen,
	}
	if err := s.leadRepo.CreateLead(ctx, lead); err != nil {
		return 0, err
	}
	return lead.ID, nil
}

// GetOpenLeads lists the board for an accountant. Contact details stay
// masked until the accountant views a lead; already-viewed leads come back
// unmasked with Viewed set.
func (s *leadServiceImpl) GetOpenLeads(ctx context.Context, caID uint64, query *dto.LeadQueryDTO) ([]*dto.LeadDTO, error) {
	filter := repository.LeadFilter{
		City:        query.City,
		ServiceArea: query.ServiceArea,
		BudgetBand:  query.BudgetBand,
	}
	leads, err := s.leadRepo.GetOpenLeads(ctx, filter, query.PageSize, (query.Page-1)*query.PageSize)
	if err != nil {
		return nil, err
	}
	if len(leads) == 0 {
		return []*dto.LeadDTO{}, nil
	}

	leadIDs := make([]uint64, 0, len(leads))
	for _, l := range leads {
		leadIDs = append(leadIDs, l.ID)
	}

	viewerCounts, err := s.engagementRepo.CountDistinctViewersBatch(ctx, leadIDs)
	if err != nil {
		return nil, err
	}

	viewed := make(map[uint64]bool, len(leadIDs))
	if caID != 0 {
		viewedIDs, err := s.engagementRepo.GetViewedLeadIDs(ctx, caID, leadIDs)
		if err != nil {
			return nil, err
		}
		for _, id := range viewedIDs {
			viewed[id] = true
		}
	}

	result := make([]*dto.LeadDTO, 0, len(leads))
	for _, l := range leads {
		result = append(result, leadToDTO(l, viewerCounts[l.ID], viewed[l.ID]))
	}
	return result, nil
}

func (s *leadServiceImpl) GetMyLeads(ctx context.Context, customerID uint64, page, pageSize int) ([]*dto.LeadDTO, error) {
	leads, err := s.leadRepo.GetLeadsByCustomer(ctx, customerID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	if len(leads) == 0 {
		return []*dto.LeadDTO{}, nil
	}

	leadIDs := make([]uint64, 0, len(leads))
	for _, l := range leads {
		leadIDs = append(leadIDs, l.ID)
	}
	viewerCounts, err := s.engagementRepo.CountDistinctViewersBatch(ctx, leadIDs)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.LeadDTO, 0, len(leads))
	for _, l := range leads {
		// the owner always sees their own contact details
		result = append(result, leadToDTO(l, viewerCounts[l.ID], true))
	}
	return result, nil
}

func (s *leadServiceImpl) CloseLead(ctx context.Context, customerID, leadID uint64) error {
	lead, err := s.leadRepo.GetLead(ctx, leadID)
	if err != nil {
		return err
	}
	if lead == nil {
		return ErrLeadNotFound
	}
	if lead.CustomerID != customerID {
		return ErrNotLeadOwner
	}
	return s.leadRepo.UpdateLeadStatus(ctx, leadID, consts.LeadStatusClosed)
}
