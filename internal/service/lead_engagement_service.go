package service

import (
	"CAConnect/internal/api/dto"
	"CAConnect/internal/model"
	"CAConnect/internal/pkg/consts"
	"CAConnect/internal/pkg/redis"
	"CAConnect/internal/repository"
	"context"
	log "log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
)

type LeadEngagementService interface {
	RecordLeadView(ctx context.Context, caID, leadID uint64) (*dto.LeadDTO, error)
	GetViewerCount(ctx context.Context, leadID uint64) (int64, error)
	GetViewerCounts(ctx context.Context, leadIDs []uint64) (map[uint64]int64, error)
	SetLeadHidden(ctx context.Context, caID, leadID uint64, hidden bool) error
	UpdateLeadNotes(ctx context.Context, caID, leadID uint64, notes string) error
	GetEngagedLeads(ctx context.Context, caID uint64, includeHidden bool, page, pageSize int) ([]*dto.EngagedLeadDTO, error)
}

type leadEngagementServiceImpl struct {
	engagementRepo repository.LeadEngagementRepo
	leadRepo       repository.LeadRepo
}

func NewLeadEngagementService(
	engagementRepo repository.LeadEngagementRepo,
	leadRepo repository.LeadRepo,
) LeadEngagementService {
	return &leadEngagementServiceImpl{
		engagementRepo: engagementRepo,
		leadRepo:       leadRepo,
	}
}

// RecordLeadView reveals a lead's contact details to an accountant,
// recording at most one engagement per (lead, accountant). A repeat view is
// an idempotent success, not an error.
func (s *leadEngagementServiceImpl) RecordLeadView(ctx context.Context, caID, leadID uint64) (*dto.LeadDTO, error) {
	lead, err := s.leadRepo.GetLead(ctx, leadID)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, ErrLeadNotFound
	}
	if lead.Status != consts.LeadStatusOpen {
		return nil, ErrLeadClosed
	}

	err = s.engagementRepo.CreateEngagement(ctx, &model.LeadEngagement{
		LeadID:   leadID,
		CAID:     caID,
		ViewedAt: time.Now(),
	})
	switch {
	case err == nil:
		s.invalidateViewerCount(ctx, leadID)
	case isDuplicateError(err):
		// already viewed, nothing to record
	default:
		// the engagement row is telemetry; a failed write must not
		// withhold the contact details from the accountant
		log.ErrorContext(ctx, "engagement record failed", "leadID", leadID, "caID", caID, "err", err)
	}

	viewerCount, err := s.GetViewerCount(ctx, leadID)
	if err != nil {
		log.WarnContext(ctx, "viewer count read failed", "leadID", leadID, "err", err)
	}

	return leadToDTO(lead, viewerCount, true), nil
}

// GetViewerCount reads the cached distinct viewer count, falling back to
// the engagement table.
func (s *leadEngagementServiceImpl) GetViewerCount(ctx context.Context, leadID uint64) (int64, error) {
	key := consts.LeadViewerCountKey + strconv.FormatUint(leadID, 10)
	count, err := redis.GetInt64(ctx, key)
	if err == nil {
		return count, nil
	}
	realCount, err := s.engagementRepo.CountDistinctViewers(ctx, leadID)
	if err != nil {
		return 0, err
	}
	_ = redis.SetWithExpiration(ctx, key, realCount, cacheExpiration)
	return realCount, nil
}

func (s *leadEngagementServiceImpl) GetViewerCounts(ctx context.Context, leadIDs []uint64) (map[uint64]int64, error) {
	return s.engagementRepo.CountDistinctViewersBatch(ctx, leadIDs)
}

// SetLeadHidden tucks a lead away in (or restores it to) the accountant's
// board. Requires a prior view.
func (s *leadEngagementServiceImpl) SetLeadHidden(ctx context.Context, caID, leadID uint64, hidden bool) error {
	if err := s.requireEngagement(ctx, caID, leadID); err != nil {
		return err
	}
	return s.engagementRepo.UpdateHidden(ctx, leadID, caID, hidden)
}

func (s *leadEngagementServiceImpl) UpdateLeadNotes(ctx context.Context, caID, leadID uint64, notes string) error {
	lockKey := consts.EngagementNoteLock + strconv.FormatUint(leadID, 10) + ":" + strconv.FormatUint(caID, 10)
	lockToken := uuid.NewString()
	lock, err := redis.TryLock(ctx, lockKey, lockToken, 5*time.Second, 3)
	if err != nil {
		return err
	}
	if !lock {
		return UnExpectedError
	}
	defer redis.UnLock(ctx, lockKey, lockToken)

	if err := s.requireEngagement(ctx, caID, leadID); err != nil {
		return err
	}
	return s.engagementRepo.UpdateNotes(ctx, leadID, caID, notes)
}

// GetEngagedLeads lists the leads an accountant has worked, newest view
// first, with the private notes and full contact details.
func (s *leadEngagementServiceImpl) GetEngagedLeads(ctx context.Context, caID uint64, includeHidden bool, page, pageSize int) ([]*dto.EngagedLeadDTO, error) {
	engagements, err := s.engagementRepo.GetEngagements(ctx, caID, includeHidden, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	if len(engagements) == 0 {
		return []*dto.EngagedLeadDTO{}, nil
	}

	leadIDs := make([]uint64, 0, len(engagements))
	for _, e := range engagements {
		leadIDs = append(leadIDs, e.LeadID)
	}

	leads, err := s.leadRepo.GetLeadsByIDs(ctx, leadIDs)
	if err != nil {
		return nil, err
	}
	leadMap := make(map[uint64]*model.Lead, len(leads))
	for _, l := range leads {
		leadMap[l.ID] = l
	}

	viewerCounts, err := s.GetViewerCounts(ctx, leadIDs)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.EngagedLeadDTO, 0, len(engagements))
	for _, e := range engagements {
		lead, ok := leadMap[e.LeadID]
		if !ok {
			continue
		}
		result = append(result, &dto.EngagedLeadDTO{
			Lead:     leadToDTO(lead, viewerCounts[e.LeadID], true),
			ViewedAt: e.ViewedAt,
			IsHidden: e.IsHidden,
			Notes:    e.Notes,
		})
	}
	return result, nil
}

func (s *leadEngagementServiceImpl) requireEngagement(ctx context.Context, caID, leadID uint64) error {
	engagement, err := s.engagementRepo.GetEngagement(ctx, leadID, caID)
	if err != nil {
		return err
	}
	if engagement == nil {
		return ErrLeadNotViewed
	}
	return nil
}

func (s *leadEngagementServiceImpl) invalidateViewerCount(ctx context.Context, leadID uint64) {
	key := consts.LeadViewerCountKey + strconv.FormatUint(leadID, 10)
	if err := redis.DeleteKey(ctx, key); err != nil {
		log.WarnContext(ctx, "viewer count cache invalidate failed", "leadID", leadID, "err", err)
	}
}

// leadToDTO projects a lead for display. Contact details only survive the
// projection when the caller has viewed the lead.
func leadToDTO(lead *model.Lead, viewerCount int64, viewed bool) *dto.LeadDTO {
	d := &dto.LeadDTO{
		ID:           lead.ID,
		Title:        lead.Title,
		Description:  lead.Description,
		ServiceAreas: lead.ServiceAreas,
		City:         lead.City,
		BudgetBand:   lead.BudgetBand,
		Status:       lead.Status,
		ViewerCount:  viewerCount,
		CreatedAt:    lead.CreatedAt,
		Viewed:       viewed,
	}
	if viewed {
		d.ContactName = lead.ContactName
		d.ContactPhone = lead.ContactPhone
		d.ContactEmail = lead.ContactEmail
	}
	return d
}
