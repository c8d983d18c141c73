package repository

import (
	"CAConnect/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type LeadEngagementRepo interface {
	CreateEngagement(ctx context.Context, engagement *model.LeadEngagement) error
	GetEngagement(ctx context.Context, leadID, caID uint64) (*model.LeadEngagement, error)
	CountDistinctViewers(ctx context.Context, leadID uint64) (int64, error)
	CountDistinctViewersBatch(ctx context.Context, leadIDs []uint64) (map[uint64]int64, error)
	UpdateHidden(ctx context.Context, leadID, caID uint64, hidden bool) error
	UpdateNotes(ctx context.Context, leadID, caID uint64, notes string) error
	GetViewedLeadIDs(ctx context.Context, caID uint64, leadIDs []uint64) ([]uint64, error)
	GetEngagements(ctx context.Context, caID uint64, includeHidden bool, limit, offset int) ([]*model.LeadEngagement, error)
	CountViewsBetween(ctx context.Context, caID uint64, from, to time.Time) (int64, error)
	GetActiveCAIDs(ctx context.Context, from, to time.Time) ([]uint64, error)
}

type LeadEngagementRepoImpl struct {
	db *gorm.DB
}

func NewLeadEngagementRepo(db *gorm.DB) LeadEngagementRepo {
	return &LeadEngagementRepoImpl{db}
}

func (s *LeadEngagementRepoImpl) CreateEngagement(ctx context.Context, engagement *model.LeadEngagement) error {
	return s.db.WithContext(ctx).Create(engagement).Error
}

func (s *LeadEngagementRepoImpl) GetEngagement(ctx context.Context, leadID, caID uint64) (*model.LeadEngagement, error) {
	var engagement model.LeadEngagement
	err := s.db.WithContext(ctx).
		Where("lead_id = ? AND ca_id = ?", leadID, caID).
		First(&engagement).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &engagement, nil
}

// CountDistinctViewers relies on the (lead_id, ca_id) unique index: one row
// per viewer, so a plain count is already distinct.
func (s *LeadEngagementRepoImpl) CountDistinctViewers(ctx context.Context, leadID uint64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.LeadEngagement{}).
		Where("lead_id = ?", leadID).
		Count(&count).Error
	return count, err
}

func (s *LeadEngagementRepoImpl) CountDistinctViewersBatch(ctx context.Context, leadIDs []uint64) (map[uint64]int64, error) {
	result := make(map[uint64]int64, len(leadIDs))
	if len(leadIDs) == 0 {
		return result, nil
	}
	type viewerCount struct {
		LeadID uint64
		Total  int64
	}
	var rows []viewerCount
	err := s.db.WithContext(ctx).Model(&model.LeadEngagement{}).
		Select("lead_id, COUNT(*) AS total").
		Where("lead_id IN ?", leadIDs).
		Group("lead_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, id := range leadIDs {
		result[id] = 0
	}
	for _, row := range rows {
		result[row.LeadID] = row.Total
	}
	return result, nil
}

func (s *LeadEngagementRepoImpl) UpdateHidden(ctx context.Context, leadID, caID uint64, hidden bool) error {
	updates := map[string]interface{}{"is_hidden": hidden}
	if hidden {
		updates["hidden_at"] = time.Now()
	} else {
		updates["hidden_at"] = nil
	}
	return s.db.WithContext(ctx).Model(&model.LeadEngagement{}).
		Where("lead_id = ? AND ca_id = ?", leadID, caID).
		Updates(updates).Error
}

func (s *LeadEngagementRepoImpl) UpdateNotes(ctx context.Context, leadID, caID uint64, notes string) error {
	return s.db.WithContext(ctx).Model(&model.LeadEngagement{}).
		Where("lead_id = ? AND ca_id = ?", leadID, caID).
		Update("notes", notes).Error
}

// GetViewedLeadIDs filters the given leads down to the ones the accountant
// has already viewed, in one query.
func (s *LeadEngagementRepoImpl) GetViewedLeadIDs(ctx context.Context, caID uint64, leadIDs []uint64) ([]uint64, error) {
	if len(leadIDs) == 0 {
		return nil, nil
	}
	var viewed []uint64
	err := s.db.WithContext(ctx).Model(&model.LeadEngagement{}).
		Where("ca_id = ? AND lead_id IN ?", caID, leadIDs).
		Pluck("lead_id", &viewed).Error
	return viewed, err
}

func (s *LeadEngagementRepoImpl) GetEngagements(ctx context.Context, caID uint64, includeHidden bool, limit, offset int) ([]*model.LeadEngagement, error) {
	query := s.db.WithContext(ctx).
		Where("ca_id = ?", caID)
	if !includeHidden {
		query = query.Where("is_hidden = ?", false)
	}
	var engagements []*model.LeadEngagement
	err := query.Order("viewed_at DESC").
		Limit(limit).Offset(offset).
		Find(&engagements).Error
	return engagements, err
}

func (s *LeadEngagementRepoImpl) CountViewsBetween(ctx context.Context, caID uint64, from, to time.Time) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.LeadEngagement{}).
		Where("ca_id = ? AND viewed_at >= ? AND viewed_at < ?", caID, from, to).
		Count(&count).Error
	return count, err
}

func (s *LeadEngagementRepoImpl) GetActiveCAIDs(ctx context.Context, from, to time.Time) ([]uint64, error) {
	var caIDs []uint64
	err := s.db.WithContext(ctx).Model(&model.LeadEngagement{}).
		Distinct("ca_id").
		Where("viewed_at >= ? AND viewed_at < ?", from, to).
		Pluck("ca_id", &caIDs).Error
	return caIDs, err
}
