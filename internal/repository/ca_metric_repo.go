package repository

import (
	"CAConnect/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CAMetricRepo interface {
	UpsertDailyMetric(ctx context.Context, metric *model.CADailyMetric) error
	GetMetricsSince(ctx context.Context, caID uint64, since time.Time) ([]*model.CADailyMetric, error)
}

type CAMetricRepoImpl struct {
	db *gorm.DB
}

func NewCAMetricRepo(db *gorm.DB) CAMetricRepo {
	return &CAMetricRepoImpl{db}
}

func (s *CAMetricRepoImpl) UpsertDailyMetric(ctx context.Context, metric *model.CADailyMetric) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "ca_id"}, {Name: "metric_date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"leads_viewed":    metric.LeadsViewed,
			"contacts_gained": metric.ContactsGained,
		}),
	}).Create(metric).Error
}

func (s *CAMetricRepoImpl) GetMetricsSince(ctx context.Context, caID uint64, since time.Time) ([]*model.CADailyMetric, error) {
	var metrics []*model.CADailyMetric
	err := s.db.WithContext(ctx).
		Where("ca_id = ? AND metric_date >= ?", caID, since).
		Order("metric_date ASC").
		Find(&metrics).Error
	return metrics, err
}
