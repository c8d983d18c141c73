package job

import (
	"CAConnect/internal/model"
	"CAConnect/internal/pkg/logger"
	"CAConnect/internal/repository"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

// CAMetricJob snapshots yesterday's lead views and accepted contacts per
// accountant into the daily metrics table.
type CAMetricJob struct {
	engagementRepo repository.LeadEngagementRepo
	contactRepo    repository.ContactRequestRepo
	metricRepo     repository.CAMetricRepo
}

func NewCAMetricJob(engagementRepo repository.LeadEngagementRepo, contactRepo repository.ContactRequestRepo, metricRepo repository.CAMetricRepo) *CAMetricJob {
	return &CAMetricJob{
		engagementRepo: engagementRepo,
		contactRepo:    contactRepo,
		metricRepo:     metricRepo,
	}
}

func (s *CAMetricJob) Run() {
	traceID := "job-metric-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	now := time.Now()
	to := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	from := to.AddDate(0, 0, -1)

	caIDs, err := s.engagementRepo.GetActiveCAIDs(ctx, from, to)
	if err != nil {
		log.ErrorContext(ctx, "list active accountants error", "err", err)
		return
	}

	log.InfoContext(ctx, "CAMetricJob processing", "ca_count", len(caIDs), "metric_date", from.Format("2006-01-02"))

	for _, caID := range caIDs {
		views, err := s.engagementRepo.CountViewsBetween(ctx, caID, from, to)
		if err != nil {
			log.ErrorContext(ctx, "count lead views error", "ca_id", caID, "err", err)
			continue
		}
		contacts, err := s.contactRepo.CountAcceptedBetween(ctx, caID, from, to)
		if err != nil {
			log.ErrorContext(ctx, "count accepted contacts error", "ca_id", caID, "err", err)
			continue
		}
		metric := &model.CADailyMetric{
			CAID:           caID,
			MetricDate:     from,
			LeadsViewed:    int(views),
			ContactsGained: int(contacts),
		}
		if err = s.metricRepo.UpsertDailyMetric(ctx, metric); err != nil {
			log.ErrorContext(ctx, "upsert daily metric error", "ca_id", caID, "err", err)
		}
	}

	log.InfoContext(ctx, "CAMetricJob finished", "processed_count", len(caIDs))
}
