package job

import (
	"CAConnect/internal/pkg/consts"
	"CAConnect/internal/pkg/logger"
	"CAConnect/internal/pkg/redis"
	"CAConnect/internal/pkg/util"
	"CAConnect/internal/repository"
	"context"
	log "log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// LeadSyncJob rebuilds the cached viewer count of every lead flagged dirty
// by the engagement CDC consumer.
type LeadSyncJob struct {
	engagementRepo repository.LeadEngagementRepo
}

func NewLeadSyncJob(engagementRepo repository.LeadEngagementRepo) *LeadSyncJob {
	return &LeadSyncJob{engagementRepo: engagementRepo}
}

func (s *LeadSyncJob) Run() {
	traceID := "job-lead-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	processingKey := consts.LeadDirtyKey + ":processing"
	if err := redis.Rename(ctx, consts.LeadDirtyKey, processingKey); err != nil {
		return
	}

	members, err := redis.GetSet(ctx, processingKey)
	if err != nil {
		log.ErrorContext(ctx, "get lead dirty set error", "err", err)
		return
	}

	leadIDs := util.StrSliceToUint64Slice(members)
	log.InfoContext(ctx, "LeadSyncJob processing", "lead_count", len(leadIDs))

	for _, leadID := range leadIDs {
		count, err := s.engagementRepo.CountDistinctViewers(ctx, leadID)
		if err != nil {
			log.ErrorContext(ctx, "count lead viewers error", "lead_id", leadID, "err", err)
			continue
		}
		key := consts.LeadViewerCountKey + strconv.FormatUint(leadID, 10)
		if err = redis.SetWithExpiration(ctx, key, count, 7*24*time.Hour); err != nil {
			log.ErrorContext(ctx, "refresh lead viewer cache error", "lead_id", leadID, "err", err)
		}
	}

	if err = redis.DeleteKey(ctx, processingKey); err != nil {
		log.ErrorContext(ctx, "delete lead processing set error", "err", err)
	}

	log.InfoContext(ctx, "LeadSyncJob finished", "processed_count", len(leadIDs))
}
