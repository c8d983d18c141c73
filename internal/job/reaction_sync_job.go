package job

import (
	"CAConnect/internal/pkg/consts"
	"CAConnect/internal/pkg/logger"
	"CAConnect/internal/pkg/redis"
	"CAConnect/internal/pkg/util"
	"CAConnect/internal/service"
	"context"
	log "log/slog"
	"strings"

	"github.com/google/uuid"
)

// ReactionSyncJob reconciles the counter snapshots of every target the CDC
// consumers flagged as dirty since the last run.
type ReactionSyncJob struct {
	reactionSvc service.ReactionService
}

func NewReactionSyncJob(reactionSvc service.ReactionService) *ReactionSyncJob {
	return &ReactionSyncJob{reactionSvc: reactionSvc}
}

func (s *ReactionSyncJob) Run() {
	traceID := "job-reaction-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	processingKey := consts.ReactionDirtyKey + ":processing"
	if err := redis.Rename(ctx, consts.ReactionDirtyKey, processingKey); err != nil {
		// Nothing marked dirty since the last run.
		return
	}

	members, err := redis.GetSet(ctx, processingKey)
	if err != nil {
		log.ErrorContext(ctx, "get reaction dirty set error", "err", err)
		return
	}

	log.InfoContext(ctx, "ReactionSyncJob processing", "target_count", len(members))

	processed := 0
	for _, member := range members {
		targetType, rawID, ok := strings.Cut(member, ":")
		if !ok {
			log.WarnContext(ctx, "malformed dirty member", "member", member)
			continue
		}
		targetID := util.StrToUint64(rawID)
		if targetID == 0 {
			log.WarnContext(ctx, "malformed dirty member", "member", member)
			continue
		}
		if _, err = s.reactionSvc.RecomputeCounters(ctx, targetType, targetID); err != nil {
			log.ErrorContext(ctx, "recompute reaction counters error", "member", member, "err", err)
			continue
		}
		processed++
	}

	if err = redis.DeleteKey(ctx, processingKey); err != nil {
		log.ErrorContext(ctx, "delete reaction processing set error", "err", err)
	}

	log.InfoContext(ctx, "ReactionSyncJob finished", "processed_count", processed)
}
