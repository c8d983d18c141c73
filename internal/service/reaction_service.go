package service

import (
	"CAConnect/internal/api/dto"
	"CAConnect/internal/pkg/consts"
	"CAConnect/internal/pkg/redis"
	"CAConnect/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/goccy/go-json"
	"gorm.io/gorm"
)

const cacheExpiration = 7 * 24 * time.Hour

// maxRecentReactors is how many distinct names the engagement strip shows.
const maxRecentReactors = 3

type ReactionService interface {
	ToggleReaction(ctx context.Context, userID uint64, req *dto.ReactionToggleDTO) (*dto.ReactionToggleResultDTO, error)
	GetSummary(ctx context.Context, viewerID uint64, targetType string, targetID uint64) (*dto.ReactionSummaryDTO, error)
	GetSummaries(ctx context.Context, viewerID uint64, targetType string, targetIDs []uint64) (map[uint64]*dto.ReactionSummaryDTO, error)
	ListReactors(ctx context.Context, targetType string, targetID uint64, page, pageSize int) ([]*dto.ReactorDTO, error)
	RecomputeCounters(ctx context.Context, targetType string, targetID uint64) (map[string]int64, error)
}

type reactionServiceImpl struct {
	reactionRepo repository.ReactionRepo
	postRepo     repository.PostRepo
}

func NewReactionService(reactionRepo repository.ReactionRepo, postRepo repository.PostRepo) ReactionService {
	return &reactionServiceImpl{
		reactionRepo: reactionRepo,
		postRepo:     postRepo,
	}
}

// ToggleReaction applies the three-way transition: a first reaction creates,
// re-selecting the current type removes, a different type switches. Ledger
// and counter snapshot move in one transaction.
func (s *reactionServiceImpl) ToggleReaction(ctx context.Context, userID uint64, req *dto.ReactionToggleDTO) (*dto.ReactionToggleResultDTO, error) {
	if err := s.validateTarget(ctx, req.TargetType, req.TargetID); err != nil {
		return nil, err
	}
	if !isValidReactionType(req.ReactionType) {
		return nil, ErrReactionTypeInvalid
	}

	resultType, err := s.reactionRepo.SetReaction(ctx, userID, req.TargetType, req.TargetID, req.ReactionType)
	if err != nil {
		if isDuplicateError(err) {
			return nil, ErrActionDuplicate
		}
		return nil, err
	}

	s.invalidateTarget(ctx, req.TargetType, req.TargetID)

	counts, err := s.loadCounts(ctx, req.TargetType, []uint64{req.TargetID})
	if err != nil {
		return nil, err
	}

	return &dto.ReactionToggleResultDTO{
		TargetID:     req.TargetID,
		ReactionType: resultType,
		Counts:       counts[req.TargetID],
		Total:        sumCounts(counts[req.TargetID]),
	}, nil
}

func (s *reactionServiceImpl) GetSummary(ctx context.Context, viewerID uint64, targetType string, targetID uint64) (*dto.ReactionSummaryDTO, error) {
	summaries, err := s.GetSummaries(ctx, viewerID, targetType, []uint64{targetID})
	if err != nil {
		return nil, err
	}
	return summaries[targetID], nil
}

// GetSummaries builds the engagement strip for a batch of targets in a
// constant number of queries: cached counters with a read-through fallback,
// the viewer's own reactions, and the first three distinct reactor names.
func (s *reactionServiceImpl) GetSummaries(ctx context.Context, viewerID uint64, targetType string, targetIDs []uint64) (map[uint64]*dto.ReactionSummaryDTO, error) {
	if !isValidTargetType(targetType) {
		return nil, ErrTargetTypeInvalid
	}
	if len(targetIDs) == 0 {
		return map[uint64]*dto.ReactionSummaryDTO{}, nil
	}

	counts, err := s.loadCounts(ctx, targetType, targetIDs)
	if err != nil {
		return nil, err
	}

	reactorNames, err := s.loadRecentReactors(ctx, targetType, targetIDs)
	if err != nil {
		return nil, err
	}

	viewerReactions := make(map[uint64]string)
	if viewerID != 0 {
		own, err := s.reactionRepo.GetUserReactions(ctx, viewerID, targetType, targetIDs)
		if err != nil {
			return nil, err
		}
		for _, r := range own {
			viewerReactions[r.TargetID] = r.ReactionType
		}
	}

	summaries := make(map[uint64]*dto.ReactionSummaryDTO, len(targetIDs))
	for _, id := range targetIDs {
		summaries[id] = &dto.ReactionSummaryDTO{
			TargetID:       id,
			Counts:         counts[id],
			Total:          sumCounts(counts[id]),
			ViewerReaction: viewerReactions[id],
			RecentReactors: reactorNames[id],
		}
	}
	return summaries, nil
}

func (s *reactionServiceImpl) ListReactors(ctx context.Context, targetType string, targetID uint64, page, pageSize int) ([]*dto.ReactorDTO, error) {
	if err := s.validateTarget(ctx, targetType, targetID); err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	rows, err := s.reactionRepo.GetReactionsByTarget(ctx, targetType, targetID)
	if err != nil {
		return nil, err
	}

	start := (page - 1) * pageSize
	if start >= len(rows) {
		return []*dto.ReactorDTO{}, nil
	}
	end := start + pageSize
	if end > len(rows) {
		end = len(rows)
	}

	reactors := make([]*dto.ReactorDTO, 0, end-start)
	for _, row := range rows[start:end] {
		reactors = append(reactors, &dto.ReactorDTO{
			UserID:       row.UserID,
			DisplayName:  row.DisplayName,
			ReactionType: row.ReactionType,
			CreatedAt:    row.CreatedAt,
		})
	}
	return reactors, nil
}

// RecomputeCounters rebuilds the snapshot from the ledger and refreshes the
// cache. The reconciliation job calls this for every dirty target.
func (s *reactionServiceImpl) RecomputeCounters(ctx context.Context, targetType string, targetID uint64) (map[string]int64, error) {
	counts, err := s.reactionRepo.CountByType(ctx, targetType, targetID)
	if err != nil {
		return nil, err
	}
	if err := s.reactionRepo.ReplaceCounters(ctx, targetType, targetID, counts); err != nil {
		return nil, err
	}
	for reactionType, count := range counts {
		_ = redis.SetWithExpiration(ctx, countKey(targetType, targetID, reactionType), count, cacheExpiration)
	}
	_ = redis.DeleteKey(ctx, reactorsKey(targetType, targetID))
	return counts, nil
}

// loadCounts reads cached per-bucket counters, falling back to the snapshot
// table for any target with a cold cache.
func (s *reactionServiceImpl) loadCounts(ctx context.Context, targetType string, targetIDs []uint64) (map[uint64]map[string]int64, error) {
	keys := make([]string, 0, len(targetIDs)*len(consts.ReactionTypes))
	for _, id := range targetIDs {
		for _, t := range consts.ReactionTypes {
			keys = append(keys, countKey(targetType, id, t))
		}
	}

	cached, err := redis.MGetValue(ctx, keys...)
	if err != nil {
		log.WarnContext(ctx, "reaction count cache read failed", "err", err)
		cached = map[string]string{}
	}

	counts := make(map[uint64]map[string]int64, len(targetIDs))
	var missed []uint64
	for _, id := range targetIDs {
		perType := make(map[string]int64, len(consts.ReactionTypes))
		complete := true
		for _, t := range consts.ReactionTypes {
			raw, ok := cached[countKey(targetType, id, t)]
			if !ok {
				complete = false
				break
			}
			v, parseErr := strconv.ParseInt(raw, 10, 64)
			if parseErr != nil {
				complete = false
				break
			}
			perType[t] = v
		}
		if complete {
			counts[id] = perType
		} else {
			missed = append(missed, id)
		}
	}

	if len(missed) > 0 {
		rows, err := s.reactionRepo.GetCounters(ctx, targetType, missed)
		if err != nil {
			return nil, err
		}
		for _, id := range missed {
			perType := make(map[string]int64, len(consts.ReactionTypes))
			for _, t := range consts.ReactionTypes {
				perType[t] = 0
			}
			counts[id] = perType
		}
		for _, row := range rows {
			counts[row.TargetID][row.ReactionType] = row.Count
		}
		for _, id := range missed {
			for _, t := range consts.ReactionTypes {
				_ = redis.SetWithExpiration(ctx, countKey(targetType, id, t), counts[id][t], cacheExpiration)
			}
		}
	}

	return counts, nil
}

// loadRecentReactors resolves the first three distinct reactor names per
// target, cached as a JSON list per target.
func (s *reactionServiceImpl) loadRecentReactors(ctx context.Context, targetType string, targetIDs []uint64) (map[uint64][]string, error) {
	keys := make([]string, 0, len(targetIDs))
	for _, id := range targetIDs {
		keys = append(keys, reactorsKey(targetType, id))
	}
	cached, err := redis.MGetValue(ctx, keys...)
	if err != nil {
		log.WarnContext(ctx, "reactor names cache read failed", "err", err)
		cached = map[string]string{}
	}

	names := make(map[uint64][]string, len(targetIDs))
	var missed []uint64
	for _, id := range targetIDs {
		if raw, ok := cached[reactorsKey(targetType, id)]; ok {
			var list []string
			if jsonErr := json.Unmarshal([]byte(raw), &list); jsonErr == nil {
				names[id] = list
				continue
			}
		}
		missed = append(missed, id)
	}
	if len(missed) == 0 {
		return names, nil
	}

	rows, err := s.reactionRepo.GetRecentReactors(ctx, targetType, missed)
	if err != nil {
		return nil, err
	}

	seen := make(map[uint64]map[string]struct{}, len(missed))
	for _, id := range missed {
		names[id] = []string{}
	}
	for _, row := range rows {
		if len(names[row.TargetID]) >= maxRecentReactors {
			continue
		}
		if seen[row.TargetID] == nil {
			seen[row.TargetID] = make(map[string]struct{})
		}
		if _, dup := seen[row.TargetID][row.DisplayName]; dup {
			continue
		}
		seen[row.TargetID][row.DisplayName] = struct{}{}
		names[row.TargetID] = append(names[row.TargetID], row.DisplayName)
	}

	for _, id := range missed {
		if data, jsonErr := json.Marshal(names[id]); jsonErr == nil {
			_ = redis.SetWithExpiration(ctx, reactorsKey(targetType, id), string(data), cacheExpiration)
		}
	}
	return names, nil
}

func (s *reactionServiceImpl) validateTarget(ctx context.Context, targetType string, targetID uint64) error {
	switch targetType {
	case consts.TargetTypePost:
		posts, err := s.postRepo.GetPostByIds(ctx, []uint64{targetID})
		if err != nil || len(posts) == 0 {
			return ErrPostNotFound
		}
	case consts.TargetTypeComment:
		comment, err := s.postRepo.GetCommentByID(ctx, targetID)
		if err != nil || comment == nil {
			return ErrPostCommentNotFound
		}
	default:
		return ErrTargetTypeInvalid
	}
	return nil
}

// invalidateTarget drops every cached key for a target after a mutation, so
// the next read refetches authoritative counts.
func (s *reactionServiceImpl) invalidateTarget(ctx context.Context, targetType string, targetID uint64) {
	keys := make([]string, 0, len(consts.ReactionTypes)+1)
	for _, t := range consts.ReactionTypes {
		keys = append(keys, countKey(targetType, targetID, t))
	}
	keys = append(keys, reactorsKey(targetType, targetID))
	if err := redis.DeleteKeys(ctx, keys...); err != nil {
		log.WarnContext(ctx, "reaction cache invalidate failed", "targetType", targetType, "targetID", targetID, "err", err)
	}
}

func countKey(targetType string, targetID uint64, reactionType string) string {
	return consts.ReactionCountKey + targetType + ":" + strconv.FormatUint(targetID, 10) + ":" + reactionType
}

func reactorsKey(targetType string, targetID uint64) string {
	return consts.ReactionReactorsKey + targetType + ":" + strconv.FormatUint(targetID, 10)
}

func sumCounts(counts map[string]int64) int64 {
	var total int64
	for _, v := range counts {
		total += v
	}
	return total
}

func isValidTargetType(targetType string) bool {
	return targetType == consts.TargetTypePost || targetType == consts.TargetTypeComment
}

func isValidReactionType(reactionType string) bool {
	for _, t := range consts.ReactionTypes {
		if t == reactionType {
			return true
		}
	}
	return false
}

func isDuplicateError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return true
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint")
}
