package repository

import (
	"CAConnect/internal/model"
	"CAConnect/internal/pkg/consts"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReactionWithUser is a ledger row joined with the reactor's display name,
// used for the "who reacted" strip.
type ReactionWithUser struct {
	UserID       uint64    `json:"userId"`
	ReactionType string    `json:"reactionType"`
	DisplayName  string    `json:"displayName"`
	CreatedAt    time.Time `json:"createdAt"`
}

type ReactionRepo interface {
	GetReaction(ctx context.Context, userID uint64, targetType string, targetID uint64) (*model.Reaction, error)
	GetReactionsByTarget(ctx context.Context, targetType string, targetID uint64) ([]*ReactionWithUser, error)
	GetUserReactions(ctx context.Context, userID uint64, targetType string, targetIDs []uint64) ([]*model.Reaction, error)
	SetReaction(ctx context.Context, userID uint64, targetType string, targetID uint64, reactionType string) (string, error)

	GetCounters(ctx context.Context, targetType string, targetIDs []uint64) ([]*model.ReactionCounter, error)
	GetRecentReactors(ctx context.Context, targetType string, targetIDs []uint64) ([]*targetReactor, error)
	CountByType(ctx context.Context, targetType string, targetID uint64) (map[string]int64, error)
	ReplaceCounters(ctx context.Context, targetType string, targetID uint64, counts map[string]int64) error
}

type ReactionRepoImpl struct {
	db *gorm.DB
}

func NewReactionRepo(db *gorm.DB) ReactionRepo {
	return &ReactionRepoImpl{db}
}

func (s *ReactionRepoImpl) GetReaction(ctx context.Context, userID uint64, targetType string, targetID uint64) (*model.Reaction, error) {
	var reaction model.Reaction
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).
		First(&reaction).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reaction, nil
}

func (s *ReactionRepoImpl) GetReactionsByTarget(ctx context.Context, targetType string, targetID uint64) ([]*ReactionWithUser, error) {
	var rows []*ReactionWithUser
	err := s.db.WithContext(ctx).Model(&model.Reaction{}).
		Select("reactions.user_id, reactions.reaction_type, user_detail.display_name, reactions.created_at").
		Joins("JOIN user_detail ON user_detail.user_id = reactions.user_id").
		Where("reactions.target_type = ? AND reactions.target_id = ?", targetType, targetID).
		Order("reactions.created_at DESC, reactions.id DESC").
		Scan(&rows).Error
	return rows, err
}

func (s *ReactionRepoImpl) GetUserReactions(ctx context.Context, userID uint64, targetType string, targetIDs []uint64) ([]*model.Reaction, error) {
	if len(targetIDs) == 0 {
		return nil, nil
	}
	var reactions []*model.Reaction
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND target_type = ? AND target_id IN ?", userID, targetType, targetIDs).
		Find(&reactions).Error
	return reactions, err
}

// SetReaction applies the three-way transition and the compensating counter
// adjustments in one transaction. It returns the resulting reaction type, or
// "" when the reaction was toggled off.
func (s *ReactionRepoImpl) SetReaction(ctx context.Context, userID uint64, targetType string, targetID uint64, reactionType string) (string, error) {
	var result string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Reaction
		err := tx.Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).
			First(&existing).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(&model.Reaction{
				UserID:       userID,
				TargetType:   targetType,
				TargetID:     targetID,
				ReactionType: reactionType,
			}).Error; err != nil {
				return err
			}
			if err := adjustCounter(tx, targetType, targetID, reactionType, +1); err != nil {
				return err
			}
			result = reactionType

		case err != nil:
			return err

		case existing.ReactionType == reactionType:
			// toggle-off: re-selecting the current reaction clears it
			if err := tx.Delete(&model.Reaction{}, existing.ID).Error; err != nil {
				return err
			}
			if err := adjustCounter(tx, targetType, targetID, reactionType, -1); err != nil {
				return err
			}
			result = ""

		default:
			if err := tx.Model(&model.Reaction{}).
				Where("id = ?", existing.ID).
				Update("reaction_type", reactionType).Error; err != nil {
				return err
			}
			if err := adjustCounter(tx, targetType, targetID, existing.ReactionType, -1); err != nil {
				return err
			}
			if err := adjustCounter(tx, targetType, targetID, reactionType, +1); err != nil {
				return err
			}
			result = reactionType
		}
		return nil
	})
	return result, err
}

// adjustCounter applies a single ±1 to the snapshot row. Decrements clamp at
// zero so an out-of-order arrival can never drive a bucket negative.
func adjustCounter(tx *gorm.DB, targetType string, targetID uint64, reactionType string, delta int) error {
	if delta > 0 {
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "target_type"}, {Name: "target_id"}, {Name: "reaction_type"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"count": gorm.Expr("count + 1"),
			}),
		}).Create(&model.ReactionCounter{
			TargetType:   targetType,
			TargetID:     targetID,
			ReactionType: reactionType,
			Count:        1,
		}).Error
	}
	return tx.Model(&model.ReactionCounter{}).
		Where("target_type = ? AND target_id = ? AND reaction_type = ?", targetType, targetID, reactionType).
		Update("count", gorm.Expr("CASE WHEN count > 0 THEN count - 1 ELSE 0 END")).Error
}

func (s *ReactionRepoImpl) GetCounters(ctx context.Context, targetType string, targetIDs []uint64) ([]*model.ReactionCounter, error) {
	if len(targetIDs) == 0 {
		return nil, nil
	}
	var counters []*model.ReactionCounter
	err := s.db.WithContext(ctx).
		Where("target_type = ? AND target_id IN ?", targetType, targetIDs).
		Find(&counters).Error
	return counters, err
}

type targetReactor struct {
	TargetID    uint64
	DisplayName string
}

// GetRecentReactors returns (target, display name) pairs newest-first for a
// batch of targets; the service folds them down to the first three distinct
// names per target.
func (s *ReactionRepoImpl) GetRecentReactors(ctx context.Context, targetType string, targetIDs []uint64) ([]*targetReactor, error) {
	if len(targetIDs) == 0 {
		return nil, nil
	}
	var rows []*targetReactor
	err := s.db.WithContext(ctx).Model(&model.Reaction{}).
		Select("reactions.target_id, user_detail.display_name").
		Joins("JOIN user_detail ON user_detail.user_id = reactions.user_id").
		Where("reactions.target_type = ? AND reactions.target_id IN ?", targetType, targetIDs).
		Order("reactions.created_at DESC, reactions.id DESC").
		Scan(&rows).Error
	return rows, err
}

// CountByType recomputes authoritative per-bucket counts from the ledger.
// Used by the reconciliation job and by cold reads, never on the hot path.
func (s *ReactionRepoImpl) CountByType(ctx context.Context, targetType string, targetID uint64) (map[string]int64, error) {
	type bucket struct {
		ReactionType string
		Total        int64
	}
	var buckets []bucket
	err := s.db.WithContext(ctx).Model(&model.Reaction{}).
		Select("reaction_type, COUNT(*) AS total").
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Group("reaction_type").
		Scan(&buckets).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(consts.ReactionTypes))
	for _, t := range consts.ReactionTypes {
		counts[t] = 0
	}
	for _, b := range buckets {
		counts[b.ReactionType] = b.Total
	}
	return counts, nil
}

// ReplaceCounters overwrites the snapshot with ledger-derived counts,
// repairing any drift the compensating adjustments accumulated.
func (s *ReactionRepoImpl) ReplaceCounters(ctx context.Context, targetType string, targetID uint64, counts map[string]int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, reactionType := range consts.ReactionTypes {
			err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "target_type"}, {Name: "target_id"}, {Name: "reaction_type"}},
				DoUpdates: clause.Assignments(map[string]interface{}{
					"count": counts[reactionType],
				}),
			}).Create(&model.ReactionCounter{
				TargetType:   targetType,
				TargetID:     targetID,
				ReactionType: reactionType,
				Count:        counts[reactionType],
			}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}
