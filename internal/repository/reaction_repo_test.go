package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"CAConnect/internal/model"
	"CAConnect/internal/pkg/consts"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:caconnect_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&model.UserDetail{},
		&model.Reaction{},
		&model.ReactionCounter{},
		&model.LeadEngagement{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func seedUserDetail(t *testing.T, db *gorm.DB, userID uint64, name string) {
	t.Helper()
	if err := db.Create(&model.UserDetail{UserID: userID, DisplayName: name}).Error; err != nil {
		t.Fatalf("failed to seed user detail: %v", err)
	}
}

func counterValue(t *testing.T, db *gorm.DB, targetType string, targetID uint64, reactionType string) int64 {
	t.Helper()
	var counter model.ReactionCounter
	err := db.Where("target_type = ? AND target_id = ? AND reaction_type = ?", targetType, targetID, reactionType).
		First(&counter).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0
	}
	if err != nil {
		t.Fatalf("failed to load counter: %v", err)
	}
	return counter.Count
}

func TestSetReactionThreeWayTransition(t *testing.T) {
	db := newTestDB(t)
	repo := NewReactionRepo(db)
	ctx := context.Background()

	// First reaction inserts.
	result, err := repo.SetReaction(ctx, 1, consts.TargetTypePost, 10, consts.ReactionLike)
	if err != nil {
		t.Fatalf("SetReaction failed: %v", err)
	}
	if result != consts.ReactionLike {
		t.Fatalf("expected LIKE, got %q", result)
	}
	if n := counterValue(t, db, consts.TargetTypePost, 10, consts.ReactionLike); n != 1 {
		t.Fatalf("expected LIKE counter 1, got %d", n)
	}

	// Different type mutates the row in place, moving the count across buckets.
	result, err = repo.SetReaction(ctx, 1, consts.TargetTypePost, 10, consts.ReactionLove)
	if err != nil {
		t.Fatalf("SetReaction failed: %v", err)
	}
	if result != consts.ReactionLove {
		t.Fatalf("expected LOVE, got %q", result)
	}
	var rowCount int64
	if err := db.Model(&model.Reaction{}).Where("user_id = ? AND target_id = ?", 1, 10).Count(&rowCount).Error; err != nil {
		t.Fatalf("failed to count rows: %v", err)
	}
	if rowCount != 1 {
		t.Fatalf("type change must mutate, not insert: got %d rows", rowCount)
	}
	if n := counterValue(t, db, consts.TargetTypePost, 10, consts.ReactionLike); n != 0 {
		t.Fatalf("expected LIKE counter 0 after switch, got %d", n)
	}
	if n := counterValue(t, db, consts.TargetTypePost, 10, consts.ReactionLove); n != 1 {
		t.Fatalf("expected LOVE counter 1 after switch, got %d", n)
	}

	// Re-selecting the current type toggles off.
	result, err = repo.SetReaction(ctx, 1, consts.TargetTypePost, 10, consts.ReactionLove)
	if err != nil {
		t.Fatalf("SetReaction failed: %v", err)
	}
	if result != "" {
		t.Fatalf("expected toggle-off, got %q", result)
	}
	reaction, err := repo.GetReaction(ctx, 1, consts.TargetTypePost, 10)
	if err != nil {
		t.Fatalf("GetReaction failed: %v", err)
	}
	if reaction != nil {
		t.Fatalf("expected ledger row deleted, got %+v", reaction)
	}
	if n := counterValue(t, db, consts.TargetTypePost, 10, consts.ReactionLove); n != 0 {
		t.Fatalf("expected LOVE counter 0 after toggle-off, got %d", n)
	}
}

func TestCounterClampsAtZero(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	// Seed a drifted snapshot already at zero and decrement it directly.
	err := db.Create(&model.ReactionCounter{
		TargetType:   consts.TargetTypeComment,
		TargetID:     5,
		ReactionType: consts.ReactionSad,
		Count:        0,
	}).Error
	if err != nil {
		t.Fatalf("failed to seed counter: %v", err)
	}
	if err := adjustCounter(db.WithContext(ctx), consts.TargetTypeComment, 5, consts.ReactionSad, -1); err != nil {
		t.Fatalf("adjustCounter failed: %v", err)
	}
	if n := counterValue(t, db, consts.TargetTypeComment, 5, consts.ReactionSad); n != 0 {
		t.Fatalf("expected clamp at zero, got %d", n)
	}

	// A decrement against a missing snapshot row is a no-op, not an error.
	if err := adjustCounter(db.WithContext(ctx), consts.TargetTypeComment, 6, consts.ReactionSad, -1); err != nil {
		t.Fatalf("adjustCounter on missing row failed: %v", err)
	}
	if n := counterValue(t, db, consts.TargetTypeComment, 6, consts.ReactionSad); n != 0 {
		t.Fatalf("expected absent counter to stay zero, got %d", n)
	}
}

func TestCountersMatchLedger(t *testing.T) {
	db := newTestDB(t)
	repo := NewReactionRepo(db)
	ctx := context.Background()

	// A burst of transitions from several users; the snapshot must track
	// the ledger through every branch.
	ops := []struct {
		userID       uint64
		reactionType string
	}{
		{1, consts.ReactionLike},
		{2, consts.ReactionLike},
		{3, consts.ReactionLove},
		{1, consts.ReactionLove},  // switch
		{2, consts.ReactionLike},  // toggle off
		{4, consts.ReactionAngry},
		{3, consts.ReactionLove},  // toggle off
		{3, consts.ReactionLaugh}, // re-react
	}
	for _, op := range ops {
		if _, err := repo.SetReaction(ctx, op.userID, consts.TargetTypePost, 77, op.reactionType); err != nil {
			t.Fatalf("SetReaction(%d, %s) failed: %v", op.userID, op.reactionType, err)
		}
	}

	authoritative, err := repo.CountByType(ctx, consts.TargetTypePost, 77)
	if err != nil {
		t.Fatalf("CountByType failed: %v", err)
	}
	for _, reactionType := range consts.ReactionTypes {
		snapshot := counterValue(t, db, consts.TargetTypePost, 77, reactionType)
		if snapshot != authoritative[reactionType] {
			t.Fatalf("%s: snapshot %d != ledger %d", reactionType, snapshot, authoritative[reactionType])
		}
	}
}

func TestReplaceCountersRepairsDrift(t *testing.T) {
	db := newTestDB(t)
	repo := NewReactionRepo(db)
	ctx := context.Background()

	if _, err := repo.SetReaction(ctx, 1, consts.TargetTypePost, 3, consts.ReactionLike); err != nil {
		t.Fatalf("SetReaction failed: %v", err)
	}
	// Inject drift.
	err := db.Model(&model.ReactionCounter{}).
		Where("target_id = ?", 3).
		Update("count", 42).Error
	if err != nil {
		t.Fatalf("failed to inject drift: %v", err)
	}

	counts, err := repo.CountByType(ctx, consts.TargetTypePost, 3)
	if err != nil {
		t.Fatalf("CountByType failed: %v", err)
	}
	if err := repo.ReplaceCounters(ctx, consts.TargetTypePost, 3, counts); err != nil {
		t.Fatalf("ReplaceCounters failed: %v", err)
	}
	if n := counterValue(t, db, consts.TargetTypePost, 3, consts.ReactionLike); n != 1 {
		t.Fatalf("expected repaired counter 1, got %d", n)
	}
}

func TestGetReactionsByTargetNewestFirst(t *testing.T) {
	db := newTestDB(t)
	repo := NewReactionRepo(db)
	ctx := context.Background()

	seedUserDetail(t, db, 1, "Asha")
	seedUserDetail(t, db, 2, "Bilal")
	seedUserDetail(t, db, 3, "Chen")

	base := time.Now().Add(-time.Hour)
	for i, userID := range []uint64{1, 2, 3} {
		err := db.Create(&model.Reaction{
			UserID:       userID,
			TargetType:   consts.TargetTypePost,
			TargetID:     9,
			ReactionType: consts.ReactionLike,
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		}).Error
		if err != nil {
			t.Fatalf("failed to seed reaction: %v", err)
		}
	}

	rows, err := repo.GetReactionsByTarget(ctx, consts.TargetTypePost, 9)
	if err != nil {
		t.Fatalf("GetReactionsByTarget failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].DisplayName != "Chen" || rows[2].DisplayName != "Asha" {
		t.Fatalf("expected newest-first ordering, got %q .. %q", rows[0].DisplayName, rows[2].DisplayName)
	}
}
