package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"CAConnect/internal/api/dto"
	"CAConnect/internal/model"
	"CAConnect/internal/pkg/consts"
	"CAConnect/internal/repository"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:caconnect_svc_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&model.User{},
		&model.Role{},
		&model.UserRole{},
		&model.UserDetail{},
		&model.Post{},
		&model.PostComment{},
		&model.Reaction{},
		&model.ReactionCounter{},
		&model.Lead{},
		&model.LeadEngagement{},
		&model.CAProfile{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func newReactionTestService(t *testing.T) (ReactionService, *gorm.DB) {
	t.Helper()
	db := newServiceTestDB(t)
	return NewReactionService(repository.NewReactionRepo(db), repository.NewPostRepo(db)), db
}

func seedPost(t *testing.T, db *gorm.DB, postID, userID uint64) {
	t.Helper()
	err := db.Create(&model.Post{
		ID:      postID,
		UserID:  userID,
		Title:   "GST filing deadline",
		Content: "Reminder for quarterly returns.",
	}).Error
	if err != nil {
		t.Fatalf("failed to seed post: %v", err)
	}
}

func seedDisplayName(t *testing.T, db *gorm.DB, userID uint64, name string) {
	t.Helper()
	if err := db.Create(&model.UserDetail{UserID: userID, DisplayName: name}).Error; err != nil {
		t.Fatalf("failed to seed user detail: %v", err)
	}
}

func toggle(t *testing.T, svc ReactionService, userID, postID uint64, reactionType string) *dto.ReactionToggleResultDTO {
	t.Helper()
	result, err := svc.ToggleReaction(context.Background(), userID, &dto.ReactionToggleDTO{
		TargetType:   consts.TargetTypePost,
		TargetID:     postID,
		ReactionType: reactionType,
	})
	if err != nil {
		t.Fatalf("ToggleReaction failed: %v", err)
	}
	return result
}

func TestToggleReactionLifecycle(t *testing.T) {
	svc, db := newReactionTestService(t)
	seedPost(t, db, 1, 10)

	result := toggle(t, svc, 10, 1, consts.ReactionLike)
	if result.ReactionType != consts.ReactionLike || result.Total != 1 {
		t.Fatalf("unexpected first toggle result: %+v", result)
	}

	result = toggle(t, svc, 10, 1, consts.ReactionLove)
	if result.ReactionType != consts.ReactionLove || result.Total != 1 {
		t.Fatalf("switch must keep total at 1: %+v", result)
	}
	if result.Counts[consts.ReactionLike] != 0 || result.Counts[consts.ReactionLove] != 1 {
		t.Fatalf("unexpected counts after switch: %v", result.Counts)
	}

	result = toggle(t, svc, 10, 1, consts.ReactionLove)
	if result.ReactionType != "" || result.Total != 0 {
		t.Fatalf("expected toggle-off to clear: %+v", result)
	}
}

func TestToggleReactionValidation(t *testing.T) {
	svc, db := newReactionTestService(t)
	seedPost(t, db, 1, 10)
	ctx := context.Background()

	_, err := svc.ToggleReaction(ctx, 10, &dto.ReactionToggleDTO{
		TargetType:   consts.TargetTypePost,
		TargetID:     999,
		ReactionType: consts.ReactionLike,
	})
	if !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}

	_, err = svc.ToggleReaction(ctx, 10, &dto.ReactionToggleDTO{
		TargetType:   consts.TargetTypePost,
		TargetID:     1,
		ReactionType: "THUMBS",
	})
	if !errors.Is(err, ErrReactionTypeInvalid) {
		t.Fatalf("expected ErrReactionTypeInvalid, got %v", err)
	}

	_, err = svc.ToggleReaction(ctx, 10, &dto.ReactionToggleDTO{
		TargetType:   "LEAD",
		TargetID:     1,
		ReactionType: consts.ReactionLike,
	})
	if !errors.Is(err, ErrTargetTypeInvalid) {
		t.Fatalf("expected ErrTargetTypeInvalid, got %v", err)
	}
}

func TestGetSummariesBatch(t *testing.T) {
	svc, db := newReactionTestService(t)
	seedPost(t, db, 1, 10)
	seedPost(t, db, 2, 10)
	for i, name := range []string{"Asha", "Bilal", "Chen", "Devi"} {
		seedDisplayName(t, db, uint64(20+i), name)
	}

	toggle(t, svc, 20, 1, consts.ReactionLike)
	toggle(t, svc, 21, 1, consts.ReactionLike)
	toggle(t, svc, 22, 1, consts.ReactionLove)
	toggle(t, svc, 23, 1, consts.ReactionSad)
	toggle(t, svc, 20, 2, consts.ReactionLaugh)

	summaries, err := svc.GetSummaries(context.Background(), 21, consts.TargetTypePost, []uint64{1, 2, 3})
	if err != nil {
		t.Fatalf("GetSummaries failed: %v", err)
	}

	first := summaries[1]
	if first.Total != 4 {
		t.Fatalf("expected total 4 on post 1, got %d", first.Total)
	}
	if first.ViewerReaction != consts.ReactionLike {
		t.Fatalf("expected viewer's own LIKE, got %q", first.ViewerReaction)
	}
	if len(first.RecentReactors) != 3 {
		t.Fatalf("expected first three distinct names, got %v", first.RecentReactors)
	}

	second := summaries[2]
	if second.Total != 1 || second.ViewerReaction != "" {
		t.Fatalf("unexpected summary for post 2: %+v", second)
	}

	// Unreacted targets still get a zeroed summary, not a missing entry.
	third := summaries[3]
	if third == nil || third.Total != 0 {
		t.Fatalf("expected zeroed summary for post 3, got %+v", third)
	}
}

func TestListReactorsPagination(t *testing.T) {
	svc, db := newReactionTestService(t)
	seedPost(t, db, 1, 10)
	for i := 0; i < 5; i++ {
		userID := uint64(30 + i)
		seedDisplayName(t, db, userID, fmt.Sprintf("Reactor %d", i))
		toggle(t, svc, userID, 1, consts.ReactionLike)
	}

	page1, err := svc.ListReactors(context.Background(), consts.TargetTypePost, 1, 1, 3)
	if err != nil {
		t.Fatalf("ListReactors failed: %v", err)
	}
	if len(page1) != 3 {
		t.Fatalf("expected 3 reactors on page 1, got %d", len(page1))
	}

	page2, err := svc.ListReactors(context.Background(), consts.TargetTypePost, 1, 2, 3)
	if err != nil {
		t.Fatalf("ListReactors failed: %v", err)
	}
	if len(page2) != 2 {
		t.Fatalf("expected 2 reactors on page 2, got %d", len(page2))
	}

	page3, err := svc.ListReactors(context.Background(), consts.TargetTypePost, 1, 3, 3)
	if err != nil {
		t.Fatalf("ListReactors failed: %v", err)
	}
	if len(page3) != 0 {
		t.Fatalf("expected empty page past the end, got %d", len(page3))
	}

	// Out of range paging clamps instead of panicking.
	clamped, err := svc.ListReactors(context.Background(), consts.TargetTypePost, 1, 0, 0)
	if err != nil {
		t.Fatalf("ListReactors failed: %v", err)
	}
	if len(clamped) != 5 {
		t.Fatalf("expected clamped defaults to return all 5 reactors, got %d", len(clamped))
	}
	if _, err = svc.ListReactors(context.Background(), consts.TargetTypePost, 1, -2, -1); err != nil {
		t.Fatalf("ListReactors failed on negative paging: %v", err)
	}
}

func TestRecomputeCountersRepairsDrift(t *testing.T) {
	svc, db := newReactionTestService(t)
	seedPost(t, db, 1, 10)
	toggle(t, svc, 10, 1, consts.ReactionLike)
	toggle(t, svc, 11, 1, consts.ReactionLike)

	// Inject drift into the snapshot.
	err := db.Model(&model.ReactionCounter{}).
		Where("target_id = ?", 1).
		Update("count", 99).Error
	if err != nil {
		t.Fatalf("failed to inject drift: %v", err)
	}

	counts, err := svc.RecomputeCounters(context.Background(), consts.TargetTypePost, 1)
	if err != nil {
		t.Fatalf("RecomputeCounters failed: %v", err)
	}
	if counts[consts.ReactionLike] != 2 {
		t.Fatalf("expected recomputed LIKE count 2, got %d", counts[consts.ReactionLike])
	}

	summary, err := svc.GetSummary(context.Background(), 0, consts.TargetTypePost, 1)
	if err != nil {
		t.Fatalf("GetSummary failed: %v", err)
	}
	if summary.Total != 2 {
		t.Fatalf("expected total 2 after repair, got %d", summary.Total)
	}
}
