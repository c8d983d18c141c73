package repository

import (
	"context"
	"testing"
	"time"

	"CAConnect/internal/model"
)

func seedEngagement(t *testing.T, repo LeadEngagementRepo, leadID, caID uint64, viewedAt time.Time) {
	t.Helper()
	err := repo.CreateEngagement(context.Background(), &model.LeadEngagement{
		LeadID:   leadID,
		CAID:     caID,
		ViewedAt: viewedAt,
	})
	if err != nil {
		t.Fatalf("failed to seed engagement (%d, %d): %v", leadID, caID, err)
	}
}

func TestCreateEngagementEnforcesUniqueness(t *testing.T) {
	db := newTestDB(t)
	repo := NewLeadEngagementRepo(db)
	ctx := context.Background()

	seedEngagement(t, repo, 1, 100, time.Now())

	err := repo.CreateEngagement(ctx, &model.LeadEngagement{
		LeadID:   1,
		CAID:     100,
		ViewedAt: time.Now(),
	})
	if err == nil {
		t.Fatalf("expected duplicate insert to fail")
	}

	count, err := repo.CountDistinctViewers(ctx, 1)
	if err != nil {
		t.Fatalf("CountDistinctViewers failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("repeat view must not multiply the count: got %d", count)
	}
}

func TestCountDistinctViewersBatch(t *testing.T) {
	db := newTestDB(t)
	repo := NewLeadEngagementRepo(db)
	ctx := context.Background()

	now := time.Now()
	seedEngagement(t, repo, 1, 100, now)
	seedEngagement(t, repo, 1, 101, now)
	seedEngagement(t, repo, 2, 100, now)

	counts, err := repo.CountDistinctViewersBatch(ctx, []uint64{1, 2, 3})
	if err != nil {
		t.Fatalf("CountDistinctViewersBatch failed: %v", err)
	}
	if counts[1] != 2 || counts[2] != 1 || counts[3] != 0 {
		t.Fatalf("unexpected counts: %v", counts)
	}
}

func TestHiddenLeadsExcludedByDefault(t *testing.T) {
	db := newTestDB(t)
	repo := NewLeadEngagementRepo(db)
	ctx := context.Background()

	now := time.Now()
	seedEngagement(t, repo, 1, 100, now.Add(-2*time.Hour))
	seedEngagement(t, repo, 2, 100, now.Add(-time.Hour))
	seedEngagement(t, repo, 3, 100, now)

	if err := repo.UpdateHidden(ctx, 2, 100, true); err != nil {
		t.Fatalf("UpdateHidden failed: %v", err)
	}

	visible, err := repo.GetEngagements(ctx, 100, false, 10, 0)
	if err != nil {
		t.Fatalf("GetEngagements failed: %v", err)
	}
	if len(visible) != 2 || visible[0].LeadID != 3 || visible[1].LeadID != 1 {
		t.Fatalf("expected leads [3 1] newest-first without hidden, got %+v", visible)
	}

	all, err := repo.GetEngagements(ctx, 100, true, 10, 0)
	if err != nil {
		t.Fatalf("GetEngagements failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 leads with hidden included, got %+v", all)
	}

	if err := repo.UpdateHidden(ctx, 2, 100, false); err != nil {
		t.Fatalf("UpdateHidden failed: %v", err)
	}
	engagement, err := repo.GetEngagement(ctx, 2, 100)
	if err != nil {
		t.Fatalf("GetEngagement failed: %v", err)
	}
	if engagement == nil || engagement.IsHidden || engagement.HiddenAt != nil {
		t.Fatalf("expected unhide to clear hidden state, got %+v", engagement)
	}
}

func TestGetViewedLeadIDs(t *testing.T) {
	db := newTestDB(t)
	repo := NewLeadEngagementRepo(db)
	ctx := context.Background()

	now := time.Now()
	seedEngagement(t, repo, 1, 100, now)
	seedEngagement(t, repo, 3, 100, now)
	seedEngagement(t, repo, 2, 200, now)

	viewed, err := repo.GetViewedLeadIDs(ctx, 100, []uint64{1, 2, 3, 4})
	if err != nil {
		t.Fatalf("GetViewedLeadIDs failed: %v", err)
	}
	got := make(map[uint64]bool, len(viewed))
	for _, id := range viewed {
		got[id] = true
	}
	if len(viewed) != 2 || !got[1] || !got[3] {
		t.Fatalf("expected leads 1 and 3 viewed by CA 100, got %v", viewed)
	}

	viewed, err = repo.GetViewedLeadIDs(ctx, 100, nil)
	if err != nil {
		t.Fatalf("GetViewedLeadIDs failed: %v", err)
	}
	if len(viewed) != 0 {
		t.Fatalf("expected empty result for empty lead set, got %v", viewed)
	}
}

func TestUpdateNotes(t *testing.T) {
	db := newTestDB(t)
	repo := NewLeadEngagementRepo(db)
	ctx := context.Background()

	seedEngagement(t, repo, 1, 100, time.Now())
	if err := repo.UpdateNotes(ctx, 1, 100, "called, waiting on documents"); err != nil {
		t.Fatalf("UpdateNotes failed: %v", err)
	}

	engagement, err := repo.GetEngagement(ctx, 1, 100)
	if err != nil {
		t.Fatalf("GetEngagement failed: %v", err)
	}
	if engagement.Notes != "called, waiting on documents" {
		t.Fatalf("unexpected notes: %q", engagement.Notes)
	}
}

func TestDailyActivityWindow(t *testing.T) {
	db := newTestDB(t)
	repo := NewLeadEngagementRepo(db)
	ctx := context.Background()

	midnight := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	seedEngagement(t, repo, 1, 100, midnight.Add(-time.Minute))         // previous day
	seedEngagement(t, repo, 2, 100, midnight.Add(time.Hour))            // in window
	seedEngagement(t, repo, 3, 100, midnight.Add(23*time.Hour))         // in window
	seedEngagement(t, repo, 4, 200, midnight.Add(24*time.Hour))         // next day
	seedEngagement(t, repo, 5, 300, midnight.Add(12*time.Hour))         // in window

	from, to := midnight, midnight.Add(24*time.Hour)

	caIDs, err := repo.GetActiveCAIDs(ctx, from, to)
	if err != nil {
		t.Fatalf("GetActiveCAIDs failed: %v", err)
	}
	if len(caIDs) != 2 {
		t.Fatalf("expected 2 active CAs, got %v", caIDs)
	}

	views, err := repo.CountViewsBetween(ctx, 100, from, to)
	if err != nil {
		t.Fatalf("CountViewsBetween failed: %v", err)
	}
	if views != 2 {
		t.Fatalf("expected 2 views in window, got %d", views)
	}
}
