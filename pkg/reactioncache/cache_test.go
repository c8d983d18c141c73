package reactioncache

import (
	"context"
	"errors"
	"testing"
)

func staticRefetch(s Summary) RefetchFunc {
	return func(ctx context.Context, targetType string, targetID uint64) (Summary, error) {
		return s.clone(), nil
	}
}

func TestBeginFirstReaction(t *testing.T) {
	c := New(staticRefetch(Summary{}))
	c.Prime("POST", 1, Summary{Counts: map[string]int64{"LIKE": 2}})

	view, err := c.Begin("POST", 1, "LOVE")
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if view.MyReaction != "LOVE" {
		t.Fatalf("expected my reaction LOVE, got %q", view.MyReaction)
	}
	if view.Counts["LOVE"] != 1 || view.Counts["LIKE"] != 2 {
		t.Fatalf("unexpected counts: %v", view.Counts)
	}
	if c.State("POST", 1) != StatePending {
		t.Fatalf("expected pending state")
	}
}

func TestBeginToggleOff(t *testing.T) {
	c := New(staticRefetch(Summary{}))
	c.Prime("POST", 1, Summary{Counts: map[string]int64{"LIKE": 3}, MyReaction: "LIKE"})

	view, err := c.Begin("POST", 1, "LIKE")
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if view.MyReaction != "" {
		t.Fatalf("expected cleared reaction, got %q", view.MyReaction)
	}
	if view.Counts["LIKE"] != 2 {
		t.Fatalf("expected LIKE count 2, got %d", view.Counts["LIKE"])
	}
}

func TestBeginSwitchReaction(t *testing.T) {
	c := New(staticRefetch(Summary{}))
	c.Prime("COMMENT", 7, Summary{Counts: map[string]int64{"LIKE": 1, "SAD": 4}, MyReaction: "LIKE"})

	view, err := c.Begin("COMMENT", 7, "SAD")
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if view.MyReaction != "SAD" {
		t.Fatalf("expected SAD, got %q", view.MyReaction)
	}
	if _, ok := view.Counts["LIKE"]; ok {
		t.Fatalf("expected LIKE bucket dropped at zero, got %v", view.Counts)
	}
	if view.Counts["SAD"] != 5 {
		t.Fatalf("expected SAD count 5, got %d", view.Counts["SAD"])
	}
}

func TestDecrementClampsAtZero(t *testing.T) {
	c := New(staticRefetch(Summary{}))
	// Drifted view: my reaction recorded but its bucket already empty.
	c.Prime("POST", 2, Summary{Counts: map[string]int64{}, MyReaction: "LIKE"})

	view, err := c.Begin("POST", 2, "LIKE")
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if n, ok := view.Counts["LIKE"]; ok {
		t.Fatalf("expected LIKE absent after clamped decrement, got %d", n)
	}
}

func TestSecondMutationRejected(t *testing.T) {
	c := New(staticRefetch(Summary{}))
	if _, err := c.Begin("POST", 1, "LIKE"); err != nil {
		t.Fatalf("first Begin failed: %v", err)
	}
	if _, err := c.Begin("POST", 1, "LOVE"); !errors.Is(err, ErrMutationInFlight) {
		t.Fatalf("expected ErrMutationInFlight, got %v", err)
	}
}

func TestConfirmAdoptsServerCounts(t *testing.T) {
	server := Summary{Counts: map[string]int64{"LIKE": 10}, MyReaction: "LIKE"}
	c := New(staticRefetch(server))
	c.Prime("POST", 1, Summary{Counts: map[string]int64{"LIKE": 1}})

	if _, err := c.Begin("POST", 1, "LIKE"); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	view, err := c.Confirm(context.Background(), "POST", 1)
	if err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}
	if view.Counts["LIKE"] != 10 {
		t.Fatalf("expected refetched count 10, got %d", view.Counts["LIKE"])
	}
	if c.State("POST", 1) != StateSettled {
		t.Fatalf("expected settled state after confirm")
	}
}

func TestRollbackRestoresSnapshot(t *testing.T) {
	refetchErr := errors.New("server unavailable")
	c := New(func(ctx context.Context, targetType string, targetID uint64) (Summary, error) {
		return Summary{}, refetchErr
	})
	before := Summary{Counts: map[string]int64{"LIKE": 2, "ANGRY": 1}, MyReaction: "ANGRY"}
	c.Prime("POST", 5, before)

	if _, err := c.Begin("POST", 5, "LIKE"); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	view, err := c.Rollback(context.Background(), "POST", 5)
	if !errors.Is(err, refetchErr) {
		t.Fatalf("expected refetch error surfaced, got %v", err)
	}
	if view.MyReaction != "ANGRY" || view.Counts["LIKE"] != 2 || view.Counts["ANGRY"] != 1 {
		t.Fatalf("snapshot not restored exactly: %+v", view)
	}
	if c.State("POST", 5) != StateSettled {
		t.Fatalf("expected settled state after rollback")
	}
}

func TestConfirmWithoutPending(t *testing.T) {
	c := New(staticRefetch(Summary{}))
	if _, err := c.Confirm(context.Background(), "POST", 1); !errors.Is(err, ErrNoMutationPending) {
		t.Fatalf("expected ErrNoMutationPending, got %v", err)
	}
}

func TestPrimeIgnoredWhilePending(t *testing.T) {
	c := New(staticRefetch(Summary{}))
	if _, err := c.Begin("POST", 1, "LIKE"); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	c.Prime("POST", 1, Summary{Counts: map[string]int64{"LIKE": 99}})

	view, ok := c.Get("POST", 1)
	if !ok {
		t.Fatalf("expected cached entry")
	}
	if view.Counts["LIKE"] != 1 {
		t.Fatalf("stale prime clobbered pending view: %v", view.Counts)
	}
}
