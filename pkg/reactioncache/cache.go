// Package reactioncache keeps a client-side view of reaction counters that can
// be mutated speculatively before the server confirms the write. Consumers
// apply a reaction optimistically, render at once, and then either confirm or
// roll back depending on the outcome of the HTTP call. Both outcomes end with
// a refetch of the authoritative counts so the view converges even when the
// server applied the write partially.
package reactioncache

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrMutationInFlight is returned when a second mutation is started for a
	// target whose previous mutation has not been confirmed or rolled back.
	// The rollback snapshot is a single slot, so callers must serialize
	// mutations per target.
	ErrMutationInFlight = errors.New("reactioncache: mutation already in flight for target")

	// ErrNoMutationPending is returned by Confirm and Rollback when the target
	// has no pending mutation.
	ErrNoMutationPending = errors.New("reactioncache: no mutation pending for target")
)

// State describes where a target sits in the mutation lifecycle.
type State int

const (
	StateSettled State = iota
	StatePending
)

// Summary is the cached view of one target's counters.
type Summary struct {
	// Counts maps reaction type (LIKE, LOVE, ...) to its displayed count.
	Counts map[string]int64
	// MyReaction is the current user's reaction type, empty when none.
	MyReaction string
}

func (s Summary) clone() Summary {
	counts := make(map[string]int64, len(s.Counts))
	for k, v := range s.Counts {
		counts[k] = v
	}
	return Summary{Counts: counts, MyReaction: s.MyReaction}
}

// RefetchFunc loads the authoritative summary for a target from the server.
type RefetchFunc func(ctx context.Context, targetType string, targetID uint64) (Summary, error)

type entry struct {
	state    State
	summary  Summary
	snapshot Summary
}

// Cache holds per-target summaries and their mutation state.
type Cache struct {
	mu      sync.Mutex
	refetch RefetchFunc
	entries map[string]*entry
}

func New(refetch RefetchFunc) *Cache {
	return &Cache{
		refetch: refetch,
		entries: make(map[string]*entry),
	}
}

func key(targetType string, targetID uint64) string {
	return fmt.Sprintf("%s:%d", targetType, targetID)
}

// Prime seeds the cache with a summary obtained from an ordinary fetch. It
// does nothing when a mutation is pending for the target, so an in-flight
// speculative view is never clobbered by a stale response.
func (c *Cache) Prime(targetType string, targetID uint64, s Summary) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key(targetType, targetID)]
	if ok && e.state == StatePending {
		return
	}
	c.entries[key(targetType, targetID)] = &entry{
		state:   StateSettled,
		summary: s.clone(),
	}
}

// Get returns the current view for a target. The second return value reports
// whether the target is known to the cache.
func (c *Cache) Get(targetType string, targetID uint64) (Summary, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key(targetType, targetID)]
	if !ok {
		return Summary{}, false
	}
	return e.summary.clone(), true
}

// State reports the mutation state for a target. Unknown targets are settled.
func (c *Cache) State(targetType string, targetID uint64) State {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key(targetType, targetID)]
	if !ok {
		return StateSettled
	}
	return e.state
}

// Begin applies a speculative reaction change and returns the view to render
// while the server call is in flight. The delta follows the three-way toggle:
// reselecting the current reaction clears it, a different reaction moves one
// count from the old bucket to the new, a first reaction increments the new
// bucket. Decrements clamp at zero. The pre-mutation state is snapshotted for
// Rollback; a second Begin before Confirm or Rollback returns
// ErrMutationInFlight.
func (c *Cache) Begin(targetType string, targetID uint64, reactionType string) (Summary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := key(targetType, targetID)
	e, ok := c.entries[k]
	if !ok {
		e = &entry{state: StateSettled, summary: Summary{Counts: make(map[string]int64)}}
		c.entries[k] = e
	}
	if e.state == StatePending {
		return Summary{}, ErrMutationInFlight
	}

	e.snapshot = e.summary.clone()
	next := e.summary.clone()

	switch {
	case next.MyReaction == reactionType:
		decrement(next.Counts, reactionType)
		next.MyReaction = ""
	case next.MyReaction != "":
		decrement(next.Counts, next.MyReaction)
		next.Counts[reactionType]++
		next.MyReaction = reactionType
	default:
		next.Counts[reactionType]++
		next.MyReaction = reactionType
	}

	e.summary = next
	e.state = StatePending
	return next.clone(), nil
}

// Confirm settles a pending mutation after the server accepted it. The
// snapshot is discarded and the authoritative summary is refetched so any
// drift between the speculative delta and the server's state is corrected.
func (c *Cache) Confirm(ctx context.Context, targetType string, targetID uint64) (Summary, error) {
	return c.settle(ctx, targetType, targetID, false)
}

// Rollback restores the exact pre-mutation snapshot after the server rejected
// the mutation, then refetches the authoritative summary. The refetch matters
// here too: a failed call may still have partially applied on the server.
func (c *Cache) Rollback(ctx context.Context, targetType string, targetID uint64) (Summary, error) {
	return c.settle(ctx, targetType, targetID, true)
}

func (c *Cache) settle(ctx context.Context, targetType string, targetID uint64, restore bool) (Summary, error) {
	c.mu.Lock()
	k := key(targetType, targetID)
	e, ok := c.entries[k]
	if !ok || e.state != StatePending {
		c.mu.Unlock()
		return Summary{}, ErrNoMutationPending
	}
	if restore {
		e.summary = e.snapshot.clone()
	}
	e.snapshot = Summary{}
	e.state = StateSettled
	local := e.summary.clone()
	c.mu.Unlock()

	// Refetch outside the lock. On failure the local view stands until the
	// next successful fetch.
	fresh, err := c.refetch(ctx, targetType, targetID)
	if err != nil {
		return local, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok = c.entries[k]
	if !ok || e.state == StatePending {
		// A new mutation began during the refetch; its view wins.
		return local, nil
	}
	e.summary = fresh.clone()
	return fresh.clone(), nil
}

func decrement(counts map[string]int64, reactionType string) {
	if counts[reactionType] <= 1 {
		delete(counts, reactionType)
		return
	}
	counts[reactionType]--
}
