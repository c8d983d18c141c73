package kafka

import (
	"CAConnect/internal/pkg/redis"
	"context"
	log "log/slog"
	"strconv"
)

// Canal event types.
const (
	INSERT = "INSERT"
	UPDATE = "UPDATE"
	DELETE = "DELETE"
)

// StrVal reads a Canal row column as a string. Canal serializes every
// column value as a string.
func StrVal(v interface{}) string {
	s, _ := v.(string)
	return s
}

// StrToUint64 reads a Canal row column as an id.
func StrToUint64(v interface{}) uint64 {
	s, ok := v.(string)
	if !ok {
		return 0
	}
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// ActionParams describes one cached counter adjustment.
type ActionParams struct {
	// CountKey is the full Redis key of the cached counter.
	CountKey string
	// DirtyKey is the set the reconciliation job drains.
	DirtyKey string
	// DirtyMember identifies the target to recompute.
	DirtyMember string
	IsIncrement bool
	NotifyFunc  func()
}

// ExecAction nudges the cached counter and marks the target dirty so the
// reconciliation job can repair any drift. The counter is only touched when
// it is already cached, so a stale event can never resurrect an
// invalidated key.
func ExecAction(ctx context.Context, params ActionParams) {
	var err error
	if params.IsIncrement {
		err = redis.IncrIfExists(ctx, params.CountKey)
	} else {
		err = redis.DecrFloor(ctx, params.CountKey)
	}
	if err != nil {
		log.ErrorContext(ctx, "failed to adjust cached counter", "key", params.CountKey, "err", err)
	}

	if err = redis.SAdd(ctx, params.DirtyKey, params.DirtyMember); err != nil {
		log.ErrorContext(ctx, "failed to mark target dirty", "key", params.DirtyKey, "member", params.DirtyMember, "err", err)
	}

	if params.NotifyFunc != nil {
		params.NotifyFunc()
	}
}
