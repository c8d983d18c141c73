package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Nil is re-exported so callers can detect cache misses without importing
// the driver. A nil Rdb (cache disabled, e.g. in tests) reads as a miss and
// writes as a no-op.
var Nil = redis.Nil

// SetValue sets a key without expiration.
func SetValue(ctx context.Context, key string, value interface{}) error {
	if Rdb == nil {
		return nil
	}
	return Rdb.Set(ctx, key, value, 0).Err()
}

// SetWithExpiration sets a key with a TTL.
func SetWithExpiration(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if Rdb == nil {
		return nil
	}
	return Rdb.Set(ctx, key, value, expiration).Err()
}

// GetValue returns the string value, or "" when the key is absent.
func GetValue(ctx context.Context, key string) (string, error) {
	if Rdb == nil {
		return "", nil
	}
	value, err := Rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return value, nil
}

// GetInt64 returns a cached counter; redis.Nil signals a miss.
func GetInt64(ctx context.Context, key string) (int64, error) {
	if Rdb == nil {
		return 0, redis.Nil
	}
	return Rdb.Get(ctx, key).Int64()
}

// MGetValue fetches multiple keys in one round trip; absent keys are omitted
// from the result map.
func MGetValue(ctx context.Context, keys ...string) (map[string]string, error) {
	result := make(map[string]string, len(keys))
	if Rdb == nil || len(keys) == 0 {
		return result, nil
	}
	values, err := Rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	for i, v := range values {
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok {
			result[keys[i]] = s
		}
	}
	return result, nil
}

// IncrIfExists bumps a counter only when the key is already populated, so a
// stale increment can never resurrect an invalidated cache entry.
func IncrIfExists(ctx context.Context, key string) error {
	if Rdb == nil {
		return nil
	}
	return Rdb.Eval(ctx,
		"if redis.call('exists', KEYS[1]) == 1 then return redis.call('incr', KEYS[1]) else return 0 end",
		[]string{key}).Err()
}

// DecrFloor decrements a counter but never below zero, and only when the key
// exists.
func DecrFloor(ctx context.Context, key string) error {
	if Rdb == nil {
		return nil
	}
	return Rdb.Eval(ctx,
		"if redis.call('exists', KEYS[1]) == 1 and tonumber(redis.call('get', KEYS[1])) > 0 then return redis.call('decr', KEYS[1]) else return 0 end",
		[]string{key}).Err()
}

// TryLock acquires a SetNX lock, retrying up to retryTimes (-1 for forever).
func TryLock(ctx context.Context, key string, value interface{}, expiration time.Duration, retryTimes int) (bool, error) {
	if Rdb == nil {
		return true, nil
	}
	for i := 0; i <= retryTimes || retryTimes == -1; i++ {
		success, err := Rdb.SetNX(ctx, key, value, expiration).Result()
		if err != nil {
			return false, err
		}
		if success {
			return true, nil
		}
		time.Sleep(time.Millisecond * 200)
	}
	return false, nil
}

// UnLock releases a TryLock only if the holder still owns it.
func UnLock(ctx context.Context, key string, value interface{}) {
	if Rdb == nil {
		return
	}
	Rdb.Eval(ctx, "if redis.call('get', KEYS[1]) == ARGV[1] then return redis.call('del', KEYS[1]) else return 0 end", []string{key}, value)
}

// SAdd adds members to a set.
func SAdd(ctx context.Context, key string, members ...interface{}) error {
	if Rdb == nil {
		return nil
	}
	return Rdb.SAdd(ctx, key, members...).Err()
}

// GetSet returns all members of a set.
func GetSet(ctx context.Context, key string) ([]string, error) {
	if Rdb == nil {
		return nil, nil
	}
	value, err := Rdb.SMembers(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Expire sets a TTL on an existing key.
func Expire(ctx context.Context, key string, expiration time.Duration) error {
	if Rdb == nil {
		return nil
	}
	return Rdb.Expire(ctx, key, expiration).Err()
}

// Rename atomically renames a key; used to claim dirty sets for processing.
func Rename(ctx context.Context, oldKey string, newKey string) error {
	if Rdb == nil {
		return redis.Nil
	}
	return Rdb.Rename(ctx, oldKey, newKey).Err()
}

// DeleteKey removes a key.
func DeleteKey(ctx context.Context, key string) error {
	if Rdb == nil {
		return nil
	}
	return Rdb.Del(ctx, key).Err()
}

// DeleteKeys removes a batch of keys.
func DeleteKeys(ctx context.Context, keys ...string) error {
	if Rdb == nil || len(keys) == 0 {
		return nil
	}
	return Rdb.Del(ctx, keys...).Err()
}

// Publish sends a message on a pub/sub channel.
func Publish(ctx context.Context, channel string, message interface{}) error {
	if Rdb == nil {
		return nil
	}
	return Rdb.Publish(ctx, channel, message).Err()
}

// Subscribe opens a pub/sub subscription; the caller owns the returned
// handle and must Close it.
func Subscribe(ctx context.Context, channels ...string) *redis.PubSub {
	if Rdb == nil {
		return nil
	}
	return Rdb.Subscribe(ctx, channels...)
}

// GetRdbClient exposes the raw client for pipelines.
func GetRdbClient() *redis.Client {
	return Rdb
}
