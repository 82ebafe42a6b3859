package repository

import (
    "context"
    "errors"
    "time"

    "github.com/redis/go-redis/v9"
)

// HoldStore adapts a Redis client to the primitives the hold manager
// needs: an atomic set-if-absent with expiry, a plain read, a bulk read
// for listing overlays and an unconditional delete.  The Redis SET NX EX
// command is the single source of truth for which user holds a seat;
// expiry is handled entirely by the server so no sweep process exists.
type HoldStore struct {
    rdb *redis.Client
}

// NewHoldStore returns a HoldStore backed by the given Redis client.
// The client must be non-nil; unlike rate limiting, holds cannot
// degrade gracefully without Redis.
func NewHoldStore(rdb *redis.Client) *HoldStore {
    if rdb == nil {
        panic("nil redis client passed to NewHoldStore")
    }
    return &HoldStore{rdb: rdb}
}

// SetNX writes key=value with the given TTL only when the key is
// absent.  It returns true when the claim succeeded and false when the
// key already existed.
func (s *HoldStore) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
    return s.rdb.SetNX(ctx, key, value, ttl).Result()
}

// Get reads the current value of a key.  A missing key is not an
// error; it is reported as the empty string.
func (s *HoldStore) Get(ctx context.Context, key string) (string, error) {
    v, err := s.rdb.Get(ctx, key).Result()
    if err != nil {
        if errors.Is(err, redis.Nil) {
            return "", nil
        }
        return "", err
    }
    return v, nil
}

// MGet reads many keys in one round trip.  The result has the same
// length and order as keys; missing keys yield empty strings.
func (s *HoldStore) MGet(ctx context.Context, keys []string) ([]string, error) {
    if len(keys) == 0 {
        return []string{}, nil
    }
    vals, err := s.rdb.MGet(ctx, keys...).Result()
    if err != nil {
        return nil, err
    }
    out := make([]string, len(keys))
    for i, v := range vals {
        if sv, ok := v.(string); ok {
            out[i] = sv
        }
    }
    return out, nil
}

// Del removes a key.  Deleting an absent key is not an error.
func (s *HoldStore) Del(ctx context.Context, key string) error {
    return s.rdb.Del(ctx, key).Err()
}
