package ratelimiter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient is the subset of a go-redis client RedisStore uses.
type RedisClient interface {
	redis.Scripter
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// takeScript mirrors MemoryStore.Take atomically inside Redis.
// KEYS[1] bucket; ARGV capacity, refill rate, interval ms, n, now ms, ttl ms.
// Returns {remaining, reset at ms}.
var takeScript = redis.NewScript(`
local capacity = tonumber(ARGV[1])
local rate = tonumber(ARGV[2])
local interval = tonumber(ARGV[3])
local n = tonumber(ARGV[4])
local now = tonumber(ARGV[5])

local state = redis.call('HMGET', KEYS[1], 'tokens', 'refilled_at')
local tokens = tonumber(state[1])
local refilled = tonumber(state[2])
if tokens == nil or refilled == nil then
	tokens = capacity
	refilled = now
end

local intervals = math.floor((now - refilled) / interval)
if intervals > 0 then
	tokens = math.min(tokens + intervals * rate, capacity)
	refilled = refilled + intervals * interval
end

local remaining = tokens - n
if remaining >= 0 then
	tokens = remaining
end

redis.call('HSET', KEYS[1], 'tokens', tokens, 'refilled_at', refilled)
redis.call('PEXPIRE', KEYS[1], ARGV[6])
return {remaining, refilled + interval}
`)

// RedisStore shares buckets between replicas through Redis.
type RedisStore struct {
	client RedisClient
	prefix string
	now    func() time.Time
}

func NewRedisStore(client RedisClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &RedisStore{client: client, prefix: prefix, now: time.Now}
}

func (s *RedisStore) Take(ctx context.Context, key string, n int, cfg Config) (int, time.Time, error) {
	res, err := takeScript.Run(ctx, s.client, []string{s.key(key)},
		cfg.Capacity,
		cfg.RefillRate,
		cfg.RefillInterval.Milliseconds(),
		n,
		s.now().UnixMilli(),
		staleAfter.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("rate limit %q: %w", key, err)
	}
	if len(res) != 2 {
		return 0, time.Time{}, fmt.Errorf("rate limit %q: unexpected script result %v", key, res)
	}
	return int(res[0]), time.UnixMilli(res[1]), nil
}

func (s *RedisStore) Reset(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.key(key)).Err()
}

func (s *RedisStore) key(k string) string {
	return s.prefix + ":" + k
}
