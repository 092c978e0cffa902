package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bnema/tronclass-cli/internal/domain"
	"github.com/bnema/tronclass-cli/internal/ports"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

const DefaultKey = "tc:ratewindow"

var ErrRedisUnavailable = errors.New("rate window redis unavailable")

// admitScript prunes, checks and records in one step so that processes
// sharing the key never both see room for the same slot.
// KEYS[1] = sorted set of admission timestamps (ms)
// ARGV[1] = now (ms), ARGV[2] = window (ms), ARGV[3] = limit, ARGV[4] = member
// Returns {1, 0} when admitted, {0, wait_ms} when denied.
var admitScript = goredis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)

local count = redis.call('ZCARD', key)
if count >= limit then
	local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
	return {0, window - (now - tonumber(oldest[2]))}
end

redis.call('ZADD', key, now, ARGV[4])
redis.call('PEXPIRE', key, window)
return {1, 0}
`)

// Limiter keeps the sliding window in a Redis sorted set, letting several
// processes share one request budget against the same portal.
type Limiter struct {
	client goredis.UniversalClient
	key    string
	limit  int
	window time.Duration
	clock  ports.Clock
}

var _ ports.RateLimiter = (*Limiter)(nil)

func NewLimiter(client goredis.UniversalClient, key string, limit int, window time.Duration, clock ports.Clock) *Limiter {
	if key == "" {
		key = DefaultKey
	}
	if limit <= 0 {
		limit = domain.DefaultFetcherRPM
	}
	if window <= 0 {
		window = domain.DefaultRateWindow
	}
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &Limiter{
		client: client,
		key:    key,
		limit:  limit,
		window: window,
		clock:  clock,
	}
}

func (l *Limiter) Admit(ctx context.Context) (domain.Admission, error) {
	now := l.clock.Now().UnixMilli()
	result, err := admitScript.Run(ctx, l.client, []string{l.key},
		now,
		l.window.Milliseconds(),
		l.limit,
		uuid.NewString(),
	).Int64Slice()
	if err != nil {
		return domain.Admission{}, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if len(result) != 2 {
		return domain.Admission{}, fmt.Errorf("%w: unexpected admit reply %v", ErrRedisUnavailable, result)
	}

	if result[0] == 1 {
		return domain.Admission{OK: true}, nil
	}

	return domain.Admission{OK: false, Wait: time.Duration(result[1]) * time.Millisecond}, nil
}
