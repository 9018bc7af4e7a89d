package middleware

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/ErikLozanov/job-application-tracker/internal/constants"
	apierrors "github.com/ErikLozanov/job-application-tracker/internal/errors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RateLimiter is a per-key sliding window limiter backed by a Redis sorted
// set of request timestamps.
type RateLimiter struct {
	redis  *redis.Client
	limit  int
	window time.Duration
	now    func() time.Time
}

// NewRateLimiter allows limit requests per key within window.
func NewRateLimiter(client *redis.Client, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		redis:  client,
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// slidingWindowScript trims the window, counts what is left and records the
// request only when it fits. It runs atomically so concurrent requests of
// one key cannot both take the last slot.
//
// KEYS[1] = key, ARGV = now (ms), window (ms), limit, member.
// Returns {allowed, count before this request, oldest score or -1}.
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, 0, now - window)
local count = redis.call('ZCARD', key)

local oldest = -1
local first = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
if #first > 0 then
	oldest = tonumber(first[2])
end

if count >= limit then
	return {0, count, oldest}
end

redis.call('ZADD', key, now, ARGV[4])
redis.call('PEXPIRE', key, window * 2)
return {1, count, oldest}
`)

// Allow records a request for key when it fits into the window. When the
// limit is reached nothing is recorded and resetAt tells when the oldest
// request leaves the window.
func (rl *RateLimiter) Allow(ctx context.Context, key string) (allowed bool, remaining int, resetAt time.Time, err error) {
	key = "rate_limit:" + key
	now := rl.now()

	res, err := slidingWindowScript.Run(ctx, rl.redis, []string{key},
		now.UnixMilli(),
		rl.window.Milliseconds(),
		rl.limit,
		fmt.Sprintf("%d-%s", now.UnixNano(), uuid.NewString()),
	).Int64Slice()
	if err != nil {
		return false, 0, time.Time{}, err
	}
	if len(res) != 3 {
		return false, 0, time.Time{}, fmt.Errorf("unexpected rate limit reply %v", res)
	}

	count := int(res[1])
	if oldest := res[2]; oldest >= 0 {
		resetAt = time.UnixMilli(oldest).Add(rl.window).UTC()
	} else {
		resetAt = now.Add(rl.window).UTC()
	}

	if res[0] == 0 {
		return false, 0, resetAt, nil
	}
	return true, rl.limit - count - 1, resetAt, nil
}

// RateLimit limits the authenticated user's requests to the routes of scope.
// A nil limiter lets every request through. Redis failures are logged and the
// request is allowed.
func RateLimit(rl *RateLimiter, scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl == nil {
			c.Next()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			return
		}

		allowed, remaining, resetAt, err := rl.Allow(c.Request.Context(), fmt.Sprintf("%s:%d", scope, userID))
		if err != nil {
			log.Printf("Rate limiter unavailable for user %d: %v", userID, err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if !allowed {
			apierrors.TooManyRequests(c, resetAt.Sub(rl.now()))
			return
		}

		c.Next()
	}
}

// NewAIRateLimiter returns the limiter for AI routes, or nil when Redis is
// not configured.
func NewAIRateLimiter(client *redis.Client, perHour int) *RateLimiter {
	if client == nil {
		return nil
	}
	if perHour <= 0 {
		perHour = constants.DefaultAIRequestsPerHour
	}
	return NewRateLimiter(client, perHour, constants.RateLimitWindow)
}
