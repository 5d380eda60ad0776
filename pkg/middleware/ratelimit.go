package middleware

import (
	"context"
	"fmt"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"cinema-backoffice/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// tokenBucket refills refill_tokens every interval_ms up to capacity. When
// block_ms is set, draining the bucket locks the key out for block_ms.
var tokenBucket = redis.NewScript(`
	local key = KEYS[1]
	local now_ms = tonumber(ARGV[1])
	local capacity = tonumber(ARGV[2])
	local refill_tokens = tonumber(ARGV[3])
	local interval_ms = tonumber(ARGV[4])
	local block_ms = tonumber(ARGV[5])
	local ttl_ms = tonumber(ARGV[6])

	local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms', 'blocked_until_ms')
	local tokens = tonumber(state[1])
	local last_refill = tonumber(state[2])
	local blocked_until = tonumber(state[3]) or 0

	if blocked_until > now_ms then
		return { 0, 0, blocked_until - now_ms }
	end

	if tokens == nil or last_refill == nil then
		tokens = capacity
		last_refill = now_ms
	end

	if interval_ms > 0 and refill_tokens > 0 then
		local elapsed = math.max(0, now_ms - last_refill)
		local intervals = math.floor(elapsed / interval_ms)
		if intervals > 0 then
			tokens = math.min(capacity, tokens + (intervals * refill_tokens))
			last_refill = last_refill + (intervals * interval_ms)
		end
	end

	local allowed = 0
	local retry_after_ms = 0
	if tokens > 0 then
		allowed = 1
		tokens = tokens - 1
	elseif block_ms > 0 then
		blocked_until = now_ms + block_ms
		retry_after_ms = block_ms
	else
		retry_after_ms = math.max(0, interval_ms - (now_ms - last_refill))
	end

	redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill, 'blocked_until_ms', blocked_until)
	redis.call('PEXPIRE', key, ttl_ms)

	return { allowed, tokens, retry_after_ms }
`)

// Decision is the outcome of one limiter check.
type Decision struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

// RateLimiter applies a token bucket per client IP, stored in Redis.
type RateLimiter struct {
	rdb    redis.Scripter
	prefix string
	name   string
	rule   utils.RateLimitRule
	now    func() time.Time
	log    *zap.Logger
}

func NewRateLimiter(rdb redis.Scripter, prefix, name string, rule utils.RateLimitRule, log *zap.Logger) *RateLimiter {
	return &RateLimiter{
		rdb:    rdb,
		prefix: prefix,
		name:   name,
		rule:   rule,
		now:    time.Now,
		log:    log.With(zap.String("limiter", name)),
	}
}

func (l *RateLimiter) key(client string) string {
	return fmt.Sprintf("%s:%s:%s", l.prefix, l.name, client)
}

// Allow consumes one token for client.
func (l *RateLimiter) Allow(ctx context.Context, client string) (Decision, error) {
	ttl := l.rule.RefillInterval*time.Duration(max(1, l.rule.Capacity)) + l.rule.Block
	args := []any{
		l.now().UnixMilli(),
		l.rule.Capacity,
		l.rule.RefillTokens,
		l.rule.RefillInterval.Milliseconds(),
		l.rule.Block.Milliseconds(),
		max(ttl.Milliseconds(), 1000),
	}

	vals, err := tokenBucket.Run(ctx, l.rdb, []string{l.key(client)}, args...).Int64Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("run rate limit script: %w", err)
	}
	if len(vals) != 3 {
		return Decision{}, fmt.Errorf("unexpected rate limit result %v", vals)
	}

	return Decision{
		Allowed:    vals[0] == 1,
		Remaining:  vals[1],
		RetryAfter: time.Duration(vals[2]) * time.Millisecond,
	}, nil
}

// Middleware rejects requests with 429 once the client's bucket is empty.
// Redis failures let the request through.
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client := ClientIP(r)

		decision, err := l.Allow(r.Context(), client)
		if err != nil {
			l.log.Warn("Rate limiter unavailable, allowing request", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.rule.Capacity))
		w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(decision.Remaining, 10))

		if !decision.Allowed {
			secs := int(math.Ceil(decision.RetryAfter.Seconds()))
			l.log.Info("Rate limit exceeded",
				zap.String("ip", client),
				zap.String("path", r.URL.Path),
				zap.Int("retry_after", secs),
			)
			utils.ResponseTooManyRequests(w, "Too many requests, please try again later", secs)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Passthrough is used when rate limiting is disabled.
func Passthrough(next http.Handler) http.Handler {
	return next
}

// ClientIP returns the host part of RemoteAddr. Forwarded headers are expected
// to be resolved earlier by a real-IP middleware.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		if r.RemoteAddr == "" {
			return "unknown"
		}
		return r.RemoteAddr
	}
	return host
}
