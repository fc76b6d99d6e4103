package ratelimit

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultLimit  = 10
	defaultWindow = 15 * time.Minute
)

// Limiter is a fixed-window request limiter backed by Redis.
// Keys are scoped by purpose (login, register) and client IP.
type Limiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

func NewLimiter(client *redis.Client) *Limiter {
	return &Limiter{
		client: client,
		limit:  defaultLimit,
		window: defaultWindow,
	}
}

// Allow records a request and reports whether it is within the limit.
// The window starts on the first request for the key and ends when the
// Redis TTL expires.
func (l *Limiter) Allow(ctx context.Context, purpose, ip string) (bool, error) {
	key := fmt.Sprintf("ratelimit:%s:%s", purpose, ip)

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}

	if count == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return false, fmt.Errorf("failed to set rate limit window: %w", err)
		}
	}

	return count <= int64(l.limit), nil
}

// ClientIP extracts the client address from the request.
// The RealIP middleware has already resolved proxy headers into RemoteAddr.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
