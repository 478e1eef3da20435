package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/fenstra/offers-backend/api/responses"
	pkgerrors "github.com/fenstra/offers-backend/pkg/errors"
	"github.com/fenstra/offers-backend/pkg/logger"
	"github.com/fenstra/offers-backend/pkg/redis"
)

// RateLimiter counts attempts in redis windows. A nil redis client turns
// the limiter off, which is how dev environments run.
type RateLimiter struct {
	client *redis.Client
	logg   *logger.Logger
}

// NewRateLimiter builds a limiter over the shared redis client.
func NewRateLimiter(client *redis.Client, logg *logger.Logger) *RateLimiter {
	return &RateLimiter{client: client, logg: logg}
}

// Allow counts one attempt for the scope and reports whether it is within
// limit. Redis outages fail open; authentication must not depend on the
// counter store being up.
func (l *RateLimiter) Allow(ctx context.Context, scope string, limit int, window time.Duration) error {
	if l == nil || l.client == nil || limit <= 0 {
		return nil
	}

	count, err := l.client.IncrWithTTL(ctx, l.client.RateLimitKey(scope), window)
	if err != nil {
		l.logg.Warn(ctx, "rate limit counter unavailable")
		return nil
	}
	if count > int64(limit) {
		return pkgerrors.New(pkgerrors.CodeRateLimit, "too many attempts, try again later")
	}
	return nil
}

// LimitByIP guards a route with a per-client-address window.
func (l *RateLimiter) LimitByIP(scope string, limit int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := fmt.Sprintf("%s:ip:%s", scope, clientIP(r))
			if err := l.Allow(r.Context(), key, limit, window); err != nil {
				responses.WriteError(r.Context(), w, l.logg, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AllowEmail counts one attempt for the scope keyed by a normalized email.
func (l *RateLimiter) AllowEmail(ctx context.Context, scope, email string, limit int, window time.Duration) error {
	key := fmt.Sprintf("%s:email:%s", scope, strings.ToLower(strings.TrimSpace(email)))
	return l.Allow(ctx, key, limit, window)
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
