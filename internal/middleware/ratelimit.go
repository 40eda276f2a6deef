// File: internal/middleware/ratelimit.go
package middleware

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"strconv"

	"github.com/iyunix/go-healchat/internal/ratelimit"
)

// KeyFunc picks the bucket a request is charged to.
type KeyFunc func(r *http.Request) string

// ByUser charges authenticated requests to the user and falls back to the client IP.
func ByUser(r *http.Request) string {
	if id, ok := UserIDFromContext(r.Context()); ok {
		return "user:" + strconv.FormatUint(uint64(id), 10)
	}
	return "ip:" + ratelimit.GetClientIP(r)
}

// ByIP charges requests to the direct peer address.
func ByIP(r *http.Request) string {
	return "ip:" + ratelimit.GetClientIP(r)
}

// ByClientIP charges requests to the client address seen through trusted proxies.
func ByClientIP(resolver *ratelimit.ClientIPResolver) KeyFunc {
	return func(r *http.Request) string {
		return "ip:" + resolver.ClientIP(r)
	}
}

// RateLimitMiddleware creates a rate limiting middleware
func RateLimitMiddleware(limiter *ratelimit.KeyedLimiter, name string, key KeyFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := key(r)
			allowed, retryAfter := limiter.Allow(id)
			w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", limiter.Limit()))

			if !allowed {
				log.Printf("[RateLimit] Blocked %s request for %s", name, id)

				seconds := int(math.Ceil(retryAfter.Seconds()))
				w.Header().Set("Retry-After", strconv.Itoa(seconds))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]interface{}{
					"error":      "Too many requests. Please slow down.",
					"retryAfter": seconds,
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
