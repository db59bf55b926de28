package middleware

import (
	"encoding/json"
	"math"
	"net"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"newsfeed/internal/ratelimit"
	"newsfeed/internal/services/news"
)

// RateLimit rejects callers that exceed the limiter's window, keyed by the
// peer address. Forwarding headers are only honored when an earlier
// middleware (chi RealIP) has already rewritten RemoteAddr from them.
// Instances behind a load balancer each keep their own window.
func RateLimit(limiter *ratelimit.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			clientIP := getClientIP(r)

			decision := limiter.Check(clientIP)
			if !decision.Allowed {
				log.Ctx(r.Context()).Warn().
					Str("client_ip", clientIP).
					Dur("retry_after", decision.RetryAfter).
					Msg("Rate limit exceeded")

				retry := int(math.Ceil(decision.RetryAfter.Seconds()))
				if retry < 1 {
					retry = 1
				}

				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", strconv.Itoa(retry))
				w.WriteHeader(http.StatusTooManyRequests)

				resp := news.NewErrorResponse(news.ErrCodeRateLimit, "Rate limit exceeded. Please try again later.")
				if err := json.NewEncoder(w).Encode(resp); err != nil {
					http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
				}
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// getClientIP returns the host part of RemoteAddr.
func getClientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
