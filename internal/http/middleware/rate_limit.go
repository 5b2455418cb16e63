package middleware

import (
	"net"
	"net/http"

	"github.com/rogerio-castellano/order-tracker/internal/http/handlers"
	rl "github.com/rogerio-castellano/order-tracker/internal/http/rate_limiter"
)

// RateLimit answers 429 once a client exceeds its token bucket. Clients are
// keyed by IP, so it belongs after chi's RealIP middleware.
func RateLimit(l *rl.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow(clientIP(r)) {
				w.Header().Set("Retry-After", "1")
				handlers.WriteError(w, http.StatusTooManyRequests, "Too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
