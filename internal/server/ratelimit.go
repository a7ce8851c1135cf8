package server

import (
	"net/http"

	"golang.org/x/time/rate"
)

// rateLimitMiddleware bounds the aggregate request rate. Requests over
// the limit get a 429 rather than queueing.
func rateLimitMiddleware(perSecond, burst int) func(http.Handler) http.Handler {
	limiter := rate.NewLimiter(rate.Limit(perSecond), burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
