package middleware

import (
	"net/http"

	"github.com/doughlab/cookieclicker/internal/api/apierr"
	"github.com/doughlab/cookieclicker/internal/middleware"
)

// RateLimit creates rate limiting middleware for the API
// Returns a JSON 429 response when the limit is exceeded
func RateLimit(limiter *middleware.RateLimiter) func(http.Handler) http.Handler {
	return middleware.RateLimit(limiter, rateLimitedHandler)
}

func rateLimitedHandler(w http.ResponseWriter, _ *http.Request) {
	apierr.WriteError(w, apierr.NewRateLimitedError())
}
