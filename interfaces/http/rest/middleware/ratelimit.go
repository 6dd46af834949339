package middleware

import (
	"net"
	"net/http"
	"strings"

	"memeboard-backend/pkg/auth"
	"memeboard-backend/pkg/chain"
	"memeboard-backend/pkg/errors"
)

// IPRateLimit rejects requests once a client IP exceeds its window.
func IPRateLimit(limiter *auth.IPRateLimiter, limit int, window string) chain.HandlerFunc {
	return func(c *chain.Context) error {
		allowed, err := limiter.Allow(c.Request.Context(), GetClientIP(c.Request))
		if err != nil {
			// Limiter trouble should not take the API down.
			return nil
		}
		if !allowed {
			return errors.NewRateLimitError(limit, window)
		}
		return nil
	}
}

// UserRateLimit rejects requests once an authenticated user exceeds
// their window. Must run after Authenticate.
func UserRateLimit(limiter *auth.UserRateLimiter, limit int, window string) chain.HandlerFunc {
	return func(c *chain.Context) error {
		userCtx, err := RequireUser(c)
		if err != nil {
			return err
		}
		allowed, err := limiter.Allow(c.Request.Context(), userCtx.UserID)
		if err != nil {
			return nil
		}
		if !allowed {
			return errors.NewRateLimitError(limit, window)
		}
		return nil
	}
}

// GetClientIP extracts the client address, trusting proxy headers in
// the order X-Forwarded-For, X-Real-IP, RemoteAddr.
func GetClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if idx := strings.Index(fwd, ","); idx != -1 {
			return strings.TrimSpace(fwd[:idx])
		}
		return strings.TrimSpace(fwd)
	}
	if real := r.Header.Get("X-Real-IP"); real != "" {
		return real
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
