// Package middleware provides the chain middleware shared by the REST
// routes.
package middleware

import (
	"strings"

	"memeboard-backend/application/services"
	"memeboard-backend/pkg/auth"
	"memeboard-backend/pkg/chain"
	"memeboard-backend/pkg/errors"
)

// Authenticate validates the bearer token and stores the user context
// for downstream handlers. Requests without a valid session never
// reach the final handler.
func Authenticate(authService *services.AuthService) chain.HandlerFunc {
	return func(c *chain.Context) error {
		header := c.Request.Header.Get("Authorization")
		if header == "" {
			return errors.NewUnauthorizedError("missing authorization header")
		}
		bearer := strings.TrimPrefix(header, "Bearer ")
		if bearer == header {
			return errors.NewUnauthorizedError("authorization header must use the Bearer scheme")
		}

		userCtx, err := authService.Authenticate(c.Request.Context(), bearer)
		if err != nil {
			return err
		}

		c.Request = c.Request.WithContext(
			auth.SetUserInContext(c.Request.Context(), userCtx),
		)
		return nil
	}
}

// RequireUser returns the authenticated user context or an
// unauthorized error. Handlers call it instead of reaching into the
// request context directly.
func RequireUser(c *chain.Context) (*auth.UserContext, error) {
	userCtx, err := auth.GetUserFromContext(c.Request.Context())
	if err != nil {
		return nil, errors.NewUnauthorizedError("authentication required")
	}
	return userCtx, nil
}
