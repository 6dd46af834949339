// Package handlers implements the REST endpoints as chain handlers.
// Handlers return AppErrors; the error chain turns them into JSON
// responses.
package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"memeboard-backend/application/services"
	"memeboard-backend/domain"
	"memeboard-backend/interfaces/http/rest/middleware"
	"memeboard-backend/pkg/auth"
	"memeboard-backend/pkg/chain"
	"memeboard-backend/pkg/errors"
	"memeboard-backend/pkg/utils"
)

// AuthHandler handles registration, login and session endpoints.
type AuthHandler struct {
	auth         *services.AuthService
	users        *services.UserService
	loginLimiter *auth.TokenBucketLimiter
	logger       *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	authService *services.AuthService,
	userService *services.UserService,
	loginLimiter *auth.TokenBucketLimiter,
	logger *zap.Logger,
) *AuthHandler {
	return &AuthHandler{
		auth:         authService,
		users:        userService,
		loginLimiter: loginLimiter,
		logger:       logger,
	}
}

// RegisterRequest is the POST /auth/register payload.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32,alphanum"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// LoginRequest is the POST /auth/login payload.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the signed session token.
type LoginResponse struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expiresAt"`
	User      *UserResponse `json:"user"`
}

// UserResponse is the public view of a user document.
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	Friends   []string  `json:"friends"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserResponse(u *domain.User, includeEmail bool) *UserResponse {
	friends := make([]string, 0, len(u.Friends))
	for _, f := range u.Friends {
		friends = append(friends, f.Hex())
	}
	resp := &UserResponse{
		ID:        u.ID.Hex(),
		Username:  u.Username,
		Bio:       u.Bio,
		Friends:   friends,
		CreatedAt: u.CreatedAt,
	}
	if includeEmail {
		resp.Email = u.Email
	}
	return resp
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(c *chain.Context) error {
	var req RegisterRequest
	if err := c.DecodeJSON(&req); err != nil {
		return errors.NewValidationError("invalid request body")
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return errors.NewValidationError(err.Error())
	}

	user, err := h.auth.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toUserResponse(user, true))
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(c *chain.Context) error {
	var req LoginRequest
	if err := c.DecodeJSON(&req); err != nil {
		return errors.NewValidationError("invalid request body")
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return errors.NewValidationError(err.Error())
	}

	// Brute-force protection keyed on client and account together.
	key := middleware.GetClientIP(c.Request) + ":" + req.Username
	if allowed, err := h.loginLimiter.Allow(c.Request.Context(), key); err == nil && !allowed {
		h.logger.Warn("login throttled", zap.String("username", req.Username))
		return errors.NewRateLimitError(5, "minute")
	}

	result, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, LoginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User:      toUserResponse(result.User, true),
	})
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *chain.Context) error {
	userCtx, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}
	if err := h.auth.Logout(c.Request.Context(), userCtx.TokenID); err != nil && !errors.IsNotFound(err) {
		return err
	}
	return c.NoContent()
}

// LogoutAll handles POST /api/v1/auth/logout-all, ending every session
// the user holds.
func (h *AuthHandler) LogoutAll(c *chain.Context) error {
	userCtx, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}
	if err := h.auth.LogoutAll(c.Request.Context(), userCtx.UserID); err != nil {
		return err
	}
	return c.NoContent()
}

// Me handles GET /api/v1/auth/me
func (h *AuthHandler) Me(c *chain.Context) error {
	userCtx, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}
	user, err := h.users.Get(c.Request.Context(), userCtx.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user, true))
}
