package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"memeboard-backend/application/services"
	"memeboard-backend/interfaces/http/rest/middleware"
	"memeboard-backend/pkg/chain"
	"memeboard-backend/pkg/common"
	"memeboard-backend/pkg/errors"
	"memeboard-backend/pkg/utils"
)

// UserHandler handles profile and friendship endpoints.
type UserHandler struct {
	users  *services.UserService
	logger *zap.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(users *services.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// UpdateProfileRequest is the PUT /users/{userID} payload.
type UpdateProfileRequest struct {
	Bio string `json:"bio" validate:"max=500"`
}

// UserListResponse is a paginated page of users.
type UserListResponse struct {
	Users      []*UserResponse        `json:"users"`
	Pagination *common.PaginationInfo `json:"pagination"`
}

// Get handles GET /api/v1/users/{userID}
func (h *UserHandler) Get(c *chain.Context) error {
	if _, err := middleware.RequireUser(c); err != nil {
		return err
	}
	user, err := h.users.Get(c.Request.Context(), c.Param("userID"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user, false))
}

// List handles GET /api/v1/users
func (h *UserHandler) List(c *chain.Context) error {
	if _, err := middleware.RequireUser(c); err != nil {
		return err
	}
	params := common.ExtractPaginationParams(c.Request)

	users, total, err := h.users.List(c.Request.Context(), params)
	if err != nil {
		return err
	}

	resp := UserListResponse{
		Users:      make([]*UserResponse, 0, len(users)),
		Pagination: common.BuildPaginationMeta(params.Page, params.PageSize, total),
	}
	for i := range users {
		resp.Users = append(resp.Users, toUserResponse(&users[i], false))
	}
	return c.JSON(http.StatusOK, resp)
}

// UpdateProfile handles PUT /api/v1/users/{userID}
func (h *UserHandler) UpdateProfile(c *chain.Context) error {
	userCtx, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}

	var req UpdateProfileRequest
	if err := c.DecodeJSON(&req); err != nil {
		return errors.NewValidationError("invalid request body")
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return errors.NewValidationError(err.Error())
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), userCtx.UserID, c.Param("userID"), req.Bio)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user, true))
}

// Friend handles POST /api/v1/users/{userID}/friend
func (h *UserHandler) Friend(c *chain.Context) error {
	userCtx, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}
	if err := h.users.Friend(c.Request.Context(), userCtx.UserID, c.Param("userID")); err != nil {
		return err
	}
	return c.NoContent()
}

// Unfriend handles DELETE /api/v1/users/{userID}/friend
func (h *UserHandler) Unfriend(c *chain.Context) error {
	userCtx, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}
	if err := h.users.Unfriend(c.Request.Context(), userCtx.UserID, c.Param("userID")); err != nil {
		return err
	}
	return c.NoContent()
}
