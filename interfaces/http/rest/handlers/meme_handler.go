package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"memeboard-backend/application/services"
	"memeboard-backend/domain"
	"memeboard-backend/interfaces/http/rest/middleware"
	"memeboard-backend/pkg/chain"
	"memeboard-backend/pkg/common"
	"memeboard-backend/pkg/errors"
	"memeboard-backend/pkg/utils"
)

// MemeHandler handles meme endpoints.
type MemeHandler struct {
	memes  *services.MemeService
	logger *zap.Logger
}

// NewMemeHandler creates a new meme handler
func NewMemeHandler(memes *services.MemeService, logger *zap.Logger) *MemeHandler {
	return &MemeHandler{memes: memes, logger: logger}
}

// CreateMemeRequest is the POST /memes payload.
type CreateMemeRequest struct {
	Caption  string `json:"caption" validate:"required,max=280"`
	ImageURL string `json:"imageUrl" validate:"required,url"`
	Private  bool   `json:"private"`
	Receiver string `json:"receiver,omitempty" validate:"omitempty,len=24,hexadecimal"`
	ReplyTo  string `json:"replyTo,omitempty" validate:"omitempty,len=24,hexadecimal"`
}

// MemeResponse is the public view of a meme document.
type MemeResponse struct {
	ID        string    `json:"id"`
	Owner     string    `json:"owner"`
	Receiver  string    `json:"receiver,omitempty"`
	Caption   string    `json:"caption"`
	ImageURL  string    `json:"imageUrl"`
	Private   bool      `json:"private"`
	ReplyTo   string    `json:"replyTo,omitempty"`
	Likes     int       `json:"likes"`
	CreatedAt time.Time `json:"createdAt"`
}

// MemeListResponse is a paginated feed page.
type MemeListResponse struct {
	Memes      []*MemeResponse        `json:"memes"`
	Pagination *common.PaginationInfo `json:"pagination"`
}

func toMemeResponse(m *domain.Meme) *MemeResponse {
	resp := &MemeResponse{
		ID:        m.ID.Hex(),
		Owner:     m.Owner.Hex(),
		Caption:   m.Caption,
		ImageURL:  m.ImageURL,
		Private:   m.Private,
		Likes:     len(m.Likes),
		CreatedAt: m.CreatedAt,
	}
	if m.Receiver != nil {
		resp.Receiver = m.Receiver.Hex()
	}
	if m.ReplyTo != nil {
		resp.ReplyTo = m.ReplyTo.Hex()
	}
	return resp
}

// Create handles POST /api/v1/memes
func (h *MemeHandler) Create(c *chain.Context) error {
	userCtx, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}

	var req CreateMemeRequest
	if err := c.DecodeJSON(&req); err != nil {
		return errors.NewValidationError("invalid request body")
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return errors.NewValidationError(err.Error())
	}

	meme, err := h.memes.Create(c.Request.Context(), userCtx.UserID, services.CreateMemeInput{
		Caption:  req.Caption,
		ImageURL: req.ImageURL,
		Private:  req.Private,
		Receiver: req.Receiver,
		ReplyTo:  req.ReplyTo,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toMemeResponse(meme))
}

// Get handles GET /api/v1/memes/{memeID}
func (h *MemeHandler) Get(c *chain.Context) error {
	userCtx, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}
	meme, err := h.memes.Get(c.Request.Context(), userCtx.UserID, c.Param("memeID"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toMemeResponse(meme))
}

// Feed handles GET /api/v1/memes
func (h *MemeHandler) Feed(c *chain.Context) error {
	userCtx, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}
	params := common.ExtractPaginationParams(c.Request)

	memes, total, err := h.memes.Feed(c.Request.Context(), userCtx.UserID, params)
	if err != nil {
		return err
	}

	resp := MemeListResponse{
		Memes:      make([]*MemeResponse, 0, len(memes)),
		Pagination: common.BuildPaginationMeta(params.Page, params.PageSize, total),
	}
	for i := range memes {
		resp.Memes = append(resp.Memes, toMemeResponse(&memes[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

// Delete handles DELETE /api/v1/memes/{memeID}
func (h *MemeHandler) Delete(c *chain.Context) error {
	userCtx, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}
	if err := h.memes.Delete(c.Request.Context(), userCtx.UserID, c.Param("memeID")); err != nil {
		return err
	}
	return c.NoContent()
}

// Like handles POST /api/v1/memes/{memeID}/like
func (h *MemeHandler) Like(c *chain.Context) error {
	userCtx, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}
	if err := h.memes.Like(c.Request.Context(), userCtx.UserID, c.Param("memeID")); err != nil {
		return err
	}
	return c.NoContent()
}

// Unlike handles DELETE /api/v1/memes/{memeID}/like
func (h *MemeHandler) Unlike(c *chain.Context) error {
	userCtx, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}
	if err := h.memes.Unlike(c.Request.Context(), userCtx.UserID, c.Param("memeID")); err != nil {
		return err
	}
	return c.NoContent()
}
