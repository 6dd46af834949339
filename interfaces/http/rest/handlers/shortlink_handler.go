package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"memeboard-backend/application/services"
	"memeboard-backend/domain"
	"memeboard-backend/interfaces/http/rest/middleware"
	"memeboard-backend/pkg/chain"
	"memeboard-backend/pkg/errors"
	"memeboard-backend/pkg/httpx"
	"memeboard-backend/pkg/utils"
)

// ShortLinkHandler handles the URL-shortener endpoints. Resolution is
// public; management requires a session.
type ShortLinkHandler struct {
	links  *services.ShortLinkService
	proxy  *httpx.Client
	logger *zap.Logger
}

// NewShortLinkHandler creates a new short link handler
func NewShortLinkHandler(links *services.ShortLinkService, proxy *httpx.Client, logger *zap.Logger) *ShortLinkHandler {
	return &ShortLinkHandler{links: links, proxy: proxy, logger: logger}
}

// CreateShortLinkRequest is the POST /links payload.
type CreateShortLinkRequest struct {
	Slug      string `json:"slug,omitempty" validate:"omitempty,min=3,max=32,alphanum"`
	TargetURL string `json:"targetUrl" validate:"required,url"`
	Kind      string `json:"kind" validate:"required,oneof=redirect proxy"`
}

// ShortLinkResponse is the public view of a short link document.
type ShortLinkResponse struct {
	ID        string    `json:"id"`
	Slug      string    `json:"slug"`
	TargetURL string    `json:"targetUrl"`
	Kind      string    `json:"kind"`
	Hits      int64     `json:"hits"`
	CreatedAt time.Time `json:"createdAt"`
}

func toShortLinkResponse(l *domain.ShortLink) *ShortLinkResponse {
	return &ShortLinkResponse{
		ID:        l.ID.Hex(),
		Slug:      l.Slug,
		TargetURL: l.TargetURL,
		Kind:      string(l.Kind),
		Hits:      l.Hits,
		CreatedAt: l.CreatedAt,
	}
}

// Create handles POST /api/v1/links
func (h *ShortLinkHandler) Create(c *chain.Context) error {
	userCtx, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}

	var req CreateShortLinkRequest
	if err := c.DecodeJSON(&req); err != nil {
		return errors.NewValidationError("invalid request body")
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return errors.NewValidationError(err.Error())
	}

	link, err := h.links.Create(c.Request.Context(), userCtx.UserID, services.CreateShortLinkInput{
		Slug:      req.Slug,
		TargetURL: req.TargetURL,
		Kind:      domain.ShortLinkKind(req.Kind),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toShortLinkResponse(link))
}

// ListMine handles GET /api/v1/links
func (h *ShortLinkHandler) ListMine(c *chain.Context) error {
	userCtx, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}
	links, err := h.links.ListMine(c.Request.Context(), userCtx.UserID)
	if err != nil {
		return err
	}
	resp := make([]*ShortLinkResponse, 0, len(links))
	for i := range links {
		resp = append(resp, toShortLinkResponse(&links[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

// Delete handles DELETE /api/v1/links/{slug}
func (h *ShortLinkHandler) Delete(c *chain.Context) error {
	userCtx, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}
	if err := h.links.Delete(c.Request.Context(), userCtx.UserID, c.Param("slug")); err != nil {
		return err
	}
	return c.NoContent()
}

// Resolve handles GET /s/{slug}. Redirect links answer with a 302;
// proxy links fetch the target as JSON and relay the body.
func (h *ShortLinkHandler) Resolve(c *chain.Context) error {
	link, err := h.links.Resolve(c.Request.Context(), c.Param("slug"))
	if err != nil {
		return err
	}

	switch link.Kind {
	case domain.ShortLinkProxy:
		var payload json.RawMessage
		if err := h.proxy.GetJSON(c.Request.Context(), link.TargetURL, &payload); err != nil {
			h.logger.Warn("proxy fetch failed",
				zap.String("slug", link.Slug),
				zap.Error(err),
			)
			return err
		}
		return c.JSON(http.StatusOK, payload)
	default:
		http.Redirect(c.Writer, c.Request, link.TargetURL, http.StatusFound)
		return nil
	}
}
