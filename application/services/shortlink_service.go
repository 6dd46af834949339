package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"memeboard-backend/application/ports"
	"memeboard-backend/domain"
	"memeboard-backend/pkg/errors"
	"memeboard-backend/pkg/utils"
)

const (
	slugLength        = 7
	slugCreateRetries = 3
)

// ShortLinkService manages short-ids for the URL-shortener and
// package-proxy side feature.
type ShortLinkService struct {
	links  ports.ShortLinkRepository
	logger *zap.Logger
}

// NewShortLinkService creates a new short link service
func NewShortLinkService(links ports.ShortLinkRepository, logger *zap.Logger) *ShortLinkService {
	return &ShortLinkService{links: links, logger: logger}
}

// CreateShortLinkInput carries the validated request fields.
type CreateShortLinkInput struct {
	Slug      string // optional, generated when empty
	TargetURL string
	Kind      domain.ShortLinkKind
}

// Create stores a new short link. When no slug is requested a random
// one is generated, retrying on the rare collision.
func (s *ShortLinkService) Create(ctx context.Context, actorID string, in CreateShortLinkInput) (*domain.ShortLink, error) {
	owner, err := primitive.ObjectIDFromHex(actorID)
	if err != nil {
		return nil, errors.NewInvalidIDError("user")
	}

	if in.Kind != domain.ShortLinkRedirect && in.Kind != domain.ShortLinkProxy {
		return nil, errors.NewValidationError("kind must be redirect or proxy")
	}

	link := &domain.ShortLink{
		Slug:      in.Slug,
		TargetURL: in.TargetURL,
		Kind:      in.Kind,
		CreatedBy: owner,
		CreatedAt: time.Now(),
	}

	if link.Slug != "" {
		// Pre-check requested slugs for a friendlier conflict message;
		// the unique index still catches races.
		if existing, err := s.links.GetBySlug(ctx, link.Slug); err == nil && existing != nil {
			return nil, errors.NewConflictError("slug already taken")
		} else if err != nil && !errors.IsNotFound(err) {
			return nil, err
		}
		id, err := s.links.Create(ctx, link)
		if err != nil {
			return nil, err
		}
		link.ID = id
		return link, nil
	}

	for attempt := 0; attempt < slugCreateRetries; attempt++ {
		link.Slug = utils.GenerateSlug(slugLength)
		id, err := s.links.Create(ctx, link)
		if err == nil {
			link.ID = id
			s.logger.Info("short link created",
				zap.String("slug", link.Slug),
				zap.String("kind", string(link.Kind)),
			)
			return link, nil
		}
		if !errors.IsConflict(err) {
			return nil, err
		}
	}
	return nil, errors.NewInternalError("could not allocate a unique slug")
}

// Resolve looks a slug up and counts the hit.
func (s *ShortLinkService) Resolve(ctx context.Context, slug string) (*domain.ShortLink, error) {
	return s.links.Resolve(ctx, slug)
}

// ListMine returns the actor's links.
func (s *ShortLinkService) ListMine(ctx context.Context, actorID string) ([]domain.ShortLink, error) {
	owner, err := primitive.ObjectIDFromHex(actorID)
	if err != nil {
		return nil, errors.NewInvalidIDError("user")
	}
	return s.links.ListByOwner(ctx, owner)
}

// Delete removes one of the actor's links.
func (s *ShortLinkService) Delete(ctx context.Context, actorID, slug string) error {
	owner, err := primitive.ObjectIDFromHex(actorID)
	if err != nil {
		return errors.NewInvalidIDError("user")
	}
	return s.links.Delete(ctx, slug, owner)
}
