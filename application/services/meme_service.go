package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"memeboard-backend/application/ports"
	"memeboard-backend/domain"
	"memeboard-backend/pkg/common"
	"memeboard-backend/pkg/errors"
)

// MemeService handles posting, reading, deleting and liking memes.
type MemeService struct {
	memes  ports.MemeRepository
	users  ports.UserRepository
	logger *zap.Logger
}

// NewMemeService creates a new meme service
func NewMemeService(memes ports.MemeRepository, users ports.UserRepository, logger *zap.Logger) *MemeService {
	return &MemeService{memes: memes, users: users, logger: logger}
}

// CreateMemeInput carries the validated request fields.
type CreateMemeInput struct {
	Caption  string
	ImageURL string
	Private  bool
	Receiver string // hex id, optional
	ReplyTo  string // hex id, optional
}

// Create validates the receiver/private/replyTo matrix and stores the
// meme.
func (s *MemeService) Create(ctx context.Context, actorID string, in CreateMemeInput) (*domain.Meme, error) {
	owner, err := primitive.ObjectIDFromHex(actorID)
	if err != nil {
		return nil, errors.NewInvalidIDError("user")
	}

	meme := &domain.Meme{
		Owner:     owner,
		Caption:   in.Caption,
		ImageURL:  in.ImageURL,
		Private:   in.Private,
		Likes:     []primitive.ObjectID{},
		CreatedAt: time.Now(),
	}

	if in.Receiver != "" {
		receiver, err := primitive.ObjectIDFromHex(in.Receiver)
		if err != nil {
			return nil, errors.NewInvalidIDError("receiver")
		}
		// The receiver must exist; a dangling reference would make the
		// meme invisible to everyone but the owner.
		if _, err := s.users.GetByID(ctx, receiver); err != nil {
			return nil, err
		}
		meme.Receiver = &receiver
	}

	var parent *domain.Meme
	if in.ReplyTo != "" {
		parentID, err := primitive.ObjectIDFromHex(in.ReplyTo)
		if err != nil {
			return nil, errors.NewInvalidIDError("meme")
		}
		meme.ReplyTo = &parentID
		parent, err = s.memes.GetByID(ctx, parentID)
		if err != nil && !errors.IsNotFound(err) {
			return nil, err
		}
		// A reply inherits the parent's privacy.
		if parent != nil && parent.Private {
			meme.Private = true
		}
	}

	if err := domain.ValidateMemePost(meme, parent); err != nil {
		return nil, err
	}

	id, err := s.memes.Create(ctx, meme)
	if err != nil {
		return nil, err
	}
	meme.ID = id

	s.logger.Info("meme created",
		zap.String("memeID", id.Hex()),
		zap.String("owner", owner.Hex()),
		zap.Bool("private", meme.Private),
	)
	return meme, nil
}

// Get returns a meme if the actor may see it.
func (s *MemeService) Get(ctx context.Context, actorID, memeID string) (*domain.Meme, error) {
	actor, meme, err := s.load(ctx, actorID, memeID)
	if err != nil {
		return nil, err
	}
	if !meme.VisibleTo(actor) {
		return nil, errors.NewForbiddenError("meme is private")
	}
	return meme, nil
}

// Feed returns the memes visible to the actor, newest first.
func (s *MemeService) Feed(ctx context.Context, actorID string, p common.PaginationParams) ([]domain.Meme, int, error) {
	actor, err := primitive.ObjectIDFromHex(actorID)
	if err != nil {
		return nil, 0, errors.NewInvalidIDError("user")
	}
	return s.memes.ListVisible(ctx, actor, p)
}

// Delete removes a meme; only the owner may do so.
func (s *MemeService) Delete(ctx context.Context, actorID, memeID string) error {
	actor, meme, err := s.load(ctx, actorID, memeID)
	if err != nil {
		return err
	}
	if meme.Owner != actor {
		return errors.NewForbiddenError("only the owner can delete a meme")
	}
	return s.memes.Delete(ctx, meme.ID)
}

// Like records the actor's like. Liking twice is a no-op.
func (s *MemeService) Like(ctx context.Context, actorID, memeID string) error {
	actor, meme, err := s.load(ctx, actorID, memeID)
	if err != nil {
		return err
	}
	if err := domain.ValidateLike(meme, actor); err != nil {
		return err
	}
	return s.memes.AddLike(ctx, meme.ID, actor)
}

// Unlike removes the actor's like. Removing an absent like is a no-op.
func (s *MemeService) Unlike(ctx context.Context, actorID, memeID string) error {
	actor, meme, err := s.load(ctx, actorID, memeID)
	if err != nil {
		return err
	}
	return s.memes.RemoveLike(ctx, meme.ID, actor)
}

func (s *MemeService) load(ctx context.Context, actorID, memeID string) (primitive.ObjectID, *domain.Meme, error) {
	actor, err := primitive.ObjectIDFromHex(actorID)
	if err != nil {
		return primitive.NilObjectID, nil, errors.NewInvalidIDError("user")
	}
	oid, err := primitive.ObjectIDFromHex(memeID)
	if err != nil {
		return primitive.NilObjectID, nil, errors.NewInvalidIDError("meme")
	}
	meme, err := s.memes.GetByID(ctx, oid)
	if err != nil {
		return primitive.NilObjectID, nil, err
	}
	return actor, meme, nil
}
