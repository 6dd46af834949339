package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"memeboard-backend/application/ports"
	"memeboard-backend/domain"
	"memeboard-backend/pkg/common"
	"memeboard-backend/pkg/errors"
)

// UserService handles profile and friendship operations.
type UserService struct {
	users  ports.UserRepository
	logger *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(users ports.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

// Get returns a user by hex id.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errors.NewInvalidIDError("user")
	}
	return s.users.GetByID(ctx, oid)
}

// List returns a page of users.
func (s *UserService) List(ctx context.Context, p common.PaginationParams) ([]domain.User, int, error) {
	return s.users.List(ctx, p)
}

// UpdateProfile updates the user's own profile fields.
func (s *UserService) UpdateProfile(ctx context.Context, actorID, targetID string, bio string) (*domain.User, error) {
	if actorID != targetID {
		return nil, errors.NewForbiddenError("users can only update their own profile")
	}
	oid, err := primitive.ObjectIDFromHex(targetID)
	if err != nil {
		return nil, errors.NewInvalidIDError("user")
	}
	if err := s.users.UpdateProfile(ctx, oid, bio); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, oid)
}

// Friend creates a symmetric friendship between actor and target.
func (s *UserService) Friend(ctx context.Context, actorID, targetID string) error {
	actor, target, err := s.loadPair(ctx, actorID, targetID)
	if err != nil {
		return err
	}

	if err := domain.ValidateFriendRequest(actor, target); err != nil {
		return err
	}

	if err := s.users.AddFriend(ctx, actor.ID, target.ID); err != nil {
		return err
	}

	s.logger.Info("friendship created",
		zap.String("userID", actor.ID.Hex()),
		zap.String("friendID", target.ID.Hex()),
	)
	return nil
}

// Unfriend removes a friendship from both sides.
func (s *UserService) Unfriend(ctx context.Context, actorID, targetID string) error {
	actor, target, err := s.loadPair(ctx, actorID, targetID)
	if err != nil {
		return err
	}

	if actor.ID == target.ID {
		return errors.NewValidationError("users cannot unfriend themselves")
	}
	if !actor.IsFriendsWith(target.ID) {
		return errors.NewConflictError("users are not friends")
	}

	return s.users.RemoveFriend(ctx, actor.ID, target.ID)
}

func (s *UserService) loadPair(ctx context.Context, actorID, targetID string) (*domain.User, *domain.User, error) {
	actorOID, err := primitive.ObjectIDFromHex(actorID)
	if err != nil {
		return nil, nil, errors.NewInvalidIDError("user")
	}
	targetOID, err := primitive.ObjectIDFromHex(targetID)
	if err != nil {
		return nil, nil, errors.NewInvalidIDError("user")
	}

	actor, err := s.users.GetByID(ctx, actorOID)
	if err != nil {
		return nil, nil, err
	}
	target, err := s.users.GetByID(ctx, targetOID)
	if err != nil {
		return nil, nil, err
	}
	return actor, target, nil
}
