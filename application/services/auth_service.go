// Package services implements the application operations on top of
// the persistence ports.
package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"memeboard-backend/application/ports"
	"memeboard-backend/domain"
	"memeboard-backend/pkg/auth"
	"memeboard-backend/pkg/errors"
)

// AuthService handles registration, login and session management.
type AuthService struct {
	users  ports.UserRepository
	tokens ports.TokenRepository
	jwt    *auth.JWTService
	logger *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	users ports.UserRepository,
	tokens ports.TokenRepository,
	jwt *auth.JWTService,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		jwt:    jwt,
		logger: logger,
	}
}

// Register creates a new user with a bcrypt-hashed password.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	if existing, err := s.users.GetByUsername(ctx, username); err == nil && existing != nil {
		return nil, errors.NewConflictError("username already taken")
	} else if err != nil && !errors.IsNotFound(err) {
		return nil, err
	}
	if existing, err := s.users.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, errors.NewConflictError("email already registered")
	} else if err != nil && !errors.IsNotFound(err) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.NewInternalError("could not hash password").WithCause(err)
	}

	now := time.Now()
	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Friends:      []primitive.ObjectID{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	id, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	user.ID = id

	s.logger.Info("user registered",
		zap.String("userID", id.Hex()),
		zap.String("username", username),
	)

	return user, nil
}

// LoginResult carries the signed token and its server-side record.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// Login verifies credentials, signs a JWT, and stores its token
// document so the session can be revoked later.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.IsNotFound(err) {
			// Same response as a bad password so usernames cannot be
			// probed.
			return nil, errors.NewUnauthorizedError("invalid credentials")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errors.NewUnauthorizedError("invalid credentials")
	}

	signed, tokenID, expiresAt, err := s.jwt.GenerateToken(user.ID.Hex(), user.Email)
	if err != nil {
		return nil, errors.NewInternalError("could not sign token").WithCause(err)
	}

	now := time.Now()
	if err := s.tokens.Store(ctx, &domain.AuthToken{
		TokenID:    tokenID,
		UserID:     user.ID,
		IssuedAt:   now,
		ExpiresAt:  expiresAt,
		LastSeenAt: now,
	}); err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", zap.String("userID", user.ID.Hex()))

	return &LoginResult{Token: signed, ExpiresAt: expiresAt, User: user}, nil
}

// Logout revokes the session's token document.
func (s *AuthService) Logout(ctx context.Context, tokenID string) error {
	return s.tokens.Revoke(ctx, tokenID)
}

// LogoutAll revokes every session the user holds, including the one
// making the request.
func (s *AuthService) LogoutAll(ctx context.Context, userID string) error {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return errors.NewInvalidIDError("user")
	}
	if err := s.tokens.RevokeAllForUser(ctx, id); err != nil {
		return err
	}
	s.logger.Info("all sessions revoked", zap.String("userID", userID))
	return nil
}

// Authenticate validates a bearer token: signature and claims first,
// then the server-side token lookup for revocation.
func (s *AuthService) Authenticate(ctx context.Context, bearer string) (*auth.UserContext, error) {
	claims, err := s.jwt.ValidateToken(bearer)
	if err != nil {
		switch err {
		case auth.ErrExpiredToken:
			return nil, errors.NewUnauthorizedError("token has expired")
		case auth.ErrMissingToken:
			return nil, errors.NewUnauthorizedError("missing authentication token")
		default:
			return nil, errors.NewUnauthorizedError("invalid token")
		}
	}

	record, err := s.tokens.Lookup(ctx, claims.TokenID())
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NewUnauthorizedError("token has been revoked")
		}
		return nil, err
	}
	if time.Now().After(record.ExpiresAt) {
		return nil, errors.NewUnauthorizedError("token has expired")
	}

	return &auth.UserContext{
		UserID:  claims.UserID,
		Email:   claims.Email,
		TokenID: claims.TokenID(),
	}, nil
}
