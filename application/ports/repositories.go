// Package ports defines the persistence interfaces the application
// layer depends on. The Mongo implementations live under
// infrastructure/persistence/mongodb.
package ports

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"memeboard-backend/domain"
	"memeboard-backend/pkg/common"
)

// UserRepository manages user documents.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, p common.PaginationParams) ([]domain.User, int, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, bio string) error
	// AddFriend and RemoveFriend update both sides of the relation.
	AddFriend(ctx context.Context, a, b primitive.ObjectID) error
	RemoveFriend(ctx context.Context, a, b primitive.ObjectID) error
}

// MemeRepository manages meme documents.
type MemeRepository interface {
	Create(ctx context.Context, meme *domain.Meme) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Meme, error)
	// ListVisible returns the feed: public memes plus private memes the
	// viewer owns or received, newest first.
	ListVisible(ctx context.Context, viewer primitive.ObjectID, p common.PaginationParams) ([]domain.Meme, int, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	AddLike(ctx context.Context, memeID, userID primitive.ObjectID) error
	RemoveLike(ctx context.Context, memeID, userID primitive.ObjectID) error
}

// TokenRepository manages issued session tokens.
type TokenRepository interface {
	Store(ctx context.Context, token *domain.AuthToken) error
	// Lookup returns the token document for a jti, updating lastSeenAt.
	Lookup(ctx context.Context, tokenID string) (*domain.AuthToken, error)
	Revoke(ctx context.Context, tokenID string) error
	RevokeAllForUser(ctx context.Context, userID primitive.ObjectID) error
}

// ShortLinkRepository manages short-id documents.
type ShortLinkRepository interface {
	Create(ctx context.Context, link *domain.ShortLink) (primitive.ObjectID, error)
	// Resolve finds a slug and increments its hit counter atomically.
	Resolve(ctx context.Context, slug string) (*domain.ShortLink, error)
	GetBySlug(ctx context.Context, slug string) (*domain.ShortLink, error)
	ListByOwner(ctx context.Context, owner primitive.ObjectID) ([]domain.ShortLink, error)
	Delete(ctx context.Context, slug string, owner primitive.ObjectID) error
}

// RequestLogRepository appends request log entries.
type RequestLogRepository interface {
	Append(ctx context.Context, entry *domain.RequestLogEntry) error
}

// RateLimitStore counts requests per key inside a sliding window.
type RateLimitStore interface {
	CountSince(ctx context.Context, key string, since time.Time) (int64, error)
	Record(ctx context.Context, key string, at time.Time) error
	Purge(ctx context.Context, key string) error
}
