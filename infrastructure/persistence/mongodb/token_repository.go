package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"memeboard-backend/application/ports"
	"memeboard-backend/domain"
	"memeboard-backend/pkg/errors"
)

// TokenRepository is the Mongo implementation of ports.TokenRepository.
// One document per issued JWT; deleting the document revokes the
// session.
type TokenRepository struct {
	coll *mongo.Collection
}

// NewTokenRepository creates a new token repository
func NewTokenRepository(db *mongo.Database) *TokenRepository {
	return &TokenRepository{coll: db.Collection(tokensCollection)}
}

var _ ports.TokenRepository = (*TokenRepository)(nil)

func (r *TokenRepository) Store(ctx context.Context, token *domain.AuthToken) error {
	if _, err := r.coll.InsertOne(ctx, token); err != nil {
		return mapError("insert token", "token", err)
	}
	return nil
}

// Lookup finds a live jti and stamps lastSeenAt in the same round
// trip.
func (r *TokenRepository) Lookup(ctx context.Context, tokenID string) (*domain.AuthToken, error) {
	var token domain.AuthToken
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"tokenId": tokenID},
		bson.M{"$set": bson.M{"lastSeenAt": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&token)
	if err != nil {
		return nil, mapError("lookup token", "token", err)
	}
	return &token, nil
}

func (r *TokenRepository) Revoke(ctx context.Context, tokenID string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"tokenId": tokenID})
	if err != nil {
		return mapError("revoke token", "token", err)
	}
	if res.DeletedCount == 0 {
		return errors.NewNotFoundError("token")
	}
	return nil
}

func (r *TokenRepository) RevokeAllForUser(ctx context.Context, userID primitive.ObjectID) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{"userId": userID}); err != nil {
		return mapError("revoke tokens", "token", err)
	}
	return nil
}
