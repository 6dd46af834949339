package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"memeboard-backend/application/ports"
	"memeboard-backend/domain"
	"memeboard-backend/pkg/errors"
)

// ShortLinkRepository is the Mongo implementation of
// ports.ShortLinkRepository.
type ShortLinkRepository struct {
	coll *mongo.Collection
}

// NewShortLinkRepository creates a new short link repository
func NewShortLinkRepository(db *mongo.Database) *ShortLinkRepository {
	return &ShortLinkRepository{coll: db.Collection(shortLinksCollection)}
}

var _ ports.ShortLinkRepository = (*ShortLinkRepository)(nil)

// Create inserts a link. The unique slug index turns races between
// identical slugs into conflicts the service retries on.
func (r *ShortLinkRepository) Create(ctx context.Context, link *domain.ShortLink) (primitive.ObjectID, error) {
	res, err := r.coll.InsertOne(ctx, link)
	if err != nil {
		return primitive.NilObjectID, mapError("insert short link", "slug", err)
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

// Resolve finds the slug and counts the hit in one atomic update.
func (r *ShortLinkRepository) Resolve(ctx context.Context, slug string) (*domain.ShortLink, error) {
	var link domain.ShortLink
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"slug": slug},
		bson.M{"$inc": bson.M{"hits": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&link)
	if err != nil {
		return nil, mapError("resolve short link", "short link", err)
	}
	return &link, nil
}

func (r *ShortLinkRepository) GetBySlug(ctx context.Context, slug string) (*domain.ShortLink, error) {
	var link domain.ShortLink
	if err := r.coll.FindOne(ctx, bson.M{"slug": slug}).Decode(&link); err != nil {
		return nil, mapError("find short link", "short link", err)
	}
	return &link, nil
}

func (r *ShortLinkRepository) ListByOwner(ctx context.Context, owner primitive.ObjectID) ([]domain.ShortLink, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"createdBy": owner}, opts)
	if err != nil {
		return nil, mapError("list short links", "short link", err)
	}
	defer cursor.Close(ctx)

	links := []domain.ShortLink{}
	if err := cursor.All(ctx, &links); err != nil {
		return nil, mapError("decode short links", "short link", err)
	}
	return links, nil
}

// Delete removes a slug owned by the caller. A slug owned by someone
// else looks the same as a missing one.
func (r *ShortLinkRepository) Delete(ctx context.Context, slug string, owner primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"slug": slug, "createdBy": owner})
	if err != nil {
		return mapError("delete short link", "short link", err)
	}
	if res.DeletedCount == 0 {
		return errors.NewNotFoundError("short link")
	}
	return nil
}
