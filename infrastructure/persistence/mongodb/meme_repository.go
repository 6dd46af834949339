package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"memeboard-backend/application/ports"
	"memeboard-backend/domain"
	"memeboard-backend/pkg/common"
	"memeboard-backend/pkg/errors"
)

// MemeRepository is the Mongo implementation of ports.MemeRepository.
type MemeRepository struct {
	coll *mongo.Collection
}

// NewMemeRepository creates a new meme repository
func NewMemeRepository(db *mongo.Database) *MemeRepository {
	return &MemeRepository{coll: db.Collection(memesCollection)}
}

var _ ports.MemeRepository = (*MemeRepository)(nil)

func (r *MemeRepository) Create(ctx context.Context, meme *domain.Meme) (primitive.ObjectID, error) {
	res, err := r.coll.InsertOne(ctx, meme)
	if err != nil {
		return primitive.NilObjectID, mapError("insert meme", "meme", err)
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (r *MemeRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Meme, error) {
	var meme domain.Meme
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&meme); err != nil {
		return nil, mapError("find meme", "meme", err)
	}
	return &meme, nil
}

// ListVisible mirrors domain.Meme.VisibleTo as a query filter: public
// memes plus private ones the viewer owns or received.
func (r *MemeRepository) ListVisible(ctx context.Context, viewer primitive.ObjectID, p common.PaginationParams) ([]domain.Meme, int, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"private": false},
		bson.M{"owner": viewer},
		bson.M{"receiver": viewer},
	}}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, mapError("count memes", "meme", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(p.CalculateOffset())).
		SetLimit(int64(p.PageSize))
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, mapError("list memes", "meme", err)
	}
	defer cursor.Close(ctx)

	memes := []domain.Meme{}
	if err := cursor.All(ctx, &memes); err != nil {
		return nil, 0, mapError("decode memes", "meme", err)
	}
	return memes, int(total), nil
}

func (r *MemeRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return mapError("delete meme", "meme", err)
	}
	if res.DeletedCount == 0 {
		return errors.NewNotFoundError("meme")
	}
	return nil
}

func (r *MemeRepository) AddLike(ctx context.Context, memeID, userID primitive.ObjectID) error {
	return r.updateLikes(ctx, memeID, bson.M{"$addToSet": bson.M{"likes": userID}})
}

func (r *MemeRepository) RemoveLike(ctx context.Context, memeID, userID primitive.ObjectID) error {
	return r.updateLikes(ctx, memeID, bson.M{"$pull": bson.M{"likes": userID}})
}

func (r *MemeRepository) updateLikes(ctx context.Context, memeID primitive.ObjectID, update bson.M) error {
	res, err := r.coll.UpdateByID(ctx, memeID, update)
	if err != nil {
		return mapError("update likes", "meme", err)
	}
	if res.MatchedCount == 0 {
		return errors.NewNotFoundError("meme")
	}
	return nil
}
