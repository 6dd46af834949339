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
	"memeboard-backend/pkg/common"
	"memeboard-backend/pkg/errors"
)

// UserRepository is the Mongo implementation of ports.UserRepository.
type UserRepository struct {
	coll *mongo.Collection
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

var _ ports.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	res, err := r.coll.InsertOne(ctx, user)
	if err != nil {
		return primitive.NilObjectID, mapError("insert user", "user", err)
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) List(ctx context.Context, p common.PaginationParams) ([]domain.User, int, error) {
	total, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, mapError("count users", "user", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "username", Value: 1}}).
		SetSkip(int64(p.CalculateOffset())).
		SetLimit(int64(p.PageSize))
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, mapError("list users", "user", err)
	}
	defer cursor.Close(ctx)

	users := []domain.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, 0, mapError("decode users", "user", err)
	}
	return users, int(total), nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, bio string) error {
	res, err := r.coll.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"bio":       bio,
		"updatedAt": time.Now(),
	}})
	if err != nil {
		return mapError("update profile", "user", err)
	}
	if res.MatchedCount == 0 {
		return errors.NewNotFoundError("user")
	}
	return nil
}

// AddFriend writes both sides of the friendship. $addToSet keeps the
// operation idempotent under retries.
func (r *UserRepository) AddFriend(ctx context.Context, a, b primitive.ObjectID) error {
	return r.updateBothSides(ctx, a, b, "$addToSet")
}

func (r *UserRepository) RemoveFriend(ctx context.Context, a, b primitive.ObjectID) error {
	return r.updateBothSides(ctx, a, b, "$pull")
}

func (r *UserRepository) updateBothSides(ctx context.Context, a, b primitive.ObjectID, op string) error {
	res, err := r.coll.UpdateByID(ctx, a, bson.M{op: bson.M{"friends": b}})
	if err != nil {
		return mapError("update friends", "user", err)
	}
	if res.MatchedCount == 0 {
		return errors.NewNotFoundError("user")
	}
	res, err = r.coll.UpdateByID(ctx, b, bson.M{op: bson.M{"friends": a}})
	if err != nil {
		return mapError("update friends", "user", err)
	}
	if res.MatchedCount == 0 {
		return errors.NewNotFoundError("user")
	}
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var user domain.User
	if err := r.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, mapError("find user", "user", err)
	}
	return &user, nil
}
