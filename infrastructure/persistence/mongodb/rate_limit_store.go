package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"memeboard-backend/application/ports"
	"memeboard-backend/pkg/auth"
)

// RateLimitStore keeps one document per counted request so several
// instances share the same sliding window. The TTL index on "at"
// discards entries once they age out of every window.
type RateLimitStore struct {
	coll *mongo.Collection
}

// NewRateLimitStore creates a new rate limit store
func NewRateLimitStore(db *mongo.Database) *RateLimitStore {
	return &RateLimitStore{coll: db.Collection(rateLimitsCollection)}
}

var _ ports.RateLimitStore = (*RateLimitStore)(nil)

func (s *RateLimitStore) CountSince(ctx context.Context, key string, since time.Time) (int64, error) {
	count, err := s.coll.CountDocuments(ctx, bson.M{
		"key": key,
		"at":  bson.M{"$gte": since},
	})
	if err != nil {
		return 0, mapError("count rate limit entries", "rate limit", err)
	}
	return count, nil
}

func (s *RateLimitStore) Record(ctx context.Context, key string, at time.Time) error {
	if _, err := s.coll.InsertOne(ctx, bson.M{"key": key, "at": at}); err != nil {
		return mapError("record rate limit entry", "rate limit", err)
	}
	return nil
}

func (s *RateLimitStore) Purge(ctx context.Context, key string) error {
	if _, err := s.coll.DeleteMany(ctx, bson.M{"key": key}); err != nil {
		return mapError("purge rate limit entries", "rate limit", err)
	}
	return nil
}

// DistributedRateLimiter adapts the store to the auth.RateLimiter
// interface: count first, record only when allowed.
type DistributedRateLimiter struct {
	store      ports.RateLimitStore
	limit      int64
	windowSize time.Duration
}

// NewDistributedRateLimiter creates a new distributed rate limiter
func NewDistributedRateLimiter(store ports.RateLimitStore, limit int, windowSize time.Duration) *DistributedRateLimiter {
	return &DistributedRateLimiter{store: store, limit: int64(limit), windowSize: windowSize}
}

var _ auth.RateLimiter = (*DistributedRateLimiter)(nil)

func (l *DistributedRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	now := time.Now()
	count, err := l.store.CountSince(ctx, key, now.Add(-l.windowSize))
	if err != nil {
		return false, err
	}
	if count >= l.limit {
		return false, nil
	}
	if err := l.store.Record(ctx, key, now); err != nil {
		return false, err
	}
	return true, nil
}

func (l *DistributedRateLimiter) Reset(ctx context.Context, key string) error {
	return l.store.Purge(ctx, key)
}
