package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"memeboard-backend/application/ports"
	"memeboard-backend/domain"
)

// RequestLogRepository appends request log documents. The TTL index on
// createdAt keeps the collection bounded.
type RequestLogRepository struct {
	coll *mongo.Collection
}

// NewRequestLogRepository creates a new request log repository
func NewRequestLogRepository(db *mongo.Database) *RequestLogRepository {
	return &RequestLogRepository{coll: db.Collection(requestLogCollection)}
}

var _ ports.RequestLogRepository = (*RequestLogRepository)(nil)

func (r *RequestLogRepository) Append(ctx context.Context, entry *domain.RequestLogEntry) error {
	if _, err := r.coll.InsertOne(ctx, entry); err != nil {
		return mapError("insert request log", "request log", err)
	}
	return nil
}
