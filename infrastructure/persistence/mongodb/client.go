// Package mongodb implements the persistence ports on top of the
// official MongoDB driver.
package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"memeboard-backend/infrastructure/config"
	"memeboard-backend/pkg/errors"
)

// Collection names used across the repositories.
const (
	usersCollection      = "users"
	memesCollection      = "memes"
	tokensCollection     = "tokens"
	shortLinksCollection = "shortlinks"
	requestLogCollection = "requestlog"
	rateLimitsCollection = "ratelimits"
)

// Connect opens a client, verifies the connection with a ping, and
// returns the configured database handle.
func Connect(ctx context.Context, cfg *config.Config) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.MongoTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, nil, errors.NewDatabaseError("connect", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, errors.NewDatabaseError("ping", err)
	}

	return client, client.Database(cfg.MongoDatabase), nil
}

// mapError translates driver errors into the application's error
// types. Duplicate keys become conflicts so unique indexes double as
// business constraints.
func mapError(op, resource string, err error) error {
	if err == nil {
		return nil
	}
	if err == mongo.ErrNoDocuments {
		return errors.NewNotFoundError(resource)
	}
	if mongo.IsDuplicateKeyError(err) {
		return errors.NewConflictError(resource + " already exists")
	}
	return errors.NewDatabaseError(op, err)
}
