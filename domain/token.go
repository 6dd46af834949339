package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthToken is the server-side record of an issued session token.
// TokenID matches the jti claim of the JWT; deleting the document
// revokes the session regardless of the JWT's own expiry.
type AuthToken struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TokenID    string             `bson:"tokenId" json:"tokenId"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	IssuedAt   time.Time          `bson:"issuedAt" json:"issuedAt"`
	ExpiresAt  time.Time          `bson:"expiresAt" json:"expiresAt"`
	LastSeenAt time.Time          `bson:"lastSeenAt" json:"lastSeenAt"`
}

// RequestLogEntry records one handled HTTP request.
type RequestLogEntry struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Method     string              `bson:"method" json:"method"`
	Path       string              `bson:"path" json:"path"`
	Status     int                 `bson:"status" json:"status"`
	DurationMs int64               `bson:"durationMs" json:"durationMs"`
	IP         string              `bson:"ip" json:"ip"`
	UserID     *primitive.ObjectID `bson:"userId,omitempty" json:"userId,omitempty"`
	RequestID  string              `bson:"requestId,omitempty" json:"requestId,omitempty"`
	CreatedAt  time.Time           `bson:"createdAt" json:"createdAt"`
}
