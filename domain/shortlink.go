package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ShortLinkKind selects how a short-id resolves.
type ShortLinkKind string

const (
	// ShortLinkRedirect issues a 302 to the target URL.
	ShortLinkRedirect ShortLinkKind = "redirect"
	// ShortLinkProxy fetches the target as JSON and relays the body,
	// used to front package registries.
	ShortLinkProxy ShortLinkKind = "proxy"
)

// ShortLink is a short-id document for the URL-shortener side feature.
type ShortLink struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Slug      string             `bson:"slug" json:"slug"`
	TargetURL string             `bson:"targetUrl" json:"targetUrl"`
	Kind      ShortLinkKind      `bson:"kind" json:"kind"`
	CreatedBy primitive.ObjectID `bson:"createdBy" json:"createdBy"`
	Hits      int64              `bson:"hits" json:"hits"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
