package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Meme is a post document. Receiver, Private and ReplyTo interact:
// see ValidateMemePost for the allowed combinations.
type Meme struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Owner     primitive.ObjectID   `bson:"owner" json:"owner"`
	Receiver  *primitive.ObjectID  `bson:"receiver,omitempty" json:"receiver,omitempty"`
	Caption   string               `bson:"caption" json:"caption"`
	ImageURL  string               `bson:"imageUrl" json:"imageUrl"`
	Private   bool                 `bson:"private" json:"private"`
	ReplyTo   *primitive.ObjectID  `bson:"replyTo,omitempty" json:"replyTo,omitempty"`
	Likes     []primitive.ObjectID `bson:"likes" json:"likes"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
}

// VisibleTo reports whether the meme may be read by the given user.
// Public memes are visible to everyone; private ones only to the
// owner and the receiver.
func (m *Meme) VisibleTo(userID primitive.ObjectID) bool {
	if !m.Private {
		return true
	}
	if m.Owner == userID {
		return true
	}
	return m.Receiver != nil && *m.Receiver == userID
}

// LikedBy reports whether the user already likes the meme.
func (m *Meme) LikedBy(userID primitive.ObjectID) bool {
	for _, id := range m.Likes {
		if id == userID {
			return true
		}
	}
	return false
}
