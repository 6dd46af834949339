// Package domain holds the persistent records of the application and
// the business rules that constrain them.
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account document. Friendships are symmetric: both users
// carry the other's id in their friends array.
type User struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Username     string               `bson:"username" json:"username"`
	Email        string               `bson:"email" json:"email"`
	PasswordHash string               `bson:"passwordHash" json:"-"`
	Bio          string               `bson:"bio,omitempty" json:"bio,omitempty"`
	Friends      []primitive.ObjectID `bson:"friends" json:"friends"`
	CreatedAt    time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// IsFriendsWith reports whether other is already in the friends list.
func (u *User) IsFriendsWith(other primitive.ObjectID) bool {
	for _, id := range u.Friends {
		if id == other {
			return true
		}
	}
	return false
}
