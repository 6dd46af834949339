package domain

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"memeboard-backend/pkg/errors"
)

// ValidateFriendRequest enforces the friendship rules: a user cannot
// friend themselves, and an existing friendship cannot be repeated.
func ValidateFriendRequest(user *User, target *User) error {
	if user.ID == target.ID {
		return errors.NewValidationError("users cannot friend themselves")
	}
	if user.IsFriendsWith(target.ID) {
		return errors.NewConflictError("users are already friends")
	}
	return nil
}

// ValidateMemePost enforces the owner/receiver/private/replyTo matrix:
//
//   - a meme may not be addressed to its own author;
//   - a private meme must have a receiver, since privacy only makes
//     sense for a directed post;
//   - a reply may not set a receiver of its own (it lives in the
//     parent's thread), the parent must be visible to the author, and
//     a reply to a private meme must itself be private.
//
// parent is nil unless ReplyTo is set; the caller resolves it.
func ValidateMemePost(meme *Meme, parent *Meme) error {
	if meme.Receiver != nil && *meme.Receiver == meme.Owner {
		return errors.NewValidationError("memes cannot be addressed to their author")
	}
	if meme.Private && meme.Receiver == nil && meme.ReplyTo == nil {
		return errors.NewValidationError("private memes require a receiver")
	}

	if meme.ReplyTo == nil {
		return nil
	}

	if meme.Receiver != nil {
		return errors.NewValidationError("replies cannot set a receiver")
	}
	if parent == nil {
		return errors.NewNotFoundError("meme")
	}
	if !parent.VisibleTo(meme.Owner) {
		return errors.NewForbiddenError("cannot reply to a meme you cannot see")
	}
	if parent.Private && !meme.Private {
		return errors.NewValidationError("replies to private memes must be private")
	}
	return nil
}

// ValidateLike checks the like operation preconditions.
func ValidateLike(meme *Meme, userID primitive.ObjectID) error {
	if !meme.VisibleTo(userID) {
		return errors.NewForbiddenError("cannot like a meme you cannot see")
	}
	return nil
}
