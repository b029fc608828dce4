package common

// Capability checks comparing a resource owner against the acting
// user. Services apply these by composition instead of embedding
// authorization into repositories or handlers.

// CanModify reports whether the actor may update or delete a resource
// owned by ownerID.
func CanModify(ownerID, actorID uint) error {
	if ownerID != actorID {
		return ErrForbidden
	}
	return nil
}

// CanReact reports whether the actor may like or dislike a post
// written by authorID. Authors can not react to their own posts.
func CanReact(authorID, actorID uint) error {
	if authorID == actorID {
		return ErrSelfReaction
	}
	return nil
}
