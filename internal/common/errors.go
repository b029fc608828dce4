package common

import "errors"

// Business logic errors
var (
	// General errors
	ErrNotFound  = errors.New("resource not found")
	ErrForbidden = errors.New("forbidden")

	// Post errors
	ErrPostNotFound = errors.New("post not found")

	// Reaction errors
	ErrSelfReaction     = errors.New("can not react to own post")
	ErrAlreadyLiked     = errors.New("you have already liked this post")
	ErrAlreadyDisliked  = errors.New("you have already disliked this post")
	ErrNotLiked         = errors.New("post should be liked first")
	ErrNotDisliked      = errors.New("post should be disliked first")
	ErrReactionNotFound = errors.New("reaction not found")
	// ErrReactionConflict surfaces a relational unique-constraint
	// violation when two identical reactions race. Handlers map it to
	// the same response as already liked/disliked, never a 500.
	ErrReactionConflict = errors.New("duplicate reaction")

	// Auth errors
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrEmailTaken         = errors.New("email already in use")

	// Validation errors
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")
)
