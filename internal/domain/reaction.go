package domain

import "time"

// ReactionKind selects between the two reaction tables
type ReactionKind string

const (
	KindLike    ReactionKind = "like"
	KindDislike ReactionKind = "dislike"
)

// ReactionState is the per-(user, post) state derived from the
// reaction store. The states are mutually exclusive: the store never
// holds both a like and a dislike row for the same pair.
type ReactionState string

const (
	StateNeutral  ReactionState = "neutral"
	StateLiked    ReactionState = "liked"
	StateDisliked ReactionState = "disliked"
)

// Like represents the likes table, unique per (post_id, user_id).
// The unique index is the safety net under concurrent duplicate
// reactions.
type Like struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	PostID    uint      `gorm:"column:post_id;uniqueIndex:idx_like_post_user" json:"post_id"`
	UserID    uint      `gorm:"column:user_id;uniqueIndex:idx_like_post_user" json:"user_id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName returns the table name for GORM
func (Like) TableName() string {
	return "likes"
}

// Dislike represents the dislikes table, unique per (post_id, user_id)
type Dislike struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	PostID    uint      `gorm:"column:post_id;uniqueIndex:idx_dislike_post_user" json:"post_id"`
	UserID    uint      `gorm:"column:user_id;uniqueIndex:idx_dislike_post_user" json:"user_id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName returns the table name for GORM
func (Dislike) TableName() string {
	return "dislikes"
}

// Reaction is the kind-agnostic view of a Like or Dislike row
type Reaction struct {
	ID        uint         `json:"id"`
	Kind      ReactionKind `json:"kind"`
	PostID    uint         `json:"post_id"`
	UserID    uint         `json:"user_id"`
	CreatedAt time.Time    `json:"created_at"`
}

// ReactionResponse is the response DTO for like/dislike operations
type ReactionResponse struct {
	Likes        int64 `json:"likes"`
	Dislikes     int64 `json:"dislikes"`
	UserLiked    bool  `json:"user_liked"`
	UserDisliked bool  `json:"user_disliked"`
}
