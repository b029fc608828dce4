package domain

import "time"

// Post represents the posts table. A post is owned by its author;
// only the author may update or delete it.
type Post struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	AuthorID  uint      `gorm:"column:author_id;index" json:"author_id"`
	Content   string    `gorm:"column:content;type:text" json:"content"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName returns the table name for GORM
func (Post) TableName() string {
	return "posts"
}

// CreatePostRequest is the request body for creating a post
type CreatePostRequest struct {
	Content string `json:"content" binding:"required"`
}

// UpdatePostRequest is the request body for updating a post
type UpdatePostRequest struct {
	Content string `json:"content" binding:"required"`
}

// PostResponse is the public post DTO
type PostResponse struct {
	ID        uint      `json:"id"`
	AuthorID  uint      `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToResponse converts a Post to its public DTO
func (p *Post) ToResponse() *PostResponse {
	return &PostResponse{
		ID:        p.ID,
		AuthorID:  p.AuthorID,
		Content:   p.Content,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// PostDetailResponse is the read-path DTO: the post plus its reaction
// counters. Counts come from the counter cache and may lag the
// relational truth briefly.
type PostDetailResponse struct {
	Post     *PostResponse `json:"post"`
	Likes    int64         `json:"likes"`
	Dislikes int64         `json:"dislikes"`
}
