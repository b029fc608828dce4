package domain

import "time"

// User represents an account in the users table
type User struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Username  string    `gorm:"column:username;size:50;uniqueIndex" json:"username"`
	Email     string    `gorm:"column:email;size:255;uniqueIndex" json:"email"`
	Password  string    `gorm:"column:password;size:255" json:"-"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// UserResponse is the public user DTO (never carries the password hash)
type UserResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// ToResponse converts a User to its public DTO
func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}
