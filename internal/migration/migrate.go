package migration

import (
	"github.com/abdulra7ma/social-media-app/internal/domain"
	"gorm.io/gorm"
)

// Run executes AutoMigrate for all application tables. Existing
// tables are left untouched; the unique reaction indexes are created
// with the likes/dislikes tables.
func Run(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Post{},
		&domain.Like{},
		&domain.Dislike{},
	)
}
