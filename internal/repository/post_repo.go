package repository

import (
	"errors"

	"github.com/abdulra7ma/social-media-app/internal/common"
	"github.com/abdulra7ma/social-media-app/internal/domain"
	"gorm.io/gorm"
)

// PostRepository defines post storage operations
type PostRepository interface {
	FindByID(id uint) (*domain.Post, error)
	List(page, limit int) ([]*domain.Post, int64, error)
	ListIDs() ([]uint, error)
	Create(post *domain.Post) error
	Update(id uint, content string) error
	Delete(id uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new PostRepository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) FindByID(id uint) (*domain.Post, error) {
	var post domain.Post
	if err := r.db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) List(page, limit int) ([]*domain.Post, int64, error) {
	var posts []*domain.Post

	var total int64
	if err := r.db.Model(&domain.Post{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := r.db.Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

// ListIDs returns every post id; used by the counter reconciler sweep
func (r *postRepository) ListIDs() ([]uint, error) {
	var ids []uint
	err := r.db.Model(&domain.Post{}).Order("id").Pluck("id", &ids).Error
	return ids, err
}

func (r *postRepository) Create(post *domain.Post) error {
	return r.db.Create(post).Error
}

func (r *postRepository) Update(id uint, content string) error {
	result := r.db.Model(&domain.Post{}).
		Where("id = ?", id).
		Update("content", content)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrPostNotFound
	}
	return nil
}

func (r *postRepository) Delete(id uint) error {
	result := r.db.Delete(&domain.Post{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrPostNotFound
	}
	return nil
}
