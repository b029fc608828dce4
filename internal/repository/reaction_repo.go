package repository

import (
	"errors"

	"github.com/abdulra7ma/social-media-app/internal/common"
	"github.com/abdulra7ma/social-media-app/internal/domain"
	"gorm.io/gorm"
)

// ReactionRepository is the authoritative store of like/dislike rows.
// The likes and dislikes tables carry a unique index on
// (post_id, user_id); a duplicate insert surfaces as
// common.ErrReactionConflict.
type ReactionRepository interface {
	Find(kind domain.ReactionKind, postID, userID uint) (*domain.Reaction, error)
	Create(kind domain.ReactionKind, postID, userID uint) (*domain.Reaction, error)
	Delete(kind domain.ReactionKind, postID, userID uint) error
	Count(kind domain.ReactionKind, postID uint) (int64, error)
	Counts(postID uint) (likes, dislikes int64, err error)
	UserIDs(kind domain.ReactionKind, postID uint) ([]uint, error)
	State(postID, userID uint) (domain.ReactionState, error)
	DeleteByPost(postID uint) error

	// Transaction runs fn against a tx-scoped repository. All reads
	// and writes inside fn share one relational transaction with the
	// engine's default isolation; no explicit row locks are taken.
	Transaction(fn func(ReactionRepository) error) error
}

type reactionRepository struct {
	db *gorm.DB
}

// NewReactionRepository creates a new ReactionRepository
func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

func (r *reactionRepository) Transaction(fn func(ReactionRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&reactionRepository{db: tx})
	})
}

// Find returns the reaction row for (post, user), or nil when absent
func (r *reactionRepository) Find(kind domain.ReactionKind, postID, userID uint) (*domain.Reaction, error) {
	switch kind {
	case domain.KindLike:
		var like domain.Like
		err := r.db.Where("post_id = ? AND user_id = ?", postID, userID).First(&like).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return &domain.Reaction{ID: like.ID, Kind: kind, PostID: like.PostID, UserID: like.UserID, CreatedAt: like.CreatedAt}, nil
	default:
		var dislike domain.Dislike
		err := r.db.Where("post_id = ? AND user_id = ?", postID, userID).First(&dislike).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return &domain.Reaction{ID: dislike.ID, Kind: kind, PostID: dislike.PostID, UserID: dislike.UserID, CreatedAt: dislike.CreatedAt}, nil
	}
}

// Create inserts a reaction row. A unique-constraint violation from a
// concurrent duplicate surfaces as ErrReactionConflict for the
// service to map, never swallowed.
func (r *reactionRepository) Create(kind domain.ReactionKind, postID, userID uint) (*domain.Reaction, error) {
	switch kind {
	case domain.KindLike:
		like := &domain.Like{PostID: postID, UserID: userID}
		if err := r.db.Create(like).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, common.ErrReactionConflict
			}
			return nil, err
		}
		return &domain.Reaction{ID: like.ID, Kind: kind, PostID: postID, UserID: userID, CreatedAt: like.CreatedAt}, nil
	default:
		dislike := &domain.Dislike{PostID: postID, UserID: userID}
		if err := r.db.Create(dislike).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, common.ErrReactionConflict
			}
			return nil, err
		}
		return &domain.Reaction{ID: dislike.ID, Kind: kind, PostID: postID, UserID: userID, CreatedAt: dislike.CreatedAt}, nil
	}
}

// Delete removes a reaction row. Deleting a row that does not exist
// is a caller error and reports ErrReactionNotFound.
func (r *reactionRepository) Delete(kind domain.ReactionKind, postID, userID uint) error {
	var result *gorm.DB
	switch kind {
	case domain.KindLike:
		result = r.db.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&domain.Like{})
	default:
		result = r.db.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&domain.Dislike{})
	}
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrReactionNotFound
	}
	return nil
}

func (r *reactionRepository) Count(kind domain.ReactionKind, postID uint) (int64, error) {
	var count int64
	var err error
	switch kind {
	case domain.KindLike:
		err = r.db.Model(&domain.Like{}).Where("post_id = ?", postID).Count(&count).Error
	default:
		err = r.db.Model(&domain.Dislike{}).Where("post_id = ?", postID).Count(&count).Error
	}
	return count, err
}

func (r *reactionRepository) Counts(postID uint) (likes, dislikes int64, err error) {
	if likes, err = r.Count(domain.KindLike, postID); err != nil {
		return 0, 0, err
	}
	if dislikes, err = r.Count(domain.KindDislike, postID); err != nil {
		return 0, 0, err
	}
	return likes, dislikes, nil
}

// UserIDs returns the ids of every user holding the given reaction on
// a post; used by the reconciler to rebuild membership sets
func (r *reactionRepository) UserIDs(kind domain.ReactionKind, postID uint) ([]uint, error) {
	var ids []uint
	var err error
	switch kind {
	case domain.KindLike:
		err = r.db.Model(&domain.Like{}).Where("post_id = ?", postID).Pluck("user_id", &ids).Error
	default:
		err = r.db.Model(&domain.Dislike{}).Where("post_id = ?", postID).Pluck("user_id", &ids).Error
	}
	return ids, err
}

// State derives the per-(user, post) reaction state from the store
func (r *reactionRepository) State(postID, userID uint) (domain.ReactionState, error) {
	like, err := r.Find(domain.KindLike, postID, userID)
	if err != nil {
		return domain.StateNeutral, err
	}
	if like != nil {
		return domain.StateLiked, nil
	}

	dislike, err := r.Find(domain.KindDislike, postID, userID)
	if err != nil {
		return domain.StateNeutral, err
	}
	if dislike != nil {
		return domain.StateDisliked, nil
	}

	return domain.StateNeutral, nil
}

// DeleteByPost removes every reaction row for a post; used by the
// post-deletion cascade
func (r *reactionRepository) DeleteByPost(postID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", postID).Delete(&domain.Like{}).Error; err != nil {
			return err
		}
		return tx.Where("post_id = ?", postID).Delete(&domain.Dislike{}).Error
	})
}
