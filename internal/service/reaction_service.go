package service

import (
	"context"
	"errors"

	"github.com/abdulra7ma/social-media-app/internal/common"
	"github.com/abdulra7ma/social-media-app/internal/domain"
	"github.com/abdulra7ma/social-media-app/internal/repository"
	"github.com/abdulra7ma/social-media-app/pkg/cache"
	"github.com/abdulra7ma/social-media-app/pkg/logger"
)

// ReactionService implements the like/dislike state machine. Per
// (user, post) exactly one of neutral, liked, disliked holds; the
// relational transaction is the consistency boundary and the counter
// cache is synced best-effort afterwards.
type ReactionService interface {
	Like(ctx context.Context, postID, userID uint) (*domain.ReactionResponse, error)
	Unlike(ctx context.Context, postID, userID uint) (*domain.ReactionResponse, error)
	Dislike(ctx context.Context, postID, userID uint) (*domain.ReactionResponse, error)
	Undislike(ctx context.Context, postID, userID uint) (*domain.ReactionResponse, error)
}

type reactionService struct {
	postRepo     repository.PostRepository
	reactionRepo repository.ReactionRepository
	counter      cache.Counter
}

// NewReactionService creates a new ReactionService
func NewReactionService(postRepo repository.PostRepository, reactionRepo repository.ReactionRepository, counter cache.Counter) ReactionService {
	return &reactionService{
		postRepo:     postRepo,
		reactionRepo: reactionRepo,
		counter:      counter,
	}
}

// checkPost loads the post and rejects reactions on own posts
func (s *reactionService) checkPost(postID, userID uint) error {
	post, err := s.postRepo.FindByID(postID)
	if err != nil {
		return err
	}
	return common.CanReact(post.AuthorID, userID)
}

// Like transitions (user, post) to liked. An existing dislike is
// removed first, within the same transaction and, in the cache,
// before the like increment, so a crash mid-operation biases toward
// under-counting rather than double-counting.
func (s *reactionService) Like(ctx context.Context, postID, userID uint) (*domain.ReactionResponse, error) {
	if err := s.checkPost(postID, userID); err != nil {
		return nil, err
	}

	hadDislike := false
	err := s.reactionRepo.Transaction(func(tx repository.ReactionRepository) error {
		like, err := tx.Find(domain.KindLike, postID, userID)
		if err != nil {
			return err
		}
		if like != nil {
			return common.ErrAlreadyLiked
		}

		dislike, err := tx.Find(domain.KindDislike, postID, userID)
		if err != nil {
			return err
		}
		if dislike != nil {
			if err := tx.Delete(domain.KindDislike, postID, userID); err != nil {
				return err
			}
			hadDislike = true
		}

		_, err = tx.Create(domain.KindLike, postID, userID)
		return err
	})
	if errors.Is(err, common.ErrReactionConflict) {
		// Lost a race against an identical like; same outcome as the
		// precondition check.
		return nil, common.ErrAlreadyLiked
	}
	if err != nil {
		return nil, err
	}

	s.syncCache(ctx, postID, userID, domain.KindLike, hadDislike)
	return s.buildResponse(ctx, postID, userID)
}

// Unlike transitions (user, post) from liked back to neutral
func (s *reactionService) Unlike(ctx context.Context, postID, userID uint) (*domain.ReactionResponse, error) {
	if err := s.checkPost(postID, userID); err != nil {
		return nil, err
	}

	err := s.reactionRepo.Transaction(func(tx repository.ReactionRepository) error {
		like, err := tx.Find(domain.KindLike, postID, userID)
		if err != nil {
			return err
		}
		if like == nil {
			return common.ErrNotLiked
		}
		return tx.Delete(domain.KindLike, postID, userID)
	})
	if errors.Is(err, common.ErrReactionNotFound) {
		return nil, common.ErrNotLiked
	}
	if err != nil {
		return nil, err
	}

	s.dropFromCache(ctx, postID, userID, cache.KindLikes)
	return s.buildResponse(ctx, postID, userID)
}

// Dislike transitions (user, post) to disliked, removing an existing
// like first
func (s *reactionService) Dislike(ctx context.Context, postID, userID uint) (*domain.ReactionResponse, error) {
	if err := s.checkPost(postID, userID); err != nil {
		return nil, err
	}

	hadLike := false
	err := s.reactionRepo.Transaction(func(tx repository.ReactionRepository) error {
		dislike, err := tx.Find(domain.KindDislike, postID, userID)
		if err != nil {
			return err
		}
		if dislike != nil {
			return common.ErrAlreadyDisliked
		}

		like, err := tx.Find(domain.KindLike, postID, userID)
		if err != nil {
			return err
		}
		if like != nil {
			if err := tx.Delete(domain.KindLike, postID, userID); err != nil {
				return err
			}
			hadLike = true
		}

		_, err = tx.Create(domain.KindDislike, postID, userID)
		return err
	})
	if errors.Is(err, common.ErrReactionConflict) {
		return nil, common.ErrAlreadyDisliked
	}
	if err != nil {
		return nil, err
	}

	s.syncCache(ctx, postID, userID, domain.KindDislike, hadLike)
	return s.buildResponse(ctx, postID, userID)
}

// Undislike transitions (user, post) from disliked back to neutral
func (s *reactionService) Undislike(ctx context.Context, postID, userID uint) (*domain.ReactionResponse, error) {
	if err := s.checkPost(postID, userID); err != nil {
		return nil, err
	}

	err := s.reactionRepo.Transaction(func(tx repository.ReactionRepository) error {
		dislike, err := tx.Find(domain.KindDislike, postID, userID)
		if err != nil {
			return err
		}
		if dislike == nil {
			return common.ErrNotDisliked
		}
		return tx.Delete(domain.KindDislike, postID, userID)
	})
	if errors.Is(err, common.ErrReactionNotFound) {
		return nil, common.ErrNotDisliked
	}
	if err != nil {
		return nil, err
	}

	s.dropFromCache(ctx, postID, userID, cache.KindDislikes)
	return s.buildResponse(ctx, postID, userID)
}

// syncCache applies the counter updates for a new reaction of kind.
// Runs after the relational commit; failures are logged and never
// undo the committed transaction. The opposing decrement comes first,
// mirroring the transaction's delete-then-create order.
func (s *reactionService) syncCache(ctx context.Context, postID, userID uint, kind domain.ReactionKind, hadOpposite bool) {
	newKind, oppositeKind := cache.KindLikes, cache.KindDislikes
	if kind == domain.KindDislike {
		newKind, oppositeKind = cache.KindDislikes, cache.KindLikes
	}

	if hadOpposite {
		if err := s.counter.RemoveMember(ctx, postID, oppositeKind, userID); err != nil {
			s.logCacheError(postID, err)
			return
		}
		if err := s.counter.Decrement(ctx, postID, oppositeKind); err != nil {
			s.logCacheError(postID, err)
			return
		}
	}

	if err := s.counter.Increment(ctx, postID, newKind); err != nil {
		s.logCacheError(postID, err)
		return
	}
	if err := s.counter.AddMember(ctx, postID, newKind, userID); err != nil {
		s.logCacheError(postID, err)
	}
}

// dropFromCache applies the counter updates for a removed reaction
func (s *reactionService) dropFromCache(ctx context.Context, postID, userID uint, kind cache.Kind) {
	if err := s.counter.Decrement(ctx, postID, kind); err != nil {
		s.logCacheError(postID, err)
		return
	}
	if err := s.counter.RemoveMember(ctx, postID, kind, userID); err != nil {
		s.logCacheError(postID, err)
	}
}

func (s *reactionService) logCacheError(postID uint, err error) {
	logger.GetLogger().Warn().
		Uint("post_id", postID).
		Err(err).
		Msg("counter cache update failed; store remains authoritative")
}

// buildResponse reads the counters for the response, preferring the
// cache and degrading to store counts when the cache is unreachable
func (s *reactionService) buildResponse(ctx context.Context, postID, userID uint) (*domain.ReactionResponse, error) {
	likes, dislikes := s.readCounts(ctx, postID)

	state, err := s.reactionRepo.State(postID, userID)
	if err != nil {
		return nil, err
	}

	return &domain.ReactionResponse{
		Likes:        likes,
		Dislikes:     dislikes,
		UserLiked:    state == domain.StateLiked,
		UserDisliked: state == domain.StateDisliked,
	}, nil
}

func (s *reactionService) readCounts(ctx context.Context, postID uint) (likes, dislikes int64) {
	likes, lerr := s.counter.Count(ctx, postID, cache.KindLikes)
	dislikes, derr := s.counter.Count(ctx, postID, cache.KindDislikes)
	if lerr == nil && derr == nil {
		return likes, dislikes
	}

	s.logCacheError(postID, errors.Join(lerr, derr))
	likes, dislikes, err := s.reactionRepo.Counts(postID)
	if err != nil {
		return 0, 0
	}
	return likes, dislikes
}
