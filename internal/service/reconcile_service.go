package service

import (
	"context"
	"time"

	"github.com/abdulra7ma/social-media-app/internal/domain"
	"github.com/abdulra7ma/social-media-app/internal/repository"
	"github.com/abdulra7ma/social-media-app/pkg/cache"
	"github.com/abdulra7ma/social-media-app/pkg/logger"
)

// ReconcileService rebuilds counter-cache entries from the reaction
// store. Cache and store are updated as two separate operations, so a
// crash between the relational commit and the cache update leaves the
// counters under-counting until a rebuild runs.
type ReconcileService interface {
	Rebuild(ctx context.Context, postID uint) error
	RebuildAll(ctx context.Context) error
	Run(ctx context.Context, interval time.Duration)
}

type reconcileService struct {
	postRepo     repository.PostRepository
	reactionRepo repository.ReactionRepository
	counter      cache.Counter
}

// NewReconcileService creates a new ReconcileService
func NewReconcileService(postRepo repository.PostRepository, reactionRepo repository.ReactionRepository, counter cache.Counter) ReconcileService {
	return &reconcileService{
		postRepo:     postRepo,
		reactionRepo: reactionRepo,
		counter:      counter,
	}
}

// Rebuild rewrites one post's counters and membership sets from the
// relational truth
func (s *reconcileService) Rebuild(ctx context.Context, postID uint) error {
	likes, dislikes, err := s.reactionRepo.Counts(postID)
	if err != nil {
		return err
	}

	if err := s.counter.SetCount(ctx, postID, cache.KindLikes, likes); err != nil {
		return err
	}
	if err := s.counter.SetCount(ctx, postID, cache.KindDislikes, dislikes); err != nil {
		return err
	}

	likers, err := s.reactionRepo.UserIDs(domain.KindLike, postID)
	if err != nil {
		return err
	}
	if err := s.counter.ReplaceMembers(ctx, postID, cache.KindLikes, likers); err != nil {
		return err
	}

	dislikers, err := s.reactionRepo.UserIDs(domain.KindDislike, postID)
	if err != nil {
		return err
	}
	return s.counter.ReplaceMembers(ctx, postID, cache.KindDislikes, dislikers)
}

// RebuildAll sweeps every post. A failed post is logged and skipped so
// one bad entry does not stall the sweep.
func (s *reconcileService) RebuildAll(ctx context.Context) error {
	ids, err := s.postRepo.ListIDs()
	if err != nil {
		return err
	}

	for _, id := range ids {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := s.Rebuild(ctx, id); err != nil {
			logger.GetLogger().Warn().
				Uint("post_id", id).
				Err(err).
				Msg("counter rebuild failed")
		}
	}
	return nil
}

// Run sweeps on a ticker until the context is cancelled
func (s *reconcileService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.RebuildAll(ctx); err != nil {
				logger.GetLogger().Warn().Err(err).Msg("counter reconcile sweep aborted")
			}
		}
	}
}
