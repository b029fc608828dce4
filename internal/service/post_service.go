package service

import (
	"context"

	"github.com/abdulra7ma/social-media-app/internal/common"
	"github.com/abdulra7ma/social-media-app/internal/domain"
	"github.com/abdulra7ma/social-media-app/internal/repository"
	"github.com/abdulra7ma/social-media-app/pkg/cache"
	"github.com/abdulra7ma/social-media-app/pkg/logger"
)

// PostService business logic for posts
type PostService interface {
	GetPost(ctx context.Context, id uint) (*domain.PostDetailResponse, error)
	ListPosts(page, limit int) ([]*domain.PostResponse, *common.Meta, error)
	CreatePost(req *domain.CreatePostRequest, authorID uint) (*domain.PostResponse, error)
	UpdatePost(id uint, req *domain.UpdatePostRequest, actorID uint) (*domain.PostResponse, error)
	DeletePost(ctx context.Context, id uint, actorID uint) error
}

type postService struct {
	postRepo     repository.PostRepository
	reactionRepo repository.ReactionRepository
	counter      cache.Counter
}

// NewPostService creates a new PostService
func NewPostService(postRepo repository.PostRepository, reactionRepo repository.ReactionRepository, counter cache.Counter) PostService {
	return &postService{
		postRepo:     postRepo,
		reactionRepo: reactionRepo,
		counter:      counter,
	}
}

// GetPost returns a post with its like/dislike counters. Counts come
// from the counter cache (connecting lazily); when the cache is
// unreachable the read degrades to store counts instead of failing.
func (s *postService) GetPost(ctx context.Context, id uint) (*domain.PostDetailResponse, error) {
	post, err := s.postRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	likes, lerr := s.counter.Count(ctx, id, cache.KindLikes)
	dislikes, derr := s.counter.Count(ctx, id, cache.KindDislikes)
	if lerr != nil || derr != nil {
		logger.GetLogger().Warn().
			Uint("post_id", id).
			Msg("counter cache unavailable; falling back to store counts")
		if likes, dislikes, err = s.reactionRepo.Counts(id); err != nil {
			likes, dislikes = 0, 0
		}
	}

	return &domain.PostDetailResponse{
		Post:     post.ToResponse(),
		Likes:    likes,
		Dislikes: dislikes,
	}, nil
}

// ListPosts retrieves paginated posts
func (s *postService) ListPosts(page, limit int) ([]*domain.PostResponse, *common.Meta, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	posts, total, err := s.postRepo.List(page, limit)
	if err != nil {
		return nil, nil, err
	}

	responses := make([]*domain.PostResponse, len(posts))
	for i, post := range posts {
		responses[i] = post.ToResponse()
	}

	meta := &common.Meta{
		Page:  page,
		Limit: limit,
		Total: total,
	}

	return responses, meta, nil
}

// CreatePost creates a new post
func (s *postService) CreatePost(req *domain.CreatePostRequest, authorID uint) (*domain.PostResponse, error) {
	post := &domain.Post{
		AuthorID: authorID,
		Content:  req.Content,
	}
	if err := s.postRepo.Create(post); err != nil {
		return nil, err
	}
	return post.ToResponse(), nil
}

// UpdatePost updates a post's content, author only
func (s *postService) UpdatePost(id uint, req *domain.UpdatePostRequest, actorID uint) (*domain.PostResponse, error) {
	post, err := s.postRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	if err := common.CanModify(post.AuthorID, actorID); err != nil {
		return nil, err
	}

	if err := s.postRepo.Update(id, req.Content); err != nil {
		return nil, err
	}

	post.Content = req.Content
	return post.ToResponse(), nil
}

// DeletePost deletes a post, author only, cascading to its reaction
// rows and cache entries so no orphaned state remains
func (s *postService) DeletePost(ctx context.Context, id uint, actorID uint) error {
	post, err := s.postRepo.FindByID(id)
	if err != nil {
		return err
	}

	if err := common.CanModify(post.AuthorID, actorID); err != nil {
		return err
	}

	if err := s.postRepo.Delete(id); err != nil {
		return err
	}

	if err := s.reactionRepo.DeleteByPost(id); err != nil {
		return err
	}

	// Cache cleanup is best-effort; a leftover key is repaired by the
	// reconciler or simply orphaned until rebuilt.
	if err := s.counter.DeletePost(ctx, id); err != nil {
		logger.GetLogger().Warn().
			Uint("post_id", id).
			Err(err).
			Msg("failed to drop counter cache entries for deleted post")
	}

	return nil
}
