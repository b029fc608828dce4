package service

import (
	"context"
	"testing"

	"github.com/abdulra7ma/social-media-app/pkg/cache"
	"github.com/stretchr/testify/assert"
)

func TestReconcileService_RebuildAll(t *testing.T) {
	f := setupReaction(t)
	ctx := context.Background()

	_, err := f.svc.Like(ctx, f.postID, 2)
	assert.NoError(t, err)
	_, err = f.svc.Like(ctx, f.postID, 3)
	assert.NoError(t, err)
	_, err = f.svc.Dislike(ctx, f.postID, 4)
	assert.NoError(t, err)

	// Poison the cache to simulate accumulated drift
	assert.NoError(t, f.counter.SetCount(ctx, f.postID, cache.KindLikes, 40))
	assert.NoError(t, f.counter.ReplaceMembers(ctx, f.postID, cache.KindDislikes, []uint{7, 8, 9}))

	rec := NewReconcileService(f.postRepo, f.reactionRepo, f.counter)
	assert.NoError(t, rec.RebuildAll(ctx))

	likes, err := f.counter.Count(ctx, f.postID, cache.KindLikes)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), likes)

	dislikers, err := f.counter.Members(ctx, f.postID, cache.KindDislikes)
	assert.NoError(t, err)
	assert.ElementsMatch(t, []uint{4}, dislikers)
}

func TestReconcileService_RebuildAllHonorsCancel(t *testing.T) {
	f := setupReaction(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec := NewReconcileService(f.postRepo, f.reactionRepo, f.counter)
	assert.ErrorIs(t, rec.RebuildAll(ctx), context.Canceled)
}
