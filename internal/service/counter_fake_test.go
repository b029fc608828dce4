package service

import (
	"context"

	"github.com/abdulra7ma/social-media-app/pkg/cache"
)

// fakeCounter is an in-memory cache.Counter mirroring the redis
// semantics: absent keys read as zero, absent sets as empty, and a
// decrement never takes a count below zero. Setting fail makes every
// call report an unreachable cache.
type fakeCounter struct {
	counts map[string]int64
	sets   map[string]map[uint]bool
	fail   bool
}

func newFakeCounter() *fakeCounter {
	return &fakeCounter{
		counts: make(map[string]int64),
		sets:   make(map[string]map[uint]bool),
	}
}

func (f *fakeCounter) set(key string) map[uint]bool {
	s, ok := f.sets[key]
	if !ok {
		s = make(map[uint]bool)
		f.sets[key] = s
	}
	return s
}

func (f *fakeCounter) Count(ctx context.Context, postID uint, kind cache.Kind) (int64, error) {
	if f.fail {
		return 0, cache.ErrUnavailable
	}
	return f.counts[cache.CountKey(postID, kind)], nil
}

func (f *fakeCounter) Increment(ctx context.Context, postID uint, kind cache.Kind) error {
	if f.fail {
		return cache.ErrUnavailable
	}
	f.counts[cache.CountKey(postID, kind)]++
	return nil
}

func (f *fakeCounter) Decrement(ctx context.Context, postID uint, kind cache.Kind) error {
	if f.fail {
		return cache.ErrUnavailable
	}
	key := cache.CountKey(postID, kind)
	if f.counts[key] > 0 {
		f.counts[key]--
	}
	return nil
}

func (f *fakeCounter) SetCount(ctx context.Context, postID uint, kind cache.Kind, n int64) error {
	if f.fail {
		return cache.ErrUnavailable
	}
	f.counts[cache.CountKey(postID, kind)] = n
	return nil
}

func (f *fakeCounter) AddMember(ctx context.Context, postID uint, kind cache.Kind, userID uint) error {
	if f.fail {
		return cache.ErrUnavailable
	}
	f.set(cache.MembersKey(postID, kind))[userID] = true
	return nil
}

func (f *fakeCounter) RemoveMember(ctx context.Context, postID uint, kind cache.Kind, userID uint) error {
	if f.fail {
		return cache.ErrUnavailable
	}
	delete(f.set(cache.MembersKey(postID, kind)), userID)
	return nil
}

func (f *fakeCounter) HasMember(ctx context.Context, postID uint, kind cache.Kind, userID uint) (bool, error) {
	if f.fail {
		return false, cache.ErrUnavailable
	}
	return f.set(cache.MembersKey(postID, kind))[userID], nil
}

func (f *fakeCounter) Members(ctx context.Context, postID uint, kind cache.Kind) ([]uint, error) {
	if f.fail {
		return nil, cache.ErrUnavailable
	}
	var out []uint
	for id := range f.set(cache.MembersKey(postID, kind)) {
		out = append(out, id)
	}
	return out, nil
}

func (f *fakeCounter) ReplaceMembers(ctx context.Context, postID uint, kind cache.Kind, userIDs []uint) error {
	if f.fail {
		return cache.ErrUnavailable
	}
	s := make(map[uint]bool, len(userIDs))
	for _, id := range userIDs {
		s[id] = true
	}
	f.sets[cache.MembersKey(postID, kind)] = s
	return nil
}

func (f *fakeCounter) DeletePost(ctx context.Context, postID uint) error {
	if f.fail {
		return cache.ErrUnavailable
	}
	delete(f.counts, cache.CountKey(postID, cache.KindLikes))
	delete(f.counts, cache.CountKey(postID, cache.KindDislikes))
	delete(f.sets, cache.MembersKey(postID, cache.KindLikes))
	delete(f.sets, cache.MembersKey(postID, cache.KindDislikes))
	return nil
}

func (f *fakeCounter) Ping(ctx context.Context) error {
	if f.fail {
		return cache.ErrUnavailable
	}
	return nil
}
