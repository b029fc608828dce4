package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/redis/go-redis/v9"
)

// ErrUnavailable reports that the counter cache can not be reached.
// Callers decide whether to degrade (read from the relational store)
// or fail; reaction writes treat it as non-fatal.
var ErrUnavailable = errors.New("counter cache unavailable")

// Kind selects the likes or dislikes counter of a post
type Kind string

const (
	KindLikes    Kind = "likes"
	KindDislikes Kind = "dislikes"
)

// Key layout owned by the counter cache:
//
//	post:{id}:likes           integer counter
//	post:{id}:dislikes        integer counter
//	post:{id}:likes:users     set of user ids
//	post:{id}:dislikes:users  set of user ids
//
// All entries are a rebuildable projection of the likes/dislikes
// tables, never the source of truth.

// CountKey returns the counter key for a post
func CountKey(postID uint, kind Kind) string {
	return fmt.Sprintf("post:%d:%s", postID, kind)
}

// MembersKey returns the membership-set key for a post
func MembersKey(postID uint, kind Kind) string {
	return fmt.Sprintf("post:%d:%s:users", postID, kind)
}

// Counter is the counter-cache interface. All operations are
// best-effort: no transactional coupling to the relational store and
// no durability guarantee. Absent keys read as zero, absent sets as
// empty.
type Counter interface {
	Count(ctx context.Context, postID uint, kind Kind) (int64, error)
	Increment(ctx context.Context, postID uint, kind Kind) error
	Decrement(ctx context.Context, postID uint, kind Kind) error
	SetCount(ctx context.Context, postID uint, kind Kind, n int64) error

	AddMember(ctx context.Context, postID uint, kind Kind, userID uint) error
	RemoveMember(ctx context.Context, postID uint, kind Kind, userID uint) error
	HasMember(ctx context.Context, postID uint, kind Kind, userID uint) (bool, error)
	Members(ctx context.Context, postID uint, kind Kind) ([]uint, error)
	ReplaceMembers(ctx context.Context, postID uint, kind Kind, userIDs []uint) error

	DeletePost(ctx context.Context, postID uint) error
	Ping(ctx context.Context) error
}

// Options configure the lazily-dialed Redis connection
type Options struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
}

// redisCounter is the go-redis implementation. The client is dialed
// on first use; a failed dial surfaces as ErrUnavailable and is
// retried on the next call.
type redisCounter struct {
	opts Options

	mu     sync.Mutex
	client *redis.Client
}

// NewCounter creates a counter cache that connects lazily
func NewCounter(opts Options) Counter {
	return &redisCounter{opts: opts}
}

// NewCounterWithClient creates a counter cache around an already
// established client
func NewCounterWithClient(client *redis.Client) Counter {
	return &redisCounter{client: client}
}

// conn returns the client, dialing it on first use
func (c *redisCounter) conn(ctx context.Context) (*redis.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		return c.client, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", c.opts.Host, c.opts.Port),
		Password: c.opts.Password,
		DB:       c.opts.DB,
		PoolSize: c.opts.PoolSize,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	c.client = client
	return c.client, nil
}

func (c *redisCounter) Ping(ctx context.Context) error {
	client, err := c.conn(ctx)
	if err != nil {
		return err
	}
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Count reads a counter; an absent key reads as 0
func (c *redisCounter) Count(ctx context.Context, postID uint, kind Kind) (int64, error) {
	client, err := c.conn(ctx)
	if err != nil {
		return 0, err
	}

	val, err := client.Get(ctx, CountKey(postID, kind)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (c *redisCounter) Increment(ctx context.Context, postID uint, kind Kind) error {
	client, err := c.conn(ctx)
	if err != nil {
		return err
	}
	if err := client.Incr(ctx, CountKey(postID, kind)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Decrement lowers a counter but never below zero. The read-then-write
// is not atomic; the counter is a best-effort projection and the
// reconciler repairs drift from the relational truth.
func (c *redisCounter) Decrement(ctx context.Context, postID uint, kind Kind) error {
	client, err := c.conn(ctx)
	if err != nil {
		return err
	}

	current, err := c.Count(ctx, postID, kind)
	if err != nil {
		return err
	}
	if current < 1 {
		return nil
	}

	if err := client.Decr(ctx, CountKey(postID, kind)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (c *redisCounter) SetCount(ctx context.Context, postID uint, kind Kind, n int64) error {
	client, err := c.conn(ctx)
	if err != nil {
		return err
	}
	if err := client.Set(ctx, CountKey(postID, kind), n, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (c *redisCounter) AddMember(ctx context.Context, postID uint, kind Kind, userID uint) error {
	client, err := c.conn(ctx)
	if err != nil {
		return err
	}
	if err := client.SAdd(ctx, MembersKey(postID, kind), userID).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (c *redisCounter) RemoveMember(ctx context.Context, postID uint, kind Kind, userID uint) error {
	client, err := c.conn(ctx)
	if err != nil {
		return err
	}
	if err := client.SRem(ctx, MembersKey(postID, kind), userID).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (c *redisCounter) HasMember(ctx context.Context, postID uint, kind Kind, userID uint) (bool, error) {
	client, err := c.conn(ctx)
	if err != nil {
		return false, err
	}
	ok, err := client.SIsMember(ctx, MembersKey(postID, kind), userID).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return ok, nil
}

// Members reads a membership set; an absent set reads as empty
func (c *redisCounter) Members(ctx context.Context, postID uint, kind Kind) ([]uint, error) {
	client, err := c.conn(ctx)
	if err != nil {
		return nil, err
	}

	vals, err := client.SMembers(ctx, MembersKey(postID, kind)).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	members := make([]uint, 0, len(vals))
	for _, v := range vals {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			continue
		}
		members = append(members, uint(id))
	}
	return members, nil
}

// ReplaceMembers rewrites a membership set from the relational truth
func (c *redisCounter) ReplaceMembers(ctx context.Context, postID uint, kind Kind, userIDs []uint) error {
	client, err := c.conn(ctx)
	if err != nil {
		return err
	}

	key := MembersKey(postID, kind)
	pipe := client.TxPipeline()
	pipe.Del(ctx, key)
	if len(userIDs) > 0 {
		members := make([]interface{}, len(userIDs))
		for i, id := range userIDs {
			members[i] = id
		}
		pipe.SAdd(ctx, key, members...)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// DeletePost drops every cache entry for a post; used when the post
// itself is deleted
func (c *redisCounter) DeletePost(ctx context.Context, postID uint) error {
	client, err := c.conn(ctx)
	if err != nil {
		return err
	}
	keys := []string{
		CountKey(postID, KindLikes),
		CountKey(postID, KindDislikes),
		MembersKey(postID, KindLikes),
		MembersKey(postID, KindDislikes),
	}
	if err := client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
