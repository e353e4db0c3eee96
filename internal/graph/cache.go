package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/openbook-app/backend/internal/visibility"
)

// friendTTL bounds staleness between an unfriend and the cache catching
// up when an invalidation is lost.
const friendTTL = 5 * time.Minute

// Cached is a read-through Redis cache in front of a relationship graph.
// Only the friendship edge is cached: it is the hot query of the
// visibility evaluator, while membership and follow lookups stay
// pass-through. Cache failures degrade to the underlying graph.
type Cached struct {
	next visibility.Graph
	rdb  *redis.Client
	log  *logrus.Logger
}

// NewCached wraps next with a Redis read-through cache.
func NewCached(next visibility.Graph, rdb *redis.Client, log *logrus.Logger) *Cached {
	return &Cached{next: next, rdb: rdb, log: log}
}

func friendKey(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("graph:friends:%d:%d", a, b)
}

// AreFriends answers from Redis when possible, falling back to the
// underlying graph and populating the cache on a miss.
func (c *Cached) AreFriends(ctx context.Context, a, b uint) (bool, error) {
	key := friendKey(a, b)

	val, err := c.rdb.Get(ctx, key).Result()
	if err == nil {
		return val == "1", nil
	}
	if err != redis.Nil {
		c.log.WithError(err).Warn("friendship cache read failed")
	}

	friends, err := c.next.AreFriends(ctx, a, b)
	if err != nil {
		return false, err
	}

	cached := "0"
	if friends {
		cached = "1"
	}
	if err := c.rdb.Set(ctx, key, cached, friendTTL).Err(); err != nil {
		c.log.WithError(err).Warn("friendship cache write failed")
	}
	return friends, nil
}

// InvalidateFriendship drops the cached edge for a pair. Called when a
// friend request is accepted or a friendship removed.
func (c *Cached) InvalidateFriendship(ctx context.Context, a, b uint) {
	if err := c.rdb.Del(ctx, friendKey(a, b)).Err(); err != nil {
		c.log.WithError(err).Warn("friendship cache invalidation failed")
	}
}

// IsActiveMember passes through to the underlying graph.
func (c *Cached) IsActiveMember(ctx context.Context, userID, groupID uint) (bool, error) {
	return c.next.IsActiveMember(ctx, userID, groupID)
}

// IsFollowing passes through to the underlying graph.
func (c *Cached) IsFollowing(ctx context.Context, followerID, targetID uint) (bool, error) {
	return c.next.IsFollowing(ctx, followerID, targetID)
}
