package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/database"
	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/models"
	"github.com/eko/gocache/lib/v4/store"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

func (c *Core) FollowersOf(ctx context.Context, user int64) ([]models.Follow, error) {
	return c.Follows.Find(ctx, database.Where(database.Condition{"followed_id": user}))
}

func (c *Core) FollowingOf(ctx context.Context, user int64) ([]models.Follow, error) {
	return c.Follows.Find(ctx, database.Where(database.Condition{"follower_id": user}))
}

type followedSetState struct {
	Followed []int64
}

func followedSetCacheKey(user int64, version uint64) string {
	return fmt.Sprintf("follow-set#%d@%d", user, version)
}

// followedSetVersion is bumped on every follow write of user.
// A reader caches under the version it started with, so a set loaded before a write is never read after it.
func (c *Core) followedSetVersion(user int64) *atomic.Uint64 {
	version, _ := c.followedVersions.LoadOrStore(user, new(atomic.Uint64))
	return version.(*atomic.Uint64)
}

// followedSet is the distinct users that user follows
func (c *Core) followedSet(ctx context.Context, user int64) ([]int64, error) {
	cacheKey := followedSetCacheKey(user, c.followedSetVersion(user).Load())
	if cached, err := c.cache.Get(ctx, cacheKey, new(followedSetState)); err == nil {
		return cached.(*followedSetState).Followed, nil
	}

	edges, err := c.FollowingOf(ctx, user)
	if err != nil {
		return nil, err
	}
	followed := lo.Uniq(lo.Map(edges, func(item models.Follow, index int) int64 {
		return item.FollowedID
	}))

	_ = c.cache.Set(
		ctx,
		cacheKey,
		followedSetState{Followed: followed},
		store.WithExpiration(5*time.Minute),
	)
	return followed, nil
}

func (c *Core) invalidateFollowedSet(ctx context.Context, previous *models.Follow, item models.Follow) {
	followers := []int64{item.FollowerID}
	if previous != nil {
		followers = append(followers, previous.FollowerID)
	}
	for _, follower := range lo.Uniq(followers) {
		stale := c.followedSetVersion(follower).Add(1) - 1
		if err := c.cache.Delete(ctx, followedSetCacheKey(follower, stale)); err != nil {
			log.Warn().Err(err).Int64("user", follower).Msg("Unable to invalidate followed set cache...")
		}
	}
}
