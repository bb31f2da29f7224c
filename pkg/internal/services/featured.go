package services

import (
	"context"
	"sort"
	"time"

	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/database"
	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/models"
	"github.com/samber/lo"
)

const featuredWindow = 7 * 24 * time.Hour

// socialPoints of a reaction, sad and angry count against the post
var socialPoints = map[models.ReactionKind]int{
	models.ReactionLike:  1,
	models.ReactionLove:  1,
	models.ReactionWow:   1,
	models.ReactionSad:   -1,
	models.ReactionAngry: -1,
}

// FeaturedPosts returns up to count posts of the last 7 days with the most social points.
// Social points are the positive reactions minus the negative ones, ties go to the newer post.
func (c *Core) FeaturedPosts(ctx context.Context, count int) ([]models.Post, error) {
	deadline := c.clock().Add(-featuredWindow)

	posts, err := c.Posts.List(ctx)
	if err != nil {
		return nil, err
	}
	posts = lo.Filter(posts, func(item models.Post, index int) bool {
		return !item.CreatedAt.Before(deadline)
	})
	if len(posts) == 0 {
		return posts, nil
	}

	reactions, err := c.Reactions.Find(ctx, database.Where(database.Condition{
		"post_id": lo.Map(posts, func(item models.Post, index int) int64 { return item.ID }),
	}))
	if err != nil {
		return nil, err
	}
	points := make(map[int64]int, len(posts))
	for _, reaction := range reactions {
		points[reaction.PostID] += socialPoints[reaction.Kind]
	}

	sortPostsByRecency(posts)
	sort.SliceStable(posts, func(i, j int) bool {
		return points[posts[i].ID] > points[posts[j].ID]
	})
	if count > 0 && len(posts) > count {
		posts = posts[:count]
	}
	return posts, nil
}
