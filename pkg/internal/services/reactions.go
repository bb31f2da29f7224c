package services

import (
	"context"

	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/database"
	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/models"
	"github.com/samber/lo"
)

func (c *Core) ReactionsForPost(ctx context.Context, post int64) ([]models.Reaction, error) {
	return c.Reactions.Find(ctx, database.Where(database.Condition{"post_id": post}))
}

// CountReactionsForPost groups the reactions of a post by kind
func (c *Core) CountReactionsForPost(ctx context.Context, post int64) (map[string]int, error) {
	items, err := c.ReactionsForPost(ctx, post)
	if err != nil {
		return nil, err
	}
	return lo.CountValuesBy(items, func(item models.Reaction) string {
		return item.Kind
	}), nil
}
