package services

import (
	"context"

	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/database"
	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/models"
)

func (c *Core) CommentsForPost(ctx context.Context, post int64) ([]models.Comment, error) {
	return c.Comments.Find(ctx, database.Where(database.Condition{"post_id": post}))
}

func (c *Core) CommentsBy(ctx context.Context, user int64) ([]models.Comment, error) {
	return c.Comments.Find(ctx, database.Where(database.Condition{"user_id": user}))
}
