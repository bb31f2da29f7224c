package services

import (
	"context"
	"sort"

	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/database"
	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/models"
)

// Conversation lists the messages exchanged between a and b in both directions, oldest first.
// Messages sent at the same instant keep key order.
func (c *Core) Conversation(ctx context.Context, a, b int64) ([]models.Message, error) {
	filter := database.
		Where(database.Condition{"sender_id": a, "recipient_id": b}).
		Or(database.Condition{"sender_id": b, "recipient_id": a})
	items, err := c.Messages.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].SentAt.Equal(items[j].SentAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].SentAt.Before(items[j].SentAt)
	})
	return items, nil
}

func (c *Core) SentBy(ctx context.Context, user int64) ([]models.Message, error) {
	return c.Messages.Find(ctx, database.Where(database.Condition{"sender_id": user}))
}

func (c *Core) ReceivedBy(ctx context.Context, user int64) ([]models.Message, error) {
	return c.Messages.Find(ctx, database.Where(database.Condition{"recipient_id": user}))
}
