package services

import (
	"context"
	"sort"
	"time"

	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/database"
	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// NotificationsFor lists the notifications of user, newest first.
// Notifications created at the same instant come higher key first.
func (c *Core) NotificationsFor(ctx context.Context, user int64) ([]models.Notification, error) {
	items, err := c.Notifications.Find(ctx, database.Where(database.Condition{"user_id": user}))
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID > items[j].ID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

// CleanupNotifications deletes the notifications created before deadline
func (c *Core) CleanupNotifications(ctx context.Context, deadline time.Time) (int, error) {
	items, err := c.Notifications.List(ctx)
	if err != nil {
		return 0, err
	}
	expired := lo.Filter(items, func(item models.Notification, index int) bool {
		return item.CreatedAt.Before(deadline)
	})
	var count int
	for _, item := range expired {
		if err := c.Notifications.Delete(ctx, item.ID); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// DoAutoDatabaseCleanup drops the notifications older than the retention window
func (c *Core) DoAutoDatabaseCleanup() {
	if c.options.NotificationRetention <= 0 {
		return
	}
	deadline := c.clock().Add(-c.options.NotificationRetention)
	log.Debug().Time("deadline", deadline).Msg("Now cleaning up entire database...")

	count, err := c.CleanupNotifications(context.Background(), deadline)
	if err != nil {
		log.Error().Err(err).Int("count", count).Msg("An error occurred when cleaning up notifications...")
		return
	}

	log.Debug().Int("count", count).Msg("Clean up entire database accomplished.")
}
