package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationsNewestFirst(t *testing.T) {
	ctx := context.Background()
	core := newTestCore(t, Options{})

	stamps := map[int64]time.Time{
		1: epoch,
		2: epoch.Add(time.Minute),
		3: epoch,
	}
	for id, stamp := range stamps {
		_, err := core.Notifications.Create(ctx, Payload{"notification_id": id, "user_id": 1, "message": "ping", "created_at": stamp})
		require.NoError(t, err)
	}
	_, err := core.Notifications.Create(ctx, Payload{"notification_id": 4, "user_id": 2, "message": "ping"})
	require.NoError(t, err)

	items, err := core.NotificationsFor(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3, 1}, keysOf(items))
}

func TestCleanupNotifications(t *testing.T) {
	ctx := context.Background()
	now := epoch
	core := newTestCore(t, Options{
		NotificationRetention: 24 * time.Hour,
		Now:                   func() time.Time { return now },
	})

	_, err := core.Notifications.Create(ctx, Payload{"notification_id": 1, "user_id": 1, "message": "old"})
	require.NoError(t, err)
	now = epoch.Add(48 * time.Hour)
	_, err = core.Notifications.Create(ctx, Payload{"notification_id": 2, "user_id": 1, "message": "new"})
	require.NoError(t, err)

	core.DoAutoDatabaseCleanup()

	_, err = core.Notifications.Get(ctx, 1)
	assert.True(t, errors.Is(err, errs.ErrNotFound))
	_, err = core.Notifications.Get(ctx, 2)
	assert.NoError(t, err)

	count, err := core.CleanupNotifications(ctx, now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestLaterNotificationReadFirst(t *testing.T) {
	ctx := context.Background()
	core := newTestCore(t, Options{})

	for id := int64(1); id <= 3; id++ {
		_, err := core.Notifications.Create(ctx, Payload{"notification_id": id, "user_id": 1, "message": "ping", "created_at": epoch.Add(time.Duration(id) * time.Minute)})
		require.NoError(t, err)
	}
	before, err := core.NotificationsFor(ctx, 1)
	require.NoError(t, err)
	require.Len(t, before, 3)

	_, err = core.Notifications.Create(ctx, Payload{"notification_id": 0x10, "user_id": 1, "message": "latest", "created_at": before[0].CreatedAt.Add(time.Second)})
	require.NoError(t, err)

	after, err := core.NotificationsFor(ctx, 1)
	require.NoError(t, err)
	require.Len(t, after, 4)
	assert.Equal(t, int64(0x10), after[0].ID)
	assert.Equal(t, keysOf(before), keysOf(after[1:]))
}
