package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversationOrdering(t *testing.T) {
	ctx := context.Background()
	core := newTestCore(t, Options{})

	messages := []struct {
		id       int64
		from, to int64
		at       time.Time
	}{
		{5, 1, 2, epoch.Add(2 * time.Second)},
		{3, 2, 1, epoch},
		{4, 1, 2, epoch},
		{6, 1, 3, epoch},
		{7, 3, 2, epoch},
	}
	for _, m := range messages {
		_, err := core.Messages.Create(ctx, Payload{
			"message_id":   m.id,
			"sender_id":    m.from,
			"recipient_id": m.to,
			"content":      "hey",
			"sent_at":      m.at.Format(time.RFC3339Nano),
		})
		require.NoError(t, err)
	}

	conversation, err := core.Conversation(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 4, 5}, keysOf(conversation))

	reversed, err := core.Conversation(ctx, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, keysOf(conversation), keysOf(reversed))

	sent, err := core.SentBy(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 5, 6}, keysOf(sent))

	received, err := core.ReceivedBy(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 5, 7}, keysOf(received))
}
