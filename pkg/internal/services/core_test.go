package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/cache"
	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/database"
	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/errs"
	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/models"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 11, 1, 12, 0, 0, 0, time.UTC)

func newTestCore(t *testing.T, options Options) *Core {
	t.Helper()
	db, err := database.NewBolt(filepath.Join(t.TempDir(), "socialgraph.db"))
	require.NoError(t, err)
	require.NoError(t, database.RunMigration(context.Background(), db))
	t.Cleanup(func() {
		_ = db.Close()
	})

	cacheStore, err := cache.NewStore()
	require.NoError(t, err)

	if options.Now == nil {
		options.Now = func() time.Time { return epoch }
	}
	return NewCore(db, cacheStore, options)
}

func createUser(t *testing.T, core *Core, id int64, username string) models.User {
	t.Helper()
	user, err := core.Users.Create(context.Background(), Payload{
		"user_id":  id,
		"username": username,
		"email":    username + "@x.com",
		"password": "secret1",
	})
	require.NoError(t, err)
	return user
}

func keysOf[T models.Entity](items []T) []int64 {
	return lo.Map(items, func(item T, index int) int64 {
		return item.BusinessKey()
	})
}

func TestScenario(t *testing.T) {
	ctx := context.Background()
	core := newTestCore(t, Options{})

	ana, err := core.Users.Create(ctx, Payload{
		"user_id":  1,
		"username": "ana",
		"email":    "ana@x.com",
		"password": "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, "ana", ana.Username)

	_, err = core.Users.Create(ctx, Payload{
		"user_id":  2,
		"username": "ana",
		"email":    "b@x.com",
		"password": "x",
	})
	var dup *errs.DuplicateKeyError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "username", dup.Field)

	post, err := core.Posts.Create(ctx, Payload{"post_id": 10, "user_id": 1, "content": "hi"})
	require.NoError(t, err)
	assert.True(t, post.CreatedAt.Equal(epoch))

	_, err = core.Comments.Create(ctx, Payload{"comment_id": 100, "user_id": 1, "post_id": 10, "text": "nice"})
	require.NoError(t, err)
	comments, err := core.CommentsForPost(ctx, 10)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, int64(100), comments[0].ID)
	assert.Equal(t, "nice", comments[0].Text)
	mine, err := core.CommentsBy(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, keysOf(comments), keysOf(mine))

	t1 := epoch.Add(time.Minute)
	t2 := t1.Add(time.Second)
	_, err = core.Messages.Create(ctx, Payload{"message_id": 2, "sender_id": 2, "recipient_id": 1, "content": "yo", "sent_at": t2})
	require.NoError(t, err)
	_, err = core.Messages.Create(ctx, Payload{"message_id": 1, "sender_id": 1, "recipient_id": 2, "content": "hey", "sent_at": t1})
	require.NoError(t, err)

	forward, err := core.Conversation(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, keysOf(forward))
	backward, err := core.Conversation(ctx, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, keysOf(forward), keysOf(backward))
}

func TestUniqueFieldsRejectDuplicates(t *testing.T) {
	ctx := context.Background()
	core := newTestCore(t, Options{})
	createUser(t, core, 1, "ana")

	_, err := core.Users.Create(ctx, Payload{"user_id": 2, "username": "bob", "email": "ana@x.com", "password": "secret1"})
	var dup *errs.DuplicateKeyError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "email", dup.Field)

	_, err = core.Users.Create(ctx, Payload{"user_id": 1, "username": "carl", "email": "carl@x.com", "password": "secret1"})
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "user_id", dup.Field)

	_, err = core.Posts.Create(ctx, Payload{"post_id": 10, "user_id": 1, "content": "hi"})
	require.NoError(t, err)
	_, err = core.Posts.Create(ctx, Payload{"post_id": 10, "user_id": 1, "content": "again"})
	assert.True(t, errors.Is(err, errs.ErrDuplicateKey))
}

func TestUpdateMergesPayload(t *testing.T) {
	ctx := context.Background()
	core := newTestCore(t, Options{})
	createUser(t, core, 1, "ana")
	createUser(t, core, 2, "bob")

	payload := Payload{"bio": "Nature lover", "profile_photo": "https://x.com/ana.png"}
	updated, err := core.Users.Update(ctx, 1, payload)
	require.NoError(t, err)
	assert.Equal(t, "ana", updated.Username)
	assert.Equal(t, "Nature lover", updated.Bio)

	got, err := core.Users.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, updated, got)

	again, err := core.Users.Update(ctx, 1, payload)
	require.NoError(t, err)
	assert.Equal(t, got, again)

	_, err = core.Users.Update(ctx, 2, Payload{"username": "ana"})
	assert.True(t, errors.Is(err, errs.ErrDuplicateKey))
}

func TestUpdateKeepsPathKey(t *testing.T) {
	ctx := context.Background()
	core := newTestCore(t, Options{})
	createUser(t, core, 1, "ana")

	updated, err := core.Users.Update(ctx, 1, Payload{"user_id": 99, "bio": "moved?"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated.ID)

	_, err = core.Users.Get(ctx, 99)
	assert.True(t, errors.Is(err, errs.ErrNotFound))
}

func TestUpdateNeverInserts(t *testing.T) {
	ctx := context.Background()
	core := newTestCore(t, Options{})

	_, err := core.Users.Update(ctx, 7, Payload{"username": "ghost", "email": "ghost@x.com", "password": "secret1"})
	assert.True(t, errors.Is(err, errs.ErrNotFound))

	items, err := core.Users.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestUpdateRevalidatesMergedRecord(t *testing.T) {
	ctx := context.Background()
	core := newTestCore(t, Options{})
	createUser(t, core, 1, "ana")

	_, err := core.Users.Update(ctx, 1, Payload{"email": "not-an-email"})
	var invalid *errs.ValidationError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "email", invalid.Field)
	assert.Equal(t, "email", invalid.Rule)

	got, err := core.Users.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "ana@x.com", got.Email)
}

func TestDeleteTwiceReportsNotFound(t *testing.T) {
	ctx := context.Background()
	core := newTestCore(t, Options{})
	createUser(t, core, 1, "ana")

	require.NoError(t, core.Users.Delete(ctx, 1))
	_, err := core.Users.Get(ctx, 1)
	assert.True(t, errors.Is(err, errs.ErrNotFound))
	assert.True(t, errors.Is(core.Users.Delete(ctx, 1), errs.ErrNotFound))
}

func TestValidationRules(t *testing.T) {
	ctx := context.Background()
	core := newTestCore(t, Options{})

	cases := []struct {
		name   string
		create func() error
		field  string
		rule   string
	}{
		{"short username", func() error {
			_, err := core.Users.Create(ctx, Payload{"user_id": 1, "username": "an", "email": "an@x.com", "password": "secret1"})
			return err
		}, "username", "min"},
		{"bad email", func() error {
			_, err := core.Users.Create(ctx, Payload{"user_id": 1, "username": "ana", "email": "ana", "password": "secret1"})
			return err
		}, "email", "email"},
		{"short password", func() error {
			_, err := core.Users.Create(ctx, Payload{"user_id": 1, "username": "ana", "email": "ana@x.com", "password": "x"})
			return err
		}, "password", "min"},
		{"missing key", func() error {
			_, err := core.Posts.Create(ctx, Payload{"user_id": 1, "content": "hi"})
			return err
		}, "post_id", "required"},
		{"empty content", func() error {
			_, err := core.Posts.Create(ctx, Payload{"post_id": 1, "user_id": 1, "content": ""})
			return err
		}, "content", "required"},
		{"bad media url", func() error {
			_, err := core.Posts.Create(ctx, Payload{"post_id": 1, "user_id": 1, "content": "hi", "media_url": "nope"})
			return err
		}, "media_url", "url"},
		{"mistyped key", func() error {
			_, err := core.Posts.Create(ctx, Payload{"post_id": "ten", "user_id": 1, "content": "hi"})
			return err
		}, "post_id", "type"},
		{"fractional key", func() error {
			_, err := core.Comments.Create(ctx, Payload{"comment_id": 1.5, "user_id": 1, "post_id": 1, "text": "hi"})
			return err
		}, "comment_id", "type"},
		{"key out of range", func() error {
			_, err := core.Users.Create(ctx, Payload{"user_id": 1e20, "username": "ana", "email": "ana@x.com", "password": "secret1"})
			return err
		}, "user_id", "type"},
		{"key beyond exact floats", func() error {
			_, err := core.Posts.Create(ctx, Payload{"post_id": float64(1<<53) * 4, "user_id": 1, "content": "hi"})
			return err
		}, "post_id", "type"},
		{"bad timestamp", func() error {
			_, err := core.Messages.Create(ctx, Payload{"message_id": 1, "sender_id": 1, "recipient_id": 2, "content": "hey", "sent_at": "yesterday"})
			return err
		}, "sent_at", "type"},
		{"unknown reaction", func() error {
			_, err := core.Reactions.Create(ctx, Payload{"reaction_id": 1, "user_id": 1, "post_id": 1, "kind": "meh"})
			return err
		}, "kind", "oneof"},
		{"long bio", func() error {
			_, err := core.Users.Create(ctx, Payload{"user_id": 1, "username": "ana", "email": "ana@x.com", "password": "secret1", "bio": string(make([]byte, 501))})
			return err
		}, "bio", "max"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var invalid *errs.ValidationError
			require.True(t, errors.As(tc.create(), &invalid))
			assert.Equal(t, tc.field, invalid.Field)
			assert.Equal(t, tc.rule, invalid.Rule)
		})
	}
}

func TestOptionalFieldsAndUnknownKeys(t *testing.T) {
	ctx := context.Background()
	core := newTestCore(t, Options{})

	post, err := core.Posts.Create(ctx, Payload{"post_id": 1, "user_id": 1, "content": "hi", "media_url": "", "likes": 3})
	require.NoError(t, err)
	assert.Empty(t, post.MediaURL)

	note, err := core.Notifications.Create(ctx, Payload{
		"notification_id": 1,
		"user_id":         1,
		"message":         "ana followed you",
		"metadata":        map[string]any{"follower_id": 1},
	})
	require.NoError(t, err)
	assert.Contains(t, note.Metadata, "follower_id")
}

func TestReactionsAllowRepeats(t *testing.T) {
	ctx := context.Background()
	core := newTestCore(t, Options{})

	for id, kind := range []string{models.ReactionLike, models.ReactionLike, models.ReactionWow} {
		_, err := core.Reactions.Create(ctx, Payload{"reaction_id": id + 1, "user_id": 1, "post_id": 10, "kind": kind})
		require.NoError(t, err)
	}

	items, err := core.ReactionsForPost(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, items, 3)

	summary, err := core.CountReactionsForPost(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"like": 2, "wow": 1}, summary)
}

func TestInsertTypedRecord(t *testing.T) {
	ctx := context.Background()
	core := newTestCore(t, Options{})

	item, err := core.Follows.Insert(ctx, models.Follow{ID: 1, FollowerID: 1, FollowedID: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(1), item.FollowedID)

	_, err = core.Follows.Insert(ctx, models.Follow{ID: 2})
	assert.True(t, errors.Is(err, errs.ErrValidation))
}

func TestDateOnlyTimestamps(t *testing.T) {
	ctx := context.Background()
	core := newTestCore(t, Options{})

	post, err := core.Posts.Create(ctx, Payload{"post_id": 1, "user_id": 1, "content": "hi", "created_at": "2024-11-01"})
	require.NoError(t, err)
	assert.True(t, post.CreatedAt.Equal(time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)))
}

func TestUpdateKeepsTimestampOnNull(t *testing.T) {
	ctx := context.Background()
	now := epoch
	core := newTestCore(t, Options{Now: func() time.Time { return now }})

	_, err := core.Posts.Create(ctx, Payload{"post_id": 1, "user_id": 1, "content": "hi"})
	require.NoError(t, err)

	now = epoch.Add(time.Hour)
	updated, err := core.Posts.Update(ctx, 1, Payload{"created_at": nil, "content": "edited"})
	require.NoError(t, err)
	assert.True(t, updated.CreatedAt.Equal(epoch))
	assert.Equal(t, "edited", updated.Content)
}

func TestConcurrentCreatesKeepUniqueness(t *testing.T) {
	ctx := context.Background()
	core := newTestCore(t, Options{})

	const writers = 20
	var wg sync.WaitGroup
	results := make(chan error, writers*2)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			_, err := core.Users.Create(ctx, Payload{
				"user_id":  id,
				"username": "ana",
				"email":    fmt.Sprintf("ana%d@x.com", id),
				"password": "secret1",
			})
			results <- err
			_, err = core.Users.Create(ctx, Payload{
				"user_id":  id + 100,
				"username": fmt.Sprintf("user%d", id),
				"email":    "shared@x.com",
				"password": "secret1",
			})
			results <- err
		}(int64(i + 1))
	}
	wg.Wait()
	close(results)

	var created int
	for err := range results {
		if err == nil {
			created++
			continue
		}
		assert.True(t, errors.Is(err, errs.ErrDuplicateKey), err.Error())
	}
	assert.Equal(t, 2, created)

	byName, err := core.Users.Find(ctx, database.Where(database.Condition{"username": "ana"}))
	require.NoError(t, err)
	assert.Len(t, byName, 1)
	byEmail, err := core.Users.Find(ctx, database.Where(database.Condition{"email": "shared@x.com"}))
	require.NoError(t, err)
	assert.Len(t, byEmail, 1)
}
