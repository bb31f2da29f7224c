package services

import (
	"context"
	"errors"
	"testing"

	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedGraph(t *testing.T, core *Core) {
	t.Helper()
	ctx := context.Background()
	createUser(t, core, 1, "ana")
	createUser(t, core, 2, "bob")

	writes := []func() error{
		func() error {
			_, err := core.Posts.Create(ctx, Payload{"post_id": 10, "user_id": 1, "content": "hi"})
			return err
		},
		func() error {
			_, err := core.Posts.Create(ctx, Payload{"post_id": 20, "user_id": 2, "content": "yo"})
			return err
		},
		func() error {
			_, err := core.Comments.Create(ctx, Payload{"comment_id": 100, "user_id": 2, "post_id": 10, "text": "nice"})
			return err
		},
		func() error {
			_, err := core.Reactions.Create(ctx, Payload{"reaction_id": 1000, "user_id": 2, "post_id": 10, "kind": "love"})
			return err
		},
		func() error {
			_, err := core.Follows.Create(ctx, Payload{"follow_id": 1, "follower_id": 2, "followed_id": 1})
			return err
		},
		func() error {
			_, err := core.Messages.Create(ctx, Payload{"message_id": 1, "sender_id": 2, "recipient_id": 1, "content": "hey"})
			return err
		},
		func() error {
			_, err := core.Notifications.Create(ctx, Payload{"notification_id": 1, "user_id": 1, "message": "bob followed you"})
			return err
		},
	}
	for _, write := range writes {
		require.NoError(t, write())
	}
}

func TestDeletionIgnoreOrphansDependents(t *testing.T) {
	ctx := context.Background()
	core := newTestCore(t, Options{})
	seedGraph(t, core)

	require.NoError(t, core.Posts.Delete(ctx, 10))

	comments, err := core.CommentsForPost(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, comments, 1)
}

func TestDeletionCascade(t *testing.T) {
	ctx := context.Background()
	core := newTestCore(t, Options{Deletion: DeletionPolicies{
		RelationUserPosts:     DeletionCascade,
		RelationUserFollows:   DeletionCascade,
		RelationUserMessages:  DeletionCascade,
		RelationPostComments:  DeletionCascade,
		RelationPostReactions: DeletionCascade,
	}})
	seedGraph(t, core)

	require.NoError(t, core.Users.Delete(ctx, 1))

	_, err := core.Posts.Get(ctx, 10)
	assert.True(t, errors.Is(err, errs.ErrNotFound))
	_, err = core.Comments.Get(ctx, 100)
	assert.True(t, errors.Is(err, errs.ErrNotFound))
	_, err = core.Reactions.Get(ctx, 1000)
	assert.True(t, errors.Is(err, errs.ErrNotFound))
	_, err = core.Follows.Get(ctx, 1)
	assert.True(t, errors.Is(err, errs.ErrNotFound))
	_, err = core.Messages.Get(ctx, 1)
	assert.True(t, errors.Is(err, errs.ErrNotFound))

	// Not cascaded
	_, err = core.Notifications.Get(ctx, 1)
	assert.NoError(t, err)
	_, err = core.Posts.Get(ctx, 20)
	assert.NoError(t, err)
}

func TestDeletionRestrict(t *testing.T) {
	ctx := context.Background()
	core := newTestCore(t, Options{Deletion: DeletionPolicies{
		RelationUserPosts:     DeletionCascade,
		RelationPostComments:  DeletionCascade,
		RelationPostReactions: DeletionRestrict,
	}})
	seedGraph(t, core)

	err := core.Users.Delete(ctx, 1)
	assert.True(t, errors.Is(err, errs.ErrRestricted))

	err = core.Posts.Delete(ctx, 10)
	var restricted *errs.RestrictedDeleteError
	require.True(t, errors.As(err, &restricted))
	assert.Equal(t, RelationPostReactions, restricted.Relation)

	// Restricted relations are checked before anything cascades
	_, err = core.Comments.Get(ctx, 100)
	assert.NoError(t, err)
	_, err = core.Posts.Get(ctx, 10)
	assert.NoError(t, err)

	require.NoError(t, core.Reactions.Delete(ctx, 1000))
	require.NoError(t, core.Posts.Delete(ctx, 10))
	_, err = core.Comments.Get(ctx, 100)
	assert.True(t, errors.Is(err, errs.ErrNotFound))
}

func TestHandleDeletionEvent(t *testing.T) {
	ctx := context.Background()
	core := newTestCore(t, Options{Deletion: DeletionPolicies{
		RelationPostComments: DeletionCascade,
	}})
	seedGraph(t, core)

	require.NoError(t, core.HandleDeletionEvent(ctx, "post", 10))
	_, err := core.Posts.Get(ctx, 10)
	assert.True(t, errors.Is(err, errs.ErrNotFound))
	_, err = core.Comments.Get(ctx, 100)
	assert.True(t, errors.Is(err, errs.ErrNotFound))

	// Already gone, the event is still accepted
	assert.NoError(t, core.HandleDeletionEvent(ctx, "post", 10))
	assert.NoError(t, core.HandleDeletionEvent(ctx, "user", 42))

	err = core.HandleDeletionEvent(ctx, "comment", 100)
	var invalid *errs.ValidationError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "type", invalid.Field)
}

func TestParseDeletionPolicies(t *testing.T) {
	policies, err := ParseDeletionPolicies(map[string]string{
		RelationUserPosts:    "cascade",
		RelationPostComments: "restrict",
	})
	require.NoError(t, err)
	assert.Equal(t, DeletionCascade, policies.Of(RelationUserPosts))
	assert.Equal(t, DeletionRestrict, policies.Of(RelationPostComments))
	assert.Equal(t, DeletionIgnore, policies.Of(RelationUserMessages))

	_, err = ParseDeletionPolicies(map[string]string{"user_likes": "cascade"})
	assert.Error(t, err)
	_, err = ParseDeletionPolicies(map[string]string{RelationUserPosts: "nullify"})
	assert.Error(t, err)
}

func TestReferencesEnforced(t *testing.T) {
	ctx := context.Background()
	core := newTestCore(t, Options{EnforceReferences: true})
	createUser(t, core, 1, "ana")

	_, err := core.Posts.Create(ctx, Payload{"post_id": 10, "user_id": 9, "content": "hi"})
	var broken *errs.ReferentialIntegrityError
	require.True(t, errors.As(err, &broken))
	assert.Equal(t, "user_id", broken.Field)

	_, err = core.Posts.Create(ctx, Payload{"post_id": 10, "user_id": 1, "content": "hi"})
	require.NoError(t, err)

	_, err = core.Comments.Create(ctx, Payload{"comment_id": 100, "user_id": 1, "post_id": 11, "text": "nice"})
	require.True(t, errors.As(err, &broken))
	assert.Equal(t, "post_id", broken.Field)
}

func TestReferencesNotEnforcedByDefault(t *testing.T) {
	core := newTestCore(t, Options{})

	_, err := core.Comments.Create(context.Background(), Payload{"comment_id": 100, "user_id": 7, "post_id": 77, "text": "orphan"})
	assert.NoError(t, err)
}
