package services

import (
	"context"
	"errors"
	"fmt"

	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/database"
	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/errs"
	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/models"
	"github.com/rs/zerolog/log"
)

type DeletionPolicy string

const (
	DeletionIgnore   = DeletionPolicy("ignore")
	DeletionCascade  = DeletionPolicy("cascade")
	DeletionRestrict = DeletionPolicy("restrict")
)

const (
	RelationUserPosts         = "user_posts"
	RelationUserComments      = "user_comments"
	RelationUserReactions     = "user_reactions"
	RelationUserFollows       = "user_follows"
	RelationUserMessages      = "user_messages"
	RelationUserNotifications = "user_notifications"
	RelationPostComments      = "post_comments"
	RelationPostReactions     = "post_reactions"
)

var RelationsOfUser = []string{
	RelationUserPosts,
	RelationUserComments,
	RelationUserReactions,
	RelationUserFollows,
	RelationUserMessages,
	RelationUserNotifications,
}

var RelationsOfPost = []string{
	RelationPostComments,
	RelationPostReactions,
}

// DeletionPolicies maps a relation to what happens to its dependents when the parent is deleted.
// Relations left out are ignored, dependents are orphaned.
type DeletionPolicies map[string]DeletionPolicy

func (v DeletionPolicies) Of(relation string) DeletionPolicy {
	if policy, ok := v[relation]; ok {
		return policy
	}
	return DeletionIgnore
}

func ParseDeletionPolicies(in map[string]string) (DeletionPolicies, error) {
	known := make(map[string]bool)
	for _, name := range append(append([]string{}, RelationsOfUser...), RelationsOfPost...) {
		known[name] = true
	}
	out := make(DeletionPolicies, len(in))
	for relation, value := range in {
		if !known[relation] {
			return nil, fmt.Errorf("unknown deletion relation %s", relation)
		}
		switch policy := DeletionPolicy(value); policy {
		case DeletionIgnore, DeletionCascade, DeletionRestrict:
			out[relation] = policy
		default:
			return nil, fmt.Errorf("unknown deletion policy %q for %s", value, relation)
		}
	}
	return out, nil
}

type relation struct {
	name  string
	count func(ctx context.Context, key int64) (int64, error)
	purge func(ctx context.Context, key int64) (int, error)
}

func bindRelation[T models.Entity](name string, r *Resource[T], filterOf func(key int64) database.Filter) relation {
	return relation{
		name: name,
		count: func(ctx context.Context, key int64) (int64, error) {
			return r.Count(ctx, filterOf(key))
		},
		purge: func(ctx context.Context, key int64) (int, error) {
			return r.DeleteWhere(ctx, filterOf(key))
		},
	}
}

func byField(field string) func(key int64) database.Filter {
	return func(key int64) database.Filter {
		return database.Where(database.Condition{field: key})
	}
}

func byEitherField(a, b string) func(key int64) database.Filter {
	return func(key int64) database.Filter {
		return database.Where(database.Condition{a: key}).Or(database.Condition{b: key})
	}
}

func (c *Core) bindRelations() map[string]relation {
	return map[string]relation{
		RelationUserPosts:         bindRelation(RelationUserPosts, c.Posts, byField("user_id")),
		RelationUserComments:      bindRelation(RelationUserComments, c.Comments, byField("user_id")),
		RelationUserReactions:     bindRelation(RelationUserReactions, c.Reactions, byField("user_id")),
		RelationUserFollows:       bindRelation(RelationUserFollows, c.Follows, byEitherField("follower_id", "followed_id")),
		RelationUserMessages:      bindRelation(RelationUserMessages, c.Messages, byEitherField("sender_id", "recipient_id")),
		RelationUserNotifications: bindRelation(RelationUserNotifications, c.Notifications, byField("user_id")),
		RelationPostComments:      bindRelation(RelationPostComments, c.Comments, byField("post_id")),
		RelationPostReactions:     bindRelation(RelationPostReactions, c.Reactions, byField("post_id")),
	}
}

func deletionHook[T models.Entity](c *Core, names ...string) func(ctx context.Context, item T) error {
	return func(ctx context.Context, item T) error {
		return c.ApplyDeletionPolicies(ctx, item.EntityName(), item.BusinessKey(), names...)
	}
}

// ApplyDeletionPolicies runs the policies of the named relations for the parent under key.
// Every restricted relation is checked before anything cascades.
func (c *Core) ApplyDeletionPolicies(ctx context.Context, entity string, key int64, names ...string) error {
	for _, name := range names {
		if c.options.Deletion.Of(name) != DeletionRestrict {
			continue
		}
		count, err := c.relations[name].count(ctx, key)
		if err != nil {
			return err
		}
		if count > 0 {
			return errs.NewRestrictedDeleteError(entity, key, name, count)
		}
	}
	for _, name := range names {
		if c.options.Deletion.Of(name) != DeletionCascade {
			continue
		}
		purged, err := c.relations[name].purge(ctx, key)
		if err != nil {
			return err
		}
		if purged > 0 {
			log.Debug().
				Str("entity", entity).
				Int64("key", key).
				Str("relation", name).
				Int("count", purged).
				Msg("Cascaded deletion to dependents...")
		}
	}
	return nil
}

// HandleDeletionEvent removes a user or post deleted by another service.
// The deletion policies still run when the record is already gone.
func (c *Core) HandleDeletionEvent(ctx context.Context, resourceType string, key int64) error {
	var err error
	var names []string
	switch resourceType {
	case models.User{}.EntityName():
		names = RelationsOfUser
		err = c.Users.Delete(ctx, key)
	case models.Post{}.EntityName():
		names = RelationsOfPost
		err = c.Posts.Delete(ctx, key)
	default:
		return errs.NewValidationError("event", "type", "oneof")
	}
	if errors.Is(err, errs.ErrNotFound) {
		return c.ApplyDeletionPolicies(ctx, resourceType, key, names...)
	}
	return err
}
