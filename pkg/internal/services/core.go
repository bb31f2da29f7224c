package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	localCache "git.solsynth.dev/hypernet/socialgraph/pkg/internal/cache"
	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/database"
	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/errs"
	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/models"
	"github.com/eko/gocache/lib/v4/marshaler"
	"github.com/eko/gocache/lib/v4/store"
	"github.com/spf13/viper"
)

type Options struct {
	// EnforceReferences checks that referenced users and posts exist before a dependent write
	EnforceReferences bool
	Deletion          DeletionPolicies
	DetectLanguage    bool
	// NotificationRetention is how long notifications are kept, zero keeps them forever
	NotificationRetention time.Duration
	Verifier              CredentialVerifier
	Now                   func() time.Time
}

// OptionsFromSettings reads the options from the loaded settings
func OptionsFromSettings() (Options, error) {
	verifier, err := NewCredentialVerifier(
		viper.GetString("security.credential_verifier"),
		viper.GetInt("security.bcrypt_cost"),
	)
	if err != nil {
		return Options{}, err
	}
	policies, err := ParseDeletionPolicies(viper.GetStringMapString("deletion"))
	if err != nil {
		return Options{}, err
	}
	return Options{
		EnforceReferences:     viper.GetBool("integrity.enforce_references"),
		Deletion:              policies,
		DetectLanguage:        viper.GetBool("posts.detect_language"),
		NotificationRetention: viper.GetDuration("notifications.retention"),
		Verifier:              verifier,
	}, nil
}

// Core is the handle every operation runs against, it owns one resource per collection
type Core struct {
	Users         *Resource[models.User]
	Posts         *Resource[models.Post]
	Comments      *Resource[models.Comment]
	Reactions     *Resource[models.Reaction]
	Follows       *Resource[models.Follow]
	Messages      *Resource[models.Message]
	Notifications *Resource[models.Notification]

	db        database.Database
	cache     *marshaler.Marshaler
	options   Options
	relations map[string]relation

	followedVersions sync.Map
}

func NewCore(db database.Database, cacheStore store.StoreInterface, options Options) *Core {
	if options.Verifier == nil {
		options.Verifier = PlainVerifier{}
	}
	if options.Now == nil {
		options.Now = time.Now
	}
	if options.Deletion == nil {
		options.Deletion = DeletionPolicies{}
	}

	c := &Core{
		db:      db,
		cache:   localCache.NewMarshaler(cacheStore),
		options: options,
	}
	c.Users = newResource[models.User](c)
	c.Posts = newResource[models.Post](c)
	c.Comments = newResource[models.Comment](c)
	c.Reactions = newResource[models.Reaction](c)
	c.Follows = newResource[models.Follow](c)
	c.Messages = newResource[models.Message](c)
	c.Notifications = newResource[models.Notification](c)

	c.Users.beforeSave = c.hashUserPassword
	c.Users.beforeDelete = deletionHook[models.User](c, RelationsOfUser...)
	c.Posts.beforeSave = c.detectPostLanguage
	c.Posts.beforeDelete = deletionHook[models.Post](c, RelationsOfPost...)
	c.Follows.afterSave = c.invalidateFollowedSet
	c.Follows.afterDelete = func(ctx context.Context, item models.Follow) {
		c.invalidateFollowedSet(ctx, nil, item)
	}
	c.relations = c.bindRelations()

	return c
}

func (c *Core) Options() Options {
	return c.options
}

// clock is the default timestamp, truncated to what every backend can store
func (c *Core) clock() time.Time {
	return c.options.Now().UTC().Truncate(time.Microsecond)
}

func (c *Core) checkReferences(ctx context.Context, entity string, references []models.Reference) error {
	for _, ref := range references {
		var err error
		switch ref.Target {
		case models.User{}.CollectionName():
			_, err = c.Users.Get(ctx, ref.Key)
		case models.Post{}.CollectionName():
			_, err = c.Posts.Get(ctx, ref.Key)
		default:
			return fmt.Errorf("unknown reference target %s", ref.Target)
		}
		if errors.Is(err, errs.ErrNotFound) {
			return errs.NewReferentialIntegrityError(entity, ref.Field, ref.Target, ref.Key)
		} else if err != nil {
			return err
		}
	}
	return nil
}
