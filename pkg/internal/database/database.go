package database

import (
	"context"
	"fmt"

	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/models"
)

const (
	DriverPostgres = "postgres"
	DriverBolt     = "bolt"
	DriverMongo    = "mongo"
)

// Database is the persistence collaborator. One logical collection per entity lives inside it.
type Database interface {
	Driver() string
	Migrate(ctx context.Context, entities ...models.Entity) error
	Close() error
}

// Collection maps the business key of T to its record.
// Every method touches a single record atomically; no method spans collections.
type Collection[T models.Entity] interface {
	Create(ctx context.Context, item T) (T, error)
	Get(ctx context.Context, key int64) (T, error)
	Find(ctx context.Context, filter Filter) ([]T, error)
	Count(ctx context.Context, filter Filter) (int64, error)
	// Update replaces the record stored under item's key. It never inserts.
	Update(ctx context.Context, item T) (T, error)
	Delete(ctx context.Context, key int64) error
}

// Config selects and locates the backend
type Config struct {
	Driver string
	DSN    string
	Name   string
	Debug  bool
}

func Open(ctx context.Context, cfg Config) (Database, error) {
	switch cfg.Driver {
	case DriverPostgres, "":
		return NewGorm(cfg.DSN, cfg.Debug)
	case DriverBolt:
		return NewBolt(cfg.DSN)
	case DriverMongo:
		return NewMongo(ctx, cfg.DSN, cfg.Name)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
}

// NewCollection binds the collection of T inside db
func NewCollection[T models.Entity](db Database) Collection[T] {
	var inner Collection[T]
	switch v := db.(type) {
	case *GormDatabase:
		inner = &gormCollection[T]{db: v.C}
	case *BoltDatabase:
		inner = &boltCollection[T]{db: v.C}
	case *MongoDatabase:
		var zero T
		inner = &mongoCollection[T]{coll: v.C.Collection(zero.CollectionName())}
	default:
		panic(fmt.Sprintf("unsupported database type %T", db))
	}
	return &instrumentedCollection[T]{inner: inner}
}

func entityOf[T models.Entity]() T {
	var zero T
	return zero
}
