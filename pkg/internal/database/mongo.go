package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/errs"
	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/models"
	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type MongoDatabase struct {
	C *mongo.Database
}

func NewMongo(ctx context.Context, uri, name string) (*MongoDatabase, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("unable to connect mongo: %v", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("unable to ping mongo: %v", err)
	}
	return &MongoDatabase{C: client.Database(name)}, nil
}

func (v *MongoDatabase) Driver() string {
	return DriverMongo
}

func (v *MongoDatabase) Migrate(ctx context.Context, entities ...models.Entity) error {
	for _, entity := range entities {
		fields := []string{entity.KeyField()}
		for field := range entity.UniqueFields() {
			fields = append(fields, field)
		}
		var indexes []mongo.IndexModel
		for _, field := range fields {
			indexes = append(indexes, mongo.IndexModel{
				Keys:    bson.D{{Key: field, Value: 1}},
				Options: options.Index().SetUnique(true).SetName(field + "_unique"),
			})
		}
		if _, err := v.C.Collection(entity.CollectionName()).Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("unable to create indexes for %s: %v", entity.CollectionName(), err)
		}
	}
	return nil
}

func (v *MongoDatabase) Close() error {
	return v.C.Client().Disconnect(context.Background())
}

type mongoCollection[T models.Entity] struct {
	coll *mongo.Collection
}

func (c *mongoCollection[T]) checkUnique(ctx context.Context, item T, checkKey bool) error {
	meta := entityOf[T]()
	if checkKey {
		count, err := c.coll.CountDocuments(ctx, bson.M{meta.KeyField(): item.BusinessKey()})
		if err != nil {
			return err
		}
		if count > 0 {
			return errs.NewDuplicateKeyError(meta.EntityName(), meta.KeyField(), item.BusinessKey())
		}
	}
	for field, value := range item.UniqueFields() {
		count, err := c.coll.CountDocuments(ctx, bson.M{
			field:           value,
			meta.KeyField(): bson.M{"$ne": item.BusinessKey()},
		})
		if err != nil {
			return err
		}
		if count > 0 {
			return errs.NewDuplicateKeyError(meta.EntityName(), field, value)
		}
	}
	return nil
}

// indexField finds the column whose "<column>_unique" index rejected the write
func indexField[T models.Entity](err error) string {
	meta := entityOf[T]()
	var messages []string
	var writeErr mongo.WriteException
	if errors.As(err, &writeErr) {
		for _, item := range writeErr.WriteErrors {
			messages = append(messages, item.Message)
		}
	} else {
		messages = append(messages, err.Error())
	}
	fields := append([]string{meta.KeyField()}, lo.Keys(meta.UniqueFields())...)
	for _, message := range messages {
		for _, field := range fields {
			if strings.Contains(message, "index: "+field+"_unique") {
				return field
			}
		}
	}
	return ""
}

func (c *mongoCollection[T]) translate(err error, operation string, key int64) error {
	meta := entityOf[T]()
	switch {
	case errs.TypeOf(err) != "":
		return err
	case errors.Is(err, mongo.ErrNoDocuments):
		return errs.NewNotFoundError(meta.EntityName(), key)
	case mongo.IsDuplicateKeyError(err):
		return errs.NewDuplicateKeyError(meta.EntityName(), indexField[T](err), nil)
	default:
		return errs.NewStorageError(meta.EntityName(), operation, err)
	}
}

func (c *mongoCollection[T]) Create(ctx context.Context, item T) (T, error) {
	var zero T
	if err := c.checkUnique(ctx, item, true); err != nil {
		return zero, c.translate(err, "create", item.BusinessKey())
	}
	if _, err := c.coll.InsertOne(ctx, item); err != nil {
		return zero, c.translate(err, "create", item.BusinessKey())
	}
	return item, nil
}

func (c *mongoCollection[T]) Get(ctx context.Context, key int64) (T, error) {
	var item T
	meta := entityOf[T]()
	if err := c.coll.FindOne(ctx, bson.M{meta.KeyField(): key}).Decode(&item); err != nil {
		return item, c.translate(err, "get", key)
	}
	return item, nil
}

func (c *mongoCollection[T]) Find(ctx context.Context, filter Filter) ([]T, error) {
	meta := entityOf[T]()
	cursor, err := c.coll.Find(ctx, filter.toBson(), options.Find().SetSort(bson.D{{Key: meta.KeyField(), Value: 1}}))
	if err != nil {
		return nil, c.translate(err, "find", 0)
	}
	var items []T
	if err := cursor.All(ctx, &items); err != nil {
		return nil, c.translate(err, "find", 0)
	}
	return items, nil
}

func (c *mongoCollection[T]) Count(ctx context.Context, filter Filter) (int64, error) {
	count, err := c.coll.CountDocuments(ctx, filter.toBson())
	if err != nil {
		return 0, c.translate(err, "count", 0)
	}
	return count, nil
}

func (c *mongoCollection[T]) Update(ctx context.Context, item T) (T, error) {
	var zero T
	meta := entityOf[T]()
	if err := c.checkUnique(ctx, item, false); err != nil {
		return zero, c.translate(err, "update", item.BusinessKey())
	}
	res, err := c.coll.ReplaceOne(ctx, bson.M{meta.KeyField(): item.BusinessKey()}, item)
	if err != nil {
		return zero, c.translate(err, "update", item.BusinessKey())
	}
	if res.MatchedCount == 0 {
		return zero, errs.NewNotFoundError(meta.EntityName(), item.BusinessKey())
	}
	return item, nil
}

func (c *mongoCollection[T]) Delete(ctx context.Context, key int64) error {
	meta := entityOf[T]()
	res, err := c.coll.DeleteOne(ctx, bson.M{meta.KeyField(): key})
	if err != nil {
		return c.translate(err, "delete", key)
	}
	if res.DeletedCount == 0 {
		return errs.NewNotFoundError(meta.EntityName(), key)
	}
	return nil
}
