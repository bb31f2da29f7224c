package database

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/errs"
	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/models"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cast"
	bolt "go.etcd.io/bbolt"
)

var boltCodec = jsoniter.Config{
	EscapeHTML:             false,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	UseNumber:              true,
}.Froze()

// BoltDatabase keeps every collection in a bucket named after it.
// Unique columns get an index bucket "<collection>:<column>" mapping the value to the key.
type BoltDatabase struct {
	C *bolt.DB
}

func NewBolt(path string) (*BoltDatabase, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 3 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("unable to open bolt database: %v", err)
	}
	return &BoltDatabase{C: db}, nil
}

func (v *BoltDatabase) Driver() string {
	return DriverBolt
}

func (v *BoltDatabase) Migrate(ctx context.Context, entities ...models.Entity) error {
	return v.C.Update(func(tx *bolt.Tx) error {
		for _, entity := range entities {
			if _, err := tx.CreateBucketIfNotExists([]byte(entity.CollectionName())); err != nil {
				return err
			}
			for field := range entity.UniqueFields() {
				if _, err := tx.CreateBucketIfNotExists(indexBucketName(entity.CollectionName(), field)); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func (v *BoltDatabase) Close() error {
	return v.C.Close()
}

func indexBucketName(collection, field string) []byte {
	return []byte(collection + ":" + field)
}

// encodeKey keeps the signed order of keys under bolt's byte-wise ordering
func encodeKey(key int64) []byte {
	out := make([]byte, 8)
	binary.BigEndian.PutUint64(out, uint64(key)^(1<<63))
	return out
}

type boltCollection[T models.Entity] struct {
	db *bolt.DB
}

func (c *boltCollection[T]) buckets(tx *bolt.Tx) (*bolt.Bucket, map[string]*bolt.Bucket, error) {
	meta := entityOf[T]()
	name := []byte(meta.CollectionName())
	indexes := make(map[string]*bolt.Bucket)

	bucket := tx.Bucket(name)
	if bucket == nil && tx.Writable() {
		var err error
		if bucket, err = tx.CreateBucket(name); err != nil {
			return nil, nil, err
		}
	}
	for field := range meta.UniqueFields() {
		index := tx.Bucket(indexBucketName(meta.CollectionName(), field))
		if index == nil && tx.Writable() {
			var err error
			if index, err = tx.CreateBucket(indexBucketName(meta.CollectionName(), field)); err != nil {
				return nil, nil, err
			}
		}
		indexes[field] = index
	}
	return bucket, indexes, nil
}

func (c *boltCollection[T]) decode(raw []byte) (T, error) {
	var item T
	err := boltCodec.Unmarshal(raw, &item)
	return item, err
}

// checkUnique reports the first unique column whose value already belongs to another key
func (c *boltCollection[T]) checkUnique(indexes map[string]*bolt.Bucket, item T) error {
	meta := entityOf[T]()
	key := encodeKey(item.BusinessKey())
	for field, value := range item.UniqueFields() {
		if owner := indexes[field].Get([]byte(cast.ToString(value))); owner != nil && string(owner) != string(key) {
			return errs.NewDuplicateKeyError(meta.EntityName(), field, value)
		}
	}
	return nil
}

func (c *boltCollection[T]) translate(err error, operation string) error {
	if err == nil || errs.TypeOf(err) != "" {
		return err
	}
	return errs.NewStorageError(entityOf[T]().EntityName(), operation, err)
}

func (c *boltCollection[T]) Create(ctx context.Context, item T) (T, error) {
	meta := entityOf[T]()
	err := c.db.Update(func(tx *bolt.Tx) error {
		bucket, indexes, err := c.buckets(tx)
		if err != nil {
			return err
		}
		key := encodeKey(item.BusinessKey())
		if bucket.Get(key) != nil {
			return errs.NewDuplicateKeyError(meta.EntityName(), meta.KeyField(), item.BusinessKey())
		}
		if err := c.checkUnique(indexes, item); err != nil {
			return err
		}
		raw, err := boltCodec.Marshal(item)
		if err != nil {
			return err
		}
		if err := bucket.Put(key, raw); err != nil {
			return err
		}
		for field, value := range item.UniqueFields() {
			if err := indexes[field].Put([]byte(cast.ToString(value)), key); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		var zero T
		return zero, c.translate(err, "create")
	}
	return item, nil
}

func (c *boltCollection[T]) Get(ctx context.Context, key int64) (T, error) {
	meta := entityOf[T]()
	var item T
	err := c.db.View(func(tx *bolt.Tx) error {
		bucket, _, err := c.buckets(tx)
		if err != nil {
			return err
		}
		var raw []byte
		if bucket != nil {
			raw = bucket.Get(encodeKey(key))
		}
		if raw == nil {
			return errs.NewNotFoundError(meta.EntityName(), key)
		}
		item, err = c.decode(raw)
		return err
	})
	return item, c.translate(err, "get")
}

func (c *boltCollection[T]) scan(filter Filter, fn func(item T)) error {
	return c.db.View(func(tx *bolt.Tx) error {
		bucket, _, err := c.buckets(tx)
		if err != nil || bucket == nil {
			return err
		}
		return bucket.ForEach(func(_, raw []byte) error {
			if !filter.IsEmpty() {
				var row map[string]any
				if err := boltCodec.Unmarshal(raw, &row); err != nil {
					return err
				}
				if !filter.Matches(row) {
					return nil
				}
			}
			item, err := c.decode(raw)
			if err != nil {
				return err
			}
			fn(item)
			return nil
		})
	})
}

func (c *boltCollection[T]) Find(ctx context.Context, filter Filter) ([]T, error) {
	items := make([]T, 0)
	if err := c.scan(filter, func(item T) {
		items = append(items, item)
	}); err != nil {
		return nil, c.translate(err, "find")
	}
	return items, nil
}

func (c *boltCollection[T]) Count(ctx context.Context, filter Filter) (int64, error) {
	var count int64
	if err := c.scan(filter, func(item T) {
		count++
	}); err != nil {
		return 0, c.translate(err, "count")
	}
	return count, nil
}

func (c *boltCollection[T]) Update(ctx context.Context, item T) (T, error) {
	meta := entityOf[T]()
	err := c.db.Update(func(tx *bolt.Tx) error {
		bucket, indexes, err := c.buckets(tx)
		if err != nil {
			return err
		}
		key := encodeKey(item.BusinessKey())
		raw := bucket.Get(key)
		if raw == nil {
			return errs.NewNotFoundError(meta.EntityName(), item.BusinessKey())
		}
		previous, err := c.decode(raw)
		if err != nil {
			return err
		}
		if err := c.checkUnique(indexes, item); err != nil {
			return err
		}
		if raw, err = boltCodec.Marshal(item); err != nil {
			return err
		}
		if err := bucket.Put(key, raw); err != nil {
			return err
		}
		next := item.UniqueFields()
		for field, value := range previous.UniqueFields() {
			if cast.ToString(value) == cast.ToString(next[field]) {
				continue
			}
			if err := indexes[field].Delete([]byte(cast.ToString(value))); err != nil {
				return err
			}
		}
		for field, value := range next {
			if err := indexes[field].Put([]byte(cast.ToString(value)), key); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		var zero T
		return zero, c.translate(err, "update")
	}
	return item, nil
}

func (c *boltCollection[T]) Delete(ctx context.Context, key int64) error {
	meta := entityOf[T]()
	err := c.db.Update(func(tx *bolt.Tx) error {
		bucket, indexes, err := c.buckets(tx)
		if err != nil {
			return err
		}
		raw := bucket.Get(encodeKey(key))
		if raw == nil {
			return errs.NewNotFoundError(meta.EntityName(), key)
		}
		previous, err := c.decode(raw)
		if err != nil {
			return err
		}
		for field, value := range previous.UniqueFields() {
			if err := indexes[field].Delete([]byte(cast.ToString(value))); err != nil {
				return err
			}
		}
		return bucket.Delete(encodeKey(key))
	})
	return c.translate(err, "delete")
}
