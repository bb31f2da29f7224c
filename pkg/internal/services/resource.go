package services

import (
	"context"
	"errors"

	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/database"
	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/errs"
	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/models"
	"github.com/rs/zerolog/log"
)

// Resource carries the list, get, create, update and delete operations of one entity.
// Writes run type checking, defaults, uniqueness, validation and reference checks before reaching the store.
type Resource[T models.Entity] struct {
	core *Core
	coll database.Collection[T]

	beforeSave   func(ctx context.Context, item *T, payload Payload) error
	afterSave    func(ctx context.Context, previous *T, item T)
	beforeDelete func(ctx context.Context, item T) error
	afterDelete  func(ctx context.Context, item T)
}

func newResource[T models.Entity](core *Core) *Resource[T] {
	return &Resource[T]{
		core: core,
		coll: database.NewCollection[T](core.db),
	}
}

func (r *Resource[T]) entity() string {
	var zero T
	return zero.EntityName()
}

func (r *Resource[T]) List(ctx context.Context) ([]T, error) {
	return r.coll.Find(ctx, database.All())
}

func (r *Resource[T]) Find(ctx context.Context, filter database.Filter) ([]T, error) {
	return r.coll.Find(ctx, filter)
}

func (r *Resource[T]) Count(ctx context.Context, filter database.Filter) (int64, error) {
	return r.coll.Count(ctx, filter)
}

func (r *Resource[T]) Get(ctx context.Context, key int64) (T, error) {
	return r.coll.Get(ctx, key)
}

// Create admits a new record built from payload
func (r *Resource[T]) Create(ctx context.Context, payload Payload) (T, error) {
	var zero T
	payload, err := checkTypes[T](r.entity(), payload)
	if err != nil {
		return zero, err
	}
	item, err := decodePayload[T](r.entity(), payload)
	if err != nil {
		return zero, err
	}
	if defaulter, ok := any(&item).(models.Defaulter); ok {
		defaulter.ApplyDefaults(r.core.clock())
	}
	if err := r.admit(ctx, &item, payload, true); err != nil {
		return zero, err
	}

	out, err := r.coll.Create(ctx, item)
	if err != nil {
		return zero, err
	}
	if r.afterSave != nil {
		r.afterSave(ctx, nil, out)
	}
	return out, nil
}

// Insert admits a typed record, it is Create for callers that already hold one.
// Zero timestamps are defaulted like missing ones.
func (r *Resource[T]) Insert(ctx context.Context, item T) (T, error) {
	payload, err := encodePayload(item)
	if err != nil {
		var zero T
		return zero, errs.NewValidationError(r.entity(), "", "type")
	}
	return r.Create(ctx, payload)
}

// Update merges payload over the stored record and replaces it.
// The key in the path wins over any key carried by the payload.
func (r *Resource[T]) Update(ctx context.Context, key int64, payload Payload) (T, error) {
	var zero T
	payload, err := checkTypes[T](r.entity(), payload)
	if err != nil {
		return zero, err
	}
	previous, err := r.coll.Get(ctx, key)
	if err != nil {
		return zero, err
	}
	merged, err := encodePayload(previous)
	if err != nil {
		return zero, errs.NewStorageError(r.entity(), "update", err)
	}
	for field, value := range payload {
		// A null timestamp keeps the stored one
		if value == nil && isTimeField[T](field) {
			continue
		}
		merged[field] = value
	}
	item, err := decodePayload[T](r.entity(), merged)
	if err != nil {
		return zero, err
	}
	if keyed, ok := any(&item).(models.Keyed); ok {
		keyed.SetBusinessKey(key)
	}
	if defaulter, ok := any(&item).(models.Defaulter); ok {
		defaulter.ApplyDefaults(r.core.clock())
	}
	if err := r.admit(ctx, &item, payload, false); err != nil {
		return zero, err
	}

	out, err := r.coll.Update(ctx, item)
	if err != nil {
		return zero, err
	}
	if r.afterSave != nil {
		r.afterSave(ctx, &previous, out)
	}
	return out, nil
}

// Delete removes the record under key after applying the deletion policies of its relations
func (r *Resource[T]) Delete(ctx context.Context, key int64) error {
	item, err := r.coll.Get(ctx, key)
	if err != nil {
		return err
	}
	if r.beforeDelete != nil {
		if err := r.beforeDelete(ctx, item); err != nil {
			return err
		}
	}
	if err := r.coll.Delete(ctx, key); err != nil {
		return err
	}
	if r.afterDelete != nil {
		r.afterDelete(ctx, item)
	}
	return nil
}

// DeleteWhere removes every record matching filter, records deleted concurrently are skipped
func (r *Resource[T]) DeleteWhere(ctx context.Context, filter database.Filter) (int, error) {
	items, err := r.coll.Find(ctx, filter)
	if err != nil {
		return 0, err
	}
	var count int
	for _, item := range items {
		if err := r.Delete(ctx, item.BusinessKey()); err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				continue
			}
			return count, err
		}
		count++
	}
	return count, nil
}

func (r *Resource[T]) admit(ctx context.Context, item *T, payload Payload, creating bool) error {
	if err := r.conflicts(ctx, *item, creating); err != nil {
		return err
	}
	if err := validateRecord(r.entity(), item); err != nil {
		return err
	}
	if r.core.options.EnforceReferences {
		if referencing, ok := any(*item).(models.Referencing); ok {
			if err := r.core.checkReferences(ctx, r.entity(), referencing.References()); err != nil {
				return err
			}
		}
	}
	if r.beforeSave != nil {
		if err := r.beforeSave(ctx, item, payload); err != nil {
			return err
		}
	}
	return nil
}

// conflicts reports a taken key or unique column before the rules run.
// The store repeats the check atomically on write.
func (r *Resource[T]) conflicts(ctx context.Context, item T, creating bool) error {
	if creating {
		if _, err := r.coll.Get(ctx, item.BusinessKey()); err == nil {
			return errs.NewDuplicateKeyError(r.entity(), item.KeyField(), item.BusinessKey())
		} else if !errors.Is(err, errs.ErrNotFound) {
			return err
		}
	}
	for field, value := range item.UniqueFields() {
		owners, err := r.coll.Find(ctx, database.Where(database.Condition{field: value}))
		if err != nil {
			return err
		}
		for _, owner := range owners {
			if owner.BusinessKey() != item.BusinessKey() {
				log.Debug().
					Str("entity", r.entity()).
					Str("field", field).
					Int64("key", item.BusinessKey()).
					Msg("Rejected write on a taken unique field...")
				return errs.NewDuplicateKeyError(r.entity(), field, value)
			}
		}
	}
	return nil
}
