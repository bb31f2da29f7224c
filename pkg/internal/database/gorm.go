package database

import (
	"context"
	"errors"
	"strings"
	"time"

	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/errs"
	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

type GormDatabase struct {
	C *gorm.DB
}

func NewGorm(dsn string, debug bool) (*GormDatabase, error) {
	dialector := postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	})
	source, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.New(&log.Logger, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			Colorful:                  true,
			IgnoreRecordNotFoundError: true,
			LogLevel:                  lo.Ternary(debug, logger.Info, logger.Silent),
		}),
	})
	if err != nil {
		return nil, err
	}
	return &GormDatabase{C: source}, nil
}

func (v *GormDatabase) Driver() string {
	return DriverPostgres
}

func (v *GormDatabase) Migrate(ctx context.Context, entities ...models.Entity) error {
	return v.C.WithContext(ctx).AutoMigrate(lo.Map(entities, func(item models.Entity, _ int) any {
		return item
	})...)
}

func (v *GormDatabase) Close() error {
	conn, err := v.C.DB()
	if err != nil {
		return err
	}
	return conn.Close()
}

type gormCollection[T models.Entity] struct {
	db *gorm.DB
}

// checkUnique runs inside the write transaction so the offending column can be reported
func (c *gormCollection[T]) checkUnique(tx *gorm.DB, item T, checkKey bool) error {
	meta := entityOf[T]()
	if checkKey {
		var count int64
		if err := tx.Model(new(T)).
			Where(map[string]any{meta.KeyField(): item.BusinessKey()}).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errs.NewDuplicateKeyError(meta.EntityName(), meta.KeyField(), item.BusinessKey())
		}
	}
	for field, value := range item.UniqueFields() {
		var count int64
		if err := tx.Model(new(T)).
			Where(map[string]any{field: value}).
			Where(clause.Neq{Column: clause.Column{Name: meta.KeyField()}, Value: item.BusinessKey()}).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errs.NewDuplicateKeyError(meta.EntityName(), field, value)
		}
	}
	return nil
}

const pgUniqueViolation = "23505"

// constraintField maps a violated postgres constraint back to the column it guards.
// Primary keys are named "<table>_pkey", unique indexes "idx_<table>_<column>".
func constraintField[T models.Entity](constraint string) string {
	meta := entityOf[T]()
	if strings.HasSuffix(constraint, "_pkey") {
		return meta.KeyField()
	}
	for field := range meta.UniqueFields() {
		if strings.HasSuffix(constraint, "_"+field) {
			return field
		}
	}
	return ""
}

func (c *gormCollection[T]) translate(err error, operation string, key int64) error {
	meta := entityOf[T]()
	var pgErr *pgconn.PgError
	switch {
	case errs.TypeOf(err) != "":
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errs.NewNotFoundError(meta.EntityName(), key)
	case errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation:
		return errs.NewDuplicateKeyError(meta.EntityName(), constraintField[T](pgErr.ConstraintName), nil)
	default:
		return errs.NewStorageError(meta.EntityName(), operation, err)
	}
}

func (c *gormCollection[T]) Create(ctx context.Context, item T) (T, error) {
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := c.checkUnique(tx, item, true); err != nil {
			return err
		}
		return tx.Create(&item).Error
	})
	if err != nil {
		var zero T
		return zero, c.translate(err, "create", item.BusinessKey())
	}
	return item, nil
}

func (c *gormCollection[T]) Get(ctx context.Context, key int64) (T, error) {
	var item T
	meta := entityOf[T]()
	if err := c.db.WithContext(ctx).
		Where(map[string]any{meta.KeyField(): key}).
		First(&item).Error; err != nil {
		return item, c.translate(err, "get", key)
	}
	return item, nil
}

func (c *gormCollection[T]) Find(ctx context.Context, filter Filter) ([]T, error) {
	meta := entityOf[T]()
	var items []T
	tx := filter.applyGorm(c.db.WithContext(ctx).Model(new(T)))
	if err := tx.Order(clause.OrderByColumn{Column: clause.Column{Name: meta.KeyField()}}).
		Find(&items).Error; err != nil {
		return nil, c.translate(err, "find", 0)
	}
	return items, nil
}

func (c *gormCollection[T]) Count(ctx context.Context, filter Filter) (int64, error) {
	var count int64
	tx := filter.applyGorm(c.db.WithContext(ctx).Model(new(T)))
	if err := tx.Count(&count).Error; err != nil {
		return 0, c.translate(err, "count", 0)
	}
	return count, nil
}

func (c *gormCollection[T]) Update(ctx context.Context, item T) (T, error) {
	meta := entityOf[T]()
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := c.checkUnique(tx, item, false); err != nil {
			return err
		}
		// Updates never inserts on a miss
		res := tx.Model(new(T)).
			Where(map[string]any{meta.KeyField(): item.BusinessKey()}).
			Select("*").
			Updates(&item)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		var zero T
		return zero, c.translate(err, "update", item.BusinessKey())
	}
	return item, nil
}

func (c *gormCollection[T]) Delete(ctx context.Context, key int64) error {
	meta := entityOf[T]()
	res := c.db.WithContext(ctx).
		Where(map[string]any{meta.KeyField(): key}).
		Delete(new(T))
	if res.Error != nil {
		return c.translate(res.Error, "delete", key)
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFoundError(meta.EntityName(), key)
	}
	return nil
}
