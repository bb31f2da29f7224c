package database

import (
	"context"

	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/errs"
	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/models"
	"github.com/prometheus/client_golang/prometheus"
)

var StoreOperations = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "socialgraph",
	Subsystem: "store",
	Name:      "operations_total",
	Help:      "Entity store operations by collection, operation and outcome",
}, []string{"collection", "operation", "outcome"})

func init() {
	prometheus.MustRegister(StoreOperations)
}

func observe[T models.Entity](operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = string(errs.TypeOf(err))
		if outcome == "" {
			outcome = "error"
		}
	}
	StoreOperations.WithLabelValues(entityOf[T]().CollectionName(), operation, outcome).Inc()
}

type instrumentedCollection[T models.Entity] struct {
	inner Collection[T]
}

func (c *instrumentedCollection[T]) Create(ctx context.Context, item T) (T, error) {
	out, err := c.inner.Create(ctx, item)
	observe[T]("create", err)
	return out, err
}

func (c *instrumentedCollection[T]) Get(ctx context.Context, key int64) (T, error) {
	out, err := c.inner.Get(ctx, key)
	observe[T]("get", err)
	return out, err
}

func (c *instrumentedCollection[T]) Find(ctx context.Context, filter Filter) ([]T, error) {
	out, err := c.inner.Find(ctx, filter)
	observe[T]("find", err)
	return out, err
}

func (c *instrumentedCollection[T]) Count(ctx context.Context, filter Filter) (int64, error) {
	out, err := c.inner.Count(ctx, filter)
	observe[T]("count", err)
	return out, err
}

func (c *instrumentedCollection[T]) Update(ctx context.Context, item T) (T, error) {
	out, err := c.inner.Update(ctx, item)
	observe[T]("update", err)
	return out, err
}

func (c *instrumentedCollection[T]) Delete(ctx context.Context, key int64) error {
	err := c.inner.Delete(ctx, key)
	observe[T]("delete", err)
	return err
}
