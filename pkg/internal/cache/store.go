package cache

import (
	"github.com/dgraph-io/ristretto"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/marshaler"
	"github.com/eko/gocache/lib/v4/store"
	ristrettoCache "github.com/eko/gocache/store/ristretto/v4"
)

// NewStore creates an in-process store backed by ristretto
func NewStore() (store.StoreInterface, error) {
	ris, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e5,
		MaxCost:     1 << 24,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}

	return ristrettoCache.NewRistretto(ris), nil
}

// NewMarshaler wraps the store so structured values can be cached
func NewMarshaler(s store.StoreInterface) *marshaler.Marshaler {
	return marshaler.New(cache.New[any](s))
}
