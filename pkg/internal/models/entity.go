package models

import "time"

// Entity is a record stored under an application-assigned business key.
// The column names returned here are the JSON, bson and SQL names at once.
type Entity interface {
	CollectionName() string
	EntityName() string
	KeyField() string
	BusinessKey() int64
	// UniqueFields lists the non-key columns that must be unique within the collection.
	UniqueFields() map[string]any
}

// Defaulter is implemented by records that fill defaults (timestamps) before being admitted.
type Defaulter interface {
	ApplyDefaults(now time.Time)
}

// Keyed is implemented by pointers to records so generic code can stamp the key of an update.
type Keyed interface {
	SetBusinessKey(key int64)
}

// Reference is a foreign-key-like pointer from a record to a parent collection.
type Reference struct {
	Field  string
	Target string
	Key    int64
}

// Referencing is implemented by records that point to records in other collections.
type Referencing interface {
	References() []Reference
}
