package database

import (
	"reflect"

	"github.com/spf13/cast"
	"go.mongodb.org/mongo-driver/bson"
	"gorm.io/gorm"
)

// Condition is a conjunction of column equalities.
// A slice value matches when the column equals any of its elements.
type Condition map[string]any

// Filter is a disjunction of conditions, an empty filter matches every record.
type Filter struct {
	Any []Condition
}

func All() Filter {
	return Filter{}
}

func Where(cond Condition) Filter {
	return Filter{Any: []Condition{cond}}
}

func (f Filter) Or(cond Condition) Filter {
	out := make([]Condition, 0, len(f.Any)+1)
	out = append(out, f.Any...)
	return Filter{Any: append(out, cond)}
}

func (f Filter) IsEmpty() bool {
	return len(f.Any) == 0
}

// Matches evaluates the filter against a record decoded into a generic map
func (f Filter) Matches(row map[string]any) bool {
	if f.IsEmpty() {
		return true
	}
	for _, cond := range f.Any {
		if cond.matches(row) {
			return true
		}
	}
	return false
}

func (c Condition) matches(row map[string]any) bool {
	for field, expected := range c {
		actual, ok := row[field]
		if !ok {
			return false
		}
		if !valueMatches(actual, expected) {
			return false
		}
	}
	return true
}

func valueMatches(actual, expected any) bool {
	rv := reflect.ValueOf(expected)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		for i := 0; i < rv.Len(); i++ {
			if cast.ToString(actual) == cast.ToString(rv.Index(i).Interface()) {
				return true
			}
		}
		return false
	}
	return cast.ToString(actual) == cast.ToString(expected)
}

func (f Filter) applyGorm(tx *gorm.DB) *gorm.DB {
	for idx, cond := range f.Any {
		if idx == 0 {
			tx = tx.Where(map[string]any(cond))
		} else {
			tx = tx.Or(map[string]any(cond))
		}
	}
	return tx
}

func (f Filter) toBson() bson.M {
	if f.IsEmpty() {
		return bson.M{}
	}
	branches := make([]bson.M, 0, len(f.Any))
	for _, cond := range f.Any {
		branch := bson.M{}
		for field, value := range cond {
			rv := reflect.ValueOf(value)
			if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
				branch[field] = bson.M{"$in": value}
			} else {
				branch[field] = value
			}
		}
		branches = append(branches, branch)
	}
	if len(branches) == 1 {
		return branches[0]
	}
	return bson.M{"$or": branches}
}
