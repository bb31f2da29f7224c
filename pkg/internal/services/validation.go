package services

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"strings"
	"sync"
	"time"

	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/errs"
	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cast"
)

// Payload is a record as it arrives from a collaborator, field-named and loosely typed
type Payload = map[string]any

var PayloadCodec = jsoniter.Config{
	EscapeHTML:             false,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	UseNumber:              true,
}.Froze()

var validate = validator.New(validator.WithRequiredStructEnabled())

func init() {
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

const (
	kindInteger = "integer"
	kindString  = "string"
	kindTime    = "time"
	kindObject  = "object"
	kindOther   = "other"
)

var timeType = reflect.TypeOf(time.Time{})

// maxExactInteger is the largest magnitude a float carries without losing integer precision
const maxExactInteger = 1 << 53

var fieldKinds sync.Map

// kindsOf maps the json names of a record's fields to the value kind they accept
func kindsOf(t reflect.Type) map[string]string {
	if cached, ok := fieldKinds.Load(t); ok {
		return cached.(map[string]string)
	}
	out := make(map[string]string)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			continue
		}
		out[name] = kindOfType(field.Type)
	}
	fieldKinds.Store(t, out)
	return out
}

func kindOfType(t reflect.Type) string {
	if t == timeType {
		return kindTime
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return kindInteger
	case reflect.String:
		return kindString
	case reflect.Map:
		return kindObject
	default:
		return kindOther
	}
}

// conform reports whether value fits kind and returns it normalized for decoding
func conform(kind string, value any) (any, bool) {
	if value == nil {
		return nil, true
	}
	switch kind {
	case kindInteger:
		switch v := value.(type) {
		case string, bool:
			return nil, false
		case int, int8, int16, int32, int64:
			return cast.ToInt64(v), true
		case json.Number:
			if i, err := v.Int64(); err == nil {
				return i, true
			}
		}
		f, err := cast.ToFloat64E(value)
		if err != nil || math.IsNaN(f) || f != math.Trunc(f) || math.Abs(f) > maxExactInteger {
			return nil, false
		}
		return int64(f), true
	case kindString:
		_, ok := value.(string)
		return value, ok
	case kindTime:
		switch v := value.(type) {
		case time.Time:
			return v, true
		case string:
			if parsed, err := time.Parse(time.RFC3339Nano, v); err == nil {
				return parsed, true
			}
			parsed, err := time.Parse(time.DateOnly, v)
			return parsed, err == nil
		}
		return nil, false
	case kindObject:
		_, ok := value.(map[string]any)
		return value, ok
	default:
		return value, true
	}
}

// isTimeField reports whether field of T holds a timestamp
func isTimeField[T any](field string) bool {
	return kindsOf(reflect.TypeOf((*T)(nil)).Elem())[field] == kindTime
}

// checkTypes rejects payload values whose type does not fit the record field.
// Keys unknown to the record are dropped.
func checkTypes[T any](entity string, payload Payload) (Payload, error) {
	kinds := kindsOf(reflect.TypeOf((*T)(nil)).Elem())
	out := make(Payload, len(payload))
	for field, value := range payload {
		kind, known := kinds[field]
		if !known {
			continue
		}
		normalized, ok := conform(kind, value)
		if !ok {
			return nil, errs.NewValidationError(entity, field, "type")
		}
		out[field] = normalized
	}
	return out, nil
}

func decodePayload[T any](entity string, payload Payload) (T, error) {
	var item T
	raw, err := PayloadCodec.Marshal(payload)
	if err != nil {
		return item, errs.NewValidationError(entity, "", "type")
	}
	if err := PayloadCodec.Unmarshal(raw, &item); err != nil {
		return item, errs.NewValidationError(entity, "", "type")
	}
	return item, nil
}

func encodePayload[T any](item T) (Payload, error) {
	raw, err := PayloadCodec.Marshal(item)
	if err != nil {
		return nil, err
	}
	var out Payload
	if err := PayloadCodec.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// validateRecord runs the declarative rules and reports the first offending field
func validateRecord(entity string, item any) error {
	err := validate.Struct(item)
	if err == nil {
		return nil
	}
	var failures validator.ValidationErrors
	if errors.As(err, &failures) && len(failures) > 0 {
		return errs.NewValidationError(entity, failures[0].Field(), failures[0].Tag())
	}
	return errs.NewValidationError(entity, "", err.Error())
}
