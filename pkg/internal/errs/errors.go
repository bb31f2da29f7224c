package errs

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of error
type ErrorType string

const (
	ErrorTypeValidation         ErrorType = "validation"
	ErrorTypeDuplicateKey       ErrorType = "duplicate_key"
	ErrorTypeNotFound           ErrorType = "not_found"
	ErrorTypeInvalidCredentials ErrorType = "invalid_credentials"
	ErrorTypeStorage            ErrorType = "storage"
	ErrorTypeReference          ErrorType = "referential_integrity"
	ErrorTypeRestricted         ErrorType = "restricted_delete"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

func (e *BaseError) Unwrap() error {
	return e.Err
}

// Is reports errors of the same category as equal, so the sentinels below work with errors.Is
func (e *BaseError) Is(target error) bool {
	t, ok := target.(*BaseError)
	if !ok {
		return false
	}
	return t.Type == e.Type
}

func (e *BaseError) ErrType() ErrorType {
	return e.Type
}

func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{Type: errType, Message: message, Err: err}
}

var (
	ErrValidation         = NewBaseError(ErrorTypeValidation, "validation failed", nil)
	ErrDuplicateKey       = NewBaseError(ErrorTypeDuplicateKey, "duplicate key", nil)
	ErrNotFound           = NewBaseError(ErrorTypeNotFound, "record not found", nil)
	ErrInvalidCredentials = NewBaseError(ErrorTypeInvalidCredentials, "invalid credentials", nil)
	ErrStorage            = NewBaseError(ErrorTypeStorage, "storage failure", nil)
	ErrReference          = NewBaseError(ErrorTypeReference, "referenced record does not exist", nil)
	ErrRestricted         = NewBaseError(ErrorTypeRestricted, "record still has dependents", nil)
)

// ValidationError is returned when a payload fails the schema of its entity
type ValidationError struct {
	*BaseError
	Entity string
	Field  string
	Rule   string
}

func NewValidationError(entity, field, rule string) *ValidationError {
	msg := fmt.Sprintf("%s.%s failed on rule %s", entity, field, rule)
	if field == "" {
		msg = fmt.Sprintf("%s payload failed on rule %s", entity, rule)
	}
	return &ValidationError{
		BaseError: NewBaseError(ErrorTypeValidation, msg, nil),
		Entity:    entity,
		Field:     field,
		Rule:      rule,
	}
}

// DuplicateKeyError is returned when a create or update would break a unique constraint
type DuplicateKeyError struct {
	*BaseError
	Entity string
	Field  string
	Value  any
}

func NewDuplicateKeyError(entity, field string, value any) *DuplicateKeyError {
	return &DuplicateKeyError{
		BaseError: NewBaseError(ErrorTypeDuplicateKey, fmt.Sprintf("%s with %s %v already exists", entity, field, value), nil),
		Entity:    entity,
		Field:     field,
		Value:     value,
	}
}

// NotFoundError is returned when a key lookup has no match
type NotFoundError struct {
	*BaseError
	Entity string
	Key    int64
}

func NewNotFoundError(entity string, key int64) *NotFoundError {
	return &NotFoundError{
		BaseError: NewBaseError(ErrorTypeNotFound, fmt.Sprintf("%s %d not found", entity, key), nil),
		Entity:    entity,
		Key:       key,
	}
}

// InvalidCredentialsError is returned when no user matches both email and password
type InvalidCredentialsError struct {
	*BaseError
	Email string
}

func NewInvalidCredentialsError(email string) *InvalidCredentialsError {
	return &InvalidCredentialsError{
		BaseError: NewBaseError(ErrorTypeInvalidCredentials, "invalid credentials", nil),
		Email:     email,
	}
}

// StorageError wraps failures raised by the persistence backend
type StorageError struct {
	*BaseError
	Entity    string
	Operation string
}

func NewStorageError(entity, operation string, err error) *StorageError {
	return &StorageError{
		BaseError: NewBaseError(ErrorTypeStorage, fmt.Sprintf("unable to %s %s", operation, entity), err),
		Entity:    entity,
		Operation: operation,
	}
}

// ReferentialIntegrityError is returned when a dependent record points to a missing parent
type ReferentialIntegrityError struct {
	*BaseError
	Entity string
	Field  string
	Target string
	Key    int64
}

func NewReferentialIntegrityError(entity, field, target string, key int64) *ReferentialIntegrityError {
	return &ReferentialIntegrityError{
		BaseError: NewBaseError(ErrorTypeReference, fmt.Sprintf("%s.%s references missing %s %d", entity, field, target, key), nil),
		Entity:    entity,
		Field:     field,
		Target:    target,
		Key:       key,
	}
}

// RestrictedDeleteError is returned when a deletion policy forbids removing a record with dependents
type RestrictedDeleteError struct {
	*BaseError
	Entity     string
	Key        int64
	Relation   string
	Dependents int64
}

func NewRestrictedDeleteError(entity string, key int64, relation string, dependents int64) *RestrictedDeleteError {
	return &RestrictedDeleteError{
		BaseError:  NewBaseError(ErrorTypeRestricted, fmt.Sprintf("%s %d still has %d records in %s", entity, key, dependents, relation), nil),
		Entity:     entity,
		Key:        key,
		Relation:   relation,
		Dependents: dependents,
	}
}

type typedError interface {
	error
	ErrType() ErrorType
}

// TypeOf returns the category of err, or an empty string for foreign errors
func TypeOf(err error) ErrorType {
	var t typedError
	if errors.As(err, &t) {
		return t.ErrType()
	}
	return ""
}
