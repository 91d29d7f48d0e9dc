package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Dan9191/account-ledger/internal/repository"
)

var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrInvalidPaymentType  = errors.New("invalid payment type")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrDuplicateAccount    = repository.ErrDuplicateAccount
)

// ValidationError carries the messages of every invalid input field, keyed by
// the field's JSON name
type ValidationError struct {
	Fields map[string][]string
	err    error
}

// NewValidationError returns a ValidationError with a single message
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string][]string{field: {message}}}
}

func (e *ValidationError) add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], message)
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, strings.Join(e.Fields[f], " ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return e.err }

// PersistenceError reports an infrastructure failure while reading or writing
// the ledger
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func duplicateAccountError() *ValidationError {
	e := NewValidationError("account_number", "The account number is already in use.")
	e.err = ErrDuplicateAccount
	return e
}
