package common

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ValidationError carries the full list of violations found before persistence
// was attempted. No write happens when one of these is returned.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

// NotFoundError signals that a referenced order or product does not exist.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

// InvalidStatusError signals an unrecognized status literal.
type InvalidStatusError struct {
	Status string
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid status %q", e.Status)
}

// ConflictError signals an illegal state transition.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// PersistenceError signals that a storage operation failed and any in-flight
// transaction was rolled back; no partial state survives.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failed during %s", e.Op)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// AggregationError signals that one of the reporting queries failed.
type AggregationError struct {
	Err error
}

func (e *AggregationError) Error() string {
	return "statistics aggregation failed"
}

func (e *AggregationError) Unwrap() error { return e.Err }

// HTTPStatus maps a workflow error to its HTTP status code
func HTTPStatus(err error) int {
	var (
		validationErr    *ValidationError
		notFoundErr      *NotFoundError
		invalidStatusErr *InvalidStatusError
		conflictErr      *ConflictError
	)
	switch {
	case errors.As(err, &validationErr), errors.As(err, &invalidStatusErr):
		return http.StatusBadRequest
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound
	case errors.As(err, &conflictErr):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
