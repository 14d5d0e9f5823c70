// Package apperror provides structured error handling following RFC 7807 Problem Details.
// All pricing and stock errors must use AppError for consistent API responses.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	// Infrastructure errors (5xx)
	CodeInternal = "INTERNAL_ERROR"

	// Validation errors (400)
	CodeValidation       = "VALIDATION_ERROR"
	CodeInvalidAggregate = "INVALID_AGGREGATE"

	// Business rule violations (422)
	CodePriceDataMissing = "PRICE_DATA_MISSING"

	// Not found (404)
	CodeNotFound = "NOT_FOUND"

	// Conflict (409)
	CodeConcurrentModification = "CONCURRENT_MODIFICATION"
	CodePartialWriteFailure    = "PARTIAL_WRITE_FAILURE"
	CodeIdempotency            = "IDEMPOTENCY_CONFLICT"
	CodePoolLocked             = "POOL_LOCKED"
)

// AppError is the standard error type for the engine.
// It implements error interface and provides structured details for API responses.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Details contains additional context (field errors, record ids, etc.)
	Details map[string]any `json:"details,omitempty"`

	// HTTPStatus is the suggested HTTP status code
	HTTPStatus int `json:"-"`

	// Err is the underlying error (not exposed in JSON)
	Err error `json:"-"`
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a key-value pair to error details
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// Retryable reports whether sending the same request again may succeed.
// Server faults and conflicts with a concurrent pool edit are transient;
// validation, missing data and not-found fail the same way every time.
func (e *AppError) Retryable() bool {
	if e.HTTPStatus >= http.StatusInternalServerError {
		return true
	}
	switch e.Code {
	case CodePoolLocked, CodeConcurrentModification, CodePartialWriteFailure:
		return true
	}
	return false
}

// --- Factory functions ---

// NewValidation creates a validation error (400)
func NewValidation(message string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewNotFound creates a not found error (404)
func NewNotFound(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", entity),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewPriceDataMissing is returned when a base price, deduction rule or
// guarantee floor required by a quote is absent. A quote must never fall back to zero.
func NewPriceDataMissing(table string, key map[string]any) *AppError {
	details := map[string]any{"table": table}
	for k, v := range key {
		details[k] = v
	}
	return &AppError{
		Code:       CodePriceDataMissing,
		Message:    fmt.Sprintf("required %s entry is missing", table),
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    details,
	}
}

// NewInvalidAggregate rejects a negative redistribution target.
func NewInvalidAggregate(value int) *AppError {
	return &AppError{
		Code:       CodeInvalidAggregate,
		Message:    "aggregate quantity must not be negative",
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"value": value},
	}
}

// NewPartialWriteFailure reports a pool redistribution that did not complete.
// succeeded lists record ids written before the failure; rolledBack tells the
// caller whether those writes were undone by the surrounding transaction.
func NewPartialWriteFailure(succeeded []string, failedID string, rolledBack bool, cause error) *AppError {
	if succeeded == nil {
		succeeded = []string{}
	}
	return &AppError{
		Code:       CodePartialWriteFailure,
		Message:    "pool redistribution did not complete",
		HTTPStatus: http.StatusConflict,
		Details: map[string]any{
			"succeeded":      succeeded,
			"failedRecordId": failedID,
			"rolledBack":     rolledBack,
		},
		Err: cause,
	}
}

// NewConcurrentModification creates an optimistic locking error
func NewConcurrentModification(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeConcurrentModification,
		Message:    "Record was modified by another user. Please refresh and try again.",
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewPoolLocked is returned when a pool lock could not be acquired in time.
func NewPoolLocked(poolKey string) *AppError {
	return &AppError{
		Code:       CodePoolLocked,
		Message:    "Another edit of this pool is in progress. Please retry.",
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"pool": poolKey},
	}
}

// NewInternal creates an internal server error (hides details from client)
func NewInternal(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewIdempotencyConflict creates error when operation is already in progress
func NewIdempotencyConflict(key string) *AppError {
	return &AppError{
		Code:       CodeIdempotency,
		Message:    "Operation already in progress or completed",
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"idempotency_key": key},
	}
}

// NewIdempotencyMismatch is returned when the same idempotency key is reused for
// a different request (different staff/operation/body hash).
func NewIdempotencyMismatch(key string) *AppError {
	return &AppError{
		Code:       CodeIdempotency,
		Message:    "Idempotency key mismatch",
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"idempotency_key": key},
	}
}

// --- Helper functions ---

// IsAppError checks if error is AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError extracts AppError from error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetHTTPStatus returns appropriate HTTP status for any error
func GetHTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// HasCode reports whether err carries an AppError with the given code.
func HasCode(err error, code string) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}

// IsNotFound checks if error is CodeNotFound
func IsNotFound(err error) bool {
	return HasCode(err, CodeNotFound)
}

// IsConcurrentModification checks if error is CodeConcurrentModification
func IsConcurrentModification(err error) bool {
	return HasCode(err, CodeConcurrentModification)
}

// IsPriceDataMissing checks if error is CodePriceDataMissing
func IsPriceDataMissing(err error) bool {
	return HasCode(err, CodePriceDataMissing)
}
