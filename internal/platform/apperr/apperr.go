// Copyright (c) 2026 Wayfare. All rights reserved.
// Author: platform-team@wayfare.app

/*
Package apperr defines the centralized error handling framework for Wayfare.

It provides a rich error type that bridges the gap between low-level Domain/Storage
errors and high-level HTTP responses.

Architecture:

  - AppError: A struct containing machine-readable ErrorCode and user-friendly messages.
  - Taxonomy: Gate rejections carry one of the fixed authentication/authorization codes.
  - Mapping: Explicit mapping from AppError to standard HTTP Status Codes.

Every error that leaves the service layer should be wrapped as an [AppError] to ensure
consistent API responses.
*/
package apperr

import (
	"errors"
	"net/http"
)

// # Gate Rejection Codes

// Fixed taxonomy for request-gate rejections. The first six terminate the
// request with 401/403; STORE_UNAVAILABLE is also terminal (fail-closed) when
// raised during authentication or authorization.
const (
	CodeNoToken                = "NO_TOKEN"
	CodeTokenMalformed         = "TOKEN_MALFORMED"
	CodeTokenExpired           = "TOKEN_EXPIRED"
	CodeTokenRevoked           = "TOKEN_REVOKED"
	CodeNotAdmin               = "NOT_ADMIN"
	CodeInsufficientPermission = "INSUFFICIENT_PERMISSION"
	CodeStoreUnavailable       = "STORE_UNAVAILABLE"
)

// AppError is the canonical error type for the Wayfare API.
//
// It carries an HTTP status code, a machine-readable code, a client-safe
// message, and an optional slice of field-level validation errors.
//
// # Security
//
// The Cause field is for server-side logging only and is never sent to clients
// to avoid leaking internal implementation details (e.g., SQL queries).
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "NOT_FOUND", "NO_TOKEN").
	Code string `json:"code"`
	// Message is a human-readable description safe to return to the client.
	Message string `json:"message"`
	// HTTPStatus is the HTTP response status code.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
	// Details holds per-field validation errors for VALIDATION_ERROR responses.
	Details []FieldError `json:"details,omitempty"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	// Field is the JSON field name that failed validation.
	Field string `json:"field"`
	// Message is the human-readable description of the failure.
	Message string `json:"message"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// # Client Errors (4xx)

// NotFound creates a 404 [AppError] for a named resource.
//
// Example:
//
//	apperr.NotFound("Role") // Returns "Role not found"
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       "NOT_FOUND",
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// Unauthorized creates a 401 [AppError] with a generic code.
func Unauthorized(msg string) *AppError {
	return UnauthorizedCode("UNAUTHORIZED", msg)
}

// UnauthorizedCode creates a 401 [AppError] carrying a specific rejection code
// from the gate taxonomy (NO_TOKEN, TOKEN_EXPIRED, ...).
func UnauthorizedCode(code, msg string) *AppError {
	return &AppError{
		Code:       code,
		Message:    msg,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// Forbidden creates a 403 [AppError] with a generic code.
func Forbidden(msg string) *AppError {
	return ForbiddenCode("FORBIDDEN", msg)
}

// ForbiddenCode creates a 403 [AppError] carrying a specific rejection code
// from the gate taxonomy (NOT_ADMIN, INSUFFICIENT_PERMISSION, ...).
func ForbiddenCode(code, msg string) *AppError {
	return &AppError{
		Code:       code,
		Message:    msg,
		HTTPStatus: http.StatusForbidden,
	}
}

// Conflict creates a 409 [AppError] for duplicate or unique-constraint violations.
func Conflict(msg string) *AppError {
	return &AppError{
		Code:       "CONFLICT",
		Message:    msg,
		HTTPStatus: http.StatusConflict,
	}
}

// ValidationError creates a 400 [AppError] with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	return &AppError{
		Code:       "VALIDATION_ERROR",
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// # Server Errors (5xx)

// Internal creates a 500 [AppError] wrapping an unexpected server-side error.
// The cause is stored for logging but is never sent to the client.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// StoreUnavailable creates a 503 [AppError] for backing-store outages outside
// the request gates (the gates map the same condition to a fail-closed
// 401/403 instead).
func StoreUnavailable(cause error) *AppError {
	return &AppError{
		Code:       CodeStoreUnavailable,
		Message:    "A backing store is temporarily unavailable",
		HTTPStatus: http.StatusServiceUnavailable,
		Cause:      cause,
	}
}

// # Helpers

// IsAppError reports whether err (or any error in its chain) is an [*AppError].
func IsAppError(err error) bool {
	var ae *AppError
	return errors.As(err, &ae)
}

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// WithCause attaches an underlying cause for server-side logging and returns
// the same error for chaining.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}
