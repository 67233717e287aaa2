// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr defines the centralized error handling framework for the
invitation page service.

It provides a rich error type that bridges the gap between low-level storage
errors and the JSON envelope every handler returns.

Taxonomy:

  - Validation: missing identifier or payload (400, terminal).
  - Auth: missing, invalid or expired token (401), wrong role (403).
  - Resolution: handle not found (404, no fallback).
  - Store: underlying read/write failure (500) carrying the store-provided
    message, details, hint and code for operator diagnosis.

Every error that leaves the service layer should be an [AppError] so the
response envelope stays consistent.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is the canonical error type for the API.
//
// # Security
//
// The Cause field is for server-side logging only and is never sent to clients.
// Store diagnostics (StoreDetails, Hint, StoreCode) are sent on purpose: they are
// what an operator needs to fix a schema or constraint problem.
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "NOT_FOUND", "STORE_ERROR").
	Code string `json:"code"`
	// Message is a human-readable description safe to return to the client.
	Message string `json:"error"`
	// HTTPStatus is the HTTP response status code.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
	// Details holds per-field validation errors for VALIDATION_ERROR responses.
	Details []FieldError `json:"details,omitempty"`

	// StoreMessage is the raw message reported by the data store.
	StoreMessage string `json:"message,omitempty"`
	// StoreDetails is the store's detail line (e.g. the conflicting key).
	StoreDetails string `json:"-"`
	// Hint is the store's remediation hint, if any.
	Hint string `json:"hint,omitempty"`
	// StoreCode is the store's native error code (e.g. SQLSTATE "23502").
	StoreCode string `json:"-"`
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
//	apperr.NotFound("Page") // Returns "Page not found"
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       "NOT_FOUND",
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// Unauthorized creates a 401 [AppError].
func Unauthorized(msg string) *AppError {
	return &AppError{
		Code:       "UNAUTHORIZED",
		Message:    msg,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// Forbidden creates a 403 [AppError].
func Forbidden(msg string) *AppError {
	return &AppError{
		Code:       "FORBIDDEN",
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

// RateLimited creates a 429 [AppError].
func RateLimited(retryAfterSeconds int) *AppError {
	return &AppError{
		Code:       "RATE_LIMITED",
		Message:    fmt.Sprintf("Too many requests. Try again in %ds.", retryAfterSeconds),
		HTTPStatus: http.StatusTooManyRequests,
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

// Store creates a 500 [AppError] for a failed store read or write.
//
// Unlike [Internal], the store diagnostics travel to the client so the
// operator can see which constraint or column rejected the statement.
func Store(cause error, message, details, hint, code string) *AppError {
	return &AppError{
		Code:         "STORE_ERROR",
		Message:      "Failed to access page storage",
		HTTPStatus:   http.StatusInternalServerError,
		Cause:        cause,
		StoreMessage: message,
		StoreDetails: details,
		Hint:         hint,
		StoreCode:    code,
	}
}

// # Helpers

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// HasStatus reports whether err carries an [*AppError] with the given HTTP status.
func HasStatus(err error, status int) bool {
	ae := As(err)
	return ae != nil && ae.HTTPStatus == status
}
