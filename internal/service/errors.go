// Package service provides application-level services for managing cars and users.
package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// These errors represent expected conditions that callers check for with errors.Is().
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Unexpected errors are wrapped in service-specific error types
// 3. The API layer maps service errors to appropriate HTTP status codes
var (
	// ErrCarNotFound indicates the car does not exist, or is owned by
	// another user in a context where ownership must not be revealed.
	// API layer should map this to HTTP 404 Not Found.
	ErrCarNotFound = errors.New("car not found")

	// ErrCarNotOwned indicates the car is owned by a different user than
	// the one making the request. Returned only from mutating operations,
	// where the resource's existence is already knowable.
	// API layer should map this to HTTP 403 Forbidden.
	ErrCarNotOwned = errors.New("car is owned by another user")

	// ErrNoChanges indicates an update request contained no fields.
	// API layer should map this to HTTP 422 Unprocessable Entity.
	ErrNoChanges = errors.New("update contains no changes")
)
