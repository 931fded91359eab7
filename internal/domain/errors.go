// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidMileageUnit is returned when a mileage unit code or word
	// is not recognized.
	ErrInvalidMileageUnit = errors.New("invalid mileage unit")

	// ErrInvalidMileage is returned when a mileage magnitude is negative
	// or not a finite number. Never silently clamped.
	ErrInvalidMileage = errors.New("invalid mileage value")

	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrInvalidYear is returned when a car year is outside the accepted
	// range.
	ErrInvalidYear = errors.New("invalid year")
)
