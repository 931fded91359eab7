package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/autofleet/garage-api/internal/domain"
	"github.com/autofleet/garage-api/internal/service"
	"github.com/autofleet/garage-api/internal/service/auth"
	"github.com/autofleet/garage-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, service.ErrCarNotOwned):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, service.ErrCarNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Empty patches and domain validation failures
	case errors.Is(err, service.ErrNoChanges),
		errors.Is(err, domain.ErrInvalidMileage),
		errors.Is(err, domain.ErrInvalidMileageUnit),
		errors.Is(err, domain.ErrInvalidYear),
		errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists),
		errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid email or password"

	// Authorization errors
	case errors.Is(err, service.ErrCarNotOwned):
		return "You do not own this car"

	// Not found errors
	case errors.Is(err, service.ErrCarNotFound):
		return "Car not found"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrBrandNotFound):
		return "Brand not found"

	case errors.Is(err, store.ErrCarModelNotFound):
		return "Car model not found"

	case errors.Is(err, store.ErrColorNotFound):
		return "Color not found"

	case errors.Is(err, service.ErrNoChanges):
		return "No changes provided"

	case errors.Is(err, domain.ErrInvalidMileageUnit):
		return "Invalid mileage unit"

	case errors.Is(err, domain.ErrInvalidMileage):
		return "Invalid mileage value"

	case errors.Is(err, domain.ErrInvalidYear):
		return "Invalid year"

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity):
		return "Referenced entity does not exist"

	default:
		return "An unexpected error occurred"
	}
}

// ValidationErrorMap converts a validator error into a field-keyed map
// of user-facing messages. Field names come from the struct's json tags
// via the validator's registered tag name function; nested fields key
// with dot notation (mileage.value).
func ValidationErrorMap(err error) map[string]string {
	fieldErrors := make(map[string]string)

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		fieldErrors["request"] = "Invalid request"
		return fieldErrors
	}

	for _, fieldErr := range validationErrs {
		name := fieldErr.Field()
		// Namespace carries the full dotted path, rooted at the
		// request struct's type name.
		if ns := fieldErr.Namespace(); ns != "" {
			if i := strings.Index(ns, "."); i >= 0 {
				name = ns[i+1:]
			}
		}
		fieldErrors[name] = validationTagMessage(name, fieldErr.Tag())
	}
	return fieldErrors
}

// validationTagMessage maps validation tags to user-friendly messages.
func validationTagMessage(field, tag string) string {
	switch tag {
	case "required":
		return "The " + field + " field is required"
	case "email":
		return "The " + field + " must be a valid email address"
	case "min":
		return "The " + field + " is too short"
	case "max":
		return "The " + field + " is too long"
	case "gte":
		return "The " + field + " is too small"
	case "lte":
		return "The " + field + " is too large"
	case "oneof":
		return "The " + field + " has an invalid value"
	default:
		return "The " + field + " is invalid"
	}
}
