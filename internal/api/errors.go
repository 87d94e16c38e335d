package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/fathomdev/fathom-api/internal/generation"
	"github.com/fathomdev/fathom-api/internal/service"
	"github.com/fathomdev/fathom-api/internal/service/auth"
	"github.com/fathomdev/fathom-api/internal/service/study"
	"github.com/fathomdev/fathom-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status
// codes based on the error type. This prevents leaking internal error
// types or messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, service.ErrNotOwned),
		errors.Is(err, study.ErrCardNotOwned),
		errors.Is(err, study.ErrDeckNotOwned):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrDeckNotFound),
		errors.Is(err, service.ErrCardNotFound),
		errors.Is(err, study.ErrCardNotFound),
		errors.Is(err, study.ErrDeckNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, service.ErrEmailExists):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, study.ErrInvalidGrade),
		errors.Is(err, generation.ErrEmptyTopic):
		return http.StatusBadRequest

	// Upstream LLM failures
	case errors.Is(err, generation.ErrTransientFailure):
		return http.StatusServiceUnavailable
	case errors.Is(err, generation.ErrGenerationFailed):
		return http.StatusBadGateway

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal
// details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken):
		return "Invalid token"

	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid credentials"

	case errors.Is(err, service.ErrNotOwned),
		errors.Is(err, study.ErrCardNotOwned),
		errors.Is(err, study.ErrDeckNotOwned):
		return "You do not own this resource"

	case errors.Is(err, service.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, service.ErrDeckNotFound),
		errors.Is(err, study.ErrDeckNotFound):
		return "Deck not found"

	case errors.Is(err, service.ErrCardNotFound),
		errors.Is(err, study.ErrCardNotFound):
		return "Card not found"

	case errors.Is(err, service.ErrEmailExists):
		return "Email already exists"

	case errors.Is(err, study.ErrInvalidGrade):
		return "Invalid review grade"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	case errors.Is(err, generation.ErrEmptyTopic):
		return "Topic cannot be empty"

	case errors.Is(err, generation.ErrTransientFailure):
		return "Card generation is temporarily unavailable"

	case errors.Is(err, generation.ErrContentBlocked):
		return "Card generation was blocked for this topic"

	case errors.Is(err, generation.ErrGenerationFailed):
		return "Card generation produced no usable drafts"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError removes sensitive details from validation
// errors and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	if strings.Contains(errMsg, "Field validation") {
		// Example: "Key: 'LoginRequest.Email' Error:Field validation for 'Email' failed on the 'required' tag"
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}
				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
