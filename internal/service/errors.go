// Package service provides application-level services for managing
// decks, cards, and users.
package service

import "errors"

// Common service errors, sentinel errors used across service
// implementations. Callers check for them with errors.Is(); the API
// layer maps them to HTTP status codes.
var (
	// ErrNotOwned indicates a resource is owned by a different user than
	// the one making the request. API layer should map this to HTTP 403
	// Forbidden.
	ErrNotOwned = errors.New("resource is owned by another user")

	// ErrDeckNotFound indicates the requested deck does not exist.
	ErrDeckNotFound = errors.New("deck not found")

	// ErrCardNotFound indicates the requested card does not exist.
	ErrCardNotFound = errors.New("card not found")

	// ErrEmailExists indicates a registration attempt with an email that
	// is already taken.
	ErrEmailExists = errors.New("email address is already registered")

	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")
)
