// Package study implements the review workflow: listing the cards a
// learner should study and recording the outcome of each review.
package study

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/fathomdev/fathom-api/internal/domain"
)

// ReviewResult is what a completed review produces: the appended event
// and the learner's updated scheduling state for the card.
type ReviewResult struct {
	Event *domain.ReviewEvent   `json:"event"`
	State *domain.LearningState `json:"state"`
}

// StudyService provides methods for studying flashcards with spaced
// repetition scheduling.
type StudyService interface {
	// DueCards returns the cards due for the user at the given time, in
	// creation order. A non-nil deckID restricts the result to that deck;
	// a positive limit caps the result length.
	//
	// Returns ErrDeckNotFound or ErrDeckNotOwned when a deck filter names
	// a deck the user cannot study.
	DueCards(
		ctx context.Context,
		userID uuid.UUID,
		deckID *uuid.UUID,
		limit int,
		now time.Time,
	) ([]domain.Card, error)

	// RecordReview records one review of a card by a user: it computes
	// the next scheduling state from the prior state and the grade,
	// persists it, and appends a review event. The whole operation runs
	// in a single transaction with the learner's state row locked, so
	// concurrent reviews of the same card by the same learner serialize.
	//
	// Returns ErrCardNotFound if the card does not exist, ErrCardNotOwned
	// if the card belongs to another user's deck, and ErrInvalidGrade for
	// a grade outside 0..3.
	RecordReview(
		ctx context.Context,
		userID uuid.UUID,
		cardID uuid.UUID,
		grade domain.Grade,
		reviewedAt time.Time,
	) (*ReviewResult, error)

	// ReviewHistory returns the user's past reviews of a card, most
	// recent first. A card with no reviews yields an empty slice.
	//
	// Returns ErrCardNotFound if the card does not exist and
	// ErrCardNotOwned if the card belongs to another user's deck.
	ReviewHistory(
		ctx context.Context,
		userID uuid.UUID,
		cardID uuid.UUID,
	) ([]domain.ReviewEvent, error)
}

// Common error types for StudyService
var (
	// ErrCardNotFound indicates that the card does not exist.
	ErrCardNotFound = errors.New("card not found")

	// ErrCardNotOwned indicates that the card belongs to another user's deck.
	ErrCardNotOwned = errors.New("unauthorized access: card not owned by user")

	// ErrDeckNotFound indicates that the requested deck filter does not exist.
	ErrDeckNotFound = errors.New("deck not found")

	// ErrDeckNotOwned indicates that the deck filter names another user's deck.
	ErrDeckNotOwned = errors.New("unauthorized access: deck not owned by user")

	// ErrInvalidGrade indicates a grade outside the supported range.
	ErrInvalidGrade = errors.New("invalid review grade")
)
