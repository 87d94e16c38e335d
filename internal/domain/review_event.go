package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ReviewEvent validation errors
var (
	// ErrEventIDEmpty is returned when a review event's ID is empty or nil.
	ErrEventIDEmpty = errors.New("review event ID cannot be empty")

	// ErrEventCardIDEmpty is returned when a review event's card ID is empty or nil.
	ErrEventCardIDEmpty = errors.New("review event card ID cannot be empty")

	// ErrEventDeckIDEmpty is returned when a review event's deck ID is empty or nil.
	ErrEventDeckIDEmpty = errors.New("review event deck ID cannot be empty")

	// ErrEventUserIDEmpty is returned when a review event's user ID is empty or nil.
	ErrEventUserIDEmpty = errors.New("review event user ID cannot be empty")
)

// ReviewEvent is the immutable record of a single review submission.
// Events are append-only audit history; the scheduler never reads them,
// it only needs the current LearningState. Events disappear only by
// cascade when their card, deck, or user is deleted.
type ReviewEvent struct {
	ID        uuid.UUID `json:"id"`
	CardID    uuid.UUID `json:"card_id"`
	DeckID    uuid.UUID `json:"deck_id"`
	StudiedBy uuid.UUID `json:"studied_by"`
	Grade     Grade     `json:"grade"`
	StudiedAt time.Time `json:"studied_at"`
}

// NewReviewEvent creates a review event for a single review submission.
// Returns an error if validation fails.
func NewReviewEvent(cardID, deckID, studiedBy uuid.UUID, grade Grade, studiedAt time.Time) (*ReviewEvent, error) {
	event := &ReviewEvent{
		ID:        uuid.New(),
		CardID:    cardID,
		DeckID:    deckID,
		StudiedBy: studiedBy,
		Grade:     grade,
		StudiedAt: studiedAt,
	}

	if err := event.Validate(); err != nil {
		return nil, err
	}

	return event, nil
}

// Validate checks if the ReviewEvent has valid data.
func (e *ReviewEvent) Validate() error {
	if e.ID == uuid.Nil {
		return ErrEventIDEmpty
	}

	if e.CardID == uuid.Nil {
		return ErrEventCardIDEmpty
	}

	if e.DeckID == uuid.Nil {
		return ErrEventDeckIDEmpty
	}

	if e.StudiedBy == uuid.Nil {
		return ErrEventUserIDEmpty
	}

	if !e.Grade.Valid() {
		return ErrInvalidGrade
	}

	return nil
}
