package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Card-specific validation errors
var (
	// ErrCardIDEmpty is returned when a card ID is empty or nil.
	ErrCardIDEmpty = errors.New("card ID cannot be empty")

	// ErrCardDeckIDEmpty is returned when a card's deck ID is empty or nil.
	ErrCardDeckIDEmpty = errors.New("card deck ID cannot be empty")

	// ErrCardFrontEmpty is returned when a card's front content is empty.
	ErrCardFrontEmpty = errors.New("card front content cannot be empty")

	// ErrCardBackEmpty is returned when a card's back content is empty.
	ErrCardBackEmpty = errors.New("card back content cannot be empty")
)

// Card is a single front/back flashcard belonging to a deck. A card
// carries no scheduling state of its own; per-learner progress lives in
// LearningState. Card IDs are version-7 UUIDs so that ascending ID order
// is creation order; the due-card selector and the cursor pager both
// rely on this.
type Card struct {
	ID           uuid.UUID `json:"id"`
	DeckID       uuid.UUID `json:"deck_id"`
	FrontContent string    `json:"front_content"`
	BackContent  string    `json:"back_content"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewCard creates a new Card in the given deck.
// Returns an error if validation fails or ID generation fails.
func NewCard(deckID uuid.UUID, frontContent, backContent string) (*Card, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate card ID: %w", err)
	}

	now := time.Now().UTC()
	card := &Card{
		ID:           id,
		DeckID:       deckID,
		FrontContent: frontContent,
		BackContent:  backContent,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Card has valid data.
func (c *Card) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCardIDEmpty
	}

	if c.DeckID == uuid.Nil {
		return ErrCardDeckIDEmpty
	}

	if c.FrontContent == "" {
		return ErrCardFrontEmpty
	}

	if c.BackContent == "" {
		return ErrCardBackEmpty
	}

	return nil
}
