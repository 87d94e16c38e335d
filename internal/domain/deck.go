package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Deck-specific validation errors
var (
	// ErrDeckIDEmpty is returned when a deck ID is empty or nil.
	ErrDeckIDEmpty = errors.New("deck ID cannot be empty")

	// ErrDeckNameEmpty is returned when a deck's name is empty.
	ErrDeckNameEmpty = errors.New("deck name cannot be empty")

	// ErrDeckOwnerEmpty is returned when a deck's owner ID is empty or nil.
	ErrDeckOwnerEmpty = errors.New("deck owner ID cannot be empty")
)

// Deck groups a user's cards. Deck IDs are version-7 UUIDs, so ascending
// ID order is creation order and list queries can key their pagination
// on the ID alone.
type Deck struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedBy   uuid.UUID `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DeckOverview is a deck together with the aggregate card counts shown
// in deck listings. DueCards is relative to the owner and the time the
// listing query ran.
type DeckOverview struct {
	Deck
	TotalCards int `json:"total_cards"`
	DueCards   int `json:"due_cards"`
}

// NewDeck creates a new Deck owned by the given user.
// Returns an error if validation fails or ID generation fails.
func NewDeck(createdBy uuid.UUID, name, description string) (*Deck, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate deck ID: %w", err)
	}

	now := time.Now().UTC()
	deck := &Deck{
		ID:          id,
		Name:        name,
		Description: description,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := deck.Validate(); err != nil {
		return nil, err
	}

	return deck, nil
}

// Validate checks if the Deck has valid data.
func (d *Deck) Validate() error {
	if d.ID == uuid.Nil {
		return ErrDeckIDEmpty
	}

	if d.Name == "" {
		return ErrDeckNameEmpty
	}

	if d.CreatedBy == uuid.Nil {
		return ErrDeckOwnerEmpty
	}

	return nil
}
