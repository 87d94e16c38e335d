package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/fathomdev/fathom-api/internal/domain"
	"github.com/fathomdev/fathom-api/internal/pagination"
)

// CardStore defines the interface for card data persistence.
type CardStore interface {
	// Create saves a new card.
	// Returns ErrDeckNotFound if the owning deck does not exist.
	Create(ctx context.Context, card *domain.Card) error

	// GetByID retrieves a card by its unique ID.
	// Returns ErrCardNotFound if the card does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// ListByDeck returns one page of a deck's cards in creation (ID) order.
	ListByDeck(
		ctx context.Context,
		deckID uuid.UUID,
		cursor string,
		limit int,
	) (*pagination.Page[domain.Card], error)

	// DueCards returns the user's cards that are due at the given time:
	// cards the user has never studied, plus cards whose next study date
	// has arrived or passed. Future-dated cards are excluded. A non-nil
	// deckID restricts the result to that deck. Results come back in
	// creation (ID) order; a positive limit caps the result length and a
	// non-positive limit means no cap.
	DueCards(
		ctx context.Context,
		userID uuid.UUID,
		deckID *uuid.UUID,
		limit int,
		now time.Time,
	) ([]domain.Card, error)

	// Delete removes a card by its ID. The card's learning states and
	// review events go with it via ON DELETE CASCADE.
	// Returns ErrCardNotFound if the card does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a CardStore bound to the provided transaction.
	WithTx(tx *sql.Tx) CardStore
}
