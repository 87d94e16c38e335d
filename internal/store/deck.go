package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/fathomdev/fathom-api/internal/domain"
	"github.com/fathomdev/fathom-api/internal/pagination"
)

// DeckStore defines the interface for deck data persistence.
type DeckStore interface {
	// Create saves a new deck.
	Create(ctx context.Context, deck *domain.Deck) error

	// GetByID retrieves a deck by its unique ID.
	// Returns ErrDeckNotFound if the deck does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error)

	// List returns one page of the user's decks in creation (ID) order,
	// each annotated with its total card count and the number of those
	// cards due for the owner at the given time.
	List(
		ctx context.Context,
		userID uuid.UUID,
		cursor string,
		limit int,
		now time.Time,
	) (*pagination.Page[domain.DeckOverview], error)

	// Delete removes a deck by its ID. Cards, learning states, and review
	// events under the deck go with it via ON DELETE CASCADE.
	// Returns ErrDeckNotFound if the deck does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a DeckStore bound to the provided transaction.
	WithTx(tx *sql.Tx) DeckStore
}
