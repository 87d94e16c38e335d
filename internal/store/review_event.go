package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/fathomdev/fathom-api/internal/domain"
)

// ReviewEventStore defines the interface for the append-only review
// history. Events are never updated or deleted by application code; they
// disappear only by cascade from card, deck, or user deletion.
type ReviewEventStore interface {
	// Create appends one review event.
	// Returns ErrCardNotFound, ErrDeckNotFound, or ErrUserNotFound when a
	// referenced entity is missing (surfaced from the foreign keys).
	Create(ctx context.Context, event *domain.ReviewEvent) error

	// ListByCard returns a learner's review history for one card, most
	// recent first.
	ListByCard(ctx context.Context, cardID, userID uuid.UUID) ([]domain.ReviewEvent, error)

	// WithTx returns a ReviewEventStore bound to the provided transaction.
	WithTx(tx *sql.Tx) ReviewEventStore
}
