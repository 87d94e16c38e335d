package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/fathomdev/fathom-api/internal/domain"
)

// LearningStateStore defines the interface for per-(card, learner)
// scheduling state persistence. The review orchestrator is the only
// writer; it always works inside a transaction.
type LearningStateStore interface {
	// Get retrieves the learning state for the (card, user) pair.
	// Returns ErrLearningStateNotFound if the pair has never been
	// studied. No row lock is taken; do not use this when you intend to
	// update the row.
	Get(ctx context.Context, cardID, userID uuid.UUID) (*domain.LearningState, error)

	// GetForUpdate retrieves the learning state with a row-level lock
	// (SELECT ... FOR UPDATE). Must be called within a transaction; the
	// lock is what serializes concurrent reviews of the same card by the
	// same learner. Returns ErrLearningStateNotFound if the pair has
	// never been studied; that is a valid first-review condition, and
	// the absent row cannot be locked, so first reviews are serialized by
	// the primary-key constraint on insert instead.
	GetForUpdate(ctx context.Context, cardID, userID uuid.UUID) (*domain.LearningState, error)

	// Upsert creates the learning state on first review and updates it in
	// place on every later review of the same card by the same learner.
	Upsert(ctx context.Context, state *domain.LearningState) error

	// WithTx returns a LearningStateStore bound to the provided transaction.
	WithTx(tx *sql.Tx) LearningStateStore
}
