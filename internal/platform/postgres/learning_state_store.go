package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/fathomdev/fathom-api/internal/domain"
	"github.com/fathomdev/fathom-api/internal/store"
)

// LearningStateStore implements the store.LearningStateStore interface
// using a PostgreSQL database as the storage backend.
type LearningStateStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewLearningStateStore creates a new PostgreSQL implementation of the
// LearningStateStore interface.
func NewLearningStateStore(db store.DBTX, logger *slog.Logger) *LearningStateStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &LearningStateStore{
		db:     db,
		logger: logger.With(slog.String("component", "learning_state_store")),
	}
}

// Ensure LearningStateStore implements store.LearningStateStore interface
var _ store.LearningStateStore = (*LearningStateStore)(nil)

const learningStateColumns = `card_id, user_id, ease_factor, interval, next_study_date, created_at, updated_at`

// Get implements store.LearningStateStore.Get.
func (s *LearningStateStore) Get(ctx context.Context, cardID, userID uuid.UUID) (*domain.LearningState, error) {
	const query = `
		SELECT ` + learningStateColumns + `
		FROM learning_states
		WHERE card_id = $1 AND user_id = $2`

	return s.getOne(ctx, query, cardID, userID)
}

// GetForUpdate implements store.LearningStateStore.GetForUpdate. It
// must run inside a transaction; the returned row stays locked until
// that transaction commits or rolls back.
func (s *LearningStateStore) GetForUpdate(ctx context.Context, cardID, userID uuid.UUID) (*domain.LearningState, error) {
	const query = `
		SELECT ` + learningStateColumns + `
		FROM learning_states
		WHERE card_id = $1 AND user_id = $2
		FOR UPDATE`

	return s.getOne(ctx, query, cardID, userID)
}

func (s *LearningStateStore) getOne(ctx context.Context, query string, cardID, userID uuid.UUID) (*domain.LearningState, error) {
	var state domain.LearningState
	err := s.db.QueryRowContext(ctx, query, cardID, userID).Scan(
		&state.CardID, &state.UserID,
		&state.EaseFactor, &state.Interval, &state.NextStudyDate,
		&state.CreatedAt, &state.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrLearningStateNotFound
		}
		return nil, MapError(err)
	}

	return &state, nil
}

// Upsert implements store.LearningStateStore.Upsert. The first review
// of a card inserts a fresh row; subsequent reviews update it in place.
func (s *LearningStateStore) Upsert(ctx context.Context, state *domain.LearningState) error {
	if err := state.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	const query = `
		INSERT INTO learning_states (` + learningStateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (card_id, user_id) DO UPDATE SET
			ease_factor = EXCLUDED.ease_factor,
			interval = EXCLUDED.interval,
			next_study_date = EXCLUDED.next_study_date,
			updated_at = EXCLUDED.updated_at`

	_, err := s.db.ExecContext(ctx, query,
		state.CardID, state.UserID,
		state.EaseFactor, state.Interval, state.NextStudyDate,
		state.CreatedAt, state.UpdatedAt)
	if err != nil {
		return MapError(err)
	}

	return nil
}

// WithTx implements store.LearningStateStore.WithTx.
func (s *LearningStateStore) WithTx(tx *sql.Tx) store.LearningStateStore {
	return &LearningStateStore{db: tx, logger: s.logger}
}
