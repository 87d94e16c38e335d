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

// ReviewEventStore implements the store.ReviewEventStore interface
// using a PostgreSQL database as the storage backend.
type ReviewEventStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewReviewEventStore creates a new PostgreSQL implementation of the
// ReviewEventStore interface.
func NewReviewEventStore(db store.DBTX, logger *slog.Logger) *ReviewEventStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ReviewEventStore{
		db:     db,
		logger: logger.With(slog.String("component", "review_event_store")),
	}
}

// Ensure ReviewEventStore implements store.ReviewEventStore interface
var _ store.ReviewEventStore = (*ReviewEventStore)(nil)

// Create implements store.ReviewEventStore.Create. Review events are
// append-only; there is no update or delete path.
func (s *ReviewEventStore) Create(ctx context.Context, event *domain.ReviewEvent) error {
	if err := event.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	const query = `
		INSERT INTO review_events (id, card_id, deck_id, studied_by, grade, studied_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.db.ExecContext(ctx, query,
		event.ID, event.CardID, event.DeckID, event.StudiedBy, int(event.Grade), event.StudiedAt)
	if err != nil {
		return MapError(err)
	}

	return nil
}

// ListByCard implements store.ReviewEventStore.ListByCard, returning a
// user's review history for a card, most recent first.
func (s *ReviewEventStore) ListByCard(ctx context.Context, cardID, userID uuid.UUID) ([]domain.ReviewEvent, error) {
	const query = `
		SELECT id, card_id, deck_id, studied_by, grade, studied_at
		FROM review_events
		WHERE card_id = $1 AND studied_by = $2
		ORDER BY studied_at DESC`

	rows, err := s.db.QueryContext(ctx, query, cardID, userID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var events []domain.ReviewEvent
	for rows.Next() {
		var event domain.ReviewEvent
		var grade int
		err := rows.Scan(
			&event.ID, &event.CardID, &event.DeckID,
			&event.StudiedBy, &grade, &event.StudiedAt)
		if err != nil {
			return nil, MapError(err)
		}
		event.Grade = domain.Grade(grade)
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return events, nil
}

// WithTx implements store.ReviewEventStore.WithTx.
func (s *ReviewEventStore) WithTx(tx *sql.Tx) store.ReviewEventStore {
	return &ReviewEventStore{db: tx, logger: s.logger}
}
