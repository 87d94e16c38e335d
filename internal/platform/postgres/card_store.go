package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fathomdev/fathom-api/internal/domain"
	"github.com/fathomdev/fathom-api/internal/pagination"
	"github.com/fathomdev/fathom-api/internal/store"
)

// CardStore implements the store.CardStore interface using a PostgreSQL
// database as the storage backend.
type CardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewCardStore creates a new PostgreSQL implementation of the CardStore
// interface.
func NewCardStore(db store.DBTX, logger *slog.Logger) *CardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &CardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

// Ensure CardStore implements store.CardStore interface
var _ store.CardStore = (*CardStore)(nil)

// Create implements store.CardStore.Create.
func (s *CardStore) Create(ctx context.Context, card *domain.Card) error {
	if err := card.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	const query = `
		INSERT INTO cards (id, deck_id, front_content, back_content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.db.ExecContext(ctx, query,
		card.ID, card.DeckID, card.FrontContent, card.BackContent, card.CreatedAt, card.UpdatedAt)
	if err != nil {
		return MapError(err)
	}

	return nil
}

// GetByID implements store.CardStore.GetByID.
func (s *CardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	const query = `
		SELECT id, deck_id, front_content, back_content, created_at, updated_at
		FROM cards
		WHERE id = $1`

	var card domain.Card
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&card.ID, &card.DeckID, &card.FrontContent, &card.BackContent,
		&card.CreatedAt, &card.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrCardNotFound
		}
		return nil, MapError(err)
	}

	return &card, nil
}

// cardPageSource adapts a single deck's card listing to the
// pagination.Source interface.
type cardPageSource struct {
	store  *CardStore
	deckID uuid.UUID
}

func (src *cardPageSource) FetchAfter(ctx context.Context, afterID uuid.UUID, limit int) ([]domain.Card, error) {
	const query = `
		SELECT id, deck_id, front_content, back_content, created_at, updated_at
		FROM cards
		WHERE deck_id = $1 AND id > $2
		ORDER BY id ASC
		LIMIT $3`

	rows, err := src.store.db.QueryContext(ctx, query, src.deckID, afterID, limit)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	return scanCards(rows)
}

func (src *cardPageSource) Count(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM cards WHERE deck_id = $1`

	var total int
	if err := src.store.db.QueryRowContext(ctx, query, src.deckID).Scan(&total); err != nil {
		return 0, MapError(err)
	}
	return total, nil
}

func (src *cardPageSource) ID(item domain.Card) uuid.UUID {
	return item.ID
}

// ListByDeck implements store.CardStore.ListByDeck.
func (s *CardStore) ListByDeck(
	ctx context.Context,
	deckID uuid.UUID,
	cursor string,
	limit int,
) (*pagination.Page[domain.Card], error) {
	src := &cardPageSource{store: s, deckID: deckID}
	return pagination.Paginate[domain.Card](ctx, src, cursor, limit)
}

// DueCards implements store.CardStore.DueCards.
//
// The due set is an outer join of the user's cards against their
// learning states: a card with no state row has never been studied and
// is always due; a card with a state row is due once its next study
// date has arrived. Everything else is filtered out.
func (s *CardStore) DueCards(
	ctx context.Context,
	userID uuid.UUID,
	deckID *uuid.UUID,
	limit int,
	now time.Time,
) ([]domain.Card, error) {
	query := `
		SELECT c.id, c.deck_id, c.front_content, c.back_content, c.created_at, c.updated_at
		FROM cards c
		JOIN decks d ON d.id = c.deck_id
		LEFT JOIN learning_states ls
		       ON ls.card_id = c.id AND ls.user_id = $1
		WHERE d.created_by = $1
		  AND ($2::uuid IS NULL OR c.deck_id = $2)
		  AND (ls.card_id IS NULL OR ls.next_study_date <= $3)
		ORDER BY c.id ASC`

	args := []any{userID, deckID, now}
	if limit > 0 {
		query += `
		LIMIT $4`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	return scanCards(rows)
}

// Delete implements store.CardStore.Delete.
func (s *CardStore) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM cards WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrCardNotFound)
}

// WithTx implements store.CardStore.WithTx.
func (s *CardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &CardStore{db: tx, logger: s.logger}
}

func scanCards(rows *sql.Rows) ([]domain.Card, error) {
	var cards []domain.Card
	for rows.Next() {
		var card domain.Card
		err := rows.Scan(
			&card.ID, &card.DeckID, &card.FrontContent, &card.BackContent,
			&card.CreatedAt, &card.UpdatedAt)
		if err != nil {
			return nil, MapError(err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return cards, nil
}
