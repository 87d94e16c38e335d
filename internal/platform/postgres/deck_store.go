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

// DeckStore implements the store.DeckStore interface using a PostgreSQL
// database as the storage backend.
type DeckStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewDeckStore creates a new PostgreSQL implementation of the DeckStore
// interface.
func NewDeckStore(db store.DBTX, logger *slog.Logger) *DeckStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &DeckStore{
		db:     db,
		logger: logger.With(slog.String("component", "deck_store")),
	}
}

// Ensure DeckStore implements store.DeckStore interface
var _ store.DeckStore = (*DeckStore)(nil)

// Create implements store.DeckStore.Create.
func (s *DeckStore) Create(ctx context.Context, deck *domain.Deck) error {
	if err := deck.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	const query = `
		INSERT INTO decks (id, name, description, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.db.ExecContext(ctx, query,
		deck.ID, deck.Name, deck.Description, deck.CreatedBy, deck.CreatedAt, deck.UpdatedAt)
	if err != nil {
		return MapError(err)
	}

	return nil
}

// GetByID implements store.DeckStore.GetByID.
func (s *DeckStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error) {
	const query = `
		SELECT id, name, description, created_by, created_at, updated_at
		FROM decks
		WHERE id = $1`

	var deck domain.Deck
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&deck.ID, &deck.Name, &deck.Description, &deck.CreatedBy, &deck.CreatedAt, &deck.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrDeckNotFound
		}
		return nil, MapError(err)
	}

	return &deck, nil
}

// deckPageSource adapts the deck listing query to the pagination.Source
// interface for one (user, time) filter.
type deckPageSource struct {
	store  *DeckStore
	userID uuid.UUID
	now    time.Time
}

func (src *deckPageSource) FetchAfter(ctx context.Context, afterID uuid.UUID, limit int) ([]domain.DeckOverview, error) {
	// The due count is computed for the deck owner: cards with no
	// learning state row for the owner, or with a due date at or before
	// the query time.
	const query = `
		SELECT d.id, d.name, d.description, d.created_by, d.created_at, d.updated_at,
		       COUNT(c.id) AS total_cards,
		       COUNT(c.id) FILTER (
		           WHERE ls.card_id IS NULL OR ls.next_study_date <= $2
		       ) AS due_cards
		FROM decks d
		LEFT JOIN cards c ON c.deck_id = d.id
		LEFT JOIN learning_states ls
		       ON ls.card_id = c.id AND ls.user_id = d.created_by
		WHERE d.created_by = $1 AND d.id > $3
		GROUP BY d.id, d.name, d.description, d.created_by, d.created_at, d.updated_at
		ORDER BY d.id ASC
		LIMIT $4`

	rows, err := src.store.db.QueryContext(ctx, query, src.userID, src.now, afterID, limit)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var overviews []domain.DeckOverview
	for rows.Next() {
		var o domain.DeckOverview
		err := rows.Scan(
			&o.ID, &o.Name, &o.Description, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt,
			&o.TotalCards, &o.DueCards)
		if err != nil {
			return nil, MapError(err)
		}
		overviews = append(overviews, o)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return overviews, nil
}

func (src *deckPageSource) Count(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM decks WHERE created_by = $1`

	var total int
	if err := src.store.db.QueryRowContext(ctx, query, src.userID).Scan(&total); err != nil {
		return 0, MapError(err)
	}
	return total, nil
}

func (src *deckPageSource) ID(item domain.DeckOverview) uuid.UUID {
	return item.Deck.ID
}

// List implements store.DeckStore.List.
func (s *DeckStore) List(
	ctx context.Context,
	userID uuid.UUID,
	cursor string,
	limit int,
	now time.Time,
) (*pagination.Page[domain.DeckOverview], error) {
	src := &deckPageSource{store: s, userID: userID, now: now}
	return pagination.Paginate[domain.DeckOverview](ctx, src, cursor, limit)
}

// Delete implements store.DeckStore.Delete.
func (s *DeckStore) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM decks WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrDeckNotFound)
}

// WithTx implements store.DeckStore.WithTx.
func (s *DeckStore) WithTx(tx *sql.Tx) store.DeckStore {
	return &DeckStore{db: tx, logger: s.logger}
}
