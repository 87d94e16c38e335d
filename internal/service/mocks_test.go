package service

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/fathomdev/fathom-api/internal/domain"
	"github.com/fathomdev/fathom-api/internal/pagination"
	"github.com/fathomdev/fathom-api/internal/store"
)

// memDeckStore is an in-memory DeckStore for unit tests.
type memDeckStore struct {
	decks map[uuid.UUID]*domain.Deck
}

func newMemDeckStore() *memDeckStore {
	return &memDeckStore{decks: make(map[uuid.UUID]*domain.Deck)}
}

func (m *memDeckStore) Create(ctx context.Context, deck *domain.Deck) error {
	m.decks[deck.ID] = deck
	return nil
}

func (m *memDeckStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error) {
	deck, ok := m.decks[id]
	if !ok {
		return nil, store.ErrDeckNotFound
	}
	return deck, nil
}

func (m *memDeckStore) List(
	ctx context.Context,
	userID uuid.UUID,
	cursor string,
	limit int,
	now time.Time,
) (*pagination.Page[domain.DeckOverview], error) {
	src := &memDeckSource{store: m, userID: userID}
	return pagination.Paginate[domain.DeckOverview](ctx, src, cursor, limit)
}

func (m *memDeckStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.decks[id]; !ok {
		return store.ErrDeckNotFound
	}
	delete(m.decks, id)
	return nil
}

func (m *memDeckStore) WithTx(tx *sql.Tx) store.DeckStore { return m }

// memDeckSource adapts memDeckStore to the pagination source interface.
type memDeckSource struct {
	store  *memDeckStore
	userID uuid.UUID
}

func (s *memDeckSource) FetchAfter(ctx context.Context, afterID uuid.UUID, limit int) ([]domain.DeckOverview, error) {
	var out []domain.DeckOverview
	for _, deck := range s.store.decks {
		if deck.CreatedBy != s.userID {
			continue
		}
		if deck.ID.String() <= afterID.String() && afterID != uuid.Nil {
			continue
		}
		out = append(out, domain.DeckOverview{Deck: *deck})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID.String() < out[j].ID.String()
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memDeckSource) Count(ctx context.Context) (int, error) {
	n := 0
	for _, deck := range s.store.decks {
		if deck.CreatedBy == s.userID {
			n++
		}
	}
	return n, nil
}

func (s *memDeckSource) ID(item domain.DeckOverview) uuid.UUID { return item.ID }

// memCardStore is an in-memory CardStore for unit tests.
type memCardStore struct {
	cards map[uuid.UUID]*domain.Card
}

func newMemCardStore() *memCardStore {
	return &memCardStore{cards: make(map[uuid.UUID]*domain.Card)}
}

func (m *memCardStore) Create(ctx context.Context, card *domain.Card) error {
	m.cards[card.ID] = card
	return nil
}

func (m *memCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	card, ok := m.cards[id]
	if !ok {
		return nil, store.ErrCardNotFound
	}
	return card, nil
}

func (m *memCardStore) ListByDeck(
	ctx context.Context,
	deckID uuid.UUID,
	cursor string,
	limit int,
) (*pagination.Page[domain.Card], error) {
	src := &memCardSource{store: m, deckID: deckID}
	return pagination.Paginate[domain.Card](ctx, src, cursor, limit)
}

func (m *memCardStore) DueCards(
	ctx context.Context,
	userID uuid.UUID,
	deckID *uuid.UUID,
	limit int,
	now time.Time,
) ([]domain.Card, error) {
	return nil, nil
}

func (m *memCardStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.cards[id]; !ok {
		return store.ErrCardNotFound
	}
	delete(m.cards, id)
	return nil
}

func (m *memCardStore) WithTx(tx *sql.Tx) store.CardStore { return m }

// memCardSource adapts memCardStore to the pagination source interface.
type memCardSource struct {
	store  *memCardStore
	deckID uuid.UUID
}

func (s *memCardSource) FetchAfter(ctx context.Context, afterID uuid.UUID, limit int) ([]domain.Card, error) {
	var out []domain.Card
	for _, card := range s.store.cards {
		if card.DeckID != s.deckID {
			continue
		}
		if afterID != uuid.Nil && card.ID.String() <= afterID.String() {
			continue
		}
		out = append(out, *card)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID.String() < out[j].ID.String()
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memCardSource) Count(ctx context.Context) (int, error) {
	n := 0
	for _, card := range s.store.cards {
		if card.DeckID == s.deckID {
			n++
		}
	}
	return n, nil
}

func (s *memCardSource) ID(item domain.Card) uuid.UUID { return item.ID }

// memUserStore is an in-memory UserStore for unit tests.
type memUserStore struct {
	users map[uuid.UUID]*domain.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[uuid.UUID]*domain.User)}
}

func (m *memUserStore) Create(ctx context.Context, user *domain.User) error {
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	m.users[user.ID] = user
	return nil
}

func (m *memUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

func (m *memUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (m *memUserStore) WithTx(tx *sql.Tx) store.UserStore { return m }
