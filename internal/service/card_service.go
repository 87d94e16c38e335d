package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/fathomdev/fathom-api/internal/domain"
	"github.com/fathomdev/fathom-api/internal/pagination"
	"github.com/fathomdev/fathom-api/internal/platform/logger"
	"github.com/fathomdev/fathom-api/internal/store"
)

// CardService provides card-related operations. Every operation is
// scoped to a deck the requesting user owns.
type CardService interface {
	// CreateCard adds a card to one of the user's decks.
	CreateCard(ctx context.Context, userID, deckID uuid.UUID, front, back string) (*domain.Card, error)

	// GetCard retrieves a card by ID, verifying the requesting user owns
	// the deck it belongs to.
	GetCard(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error)

	// ListCards returns one page of a deck's cards in creation order.
	ListCards(
		ctx context.Context,
		userID, deckID uuid.UUID,
		cursor string,
		limit int,
	) (*pagination.Page[domain.Card], error)

	// DeleteCard removes a card from one of the user's decks.
	DeleteCard(ctx context.Context, userID, cardID uuid.UUID) error
}

// cardServiceImpl implements the CardService interface.
type cardServiceImpl struct {
	cardStore store.CardStore
	deckStore store.DeckStore
	logger    *slog.Logger
}

// NewCardService creates a new CardService.
func NewCardService(cardStore store.CardStore, deckStore store.DeckStore, logger *slog.Logger) CardService {
	if cardStore == nil {
		panic("cardStore cannot be nil")
	}
	if deckStore == nil {
		panic("deckStore cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &cardServiceImpl{
		cardStore: cardStore,
		deckStore: deckStore,
		logger:    logger.With(slog.String("component", "card_service")),
	}
}

// requireDeckOwned fetches the deck and verifies ownership.
func (s *cardServiceImpl) requireDeckOwned(ctx context.Context, userID, deckID uuid.UUID) (*domain.Deck, error) {
	deck, err := s.deckStore.GetByID(ctx, deckID)
	if err != nil {
		if errors.Is(err, store.ErrDeckNotFound) {
			return nil, ErrDeckNotFound
		}
		return nil, fmt.Errorf("failed to get deck: %w", err)
	}
	if deck.CreatedBy != userID {
		return nil, ErrNotOwned
	}
	return deck, nil
}

// CreateCard implements CardService.CreateCard.
func (s *cardServiceImpl) CreateCard(
	ctx context.Context,
	userID, deckID uuid.UUID,
	front, back string,
) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.requireDeckOwned(ctx, userID, deckID); err != nil {
		return nil, err
	}

	card, err := domain.NewCard(deckID, front, back)
	if err != nil {
		return nil, err
	}

	if err := s.cardStore.Create(ctx, card); err != nil {
		log.Error("failed to create card",
			slog.String("error", err.Error()),
			slog.String("deck_id", deckID.String()))
		return nil, fmt.Errorf("failed to create card: %w", err)
	}

	log.Debug("created card",
		slog.String("card_id", card.ID.String()),
		slog.String("deck_id", deckID.String()))
	return card, nil
}

// GetCard implements CardService.GetCard.
func (s *cardServiceImpl) GetCard(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error) {
	card, err := s.cardStore.GetByID(ctx, cardID)
	if err != nil {
		if errors.Is(err, store.ErrCardNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, fmt.Errorf("failed to get card: %w", err)
	}

	if _, err := s.requireDeckOwned(ctx, userID, card.DeckID); err != nil {
		return nil, err
	}

	return card, nil
}

// ListCards implements CardService.ListCards.
func (s *cardServiceImpl) ListCards(
	ctx context.Context,
	userID, deckID uuid.UUID,
	cursor string,
	limit int,
) (*pagination.Page[domain.Card], error) {
	if _, err := s.requireDeckOwned(ctx, userID, deckID); err != nil {
		return nil, err
	}

	page, err := s.cardStore.ListByDeck(ctx, deckID, cursor, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	return page, nil
}

// DeleteCard implements CardService.DeleteCard.
func (s *cardServiceImpl) DeleteCard(ctx context.Context, userID, cardID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// GetCard performs the ownership check.
	if _, err := s.GetCard(ctx, userID, cardID); err != nil {
		return err
	}

	if err := s.cardStore.Delete(ctx, cardID); err != nil {
		if errors.Is(err, store.ErrCardNotFound) {
			return ErrCardNotFound
		}
		log.Error("failed to delete card",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return fmt.Errorf("failed to delete card: %w", err)
	}

	log.Debug("deleted card", slog.String("card_id", cardID.String()))
	return nil
}
