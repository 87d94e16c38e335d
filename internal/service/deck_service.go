package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fathomdev/fathom-api/internal/domain"
	"github.com/fathomdev/fathom-api/internal/pagination"
	"github.com/fathomdev/fathom-api/internal/platform/logger"
	"github.com/fathomdev/fathom-api/internal/store"
)

// DeckService provides deck-related operations.
type DeckService interface {
	// CreateDeck creates a new deck owned by the given user.
	CreateDeck(ctx context.Context, userID uuid.UUID, name, description string) (*domain.Deck, error)

	// GetDeck retrieves a deck by ID, verifying the requesting user owns it.
	// Returns ErrDeckNotFound if the deck does not exist and ErrNotOwned
	// if it belongs to another user.
	GetDeck(ctx context.Context, userID, deckID uuid.UUID) (*domain.Deck, error)

	// ListDecks returns one page of the user's decks in creation order,
	// each with its total and currently due card counts.
	ListDecks(
		ctx context.Context,
		userID uuid.UUID,
		cursor string,
		limit int,
		now time.Time,
	) (*pagination.Page[domain.DeckOverview], error)

	// DeleteDeck removes a deck the user owns, along with its cards,
	// learning states, and review history.
	DeleteDeck(ctx context.Context, userID, deckID uuid.UUID) error
}

// deckServiceImpl implements the DeckService interface.
type deckServiceImpl struct {
	deckStore store.DeckStore
	logger    *slog.Logger
}

// NewDeckService creates a new DeckService.
func NewDeckService(deckStore store.DeckStore, logger *slog.Logger) DeckService {
	if deckStore == nil {
		panic("deckStore cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &deckServiceImpl{
		deckStore: deckStore,
		logger:    logger.With(slog.String("component", "deck_service")),
	}
}

// CreateDeck implements DeckService.CreateDeck.
func (s *deckServiceImpl) CreateDeck(
	ctx context.Context,
	userID uuid.UUID,
	name, description string,
) (*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	deck, err := domain.NewDeck(userID, name, description)
	if err != nil {
		return nil, err
	}

	if err := s.deckStore.Create(ctx, deck); err != nil {
		log.Error("failed to create deck",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to create deck: %w", err)
	}

	log.Debug("created deck",
		slog.String("deck_id", deck.ID.String()),
		slog.String("user_id", userID.String()))
	return deck, nil
}

// GetDeck implements DeckService.GetDeck.
func (s *deckServiceImpl) GetDeck(ctx context.Context, userID, deckID uuid.UUID) (*domain.Deck, error) {
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

// ListDecks implements DeckService.ListDecks.
func (s *deckServiceImpl) ListDecks(
	ctx context.Context,
	userID uuid.UUID,
	cursor string,
	limit int,
	now time.Time,
) (*pagination.Page[domain.DeckOverview], error) {
	page, err := s.deckStore.List(ctx, userID, cursor, limit, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list decks: %w", err)
	}
	return page, nil
}

// DeleteDeck implements DeckService.DeleteDeck.
func (s *deckServiceImpl) DeleteDeck(ctx context.Context, userID, deckID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// Ownership check before the destructive call.
	if _, err := s.GetDeck(ctx, userID, deckID); err != nil {
		return err
	}

	if err := s.deckStore.Delete(ctx, deckID); err != nil {
		if errors.Is(err, store.ErrDeckNotFound) {
			return ErrDeckNotFound
		}
		log.Error("failed to delete deck",
			slog.String("error", err.Error()),
			slog.String("deck_id", deckID.String()))
		return fmt.Errorf("failed to delete deck: %w", err)
	}

	log.Debug("deleted deck",
		slog.String("deck_id", deckID.String()),
		slog.String("user_id", userID.String()))
	return nil
}
