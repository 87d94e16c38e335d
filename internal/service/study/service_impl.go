package study

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fathomdev/fathom-api/internal/domain"
	"github.com/fathomdev/fathom-api/internal/domain/srs"
	"github.com/fathomdev/fathom-api/internal/platform/logger"
	"github.com/fathomdev/fathom-api/internal/store"
)

// Verify interface compliance at compile time
var _ StudyService = (*studyServiceImpl)(nil)

// studyServiceImpl implements the StudyService interface.
type studyServiceImpl struct {
	db         *sql.DB
	cardStore  store.CardStore
	deckStore  store.DeckStore
	stateStore store.LearningStateStore
	eventStore store.ReviewEventStore
	srsService srs.Service
	logger     *slog.Logger

	// runTx wraps the review mutation in a transaction. Injectable so
	// unit tests can run the function without a live database.
	runTx func(ctx context.Context, fn store.TxFn) error
}

// NewStudyService creates a new StudyService implementation.
func NewStudyService(
	db *sql.DB,
	cardStore store.CardStore,
	deckStore store.DeckStore,
	stateStore store.LearningStateStore,
	eventStore store.ReviewEventStore,
	srsService srs.Service,
	logger *slog.Logger,
) StudyService {
	if db == nil {
		panic("db cannot be nil")
	}
	if cardStore == nil {
		panic("cardStore cannot be nil")
	}
	if deckStore == nil {
		panic("deckStore cannot be nil")
	}
	if stateStore == nil {
		panic("stateStore cannot be nil")
	}
	if eventStore == nil {
		panic("eventStore cannot be nil")
	}
	if srsService == nil {
		panic("srsService cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	svc := &studyServiceImpl{
		db:         db,
		cardStore:  cardStore,
		deckStore:  deckStore,
		stateStore: stateStore,
		eventStore: eventStore,
		srsService: srsService,
		logger:     logger.With(slog.String("component", "study_service")),
	}
	svc.runTx = func(ctx context.Context, fn store.TxFn) error {
		return store.RunInTransaction(ctx, svc.db, fn)
	}
	return svc
}

// DueCards implements StudyService.DueCards.
func (s *studyServiceImpl) DueCards(
	ctx context.Context,
	userID uuid.UUID,
	deckID *uuid.UUID,
	limit int,
	now time.Time,
) ([]domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if deckID != nil {
		deck, err := s.deckStore.GetByID(ctx, *deckID)
		if err != nil {
			if errors.Is(err, store.ErrDeckNotFound) {
				return nil, ErrDeckNotFound
			}
			return nil, fmt.Errorf("failed to get deck: %w", err)
		}
		if deck.CreatedBy != userID {
			log.Warn("user does not own deck",
				slog.String("user_id", userID.String()),
				slog.String("deck_id", deckID.String()))
			return nil, ErrDeckNotOwned
		}
	}

	cards, err := s.cardStore.DueCards(ctx, userID, deckID, limit, now)
	if err != nil {
		log.Error("failed to list due cards",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to list due cards: %w", err)
	}

	log.Debug("listed due cards",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(cards)))
	return cards, nil
}

// RecordReview implements StudyService.RecordReview.
func (s *studyServiceImpl) RecordReview(
	ctx context.Context,
	userID uuid.UUID,
	cardID uuid.UUID,
	grade domain.Grade,
	reviewedAt time.Time,
) (*ReviewResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !grade.Valid() {
		log.Warn("invalid review grade",
			slog.String("user_id", userID.String()),
			slog.String("card_id", cardID.String()),
			slog.Int("grade", int(grade)))
		return nil, ErrInvalidGrade
	}

	var result *ReviewResult
	err := s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		cardStore := s.cardStore.WithTx(tx)
		deckStore := s.deckStore.WithTx(tx)
		stateStore := s.stateStore.WithTx(tx)
		eventStore := s.eventStore.WithTx(tx)

		card, err := cardStore.GetByID(ctx, cardID)
		if err != nil {
			if errors.Is(err, store.ErrCardNotFound) {
				log.Warn("card not found for review",
					slog.String("user_id", userID.String()),
					slog.String("card_id", cardID.String()))
				return ErrCardNotFound
			}
			return fmt.Errorf("failed to get card: %w", err)
		}

		deck, err := deckStore.GetByID(ctx, card.DeckID)
		if err != nil {
			return fmt.Errorf("failed to get deck: %w", err)
		}
		if deck.CreatedBy != userID {
			log.Warn("user does not own card",
				slog.String("user_id", userID.String()),
				slog.String("card_id", cardID.String()),
				slog.String("owner_id", deck.CreatedBy.String()))
			return ErrCardNotOwned
		}

		// Lock the state row for the duration of the transaction. A
		// missing row means this is the learner's first review of the
		// card; the scheduler treats that as a nil prior.
		var prior *domain.LearningProgress
		state, err := stateStore.GetForUpdate(ctx, cardID, userID)
		if err != nil {
			if !errors.Is(err, store.ErrLearningStateNotFound) {
				return fmt.Errorf("failed to get learning state: %w", err)
			}
		} else {
			p := state.Progress()
			prior = &p
		}

		progress := s.srsService.ComputeNextState(prior, grade, reviewedAt)

		if state == nil {
			state, err = domain.NewLearningState(cardID, userID, progress)
			if err != nil {
				return fmt.Errorf("failed to create learning state: %w", err)
			}
		} else {
			state.EaseFactor = progress.EaseFactor
			state.Interval = progress.Interval
			state.NextStudyDate = progress.NextStudyDate
			state.UpdatedAt = time.Now().UTC()
		}

		if err := stateStore.Upsert(ctx, state); err != nil {
			return fmt.Errorf("failed to save learning state: %w", err)
		}

		event, err := domain.NewReviewEvent(cardID, card.DeckID, userID, grade, reviewedAt)
		if err != nil {
			return fmt.Errorf("failed to create review event: %w", err)
		}
		if err := eventStore.Create(ctx, event); err != nil {
			return fmt.Errorf("failed to save review event: %w", err)
		}

		result = &ReviewResult{Event: event, State: state}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Debug("recorded review",
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()),
		slog.Int("grade", int(grade)),
		slog.Int("new_interval", result.State.Interval))
	return result, nil
}

// ReviewHistory implements StudyService.ReviewHistory.
func (s *studyServiceImpl) ReviewHistory(
	ctx context.Context,
	userID uuid.UUID,
	cardID uuid.UUID,
) ([]domain.ReviewEvent, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := s.cardStore.GetByID(ctx, cardID)
	if err != nil {
		if errors.Is(err, store.ErrCardNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, fmt.Errorf("failed to get card: %w", err)
	}

	deck, err := s.deckStore.GetByID(ctx, card.DeckID)
	if err != nil {
		return nil, fmt.Errorf("failed to get deck: %w", err)
	}
	if deck.CreatedBy != userID {
		log.Warn("user does not own card",
			slog.String("user_id", userID.String()),
			slog.String("card_id", cardID.String()),
			slog.String("owner_id", deck.CreatedBy.String()))
		return nil, ErrCardNotOwned
	}

	events, err := s.eventStore.ListByCard(ctx, cardID, userID)
	if err != nil {
		log.Error("failed to list review events",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return nil, fmt.Errorf("failed to list review events: %w", err)
	}

	log.Debug("listed review history",
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()),
		slog.Int("count", len(events)))
	return events, nil
}
