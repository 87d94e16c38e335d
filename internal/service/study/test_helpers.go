package study

import (
	"context"
	"log/slog"

	"github.com/fathomdev/fathom-api/internal/domain/srs"
	"github.com/fathomdev/fathom-api/internal/store"
)

// NewTestStudyService creates a study service backed by the given
// stores with the transaction machinery replaced by a direct call, so
// unit tests can exercise the review workflow without a database.
func NewTestStudyService(
	cardStore store.CardStore,
	deckStore store.DeckStore,
	stateStore store.LearningStateStore,
	eventStore store.ReviewEventStore,
	srsService srs.Service,
) StudyService {
	svc := &studyServiceImpl{
		cardStore:  cardStore,
		deckStore:  deckStore,
		stateStore: stateStore,
		eventStore: eventStore,
		srsService: srsService,
		logger:     slog.Default().With(slog.String("component", "study_service")),
	}
	svc.runTx = func(ctx context.Context, fn store.TxFn) error {
		return fn(ctx, nil)
	}
	return svc
}
