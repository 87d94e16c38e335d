package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/fathomdev/fathom-api/internal/api/shared"
	"github.com/fathomdev/fathom-api/internal/generation"
	"github.com/fathomdev/fathom-api/internal/platform/logger"
	"github.com/fathomdev/fathom-api/internal/service"
)

// GenerateHandler handles card draft generation requests.
type GenerateHandler struct {
	deckService service.DeckService
	generator   generation.Generator
	validator   *validator.Validate
	logger      *slog.Logger
}

// NewGenerateHandler creates a new GenerateHandler.
func NewGenerateHandler(
	deckService service.DeckService,
	generator generation.Generator,
	logger *slog.Logger,
) *GenerateHandler {
	if deckService == nil {
		panic("deckService cannot be nil")
	}
	if generator == nil {
		panic("generator cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &GenerateHandler{
		deckService: deckService,
		generator:   generator,
		validator:   validator.New(),
		logger:      logger.With(slog.String("component", "generate_handler")),
	}
}

// GenerateCards handles POST /api/decks/{deckID}/generate requests. It
// drafts flashcards for the deck's owner without persisting anything;
// the client decides which drafts become real cards.
func (h *GenerateHandler) GenerateCards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}
	deckID, ok := pathUUID(w, r, "deckID")
	if !ok {
		return
	}

	// The deck itself is untouched, but drafting is still scoped to a
	// deck the caller owns.
	if _, err := h.deckService.GetDeck(r.Context(), userID, deckID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	var req GenerateCardsRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	drafts, err := h.generator.GenerateDrafts(r.Context(), req.Topic, req.Count)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Info("card drafts generated",
		slog.String("user_id", userID.String()),
		slog.String("deck_id", deckID.String()),
		slog.Int("draft_count", len(drafts)))

	shared.RespondWithJSON(w, r, http.StatusOK, GenerateCardsResponse{Drafts: drafts})
}
