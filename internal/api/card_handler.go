// Package api provides HTTP handlers for the API.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/fathomdev/fathom-api/internal/api/shared"
	"github.com/fathomdev/fathom-api/internal/platform/logger"
	"github.com/fathomdev/fathom-api/internal/service"
)

// CardHandler handles card-related HTTP requests.
type CardHandler struct {
	cardService service.CardService
	validator   *validator.Validate
	logger      *slog.Logger
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(cardService service.CardService, logger *slog.Logger) *CardHandler {
	if cardService == nil {
		panic("cardService cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &CardHandler{
		cardService: cardService,
		validator:   validator.New(),
		logger:      logger.With(slog.String("component", "card_handler")),
	}
}

// CreateCard handles POST /api/decks/{deckID}/cards requests.
func (h *CardHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}
	deckID, ok := pathUUID(w, r, "deckID")
	if !ok {
		return
	}

	var req CreateCardRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	card, err := h.cardService.CreateCard(r.Context(), userID, deckID, req.Front, req.Back)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("card created",
		slog.String("card_id", card.ID.String()),
		slog.String("deck_id", deckID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, newCardResponse(card))
}

// ListCards handles GET /api/decks/{deckID}/cards requests.
func (h *CardHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}
	deckID, ok := pathUUID(w, r, "deckID")
	if !ok {
		return
	}

	cursor := r.URL.Query().Get("cursor")
	limit := queryLimit(r)

	page, err := h.cardService.ListCards(r.Context(), userID, deckID, cursor, limit)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newCardListResponse(page))
}

// GetCard handles GET /api/cards/{cardID} requests.
func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}
	cardID, ok := pathUUID(w, r, "cardID")
	if !ok {
		return
	}

	card, err := h.cardService.GetCard(r.Context(), userID, cardID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newCardResponse(card))
}

// DeleteCard handles DELETE /api/cards/{cardID} requests.
func (h *CardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}
	cardID, ok := pathUUID(w, r, "cardID")
	if !ok {
		return
	}

	if err := h.cardService.DeleteCard(r.Context(), userID, cardID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("card deleted", slog.String("card_id", cardID.String()))
	w.WriteHeader(http.StatusNoContent)
}
