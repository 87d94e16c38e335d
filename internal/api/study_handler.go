package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/fathomdev/fathom-api/internal/api/shared"
	"github.com/fathomdev/fathom-api/internal/domain"
	"github.com/fathomdev/fathom-api/internal/platform/logger"
	"github.com/fathomdev/fathom-api/internal/service/study"
)

// StudyHandler handles study session HTTP requests.
type StudyHandler struct {
	studyService study.StudyService
	validator    *validator.Validate
	logger       *slog.Logger
}

// NewStudyHandler creates a new StudyHandler.
func NewStudyHandler(studyService study.StudyService, logger *slog.Logger) *StudyHandler {
	if studyService == nil {
		panic("studyService cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &StudyHandler{
		studyService: studyService,
		validator:    validator.New(),
		logger:       logger.With(slog.String("component", "study_handler")),
	}
}

// DueCards handles GET /api/study/cards requests. The optional deckId
// query parameter restricts the result to one deck; the optional limit
// parameter caps the number of cards returned.
func (h *StudyHandler) DueCards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}

	var deckID *uuid.UUID
	if raw := r.URL.Query().Get("deckId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid deckId")
			return
		}
		deckID = &id
	}
	limit := queryLimit(r)

	cards, err := h.studyService.DueCards(r.Context(), userID, deckID, limit, time.Now().UTC())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("due cards listed",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(cards)))

	response := DueCardsResponse{Cards: make([]CardResponse, 0, len(cards))}
	for i := range cards {
		response.Cards = append(response.Cards, newCardResponse(&cards[i]))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// RecordReview handles POST /api/study/cards/{cardID}/review requests.
func (h *StudyHandler) RecordReview(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}
	cardID, ok := pathUUID(w, r, "cardID")
	if !ok {
		return
	}

	var req ReviewRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	result, err := h.studyService.RecordReview(
		r.Context(), userID, cardID, domain.Grade(req.Grade), time.Now().UTC())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("review recorded",
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()),
		slog.Int("grade", req.Grade))

	shared.RespondWithJSON(w, r, http.StatusOK, ReviewResponse{
		CardID:        result.State.CardID,
		Grade:         int(result.Event.Grade),
		EaseFactor:    result.State.EaseFactor,
		Interval:      result.State.Interval,
		NextStudyDate: result.State.NextStudyDate,
		StudiedAt:     result.Event.StudiedAt,
	})
}

// ReviewHistory handles GET /api/cards/{cardID}/reviews requests.
func (h *StudyHandler) ReviewHistory(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}
	cardID, ok := pathUUID(w, r, "cardID")
	if !ok {
		return
	}

	events, err := h.studyService.ReviewHistory(r.Context(), userID, cardID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("review history listed",
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()),
		slog.Int("count", len(events)))

	shared.RespondWithJSON(w, r, http.StatusOK, newReviewHistoryResponse(cardID, events))
}
