package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/fathomdev/fathom-api/internal/domain"
	"github.com/fathomdev/fathom-api/internal/generation"
	"github.com/fathomdev/fathom-api/internal/pagination"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	UserID uuid.UUID `json:"user_id"`
	Token  string    `json:"token"`
}

// CreateDeckRequest defines the payload for deck creation.
type CreateDeckRequest struct {
	Name        string `json:"name"        validate:"required,max=255"`
	Description string `json:"description" validate:"max=2000"`
}

// DeckResponse is a single deck as returned by the API.
type DeckResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newDeckResponse(deck *domain.Deck) DeckResponse {
	return DeckResponse{
		ID:          deck.ID,
		Name:        deck.Name,
		Description: deck.Description,
		CreatedAt:   deck.CreatedAt,
		UpdatedAt:   deck.UpdatedAt,
	}
}

// DeckOverviewResponse is a deck in a listing, annotated with card counts.
type DeckOverviewResponse struct {
	DeckResponse
	TotalCards int `json:"total_cards"`
	DueCards   int `json:"due_cards"`
}

// DeckListResponse is one page of the user's decks.
type DeckListResponse struct {
	Decks      []DeckOverviewResponse `json:"decks"`
	NextCursor string                 `json:"next_cursor,omitempty"`
	Total      int                    `json:"total"`
}

func newDeckListResponse(page *pagination.Page[domain.DeckOverview]) DeckListResponse {
	decks := make([]DeckOverviewResponse, 0, len(page.Items))
	for i := range page.Items {
		overview := &page.Items[i]
		decks = append(decks, DeckOverviewResponse{
			DeckResponse: newDeckResponse(&overview.Deck),
			TotalCards:   overview.TotalCards,
			DueCards:     overview.DueCards,
		})
	}
	return DeckListResponse{
		Decks:      decks,
		NextCursor: page.NextCursor,
		Total:      page.Total,
	}
}

// CreateCardRequest defines the payload for card creation.
type CreateCardRequest struct {
	Front string `json:"front" validate:"required"`
	Back  string `json:"back"  validate:"required"`
}

// CardResponse is a single card as returned by the API.
type CardResponse struct {
	ID        uuid.UUID `json:"id"`
	DeckID    uuid.UUID `json:"deck_id"`
	Front     string    `json:"front"`
	Back      string    `json:"back"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newCardResponse(card *domain.Card) CardResponse {
	return CardResponse{
		ID:        card.ID,
		DeckID:    card.DeckID,
		Front:     card.FrontContent,
		Back:      card.BackContent,
		CreatedAt: card.CreatedAt,
		UpdatedAt: card.UpdatedAt,
	}
}

// CardListResponse is one page of a deck's cards.
type CardListResponse struct {
	Cards      []CardResponse `json:"cards"`
	NextCursor string         `json:"next_cursor,omitempty"`
	Total      int            `json:"total"`
}

func newCardListResponse(page *pagination.Page[domain.Card]) CardListResponse {
	cards := make([]CardResponse, 0, len(page.Items))
	for i := range page.Items {
		cards = append(cards, newCardResponse(&page.Items[i]))
	}
	return CardListResponse{
		Cards:      cards,
		NextCursor: page.NextCursor,
		Total:      page.Total,
	}
}

// DueCardsResponse is the set of cards due for study.
type DueCardsResponse struct {
	Cards []CardResponse `json:"cards"`
}

// ReviewRequest defines the payload for the review submission endpoint.
type ReviewRequest struct {
	Grade int `json:"grade" validate:"min=0,max=3"`
}

// ReviewResponse is the outcome of a recorded review.
type ReviewResponse struct {
	CardID        uuid.UUID `json:"card_id"`
	Grade         int       `json:"grade"`
	EaseFactor    float64   `json:"ease_factor"`
	Interval      int       `json:"interval"`
	NextStudyDate time.Time `json:"next_study_date"`
	StudiedAt     time.Time `json:"studied_at"`
}

// ReviewEventResponse is one past review in a card's history.
type ReviewEventResponse struct {
	ID        uuid.UUID `json:"id"`
	Grade     int       `json:"grade"`
	StudiedAt time.Time `json:"studied_at"`
}

// ReviewHistoryResponse is a card's review history, most recent first.
type ReviewHistoryResponse struct {
	CardID  uuid.UUID             `json:"card_id"`
	Reviews []ReviewEventResponse `json:"reviews"`
}

func newReviewHistoryResponse(cardID uuid.UUID, events []domain.ReviewEvent) ReviewHistoryResponse {
	reviews := make([]ReviewEventResponse, 0, len(events))
	for _, event := range events {
		reviews = append(reviews, ReviewEventResponse{
			ID:        event.ID,
			Grade:     int(event.Grade),
			StudiedAt: event.StudiedAt,
		})
	}
	return ReviewHistoryResponse{CardID: cardID, Reviews: reviews}
}

// GenerateCardsRequest defines the payload for the card draft endpoint.
type GenerateCardsRequest struct {
	Topic string `json:"topic" validate:"required,max=4000"`
	Count int    `json:"count" validate:"min=0,max=20"`
}

// GenerateCardsResponse carries drafted cards back to the caller.
// Nothing is persisted; the client decides which drafts become cards.
type GenerateCardsResponse struct {
	Drafts []generation.CardDraft `json:"drafts"`
}
