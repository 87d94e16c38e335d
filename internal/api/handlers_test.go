package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fathomdev/fathom-api/internal/api/shared"
	"github.com/fathomdev/fathom-api/internal/domain"
	"github.com/fathomdev/fathom-api/internal/generation"
	"github.com/fathomdev/fathom-api/internal/pagination"
	"github.com/fathomdev/fathom-api/internal/service"
	"github.com/fathomdev/fathom-api/internal/service/auth"
	"github.com/fathomdev/fathom-api/internal/service/study"
)

// stubUserService implements service.UserService for handler tests.
type stubUserService struct {
	registerFn     func(ctx context.Context, email, password string) (*domain.User, error)
	authenticateFn func(ctx context.Context, email, password string) (*domain.User, error)
}

func (s *stubUserService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	return s.registerFn(ctx, email, password)
}

func (s *stubUserService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	return s.authenticateFn(ctx, email, password)
}

// stubJWTService implements auth.JWTService for handler tests.
type stubJWTService struct{}

func (s *stubJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	return "test-token", nil
}

func (s *stubJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	return nil, auth.ErrInvalidToken
}

// stubStudyService implements study.StudyService for handler tests.
type stubStudyService struct {
	dueCardsFn      func(ctx context.Context, userID uuid.UUID, deckID *uuid.UUID, limit int, now time.Time) ([]domain.Card, error)
	recordReviewFn  func(ctx context.Context, userID, cardID uuid.UUID, grade domain.Grade, reviewedAt time.Time) (*study.ReviewResult, error)
	reviewHistoryFn func(ctx context.Context, userID, cardID uuid.UUID) ([]domain.ReviewEvent, error)
}

func (s *stubStudyService) DueCards(
	ctx context.Context,
	userID uuid.UUID,
	deckID *uuid.UUID,
	limit int,
	now time.Time,
) ([]domain.Card, error) {
	return s.dueCardsFn(ctx, userID, deckID, limit, now)
}

func (s *stubStudyService) RecordReview(
	ctx context.Context,
	userID, cardID uuid.UUID,
	grade domain.Grade,
	reviewedAt time.Time,
) (*study.ReviewResult, error) {
	return s.recordReviewFn(ctx, userID, cardID, grade, reviewedAt)
}

func (s *stubStudyService) ReviewHistory(
	ctx context.Context,
	userID, cardID uuid.UUID,
) ([]domain.ReviewEvent, error) {
	return s.reviewHistoryFn(ctx, userID, cardID)
}

// stubDeckService implements service.DeckService for handler tests.
type stubDeckService struct {
	getFn func(ctx context.Context, userID, deckID uuid.UUID) (*domain.Deck, error)
}

func (s *stubDeckService) CreateDeck(ctx context.Context, userID uuid.UUID, name, description string) (*domain.Deck, error) {
	return domain.NewDeck(userID, name, description)
}

func (s *stubDeckService) GetDeck(ctx context.Context, userID, deckID uuid.UUID) (*domain.Deck, error) {
	return s.getFn(ctx, userID, deckID)
}

func (s *stubDeckService) ListDecks(
	ctx context.Context,
	userID uuid.UUID,
	cursor string,
	limit int,
	now time.Time,
) (*pagination.Page[domain.DeckOverview], error) {
	return &pagination.Page[domain.DeckOverview]{}, nil
}

func (s *stubDeckService) DeleteDeck(ctx context.Context, userID, deckID uuid.UUID) error {
	return nil
}

// stubGenerator implements generation.Generator for handler tests.
type stubGenerator struct {
	drafts []generation.CardDraft
	err    error
}

func (s *stubGenerator) GenerateDrafts(ctx context.Context, topic string, count int) ([]generation.CardDraft, error) {
	return s.drafts, s.err
}

// asUser injects the authenticated user ID the way the auth middleware
// does.
func asUser(userID uuid.UUID) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), shared.UserIDContextKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&reqBody).Encode(body))
	}
	req := httptest.NewRequest(method, path, &reqBody)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestAuthHandlerRegister(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	users := &stubUserService{
		registerFn: func(ctx context.Context, email, password string) (*domain.User, error) {
			return &domain.User{ID: userID, Email: email}, nil
		},
	}
	handler := NewAuthHandler(users, &stubJWTService{})

	r := chi.NewRouter()
	r.Post("/api/auth/register", handler.Register)

	t.Run("success", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/api/auth/register", RegisterRequest{
			Email:    "learner@example.com",
			Password: "a-long-enough-password",
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		var resp AuthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, userID, resp.UserID)
		assert.Equal(t, "test-token", resp.Token)
	})

	t.Run("invalid email", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/api/auth/register", RegisterRequest{
			Email:    "not-an-email",
			Password: "a-long-enough-password",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("short password", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/api/auth/register", RegisterRequest{
			Email:    "learner@example.com",
			Password: "short",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAuthHandlerRegisterConflict(t *testing.T) {
	t.Parallel()

	users := &stubUserService{
		registerFn: func(ctx context.Context, email, password string) (*domain.User, error) {
			return nil, service.ErrEmailExists
		},
	}
	handler := NewAuthHandler(users, &stubJWTService{})

	r := chi.NewRouter()
	r.Post("/api/auth/register", handler.Register)

	rec := doJSON(t, r, http.MethodPost, "/api/auth/register", RegisterRequest{
		Email:    "learner@example.com",
		Password: "a-long-enough-password",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAuthHandlerLogin(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	users := &stubUserService{
		authenticateFn: func(ctx context.Context, email, password string) (*domain.User, error) {
			if password == "correct-password" {
				return &domain.User{ID: userID, Email: email}, nil
			}
			return nil, auth.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(users, &stubJWTService{})

	r := chi.NewRouter()
	r.Post("/api/auth/login", handler.Login)

	t.Run("success", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/api/auth/login", LoginRequest{
			Email:    "learner@example.com",
			Password: "correct-password",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp AuthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, userID, resp.UserID)
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/api/auth/login", LoginRequest{
			Email:    "learner@example.com",
			Password: "wrong-password",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestStudyHandlerDueCards(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	deckID := uuid.New()
	card, err := domain.NewCard(deckID, "hola", "hello")
	require.NoError(t, err)

	var gotDeckID *uuid.UUID
	var gotLimit int
	svc := &stubStudyService{
		dueCardsFn: func(ctx context.Context, uid uuid.UUID, did *uuid.UUID, limit int, now time.Time) ([]domain.Card, error) {
			assert.Equal(t, userID, uid)
			gotDeckID = did
			gotLimit = limit
			return []domain.Card{*card}, nil
		},
	}
	handler := NewStudyHandler(svc, nil)

	r := chi.NewRouter()
	r.Use(asUser(userID))
	r.Get("/api/study/cards", handler.DueCards)

	t.Run("no filter", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodGet, "/api/study/cards", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp DueCardsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Cards, 1)
		assert.Equal(t, "hola", resp.Cards[0].Front)
		assert.Nil(t, gotDeckID)
		assert.Zero(t, gotLimit)
	})

	t.Run("deck filter and limit", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodGet, "/api/study/cards?deckId="+deckID.String()+"&limit=5", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, gotDeckID)
		assert.Equal(t, deckID, *gotDeckID)
		assert.Equal(t, 5, gotLimit)
	})

	t.Run("bad deck id", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodGet, "/api/study/cards?deckId=not-a-uuid", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestStudyHandlerRecordReview(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	deckID := uuid.New()
	cardID := uuid.New()

	svc := &stubStudyService{
		recordReviewFn: func(ctx context.Context, uid, cid uuid.UUID, grade domain.Grade, reviewedAt time.Time) (*study.ReviewResult, error) {
			event, err := domain.NewReviewEvent(cid, deckID, uid, grade, reviewedAt)
			if err != nil {
				return nil, err
			}
			state, err := domain.NewLearningState(cid, uid, domain.LearningProgress{
				EaseFactor:    1.9,
				Interval:      1,
				NextStudyDate: reviewedAt.AddDate(0, 0, 1),
			})
			if err != nil {
				return nil, err
			}
			return &study.ReviewResult{Event: event, State: state}, nil
		},
	}
	handler := NewStudyHandler(svc, nil)

	r := chi.NewRouter()
	r.Use(asUser(userID))
	r.Post("/api/study/cards/{cardID}/review", handler.RecordReview)

	t.Run("success", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/api/study/cards/"+cardID.String()+"/review", ReviewRequest{Grade: 3})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp ReviewResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, cardID, resp.CardID)
		assert.Equal(t, 3, resp.Grade)
		assert.Equal(t, 1, resp.Interval)
		assert.InDelta(t, 1.9, resp.EaseFactor, 1e-9)
	})

	t.Run("grade out of range", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/api/study/cards/"+cardID.String()+"/review", ReviewRequest{Grade: 7})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("bad card id", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/api/study/cards/nope/review", ReviewRequest{Grade: 2})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestStudyHandlerRecordReviewErrors(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	cardID := uuid.New()

	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{"card not found", study.ErrCardNotFound, http.StatusNotFound},
		{"card not owned", study.ErrCardNotOwned, http.StatusForbidden},
		{"invalid grade", study.ErrInvalidGrade, http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			svc := &stubStudyService{
				recordReviewFn: func(ctx context.Context, uid, cid uuid.UUID, grade domain.Grade, reviewedAt time.Time) (*study.ReviewResult, error) {
					return nil, tc.serviceErr
				},
			}
			handler := NewStudyHandler(svc, nil)

			r := chi.NewRouter()
			r.Use(asUser(userID))
			r.Post("/api/study/cards/{cardID}/review", handler.RecordReview)

			rec := doJSON(t, r, http.MethodPost, "/api/study/cards/"+cardID.String()+"/review", ReviewRequest{Grade: 2})
			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}

func TestStudyHandlerReviewHistory(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	deckID := uuid.New()
	cardID := uuid.New()
	first := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	second := first.AddDate(0, 0, 1)

	svc := &stubStudyService{
		reviewHistoryFn: func(ctx context.Context, uid, cid uuid.UUID) ([]domain.ReviewEvent, error) {
			assert.Equal(t, userID, uid)
			if cid != cardID {
				return nil, study.ErrCardNotFound
			}
			older, err := domain.NewReviewEvent(cid, deckID, uid, domain.GradeHard, first)
			if err != nil {
				return nil, err
			}
			newer, err := domain.NewReviewEvent(cid, deckID, uid, domain.GradeEasy, second)
			if err != nil {
				return nil, err
			}
			return []domain.ReviewEvent{*newer, *older}, nil
		},
	}
	handler := NewStudyHandler(svc, nil)

	r := chi.NewRouter()
	r.Use(asUser(userID))
	r.Get("/api/cards/{cardID}/reviews", handler.ReviewHistory)

	t.Run("success", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodGet, "/api/cards/"+cardID.String()+"/reviews", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp ReviewHistoryResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, cardID, resp.CardID)
		require.Len(t, resp.Reviews, 2)
		assert.Equal(t, 3, resp.Reviews[0].Grade)
		assert.Equal(t, second, resp.Reviews[0].StudiedAt)
		assert.Equal(t, 1, resp.Reviews[1].Grade)
	})

	t.Run("missing card", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodGet, "/api/cards/"+uuid.New().String()+"/reviews", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("bad card id", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodGet, "/api/cards/nope/reviews", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGenerateHandler(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	deckID := uuid.New()
	decks := &stubDeckService{
		getFn: func(ctx context.Context, uid, did uuid.UUID) (*domain.Deck, error) {
			if did != deckID {
				return nil, service.ErrDeckNotFound
			}
			if uid != userID {
				return nil, service.ErrNotOwned
			}
			return &domain.Deck{ID: did, CreatedBy: uid}, nil
		},
	}

	t.Run("success", func(t *testing.T) {
		generator := &stubGenerator{drafts: []generation.CardDraft{
			{Front: "Q1", Back: "A1"},
			{Front: "Q2", Back: "A2"},
		}}
		handler := NewGenerateHandler(decks, generator, nil)

		r := chi.NewRouter()
		r.Use(asUser(userID))
		r.Post("/api/decks/{deckID}/generate", handler.GenerateCards)

		rec := doJSON(t, r, http.MethodPost, "/api/decks/"+deckID.String()+"/generate",
			GenerateCardsRequest{Topic: "Spanish greetings", Count: 2})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp GenerateCardsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Len(t, resp.Drafts, 2)
	})

	t.Run("missing deck", func(t *testing.T) {
		handler := NewGenerateHandler(decks, &stubGenerator{}, nil)

		r := chi.NewRouter()
		r.Use(asUser(userID))
		r.Post("/api/decks/{deckID}/generate", handler.GenerateCards)

		rec := doJSON(t, r, http.MethodPost, "/api/decks/"+uuid.New().String()+"/generate",
			GenerateCardsRequest{Topic: "anything"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("upstream failure", func(t *testing.T) {
		handler := NewGenerateHandler(decks, &stubGenerator{err: generation.ErrTransientFailure}, nil)

		r := chi.NewRouter()
		r.Use(asUser(userID))
		r.Post("/api/decks/{deckID}/generate", handler.GenerateCards)

		rec := doJSON(t, r, http.MethodPost, "/api/decks/"+deckID.String()+"/generate",
			GenerateCardsRequest{Topic: "anything"})
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("no usable drafts", func(t *testing.T) {
		handler := NewGenerateHandler(decks, &stubGenerator{err: generation.ErrGenerationFailed}, nil)

		r := chi.NewRouter()
		r.Use(asUser(userID))
		r.Post("/api/decks/{deckID}/generate", handler.GenerateCards)

		rec := doJSON(t, r, http.MethodPost, "/api/decks/"+deckID.String()+"/generate",
			GenerateCardsRequest{Topic: "anything"})
		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})
}

func TestRequireAuthenticatedUser(t *testing.T) {
	t.Parallel()

	handler := NewStudyHandler(&stubStudyService{
		dueCardsFn: func(ctx context.Context, uid uuid.UUID, did *uuid.UUID, limit int, now time.Time) ([]domain.Card, error) {
			return nil, nil
		},
	}, nil)

	r := chi.NewRouter()
	r.Get("/api/study/cards", handler.DueCards)

	rec := doJSON(t, r, http.MethodGet, "/api/study/cards", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
