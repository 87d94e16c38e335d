package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/fathomdev/fathom-api/internal/api"
	apiMiddleware "github.com/fathomdev/fathom-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all
// routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(app.userService, app.jwtService)
	deckHandler := api.NewDeckHandler(app.deckService, app.logger)
	cardHandler := api.NewCardHandler(app.cardService, app.logger)
	studyHandler := api.NewStudyHandler(app.studyService, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Deck endpoints
			r.Post("/decks", deckHandler.CreateDeck)
			r.Get("/decks", deckHandler.ListDecks)
			r.Get("/decks/{deckID}", deckHandler.GetDeck)
			r.Delete("/decks/{deckID}", deckHandler.DeleteDeck)

			// Card endpoints
			r.Post("/decks/{deckID}/cards", cardHandler.CreateCard)
			r.Get("/decks/{deckID}/cards", cardHandler.ListCards)
			r.Get("/cards/{cardID}", cardHandler.GetCard)
			r.Delete("/cards/{cardID}", cardHandler.DeleteCard)
			r.Get("/cards/{cardID}/reviews", studyHandler.ReviewHistory)

			// Study endpoints
			r.Get("/study/cards", studyHandler.DueCards)
			r.Post("/study/cards/{cardID}/review", studyHandler.RecordReview)

			// Card draft generation, mounted only when an LLM is configured
			if app.generator != nil {
				generateHandler := api.NewGenerateHandler(app.deckService, app.generator, app.logger)
				r.Post("/decks/{deckID}/generate", generateHandler.GenerateCards)
			}
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	return r
}
