package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/scry-fsrs/internal/api"
	apiMiddleware "github.com/phrazzld/scry-fsrs/internal/api/middleware"
	"github.com/phrazzld/scry-fsrs/internal/api/shared"
)

// requestTimeout bounds a single request, including its database transaction.
const requestTimeout = 30 * time.Second

// setupRouter builds the chi router: standard middleware, the learner-scoped
// card routes, and a health check.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithError(w, r, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithError(w, r, http.StatusMethodNotAllowed, "Method not allowed")
	})

	cardHandler := api.NewCardHandler(app.cardReviewService, app.logger)
	r.Route("/api/users/{userID}", cardHandler.Routes)

	r.Get("/health", api.Health)

	return r
}
