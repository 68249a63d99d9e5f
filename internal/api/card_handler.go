package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/scry-fsrs/internal/api/shared"
	"github.com/phrazzld/scry-fsrs/internal/domain"
	"github.com/phrazzld/scry-fsrs/internal/platform/logger"
	"github.com/phrazzld/scry-fsrs/internal/redact"
	"github.com/phrazzld/scry-fsrs/internal/service/card_review"
)

// CardHandler handles card-related HTTP requests
type CardHandler struct {
	cardReviewService card_review.CardReviewService
	logger            *slog.Logger
}

// NewCardHandler creates a new CardHandler
func NewCardHandler(cardReviewService card_review.CardReviewService, logger *slog.Logger) *CardHandler {
	if cardReviewService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("cardReviewService cannot be nil for CardHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CardHandler")
	}

	return &CardHandler{
		cardReviewService: cardReviewService,
		logger:            logger.With(slog.String("component", "card_handler")),
	}
}

// Routes registers the handler's endpoints. r is expected to be mounted at
// /api/users/{userID}.
func (h *CardHandler) Routes(r chi.Router) {
	r.Get("/session", h.GetStudySession)

	r.Route("/words/{wordID}", func(r chi.Router) {
		r.Get("/", h.GetCard)
		r.Post("/enroll", h.EnrollWord)
		r.Post("/review", h.SubmitReview)
		r.Get("/preview", h.PreviewReview)
		r.Post("/postpone", h.PostponeReview)
		r.Get("/logs", h.ListReviewLogs)
	})
}

// EnrollWord handles POST /words/{wordID}/enroll.
func (h *CardHandler) EnrollWord(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, wordID, ok := handleCardPathParams(w, r, log)
	if !ok {
		return
	}

	card, err := h.cardReviewService.EnrollWord(r.Context(), userID, wordID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to enroll word")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, cardToResponse(card))
}

// SubmitReview handles POST /words/{wordID}/review.
// It applies one rating to the card and returns the rescheduled card.
func (h *CardHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, wordID, ok := handleCardPathParams(w, r, log)
	if !ok {
		return
	}

	var req ReviewRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Debug("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	rating, err := domain.ParseRating(req.Rating)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	card, err := h.cardReviewService.SubmitReview(r.Context(), userID, wordID, rating)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to submit review")
		return
	}

	log.Debug("review submitted",
		slog.String("user_id", userID.String()),
		slog.String("word_id", wordID.String()),
		slog.String("rating", rating.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// GetCard handles GET /words/{wordID}.
func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, wordID, ok := handleCardPathParams(w, r, log)
	if !ok {
		return
	}

	card, err := h.cardReviewService.GetCard(r.Context(), userID, wordID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get card")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// PreviewReview handles GET /words/{wordID}/preview.
func (h *CardHandler) PreviewReview(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, wordID, ok := handleCardPathParams(w, r, log)
	if !ok {
		return
	}

	previews, err := h.cardReviewService.PreviewReview(r.Context(), userID, wordID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to preview review")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, previewToResponse(previews))
}

// PostponeReview handles POST /words/{wordID}/postpone.
func (h *CardHandler) PostponeReview(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, wordID, ok := handleCardPathParams(w, r, log)
	if !ok {
		return
	}

	var req PostponeRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Debug("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	card, err := h.cardReviewService.PostponeReview(r.Context(), userID, wordID, req.Days)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to postpone review")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// ListReviewLogs handles GET /words/{wordID}/logs?limit=n.
func (h *CardHandler) ListReviewLogs(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, wordID, ok := handleCardPathParams(w, r, log)
	if !ok {
		return
	}

	limit, err := parseLimit(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid limit")
		return
	}

	logs, err := h.cardReviewService.ListReviewLogs(r.Context(), userID, wordID, limit)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list review logs")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, logsToResponse(logs))
}

// GetStudySession handles GET /session.
func (h *CardHandler) GetStudySession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := handleUserIDPathParam(w, r, log)
	if !ok {
		return
	}

	session, err := h.cardReviewService.GetStudySession(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to build study session")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, sessionToResponse(session))
}

// Health handles GET /health.
func Health(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{Status: "ok"})
}
