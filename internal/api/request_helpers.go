package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// getPathUUID extracts a UUID from the URL path parameters.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, fmt.Errorf("%w: %s is required", ErrInvalidPathParam, paramName)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s has invalid format", ErrInvalidPathParam, paramName)
	}

	return id, nil
}

// handleUserIDPathParam extracts the learner ID and writes a 400 if it is
// missing or malformed.
func handleUserIDPathParam(w http.ResponseWriter, r *http.Request, log *slog.Logger) (uuid.UUID, bool) {
	userID, err := getPathUUID(r, "userID")
	if err != nil {
		log.Debug("invalid user ID", slog.String("value", chi.URLParam(r, "userID")))
		HandleAPIError(w, r, err, "")
		return uuid.Nil, false
	}
	return userID, true
}

// handleCardPathParams extracts both the learner and word IDs and writes a
// 400 if either is missing or malformed.
func handleCardPathParams(w http.ResponseWriter, r *http.Request, log *slog.Logger) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := handleUserIDPathParam(w, r, log)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}

	wordID, err := getPathUUID(r, "wordID")
	if err != nil {
		log.Debug("invalid word ID", slog.String("value", chi.URLParam(r, "wordID")))
		HandleAPIError(w, r, err, "")
		return uuid.Nil, uuid.Nil, false
	}

	return userID, wordID, true
}

// parseLimit reads the optional ?limit= query parameter. An absent value
// yields 0, which lets the service choose its default.
func parseLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return 0, fmt.Errorf("limit must be a positive integer")
	}
	return limit, nil
}
