package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/scry-fsrs/internal/api/shared"
	"github.com/phrazzld/scry-fsrs/internal/domain"
	"github.com/phrazzld/scry-fsrs/internal/service/card_review"
	"github.com/phrazzld/scry-fsrs/internal/store"
)

// ErrInvalidPathParam is returned when a path parameter is missing or is not
// a UUID.
var ErrInvalidPathParam = errors.New("invalid path parameter")

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, card_review.ErrCardNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, card_review.ErrConcurrentReview),
		errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, ErrInvalidPathParam),
		errors.Is(err, card_review.ErrInvalidRating),
		errors.Is(err, card_review.ErrInvalidDays),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, card_review.ErrCardNotFound),
		errors.Is(err, store.ErrNotFound):
		return "Card not found"

	case errors.Is(err, card_review.ErrConcurrentReview):
		return "Card was reviewed concurrently, retry the request"

	case errors.Is(err, store.ErrDuplicate):
		return "Card already exists"

	case errors.Is(err, ErrInvalidPathParam):
		return "Invalid user or word ID"

	case errors.Is(err, card_review.ErrInvalidRating):
		return "Invalid rating"

	case errors.Is(err, card_review.ErrInvalidDays):
		return "Days must be at least 1"

	case errors.Is(err, domain.ErrInvalidID):
		return "User and word IDs must not be empty"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid card data"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the status and safe message for err. A non-empty
// fallback replaces the generic message of a 500.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		message = fallback
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}

// SanitizeValidationError turns a validator error into a short message that
// names the first failing field, e.g. "Invalid days: too small".
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Validation error"
	}

	fe := verrs[0]
	return fmt.Sprintf("Invalid %s: %s", strings.ToLower(fe.Field()), getValidationTagMessage(fe.Tag()))
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min", "gte":
		return "too small"
	case "max", "lte":
		return "too large"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
