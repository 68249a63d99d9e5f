package card_review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-fsrs/internal/domain"
	"github.com/phrazzld/scry-fsrs/internal/domain/fsrs"
)

// CardReviewService orchestrates reviews of a learner's words: it loads or
// creates the card, asks the scheduler for the next state, and persists the
// new state together with a review log.
type CardReviewService interface {
	// EnrollWord creates a New card for the word, due immediately. Enrolling
	// an already-enrolled word returns the existing card unchanged.
	EnrollWord(ctx context.Context, userID, wordID uuid.UUID) (*domain.WordCard, error)

	// SubmitReview applies one rating to the learner's card for the word.
	//
	// The card is locked for the duration of the transaction, so concurrent
	// reviews of the same word are applied one after the other. A word that
	// was never enrolled is enrolled implicitly; if two first reviews race,
	// the loser gets ErrConcurrentReview and may retry.
	//
	// Returns:
	//   - (*domain.WordCard, nil): the card after the review
	//   - (nil, ErrInvalidRating): the rating is outside Again..Easy
	//   - (nil, ErrConcurrentReview): a concurrent first review won the insert
	//   - (nil, error): any other error, typically from the database
	SubmitReview(ctx context.Context, userID, wordID uuid.UUID, rating domain.Rating) (*domain.WordCard, error)

	// PreviewReview returns what each rating would do to the card, without
	// persisting anything. Returns ErrCardNotFound for unenrolled words.
	PreviewReview(ctx context.Context, userID, wordID uuid.UUID) (map[domain.Rating]*domain.WordCard, error)

	// PostponeReview moves the card's due time forward by days. Scheduling
	// state is otherwise unchanged.
	PostponeReview(ctx context.Context, userID, wordID uuid.UUID, days int) (*domain.WordCard, error)

	// GetCard returns the learner's card for the word.
	GetCard(ctx context.Context, userID, wordID uuid.UUID) (*domain.WordCard, error)

	// ListReviewLogs returns the card's review history, newest first.
	ListReviewLogs(ctx context.Context, userID, wordID uuid.UUID, limit int) ([]*domain.ReviewLog, error)

	// GetStudySession assembles the cards the learner should study now.
	GetStudySession(ctx context.Context, userID uuid.UUID) (*StudySession, error)
}

// StudySession is the set of cards presented to a learner in one sitting.
type StudySession struct {
	// Due holds reviewed cards whose due time has passed, most overdue first.
	Due []*domain.WordCard `json:"due"`
	// New holds never-reviewed cards, limited by the daily new-card cap.
	New []*domain.WordCard `json:"new"`
	// NewRemaining is how many more new cards may be introduced today.
	NewRemaining int       `json:"new_remaining"`
	GeneratedAt  time.Time `json:"generated_at"`
}

// SessionLimits bounds the size of a study session.
type SessionLimits struct {
	NewCardsPerDay int
	MaxDueCards    int
}

// DefaultSessionLimits mirrors the configuration defaults.
func DefaultSessionLimits() SessionLimits {
	return SessionLimits{NewCardsPerDay: 20, MaxDueCards: 200}
}

// Common error types for CardReviewService
var (
	// ErrCardNotFound indicates that the learner has not enrolled the word.
	ErrCardNotFound = errors.New("card not found")

	// ErrInvalidRating indicates a rating outside Again..Easy.
	ErrInvalidRating = domain.ErrInvalidRating

	// ErrInvalidDays indicates a postponement of less than one day.
	ErrInvalidDays = fsrs.ErrInvalidDays

	// ErrConcurrentReview indicates that another request created or locked
	// the card first. The caller may retry.
	ErrConcurrentReview = errors.New("concurrent review of the same card")
)

// ServiceError wraps errors from the card review service with additional context.
// This allows consumers to differentiate between different types of service errors
// using errors.As instead of string matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "submit_review", "get_study_session")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError returns a ServiceError for the named operation.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
