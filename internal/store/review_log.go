package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-fsrs/internal/domain"
)

// ReviewLogStore persists the append-only history of reviews.
type ReviewLogStore interface {
	// Create appends a log entry. Returns ErrInvalidEntity if the card it
	// refers to does not exist.
	Create(ctx context.Context, log *domain.ReviewLog) error

	// ListByCard returns the logs of one card, newest first, at most limit.
	ListByCard(ctx context.Context, userID, wordID uuid.UUID, limit int) ([]*domain.ReviewLog, error)

	// CountNewIntroducedSince counts the learner's first reviews (reviews of a
	// card that was New) made at or after since.
	CountNewIntroducedSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error)

	// WithTx returns a new ReviewLogStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ReviewLogStore
}
