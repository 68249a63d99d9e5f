package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-fsrs/internal/domain"
)

// CardStateStore persists one WordCard per (user, word) pair.
type CardStateStore interface {
	// Create inserts a new card. Returns ErrCardStateExists if the learner
	// already has a card for the word, or ErrInvalidEntity if the card fails
	// domain validation.
	Create(ctx context.Context, card *domain.WordCard) error

	// Get retrieves a card without locking it.
	// Returns ErrCardStateNotFound if the card does not exist.
	Get(ctx context.Context, userID, wordID uuid.UUID) (*domain.WordCard, error)

	// GetForUpdate retrieves a card with SELECT ... FOR UPDATE. It must run
	// inside a transaction (see WithTx) so the lock is held until commit.
	// Returns ErrCardStateNotFound if the card does not exist.
	GetForUpdate(ctx context.Context, userID, wordID uuid.UUID) (*domain.WordCard, error)

	// Update overwrites the scheduling state of an existing card.
	// Returns ErrCardStateNotFound if the card does not exist.
	Update(ctx context.Context, card *domain.WordCard) error

	// Delete removes a card and, through the foreign key, its review logs.
	// Returns ErrCardStateNotFound if the card does not exist.
	Delete(ctx context.Context, userID, wordID uuid.UUID) error

	// ListDue returns the learner's non-new cards due at or before now,
	// most overdue first, at most limit of them.
	ListDue(ctx context.Context, userID uuid.UUID, now time.Time, limit int) ([]*domain.WordCard, error)

	// ListNew returns the learner's never-reviewed cards in enrollment order,
	// at most limit of them.
	ListNew(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.WordCard, error)

	// WithTx returns a new CardStateStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) CardStateStore
}
