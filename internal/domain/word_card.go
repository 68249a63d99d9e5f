package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for WordCard
var (
	ErrEmptyCardUserID = fmt.Errorf("%w: word card user ID cannot be empty", ErrInvalidID)
	ErrEmptyCardWordID = fmt.Errorf("%w: word card word ID cannot be empty", ErrInvalidID)
)

// WordCard is the persisted scheduling record for one learner and one word.
// The embedded CardState is the only part the scheduler reads or writes.
type WordCard struct {
	UserID uuid.UUID `json:"user_id"`
	WordID uuid.UUID `json:"word_id"`
	CardState
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewWordCard creates the scheduling record for a word the learner has not
// reviewed yet. The card is available for review immediately.
func NewWordCard(userID, wordID uuid.UUID, now time.Time) (*WordCard, error) {
	card := &WordCard{
		UserID:    userID,
		WordID:    wordID,
		CardState: NewCardState(now),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks the identifiers and the embedded state.
func (c *WordCard) Validate() error {
	if c.UserID == uuid.Nil {
		return ErrEmptyCardUserID
	}

	if c.WordID == uuid.Nil {
		return ErrEmptyCardWordID
	}

	return c.CardState.Validate()
}

// WithState returns a copy of the card carrying the given state. UpdatedAt is
// set to now; identifiers and CreatedAt are preserved.
func (c *WordCard) WithState(state CardState, now time.Time) *WordCard {
	return &WordCard{
		UserID:    c.UserID,
		WordID:    c.WordID,
		CardState: state.Clone(),
		CreatedAt: c.CreatedAt,
		UpdatedAt: now,
	}
}

// Mastery returns the display label derived from the card's state.
func (c *WordCard) Mastery() MasteryLevel {
	return MasteryOf(c.CardState)
}
