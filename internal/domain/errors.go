package domain

import "errors"

// Domain errors. Callers match them with errors.Is.
var (
	// ErrInvalidID is returned when an ID is nil or malformed.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidRating is returned when a rating is outside Again..Easy.
	ErrInvalidRating = errors.New("invalid rating")

	// ErrInvalidState is returned when a card state name is not recognized.
	ErrInvalidState = errors.New("invalid card state")

	// ErrInconsistentCardState is returned when the fields of a CardState
	// contradict each other, for example a New card that has already been reviewed.
	ErrInconsistentCardState = errors.New("inconsistent card state")
)
