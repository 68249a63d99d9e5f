package domain

import (
	"fmt"
	"time"
)

// State is the lifecycle phase of a card.
type State string

// Possible card states.
const (
	StateNew        State = "new"
	StateLearning   State = "learning"
	StateReview     State = "review"
	StateRelearning State = "relearning"
)

// IsValid reports whether s is one of the four known states.
func (s State) IsValid() bool {
	switch s {
	case StateNew, StateLearning, StateReview, StateRelearning:
		return true
	default:
		return false
	}
}

// ParseState converts a stored state name into a State.
func ParseState(s string) (State, error) {
	state := State(s)
	if !state.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidState, s)
	}
	return state, nil
}

// CardState is the memory state of one learner-word pair.
//
// Difficulty and Stability are zero only while the card is New. Retrievability
// is a snapshot of the recall probability at the most recent review and is
// recomputed by the scheduler on every review rather than trusted as input.
type CardState struct {
	State           State      `json:"state"`
	Difficulty      float64    `json:"difficulty"`     // 1 (easy) .. 10 (hard)
	Stability       float64    `json:"stability"`      // days until recall drops to the target retention
	Retrievability  float64    `json:"retrievability"` // recall probability at the last review
	ElapsedDays     float64    `json:"elapsed_days"`   // days between the previous review and the last one
	ScheduledDays   float64    `json:"scheduled_days"` // days until DueAt, fractional on minute-scale steps
	LearningStep    int        `json:"learning_step"`
	IsLearningPhase bool       `json:"is_learning_phase"`
	Reps            int        `json:"reps"`   // reviews rated Hard or better
	Lapses          int        `json:"lapses"` // Again ratings given while in Review
	LastReviewAt    *time.Time `json:"last_review_at,omitempty"`
	DueAt           time.Time  `json:"due_at"`
}

// NewCardState returns the state of a word that has never been reviewed. The
// card is due immediately.
func NewCardState(now time.Time) CardState {
	return CardState{
		State:           StateNew,
		Difficulty:      0,
		Stability:       0,
		Retrievability:  0,
		ElapsedDays:     0,
		ScheduledDays:   0,
		LearningStep:    0,
		IsLearningPhase: true,
		Reps:            0,
		Lapses:          0,
		LastReviewAt:    nil,
		DueAt:           now,
	}
}

// Clone returns a copy of the state that shares no memory with the original.
func (c CardState) Clone() CardState {
	if c.LastReviewAt != nil {
		t := *c.LastReviewAt
		c.LastReviewAt = &t
	}
	return c
}

// IsDue reports whether the card should be shown at now.
func (c CardState) IsDue(now time.Time) bool {
	return !c.DueAt.After(now)
}

// Validate checks the invariants a caller must uphold before handing the state
// to the scheduler.
func (c CardState) Validate() error {
	if !c.State.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidState, c.State)
	}

	if c.Reps < 0 || c.Lapses < 0 || c.LearningStep < 0 {
		return fmt.Errorf("%w: negative counter", ErrInconsistentCardState)
	}

	if c.ElapsedDays < 0 || c.ScheduledDays < 0 {
		return fmt.Errorf("%w: negative day count", ErrInconsistentCardState)
	}

	if c.State == StateNew {
		if c.Reps != 0 || c.Lapses != 0 {
			return fmt.Errorf("%w: new card has review history", ErrInconsistentCardState)
		}
		if c.LastReviewAt != nil {
			return fmt.Errorf("%w: new card has a last review time", ErrInconsistentCardState)
		}
		return nil
	}

	if c.LastReviewAt == nil {
		return fmt.Errorf("%w: reviewed card has no last review time", ErrInconsistentCardState)
	}

	if c.Stability <= 0 {
		return fmt.Errorf("%w: reviewed card has non-positive stability", ErrInconsistentCardState)
	}

	if c.Difficulty < 1 || c.Difficulty > 10 {
		return fmt.Errorf("%w: difficulty %.4f outside [1, 10]", ErrInconsistentCardState, c.Difficulty)
	}

	switch c.State {
	case StateLearning, StateRelearning:
		if !c.IsLearningPhase {
			return fmt.Errorf("%w: %s card outside learning phase", ErrInconsistentCardState, c.State)
		}
	case StateReview:
		if c.IsLearningPhase {
			return fmt.Errorf("%w: review card in learning phase", ErrInconsistentCardState)
		}
	}

	return nil
}
