package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCardState(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	state := NewCardState(now)

	assert.Equal(t, StateNew, state.State)
	assert.Zero(t, state.Difficulty)
	assert.Zero(t, state.Stability)
	assert.Zero(t, state.Retrievability)
	assert.Zero(t, state.ElapsedDays)
	assert.Zero(t, state.ScheduledDays)
	assert.Zero(t, state.LearningStep)
	assert.True(t, state.IsLearningPhase)
	assert.Zero(t, state.Reps)
	assert.Zero(t, state.Lapses)
	assert.Nil(t, state.LastReviewAt)
	assert.Equal(t, now, state.DueAt)
	assert.True(t, state.IsDue(now))
	require.NoError(t, state.Validate())
}

func TestNewCardStateDiffersOnlyInDueAt(t *testing.T) {
	t.Parallel()
	t1 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	t2 := t1.Add(72 * time.Hour)

	a := NewCardState(t1)
	b := NewCardState(t2)

	assert.NotEqual(t, a.DueAt, b.DueAt)
	b.DueAt = a.DueAt
	assert.Equal(t, a, b)
}

func TestCardStateClone(t *testing.T) {
	t.Parallel()
	reviewed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	original := CardState{State: StateReview, Stability: 3, Difficulty: 5, LastReviewAt: &reviewed}

	clone := original.Clone()
	*clone.LastReviewAt = reviewed.Add(time.Hour)

	assert.Equal(t, reviewed, *original.LastReviewAt, "clone must not share the timestamp")
}

func TestCardStateValidate(t *testing.T) {
	t.Parallel()
	reviewed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		name    string
		state   CardState
		wantErr error
	}{
		{
			name:  "valid review card",
			state: CardState{State: StateReview, Difficulty: 5, Stability: 10, Reps: 3, LastReviewAt: &reviewed},
		},
		{
			name: "valid learning card",
			state: CardState{
				State: StateLearning, Difficulty: 5, Stability: 3, LearningStep: 1,
				IsLearningPhase: true, LastReviewAt: &reviewed,
			},
		},
		{
			name:    "unknown state",
			state:   CardState{State: "mastered"},
			wantErr: ErrInvalidState,
		},
		{
			name:    "new card with reps",
			state:   CardState{State: StateNew, IsLearningPhase: true, Reps: 1},
			wantErr: ErrInconsistentCardState,
		},
		{
			name:    "new card with last review",
			state:   CardState{State: StateNew, IsLearningPhase: true, LastReviewAt: &reviewed},
			wantErr: ErrInconsistentCardState,
		},
		{
			name:    "review card without last review",
			state:   CardState{State: StateReview, Difficulty: 5, Stability: 10},
			wantErr: ErrInconsistentCardState,
		},
		{
			name:    "review card with zero stability",
			state:   CardState{State: StateReview, Difficulty: 5, LastReviewAt: &reviewed},
			wantErr: ErrInconsistentCardState,
		},
		{
			name:    "difficulty out of range",
			state:   CardState{State: StateReview, Difficulty: 11, Stability: 2, LastReviewAt: &reviewed},
			wantErr: ErrInconsistentCardState,
		},
		{
			name:    "review card in learning phase",
			state:   CardState{State: StateReview, Difficulty: 5, Stability: 2, IsLearningPhase: true, LastReviewAt: &reviewed},
			wantErr: ErrInconsistentCardState,
		},
		{
			name:    "relearning card outside learning phase",
			state:   CardState{State: StateRelearning, Difficulty: 5, Stability: 2, LastReviewAt: &reviewed},
			wantErr: ErrInconsistentCardState,
		},
		{
			name:    "negative lapses",
			state:   CardState{State: StateReview, Difficulty: 5, Stability: 2, Lapses: -1, LastReviewAt: &reviewed},
			wantErr: ErrInconsistentCardState,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.state.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tc.wantErr), "expected %v, got %v", tc.wantErr, err)
		})
	}
}

func TestParseState(t *testing.T) {
	t.Parallel()

	for _, s := range []State{StateNew, StateLearning, StateReview, StateRelearning} {
		parsed, err := ParseState(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	_, err := ParseState("graduated")
	assert.ErrorIs(t, err, ErrInvalidState)
}
