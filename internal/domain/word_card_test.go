package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWordCard(t *testing.T) {
	t.Parallel()
	userID := uuid.New()
	wordID := uuid.New()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	card, err := NewWordCard(userID, wordID, now)

	require.NoError(t, err)
	assert.Equal(t, userID, card.UserID)
	assert.Equal(t, wordID, card.WordID)
	assert.Equal(t, NewCardState(now), card.CardState)
	assert.Equal(t, now, card.CreatedAt)
	assert.Equal(t, now, card.UpdatedAt)
	assert.Equal(t, MasteryNew, card.Mastery())
}

func TestNewWordCardValidation(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC()

	_, err := NewWordCard(uuid.Nil, uuid.New(), now)
	assert.ErrorIs(t, err, ErrEmptyCardUserID)

	_, err = NewWordCard(uuid.New(), uuid.Nil, now)
	assert.ErrorIs(t, err, ErrEmptyCardWordID)
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestWordCardWithState(t *testing.T) {
	t.Parallel()
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	card, err := NewWordCard(uuid.New(), uuid.New(), created)
	require.NoError(t, err)

	later := created.Add(10 * time.Minute)
	next := card.WithState(CardState{State: StateLearning, IsLearningPhase: true, DueAt: later}, later)

	assert.Equal(t, card.UserID, next.UserID)
	assert.Equal(t, card.WordID, next.WordID)
	assert.Equal(t, created, next.CreatedAt)
	assert.Equal(t, later, next.UpdatedAt)
	assert.Equal(t, StateLearning, next.State)
	assert.Equal(t, StateNew, card.State, "original must be untouched")
}

func TestMasteryOf(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		state    CardState
		expected MasteryLevel
	}{
		{"new", CardState{State: StateNew}, MasteryNew},
		{"learning", CardState{State: StateLearning, Stability: 40}, MasteryLearning},
		{"relearning", CardState{State: StateRelearning, Stability: 2}, MasteryLearning},
		{"young review", CardState{State: StateReview, Stability: 5}, MasteryReviewing},
		{"mature review", CardState{State: StateReview, Stability: 21}, MasteryMastered},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, MasteryOf(tc.state))
		})
	}
}

func TestNewReviewLog(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	before, err := NewWordCard(uuid.New(), uuid.New(), now)
	require.NoError(t, err)

	reviewed := now
	after := before.WithState(CardState{
		State: StateLearning, Difficulty: 5.2, Stability: 3.7, LearningStep: 1,
		IsLearningPhase: true, Reps: 1, LastReviewAt: &reviewed, DueAt: now.Add(10 * time.Minute),
	}, now)

	log := NewReviewLog(before, after, RatingGood, now)

	assert.NotEqual(t, uuid.Nil, log.ID)
	assert.Equal(t, before.UserID, log.UserID)
	assert.Equal(t, before.WordID, log.WordID)
	assert.Equal(t, RatingGood, log.Rating)
	assert.Equal(t, StateNew, log.StateBefore)
	assert.Equal(t, StateLearning, log.StateAfter)
	assert.Zero(t, log.StabilityBefore)
	assert.Equal(t, 3.7, log.StabilityAfter)
	assert.Equal(t, 5.2, log.DifficultyAfter)
	assert.True(t, log.IntroducedNewCard())
}
