package fsrs

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-fsrs/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCard(t *testing.T, now time.Time) *domain.WordCard {
	t.Helper()
	card, err := domain.NewWordCard(uuid.New(), uuid.New(), now)
	require.NoError(t, err)
	return card
}

func TestNewDefaultService(t *testing.T) {
	t.Parallel()
	service := NewDefaultService()
	require.NotNil(t, service)
	assert.Equal(t, NewDefaultParams(), service.Params())
}

func TestNewServiceWithParams(t *testing.T) {
	t.Parallel()

	_, err := NewServiceWithParams(nil)
	assert.ErrorIs(t, err, ErrInvalidParams)

	bad := NewDefaultParams()
	bad.RequestRetention = 2
	_, err = NewServiceWithParams(bad)
	assert.ErrorIs(t, err, ErrInvalidParams)

	good := NewDefaultParams()
	good.MaximumInterval = 90
	service, err := NewServiceWithParams(good)
	require.NoError(t, err)
	assert.Equal(t, 90, service.Params().MaximumInterval)
}

func TestCalculateNextReview(t *testing.T) {
	t.Parallel()
	service := NewDefaultService()
	card := newTestCard(t, testNow.Add(-time.Hour))

	updated, err := service.CalculateNextReview(card, domain.RatingGood, testNow)
	require.NoError(t, err)

	assert.Equal(t, card.UserID, updated.UserID)
	assert.Equal(t, card.WordID, updated.WordID)
	assert.Equal(t, card.CreatedAt, updated.CreatedAt)
	assert.Equal(t, testNow, updated.UpdatedAt)
	assert.Equal(t, domain.StateLearning, updated.State)
	assert.Equal(t, testNow.Add(10*time.Minute), updated.DueAt)

	// the original card is untouched
	assert.Equal(t, domain.StateNew, card.State)
	assert.Nil(t, card.LastReviewAt)
}

func TestCalculateNextReviewRejectsBadInput(t *testing.T) {
	t.Parallel()
	service := NewDefaultService()

	withHistory := newTestCard(t, testNow)
	withHistory.Reps = 3

	reviewWithoutHistory := newTestCard(t, testNow)
	reviewWithoutHistory.State = domain.StateReview
	reviewWithoutHistory.IsLearningPhase = false

	unknownState := newTestCard(t, testNow)
	unknownState.State = "archived"

	testCases := []struct {
		name    string
		card    *domain.WordCard
		rating  domain.Rating
		wantErr error
	}{
		{"nil card", nil, domain.RatingGood, ErrNilCard},
		{"rating zero", newTestCard(t, testNow), domain.Rating(0), ErrInvalidRating},
		{"rating five", newTestCard(t, testNow), domain.Rating(5), ErrInvalidRating},
		{"new card with reps", withHistory, domain.RatingGood, ErrInvalidCardState},
		{"review card never reviewed", reviewWithoutHistory, domain.RatingGood, ErrInvalidCardState},
		{"unknown state", unknownState, domain.RatingGood, domain.ErrInvalidState},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			updated, err := service.CalculateNextReview(tc.card, tc.rating, testNow)
			assert.Nil(t, updated)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestPreviewReview(t *testing.T) {
	t.Parallel()
	service := NewDefaultService()
	card := newTestCard(t, testNow)

	previews, err := service.PreviewReview(card, testNow)
	require.NoError(t, err)
	require.Len(t, previews, 4)

	assert.Equal(t, domain.StateLearning, previews[domain.RatingAgain].State)
	assert.Equal(t, domain.StateLearning, previews[domain.RatingGood].State)
	assert.Equal(t, domain.StateReview, previews[domain.RatingEasy].State)
	for _, preview := range previews {
		assert.Equal(t, card.UserID, preview.UserID)
	}

	_, err = service.PreviewReview(nil, testNow)
	assert.ErrorIs(t, err, ErrNilCard)
}

func TestPostponeReview(t *testing.T) {
	t.Parallel()
	service := NewDefaultService()

	t.Run("future due date", func(t *testing.T) {
		t.Parallel()
		card := newTestCard(t, testNow)
		card.DueAt = testNow.AddDate(0, 0, 3)

		postponed, err := service.PostponeReview(card, 2, testNow)
		require.NoError(t, err)
		assert.Equal(t, testNow.AddDate(0, 0, 5), postponed.DueAt)
		assert.Equal(t, testNow.AddDate(0, 0, 3), card.DueAt)
	})

	t.Run("overdue card counts from now", func(t *testing.T) {
		t.Parallel()
		card := newTestCard(t, testNow.AddDate(0, 0, -10))

		postponed, err := service.PostponeReview(card, 1, testNow)
		require.NoError(t, err)
		assert.Equal(t, testNow.AddDate(0, 0, 1), postponed.DueAt)
		assert.Equal(t, domain.StateNew, postponed.State)
	})

	t.Run("invalid days", func(t *testing.T) {
		t.Parallel()
		_, err := service.PostponeReview(newTestCard(t, testNow), 0, testNow)
		assert.ErrorIs(t, err, ErrInvalidDays)

		_, err = service.PostponeReview(nil, 1, testNow)
		assert.ErrorIs(t, err, ErrNilCard)
	})
}
