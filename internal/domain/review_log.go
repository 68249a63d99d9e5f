package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReviewLog is the immutable audit record written once per review.
type ReviewLog struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"user_id"`
	WordID           uuid.UUID `json:"word_id"`
	Rating           Rating    `json:"rating"`
	StateBefore      State     `json:"state_before"`
	StateAfter       State     `json:"state_after"`
	DifficultyBefore float64   `json:"difficulty_before"`
	DifficultyAfter  float64   `json:"difficulty_after"`
	StabilityBefore  float64   `json:"stability_before"`
	StabilityAfter   float64   `json:"stability_after"`
	Retrievability   float64   `json:"retrievability"`
	ElapsedDays      float64   `json:"elapsed_days"`
	ScheduledDays    float64   `json:"scheduled_days"`
	ReviewedAt       time.Time `json:"reviewed_at"`
}

// NewReviewLog records the transition from before to after caused by rating.
func NewReviewLog(before, after *WordCard, rating Rating, reviewedAt time.Time) *ReviewLog {
	return &ReviewLog{
		ID:               uuid.New(),
		UserID:           after.UserID,
		WordID:           after.WordID,
		Rating:           rating,
		StateBefore:      before.State,
		StateAfter:       after.State,
		DifficultyBefore: before.Difficulty,
		DifficultyAfter:  after.Difficulty,
		StabilityBefore:  before.Stability,
		StabilityAfter:   after.Stability,
		Retrievability:   after.Retrievability,
		ElapsedDays:      after.ElapsedDays,
		ScheduledDays:    after.ScheduledDays,
		ReviewedAt:       reviewedAt,
	}
}

// IntroducedNewCard reports whether this review was the first one for the word.
func (l *ReviewLog) IntroducedNewCard() bool {
	return l.StateBefore == StateNew
}
