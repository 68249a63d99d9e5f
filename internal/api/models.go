package api

import (
	"time"

	"github.com/phrazzld/scry-fsrs/internal/domain"
	"github.com/phrazzld/scry-fsrs/internal/service/card_review"
)

// ReviewRequest defines the payload for submitting a review. Rating accepts a
// name ("again", "hard", "good", "easy") or its number ("1".."4").
type ReviewRequest struct {
	Rating string `json:"rating" validate:"required"`
}

// PostponeRequest defines the payload for postponing a card.
type PostponeRequest struct {
	Days int `json:"days" validate:"required,min=1,max=3650"`
}

// CardResponse is the wire form of a WordCard.
type CardResponse struct {
	UserID          string     `json:"user_id"`
	WordID          string     `json:"word_id"`
	State           string     `json:"state"`
	Mastery         string     `json:"mastery"`
	Difficulty      float64    `json:"difficulty"`
	Stability       float64    `json:"stability"`
	Retrievability  float64    `json:"retrievability"`
	ElapsedDays     float64    `json:"elapsed_days"`
	ScheduledDays   float64    `json:"scheduled_days"`
	LearningStep    int        `json:"learning_step"`
	IsLearningPhase bool       `json:"is_learning_phase"`
	Reps            int        `json:"reps"`
	Lapses          int        `json:"lapses"`
	LastReviewAt    *time.Time `json:"last_review_at,omitempty"`
	DueAt           time.Time  `json:"due_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// PreviewResponse maps each rating name to the card it would produce.
type PreviewResponse map[string]CardResponse

// ReviewLogResponse is the wire form of a ReviewLog.
type ReviewLogResponse struct {
	ID               string    `json:"id"`
	Rating           string    `json:"rating"`
	StateBefore      string    `json:"state_before"`
	StateAfter       string    `json:"state_after"`
	DifficultyBefore float64   `json:"difficulty_before"`
	DifficultyAfter  float64   `json:"difficulty_after"`
	StabilityBefore  float64   `json:"stability_before"`
	StabilityAfter   float64   `json:"stability_after"`
	Retrievability   float64   `json:"retrievability"`
	ElapsedDays      float64   `json:"elapsed_days"`
	ScheduledDays    float64   `json:"scheduled_days"`
	ReviewedAt       time.Time `json:"reviewed_at"`
}

// StudySessionResponse is the wire form of a StudySession.
type StudySessionResponse struct {
	Due          []CardResponse `json:"due"`
	New          []CardResponse `json:"new"`
	NewRemaining int            `json:"new_remaining"`
	GeneratedAt  time.Time      `json:"generated_at"`
}

// HealthResponse is returned by the health check.
type HealthResponse struct {
	Status string `json:"status"`
}

func cardToResponse(card *domain.WordCard) CardResponse {
	return CardResponse{
		UserID:          card.UserID.String(),
		WordID:          card.WordID.String(),
		State:           string(card.State),
		Mastery:         string(card.Mastery()),
		Difficulty:      card.Difficulty,
		Stability:       card.Stability,
		Retrievability:  card.Retrievability,
		ElapsedDays:     card.ElapsedDays,
		ScheduledDays:   card.ScheduledDays,
		LearningStep:    card.LearningStep,
		IsLearningPhase: card.IsLearningPhase,
		Reps:            card.Reps,
		Lapses:          card.Lapses,
		LastReviewAt:    card.LastReviewAt,
		DueAt:           card.DueAt,
		CreatedAt:       card.CreatedAt,
		UpdatedAt:       card.UpdatedAt,
	}
}

func cardsToResponse(cards []*domain.WordCard) []CardResponse {
	result := make([]CardResponse, 0, len(cards))
	for _, card := range cards {
		result = append(result, cardToResponse(card))
	}
	return result
}

func previewToResponse(previews map[domain.Rating]*domain.WordCard) PreviewResponse {
	result := make(PreviewResponse, len(previews))
	for rating, card := range previews {
		result[rating.String()] = cardToResponse(card)
	}
	return result
}

func logsToResponse(logs []*domain.ReviewLog) []ReviewLogResponse {
	result := make([]ReviewLogResponse, 0, len(logs))
	for _, l := range logs {
		result = append(result, ReviewLogResponse{
			ID:               l.ID.String(),
			Rating:           l.Rating.String(),
			StateBefore:      string(l.StateBefore),
			StateAfter:       string(l.StateAfter),
			DifficultyBefore: l.DifficultyBefore,
			DifficultyAfter:  l.DifficultyAfter,
			StabilityBefore:  l.StabilityBefore,
			StabilityAfter:   l.StabilityAfter,
			Retrievability:   l.Retrievability,
			ElapsedDays:      l.ElapsedDays,
			ScheduledDays:    l.ScheduledDays,
			ReviewedAt:       l.ReviewedAt,
		})
	}
	return result
}

func sessionToResponse(session *card_review.StudySession) StudySessionResponse {
	return StudySessionResponse{
		Due:          cardsToResponse(session.Due),
		New:          cardsToResponse(session.New),
		NewRemaining: session.NewRemaining,
		GeneratedAt:  session.GeneratedAt,
	}
}
