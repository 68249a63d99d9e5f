package domain

// MasteryLevel is a display label derived from a card's state and stability.
// It is never stored.
type MasteryLevel string

// Mastery levels, from least to most known.
const (
	MasteryNew       MasteryLevel = "new"
	MasteryLearning  MasteryLevel = "learning"
	MasteryReviewing MasteryLevel = "reviewing"
	MasteryMastered  MasteryLevel = "mastered"
)

// MasteredStabilityDays is the stability at which a Review card counts as mastered.
const MasteredStabilityDays = 21.0

// MasteryOf derives the mastery level of a card.
func MasteryOf(c CardState) MasteryLevel {
	switch c.State {
	case StateNew:
		return MasteryNew
	case StateLearning, StateRelearning:
		return MasteryLearning
	case StateReview:
		if c.Stability >= MasteredStabilityDays {
			return MasteryMastered
		}
		return MasteryReviewing
	default:
		return MasteryNew
	}
}
