package fsrs

import (
	"math"
	"time"

	"github.com/phrazzld/scry-fsrs/internal/domain"
)

// initialDifficulty returns the difficulty of a card after its first rating.
//
//	D0(G) = w4 - (G-3)*w5, clamped to [1, 10]
func initialDifficulty(w [WeightCount]float64, rating domain.Rating) float64 {
	return clampDifficulty(w[4] - float64(rating-3)*w[5])
}

// initialStability returns the stability of a card after its first rating.
//
//	S0(G) = w[G-1], floored at MinStability
func initialStability(w [WeightCount]float64, rating domain.Rating) float64 {
	return clampStability(w[int(rating)-1])
}

// retrievability is the probability of recall after elapsedDays for a card
// with the given stability.
//
//	R(t, S) = (1 + t/(9*S))^-1
func retrievability(elapsedDays, stability float64) float64 {
	if stability <= 0 || math.IsNaN(stability) {
		return 0
	}
	if elapsedDays <= 0 {
		return 1
	}
	return math.Pow(1+elapsedDays/(9*stability), -1)
}

// nextDifficulty moves difficulty by the rating and mean-reverts it toward the
// difficulty of an item first rated Easy.
//
//	D' = w7*D0(Easy) + (1-w7)*(D - w6*(G-3)), clamped to [1, 10]
func nextDifficulty(w [WeightCount]float64, difficulty float64, rating domain.Rating) float64 {
	moved := difficulty - w[6]*float64(rating-3)
	reverted := w[7]*initialDifficulty(w, domain.RatingEasy) + (1-w[7])*moved
	return clampDifficulty(reverted)
}

// recallStability is the stability after a successful (Hard, Good, Easy) review.
//
//	S' = S * (1 + e^w8 * (11-D) * S^-w9 * (e^(w10*(1-R)) - 1) * hardPenalty * easyBonus)
//
// The result is never below S.
func recallStability(w [WeightCount]float64, difficulty, stability, r float64, rating domain.Rating) float64 {
	hardPenalty := 1.0
	if rating == domain.RatingHard {
		hardPenalty = w[15]
	}
	easyBonus := 1.0
	if rating == domain.RatingEasy {
		easyBonus = w[16]
	}

	growth := math.Exp(w[8]) *
		(11 - difficulty) *
		math.Pow(stability, -w[9]) *
		(math.Exp(w[10]*(1-r)) - 1) *
		hardPenalty *
		easyBonus

	next := stability * (1 + growth)
	if math.IsNaN(next) || math.IsInf(next, 0) || next < stability {
		next = stability
	}
	return clampStability(next)
}

// forgetStability is the stability after a lapse.
//
//	S' = w11 * D^-w12 * ((S+1)^w13 - 1) * e^(w14*(1-R))
//
// The result is never above S and never below MinStability.
func forgetStability(w [WeightCount]float64, difficulty, stability, r float64) float64 {
	next := w[11] *
		math.Pow(difficulty, -w[12]) *
		(math.Pow(stability+1, w[13]) - 1) *
		math.Exp(w[14]*(1-r))

	if !math.IsNaN(next) && next > stability {
		next = stability
	}
	return clampStability(next)
}

// nextIntervalDays converts stability into whole days until the card's
// retrievability falls to the requested retention.
//
//	I = round(S * ln(requestRetention) / ln(0.9)), clamped to [1, maximumInterval]
func nextIntervalDays(p *Params, stability float64) float64 {
	raw := stability * math.Log(p.RequestRetention) / math.Log(0.9)
	if math.IsNaN(raw) {
		return 1
	}
	return clampInterval(math.Round(raw), p.MaximumInterval)
}

// elapsedDays returns the fractional days between the last review and now.
func elapsedDays(lastReviewAt *time.Time, now time.Time) float64 {
	if lastReviewAt == nil {
		return 0
	}
	days := now.Sub(*lastReviewAt).Hours() / 24
	if days < 0 {
		return 0
	}
	return days
}

// clampDifficulty constrains difficulty to [1, 10]. NaN maps to the hardest
// value, which schedules the card soonest.
func clampDifficulty(d float64) float64 {
	if math.IsNaN(d) {
		return MaxDifficulty
	}
	return math.Max(MinDifficulty, math.Min(MaxDifficulty, d))
}

// clampStability floors stability at MinStability. NaN maps to the floor.
func clampStability(s float64) float64 {
	if math.IsNaN(s) || s < MinStability {
		return MinStability
	}
	return s
}

// clampInterval constrains an interval to [1, maxDays].
func clampInterval(days float64, maxDays int) float64 {
	if days < 1 {
		return 1
	}
	if days > float64(maxDays) {
		return float64(maxDays)
	}
	return days
}
