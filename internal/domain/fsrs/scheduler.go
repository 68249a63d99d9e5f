package fsrs

import (
	"fmt"
	"time"

	"github.com/phrazzld/scry-fsrs/internal/domain"
)

// Schedule applies one review to a card and returns the card's next state.
//
// It is a pure function: the input is never modified and no I/O happens, so it
// is safe to call from any number of goroutines. The caller is expected to
// pass a valid rating and a state that satisfies CardState.Validate; Service
// checks both before calling. An out-of-range rating or unknown state panics.
//
// The returned state always carries LastReviewAt = now, the elapsed days since
// the previous review, and the retrievability the card had at this review
// (before the update).
func Schedule(p *Params, current domain.CardState, rating domain.Rating, now time.Time) domain.CardState {
	if !rating.IsValid() {
		// ALLOW-PANIC: contract violation, rejected by Service before reaching here
		panic(fmt.Sprintf("fsrs: invalid rating %d", int(rating)))
	}

	elapsed := elapsedDays(current.LastReviewAt, now)
	next := current.Clone()

	switch current.State {
	case domain.StateNew:
		next = reviewNew(p, next, rating, now)
	case domain.StateLearning, domain.StateRelearning:
		r := retrievability(elapsed, current.Stability)
		next = reviewShortTerm(p, next, rating, r, now)
	case domain.StateReview:
		r := retrievability(elapsed, current.Stability)
		next = reviewLongTerm(p, next, rating, r, now)
	default:
		// ALLOW-PANIC: contract violation, rejected by Service before reaching here
		panic(fmt.Sprintf("fsrs: unknown card state %q", current.State))
	}

	reviewedAt := now
	next.LastReviewAt = &reviewedAt
	next.ElapsedDays = elapsed

	return next
}

// Preview returns the state the card would reach for every rating.
func Preview(p *Params, current domain.CardState, now time.Time) map[domain.Rating]domain.CardState {
	outcomes := make(map[domain.Rating]domain.CardState, len(domain.Ratings))
	for _, rating := range domain.Ratings {
		outcomes[rating] = Schedule(p, current, rating, now)
	}
	return outcomes
}

// reviewNew handles the first review of a card. Easy skips the learning phase;
// every other rating enters Learning and takes the first short-term step.
func reviewNew(p *Params, card domain.CardState, rating domain.Rating, now time.Time) domain.CardState {
	card.Difficulty = initialDifficulty(p.W, rating)
	card.Stability = initialStability(p.W, rating)
	// nothing is known about recall before the first exposure
	card.Retrievability = 0

	if rating == domain.RatingEasy {
		card.Reps++
		return enterReview(p, card, now)
	}

	card.State = domain.StateLearning
	card.IsLearningPhase = true
	card.LearningStep = 0

	// a card graduating on its first review has had no time to decay
	return takeStep(p, card, rating, 1, now)
}

// reviewShortTerm handles Learning and Relearning cards, which move through
// the minute-scale step ladder until they graduate.
func reviewShortTerm(
	p *Params,
	card domain.CardState,
	rating domain.Rating,
	r float64,
	now time.Time,
) domain.CardState {
	card.Retrievability = r

	if rating == domain.RatingEasy {
		card.Reps++
		return graduate(p, card, rating, r, now)
	}

	return takeStep(p, card, rating, r, now)
}

// takeStep advances a card in the learning phase by one rating. Again resets
// the ladder; Hard and Good climb it and graduate at the threshold.
func takeStep(
	p *Params,
	card domain.CardState,
	rating domain.Rating,
	r float64,
	now time.Time,
) domain.CardState {
	if rating.IsLapse() {
		card.LearningStep = 0
		return scheduleStep(p, card, rating, now)
	}

	card.Reps++
	card.LearningStep++
	if card.LearningStep >= p.GraduationThreshold {
		return graduate(p, card, rating, r, now)
	}

	return scheduleStep(p, card, rating, now)
}

// scheduleStep keeps the card in the learning phase and schedules it on the
// minute-scale ladder. ScheduledDays holds the step as a fraction of a day.
func scheduleStep(p *Params, card domain.CardState, rating domain.Rating, now time.Time) domain.CardState {
	step := p.LearningStep(rating)
	card.IsLearningPhase = true
	card.ScheduledDays = step.Hours() / 24
	card.DueAt = now.Add(step)
	return card
}

// graduate moves a card out of the learning phase, applying the long-term
// difficulty and stability update as its first day-scale interval.
func graduate(
	p *Params,
	card domain.CardState,
	rating domain.Rating,
	r float64,
	now time.Time,
) domain.CardState {
	card.Difficulty = nextDifficulty(p.W, card.Difficulty, rating)
	card.Stability = recallStability(p.W, card.Difficulty, card.Stability, r, rating)
	return enterReview(p, card, now)
}

// reviewLongTerm handles a Review card. Again is a lapse that sends the card
// back to the step ladder; any other rating grows stability.
func reviewLongTerm(
	p *Params,
	card domain.CardState,
	rating domain.Rating,
	r float64,
	now time.Time,
) domain.CardState {
	card.Retrievability = r
	card.Difficulty = nextDifficulty(p.W, card.Difficulty, rating)

	if rating.IsLapse() {
		card.Stability = forgetStability(p.W, card.Difficulty, card.Stability, r)
		card.State = domain.StateRelearning
		card.LearningStep = 0
		card.Lapses++
		return scheduleStep(p, card, rating, now)
	}

	card.Stability = recallStability(p.W, card.Difficulty, card.Stability, r, rating)
	card.Reps++
	return enterReview(p, card, now)
}

// enterReview places the card on the day-scale schedule. Rounding to whole
// days happens only here. AddDate keeps long intervals clear of the
// time.Duration range.
func enterReview(p *Params, card domain.CardState, now time.Time) domain.CardState {
	card.State = domain.StateReview
	card.IsLearningPhase = false
	card.LearningStep = 0
	card.ScheduledDays = nextIntervalDays(p, card.Stability)
	card.DueAt = now.AddDate(0, 0, int(card.ScheduledDays))
	return card
}
