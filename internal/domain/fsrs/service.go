package fsrs

import (
	"errors"
	"fmt"
	"time"

	"github.com/phrazzld/scry-fsrs/internal/domain"
)

// Common errors
var (
	ErrNilCard          = errors.New("word card cannot be nil")
	ErrInvalidRating    = domain.ErrInvalidRating
	ErrInvalidCardState = domain.ErrInconsistentCardState
	ErrInvalidDays      = errors.New("postpone days must be at least 1")
)

// Service is the validation boundary around the scheduler. It rejects
// malformed input with typed errors so that Schedule itself can stay total.
type Service interface {
	// CalculateNextReview returns a new card reflecting one review.
	CalculateNextReview(
		card *domain.WordCard,
		rating domain.Rating,
		now time.Time,
	) (*domain.WordCard, error)

	// PreviewReview returns the card that each rating would produce, without
	// committing to any of them.
	PreviewReview(
		card *domain.WordCard,
		now time.Time,
	) (map[domain.Rating]*domain.WordCard, error)

	// PostponeReview pushes the due time forward by a number of days.
	PostponeReview(
		card *domain.WordCard,
		days int,
		now time.Time,
	) (*domain.WordCard, error)

	// Params returns the parameters the service schedules with.
	Params() *Params
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new scheduling service with default parameters
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new scheduling service with custom parameters
func NewServiceWithParams(params *Params) (Service, error) {
	if params == nil {
		return nil, fmt.Errorf("%w: params cannot be nil", ErrInvalidParams)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &defaultService{params: params}, nil
}

// CalculateNextReview implements Service.CalculateNextReview
func (s *defaultService) CalculateNextReview(
	card *domain.WordCard,
	rating domain.Rating,
	now time.Time,
) (*domain.WordCard, error) {
	if err := validateInput(card, rating); err != nil {
		return nil, err
	}

	next := Schedule(s.params, card.CardState, rating, now)
	return card.WithState(next, now), nil
}

// PreviewReview implements Service.PreviewReview
func (s *defaultService) PreviewReview(
	card *domain.WordCard,
	now time.Time,
) (map[domain.Rating]*domain.WordCard, error) {
	if err := validateInput(card, domain.RatingGood); err != nil {
		return nil, err
	}

	outcomes := Preview(s.params, card.CardState, now)
	cards := make(map[domain.Rating]*domain.WordCard, len(outcomes))
	for rating, state := range outcomes {
		cards[rating] = card.WithState(state, now)
	}
	return cards, nil
}

// PostponeReview implements Service.PostponeReview. The new due time is
// counted from the later of the current due time and now, so postponing an
// overdue card still moves it into the future.
func (s *defaultService) PostponeReview(
	card *domain.WordCard,
	days int,
	now time.Time,
) (*domain.WordCard, error) {
	if card == nil {
		return nil, ErrNilCard
	}

	if days < 1 {
		return nil, ErrInvalidDays
	}

	base := card.DueAt
	if base.Before(now) {
		base = now
	}

	state := card.CardState.Clone()
	state.DueAt = base.AddDate(0, 0, days)

	return card.WithState(state, now), nil
}

// Params implements Service.Params
func (s *defaultService) Params() *Params {
	return s.params
}

// validateInput checks the scheduler's input contract.
func validateInput(card *domain.WordCard, rating domain.Rating) error {
	if card == nil {
		return ErrNilCard
	}

	if !rating.IsValid() {
		return fmt.Errorf("%w: %d", ErrInvalidRating, int(rating))
	}

	if err := card.CardState.Validate(); err != nil {
		return err
	}

	return nil
}
