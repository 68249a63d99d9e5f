package fsrs

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/phrazzld/scry-fsrs/internal/domain"
)

// WeightCount is the length of the FSRS-4.5 weight vector.
const WeightCount = 17

// Numeric bounds applied to every computed value.
const (
	MinStability  = 0.1
	MinDifficulty = 1.0
	MaxDifficulty = 10.0
)

// MaxMaximumInterval is the largest accepted MaximumInterval, in days.
const MaxMaximumInterval = 36500

// DefaultWeights are the published FSRS-4.5 default weights.
//
//	w0..w3   initial stability for Again, Hard, Good, Easy
//	w4, w5   initial difficulty: w4 - (G-3)*w5
//	w6, w7   difficulty update and mean reversion
//	w8..w10  stability after successful recall
//	w11..w14 stability after a lapse
//	w15      hard penalty (< 1)
//	w16      easy bonus (> 1)
var DefaultWeights = [WeightCount]float64{
	0.4872, 1.4003, 3.7145, 13.8206,
	5.1618, 1.2298,
	0.8975, 0.031,
	1.6474, 0.1367, 1.0461,
	2.1072, 0.0793, 0.3246, 1.587,
	0.2272,
	2.8755,
}

// ErrInvalidParams is returned when scheduler parameters fail validation.
var ErrInvalidParams = errors.New("invalid scheduler parameters")

// Params is the complete, immutable configuration of the scheduler. Build it
// once at startup with NewParams or NewDefaultParams and share it.
type Params struct {
	// RequestRetention is the recall probability that defines "due".
	RequestRetention float64
	// MaximumInterval caps scheduled_days.
	MaximumInterval int
	// W is the FSRS weight vector.
	W [WeightCount]float64
	// LearningSteps maps each rating to the delay of the next short-term step.
	LearningSteps map[domain.Rating]time.Duration
	// GraduationThreshold is the number of consecutive non-Again steps a card
	// needs before it leaves the learning phase.
	GraduationThreshold int
}

// ParamsConfig carries every scheduler setting. Unlike a partial override,
// each field must be set; NewParams rejects zero values instead of silently
// filling them in.
type ParamsConfig struct {
	RequestRetention    float64
	MaximumInterval     int
	Weights             []float64
	LearningSteps       map[domain.Rating]time.Duration
	GraduationThreshold int
}

// DefaultParamsConfig returns the configuration behind NewDefaultParams.
func DefaultParamsConfig() ParamsConfig {
	return ParamsConfig{
		RequestRetention: 0.9,
		MaximumInterval:  365,
		Weights:          DefaultWeights[:],
		LearningSteps: map[domain.Rating]time.Duration{
			domain.RatingAgain: 1 * time.Minute,
			domain.RatingHard:  5 * time.Minute,
			domain.RatingGood:  10 * time.Minute,
			domain.RatingEasy:  60 * time.Minute,
		},
		GraduationThreshold: 2,
	}
}

// NewDefaultParams creates a Params instance with the default values.
func NewDefaultParams() *Params {
	params, err := NewParams(DefaultParamsConfig())
	if err != nil {
		// ALLOW-PANIC: the built-in defaults are a compile-time constant
		panic(fmt.Sprintf("fsrs: default parameters are invalid: %v", err))
	}
	return params
}

// NewParams validates cfg and builds a Params instance from it.
func NewParams(cfg ParamsConfig) (*Params, error) {
	if len(cfg.Weights) != WeightCount {
		return nil, fmt.Errorf("%w: expected %d weights, got %d", ErrInvalidParams, WeightCount, len(cfg.Weights))
	}

	params := &Params{
		RequestRetention:    cfg.RequestRetention,
		MaximumInterval:     cfg.MaximumInterval,
		LearningSteps:       make(map[domain.Rating]time.Duration, len(cfg.LearningSteps)),
		GraduationThreshold: cfg.GraduationThreshold,
	}
	copy(params.W[:], cfg.Weights)
	for rating, step := range cfg.LearningSteps {
		params.LearningSteps[rating] = step
	}

	if err := params.Validate(); err != nil {
		return nil, err
	}

	return params, nil
}

// Validate checks every field. It is called by NewParams; callers that build
// Params by hand should call it before use.
func (p *Params) Validate() error {
	if math.IsNaN(p.RequestRetention) || p.RequestRetention <= 0 || p.RequestRetention >= 1 {
		return fmt.Errorf("%w: request retention %v must be in (0, 1)", ErrInvalidParams, p.RequestRetention)
	}

	if p.MaximumInterval < 1 || p.MaximumInterval > MaxMaximumInterval {
		return fmt.Errorf("%w: maximum interval %d must be in [1, %d] days",
			ErrInvalidParams, p.MaximumInterval, MaxMaximumInterval)
	}

	for i, w := range p.W {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("%w: weight w[%d] is not finite", ErrInvalidParams, i)
		}
	}

	for i := 0; i < 4; i++ {
		if p.W[i] <= 0 {
			return fmt.Errorf("%w: initial stability weight w[%d] must be positive", ErrInvalidParams, i)
		}
	}

	if p.W[15] <= 0 || p.W[15] > 1 {
		return fmt.Errorf("%w: hard penalty w[15]=%v must be in (0, 1]", ErrInvalidParams, p.W[15])
	}

	if p.W[16] < 1 {
		return fmt.Errorf("%w: easy bonus w[16]=%v must be at least 1", ErrInvalidParams, p.W[16])
	}

	for _, rating := range domain.Ratings {
		step, ok := p.LearningSteps[rating]
		if !ok || step <= 0 {
			return fmt.Errorf("%w: learning step for %s must be positive", ErrInvalidParams, rating)
		}
	}

	if p.GraduationThreshold < 1 {
		return fmt.Errorf("%w: graduation threshold %d must be at least 1", ErrInvalidParams, p.GraduationThreshold)
	}

	return nil
}

// LearningStep returns the short-term delay for rating.
func (p *Params) LearningStep(rating domain.Rating) time.Duration {
	return p.LearningSteps[rating]
}
