package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Rating is the learner's self-assessment of a single recall attempt.
type Rating int

// Possible ratings, ordered from worst to best recall.
const (
	RatingAgain Rating = 1
	RatingHard  Rating = 2
	RatingGood  Rating = 3
	RatingEasy  Rating = 4
)

// Ratings lists every valid rating in ascending order.
var Ratings = []Rating{RatingAgain, RatingHard, RatingGood, RatingEasy}

// IsValid reports whether r is one of Again, Hard, Good or Easy.
func (r Rating) IsValid() bool {
	return r >= RatingAgain && r <= RatingEasy
}

// IsLapse reports whether the rating counts as a failed recall.
func (r Rating) IsLapse() bool {
	return r == RatingAgain
}

// String returns the lower-case name used on the wire.
func (r Rating) String() string {
	switch r {
	case RatingAgain:
		return "again"
	case RatingHard:
		return "hard"
	case RatingGood:
		return "good"
	case RatingEasy:
		return "easy"
	default:
		return fmt.Sprintf("rating(%d)", int(r))
	}
}

// ParseRating accepts either a rating name ("again", "Good", ...) or its
// numeric value ("1".."4").
func ParseRating(s string) (Rating, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "again":
		return RatingAgain, nil
	case "hard":
		return RatingHard, nil
	case "good":
		return RatingGood, nil
	case "easy":
		return RatingEasy, nil
	}

	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || !Rating(n).IsValid() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRating, s)
	}
	return Rating(n), nil
}
