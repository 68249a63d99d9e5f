// Package domain contains the core vocabulary-review entities: the per-learner
// memory state of a word (CardState), the ratings a learner can give, the
// immutable review log written after each review, and the mastery view derived
// from a card's state. It has no dependencies on storage or transport.
package domain
