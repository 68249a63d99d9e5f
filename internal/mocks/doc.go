// Package mocks provides centralized mock implementations for testing.
//
// This package contains test doubles for the interfaces that connect the
// layers of the application, so that tests in different packages share the
// same behavior instead of defining inline mocks.
//
// MockCardStateStore and MockReviewLogStore are in-memory stores that honor
// the error contracts of the store package. MockCardReviewService records
// its calls and returns either canned values or the result of a function
// field.
//
// Usage:
//
//	cards := mocks.NewMockCardStateStore()
//	logs := mocks.NewMockReviewLogStore()
//	svc := card_review.NewCardReviewService(db, cards, logs, fsrs.NewDefaultService(), logger)
//
// When adding a new mock to this package, create a new file named after the
// interface being mocked.
package mocks
