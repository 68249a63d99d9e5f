package store

import (
	"errors"
	"fmt"
)

// Store errors. Implementations wrap these so callers can match with errors.Is.
var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an insert would create a second row for
	// a unique key, e.g. enrolling the same word twice.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when a database constraint rejects a row.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrConflict is returned when the database aborts a statement because
	// of lock contention: a serialization failure, a deadlock, or a lock that
	// could not be acquired. The operation may succeed if retried.
	ErrConflict = errors.New("concurrent update conflict")

	// ErrTransactionFailed is returned when a transaction fails to begin or commit.
	ErrTransactionFailed = errors.New("transaction failed")

	// ErrCardStateNotFound indicates that the learner has no card for the word.
	ErrCardStateNotFound = fmt.Errorf("%w: card state", ErrNotFound)

	// ErrCardStateExists indicates that the learner already has a card for the word.
	ErrCardStateExists = fmt.Errorf("%w: card state", ErrDuplicate)
)

// IsNotFoundError reports whether err is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError reports whether err is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// IsRetryable reports whether the failed operation may succeed on retry.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConflict)
}
