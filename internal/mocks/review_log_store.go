package mocks

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-fsrs/internal/domain"
	"github.com/phrazzld/scry-fsrs/internal/store"
)

var _ store.ReviewLogStore = (*MockReviewLogStore)(nil)

// MockReviewLogStore is an in-memory, append-only store.ReviewLogStore.
type MockReviewLogStore struct {
	mu   sync.Mutex
	logs []*domain.ReviewLog

	// Err, when set, is returned by every method.
	Err error
	// CreateErr, when set, is returned by Create.
	CreateErr error
}

// NewMockReviewLogStore returns an empty store, optionally seeded with logs.
func NewMockReviewLogStore(logs ...*domain.ReviewLog) *MockReviewLogStore {
	m := &MockReviewLogStore{}
	for _, l := range logs {
		cp := *l
		m.logs = append(m.logs, &cp)
	}
	return m
}

// Create implements store.ReviewLogStore.
func (m *MockReviewLogStore) Create(ctx context.Context, log *domain.ReviewLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	if m.CreateErr != nil {
		return m.CreateErr
	}

	cp := *log
	m.logs = append(m.logs, &cp)
	return nil
}

// ListByCard implements store.ReviewLogStore.
func (m *MockReviewLogStore) ListByCard(
	ctx context.Context,
	userID, wordID uuid.UUID,
	limit int,
) ([]*domain.ReviewLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}

	result := make([]*domain.ReviewLog, 0)
	for i := len(m.logs) - 1; i >= 0 && len(result) < limit; i-- {
		l := m.logs[i]
		if l.UserID == userID && l.WordID == wordID {
			cp := *l
			result = append(result, &cp)
		}
	}
	return result, nil
}

// CountNewIntroducedSince implements store.ReviewLogStore.
func (m *MockReviewLogStore) CountNewIntroducedSince(
	ctx context.Context,
	userID uuid.UUID,
	since time.Time,
) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return 0, m.Err
	}

	count := 0
	for _, l := range m.logs {
		if l.UserID == userID && l.IntroducedNewCard() && !l.ReviewedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

// WithTx implements store.ReviewLogStore. The receiver is returned.
func (m *MockReviewLogStore) WithTx(tx *sql.Tx) store.ReviewLogStore {
	return m
}

// All returns a copy of every stored log in insertion order.
func (m *MockReviewLogStore) All() []*domain.ReviewLog {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]*domain.ReviewLog, 0, len(m.logs))
	for _, l := range m.logs {
		cp := *l
		result = append(result, &cp)
	}
	return result
}
