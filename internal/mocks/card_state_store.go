package mocks

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-fsrs/internal/domain"
	"github.com/phrazzld/scry-fsrs/internal/store"
)

var _ store.CardStateStore = (*MockCardStateStore)(nil)

type cardKey struct {
	userID uuid.UUID
	wordID uuid.UUID
}

// MockCardStateStore is an in-memory store.CardStateStore. Cards are copied on
// the way in and out, so callers never share memory with the store.
type MockCardStateStore struct {
	mu    sync.Mutex
	cards map[cardKey]*domain.WordCard
	order []cardKey

	// Err, when set, is returned by every method.
	Err error
	// CreateErr, when set, is returned by Create.
	CreateErr error

	// Call counters
	CreateCalls       int
	GetForUpdateCalls int
	UpdateCalls       int
}

// NewMockCardStateStore returns an empty store, optionally seeded with cards.
func NewMockCardStateStore(cards ...*domain.WordCard) *MockCardStateStore {
	m := &MockCardStateStore{cards: make(map[cardKey]*domain.WordCard)}
	for _, card := range cards {
		m.put(card)
	}
	return m
}

func (m *MockCardStateStore) put(card *domain.WordCard) {
	key := cardKey{card.UserID, card.WordID}
	if _, ok := m.cards[key]; !ok {
		m.order = append(m.order, key)
	}
	m.cards[key] = copyCard(card)
}

// Create implements store.CardStateStore.
func (m *MockCardStateStore) Create(ctx context.Context, card *domain.WordCard) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls++

	if m.Err != nil {
		return m.Err
	}
	if m.CreateErr != nil {
		return m.CreateErr
	}
	if err := card.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	if _, ok := m.cards[cardKey{card.UserID, card.WordID}]; ok {
		return store.ErrCardStateExists
	}

	m.put(card)
	return nil
}

// Get implements store.CardStateStore.
func (m *MockCardStateStore) Get(ctx context.Context, userID, wordID uuid.UUID) (*domain.WordCard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.get(userID, wordID)
}

// GetForUpdate implements store.CardStateStore. No lock is taken.
func (m *MockCardStateStore) GetForUpdate(ctx context.Context, userID, wordID uuid.UUID) (*domain.WordCard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetForUpdateCalls++
	return m.get(userID, wordID)
}

func (m *MockCardStateStore) get(userID, wordID uuid.UUID) (*domain.WordCard, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	card, ok := m.cards[cardKey{userID, wordID}]
	if !ok {
		return nil, store.ErrCardStateNotFound
	}
	return copyCard(card), nil
}

// Update implements store.CardStateStore.
func (m *MockCardStateStore) Update(ctx context.Context, card *domain.WordCard) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateCalls++

	if m.Err != nil {
		return m.Err
	}
	if err := card.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	if _, ok := m.cards[cardKey{card.UserID, card.WordID}]; !ok {
		return store.ErrCardStateNotFound
	}

	m.put(card)
	return nil
}

// Delete implements store.CardStateStore.
func (m *MockCardStateStore) Delete(ctx context.Context, userID, wordID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	key := cardKey{userID, wordID}
	if _, ok := m.cards[key]; !ok {
		return store.ErrCardStateNotFound
	}

	delete(m.cards, key)
	for i, k := range m.order {
		if k == key {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// ListDue implements store.CardStateStore.
func (m *MockCardStateStore) ListDue(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
	limit int,
) ([]*domain.WordCard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}

	due := make([]*domain.WordCard, 0)
	for _, key := range m.order {
		card := m.cards[key]
		if key.userID == userID && card.State != domain.StateNew && card.IsDue(now) {
			due = append(due, copyCard(card))
		}
	}
	sort.SliceStable(due, func(i, j int) bool {
		return due[i].DueAt.Before(due[j].DueAt)
	})

	if len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

// ListNew implements store.CardStateStore.
func (m *MockCardStateStore) ListNew(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.WordCard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}

	fresh := make([]*domain.WordCard, 0)
	for _, key := range m.order {
		card := m.cards[key]
		if key.userID == userID && card.State == domain.StateNew {
			fresh = append(fresh, copyCard(card))
		}
		if len(fresh) == limit {
			break
		}
	}
	return fresh, nil
}

// WithTx implements store.CardStateStore. The in-memory store has no
// transactions, so the receiver is returned.
func (m *MockCardStateStore) WithTx(tx *sql.Tx) store.CardStateStore {
	return m
}

// Len returns the number of stored cards.
func (m *MockCardStateStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.cards)
}

func copyCard(c *domain.WordCard) *domain.WordCard {
	cp := *c
	cp.CardState = c.CardState.Clone()
	return &cp
}
