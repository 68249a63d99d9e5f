package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-fsrs/internal/domain"
	"github.com/phrazzld/scry-fsrs/internal/service/card_review"
)

var _ card_review.CardReviewService = (*MockCardReviewService)(nil)

// ReviewCall records the arguments of one SubmitReview call.
type ReviewCall struct {
	UserID uuid.UUID
	WordID uuid.UUID
	Rating domain.Rating
}

// MockCardReviewService implements card_review.CardReviewService for testing.
// Each method calls its function field when set and otherwise returns the
// default values.
type MockCardReviewService struct {
	// Custom behavior functions
	EnrollWordFn      func(ctx context.Context, userID, wordID uuid.UUID) (*domain.WordCard, error)
	SubmitReviewFn    func(ctx context.Context, userID, wordID uuid.UUID, rating domain.Rating) (*domain.WordCard, error)
	PreviewReviewFn   func(ctx context.Context, userID, wordID uuid.UUID) (map[domain.Rating]*domain.WordCard, error)
	PostponeReviewFn  func(ctx context.Context, userID, wordID uuid.UUID, days int) (*domain.WordCard, error)
	GetCardFn         func(ctx context.Context, userID, wordID uuid.UUID) (*domain.WordCard, error)
	ListReviewLogsFn  func(ctx context.Context, userID, wordID uuid.UUID, limit int) ([]*domain.ReviewLog, error)
	GetStudySessionFn func(ctx context.Context, userID uuid.UUID) (*card_review.StudySession, error)

	// Default response values
	Card     *domain.WordCard
	Previews map[domain.Rating]*domain.WordCard
	Logs     []*domain.ReviewLog
	Session  *card_review.StudySession
	Err      error

	// Call tracking for verification
	mu          sync.Mutex
	ReviewCalls []ReviewCall
	LastDays    int
	LastLimit   int
}

// NewMockCardReviewService creates a mock that returns card and err by default.
func NewMockCardReviewService(card *domain.WordCard, err error) *MockCardReviewService {
	return &MockCardReviewService{Card: card, Err: err}
}

// EnrollWord implements card_review.CardReviewService.
func (m *MockCardReviewService) EnrollWord(ctx context.Context, userID, wordID uuid.UUID) (*domain.WordCard, error) {
	if m.EnrollWordFn != nil {
		return m.EnrollWordFn(ctx, userID, wordID)
	}
	return m.cardOrErr()
}

// SubmitReview implements card_review.CardReviewService.
func (m *MockCardReviewService) SubmitReview(
	ctx context.Context,
	userID, wordID uuid.UUID,
	rating domain.Rating,
) (*domain.WordCard, error) {
	m.mu.Lock()
	m.ReviewCalls = append(m.ReviewCalls, ReviewCall{UserID: userID, WordID: wordID, Rating: rating})
	m.mu.Unlock()

	if m.SubmitReviewFn != nil {
		return m.SubmitReviewFn(ctx, userID, wordID, rating)
	}
	return m.cardOrErr()
}

// PreviewReview implements card_review.CardReviewService.
func (m *MockCardReviewService) PreviewReview(
	ctx context.Context,
	userID, wordID uuid.UUID,
) (map[domain.Rating]*domain.WordCard, error) {
	if m.PreviewReviewFn != nil {
		return m.PreviewReviewFn(ctx, userID, wordID)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Previews, nil
}

// PostponeReview implements card_review.CardReviewService.
func (m *MockCardReviewService) PostponeReview(
	ctx context.Context,
	userID, wordID uuid.UUID,
	days int,
) (*domain.WordCard, error) {
	m.mu.Lock()
	m.LastDays = days
	m.mu.Unlock()

	if m.PostponeReviewFn != nil {
		return m.PostponeReviewFn(ctx, userID, wordID, days)
	}
	return m.cardOrErr()
}

// GetCard implements card_review.CardReviewService.
func (m *MockCardReviewService) GetCard(ctx context.Context, userID, wordID uuid.UUID) (*domain.WordCard, error) {
	if m.GetCardFn != nil {
		return m.GetCardFn(ctx, userID, wordID)
	}
	return m.cardOrErr()
}

// ListReviewLogs implements card_review.CardReviewService.
func (m *MockCardReviewService) ListReviewLogs(
	ctx context.Context,
	userID, wordID uuid.UUID,
	limit int,
) ([]*domain.ReviewLog, error) {
	m.mu.Lock()
	m.LastLimit = limit
	m.mu.Unlock()

	if m.ListReviewLogsFn != nil {
		return m.ListReviewLogsFn(ctx, userID, wordID, limit)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Logs, nil
}

// GetStudySession implements card_review.CardReviewService.
func (m *MockCardReviewService) GetStudySession(
	ctx context.Context,
	userID uuid.UUID,
) (*card_review.StudySession, error) {
	if m.GetStudySessionFn != nil {
		return m.GetStudySessionFn(ctx, userID)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Session, nil
}

func (m *MockCardReviewService) cardOrErr() (*domain.WordCard, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Card, nil
}
