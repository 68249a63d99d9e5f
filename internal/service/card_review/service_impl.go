package card_review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-fsrs/internal/domain"
	"github.com/phrazzld/scry-fsrs/internal/domain/fsrs"
	"github.com/phrazzld/scry-fsrs/internal/platform/logger"
	"github.com/phrazzld/scry-fsrs/internal/store"
)

// Bounds applied to ListReviewLogs.
const (
	DefaultLogLimit = 50
	MaxLogLimit     = 500
)

// Verify interface compliance at compile time
var _ CardReviewService = (*cardReviewServiceImpl)(nil)

// cardReviewServiceImpl implements the CardReviewService interface.
type cardReviewServiceImpl struct {
	db        store.TxBeginner
	cardStore store.CardStateStore
	logStore  store.ReviewLogStore
	scheduler fsrs.Service
	limits    SessionLimits
	now       func() time.Time
	logger    *slog.Logger
}

// Option configures a CardReviewService.
type Option func(*cardReviewServiceImpl)

// WithClock replaces the wall clock, which is time.Now in UTC by default.
func WithClock(now func() time.Time) Option {
	return func(s *cardReviewServiceImpl) {
		s.now = now
	}
}

// WithSessionLimits replaces DefaultSessionLimits.
func WithSessionLimits(limits SessionLimits) Option {
	return func(s *cardReviewServiceImpl) {
		s.limits = limits
	}
}

// NewCardReviewService creates a new CardReviewService implementation.
func NewCardReviewService(
	db store.TxBeginner,
	cardStore store.CardStateStore,
	logStore store.ReviewLogStore,
	scheduler fsrs.Service,
	logger *slog.Logger,
	opts ...Option,
) CardReviewService {
	if db == nil {
		panic("db cannot be nil")
	}
	if cardStore == nil {
		panic("cardStore cannot be nil")
	}
	if logStore == nil {
		panic("logStore cannot be nil")
	}
	if scheduler == nil {
		panic("scheduler cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	s := &cardReviewServiceImpl{
		db:        db,
		cardStore: cardStore,
		logStore:  logStore,
		scheduler: scheduler,
		limits:    DefaultSessionLimits(),
		now:       func() time.Time { return time.Now().UTC() },
		logger:    logger.With(slog.String("component", "card_review_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EnrollWord implements CardReviewService.EnrollWord.
func (s *cardReviewServiceImpl) EnrollWord(ctx context.Context, userID, wordID uuid.UUID) (*domain.WordCard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := domain.NewWordCard(userID, wordID, s.now())
	if err != nil {
		return nil, err
	}

	err = s.cardStore.Create(ctx, card)
	if store.IsDuplicateError(err) {
		log.Debug("word already enrolled",
			slog.String("user_id", userID.String()),
			slog.String("word_id", wordID.String()))
		return s.GetCard(ctx, userID, wordID)
	}
	if err != nil {
		return nil, s.fail(log, "enroll_word", "failed to create card", err, userID, wordID)
	}

	log.Info("word enrolled",
		slog.String("user_id", userID.String()),
		slog.String("word_id", wordID.String()))
	return card, nil
}

// SubmitReview implements CardReviewService.SubmitReview.
func (s *cardReviewServiceImpl) SubmitReview(
	ctx context.Context,
	userID, wordID uuid.UUID,
	rating domain.Rating,
) (*domain.WordCard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !rating.IsValid() {
		log.Warn("invalid review rating",
			slog.String("user_id", userID.String()),
			slog.String("word_id", wordID.String()),
			slog.Int("rating", int(rating)))
		return nil, fmt.Errorf("%w: %d", ErrInvalidRating, int(rating))
	}

	now := s.now()
	var updated *domain.WordCard

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		cards := s.cardStore.WithTx(tx)
		logs := s.logStore.WithTx(tx)

		current, err := cards.GetForUpdate(ctx, userID, wordID)
		enrolled := true
		if store.IsNotFoundError(err) {
			current, err = domain.NewWordCard(userID, wordID, now)
			enrolled = false
		}
		if err != nil {
			return fmt.Errorf("failed to load card: %w", err)
		}

		next, err := s.scheduler.CalculateNextReview(current, rating, now)
		if err != nil {
			return fmt.Errorf("failed to schedule review: %w", err)
		}

		if enrolled {
			err = cards.Update(ctx, next)
		} else {
			err = cards.Create(ctx, next)
			if store.IsDuplicateError(err) {
				return ErrConcurrentReview
			}
		}
		if err != nil {
			return fmt.Errorf("failed to save card: %w", err)
		}

		if err := logs.Create(ctx, domain.NewReviewLog(current, next, rating, now)); err != nil {
			return fmt.Errorf("failed to append review log: %w", err)
		}

		updated = next
		return nil
	})
	if err != nil {
		return nil, s.fail(log, "submit_review", "failed to submit review", err, userID, wordID)
	}

	log.Debug("review recorded",
		slog.String("user_id", userID.String()),
		slog.String("word_id", wordID.String()),
		slog.String("rating", rating.String()),
		slog.String("state", string(updated.State)),
		slog.Float64("stability", updated.Stability),
		slog.Float64("difficulty", updated.Difficulty),
		slog.Time("due_at", updated.DueAt))

	return updated, nil
}

// PreviewReview implements CardReviewService.PreviewReview.
func (s *cardReviewServiceImpl) PreviewReview(
	ctx context.Context,
	userID, wordID uuid.UUID,
) (map[domain.Rating]*domain.WordCard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := s.GetCard(ctx, userID, wordID)
	if err != nil {
		return nil, err
	}

	previews, err := s.scheduler.PreviewReview(card, s.now())
	if err != nil {
		return nil, s.fail(log, "preview_review", "failed to preview review", err, userID, wordID)
	}

	return previews, nil
}

// PostponeReview implements CardReviewService.PostponeReview.
func (s *cardReviewServiceImpl) PostponeReview(
	ctx context.Context,
	userID, wordID uuid.UUID,
	days int,
) (*domain.WordCard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if days < 1 {
		return nil, ErrInvalidDays
	}

	now := s.now()
	var updated *domain.WordCard

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		cards := s.cardStore.WithTx(tx)

		current, err := cards.GetForUpdate(ctx, userID, wordID)
		if store.IsNotFoundError(err) {
			return ErrCardNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to load card: %w", err)
		}

		next, err := s.scheduler.PostponeReview(current, days, now)
		if err != nil {
			return err
		}

		if err := cards.Update(ctx, next); err != nil {
			return fmt.Errorf("failed to save card: %w", err)
		}

		updated = next
		return nil
	})
	if err != nil {
		return nil, s.fail(log, "postpone_review", "failed to postpone review", err, userID, wordID)
	}

	log.Debug("review postponed",
		slog.String("user_id", userID.String()),
		slog.String("word_id", wordID.String()),
		slog.Int("days", days),
		slog.Time("due_at", updated.DueAt))

	return updated, nil
}

// GetCard implements CardReviewService.GetCard.
func (s *cardReviewServiceImpl) GetCard(ctx context.Context, userID, wordID uuid.UUID) (*domain.WordCard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := s.cardStore.Get(ctx, userID, wordID)
	if store.IsNotFoundError(err) {
		return nil, ErrCardNotFound
	}
	if err != nil {
		return nil, s.fail(log, "get_card", "failed to load card", err, userID, wordID)
	}

	return card, nil
}

// ListReviewLogs implements CardReviewService.ListReviewLogs. A non-positive
// limit selects DefaultLogLimit; larger limits are capped at MaxLogLimit.
func (s *cardReviewServiceImpl) ListReviewLogs(
	ctx context.Context,
	userID, wordID uuid.UUID,
	limit int,
) ([]*domain.ReviewLog, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		limit = DefaultLogLimit
	}
	if limit > MaxLogLimit {
		limit = MaxLogLimit
	}

	if _, err := s.GetCard(ctx, userID, wordID); err != nil {
		return nil, err
	}

	logs, err := s.logStore.ListByCard(ctx, userID, wordID, limit)
	if err != nil {
		return nil, s.fail(log, "list_review_logs", "failed to list review logs", err, userID, wordID)
	}

	return logs, nil
}

// GetStudySession implements CardReviewService.GetStudySession.
//
// The daily new-card allowance resets at UTC midnight and counts first
// reviews recorded in the log, so enrolling words does not consume it.
func (s *cardReviewServiceImpl) GetStudySession(ctx context.Context, userID uuid.UUID) (*StudySession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	now := s.now()
	midnight := startOfDayUTC(now)

	introduced, err := s.logStore.CountNewIntroducedSince(ctx, userID, midnight)
	if err != nil {
		return nil, s.fail(log, "get_study_session", "failed to count introduced cards", err, userID, uuid.Nil)
	}

	remaining := s.limits.NewCardsPerDay - introduced
	if remaining < 0 {
		remaining = 0
	}

	due, err := s.cardStore.ListDue(ctx, userID, now, s.limits.MaxDueCards)
	if err != nil {
		return nil, s.fail(log, "get_study_session", "failed to list due cards", err, userID, uuid.Nil)
	}

	fresh := make([]*domain.WordCard, 0)
	if remaining > 0 {
		fresh, err = s.cardStore.ListNew(ctx, userID, remaining)
		if err != nil {
			return nil, s.fail(log, "get_study_session", "failed to list new cards", err, userID, uuid.Nil)
		}
	}

	log.Debug("study session assembled",
		slog.String("user_id", userID.String()),
		slog.Int("due", len(due)),
		slog.Int("new", len(fresh)),
		slog.Int("introduced_today", introduced))

	return &StudySession{
		Due:          due,
		New:          fresh,
		NewRemaining: remaining,
		GeneratedAt:  now,
	}, nil
}

// fail passes the service's own sentinel errors through unchanged, turns
// lock contention into ErrConcurrentReview, and wraps everything else in a
// ServiceError after logging it.
func (s *cardReviewServiceImpl) fail(
	log *slog.Logger,
	operation, message string,
	err error,
	userID, wordID uuid.UUID,
) error {
	if errors.Is(err, ErrCardNotFound) ||
		errors.Is(err, ErrConcurrentReview) ||
		errors.Is(err, ErrInvalidRating) ||
		errors.Is(err, ErrInvalidDays) {
		return err
	}

	if store.IsRetryable(err) {
		log.Warn("lost a row lock race",
			slog.String("operation", operation),
			slog.String("user_id", userID.String()),
			slog.String("word_id", wordID.String()),
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: %v", ErrConcurrentReview, err)
	}

	log.Error(message,
		slog.String("operation", operation),
		slog.String("user_id", userID.String()),
		slog.String("word_id", wordID.String()),
		slog.String("error", err.Error()))
	return NewServiceError(operation, message, err)
}

func startOfDayUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
