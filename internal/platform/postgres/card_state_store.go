package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-fsrs/internal/domain"
	"github.com/phrazzld/scry-fsrs/internal/platform/logger"
	"github.com/phrazzld/scry-fsrs/internal/store"
)

const cardStateColumns = `user_id, word_id, state, difficulty, stability, retrievability,
	elapsed_days, scheduled_days, learning_step, is_learning_phase, reps, lapses,
	last_review_at, due_at, created_at, updated_at`

// PostgresCardStateStore implements the store.CardStateStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCardStateStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCardStateStore creates a new PostgreSQL implementation of the CardStateStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresCardStateStore(db store.DBTX, logger *slog.Logger) *PostgresCardStateStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCardStateStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_state_store")),
	}
}

// Ensure PostgresCardStateStore implements store.CardStateStore interface
var _ store.CardStateStore = (*PostgresCardStateStore)(nil)

// WithTx implements store.CardStateStore.WithTx
func (s *PostgresCardStateStore) WithTx(tx *sql.Tx) store.CardStateStore {
	return &PostgresCardStateStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.CardStateStore.Create
func (s *PostgresCardStateStore) Create(ctx context.Context, card *domain.WordCard) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("card state failed validation before create",
			slog.String("user_id", card.UserID.String()),
			slog.String("word_id", card.WordID.String()),
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `INSERT INTO card_states (` + cardStateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	_, err := s.db.ExecContext(ctx, query,
		card.UserID,
		card.WordID,
		string(card.State),
		card.Difficulty,
		card.Stability,
		card.Retrievability,
		card.ElapsedDays,
		card.ScheduledDays,
		card.LearningStep,
		card.IsLearningPhase,
		card.Reps,
		card.Lapses,
		nullableTime(card.LastReviewAt),
		card.DueAt.UTC(),
		card.CreatedAt.UTC(),
		card.UpdatedAt.UTC(),
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("card state already exists",
				slog.String("user_id", card.UserID.String()),
				slog.String("word_id", card.WordID.String()))
			return store.ErrCardStateExists
		}
		log.Error("failed to insert card state",
			slog.String("user_id", card.UserID.String()),
			slog.String("word_id", card.WordID.String()),
			slog.String("error", err.Error()))
		return MapError(err)
	}

	log.Debug("card state created",
		slog.String("user_id", card.UserID.String()),
		slog.String("word_id", card.WordID.String()))
	return nil
}

// Get implements store.CardStateStore.Get
func (s *PostgresCardStateStore) Get(ctx context.Context, userID, wordID uuid.UUID) (*domain.WordCard, error) {
	query := `SELECT ` + cardStateColumns + `
		FROM card_states
		WHERE user_id = $1 AND word_id = $2`
	return s.getOne(ctx, query, userID, wordID)
}

// GetForUpdate implements store.CardStateStore.GetForUpdate
func (s *PostgresCardStateStore) GetForUpdate(ctx context.Context, userID, wordID uuid.UUID) (*domain.WordCard, error) {
	query := `SELECT ` + cardStateColumns + `
		FROM card_states
		WHERE user_id = $1 AND word_id = $2
		FOR UPDATE`
	return s.getOne(ctx, query, userID, wordID)
}

func (s *PostgresCardStateStore) getOne(
	ctx context.Context,
	query string,
	userID, wordID uuid.UUID,
) (*domain.WordCard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := scanCardState(s.db.QueryRowContext(ctx, query, userID, wordID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCardStateNotFound
		}
		log.Error("failed to load card state",
			slog.String("user_id", userID.String()),
			slog.String("word_id", wordID.String()),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return card, nil
}

// Update implements store.CardStateStore.Update
func (s *PostgresCardStateStore) Update(ctx context.Context, card *domain.WordCard) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `UPDATE card_states SET
			state = $3,
			difficulty = $4,
			stability = $5,
			retrievability = $6,
			elapsed_days = $7,
			scheduled_days = $8,
			learning_step = $9,
			is_learning_phase = $10,
			reps = $11,
			lapses = $12,
			last_review_at = $13,
			due_at = $14,
			updated_at = $15
		WHERE user_id = $1 AND word_id = $2`

	result, err := s.db.ExecContext(ctx, query,
		card.UserID,
		card.WordID,
		string(card.State),
		card.Difficulty,
		card.Stability,
		card.Retrievability,
		card.ElapsedDays,
		card.ScheduledDays,
		card.LearningStep,
		card.IsLearningPhase,
		card.Reps,
		card.Lapses,
		nullableTime(card.LastReviewAt),
		card.DueAt.UTC(),
		card.UpdatedAt.UTC(),
	)
	if err != nil {
		log.Error("failed to update card state",
			slog.String("user_id", card.UserID.String()),
			slog.String("word_id", card.WordID.String()),
			slog.String("error", err.Error()))
		return MapError(err)
	}

	return checkRowsAffected(result, store.ErrCardStateNotFound)
}

// Delete implements store.CardStateStore.Delete
func (s *PostgresCardStateStore) Delete(ctx context.Context, userID, wordID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM card_states WHERE user_id = $1 AND word_id = $2`,
		userID, wordID)
	if err != nil {
		log.Error("failed to delete card state",
			slog.String("user_id", userID.String()),
			slog.String("word_id", wordID.String()),
			slog.String("error", err.Error()))
		return MapError(err)
	}

	return checkRowsAffected(result, store.ErrCardStateNotFound)
}

// ListDue implements store.CardStateStore.ListDue
func (s *PostgresCardStateStore) ListDue(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
	limit int,
) ([]*domain.WordCard, error) {
	query := `SELECT ` + cardStateColumns + `
		FROM card_states
		WHERE user_id = $1 AND state <> 'new' AND due_at <= $2
		ORDER BY due_at ASC, word_id ASC
		LIMIT $3`
	return s.list(ctx, "list_due", query, userID, now.UTC(), limit)
}

// ListNew implements store.CardStateStore.ListNew
func (s *PostgresCardStateStore) ListNew(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.WordCard, error) {
	query := `SELECT ` + cardStateColumns + `
		FROM card_states
		WHERE user_id = $1 AND state = 'new'
		ORDER BY created_at ASC, word_id ASC
		LIMIT $2`
	return s.list(ctx, "list_new", query, userID, limit)
}

func (s *PostgresCardStateStore) list(
	ctx context.Context,
	operation string,
	query string,
	args ...any,
) ([]*domain.WordCard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query card states",
			slog.String("operation", operation),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	cards := make([]*domain.WordCard, 0)
	for rows.Next() {
		card, err := scanCardState(rows)
		if err != nil {
			log.Error("failed to scan card state row",
				slog.String("operation", operation),
				slog.String("error", err.Error()))
			return nil, err
		}
		cards = append(cards, card)
	}

	if err := rows.Err(); err != nil {
		log.Error("error iterating card state rows",
			slog.String("operation", operation),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return cards, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCardState(row rowScanner) (*domain.WordCard, error) {
	var (
		card         domain.WordCard
		state        string
		lastReviewAt sql.NullTime
	)

	err := row.Scan(
		&card.UserID,
		&card.WordID,
		&state,
		&card.Difficulty,
		&card.Stability,
		&card.Retrievability,
		&card.ElapsedDays,
		&card.ScheduledDays,
		&card.LearningStep,
		&card.IsLearningPhase,
		&card.Reps,
		&card.Lapses,
		&lastReviewAt,
		&card.DueAt,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	card.State, err = domain.ParseState(state)
	if err != nil {
		return nil, fmt.Errorf("%w: stored card state: %w", store.ErrInvalidEntity, err)
	}

	if lastReviewAt.Valid {
		t := lastReviewAt.Time
		card.LastReviewAt = &t
	}

	return &card, nil
}

func nullableTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
