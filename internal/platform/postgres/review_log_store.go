package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-fsrs/internal/domain"
	"github.com/phrazzld/scry-fsrs/internal/platform/logger"
	"github.com/phrazzld/scry-fsrs/internal/store"
)

const reviewLogColumns = `id, user_id, word_id, rating, state_before, state_after,
	difficulty_before, difficulty_after, stability_before, stability_after,
	retrievability, elapsed_days, scheduled_days, reviewed_at`

// PostgresReviewLogStore implements the store.ReviewLogStore interface
// using a PostgreSQL database as the storage backend.
type PostgresReviewLogStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresReviewLogStore creates a new PostgreSQL implementation of the ReviewLogStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresReviewLogStore(db store.DBTX, logger *slog.Logger) *PostgresReviewLogStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresReviewLogStore{
		db:     db,
		logger: logger.With(slog.String("component", "review_log_store")),
	}
}

// Ensure PostgresReviewLogStore implements store.ReviewLogStore interface
var _ store.ReviewLogStore = (*PostgresReviewLogStore)(nil)

// WithTx implements store.ReviewLogStore.WithTx
func (s *PostgresReviewLogStore) WithTx(tx *sql.Tx) store.ReviewLogStore {
	return &PostgresReviewLogStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.ReviewLogStore.Create
func (s *PostgresReviewLogStore) Create(ctx context.Context, entry *domain.ReviewLog) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !entry.Rating.IsValid() {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, domain.ErrInvalidRating)
	}

	query := `INSERT INTO review_logs (` + reviewLogColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := s.db.ExecContext(ctx, query,
		entry.ID,
		entry.UserID,
		entry.WordID,
		int(entry.Rating),
		string(entry.StateBefore),
		string(entry.StateAfter),
		entry.DifficultyBefore,
		entry.DifficultyAfter,
		entry.StabilityBefore,
		entry.StabilityAfter,
		entry.Retrievability,
		entry.ElapsedDays,
		entry.ScheduledDays,
		entry.ReviewedAt.UTC(),
	)
	if err != nil {
		log.Error("failed to insert review log",
			slog.String("log_id", entry.ID.String()),
			slog.String("user_id", entry.UserID.String()),
			slog.String("word_id", entry.WordID.String()),
			slog.String("error", err.Error()))
		return MapError(err)
	}

	return nil
}

// ListByCard implements store.ReviewLogStore.ListByCard
func (s *PostgresReviewLogStore) ListByCard(
	ctx context.Context,
	userID, wordID uuid.UUID,
	limit int,
) ([]*domain.ReviewLog, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + reviewLogColumns + `
		FROM review_logs
		WHERE user_id = $1 AND word_id = $2
		ORDER BY reviewed_at DESC, id ASC
		LIMIT $3`

	rows, err := s.db.QueryContext(ctx, query, userID, wordID, limit)
	if err != nil {
		log.Error("failed to query review logs",
			slog.String("user_id", userID.String()),
			slog.String("word_id", wordID.String()),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	logs := make([]*domain.ReviewLog, 0)
	for rows.Next() {
		var (
			entry       domain.ReviewLog
			rating      int
			stateBefore string
			stateAfter  string
		)
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.WordID,
			&rating,
			&stateBefore,
			&stateAfter,
			&entry.DifficultyBefore,
			&entry.DifficultyAfter,
			&entry.StabilityBefore,
			&entry.StabilityAfter,
			&entry.Retrievability,
			&entry.ElapsedDays,
			&entry.ScheduledDays,
			&entry.ReviewedAt,
		); err != nil {
			log.Error("failed to scan review log row", slog.String("error", err.Error()))
			return nil, err
		}

		entry.Rating = domain.Rating(rating)
		if entry.StateBefore, err = domain.ParseState(stateBefore); err != nil {
			return nil, fmt.Errorf("%w: stored review log: %w", store.ErrInvalidEntity, err)
		}
		if entry.StateAfter, err = domain.ParseState(stateAfter); err != nil {
			return nil, fmt.Errorf("%w: stored review log: %w", store.ErrInvalidEntity, err)
		}

		logs = append(logs, &entry)
	}

	if err := rows.Err(); err != nil {
		log.Error("error iterating review log rows", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return logs, nil
}

// CountNewIntroducedSince implements store.ReviewLogStore.CountNewIntroducedSince
func (s *PostgresReviewLogStore) CountNewIntroducedSince(
	ctx context.Context,
	userID uuid.UUID,
	since time.Time,
) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT COUNT(*)
		FROM review_logs
		WHERE user_id = $1 AND state_before = 'new' AND reviewed_at >= $2`

	var count int
	if err := s.db.QueryRowContext(ctx, query, userID, since.UTC()).Scan(&count); err != nil {
		log.Error("failed to count introduced cards",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return 0, MapError(err)
	}

	return count, nil
}
