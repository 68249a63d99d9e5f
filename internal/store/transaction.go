package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/scry-fsrs/internal/platform/logger"
)

// TxFn is the unit of work run by RunInTransaction. Returning an error rolls
// the transaction back.
type TxFn func(ctx context.Context, tx *sql.Tx) error

// RunInTransaction runs fn in a transaction at the driver's default isolation
// level. Card reviews rely on SELECT ... FOR UPDATE inside fn rather than on a
// stricter isolation level.
func RunInTransaction(ctx context.Context, db TxBeginner, fn TxFn) error {
	return RunInTransactionWithOptions(ctx, db, nil, fn)
}

// RunInTransactionWithOptions runs fn in a transaction started with opts. The
// transaction commits when fn returns nil and rolls back when fn returns an
// error or panics; a panic is re-raised after the rollback.
func RunInTransactionWithOptions(ctx context.Context, db TxBeginner, opts *sql.TxOptions, fn TxFn) error {
	log := logger.FromContext(ctx)

	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		log.Error("failed to begin transaction", slog.String("error", err.Error()))
		return fmt.Errorf("%w: failed to begin transaction: %w", ErrTransactionFailed, err)
	}

	defer func() {
		p := recover()
		if p == nil {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error("failed to roll back transaction after panic",
				slog.String("error", rbErr.Error()),
				slog.Any("panic", p))
		}
		// ALLOW-PANIC: re-raise after the rollback
		panic(p)
	}()

	if err := fn(ctx, tx); err != nil {
		return rollback(tx, log, err)
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit transaction", slog.String("error", err.Error()))
		return fmt.Errorf("%w: failed to commit transaction: %w", ErrTransactionFailed, err)
	}
	return nil
}

// rollback aborts tx after fn failed with cause. cause is returned unchanged
// unless the rollback itself fails.
func rollback(tx *sql.Tx, log *slog.Logger, cause error) error {
	if err := tx.Rollback(); err != nil {
		log.Error("failed to roll back transaction",
			slog.String("rollback_error", err.Error()),
			slog.String("cause", cause.Error()))
		return fmt.Errorf("error rolling back transaction: %v (cause: %w)", err, cause)
	}
	log.Debug("rolled back transaction", slog.String("cause", cause.Error()))
	return cause
}
