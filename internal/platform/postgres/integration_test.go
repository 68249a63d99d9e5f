package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-fsrs/internal/domain"
	"github.com/phrazzld/scry-fsrs/internal/domain/fsrs"
	"github.com/phrazzld/scry-fsrs/internal/platform/postgres"
	"github.com/phrazzld/scry-fsrs/internal/store"
	"github.com/phrazzld/scry-fsrs/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardStateStoreRoundTrip(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		cards := postgres.NewPostgresCardStateStore(db, nil).WithTx(tx)
		logs := postgres.NewPostgresReviewLogStore(db, nil).WithTx(tx)

		now := time.Now().UTC().Truncate(time.Microsecond)
		card, err := domain.NewWordCard(uuid.New(), uuid.New(), now)
		require.NoError(t, err)
		require.NoError(t, cards.Create(ctx, card))

		reviewed, err := fsrs.NewDefaultService().CalculateNextReview(card, domain.RatingEasy, now)
		require.NoError(t, err)
		require.NoError(t, cards.Update(ctx, reviewed))
		require.NoError(t, logs.Create(ctx, domain.NewReviewLog(card, reviewed, domain.RatingEasy, now)))

		loaded, err := cards.GetForUpdate(ctx, card.UserID, card.WordID)
		require.NoError(t, err)
		assert.Equal(t, domain.StateReview, loaded.State)
		assert.InDelta(t, reviewed.Stability, loaded.Stability, 1e-9)
		assert.True(t, reviewed.DueAt.Equal(loaded.DueAt))
		require.NotNil(t, loaded.LastReviewAt)
		assert.True(t, now.Equal(*loaded.LastReviewAt))

		count, err := logs.CountNewIntroducedSince(ctx, card.UserID, now.Add(-time.Minute))
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		history, err := logs.ListByCard(ctx, card.UserID, card.WordID, 10)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, domain.RatingEasy, history[0].Rating)

		due, err := cards.ListDue(ctx, card.UserID, reviewed.DueAt, 10)
		require.NoError(t, err)
		assert.Len(t, due, 1)

		require.NoError(t, cards.Delete(ctx, card.UserID, card.WordID))
		_, err = cards.Get(ctx, card.UserID, card.WordID)
		assert.ErrorIs(t, err, store.ErrCardStateNotFound)

		history, err = logs.ListByCard(ctx, card.UserID, card.WordID, 10)
		require.NoError(t, err)
		assert.Empty(t, history, "logs cascade with their card")
	})
}

func TestCardStateStoreCreateDuplicate(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		cards := postgres.NewPostgresCardStateStore(db, nil).WithTx(tx)

		card, err := domain.NewWordCard(uuid.New(), uuid.New(), time.Now().UTC())
		require.NoError(t, err)
		require.NoError(t, cards.Create(ctx, card))

		// the failed insert aborts the transaction, so this must be the last statement
		assert.ErrorIs(t, cards.Create(ctx, card), store.ErrCardStateExists)
	})
}

func TestReviewLogRequiresCard(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		logs := postgres.NewPostgresReviewLogStore(db, nil).WithTx(tx)
		entry := &domain.ReviewLog{
			ID:          uuid.New(),
			UserID:      uuid.New(),
			WordID:      uuid.New(),
			Rating:      domain.RatingGood,
			StateBefore: domain.StateNew,
			StateAfter:  domain.StateLearning,
			ReviewedAt:  time.Now().UTC(),
		}

		err := logs.Create(context.Background(), entry)
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})
}

func TestMigrationVersion(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	version, err := postgres.MigrationVersion(context.Background(), db, nil)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, version, int64(20250401000002))
}
