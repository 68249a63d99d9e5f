package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/scry-fsrs/internal/domain"
	"github.com/phrazzld/scry-fsrs/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testNow     = time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	cardColumns = []string{
		"user_id", "word_id", "state", "difficulty", "stability", "retrievability",
		"elapsed_days", "scheduled_days", "learning_step", "is_learning_phase", "reps", "lapses",
		"last_review_at", "due_at", "created_at", "updated_at",
	}
)

func newMockCardStore(t *testing.T) (*PostgresCardStateStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresCardStateStore(db, nil), mock
}

func reviewRow(userID, wordID uuid.UUID) []driver.Value {
	last := testNow.AddDate(0, 0, -10)
	return []driver.Value{
		userID.String(), wordID.String(), "review", 5.5, 10.0, 0.9,
		10.0, 10.0, int64(0), false, int64(4), int64(1),
		last, testNow, testNow.AddDate(0, -1, 0), last,
	}
}

func TestNewPostgresCardStateStorePanicsOnNilDB(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { NewPostgresCardStateStore(nil, nil) })
}

func TestCardStateStoreCreate(t *testing.T) {
	t.Parallel()
	s, mock := newMockCardStore(t)
	card, err := domain.NewWordCard(uuid.New(), uuid.New(), testNow)
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO card_states").
		WithArgs(card.UserID, card.WordID, "new", 0.0, 0.0, 0.0, 0.0, 0.0, 0, true, 0, 0,
			sql.NullTime{}, testNow, testNow, testNow).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Create(context.Background(), card))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCardStateStoreCreateDuplicate(t *testing.T) {
	t.Parallel()
	s, mock := newMockCardStore(t)
	card, err := domain.NewWordCard(uuid.New(), uuid.New(), testNow)
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO card_states").
		WillReturnError(&pgconn.PgError{Code: uniqueViolationCode})

	err = s.Create(context.Background(), card)
	assert.ErrorIs(t, err, store.ErrCardStateExists)
	assert.True(t, store.IsDuplicateError(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCardStateStoreCreateInvalid(t *testing.T) {
	t.Parallel()
	s, mock := newMockCardStore(t)
	card := &domain.WordCard{WordID: uuid.New(), CardState: domain.NewCardState(testNow)}

	err := s.Create(context.Background(), card)
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
	assert.ErrorIs(t, err, domain.ErrEmptyCardUserID)
	assert.NoError(t, mock.ExpectationsWereMet(), "no query for an invalid card")
}

func TestCardStateStoreGet(t *testing.T) {
	t.Parallel()
	s, mock := newMockCardStore(t)
	userID, wordID := uuid.New(), uuid.New()

	mock.ExpectQuery("SELECT .* FROM card_states WHERE user_id = \\$1 AND word_id = \\$2").
		WithArgs(userID, wordID).
		WillReturnRows(sqlmock.NewRows(cardColumns).AddRow(reviewRow(userID, wordID)...))

	card, err := s.Get(context.Background(), userID, wordID)
	require.NoError(t, err)

	assert.Equal(t, userID, card.UserID)
	assert.Equal(t, wordID, card.WordID)
	assert.Equal(t, domain.StateReview, card.State)
	assert.Equal(t, 5.5, card.Difficulty)
	assert.Equal(t, 10.0, card.Stability)
	assert.Equal(t, 4, card.Reps)
	assert.Equal(t, 1, card.Lapses)
	require.NotNil(t, card.LastReviewAt)
	assert.Equal(t, testNow.AddDate(0, 0, -10), *card.LastReviewAt)
	assert.Equal(t, testNow, card.DueAt)
	assert.NoError(t, card.Validate())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCardStateStoreGetNotFound(t *testing.T) {
	t.Parallel()
	s, mock := newMockCardStore(t)

	mock.ExpectQuery("FROM card_states").WillReturnRows(sqlmock.NewRows(cardColumns))

	card, err := s.Get(context.Background(), uuid.New(), uuid.New())
	assert.Nil(t, card)
	assert.ErrorIs(t, err, store.ErrCardStateNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCardStateStoreGetRejectsUnknownState(t *testing.T) {
	t.Parallel()
	s, mock := newMockCardStore(t)
	userID, wordID := uuid.New(), uuid.New()
	row := reviewRow(userID, wordID)
	row[2] = "suspended"

	mock.ExpectQuery("FROM card_states").WillReturnRows(sqlmock.NewRows(cardColumns).AddRow(row...))

	_, err := s.Get(context.Background(), userID, wordID)
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestCardStateStoreGetForUpdateInTransaction(t *testing.T) {
	t.Parallel()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	s := NewPostgresCardStateStore(db, nil)
	userID, wordID := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM card_states .* FOR UPDATE").
		WithArgs(userID, wordID).
		WillReturnRows(sqlmock.NewRows(cardColumns).AddRow(reviewRow(userID, wordID)...))
	mock.ExpectCommit()

	err = store.RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
		card, err := s.WithTx(tx).GetForUpdate(ctx, userID, wordID)
		if err != nil {
			return err
		}
		assert.Equal(t, domain.StateReview, card.State)
		return nil
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCardStateStoreUpdate(t *testing.T) {
	t.Parallel()
	s, mock := newMockCardStore(t)
	card, err := domain.NewWordCard(uuid.New(), uuid.New(), testNow)
	require.NoError(t, err)

	mock.ExpectExec("UPDATE card_states SET").WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, s.Update(context.Background(), card))

	mock.ExpectExec("UPDATE card_states SET").WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, s.Update(context.Background(), card), store.ErrCardStateNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCardStateStoreDelete(t *testing.T) {
	t.Parallel()
	s, mock := newMockCardStore(t)
	userID, wordID := uuid.New(), uuid.New()

	mock.ExpectExec("DELETE FROM card_states").
		WithArgs(userID, wordID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, s.Delete(context.Background(), userID, wordID))

	mock.ExpectExec("DELETE FROM card_states").WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, s.Delete(context.Background(), userID, wordID), store.ErrCardStateNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCardStateStoreListDue(t *testing.T) {
	t.Parallel()
	s, mock := newMockCardStore(t)
	userID := uuid.New()

	mock.ExpectQuery("FROM card_states WHERE user_id = \\$1 AND state <> 'new' AND due_at <= \\$2").
		WithArgs(userID, testNow, 10).
		WillReturnRows(sqlmock.NewRows(cardColumns).
			AddRow(reviewRow(userID, uuid.New())...).
			AddRow(reviewRow(userID, uuid.New())...))

	cards, err := s.ListDue(context.Background(), userID, testNow, 10)
	require.NoError(t, err)
	assert.Len(t, cards, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCardStateStoreListNew(t *testing.T) {
	t.Parallel()
	s, mock := newMockCardStore(t)
	userID, wordID := uuid.New(), uuid.New()

	mock.ExpectQuery("FROM card_states WHERE user_id = \\$1 AND state = 'new'").
		WithArgs(userID, 5).
		WillReturnRows(sqlmock.NewRows(cardColumns).AddRow(
			userID.String(), wordID.String(), "new", 0.0, 0.0, 0.0,
			0.0, 0.0, int64(0), true, int64(0), int64(0),
			nil, testNow, testNow, testNow,
		))

	cards, err := s.ListNew(context.Background(), userID, 5)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, domain.StateNew, cards[0].State)
	assert.Nil(t, cards[0].LastReviewAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}
