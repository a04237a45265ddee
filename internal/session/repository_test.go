package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*PostgresRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPostgresRepository(mock), mock
}

func TestPostgresRepository_Get(t *testing.T) {
	repo, mock := newMockRepo(t)
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	expires := created.Add(time.Hour)

	mock.ExpectQuery(`SELECT data, created_at, expires_at FROM sessions`).
		WithArgs("sid-1").
		WillReturnRows(pgxmock.NewRows([]string{"data", "created_at", "expires_at"}).
			AddRow([]byte(`{"token":"tok","userId":"u1","csrfToken":"c","flashes":[{"kind":"info","message":"hi"}]}`), created, expires))

	s, err := repo.Get(context.Background(), "sid-1")
	require.NoError(t, err)
	assert.Equal(t, "sid-1", s.ID)
	assert.Equal(t, "tok", s.Token)
	assert.Equal(t, "u1", s.UserID)
	assert.Equal(t, created, s.CreatedAt)
	assert.Equal(t, expires, s.ExpiresAt)
	require.Len(t, s.Flashes, 1)
	assert.Equal(t, FlashInfo, s.Flashes[0].Kind)
	assert.False(t, s.IsNew())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_GetNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`SELECT data`).WithArgs("missing").WillReturnError(pgx.ErrNoRows)

	_, err := repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresRepository_GetWrapsErrors(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`SELECT data`).WithArgs("x").WillReturnError(errors.New("conn reset"))

	_, err := repo.Get(context.Background(), "x")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "conn reset")
}

func TestPostgresRepository_Save(t *testing.T) {
	repo, mock := newMockRepo(t)
	s := &Session{ID: "sid-1", UserID: "u1", CSRFToken: "c", CreatedAt: time.Now(), ExpiresAt: time.Now().Add(time.Hour)}

	mock.ExpectExec(`INSERT INTO sessions`).
		WithArgs("sid-1", pgxmock.AnyArg(), pgxmock.AnyArg(), s.CreatedAt, s.ExpiresAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Save(context.Background(), s))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_Delete(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(`DELETE FROM sessions WHERE id`).WithArgs("sid-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, repo.Delete(context.Background(), "sid-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_DeleteExpired(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(`DELETE FROM sessions WHERE expires_at`).
		WillReturnResult(pgxmock.NewResult("DELETE", 4))

	n, err := repo.DeleteExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}
