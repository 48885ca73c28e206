package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/scrapegate/internal/logger"
	"github.com/MKhiriev/scrapegate/models"
	"github.com/jackc/pgerrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUserRepo(t *testing.T) (*userRepository, sqlmock.Sqlmock) {
	db, mock := newMockDB(t)
	return &userRepository{db: db, logger: logger.Nop()}, mock
}

func TestUserRepository_Create(t *testing.T) {
	user := models.User{
		Email:            "a@x.io",
		RegistrationDate: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Tier:             models.TierFree,
		KnownIPs:         []string{"1.1.1.1", "2.2.2.2"},
		Status:           models.UserStatusActive,
	}

	tests := []struct {
		name    string
		execErr error
		wantErr error
	}{
		{name: "success"},
		{name: "duplicate email", execErr: pgError(pgerrcode.UniqueViolation), wantErr: ErrUserAlreadyExists},
		{name: "connection lost", execErr: pgError(pgerrcode.ConnectionFailure), wantErr: ErrUnavailable},
		{name: "syntax error", execErr: pgError(pgerrcode.SyntaxError), wantErr: ErrExecutingStatement},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newTestUserRepo(t)

			exp := mock.ExpectExec("INSERT INTO users").
				WithArgs(user.Email, sqlmock.AnyArg(), "free", "1.1.1.1,2.2.2.2", sqlmock.AnyArg(), 0, 0, 0, "active", "", sqlmock.AnyArg())
			if tt.execErr != nil {
				exp.WillReturnError(tt.execErr)
			} else {
				exp.WillReturnResult(sqlmock.NewResult(0, 1))
			}

			err := repo.Create(context.Background(), user)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUserRepository_UniqueViolationIsNotUnavailable(t *testing.T) {
	repo, mock := newTestUserRepo(t)
	mock.ExpectExec("INSERT INTO users").WillReturnError(pgError(pgerrcode.UniqueViolation))

	err := repo.Create(context.Background(), models.User{Email: "a@x.io"})
	assert.False(t, errors.Is(err, ErrUnavailable))
}

func TestUserRepository_Get(t *testing.T) {
	repo, mock := newTestUserRepo(t)
	reg := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	login := reg.Add(time.Hour)

	rows := sqlmock.NewRows(userColumns).
		AddRow("a@x.io", reg, "pro", "1.1.1.1", login, 4, 40, 1, "active", "vip", nil)
	mock.ExpectQuery(`SELECT (.+) FROM users WHERE email = \$1`).
		WithArgs("a@x.io").
		WillReturnRows(rows)

	user, err := repo.Get(context.Background(), "a@x.io")
	require.NoError(t, err)
	assert.Equal(t, models.TierPro, user.Tier)
	assert.Equal(t, []string{"1.1.1.1"}, user.KnownIPs)
	assert.Equal(t, login, user.LastLogin)
	assert.True(t, user.LastRequestAt.IsZero())
	assert.Equal(t, 4, user.RequestsToday)
	assert.Equal(t, 40, user.RequestsTotal)
	assert.Equal(t, "vip", user.Notes)
}

func TestUserRepository_Get_NotFound(t *testing.T) {
	repo, mock := newTestUserRepo(t)
	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("ghost@x.io").
		WillReturnRows(sqlmock.NewRows(userColumns))

	_, err := repo.Get(context.Background(), "ghost@x.io")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepository_Get_Deadline(t *testing.T) {
	repo, mock := newTestUserRepo(t)
	mock.ExpectQuery("SELECT (.+) FROM users").WillReturnError(context.DeadlineExceeded)

	_, err := repo.Get(context.Background(), "a@x.io")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestUserRepository_Update(t *testing.T) {
	t.Run("updated", func(t *testing.T) {
		repo, mock := newTestUserRepo(t)
		mock.ExpectExec("UPDATE users SET").WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Update(context.Background(), models.User{Email: "a@x.io"}))
	})

	t.Run("missing row", func(t *testing.T) {
		repo, mock := newTestUserRepo(t)
		mock.ExpectExec("UPDATE users SET").WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Update(context.Background(), models.User{Email: "a@x.io"}), ErrUserNotFound)
	})
}

func TestUserRepository_List(t *testing.T) {
	repo, mock := newTestUserRepo(t)
	now := time.Now().UTC()

	rows := sqlmock.NewRows(userColumns).
		AddRow("a@x.io", now, "free", "", nil, 0, 0, 0, "active", "", nil).
		AddRow("b@x.io", now, "advanced", "", nil, 0, 0, 0, "active", "", nil)
	mock.ExpectQuery("SELECT (.+) FROM users ORDER BY email").WillReturnRows(rows)

	users, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, models.TierAdvanced, users[1].Tier)
	assert.Empty(t, users[0].KnownIPs)
}
