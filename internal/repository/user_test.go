package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"helios_miniapp/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var createdAt = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func userRows() *sqlmock.Rows {
	return sqlmock.NewRows(userColumns)
}

func TestRepository_CreateUser(t *testing.T) {
	repo, mock := newMockRepository(t)

	referrer := int64(7)
	mock.ExpectQuery(`INSERT INTO users .* RETURNING telegram_id, telegram_username`).
		WithArgs("Ada", "Lovelace", "ref_abc", &referrer, int64(42), "ada", "Europe/London").
		WillReturnRows(userRows().AddRow(
			int64(42), "ada", "Ada", "Lovelace", nil, "ref_abc", int64(7),
			0, 0, 0.0, 0.0, 0, 0, nil, "Europe/London", createdAt))

	user := &model.User{
		TelegramID:       42,
		TelegramUsername: "ada",
		FirstName:        "Ada",
		LastName:         "Lovelace",
		ReferralToken:    "ref_abc",
		ReferredBy:       &referrer,
		Timezone:         "Europe/London",
	}
	err := repo.CreateUser(context.Background(), user)
	require.NoError(t, err)

	assert.Equal(t, createdAt, user.CreatedAt)
	require.NotNil(t, user.ReferredBy)
	assert.Equal(t, int64(7), *user.ReferredBy)
	assert.Nil(t, user.HeliosUsername)
}

func TestRepository_CreateUser_Duplicate(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(&pgconn.PgError{Code: uniqueViolation})

	err := repo.CreateUser(context.Background(), &model.User{TelegramID: 42, Timezone: "UTC"})
	assert.True(t, errors.Is(err, ErrDuplicate))
}

func TestRepository_GetUserByTelegramID(t *testing.T) {
	repo, mock := newMockRepository(t)

	handle := "sunny"
	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE telegram_id = $1 LIMIT 1`)).
		WithArgs(int64(42)).
		WillReturnRows(userRows().AddRow(
			int64(42), "ada", "Ada", "", handle, "ref_abc", nil,
			20, 2, 300.0, 0.0, 1, 0, "avatars/1.png", "UTC", createdAt))

	user, err := repo.GetUserByTelegramID(context.Background(), 42)
	require.NoError(t, err)

	require.NotNil(t, user.HeliosUsername)
	assert.Equal(t, "sunny", *user.HeliosUsername)
	assert.Nil(t, user.ReferredBy)
	assert.Equal(t, 20, user.Minerate)
	assert.Equal(t, 2, user.ReferralCount)
	assert.Equal(t, 300.0, user.TotalAirdrops)
	assert.Equal(t, 1, user.AirdropClaimCount)
	require.NotNil(t, user.AvatarPath)
	assert.Equal(t, "avatars/1.png", *user.AvatarPath)
}

func TestRepository_GetUser_NotFound(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE referral_token = $1`)).
		WithArgs("ref_missing").
		WillReturnRows(userRows())
	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE helios_username = $1`)).
		WithArgs("ghost").
		WillReturnRows(userRows())

	_, err := repo.GetUserByReferralToken(context.Background(), "ref_missing")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = repo.GetUserByHeliosUsername(context.Background(), "ghost")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRepository_UpdateHeliosUsername(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "updated",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET helios_username = $1 WHERE telegram_id = $2`)).
					WithArgs("sunny", int64(42)).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "unknown user",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE users SET helios_username`).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: ErrNotFound,
		},
		{
			name: "taken",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE users SET helios_username`).
					WillReturnError(&pgconn.PgError{Code: uniqueViolation})
			},
			wantErr: ErrDuplicate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepository(t)
			tt.setup(mock)

			err := repo.UpdateHeliosUsername(context.Background(), 42, "sunny")
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestRepository_ReferralStats(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT referral_count, minerate, total_airdrops FROM users WHERE telegram_id = $1`)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"referral_count", "minerate", "total_airdrops"}).AddRow(1, 10, 100.0))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET minerate = $1, referral_count = $2, total_airdrops = $3 WHERE telegram_id = $4`)).
		WithArgs(20, 2, 200.0, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	stats, err := repo.GetReferralStats(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, &model.ReferralStats{ReferralCount: 1, Minerate: 10, TotalAirdrops: 100}, stats)

	err = repo.SetReferralStats(context.Background(), 7, &model.ReferralStats{ReferralCount: 2, Minerate: 20, TotalAirdrops: 200})
	require.NoError(t, err)
}

func TestRepository_IncrementReferralStats(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec(regexp.QuoteMeta(
		`UPDATE users SET minerate = minerate + $1, referral_count = referral_count + $2, total_airdrops = total_airdrops + $3 WHERE telegram_id = $4`)).
		WithArgs(10, 1, 100.0, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.IncrementReferralStats(context.Background(), 7, &model.ReferralStats{ReferralCount: 1, Minerate: 10, TotalAirdrops: 100})
	require.NoError(t, err)
}
