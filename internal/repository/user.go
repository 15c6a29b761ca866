package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"helios_miniapp/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
)

type User struct {
	TelegramID            int64     `db:"telegram_id"`
	TelegramUsername      string    `db:"telegram_username"`
	FirstName             string    `db:"first_name"`
	LastName              string    `db:"last_name"`
	HeliosUsername        *string   `db:"helios_username"`
	ReferralToken         string    `db:"referral_token"`
	ReferredBy            *int64    `db:"referred_by"`
	Minerate              int       `db:"minerate"`
	ReferralCount         int       `db:"referral_count"`
	TotalAirdrops         float64   `db:"total_airdrops"`
	UnclaimedAirdropTotal float64   `db:"unclaimed_airdrop_total"`
	AirdropClaimCount     int       `db:"airdrop_claim_count"`
	MessageIndex          int       `db:"message_index"`
	AvatarPath            *string   `db:"avatar_path"`
	Timezone              string    `db:"timezone"`
	CreatedAt             time.Time `db:"created_at"`
}

var userColumns = []string{
	"telegram_id",
	"telegram_username",
	"first_name",
	"last_name",
	"helios_username",
	"referral_token",
	"referred_by",
	"minerate",
	"referral_count",
	"total_airdrops",
	"unclaimed_airdrop_total",
	"airdrop_claim_count",
	"message_index",
	"avatar_path",
	"timezone",
	"created_at",
}

type referralStats struct {
	ReferralCount int     `db:"referral_count"`
	Minerate      int     `db:"minerate"`
	TotalAirdrops float64 `db:"total_airdrops"`
}

func (u *User) toModel() *model.User {
	return &model.User{
		TelegramID:            u.TelegramID,
		TelegramUsername:      u.TelegramUsername,
		FirstName:             u.FirstName,
		LastName:              u.LastName,
		HeliosUsername:        u.HeliosUsername,
		ReferralToken:         u.ReferralToken,
		ReferredBy:            u.ReferredBy,
		Minerate:              u.Minerate,
		ReferralCount:         u.ReferralCount,
		TotalAirdrops:         u.TotalAirdrops,
		UnclaimedAirdropTotal: u.UnclaimedAirdropTotal,
		AirdropClaimCount:     u.AirdropClaimCount,
		MessageIndex:          u.MessageIndex,
		AvatarPath:            u.AvatarPath,
		Timezone:              u.Timezone,
		CreatedAt:             u.CreatedAt,
	}
}

// CreateUser inserts the row and refreshes user with the stored values.
func (r *Repository) CreateUser(ctx context.Context, user *model.User) error {
	query, args, err := psql().
		Insert("users").
		SetMap(map[string]interface{}{
			"telegram_id":       user.TelegramID,
			"telegram_username": user.TelegramUsername,
			"first_name":        user.FirstName,
			"last_name":         user.LastName,
			"referral_token":    user.ReferralToken,
			"referred_by":       user.ReferredBy,
			"timezone":          user.Timezone,
		}).
		Suffix("RETURNING " + strings.Join(userColumns, ", ")).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "failed to build user insert query")
	}

	var row User
	err = r.db.GetContext(ctx, &row, query, args...)
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return errors.Wrap(err, "failed to insert user")
	}

	*user = *row.toModel()
	return nil
}

func (r *Repository) GetUserByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	return r.getUser(ctx, squirrel.Eq{"telegram_id": telegramID})
}

func (r *Repository) GetUserByReferralToken(ctx context.Context, token string) (*model.User, error) {
	return r.getUser(ctx, squirrel.Eq{"referral_token": token})
}

func (r *Repository) GetUserByHeliosUsername(ctx context.Context, handle string) (*model.User, error) {
	return r.getUser(ctx, squirrel.Eq{"helios_username": handle})
}

func (r *Repository) getUser(ctx context.Context, where squirrel.Eq) (*model.User, error) {
	query, args, err := psql().
		Select(userColumns...).
		From("users").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build user select query")
	}

	var user User
	err = r.db.GetContext(ctx, &user, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to get user")
	}

	return user.toModel(), nil
}

func (r *Repository) UpdateHeliosUsername(ctx context.Context, telegramID int64, handle string) error {
	err := r.updateUser(ctx, telegramID, map[string]interface{}{"helios_username": handle})
	if err != nil && isDuplicate(err) {
		return ErrDuplicate
	}
	return err
}

func (r *Repository) UpdateAvatarPath(ctx context.Context, telegramID int64, path string) error {
	return r.updateUser(ctx, telegramID, map[string]interface{}{"avatar_path": path})
}

func (r *Repository) GetReferralStats(ctx context.Context, telegramID int64) (*model.ReferralStats, error) {
	query, args, err := psql().
		Select("referral_count", "minerate", "total_airdrops").
		From("users").
		Where(squirrel.Eq{"telegram_id": telegramID}).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build referral stats query")
	}

	var stats referralStats
	err = r.db.GetContext(ctx, &stats, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to get referral stats")
	}

	return &model.ReferralStats{
		ReferralCount: stats.ReferralCount,
		Minerate:      stats.Minerate,
		TotalAirdrops: stats.TotalAirdrops,
	}, nil
}

// SetReferralStats overwrites the counters with values computed by the caller.
func (r *Repository) SetReferralStats(ctx context.Context, telegramID int64, stats *model.ReferralStats) error {
	return r.updateUser(ctx, telegramID, map[string]interface{}{
		"referral_count": stats.ReferralCount,
		"minerate":       stats.Minerate,
		"total_airdrops": stats.TotalAirdrops,
	})
}

// IncrementReferralStats adds delta to the counters in a single statement.
func (r *Repository) IncrementReferralStats(ctx context.Context, telegramID int64, delta *model.ReferralStats) error {
	return r.updateUser(ctx, telegramID, map[string]interface{}{
		"referral_count": squirrel.Expr("referral_count + ?", delta.ReferralCount),
		"minerate":       squirrel.Expr("minerate + ?", delta.Minerate),
		"total_airdrops": squirrel.Expr("total_airdrops + ?", delta.TotalAirdrops),
	})
}

func (r *Repository) updateUser(ctx context.Context, telegramID int64, set map[string]interface{}) error {
	query, args, err := psql().
		Update("users").
		SetMap(set).
		Where(squirrel.Eq{"telegram_id": telegramID}).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "failed to build user update query")
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isDuplicate(err) {
			return err
		}
		return errors.Wrap(err, "failed to update user")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to read affected rows")
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}
