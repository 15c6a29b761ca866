package repository

import (
	"context"
	"time"

	"helios_miniapp/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
)

type Referral struct {
	ID                     int64     `db:"id"`
	ReferrerTelegramID     int64     `db:"referrer_telegram_id"`
	ReferredUserTelegramID int64     `db:"referred_user_telegram_id"`
	ReferredUsername       string    `db:"referred_username"`
	Timestamp              time.Time `db:"timestamp"`
}

func (r *Repository) CreateReferral(ctx context.Context, ref *model.Referral) error {
	query, args, err := psql().
		Insert("referrals").
		Columns("referrer_telegram_id", "referred_user_telegram_id", "referred_username", `"timestamp"`).
		Values(ref.ReferrerTelegramID, ref.ReferredUserTelegramID, ref.ReferredUsername, ref.Timestamp).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return errors.Wrap(err, "failed to build referral insert query")
	}

	err = r.db.QueryRowxContext(ctx, query, args...).Scan(&ref.ID)
	if err != nil {
		return errors.Wrap(err, "failed to insert referral")
	}

	return nil
}

func (r *Repository) GetReferralsByReferrer(ctx context.Context, referrerID int64) ([]*model.Referral, error) {
	query, args, err := psql().
		Select("id", "referrer_telegram_id", "referred_user_telegram_id", "referred_username", `"timestamp"`).
		From("referrals").
		Where(squirrel.Eq{"referrer_telegram_id": referrerID}).
		OrderBy(`"timestamp" DESC`).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build referrals select query")
	}

	var rows []*Referral
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get referrals")
	}

	refs := make([]*model.Referral, len(rows))
	for i, row := range rows {
		refs[i] = &model.Referral{
			ID:                     row.ID,
			ReferrerTelegramID:     row.ReferrerTelegramID,
			ReferredUserTelegramID: row.ReferredUserTelegramID,
			ReferredUsername:       row.ReferredUsername,
			Timestamp:              row.Timestamp,
		}
	}

	return refs, nil
}
