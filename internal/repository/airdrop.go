package repository

import (
	"context"
	"database/sql"
	"time"

	"helios_miniapp/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
)

type Airdrop struct {
	ID         int64     `db:"id"`
	TelegramID int64     `db:"telegram_id"`
	Value      float64   `db:"value"`
	CreatedAt  time.Time `db:"created_at"`
}

func (r *Repository) ListAirdrops(ctx context.Context, telegramID int64) ([]*model.Airdrop, error) {
	query, args, err := psql().
		Select("id", "telegram_id", "value", "created_at").
		From("airdrops").
		Where(squirrel.Eq{"telegram_id": telegramID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build airdrop list query")
	}

	var rows []*Airdrop
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list airdrops")
	}

	out := make([]*model.Airdrop, len(rows))
	for i, row := range rows {
		out[i] = &model.Airdrop{
			ID:         row.ID,
			TelegramID: row.TelegramID,
			Value:      row.Value,
			CreatedAt:  row.CreatedAt,
		}
	}

	return out, nil
}

func (r *Repository) SumAirdrops(ctx context.Context, telegramID int64) (float64, error) {
	query, args, err := psql().
		Select("COALESCE(SUM(value), 0)").
		From("airdrops").
		Where(squirrel.Eq{"telegram_id": telegramID}).
		ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "failed to build airdrop sum query")
	}

	var sum float64
	err = r.db.GetContext(ctx, &sum, query, args...)
	if err != nil {
		return 0, errors.Wrap(err, "failed to sum airdrops")
	}

	return sum, nil
}

func (r *Repository) DeleteAirdrops(ctx context.Context, telegramID int64) error {
	query, args, err := psql().
		Delete("airdrops").
		Where(squirrel.Eq{"telegram_id": telegramID}).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "failed to build airdrop delete query")
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "failed to delete airdrops")
	}

	return nil
}

// ResetAirdropCounters zeroes the cached claim counters. A missing user row is not an error.
func (r *Repository) ResetAirdropCounters(ctx context.Context, telegramID int64) error {
	err := r.updateUser(ctx, telegramID, map[string]interface{}{
		"airdrop_claim_count":     0,
		"unclaimed_airdrop_total": 0,
		"message_index":           0,
	})
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

func (r *Repository) GetTotalAirdrops(ctx context.Context, telegramID int64) (float64, error) {
	return r.getUserFloat(ctx, telegramID, "total_airdrops")
}

func (r *Repository) GetAirdropClaimCount(ctx context.Context, telegramID int64) (int, error) {
	count, err := r.getUserFloat(ctx, telegramID, "airdrop_claim_count")
	return int(count), err
}

func (r *Repository) SetTotalAirdrops(ctx context.Context, telegramID int64, total float64) error {
	return r.updateUser(ctx, telegramID, map[string]interface{}{"total_airdrops": total})
}

// AddTotalAirdrops increments the cached total in one statement and returns the stored result.
func (r *Repository) AddTotalAirdrops(ctx context.Context, telegramID int64, delta float64) (float64, error) {
	query, args, err := psql().
		Update("users").
		Set("total_airdrops", squirrel.Expr("total_airdrops + ?", delta)).
		Where(squirrel.Eq{"telegram_id": telegramID}).
		Suffix("RETURNING total_airdrops").
		ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "failed to build total airdrops increment query")
	}

	var total float64
	err = r.db.GetContext(ctx, &total, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, errors.Wrap(err, "failed to increment total airdrops")
	}

	return total, nil
}

func (r *Repository) getUserFloat(ctx context.Context, telegramID int64, column string) (float64, error) {
	query, args, err := psql().
		Select(column).
		From("users").
		Where(squirrel.Eq{"telegram_id": telegramID}).
		ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "failed to build user column query")
	}

	var value float64
	err = r.db.GetContext(ctx, &value, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, errors.Wrapf(err, "failed to get %s", column)
	}

	return value, nil
}
