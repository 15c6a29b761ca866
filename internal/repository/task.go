package repository

import (
	"context"
	"database/sql"
	"time"

	"helios_miniapp/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
)

type TaskRecord struct {
	TelegramID  int64      `db:"telegram_id"`
	TaskID      string     `db:"task_id"`
	Completed   bool       `db:"completed"`
	Claimed     bool       `db:"claimed"`
	CompletedAt *time.Time `db:"completed_at"`
}

func (t *TaskRecord) toModel() *model.TaskRecord {
	return &model.TaskRecord{
		TelegramID:  t.TelegramID,
		TaskID:      t.TaskID,
		Completed:   t.Completed,
		Claimed:     t.Claimed,
		CompletedAt: t.CompletedAt,
	}
}

func (r *Repository) GetTaskRecord(ctx context.Context, telegramID int64, taskID string) (*model.TaskRecord, error) {
	query, args, err := psql().
		Select("telegram_id", "task_id", "completed", "claimed", "completed_at").
		From("user_tasks").
		Where(squirrel.Eq{"telegram_id": telegramID, "task_id": taskID}).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build task select query")
	}

	var rec TaskRecord
	err = r.db.GetContext(ctx, &rec, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to get task record")
	}

	return rec.toModel(), nil
}

func (r *Repository) ListTaskRecords(ctx context.Context, telegramID int64) ([]*model.TaskRecord, error) {
	query, args, err := psql().
		Select("telegram_id", "task_id", "completed", "claimed", "completed_at").
		From("user_tasks").
		Where(squirrel.Eq{"telegram_id": telegramID}).
		OrderBy("task_id").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build task list query")
	}

	var rows []*TaskRecord
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list task records")
	}

	out := make([]*model.TaskRecord, len(rows))
	for i, row := range rows {
		out[i] = row.toModel()
	}

	return out, nil
}

func (r *Repository) InsertTaskRecord(ctx context.Context, rec *model.TaskRecord) error {
	query, args, err := psql().
		Insert("user_tasks").
		SetMap(map[string]interface{}{
			"telegram_id":  rec.TelegramID,
			"task_id":      rec.TaskID,
			"completed":    rec.Completed,
			"claimed":      rec.Claimed,
			"completed_at": rec.CompletedAt,
		}).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "failed to build task insert query")
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return errors.Wrap(err, "failed to insert task record")
	}

	return nil
}

// MarkTaskClaimed sets only the claimed flag; completed is left as stored.
func (r *Repository) MarkTaskClaimed(ctx context.Context, telegramID int64, taskID string) error {
	query, args, err := psql().
		Update("user_tasks").
		Set("claimed", true).
		Where(squirrel.Eq{"telegram_id": telegramID, "task_id": taskID}).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "failed to build task claim query")
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "failed to mark task claimed")
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
