package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"helios_miniapp/internal/model"
	"helios_miniapp/internal/repository"
)

type TaskService struct {
	repo TaskRepository
	now  func() time.Time
}

func NewTaskService(repo TaskRepository) *TaskService {
	return &TaskService{
		repo: repo,
		now:  time.Now,
	}
}

// CompleteTask records a first completion. A record that is already completed is left untouched.
func (s *TaskService) CompleteTask(ctx context.Context, telegramID int64, taskID string) error {
	if taskID == "" {
		return fmt.Errorf("%w: taskId is required", ErrInvalidInput)
	}

	existing, err := s.repo.GetTaskRecord(ctx, telegramID, taskID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to fetch task status: %w", err)
	}
	if existing != nil && existing.Completed {
		return ErrTaskAlreadyCompleted
	}

	completedAt := s.now().UTC()
	err = s.repo.InsertTaskRecord(ctx, &model.TaskRecord{
		TelegramID:  telegramID,
		TaskID:      taskID,
		Completed:   true,
		CompletedAt: &completedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to insert task completion: %w", err)
	}

	return nil
}

func (s *TaskService) GetTaskStatus(ctx context.Context, telegramID int64, taskID string) (*model.TaskStatus, error) {
	rec, err := s.repo.GetTaskRecord(ctx, telegramID, taskID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch task status: %w", err)
	}

	return &model.TaskStatus{
		TaskID:    rec.TaskID,
		Completed: rec.Completed,
		Claimed:   rec.Claimed,
	}, nil
}

// GetAllTaskStatuses reports ErrNoTasks rather than an empty list when the user has no records.
func (s *TaskService) GetAllTaskStatuses(ctx context.Context, telegramID int64) ([]*model.TaskStatus, error) {
	recs, err := s.repo.ListTaskRecords(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch task statuses: %w", err)
	}
	if len(recs) == 0 {
		return nil, ErrNoTasks
	}

	out := make([]*model.TaskStatus, len(recs))
	for i, rec := range recs {
		out[i] = &model.TaskStatus{
			TaskID:    rec.TaskID,
			Completed: rec.Completed,
			Claimed:   rec.Claimed,
		}
	}

	return out, nil
}

// markClaimed flips claimed on an existing record, or inserts one with both flags set.
func markClaimed(ctx context.Context, repo TaskRepository, telegramID int64, taskID string, now time.Time) error {
	_, err := repo.GetTaskRecord(ctx, telegramID, taskID)
	switch {
	case err == nil:
		if err := repo.MarkTaskClaimed(ctx, telegramID, taskID); err != nil {
			return fmt.Errorf("failed to update claimed status: %w", err)
		}
		return nil
	case !errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("failed to fetch task status: %w", err)
	}

	completedAt := now.UTC()
	err = repo.InsertTaskRecord(ctx, &model.TaskRecord{
		TelegramID:  telegramID,
		TaskID:      taskID,
		Completed:   true,
		Claimed:     true,
		CompletedAt: &completedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to insert task completion: %w", err)
	}
	return nil
}
