package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"helios_miniapp/internal/model"
	"helios_miniapp/internal/repository"
)

type AirdropService struct {
	repo AirdropRepository
	opts LedgerOptions
	now  func() time.Time
}

func NewAirdropService(repo AirdropRepository, opts LedgerOptions) *AirdropService {
	return &AirdropService{
		repo: repo,
		opts: opts,
		now:  time.Now,
	}
}

func (s *AirdropService) ListAirdrops(ctx context.Context, telegramID int64) ([]*model.Airdrop, error) {
	airdrops, err := s.repo.ListAirdrops(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch airdrops: %w", err)
	}
	return airdrops, nil
}

func (s *AirdropService) SumAirdrops(ctx context.Context, telegramID int64) (float64, error) {
	sum, err := s.repo.SumAirdrops(ctx, telegramID)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch airdrop values: %w", err)
	}
	return sum, nil
}

// SumAndPersist adds the sum of the user's airdrop records to the cached total on the user row.
func (s *AirdropService) SumAndPersist(ctx context.Context, telegramID int64) (*model.AirdropSum, error) {
	sum, err := s.SumAirdrops(ctx, telegramID)
	if err != nil {
		return nil, err
	}

	total, err := s.addToTotal(ctx, telegramID, sum)
	if err != nil {
		return nil, err
	}

	return &model.AirdropSum{
		TotalValue:       sum,
		NewTotalAirdrops: total,
	}, nil
}

func (s *AirdropService) GetTotalAirdrops(ctx context.Context, telegramID int64) (float64, error) {
	total, err := s.repo.GetTotalAirdrops(ctx, telegramID)
	if errors.Is(err, repository.ErrNotFound) {
		return 0, ErrUserNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to fetch total airdrops: %w", err)
	}
	return total, nil
}

func (s *AirdropService) ClaimCount(ctx context.Context, telegramID int64) (int, error) {
	count, err := s.repo.GetAirdropClaimCount(ctx, telegramID)
	if errors.Is(err, repository.ErrNotFound) {
		return 0, ErrUserNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to fetch airdrop claim count: %w", err)
	}
	return count, nil
}

// ResetAirdrops deletes the user's records and then zeroes the cached counters as a second statement.
func (s *AirdropService) ResetAirdrops(ctx context.Context, telegramID int64) error {
	if err := s.repo.DeleteAirdrops(ctx, telegramID); err != nil {
		return fmt.Errorf("failed to delete airdrops: %w", err)
	}
	if err := s.repo.ResetAirdropCounters(ctx, telegramID); err != nil {
		return fmt.Errorf("failed to reset airdrop counts: %w", err)
	}
	return nil
}

// GrantTaskReward credits points to the cached total and marks the task claimed, creating a completed
// record when the task was never completed on its own.
func (s *AirdropService) GrantTaskReward(ctx context.Context, telegramID int64, taskID string, points float64) (float64, error) {
	if points <= 0 || math.IsNaN(points) || math.IsInf(points, 0) {
		return 0, fmt.Errorf("%w: invalid task points provided", ErrInvalidInput)
	}
	if taskID == "" {
		return 0, fmt.Errorf("%w: taskId is required", ErrInvalidInput)
	}

	total, err := s.addToTotal(ctx, telegramID, points)
	if err != nil {
		return 0, err
	}

	if err := markClaimed(ctx, s.repo, telegramID, taskID, s.now()); err != nil {
		return 0, err
	}

	return total, nil
}

func (s *AirdropService) addToTotal(ctx context.Context, telegramID int64, delta float64) (float64, error) {
	if s.opts.AtomicCounters {
		total, err := s.repo.AddTotalAirdrops(ctx, telegramID, delta)
		if errors.Is(err, repository.ErrNotFound) {
			return 0, ErrUserNotFound
		}
		if err != nil {
			return 0, fmt.Errorf("failed to update total airdrops: %w", err)
		}
		return total, nil
	}

	current, err := s.GetTotalAirdrops(ctx, telegramID)
	if err != nil {
		return 0, err
	}

	total := current + delta
	err = s.repo.SetTotalAirdrops(ctx, telegramID, total)
	if errors.Is(err, repository.ErrNotFound) {
		return 0, ErrUserNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to update total airdrops: %w", err)
	}

	return total, nil
}
