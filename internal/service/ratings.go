package service

import (
	"context"
	"errors"
	"fmt"

	"helios_miniapp/internal/model"
	"helios_miniapp/internal/repository"
)

const (
	MinScore = 1
	MaxScore = 5
)

type RatingService struct {
	repo RatingRepository
}

func NewRatingService(repo RatingRepository) *RatingService {
	return &RatingService{
		repo: repo,
	}
}

func (s *RatingService) AddProject(ctx context.Context, project *model.Project) error {
	if err := s.repo.CreateProject(ctx, project); err != nil {
		return fmt.Errorf("failed to add project: %w", err)
	}
	return nil
}

func (s *RatingService) ListProjects(ctx context.Context) ([]*model.Project, error) {
	projects, err := s.repo.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch projects: %w", err)
	}
	return projects, nil
}

// SubmitRating updates the user's existing rating for the project or inserts a new one.
// The returned bool is true when a row was created.
func (s *RatingService) SubmitRating(ctx context.Context, projectID, telegramID int64, score int, comment string) (*model.Rating, bool, error) {
	if score < MinScore || score > MaxScore {
		return nil, false, fmt.Errorf("%w: rating must be between %d and %d", ErrInvalidInput, MinScore, MaxScore)
	}

	existing, err := s.repo.GetRating(ctx, projectID, telegramID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, false, fmt.Errorf("failed to check existing rating: %w", err)
	}

	if existing != nil {
		existing.Score = score
		existing.Comment = comment
		if err := s.repo.UpdateRating(ctx, existing); err != nil {
			return nil, false, fmt.Errorf("failed to update rating: %w", err)
		}
		return existing, false, nil
	}

	rating := &model.Rating{
		ProjectID:  projectID,
		TelegramID: telegramID,
		Score:      score,
		Comment:    comment,
	}
	err = s.repo.InsertRating(ctx, rating)
	if errors.Is(err, repository.ErrNoParent) {
		return nil, false, ErrProjectNotFound
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to add rating: %w", err)
	}

	return rating, true, nil
}

// GetProjectRatings returns the ratings and their arithmetic mean. With no ratings the mean is NaN.
func (s *RatingService) GetProjectRatings(ctx context.Context, projectID int64) (*model.ProjectRatings, error) {
	ratings, err := s.repo.ListProjectRatings(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ratings: %w", err)
	}

	return &model.ProjectRatings{
		Ratings: ratings,
		Average: average(ratings),
	}, nil
}

func average(ratings []*model.Rating) float64 {
	var total float64
	for _, r := range ratings {
		total += float64(r.Score)
	}
	return total / float64(len(ratings))
}

func (s *RatingService) GetUserRating(ctx context.Context, projectID, telegramID int64) (*model.UserRating, error) {
	rating, err := s.repo.GetRating(ctx, projectID, telegramID)
	if errors.Is(err, repository.ErrNotFound) {
		return &model.UserRating{HasRated: false}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rating: %w", err)
	}

	return &model.UserRating{
		HasRated: true,
		Score:    &rating.Score,
		Comment:  &rating.Comment,
	}, nil
}
