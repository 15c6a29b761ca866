package api

import (
	"context"

	"helios_miniapp/internal/model"
	"helios_miniapp/internal/service"

	"github.com/stretchr/testify/mock"
)

type mockUserService struct {
	mock.Mock
}

func (m *mockUserService) RegisterUser(ctx context.Context, in service.RegisterUserInput) (*model.User, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUserService) UserExists(ctx context.Context, telegramID int64) (bool, error) {
	args := m.Called(ctx, telegramID)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserService) UsernameAvailable(ctx context.Context, handle string) (bool, error) {
	args := m.Called(ctx, handle)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserService) ClaimUsername(ctx context.Context, telegramID int64, handle string) error {
	args := m.Called(ctx, telegramID, handle)
	return args.Error(0)
}

func (m *mockUserService) GetReferralToken(ctx context.Context, telegramID int64) (string, error) {
	args := m.Called(ctx, telegramID)
	return args.String(0), args.Error(1)
}

func (m *mockUserService) GetHeliosUsername(ctx context.Context, telegramID int64) (*string, error) {
	args := m.Called(ctx, telegramID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*string), args.Error(1)
}

func (m *mockUserService) GetReferrals(ctx context.Context, telegramID int64) ([]*model.Referral, error) {
	args := m.Called(ctx, telegramID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Referral), args.Error(1)
}

func (m *mockUserService) SetAvatar(ctx context.Context, telegramID int64, path string) error {
	args := m.Called(ctx, telegramID, path)
	return args.Error(0)
}

func (m *mockUserService) GetAvatar(ctx context.Context, telegramID int64) (*string, error) {
	args := m.Called(ctx, telegramID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*string), args.Error(1)
}

type mockTaskService struct {
	mock.Mock
}

func (m *mockTaskService) CompleteTask(ctx context.Context, telegramID int64, taskID string) error {
	args := m.Called(ctx, telegramID, taskID)
	return args.Error(0)
}

func (m *mockTaskService) GetTaskStatus(ctx context.Context, telegramID int64, taskID string) (*model.TaskStatus, error) {
	args := m.Called(ctx, telegramID, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TaskStatus), args.Error(1)
}

func (m *mockTaskService) GetAllTaskStatuses(ctx context.Context, telegramID int64) ([]*model.TaskStatus, error) {
	args := m.Called(ctx, telegramID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.TaskStatus), args.Error(1)
}

type mockRatingService struct {
	mock.Mock
}

func (m *mockRatingService) AddProject(ctx context.Context, project *model.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *mockRatingService) ListProjects(ctx context.Context) ([]*model.Project, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Project), args.Error(1)
}

func (m *mockRatingService) SubmitRating(ctx context.Context, projectID, telegramID int64, score int, comment string) (*model.Rating, bool, error) {
	args := m.Called(ctx, projectID, telegramID, score, comment)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*model.Rating), args.Bool(1), args.Error(2)
}

func (m *mockRatingService) GetProjectRatings(ctx context.Context, projectID int64) (*model.ProjectRatings, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProjectRatings), args.Error(1)
}

func (m *mockRatingService) GetUserRating(ctx context.Context, projectID, telegramID int64) (*model.UserRating, error) {
	args := m.Called(ctx, projectID, telegramID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserRating), args.Error(1)
}

type mockAirdropService struct {
	mock.Mock
}

func (m *mockAirdropService) ListAirdrops(ctx context.Context, telegramID int64) ([]*model.Airdrop, error) {
	args := m.Called(ctx, telegramID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Airdrop), args.Error(1)
}

func (m *mockAirdropService) SumAirdrops(ctx context.Context, telegramID int64) (float64, error) {
	args := m.Called(ctx, telegramID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *mockAirdropService) SumAndPersist(ctx context.Context, telegramID int64) (*model.AirdropSum, error) {
	args := m.Called(ctx, telegramID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AirdropSum), args.Error(1)
}

func (m *mockAirdropService) GetTotalAirdrops(ctx context.Context, telegramID int64) (float64, error) {
	args := m.Called(ctx, telegramID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *mockAirdropService) ClaimCount(ctx context.Context, telegramID int64) (int, error) {
	args := m.Called(ctx, telegramID)
	return args.Int(0), args.Error(1)
}

func (m *mockAirdropService) ResetAirdrops(ctx context.Context, telegramID int64) error {
	args := m.Called(ctx, telegramID)
	return args.Error(0)
}

func (m *mockAirdropService) GrantTaskReward(ctx context.Context, telegramID int64, taskID string, points float64) (float64, error) {
	args := m.Called(ctx, telegramID, taskID, points)
	return args.Get(0).(float64), args.Error(1)
}
