package mocks

import (
	"context"

	"helios_miniapp/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	args := m.Called(ctx, telegramID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByReferralToken(ctx context.Context, token string) (*model.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByHeliosUsername(ctx context.Context, handle string) (*model.User, error) {
	args := m.Called(ctx, handle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) UpdateHeliosUsername(ctx context.Context, telegramID int64, handle string) error {
	args := m.Called(ctx, telegramID, handle)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateAvatarPath(ctx context.Context, telegramID int64, path string) error {
	args := m.Called(ctx, telegramID, path)
	return args.Error(0)
}

func (m *MockUserRepository) CreateReferral(ctx context.Context, ref *model.Referral) error {
	args := m.Called(ctx, ref)
	return args.Error(0)
}

func (m *MockUserRepository) GetReferralsByReferrer(ctx context.Context, referrerID int64) ([]*model.Referral, error) {
	args := m.Called(ctx, referrerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Referral), args.Error(1)
}

func (m *MockUserRepository) GetReferralStats(ctx context.Context, telegramID int64) (*model.ReferralStats, error) {
	args := m.Called(ctx, telegramID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReferralStats), args.Error(1)
}

func (m *MockUserRepository) SetReferralStats(ctx context.Context, telegramID int64, stats *model.ReferralStats) error {
	args := m.Called(ctx, telegramID, stats)
	return args.Error(0)
}

func (m *MockUserRepository) IncrementReferralStats(ctx context.Context, telegramID int64, delta *model.ReferralStats) error {
	args := m.Called(ctx, telegramID, delta)
	return args.Error(0)
}

type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) GetTaskRecord(ctx context.Context, telegramID int64, taskID string) (*model.TaskRecord, error) {
	args := m.Called(ctx, telegramID, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TaskRecord), args.Error(1)
}

func (m *MockTaskRepository) ListTaskRecords(ctx context.Context, telegramID int64) ([]*model.TaskRecord, error) {
	args := m.Called(ctx, telegramID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.TaskRecord), args.Error(1)
}

func (m *MockTaskRepository) InsertTaskRecord(ctx context.Context, rec *model.TaskRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockTaskRepository) MarkTaskClaimed(ctx context.Context, telegramID int64, taskID string) error {
	args := m.Called(ctx, telegramID, taskID)
	return args.Error(0)
}

type MockRatingRepository struct {
	mock.Mock
}

func (m *MockRatingRepository) CreateProject(ctx context.Context, project *model.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockRatingRepository) ListProjects(ctx context.Context) ([]*model.Project, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Project), args.Error(1)
}

func (m *MockRatingRepository) GetRating(ctx context.Context, projectID, telegramID int64) (*model.Rating, error) {
	args := m.Called(ctx, projectID, telegramID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Rating), args.Error(1)
}

func (m *MockRatingRepository) InsertRating(ctx context.Context, rating *model.Rating) error {
	args := m.Called(ctx, rating)
	return args.Error(0)
}

func (m *MockRatingRepository) UpdateRating(ctx context.Context, rating *model.Rating) error {
	args := m.Called(ctx, rating)
	return args.Error(0)
}

func (m *MockRatingRepository) ListProjectRatings(ctx context.Context, projectID int64) ([]*model.Rating, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Rating), args.Error(1)
}

type MockAirdropRepository struct {
	MockTaskRepository
}

func (m *MockAirdropRepository) ListAirdrops(ctx context.Context, telegramID int64) ([]*model.Airdrop, error) {
	args := m.Called(ctx, telegramID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Airdrop), args.Error(1)
}

func (m *MockAirdropRepository) SumAirdrops(ctx context.Context, telegramID int64) (float64, error) {
	args := m.Called(ctx, telegramID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockAirdropRepository) DeleteAirdrops(ctx context.Context, telegramID int64) error {
	args := m.Called(ctx, telegramID)
	return args.Error(0)
}

func (m *MockAirdropRepository) ResetAirdropCounters(ctx context.Context, telegramID int64) error {
	args := m.Called(ctx, telegramID)
	return args.Error(0)
}

func (m *MockAirdropRepository) GetTotalAirdrops(ctx context.Context, telegramID int64) (float64, error) {
	args := m.Called(ctx, telegramID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockAirdropRepository) GetAirdropClaimCount(ctx context.Context, telegramID int64) (int, error) {
	args := m.Called(ctx, telegramID)
	return args.Int(0), args.Error(1)
}

func (m *MockAirdropRepository) SetTotalAirdrops(ctx context.Context, telegramID int64, total float64) error {
	args := m.Called(ctx, telegramID, total)
	return args.Error(0)
}

func (m *MockAirdropRepository) AddTotalAirdrops(ctx context.Context, telegramID int64, delta float64) (float64, error) {
	args := m.Called(ctx, telegramID, delta)
	return args.Get(0).(float64), args.Error(1)
}

type MockWelcomeNotifier struct {
	mock.Mock
}

func (m *MockWelcomeNotifier) NotifyWelcome(chatID int64, firstName string) {
	m.Called(chatID, firstName)
}
