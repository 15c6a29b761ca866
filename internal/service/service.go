package service

import (
	"context"
	"errors"

	"helios_miniapp/internal/model"
)

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrUserNotFound         = errors.New("user not found")
	ErrUsernameTaken        = errors.New("username already taken")
	ErrTaskNotFound         = errors.New("task not found for this user")
	ErrNoTasks              = errors.New("no tasks found for this user")
	ErrTaskAlreadyCompleted = errors.New("task already completed")
	ErrProjectNotFound      = errors.New("project not found")
)

// Referral bonus credited to the referrer for every referred registration.
const (
	ReferralCountBonus  = 1
	ReferralRateBonus   = 10
	ReferralRewardBonus = 100
)

type Service struct {
	*UserService
	*TaskService
	*RatingService
	*AirdropService
}

func NewService(userService *UserService, taskService *TaskService, ratingService *RatingService, airdropService *AirdropService) *Service {
	return &Service{
		UserService:    userService,
		TaskService:    taskService,
		RatingService:  ratingService,
		AirdropService: airdropService,
	}
}

type RegisterUserInput struct {
	TelegramID       int64
	TelegramUsername string
	FirstName        string
	LastName         string
	ReferralToken    string
	Timezone         string
}

type UserServiceI interface {
	RegisterUser(ctx context.Context, in RegisterUserInput) (*model.User, error)
	UserExists(ctx context.Context, telegramID int64) (bool, error)
	UsernameAvailable(ctx context.Context, handle string) (bool, error)
	ClaimUsername(ctx context.Context, telegramID int64, handle string) error
	GetReferralToken(ctx context.Context, telegramID int64) (string, error)
	GetHeliosUsername(ctx context.Context, telegramID int64) (*string, error)
	GetReferrals(ctx context.Context, telegramID int64) ([]*model.Referral, error)
	SetAvatar(ctx context.Context, telegramID int64, path string) error
	GetAvatar(ctx context.Context, telegramID int64) (*string, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByTelegramID(ctx context.Context, telegramID int64) (*model.User, error)
	GetUserByReferralToken(ctx context.Context, token string) (*model.User, error)
	GetUserByHeliosUsername(ctx context.Context, handle string) (*model.User, error)
	UpdateHeliosUsername(ctx context.Context, telegramID int64, handle string) error
	UpdateAvatarPath(ctx context.Context, telegramID int64, path string) error
	CreateReferral(ctx context.Context, ref *model.Referral) error
	GetReferralsByReferrer(ctx context.Context, referrerID int64) ([]*model.Referral, error)
	GetReferralStats(ctx context.Context, telegramID int64) (*model.ReferralStats, error)
	SetReferralStats(ctx context.Context, telegramID int64, stats *model.ReferralStats) error
	IncrementReferralStats(ctx context.Context, telegramID int64, delta *model.ReferralStats) error
}

// WelcomeNotifier delivers the welcome message outside the request path.
type WelcomeNotifier interface {
	NotifyWelcome(chatID int64, firstName string)
}

type TaskServiceI interface {
	CompleteTask(ctx context.Context, telegramID int64, taskID string) error
	GetTaskStatus(ctx context.Context, telegramID int64, taskID string) (*model.TaskStatus, error)
	GetAllTaskStatuses(ctx context.Context, telegramID int64) ([]*model.TaskStatus, error)
}

type TaskRepository interface {
	GetTaskRecord(ctx context.Context, telegramID int64, taskID string) (*model.TaskRecord, error)
	ListTaskRecords(ctx context.Context, telegramID int64) ([]*model.TaskRecord, error)
	InsertTaskRecord(ctx context.Context, rec *model.TaskRecord) error
	MarkTaskClaimed(ctx context.Context, telegramID int64, taskID string) error
}

type RatingServiceI interface {
	AddProject(ctx context.Context, project *model.Project) error
	ListProjects(ctx context.Context) ([]*model.Project, error)
	SubmitRating(ctx context.Context, projectID, telegramID int64, score int, comment string) (*model.Rating, bool, error)
	GetProjectRatings(ctx context.Context, projectID int64) (*model.ProjectRatings, error)
	GetUserRating(ctx context.Context, projectID, telegramID int64) (*model.UserRating, error)
}

type RatingRepository interface {
	CreateProject(ctx context.Context, project *model.Project) error
	ListProjects(ctx context.Context) ([]*model.Project, error)
	GetRating(ctx context.Context, projectID, telegramID int64) (*model.Rating, error)
	InsertRating(ctx context.Context, rating *model.Rating) error
	UpdateRating(ctx context.Context, rating *model.Rating) error
	ListProjectRatings(ctx context.Context, projectID int64) ([]*model.Rating, error)
}

type AirdropServiceI interface {
	ListAirdrops(ctx context.Context, telegramID int64) ([]*model.Airdrop, error)
	SumAirdrops(ctx context.Context, telegramID int64) (float64, error)
	SumAndPersist(ctx context.Context, telegramID int64) (*model.AirdropSum, error)
	GetTotalAirdrops(ctx context.Context, telegramID int64) (float64, error)
	ClaimCount(ctx context.Context, telegramID int64) (int, error)
	ResetAirdrops(ctx context.Context, telegramID int64) error
	GrantTaskReward(ctx context.Context, telegramID int64, taskID string, points float64) (float64, error)
}

type AirdropRepository interface {
	ListAirdrops(ctx context.Context, telegramID int64) ([]*model.Airdrop, error)
	SumAirdrops(ctx context.Context, telegramID int64) (float64, error)
	DeleteAirdrops(ctx context.Context, telegramID int64) error
	ResetAirdropCounters(ctx context.Context, telegramID int64) error
	GetTotalAirdrops(ctx context.Context, telegramID int64) (float64, error)
	GetAirdropClaimCount(ctx context.Context, telegramID int64) (int, error)
	SetTotalAirdrops(ctx context.Context, telegramID int64, total float64) error
	AddTotalAirdrops(ctx context.Context, telegramID int64, delta float64) (float64, error)
	TaskRepository
}

// LedgerOptions selects how multi-step counter updates are written.
// With AtomicCounters unset every counter update is a read followed by a write of the computed
// value, so concurrent requests against the same row can lose increments.
type LedgerOptions struct {
	AtomicCounters bool
}
