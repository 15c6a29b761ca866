package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"helios_miniapp/internal/model"
	"helios_miniapp/internal/repository"
	"helios_miniapp/pkg/logger"

	"go.uber.org/zap"
)

const referralTokenPrefix = "ref_"

type UserService struct {
	repo     UserRepository
	notifier WelcomeNotifier
	opts     LedgerOptions
	now      func() time.Time
}

func NewUserService(repo UserRepository, notifier WelcomeNotifier, opts LedgerOptions) *UserService {
	return &UserService{
		repo:     repo,
		notifier: notifier,
		opts:     opts,
		now:      time.Now,
	}
}

// GenerateReferralToken derives "ref_" plus the first 16 hex digits of sha256("<telegramID>-<unix millis>").
// Uniqueness is probabilistic; collisions are not retried.
func GenerateReferralToken(telegramID int64, at time.Time) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%d-%d", telegramID, at.UnixMilli())))
	return referralTokenPrefix + hex.EncodeToString(sum[:])[:16]
}

// RegisterUser returns the existing user for in.TelegramID or creates one, attributing the referrer
// named by in.ReferralToken. Referral bookkeeping failures are logged and never fail the registration.
func (s *UserService) RegisterUser(ctx context.Context, in RegisterUserInput) (*model.User, error) {
	if in.TelegramID == 0 {
		return nil, fmt.Errorf("%w: telegramId must be a number", ErrInvalidInput)
	}
	if in.Timezone == "" {
		return nil, fmt.Errorf("%w: timezone must be a string", ErrInvalidInput)
	}

	log := logger.Logger()

	existing, err := s.repo.GetUserByTelegramID(ctx, in.TelegramID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	var referredBy *int64
	if in.ReferralToken != "" {
		referrer, err := s.repo.GetUserByReferralToken(ctx, in.ReferralToken)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			log.Warn("no referrer found with referral token", zap.String("referral_token", in.ReferralToken))
		case err != nil:
			log.Error("failed to fetch referrer", zap.Error(err), zap.String("referral_token", in.ReferralToken))
		default:
			referredBy = &referrer.TelegramID
		}
	}

	user := &model.User{
		TelegramID:       in.TelegramID,
		TelegramUsername: in.TelegramUsername,
		FirstName:        in.FirstName,
		LastName:         in.LastName,
		ReferralToken:    GenerateReferralToken(in.TelegramID, s.now()),
		ReferredBy:       referredBy,
		Timezone:         in.Timezone,
	}

	err = s.repo.CreateUser(ctx, user)
	if errors.Is(err, repository.ErrDuplicate) {
		// a concurrent registration for the same id won the insert
		if existing, getErr := s.repo.GetUserByTelegramID(ctx, in.TelegramID); getErr == nil {
			return existing, nil
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if s.notifier != nil {
		s.notifier.NotifyWelcome(user.TelegramID, user.FirstName)
	}

	if referredBy != nil {
		s.creditReferrer(ctx, *referredBy, user)
	}

	return user, nil
}

// creditReferrer logs the referral and then bumps the referrer's counters. A failed log insert skips the
// counter update.
func (s *UserService) creditReferrer(ctx context.Context, referrerID int64, referred *model.User) {
	log := logger.Logger().With(
		zap.Int64("referrer_id", referrerID),
		zap.Int64("telegram_id", referred.TelegramID))

	err := s.repo.CreateReferral(ctx, &model.Referral{
		ReferrerTelegramID:     referrerID,
		ReferredUserTelegramID: referred.TelegramID,
		ReferredUsername:       referred.TelegramUsername,
		Timestamp:              s.now().UTC(),
	})
	if err != nil {
		log.Error("failed to log referral", zap.Error(err))
		return
	}

	bonus := &model.ReferralStats{
		ReferralCount: ReferralCountBonus,
		Minerate:      ReferralRateBonus,
		TotalAirdrops: ReferralRewardBonus,
	}

	if s.opts.AtomicCounters {
		if err := s.repo.IncrementReferralStats(ctx, referrerID, bonus); err != nil {
			log.Error("failed to update referrer counters", zap.Error(err))
		}
		return
	}

	stats, err := s.repo.GetReferralStats(ctx, referrerID)
	if err != nil {
		log.Error("failed to fetch referrer counters", zap.Error(err))
		return
	}

	err = s.repo.SetReferralStats(ctx, referrerID, &model.ReferralStats{
		ReferralCount: stats.ReferralCount + bonus.ReferralCount,
		Minerate:      stats.Minerate + bonus.Minerate,
		TotalAirdrops: stats.TotalAirdrops + bonus.TotalAirdrops,
	})
	if err != nil {
		log.Error("failed to update referrer counters", zap.Error(err))
		return
	}

	log.Info("referral logged")
}

func (s *UserService) UserExists(ctx context.Context, telegramID int64) (bool, error) {
	_, err := s.getUser(ctx, telegramID)
	if errors.Is(err, ErrUserNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *UserService) UsernameAvailable(ctx context.Context, handle string) (bool, error) {
	if handle == "" {
		return false, fmt.Errorf("%w: heliosUsername must be a string", ErrInvalidInput)
	}

	_, err := s.repo.GetUserByHeliosUsername(ctx, handle)
	if errors.Is(err, repository.ErrNotFound) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up username: %w", err)
	}
	return false, nil
}

// ClaimUsername binds handle to the user. The availability check and the write are separate statements;
// the unique index on the column rejects the loser of a concurrent claim.
func (s *UserService) ClaimUsername(ctx context.Context, telegramID int64, handle string) error {
	if handle == "" {
		return fmt.Errorf("%w: heliosUsername must be a string", ErrInvalidInput)
	}

	owner, err := s.repo.GetUserByHeliosUsername(ctx, handle)
	switch {
	case err == nil && owner.TelegramID != telegramID:
		return ErrUsernameTaken
	case err != nil && !errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("failed to look up username: %w", err)
	}

	err = s.repo.UpdateHeliosUsername(ctx, telegramID, handle)
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		return ErrUsernameTaken
	case errors.Is(err, repository.ErrNotFound):
		return ErrUserNotFound
	case err != nil:
		return fmt.Errorf("failed to update username: %w", err)
	}

	return nil
}

func (s *UserService) GetReferralToken(ctx context.Context, telegramID int64) (string, error) {
	user, err := s.getUser(ctx, telegramID)
	if err != nil {
		return "", err
	}
	return user.ReferralToken, nil
}

func (s *UserService) GetHeliosUsername(ctx context.Context, telegramID int64) (*string, error) {
	user, err := s.getUser(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	return user.HeliosUsername, nil
}

func (s *UserService) GetReferrals(ctx context.Context, telegramID int64) ([]*model.Referral, error) {
	if _, err := s.getUser(ctx, telegramID); err != nil {
		return nil, err
	}

	refs, err := s.repo.GetReferralsByReferrer(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("failed to get referrals: %w", err)
	}
	return refs, nil
}

func (s *UserService) SetAvatar(ctx context.Context, telegramID int64, path string) error {
	if path == "" {
		return fmt.Errorf("%w: avatar path must be a string", ErrInvalidInput)
	}

	err := s.repo.UpdateAvatarPath(ctx, telegramID, path)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update avatar: %w", err)
	}
	return nil
}

func (s *UserService) GetAvatar(ctx context.Context, telegramID int64) (*string, error) {
	user, err := s.getUser(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	return user.AvatarPath, nil
}

func (s *UserService) getUser(ctx context.Context, telegramID int64) (*model.User, error) {
	user, err := s.repo.GetUserByTelegramID(ctx, telegramID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by telegram ID: %w", err)
	}
	return user, nil
}
