package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/pubfit/membership-api/internal/core/domain"
	"github.com/pubfit/membership-api/internal/core/ports"
	"github.com/pubfit/membership-api/internal/core/validation"
)

// Bootstrap admin account defaults.
const (
	adminSubscriptionStart = "2024-01-01"
	adminSubscriptionEnd   = "9999-12-31"
	adminDOB               = "1990-01-01"
	adminGender            = "prefer_not_to_say"
)

// AuthConfig configures the credential store.
type AuthConfig struct {
	BcryptCost    int
	AdminUsername string
	AdminPassword string
	AdminPhone    string
}

// AuthService implements the credential store and login.
type AuthService struct {
	store  ports.Store
	tokens ports.TokenService
	cfg    AuthConfig
	now    func() time.Time
	log    zerolog.Logger
}

func NewAuthService(store ports.Store, tokens ports.TokenService, cfg AuthConfig, log zerolog.Logger) *AuthService {
	return &AuthService{store: store, tokens: tokens, cfg: cfg, now: time.Now, log: log}
}

// CreateUser validates and hashes the input before persisting the account.
func (s *AuthService) CreateUser(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	hash, err := hashPassword(in.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:          in.Username,
		PasswordHash:      hash,
		Role:              in.Role,
		PhoneNo:           in.PhoneNo,
		DeviceID:          in.DeviceID,
		SubscriptionStart: in.SubscriptionStart,
		SubscriptionEnd:   in.SubscriptionEnd,
		Gender:            in.Gender,
		DOB:               in.DOB,
		Height:            in.Height,
		Weight:            in.Weight,
		Goals:             goalsFromInput(in.Goals),
		CreatedAt:         s.now().UTC(),
	}

	created, err := s.store.Users().Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info().Str("user_id", created.ID).Str("username", created.Username).Str("role", created.Role).Msg("user created")
	return created, nil
}

// VerifyCredentials checks username and password against the stored hash.
func (s *AuthService) VerifyCredentials(ctx context.Context, username, password string) (*ports.VerifiedUser, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", domain.ErrValidation)
	}

	user, err := s.store.Users().FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if !checkPassword(user.PasswordHash, password) {
		return nil, domain.ErrInvalidCredentials
	}

	return &ports.VerifiedUser{
		ID:              user.ID,
		Username:        user.Username,
		Role:            user.Role,
		SubscriptionEnd: user.SubscriptionEnd,
	}, nil
}

// Login verifies the credentials and the subscription window, then issues a token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	verified, err := s.VerifyCredentials(ctx, username, password)
	if err != nil {
		return nil, err
	}

	days, ok := domain.RemainingDays(verified.SubscriptionEnd, s.now())
	if !ok {
		s.log.Info().Str("user_id", verified.ID).Msg("login refused: subscription expired")
		return nil, domain.ErrSubscriptionExpired
	}

	token, err := s.tokens.Issue(verified.ID, verified.Username, verified.Role)
	if err != nil {
		return nil, err
	}

	return &ports.LoginResult{Token: token, User: *verified, RemainingDays: days}, nil
}

// ChangePassword re-verifies the current password and stores the new hash in one transaction.
func (s *AuthService) ChangePassword(ctx context.Context, in ports.ChangePasswordInput) error {
	if err := validation.Struct(in); err != nil {
		return err
	}

	newHash, err := hashPassword(in.NewPassword, s.cfg.BcryptCost)
	if err != nil {
		return err
	}

	err = s.store.WithinTx(ctx, func(ctx context.Context, repos ports.Repositories) error {
		user, err := repos.Users().LockByID(ctx, in.UserID)
		if err != nil {
			return err
		}
		if !checkPassword(user.PasswordHash, in.CurrentPassword) {
			return fmt.Errorf("%w: current password is incorrect", domain.ErrInvalidCredentials)
		}
		return repos.Users().UpdatePassword(ctx, user.ID, newHash)
	})
	if err != nil {
		return fmt.Errorf("change password: %w", err)
	}

	s.log.Info().Str("user_id", in.UserID).Msg("password changed")
	return nil
}

// EnsureAdmin creates the configured admin account on first run.
func (s *AuthService) EnsureAdmin(ctx context.Context) error {
	_, err := s.store.Users().FindByUsername(ctx, s.cfg.AdminUsername)
	if err == nil {
		s.log.Debug().Str("username", s.cfg.AdminUsername).Msg("admin account present")
		return nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("ensure admin: %w", err)
	}

	_, err = s.CreateUser(ctx, ports.CreateUserInput{
		Username:          s.cfg.AdminUsername,
		Password:          s.cfg.AdminPassword,
		Role:              domain.RoleAdmin,
		PhoneNo:           s.cfg.AdminPhone,
		SubscriptionStart: adminSubscriptionStart,
		SubscriptionEnd:   adminSubscriptionEnd,
		Goals: ports.GoalsInput{
			Calories: domain.DefaultGoals.Calories,
			Proteins: domain.DefaultGoals.Proteins,
			Fats:     domain.DefaultGoals.Fats,
			Carbs:    domain.DefaultGoals.Carbs,
		},
		Gender: adminGender,
		DOB:    adminDOB,
	})
	if errors.Is(err, domain.ErrUserExists) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}

	s.log.Info().Str("username", s.cfg.AdminUsername).Msg("admin account created")
	return nil
}

func goalsFromInput(in ports.GoalsInput) domain.Goals {
	return domain.Goals{Calories: in.Calories, Proteins: in.Proteins, Fats: in.Fats, Carbs: in.Carbs}
}
