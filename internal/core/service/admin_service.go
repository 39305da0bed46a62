package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/pubfit/membership-api/internal/core/domain"
	"github.com/pubfit/membership-api/internal/core/ports"
	"github.com/pubfit/membership-api/internal/core/validation"
)

// AdminService implements user management and the subscription dashboard.
type AdminService struct {
	store        ports.Store
	images       ports.ImageStore
	tempPassword string
	bcryptCost   int
	now          func() time.Time
	log          zerolog.Logger
}

func NewAdminService(store ports.Store, images ports.ImageStore, cfg RegistrationConfig, log zerolog.Logger) *AdminService {
	return &AdminService{
		store:        store,
		images:       images,
		tempPassword: cfg.TempPassword,
		bcryptCost:   cfg.BcryptCost,
		now:          time.Now,
		log:          log,
	}
}

// ListUsers returns every user ordered by username.
func (s *AdminService) ListUsers(ctx context.Context) ([]*ports.UserView, error) {
	users, err := s.store.Users().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	views := make([]*ports.UserView, 0, len(users))
	for _, u := range users {
		views = append(views, userView(ctx, s.images, s.log, u))
	}
	return views, nil
}

func (s *AdminService) GetUser(ctx context.Context, id string) (*ports.UserView, error) {
	user, err := s.store.Users().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Goals = user.Goals.WithDefaults()
	return userView(ctx, s.images, s.log, user), nil
}

// UpdateUserDetails applies an admin edit. A password reset assigns the configured
// temporary password, which is returned once.
func (s *AdminService) UpdateUserDetails(ctx context.Context, in ports.UpdateUserDetailsInput) (string, error) {
	if err := validation.Struct(in); err != nil {
		return "", err
	}

	var patch ports.UserDetailsPatch
	if in.ResetPassword {
		hash, err := hashPassword(s.tempPassword, s.bcryptCost)
		if err != nil {
			return "", err
		}
		patch.PasswordHash = &hash
	}
	if in.SubscriptionEnd != "" {
		patch.SubscriptionEnd = &in.SubscriptionEnd
	}
	patch.DeviceID = in.DeviceID

	if err := s.store.Users().UpdateDetails(ctx, in.UserID, patch); err != nil {
		return "", fmt.Errorf("update user details: %w", err)
	}

	s.log.Info().Str("user_id", in.UserID).Bool("password_reset", in.ResetPassword).Msg("user details updated")
	if in.ResetPassword {
		return s.tempPassword, nil
	}
	return "", nil
}

// DeleteUser removes a non-admin user and their nutrition log. It returns the deleted username.
func (s *AdminService) DeleteUser(ctx context.Context, id string) (string, error) {
	var user *domain.User
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos ports.Repositories) error {
		var err error
		user, err = repos.Users().LockByID(ctx, id)
		if err != nil {
			return err
		}
		if user.Role == domain.RoleAdmin {
			return domain.ErrCannotDeleteAdmin
		}
		if err := repos.Nutrition().DeleteByUser(ctx, id); err != nil {
			return err
		}
		return repos.Users().Delete(ctx, id)
	})
	if err != nil {
		return "", fmt.Errorf("delete user: %w", err)
	}

	if s.images != nil && user.ProfileImageKey != "" {
		if err := s.images.Delete(ctx, user.ProfileImageKey); err != nil {
			s.log.Warn().Err(err).Str("user_id", id).Msg("failed to delete profile image")
		}
	}

	s.log.Info().Str("user_id", id).Str("username", user.Username).Msg("user deleted")
	return user.Username, nil
}

// DashboardStats classifies every subscription against today's date.
func (s *AdminService) DashboardStats(ctx context.Context) (domain.DashboardStats, error) {
	ends, err := s.store.Users().SubscriptionEnds(ctx)
	if err != nil {
		return domain.DashboardStats{}, fmt.Errorf("dashboard stats: %w", err)
	}
	return domain.ComputeDashboard(ends, s.now()), nil
}
