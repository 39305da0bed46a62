package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pubfit/membership-api/internal/core/domain"
	"github.com/pubfit/membership-api/internal/core/ports"
	"github.com/pubfit/membership-api/internal/core/validation"
)

const (
	// MaxProfileImageBytes caps uploaded profile images.
	MaxProfileImageBytes = 5 << 20
	profileImagePrefix   = "profile-images"
	profileImageURLTTL   = 15 * time.Minute
)

// MemberService implements the self-service operations of a signed-in member.
type MemberService struct {
	store  ports.Store
	images ports.ImageStore // nil when object storage is not configured
	log    zerolog.Logger
}

func NewMemberService(store ports.Store, images ports.ImageStore, log zerolog.Logger) *MemberService {
	return &MemberService{store: store, images: images, log: log}
}

func (s *MemberService) Profile(ctx context.Context, userID string) (*ports.UserView, error) {
	user, err := s.store.Users().FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Goals = user.Goals.WithDefaults()
	return userView(ctx, s.images, s.log, user), nil
}

func (s *MemberService) UpdateProfile(ctx context.Context, userID string, in ports.ProfileInput) error {
	if err := validation.Struct(in); err != nil {
		return err
	}
	err := s.store.Users().UpdateProfile(ctx, userID, domain.Profile{
		Username: in.Username,
		PhoneNo:  in.PhoneNo,
		Gender:   in.Gender,
		DOB:      in.DOB,
		Height:   in.Height,
		Weight:   in.Weight,
	})
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

// Goals returns the member's targets with unset ones defaulted.
func (s *MemberService) Goals(ctx context.Context, userID string) (domain.Goals, error) {
	user, err := s.store.Users().FindByID(ctx, userID)
	if err != nil {
		return domain.Goals{}, err
	}
	return user.Goals.WithDefaults(), nil
}

func (s *MemberService) UpdateGoals(ctx context.Context, userID string, in ports.GoalsInput) error {
	if err := validation.Struct(in); err != nil {
		return err
	}
	if err := s.store.Users().UpdateGoals(ctx, userID, goalsFromInput(in)); err != nil {
		return fmt.Errorf("update goals: %w", err)
	}
	return nil
}

// Nutrition returns the day's log, or an all-zero entry when nothing was logged.
func (s *MemberService) Nutrition(ctx context.Context, userID, date string) (*domain.NutritionEntry, error) {
	if _, err := domain.ParseDate(date); err != nil {
		return nil, fmt.Errorf("%w: date must be in YYYY-MM-DD format", domain.ErrValidation)
	}
	entry, err := s.store.Nutrition().Get(ctx, userID, date)
	if errors.Is(err, domain.ErrNutritionNotFound) {
		return domain.EmptyNutritionEntry(userID, date), nil
	}
	if err != nil {
		return nil, fmt.Errorf("get nutrition: %w", err)
	}
	return entry, nil
}

// SaveNutrition replaces the member's log for in.Date.
func (s *MemberService) SaveNutrition(ctx context.Context, userID string, in ports.NutritionInput) error {
	if err := validation.Struct(in); err != nil {
		return err
	}
	err := s.store.Nutrition().Upsert(ctx, &domain.NutritionEntry{
		UserID:    userID,
		Date:      in.Date,
		Breakfast: in.Breakfast,
		Lunch:     in.Lunch,
		Snacks:    in.Snacks,
		Dinner:    in.Dinner,
		Calories:  in.Calories,
		Carbs:     in.Carbs,
		Proteins:  in.Proteins,
		Fats:      in.Fats,
		Water:     in.Water,
	})
	if err != nil {
		return fmt.Errorf("save nutrition: %w", err)
	}
	return nil
}

// UpdateProfileImage uploads img and points the member's profile at it.
// It returns a presigned URL for the new image.
func (s *MemberService) UpdateProfileImage(ctx context.Context, userID string, img ports.ImageObject) (string, error) {
	if s.images == nil {
		return "", domain.ErrImageStoreUnavailable
	}
	if img.Body == nil || img.Size <= 0 {
		return "", fmt.Errorf("%w: no image file provided", domain.ErrValidation)
	}
	if img.Size > MaxProfileImageBytes {
		return "", fmt.Errorf("%w: image exceeds %d bytes", domain.ErrValidation, MaxProfileImageBytes)
	}
	if !strings.HasPrefix(img.ContentType, "image/") {
		return "", fmt.Errorf("%w: file must be an image", domain.ErrValidation)
	}

	user, err := s.store.Users().FindByID(ctx, userID)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s/%s/%s", profileImagePrefix, userID, uuid.NewString())
	if err := s.images.Put(ctx, key, img); err != nil {
		return "", fmt.Errorf("upload profile image: %w", err)
	}
	if err := s.store.Users().UpdateProfileImage(ctx, userID, key); err != nil {
		return "", fmt.Errorf("update profile image: %w", err)
	}

	if user.ProfileImageKey != "" {
		if err := s.images.Delete(ctx, user.ProfileImageKey); err != nil {
			s.log.Warn().Err(err).Str("user_id", userID).Msg("failed to delete previous profile image")
		}
	}

	url, err := s.images.PresignGet(ctx, key, profileImageURLTTL)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("failed to presign profile image")
		return "", nil
	}
	return url, nil
}

// userView attaches a presigned image URL to u. Presign failures leave the URL empty.
func userView(ctx context.Context, images ports.ImageStore, log zerolog.Logger, u *domain.User) *ports.UserView {
	view := &ports.UserView{User: u}
	if images == nil || u.ProfileImageKey == "" {
		return view
	}
	url, err := images.PresignGet(ctx, u.ProfileImageKey, profileImageURLTTL)
	if err != nil {
		log.Warn().Err(err).Str("user_id", u.ID).Msg("failed to presign profile image")
		return view
	}
	view.ProfileImageURL = url
	return view
}
