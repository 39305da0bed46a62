package ports

import (
	"context"

	"github.com/pubfit/membership-api/internal/core/domain"
)

// ProfileInput carries the self-editable profile fields.
type ProfileInput struct {
	Username string `validate:"required,min=3,max=50"`
	PhoneNo  string `validate:"omitempty,max=32"`
	Gender   string `validate:"omitempty,oneof=male female other prefer_not_to_say"`
	DOB      string `validate:"omitempty,datetime=2006-01-02"`
	Height   *int   `validate:"omitempty,gt=0"`
	Weight   *int   `validate:"omitempty,gt=0"`
}

// NutritionInput is one day's nutrition log.
type NutritionInput struct {
	Date      string  `validate:"required,datetime=2006-01-02"`
	Breakfast string  `validate:"max=2000"`
	Lunch     string  `validate:"max=2000"`
	Snacks    string  `validate:"max=2000"`
	Dinner    string  `validate:"max=2000"`
	Calories  float64 `validate:"gte=0"`
	Carbs     float64 `validate:"gte=0"`
	Proteins  float64 `validate:"gte=0"`
	Fats      float64 `validate:"gte=0"`
	Water     float64 `validate:"gte=0"`
}

// UserView is a user enriched with a short-lived profile image URL.
type UserView struct {
	*domain.User
	ProfileImageURL string
}

// MemberService serves the self-service endpoints. userID always comes from the session token.
type MemberService interface {
	Profile(ctx context.Context, userID string) (*UserView, error)
	UpdateProfile(ctx context.Context, userID string, in ProfileInput) error
	Goals(ctx context.Context, userID string) (domain.Goals, error)
	UpdateGoals(ctx context.Context, userID string, in GoalsInput) error
	Nutrition(ctx context.Context, userID, date string) (*domain.NutritionEntry, error)
	SaveNutrition(ctx context.Context, userID string, in NutritionInput) error
	UpdateProfileImage(ctx context.Context, userID string, img ImageObject) (string, error)
}

// UpdateUserDetailsInput carries an admin edit of a user account.
type UpdateUserDetailsInput struct {
	UserID          string  `validate:"required"`
	ResetPassword   bool
	SubscriptionEnd string  `validate:"omitempty,datetime=2006-01-02"`
	DeviceID        *string `validate:"omitempty,max=128"`
}

// AdminService serves user management and the dashboard.
type AdminService interface {
	ListUsers(ctx context.Context) ([]*UserView, error)
	GetUser(ctx context.Context, id string) (*UserView, error)
	// UpdateUserDetails returns the temporary password when a reset was requested, "" otherwise.
	UpdateUserDetails(ctx context.Context, in UpdateUserDetailsInput) (string, error)
	DeleteUser(ctx context.Context, id string) (string, error)
	DashboardStats(ctx context.Context) (domain.DashboardStats, error)
}
