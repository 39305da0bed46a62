package ports

import (
	"context"

	"github.com/pubfit/membership-api/internal/core/domain"
)

// GoalsInput carries daily nutrition targets. Zero leaves a target unset.
type GoalsInput struct {
	Calories int `json:"calories_goal" validate:"gte=0"`
	Proteins int `json:"proteins_goal" validate:"gte=0"`
	Fats     int `json:"fats_goal" validate:"gte=0"`
	Carbs    int `json:"carbs_goal" validate:"gte=0"`
}

// CreateUserInput carries the fields of a new user account.
type CreateUserInput struct {
	Username          string `validate:"required,min=3,max=50"`
	Password          string `validate:"required,min=6,max=72"`
	Role              string `validate:"required,oneof=user admin"`
	PhoneNo           string `validate:"omitempty,max=32"`
	DeviceID          string `validate:"omitempty,max=128"`
	SubscriptionStart string `validate:"omitempty,datetime=2006-01-02"`
	SubscriptionEnd   string `validate:"omitempty,datetime=2006-01-02"`
	Goals             GoalsInput
	Gender            string `validate:"required,oneof=male female other prefer_not_to_say"`
	DOB               string `validate:"required,datetime=2006-01-02"`
	Height            *int   `validate:"omitempty,gt=0"`
	Weight            *int   `validate:"omitempty,gt=0"`
}

// VerifiedUser is returned by a successful credential check.
type VerifiedUser struct {
	ID              string
	Username        string
	Role            string
	SubscriptionEnd string
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token         string
	User          VerifiedUser
	RemainingDays int
}

// ChangePasswordInput carries a self-service password change.
type ChangePasswordInput struct {
	UserID          string `validate:"required"`
	CurrentPassword string `validate:"required"`
	NewPassword     string `validate:"required,min=6,max=72"`
}

// AuthService is the credential store plus login.
type AuthService interface {
	CreateUser(ctx context.Context, in CreateUserInput) (*domain.User, error)
	// VerifyCredentials returns domain.ErrUserNotFound or domain.ErrInvalidCredentials on failure.
	VerifyCredentials(ctx context.Context, username, password string) (*VerifiedUser, error)
	// Login issues a token only while the subscription is current.
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	ChangePassword(ctx context.Context, in ChangePasswordInput) error
	// EnsureAdmin creates the bootstrap admin if it does not exist yet.
	EnsureAdmin(ctx context.Context) error
}
