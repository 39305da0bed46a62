package ports

import (
	"context"

	"github.com/pubfit/membership-api/internal/core/domain"
)

// UserDetailsPatch carries the admin-editable account fields. Nil fields are left untouched.
type UserDetailsPatch struct {
	PasswordHash    *string
	SubscriptionEnd *string
	DeviceID        *string
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	// Create inserts the user and returns it with its generated ID.
	// Returns domain.ErrUserExists when the username is taken.
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// LockByID reads the user and holds a row lock until the surrounding transaction ends.
	LockByID(ctx context.Context, id string) (*domain.User, error)
	ExistsByUsernameAndPhone(ctx context.Context, username, phone string) (bool, error)
	// List returns all users ordered by username.
	List(ctx context.Context) ([]*domain.User, error)
	// SubscriptionEnds returns the raw subscription end date of every user ("" when unset).
	SubscriptionEnds(ctx context.Context) ([]string, error)
	UpdateProfile(ctx context.Context, id string, p domain.Profile) error
	UpdateGoals(ctx context.Context, id string, g domain.Goals) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateProfileImage(ctx context.Context, id, key string) error
	UpdateDetails(ctx context.Context, id string, patch UserDetailsPatch) error
	Delete(ctx context.Context, id string) error
}

// NutritionRepository persists the per-user, per-day nutrition log.
type NutritionRepository interface {
	// Get returns domain.ErrNutritionNotFound when nothing was logged that day.
	Get(ctx context.Context, userID, date string) (*domain.NutritionEntry, error)
	Upsert(ctx context.Context, e *domain.NutritionEntry) error
	DeleteByUser(ctx context.Context, userID string) error
}
