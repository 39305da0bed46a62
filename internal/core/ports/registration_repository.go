package ports

import (
	"context"
	"time"

	"github.com/pubfit/membership-api/internal/core/domain"
)

// StatusChange describes a registration transition written by UpdateStatus.
type StatusChange struct {
	From        domain.RegistrationStatus
	To          domain.RegistrationStatus
	ProcessedAt time.Time
	ProcessedBy string
	Notes       string
}

// RegistrationRepository persists registration requests. Requests are never deleted.
type RegistrationRepository interface {
	Create(ctx context.Context, r *domain.RegistrationRequest) (*domain.RegistrationRequest, error)
	FindByID(ctx context.Context, id string) (*domain.RegistrationRequest, error)
	// LockByID reads the request and holds a row lock until the surrounding transaction ends.
	LockByID(ctx context.Context, id string) (*domain.RegistrationRequest, error)
	// ListByStatus returns requests in the given status, newest first.
	ListByStatus(ctx context.Context, status domain.RegistrationStatus) ([]*domain.RegistrationRequest, error)
	// UpdateStatus applies the change only if the request is still in change.From.
	// Returns domain.ErrRegistrationProcessed otherwise.
	UpdateStatus(ctx context.Context, id string, change StatusChange) error
}
