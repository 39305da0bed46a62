package ports

import (
	"context"

	"github.com/pubfit/membership-api/internal/core/domain"
)

// SubmitRegistrationInput is a public join request.
type SubmitRegistrationInput struct {
	Username      string `validate:"required,min=3,max=50"`
	PhoneNo       string `validate:"required,max=32"`
	Email         string `validate:"required,email"`
	Message       string `validate:"required,min=10,max=1000"`
	PreferredRole string `validate:"required,oneof=user admin"`
	DeviceID      string `validate:"omitempty,max=128"`
	Gender        string `validate:"required,oneof=male female other prefer_not_to_say"`
	DOB           string `validate:"required,datetime=2006-01-02"`
	Height        *int   `validate:"omitempty,gt=0"`
	Weight        *int   `validate:"omitempty,gt=0"`
}

// ApprovalResult is returned once per approval. TempPassword must be delivered out of band.
type ApprovalResult struct {
	RegistrationID string
	UserID         string
	Username       string
	TempPassword   string
}

// RegistrationService runs the join-request workflow.
type RegistrationService interface {
	Submit(ctx context.Context, in SubmitRegistrationInput) (*domain.RegistrationRequest, error)
	ListPending(ctx context.Context) ([]*domain.RegistrationRequest, error)
	Approve(ctx context.Context, id string, admin *domain.Claims) (*ApprovalResult, error)
	Reject(ctx context.Context, id, reason string, admin *domain.Claims) error
}
