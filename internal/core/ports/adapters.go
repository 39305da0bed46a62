package ports

import (
	"context"
	"io"
	"time"

	"github.com/pubfit/membership-api/internal/core/domain"
)

// TokenService issues and decodes signed session tokens.
type TokenService interface {
	Issue(userID, username, role string) (string, error)
	// Decode returns domain.ErrTokenExpired or domain.ErrTokenInvalid on failure.
	Decode(token string) (*domain.Claims, error)
}

// AuditLog appends registration decisions to the audit trail.
type AuditLog interface {
	Append(ctx context.Context, entry domain.AuditEntry) error
}

// DecisionNotifier publishes registration decisions to downstream consumers.
type DecisionNotifier interface {
	PublishDecision(ctx context.Context, d domain.RegistrationDecision) error
}

// SubmissionDedup suppresses repeated registration submissions.
type SubmissionDedup interface {
	// Claim records the submission and reports false if it was already seen within the window.
	Claim(ctx context.Context, username, phone string) (bool, error)
	Release(ctx context.Context, username, phone string) error
}

// ImageObject is an uploaded profile image.
type ImageObject struct {
	Body        io.Reader
	Size        int64
	ContentType string
}

// ImageStore keeps profile images in object storage.
type ImageStore interface {
	Put(ctx context.Context, key string, obj ImageObject) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}
