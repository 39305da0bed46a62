package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pubfit/membership-api/internal/core/domain"
	"github.com/pubfit/membership-api/internal/core/ports"
	"github.com/pubfit/membership-api/internal/core/validation"
)

// DefaultRejectReason is recorded when an admin rejects without giving a reason.
const DefaultRejectReason = "No reason provided"

// RegistrationConfig configures the approval workflow.
type RegistrationConfig struct {
	// TempPassword is assigned to every account created by an approval.
	TempPassword string
	BcryptCost   int
}

// RegistrationService runs join requests through pending -> approved | rejected.
type RegistrationService struct {
	store    ports.Store
	dedup    ports.SubmissionDedup
	audit    ports.AuditLog
	notifier ports.DecisionNotifier
	cfg      RegistrationConfig
	now      func() time.Time
	log      zerolog.Logger
}

func NewRegistrationService(
	store ports.Store,
	dedup ports.SubmissionDedup,
	audit ports.AuditLog,
	notifier ports.DecisionNotifier,
	cfg RegistrationConfig,
	log zerolog.Logger,
) *RegistrationService {
	return &RegistrationService{
		store:    store,
		dedup:    dedup,
		audit:    audit,
		notifier: notifier,
		cfg:      cfg,
		now:      time.Now,
		log:      log,
	}
}

// Submit stores a new pending request.
func (s *RegistrationService) Submit(ctx context.Context, in ports.SubmitRegistrationInput) (*domain.RegistrationRequest, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	claimed, err := s.dedup.Claim(ctx, in.Username, in.PhoneNo)
	if err != nil {
		s.log.Warn().Err(err).Str("username", in.Username).Msg("submission dedup failed, accepting anyway")
	} else if !claimed {
		return nil, domain.ErrDuplicateSubmission
	}

	req := &domain.RegistrationRequest{
		Username:      in.Username,
		PhoneNo:       in.PhoneNo,
		Email:         in.Email,
		Message:       in.Message,
		PreferredRole: in.PreferredRole,
		DeviceID:      in.DeviceID,
		Gender:        in.Gender,
		DOB:           in.DOB,
		Height:        in.Height,
		Weight:        in.Weight,
		Status:        domain.RegistrationPending,
		CreatedAt:     s.now().UTC(),
	}

	created, err := s.store.Registrations().Create(ctx, req)
	if err != nil {
		if claimed {
			if relErr := s.dedup.Release(ctx, in.Username, in.PhoneNo); relErr != nil {
				s.log.Warn().Err(relErr).Str("username", in.Username).Msg("failed to release dedup key")
			}
		}
		return nil, fmt.Errorf("submit registration: %w", err)
	}

	s.log.Info().Str("registration_id", created.ID).Str("username", created.Username).Msg("registration submitted")
	return created, nil
}

// ListPending returns pending requests, newest first.
func (s *RegistrationService) ListPending(ctx context.Context) ([]*domain.RegistrationRequest, error) {
	reqs, err := s.store.Registrations().ListByStatus(ctx, domain.RegistrationPending)
	if err != nil {
		return nil, fmt.Errorf("list pending: %w", err)
	}
	return reqs, nil
}

// Approve creates the applicant's account and marks the request approved, atomically.
// When an account with the same username and phone already exists the request
// stays pending and domain.ErrUserExists is returned.
func (s *RegistrationService) Approve(ctx context.Context, id string, admin *domain.Claims) (*ports.ApprovalResult, error) {
	if !admin.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	hash, err := hashPassword(s.cfg.TempPassword, s.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	var (
		req  *domain.RegistrationRequest
		user *domain.User
	)
	processedAt := s.now().UTC()

	err = s.store.WithinTx(ctx, func(ctx context.Context, repos ports.Repositories) error {
		var err error
		req, err = repos.Registrations().LockByID(ctx, id)
		if err != nil {
			return err
		}
		if !req.Status.CanTransitionTo(domain.RegistrationApproved) {
			return domain.ErrRegistrationProcessed
		}

		exists, err := repos.Users().ExistsByUsernameAndPhone(ctx, req.Username, req.PhoneNo)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrUserExists
		}

		today := domain.FormatDate(processedAt)
		user, err = repos.Users().Create(ctx, &domain.User{
			Username:          req.Username,
			PasswordHash:      hash,
			Role:              req.PreferredRole,
			PhoneNo:           req.PhoneNo,
			DeviceID:          req.DeviceID,
			SubscriptionStart: today,
			SubscriptionEnd:   today,
			Gender:            req.Gender,
			DOB:               req.DOB,
			Height:            req.Height,
			Weight:            req.Weight,
			CreatedAt:         processedAt,
		})
		if err != nil {
			return err
		}

		return repos.Registrations().UpdateStatus(ctx, req.ID, ports.StatusChange{
			From:        domain.RegistrationPending,
			To:          domain.RegistrationApproved,
			ProcessedAt: processedAt,
			ProcessedBy: admin.UserID,
		})
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) && req != nil {
			s.record(ctx, domain.AuditEntry{
				RegistrationID: req.ID,
				Action:         domain.AuditApprovalRefused,
				Actor:          admin.UserID,
				Username:       req.Username,
				Notes:          "an account with this username already exists",
				At:             processedAt,
			})
			s.log.Warn().Str("registration_id", req.ID).Str("username", req.Username).Msg("approval refused, request left pending")
		}
		return nil, fmt.Errorf("approve registration: %w", err)
	}

	s.record(ctx, domain.AuditEntry{
		RegistrationID: req.ID,
		Action:         domain.AuditApproved,
		Actor:          admin.UserID,
		Username:       req.Username,
		At:             processedAt,
	})
	s.publish(ctx, domain.RegistrationDecision{
		RegistrationID: req.ID,
		Username:       req.Username,
		Email:          req.Email,
		Status:         domain.RegistrationApproved,
		UserID:         user.ID,
		ProcessedBy:    admin.UserID,
		ProcessedAt:    processedAt,
	})

	s.log.Info().
		Str("registration_id", req.ID).
		Str("user_id", user.ID).
		Str("admin_id", admin.UserID).
		Msg("registration approved")

	return &ports.ApprovalResult{
		RegistrationID: req.ID,
		UserID:         user.ID,
		Username:       user.Username,
		TempPassword:   s.cfg.TempPassword,
	}, nil
}

// Reject marks a pending request rejected with the given reason. No account is created.
func (s *RegistrationService) Reject(ctx context.Context, id, reason string, admin *domain.Claims) error {
	if !admin.IsAdmin() {
		return domain.ErrForbidden
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = DefaultRejectReason
	}
	processedAt := s.now().UTC()

	var req *domain.RegistrationRequest
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos ports.Repositories) error {
		var err error
		req, err = repos.Registrations().LockByID(ctx, id)
		if err != nil {
			return err
		}
		if !req.Status.CanTransitionTo(domain.RegistrationRejected) {
			return domain.ErrRegistrationProcessed
		}
		return repos.Registrations().UpdateStatus(ctx, req.ID, ports.StatusChange{
			From:        domain.RegistrationPending,
			To:          domain.RegistrationRejected,
			ProcessedAt: processedAt,
			ProcessedBy: admin.UserID,
			Notes:       reason,
		})
	})
	if err != nil {
		return fmt.Errorf("reject registration: %w", err)
	}

	s.record(ctx, domain.AuditEntry{
		RegistrationID: req.ID,
		Action:         domain.AuditRejected,
		Actor:          admin.UserID,
		Username:       req.Username,
		Notes:          reason,
		At:             processedAt,
	})
	s.publish(ctx, domain.RegistrationDecision{
		RegistrationID: req.ID,
		Username:       req.Username,
		Email:          req.Email,
		Status:         domain.RegistrationRejected,
		Reason:         reason,
		ProcessedBy:    admin.UserID,
		ProcessedAt:    processedAt,
	})

	s.log.Info().Str("registration_id", req.ID).Str("admin_id", admin.UserID).Msg("registration rejected")
	return nil
}

// record appends to the audit trail. Failures are logged only.
func (s *RegistrationService) record(ctx context.Context, entry domain.AuditEntry) {
	if err := s.audit.Append(ctx, entry); err != nil {
		s.log.Warn().Err(err).Str("registration_id", entry.RegistrationID).Msg("failed to write audit entry")
	}
}

// publish notifies downstream consumers. Failures are logged only.
func (s *RegistrationService) publish(ctx context.Context, d domain.RegistrationDecision) {
	if err := s.notifier.PublishDecision(ctx, d); err != nil {
		s.log.Warn().Err(err).Str("registration_id", d.RegistrationID).Msg("failed to publish decision")
	}
}
