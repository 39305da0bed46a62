package domain

import "time"

// AuditAction names an admin decision recorded in the audit trail.
type AuditAction string

const (
	AuditApproved        AuditAction = "approved"
	AuditRejected        AuditAction = "rejected"
	AuditApprovalRefused AuditAction = "approval_refused"
)

// AuditEntry records one admin action on a registration request.
type AuditEntry struct {
	RegistrationID string
	Action         AuditAction
	Actor          string
	Username       string
	Notes          string
	At             time.Time
}
