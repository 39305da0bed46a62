package domain

import "time"

// RegistrationStatus represents the lifecycle state of a join request.
type RegistrationStatus string

const (
	RegistrationPending  RegistrationStatus = "pending"
	RegistrationApproved RegistrationStatus = "approved"
	RegistrationRejected RegistrationStatus = "rejected"
)

// Approved and rejected are terminal: nothing leaves them.
var registrationTransitions = map[RegistrationStatus][]RegistrationStatus{
	RegistrationPending: {RegistrationApproved, RegistrationRejected},
}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s RegistrationStatus) CanTransitionTo(next RegistrationStatus) bool {
	for _, allowed := range registrationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (s RegistrationStatus) Terminal() bool {
	return len(registrationTransitions[s]) == 0
}

// RegistrationRequest is a prospective member's application awaiting admin review.
// Requests are never deleted.
type RegistrationRequest struct {
	ID            string             `json:"registration_id"`
	Username      string             `json:"username"`
	PhoneNo       string             `json:"phone_no"`
	Email         string             `json:"email_id"`
	Message       string             `json:"message"`
	PreferredRole string             `json:"preferred_role"`
	DeviceID      string             `json:"device_id,omitempty"`
	Gender        string             `json:"gender"`
	DOB           string             `json:"dob"`
	Height        *int               `json:"height,omitempty"`
	Weight        *int               `json:"weight,omitempty"`
	Status        RegistrationStatus `json:"status"`
	CreatedAt     time.Time          `json:"created_at"`
	ProcessedAt   *time.Time         `json:"processed_at,omitempty"`
	ProcessedBy   string             `json:"processed_by,omitempty"`
	Notes         string             `json:"notes,omitempty"`
}

// RegistrationDecision is the outward notification of a processed request.
// It never carries credentials.
type RegistrationDecision struct {
	RegistrationID string             `json:"registration_id"`
	Username       string             `json:"username"`
	Email          string             `json:"email_id"`
	Status         RegistrationStatus `json:"status"`
	UserID         string             `json:"user_id,omitempty"`
	Reason         string             `json:"reason,omitempty"`
	ProcessedBy    string             `json:"processed_by"`
	ProcessedAt    time.Time          `json:"processed_at"`
}
