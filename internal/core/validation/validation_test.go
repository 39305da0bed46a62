package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/pubfit/membership-api/internal/core/domain"
)

type sample struct {
	Username string `validate:"required,min=3,max=50"`
	Email    string `validate:"required,email"`
	PhoneNo  string `validate:"required"`
	DOB      string `validate:"required,datetime=2006-01-02"`
	Role     string `json:"preferred_role" validate:"required,oneof=user admin"`
}

func TestStruct_Valid(t *testing.T) {
	s := sample{Username: "alice", Email: "a@x.com", PhoneNo: "555-0100", DOB: "1990-05-01", Role: "user"}
	if err := Struct(s); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestStruct_WrapsErrValidation(t *testing.T) {
	err := Struct(sample{Username: "al", Email: "nope", DOB: "01/05/1990", Role: "owner"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	for _, want := range []string{
		"username must be at least 3 characters",
		"email must be a valid email",
		"phone_no is required",
		"dob must be a date in YYYY-MM-DD format",
		"preferred_role must be one of: user admin",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err.Error(), want)
		}
	}
}

func TestSnakeCase(t *testing.T) {
	cases := map[string]string{
		"Username":        "username",
		"PhoneNo":         "phone_no",
		"DOB":             "dob",
		"UserID":          "user_id",
		"SubscriptionEnd": "subscription_end",
		"NewPassword":     "new_password",
	}
	for in, want := range cases {
		if got := snakeCase(in); got != want {
			t.Errorf("snakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}
