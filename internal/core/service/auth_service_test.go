package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/pubfit/membership-api/internal/core/domain"
	"github.com/pubfit/membership-api/internal/core/ports"
)

func newAuthSvc(store *memStore) (*AuthService, *TokenService) {
	tokens := NewTokenService("secret", time.Hour)
	tokens.now = fixedClock
	svc := NewAuthService(store, tokens, AuthConfig{
		BcryptCost:    testCost,
		AdminUsername: "PubFit",
		AdminPassword: "PubFit@123",
		AdminPhone:    "9876543210",
	}, zerolog.Nop())
	svc.now = fixedClock
	return svc, tokens
}

func validCreateInput(username, password string) ports.CreateUserInput {
	return ports.CreateUserInput{
		Username:        username,
		Password:        password,
		Role:            domain.RoleUser,
		PhoneNo:         "555-0100",
		SubscriptionEnd: "2026-04-09",
		Gender:          "female",
		DOB:             "1994-02-11",
	}
}

func TestAuthService_CreateThenVerify(t *testing.T) {
	svc, _ := newAuthSvc(newMemStore())
	ctx := context.Background()

	pairs := map[string]string{"alice": "pass123", "bob": "s3cr3t!!", "carol_x": "correct horse battery"}
	for username, password := range pairs {
		user, err := svc.CreateUser(ctx, validCreateInput(username, password))
		if err != nil {
			t.Fatalf("CreateUser(%s): %v", username, err)
		}
		if user.PasswordHash == password || user.PasswordHash == "" {
			t.Fatalf("password for %s was not hashed", username)
		}

		got, err := svc.VerifyCredentials(ctx, username, password)
		if err != nil {
			t.Fatalf("VerifyCredentials(%s): %v", username, err)
		}
		if got.ID != user.ID || got.Role != domain.RoleUser || got.SubscriptionEnd != "2026-04-09" {
			t.Fatalf("unexpected verified user: %+v", got)
		}

		_, err = svc.VerifyCredentials(ctx, username, password+"x")
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("wrong password for %s: expected ErrInvalidCredentials, got %v", username, err)
		}
		if errors.Is(err, domain.ErrUserNotFound) {
			t.Fatalf("wrong password must not be reported as unknown user")
		}
	}
}

func TestAuthService_VerifyUnknownUser(t *testing.T) {
	svc, _ := newAuthSvc(newMemStore())
	if _, err := svc.VerifyCredentials(context.Background(), "ghost", "pass123"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_CreateUser_Duplicate(t *testing.T) {
	svc, _ := newAuthSvc(newMemStore())
	ctx := context.Background()

	if _, err := svc.CreateUser(ctx, validCreateInput("bob", "pass123")); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := svc.CreateUser(ctx, validCreateInput("bob", "other1")); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_CreateUser_Validation(t *testing.T) {
	svc, _ := newAuthSvc(newMemStore())
	ctx := context.Background()

	cases := map[string]func(in *ports.CreateUserInput){
		"short username": func(in *ports.CreateUserInput) { in.Username = "ab" },
		"short password": func(in *ports.CreateUserInput) { in.Password = "12345" },
		"role not on allow-list": func(in *ports.CreateUserInput) {
			in.Role = "superuser"
		},
		"empty role":     func(in *ports.CreateUserInput) { in.Role = "" },
		"bad gender":     func(in *ports.CreateUserInput) { in.Gender = "unknown" },
		"bad dob":        func(in *ports.CreateUserInput) { in.DOB = "11/02/1994" },
		"bad sub end":    func(in *ports.CreateUserInput) { in.SubscriptionEnd = "soon" },
		"negative goal":  func(in *ports.CreateUserInput) { in.Goals.Calories = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := validCreateInput("dave", "pass123")
			mutate(&in)
			if _, err := svc.CreateUser(ctx, in); !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, tokens := newAuthSvc(newMemStore())
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, validCreateInput("carol", "s3cret"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	res, err := svc.Login(ctx, "carol", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if res.RemainingDays != 30 {
		t.Fatalf("expected 30 remaining days, got %d", res.RemainingDays)
	}

	claims, err := tokens.Decode(res.Token)
	if err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	if claims.UserID != user.ID || claims.Username != "carol" || claims.Role != domain.RoleUser {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestAuthService_Login_LastDayOfSubscription(t *testing.T) {
	svc, _ := newAuthSvc(newMemStore())
	in := validCreateInput("erin", "pass123")
	in.SubscriptionEnd = "2026-03-10"
	if _, err := svc.CreateUser(context.Background(), in); err != nil {
		t.Fatalf("create: %v", err)
	}

	res, err := svc.Login(context.Background(), "erin", "pass123")
	if err != nil {
		t.Fatalf("login on last day should succeed: %v", err)
	}
	if res.RemainingDays != 0 {
		t.Fatalf("expected 0 remaining days, got %d", res.RemainingDays)
	}
}

func TestAuthService_Login_SubscriptionExpired(t *testing.T) {
	svc, _ := newAuthSvc(newMemStore())
	ctx := context.Background()

	for username, end := range map[string]string{"frank": "2026-03-09", "gina": ""} {
		in := validCreateInput(username, "pass123")
		in.SubscriptionEnd = end
		if _, err := svc.CreateUser(ctx, in); err != nil {
			t.Fatalf("create %s: %v", username, err)
		}
		res, err := svc.Login(ctx, username, "pass123")
		if !errors.Is(err, domain.ErrSubscriptionExpired) {
			t.Fatalf("%s: expected ErrSubscriptionExpired, got %v", username, err)
		}
		if res != nil {
			t.Fatalf("%s: no token may be issued for an expired subscription", username)
		}
	}
}

func TestAuthService_Login_Failures(t *testing.T) {
	svc, _ := newAuthSvc(newMemStore())
	ctx := context.Background()
	_, _ = svc.CreateUser(ctx, validCreateInput("dave", "goodpass"))

	if _, err := svc.Login(ctx, "dave", "badpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(ctx, "ghost", "pass"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := svc.Login(ctx, "", ""); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	svc, _ := newAuthSvc(newMemStore())
	ctx := context.Background()
	user, _ := svc.CreateUser(ctx, validCreateInput("hank", "oldpass"))

	err := svc.ChangePassword(ctx, ports.ChangePasswordInput{UserID: user.ID, CurrentPassword: "wrong", NewPassword: "newpass"})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.VerifyCredentials(ctx, "hank", "oldpass"); err != nil {
		t.Fatalf("old password must still work after a failed change: %v", err)
	}

	err = svc.ChangePassword(ctx, ports.ChangePasswordInput{UserID: user.ID, CurrentPassword: "oldpass", NewPassword: "newpass"})
	if err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if _, err := svc.VerifyCredentials(ctx, "hank", "newpass"); err != nil {
		t.Fatalf("new password rejected: %v", err)
	}
	if _, err := svc.VerifyCredentials(ctx, "hank", "oldpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("old password still accepted: %v", err)
	}
}

func TestAuthService_ChangePassword_Validation(t *testing.T) {
	svc, _ := newAuthSvc(newMemStore())
	err := svc.ChangePassword(context.Background(), ports.ChangePasswordInput{UserID: "user-1", CurrentPassword: "", NewPassword: "abc"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	err = svc.ChangePassword(context.Background(), ports.ChangePasswordInput{UserID: "missing", CurrentPassword: "x", NewPassword: "abcdef"})
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_OverlongPasswordIsValidationError(t *testing.T) {
	svc, _ := newAuthSvc(newMemStore())
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, validCreateInput("alice", strings.Repeat("p", 80)))
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for 80-byte password, got %v", err)
	}

	// 40 runes pass the max=72 tag but encode to 80 bytes.
	_, err = svc.CreateUser(ctx, validCreateInput("alice", strings.Repeat("é", 40)))
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for 80-byte multi-byte password, got %v", err)
	}

	user, err := svc.CreateUser(ctx, validCreateInput("alice", strings.Repeat("p", 72)))
	if err != nil {
		t.Fatalf("72-byte password must be accepted: %v", err)
	}

	err = svc.ChangePassword(ctx, ports.ChangePasswordInput{
		UserID:          user.ID,
		CurrentPassword: strings.Repeat("p", 72),
		NewPassword:     strings.Repeat("n", 80),
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for 80-byte new password, got %v", err)
	}
	if _, err := svc.VerifyCredentials(ctx, "alice", strings.Repeat("p", 72)); err != nil {
		t.Fatalf("password must be unchanged: %v", err)
	}
}

func TestAuthService_EnsureAdmin_Idempotent(t *testing.T) {
	store := newMemStore()
	svc, _ := newAuthSvc(store)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := svc.EnsureAdmin(ctx); err != nil {
			t.Fatalf("EnsureAdmin run %d: %v", i, err)
		}
	}
	users, _ := store.Users().List(ctx)
	if len(users) != 1 {
		t.Fatalf("expected exactly one admin, got %d users", len(users))
	}
	admin := users[0]
	if admin.Role != domain.RoleAdmin || admin.Username != "PubFit" || admin.SubscriptionEnd != "9999-12-31" {
		t.Fatalf("unexpected admin record: %+v", admin)
	}
	if admin.Goals != domain.DefaultGoals {
		t.Fatalf("unexpected admin goals: %+v", admin.Goals)
	}

	res, err := svc.Login(ctx, "PubFit", "PubFit@123")
	if err != nil {
		t.Fatalf("admin login: %v", err)
	}
	if res.User.Role != domain.RoleAdmin {
		t.Fatalf("expected admin role, got %s", res.User.Role)
	}
}
