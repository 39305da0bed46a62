package handler

import (
	"context"
	"io"
	"net/http/httptest"

	"github.com/labstack/echo/v4"

	"github.com/pubfit/membership-api/internal/api/middleware"
	"github.com/pubfit/membership-api/internal/core/domain"
	"github.com/pubfit/membership-api/internal/core/ports"
)

var (
	memberClaims = &domain.Claims{UserID: "user-1", Username: "alice", Role: domain.RoleUser}
	adminClaims  = &domain.Claims{UserID: "admin-1", Username: "PubFit", Role: domain.RoleAdmin}
)

// newContext builds an echo context for the request, optionally authenticated as claims.
func newContext(method, target string, body io.Reader, contentType string, claims *domain.Claims) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if claims != nil {
		c.Set(middleware.ContextClaims, claims)
		c.Set(middleware.ContextUserID, claims.UserID)
		c.Set(middleware.ContextRole, claims.Role)
	}
	return c, rec
}

type stubAuthService struct {
	createFn   func(ctx context.Context, in ports.CreateUserInput) (*domain.User, error)
	loginFn    func(ctx context.Context, username, password string) (*ports.LoginResult, error)
	passwordFn func(ctx context.Context, in ports.ChangePasswordInput) error
}

func (s *stubAuthService) CreateUser(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	return s.createFn(ctx, in)
}

func (s *stubAuthService) VerifyCredentials(context.Context, string, string) (*ports.VerifiedUser, error) {
	panic("not used")
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) ChangePassword(ctx context.Context, in ports.ChangePasswordInput) error {
	return s.passwordFn(ctx, in)
}

func (s *stubAuthService) EnsureAdmin(context.Context) error { return nil }

type stubRegistrationService struct {
	submitFn  func(ctx context.Context, in ports.SubmitRegistrationInput) (*domain.RegistrationRequest, error)
	pendingFn func(ctx context.Context) ([]*domain.RegistrationRequest, error)
	approveFn func(ctx context.Context, id string, admin *domain.Claims) (*ports.ApprovalResult, error)
	rejectFn  func(ctx context.Context, id, reason string, admin *domain.Claims) error
}

func (s *stubRegistrationService) Submit(ctx context.Context, in ports.SubmitRegistrationInput) (*domain.RegistrationRequest, error) {
	return s.submitFn(ctx, in)
}

func (s *stubRegistrationService) ListPending(ctx context.Context) ([]*domain.RegistrationRequest, error) {
	return s.pendingFn(ctx)
}

func (s *stubRegistrationService) Approve(ctx context.Context, id string, admin *domain.Claims) (*ports.ApprovalResult, error) {
	return s.approveFn(ctx, id, admin)
}

func (s *stubRegistrationService) Reject(ctx context.Context, id, reason string, admin *domain.Claims) error {
	return s.rejectFn(ctx, id, reason, admin)
}

type stubMemberService struct {
	ports.MemberService // unimplemented methods panic

	profileFn func(ctx context.Context, userID string) (*ports.UserView, error)
	updateFn  func(ctx context.Context, userID string, in ports.ProfileInput) error
	goalsFn   func(ctx context.Context, userID string) (domain.Goals, error)
	setGoalFn func(ctx context.Context, userID string, in ports.GoalsInput) error
	nutriFn   func(ctx context.Context, userID, date string) (*domain.NutritionEntry, error)
	saveFn    func(ctx context.Context, userID string, in ports.NutritionInput) error
	imageFn   func(ctx context.Context, userID string, img ports.ImageObject) (string, error)
}

func (s *stubMemberService) Profile(ctx context.Context, userID string) (*ports.UserView, error) {
	return s.profileFn(ctx, userID)
}

func (s *stubMemberService) UpdateProfile(ctx context.Context, userID string, in ports.ProfileInput) error {
	return s.updateFn(ctx, userID, in)
}

func (s *stubMemberService) Goals(ctx context.Context, userID string) (domain.Goals, error) {
	return s.goalsFn(ctx, userID)
}

func (s *stubMemberService) UpdateGoals(ctx context.Context, userID string, in ports.GoalsInput) error {
	return s.setGoalFn(ctx, userID, in)
}

func (s *stubMemberService) Nutrition(ctx context.Context, userID, date string) (*domain.NutritionEntry, error) {
	return s.nutriFn(ctx, userID, date)
}

func (s *stubMemberService) SaveNutrition(ctx context.Context, userID string, in ports.NutritionInput) error {
	return s.saveFn(ctx, userID, in)
}

func (s *stubMemberService) UpdateProfileImage(ctx context.Context, userID string, img ports.ImageObject) (string, error) {
	return s.imageFn(ctx, userID, img)
}

type stubAdminService struct {
	ports.AdminService

	listFn   func(ctx context.Context) ([]*ports.UserView, error)
	getFn    func(ctx context.Context, id string) (*ports.UserView, error)
	detailFn func(ctx context.Context, in ports.UpdateUserDetailsInput) (string, error)
	deleteFn func(ctx context.Context, id string) (string, error)
	statsFn  func(ctx context.Context) (domain.DashboardStats, error)
}

func (s *stubAdminService) ListUsers(ctx context.Context) ([]*ports.UserView, error) {
	return s.listFn(ctx)
}

func (s *stubAdminService) GetUser(ctx context.Context, id string) (*ports.UserView, error) {
	return s.getFn(ctx, id)
}

func (s *stubAdminService) UpdateUserDetails(ctx context.Context, in ports.UpdateUserDetailsInput) (string, error) {
	return s.detailFn(ctx, in)
}

func (s *stubAdminService) DeleteUser(ctx context.Context, id string) (string, error) {
	return s.deleteFn(ctx, id)
}

func (s *stubAdminService) DashboardStats(ctx context.Context) (domain.DashboardStats, error) {
	return s.statsFn(ctx)
}
