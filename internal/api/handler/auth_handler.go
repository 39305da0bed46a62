package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pubfit/membership-api/internal/api/metrics"
	"github.com/pubfit/membership-api/internal/core/domain"
	"github.com/pubfit/membership-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login authenticates a member and returns a session token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		metrics.LoginsTotal.WithLabelValues("invalid_request").Inc()
		return errInvalidPayload
	}
	if err := c.Validate(&req); err != nil {
		metrics.LoginsTotal.WithLabelValues("invalid_request").Inc()
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	metrics.LoginsTotal.WithLabelValues(loginResult(err)).Inc()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{
		Status:                  statusSuccess,
		Reason:                  "User validated successfully",
		Token:                   res.Token,
		UserID:                  res.User.ID,
		Username:                res.User.Username,
		Role:                    res.User.Role,
		SubscriptionEndDate:     res.User.SubscriptionEnd,
		NoDaysToSubscriptionEnd: res.RemainingDays,
	})
}

func loginResult(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrUserNotFound):
		return "unknown_user"
	case errors.Is(err, domain.ErrSubscriptionExpired):
		return "subscription_expired"
	case errors.Is(err, domain.ErrValidation):
		return "invalid_request"
	default:
		return "error"
	}
}

// Register creates a user account directly (admin only).
//
// @Summary      Create a user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "User details"
// @Success      201   {object}  createUserResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload
	}

	user, err := h.authService.CreateUser(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}
	metrics.UsersCreatedTotal.Inc()

	return c.JSON(http.StatusCreated, createUserResponse{
		Status:  statusSuccess,
		Message: "User registered successfully",
		UserID:  user.ID,
	})
}

// UpdatePassword changes the caller's own password.
//
// @Summary      Change own password
// @Tags         self-service
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updatePasswordRequest  true  "Current and new password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/update-password [put]
func (h *AuthHandler) UpdatePassword(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req updatePasswordRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload
	}

	err = h.authService.ChangePassword(c.Request().Context(), ports.ChangePasswordInput{
		UserID:          claims.UserID,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success("Password updated successfully"))
}
