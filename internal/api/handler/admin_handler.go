package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pubfit/membership-api/internal/core/ports"
)

// AdminHandler serves user management and the dashboard.
type AdminHandler struct {
	service ports.AdminService
}

func NewAdminHandler(service ports.AdminService) *AdminHandler {
	return &AdminHandler{service: service}
}

// DashboardStats handles GET /api/dashboard-stats.
//
// @Summary      Subscription dashboard
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dashboardResponse
// @Router       /api/dashboard-stats [get]
func (h *AdminHandler) DashboardStats(c echo.Context) error {
	stats, err := h.service.DashboardStats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dashboardResponse{Status: statusSuccess, DashboardStats: stats})
}

// ListUsers handles GET /api/users.
//
// @Summary      List users ordered by username
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  usersResponse
// @Router       /api/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	views, err := h.service.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	users := make([]userResponse, 0, len(views))
	for _, v := range views {
		users = append(users, toUserResponse(v))
	}
	return c.JSON(http.StatusOK, usersResponse{Status: statusSuccess, Users: users})
}

// GetUser handles GET /api/users/:id.
//
// @Summary      Get a user
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  userEnvelope
// @Failure      404  {object}  map[string]string
// @Router       /api/users/{id} [get]
func (h *AdminHandler) GetUser(c echo.Context) error {
	view, err := h.service.GetUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userEnvelope{Status: statusSuccess, User: toUserResponse(view)})
}

// UpdateUserDetails handles POST /api/update-user-details.
//
// @Summary      Edit a user's account
// @Description  reset_password assigns the configured temporary password and returns it once.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateUserDetailsRequest  true  "Fields to change"
// @Success      200   {object}  updateUserDetailsResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/update-user-details [post]
func (h *AdminHandler) UpdateUserDetails(c echo.Context) error {
	var req updateUserDetailsRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload
	}

	temp, err := h.service.UpdateUserDetails(c.Request().Context(), ports.UpdateUserDetailsInput{
		UserID:          req.UserID,
		ResetPassword:   req.ResetPassword,
		SubscriptionEnd: req.SubscriptionEnd,
		DeviceID:        req.DeviceID,
	})
	if err != nil {
		return err
	}

	resp := updateUserDetailsResponse{Status: statusSuccess, Message: "User details updated successfully"}
	if req.ResetPassword {
		resp.TempPassword = &temp
	}
	return c.JSON(http.StatusOK, resp)
}

// DeleteUser handles DELETE /api/users/:id.
//
// @Summary      Delete a non-admin user and their nutrition log
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	username, err := h.service.DeleteUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success(fmt.Sprintf("User '%s' and all associated data deleted successfully", username)))
}
