package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pubfit/membership-api/internal/api/metrics"
	"github.com/pubfit/membership-api/internal/core/domain"
	"github.com/pubfit/membership-api/internal/core/ports"
)

// RegistrationHandler serves the join-request workflow.
type RegistrationHandler struct {
	service ports.RegistrationService
}

func NewRegistrationHandler(service ports.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{service: service}
}

// Submit handles POST /api/contact-admin.
//
// @Summary      Submit a registration request
// @Tags         registration
// @Accept       json
// @Produce      json
// @Param        body  body      contactAdminRequest  true  "Applicant details"
// @Success      201   {object}  contactAdminResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/contact-admin [post]
func (h *RegistrationHandler) Submit(c echo.Context) error {
	var req contactAdminRequest
	if err := c.Bind(&req); err != nil {
		metrics.RegistrationSubmissionsTotal.WithLabelValues("invalid").Inc()
		return errInvalidPayload
	}

	created, err := h.service.Submit(c.Request().Context(), req.toInput())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			metrics.RegistrationSubmissionsTotal.WithLabelValues("invalid").Inc()
		case errors.Is(err, domain.ErrDuplicateSubmission):
			metrics.RegistrationSubmissionsTotal.WithLabelValues("duplicate").Inc()
		default:
			metrics.RegistrationSubmissionsTotal.WithLabelValues("error").Inc()
		}
		return err
	}
	metrics.RegistrationSubmissionsTotal.WithLabelValues("accepted").Inc()

	return c.JSON(http.StatusCreated, contactAdminResponse{
		Status:         statusSuccess,
		Message:        "Your registration request has been submitted successfully! We will review it and contact you soon.",
		RegistrationID: created.ID,
	})
}

// ListPending handles GET /api/pending-requests.
//
// @Summary      List pending registration requests (newest first)
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  pendingRequestsResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /api/pending-requests [get]
func (h *RegistrationHandler) ListPending(c echo.Context) error {
	reqs, err := h.service.ListPending(c.Request().Context())
	if err != nil {
		return err
	}
	if reqs == nil {
		reqs = []*domain.RegistrationRequest{}
	}
	return c.JSON(http.StatusOK, pendingRequestsResponse{Status: statusSuccess, Requests: reqs})
}

// Approve handles POST /api/approve-request/:id.
//
// @Summary      Approve a registration request
// @Description  Creates the account and returns its temporary password once.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Registration ID"
// @Success      200  {object}  approveResponse
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /api/approve-request/{id} [post]
func (h *RegistrationHandler) Approve(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	res, err := h.service.Approve(c.Request().Context(), c.Param("id"), claims)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			metrics.RegistrationDecisionsTotal.WithLabelValues("refused").Inc()
		}
		return err
	}
	metrics.RegistrationDecisionsTotal.WithLabelValues("approved").Inc()

	return c.JSON(http.StatusOK, approveResponse{
		Status:       statusSuccess,
		Message:      "Registration approved and user account created successfully",
		UserID:       res.UserID,
		Username:     res.Username,
		TempPassword: res.TempPassword,
	})
}

// Reject handles POST /api/reject-request/:id.
//
// @Summary      Reject a registration request
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true   "Registration ID"
// @Param        body  body      rejectRequest  false  "Rejection reason"
// @Success      200   {object}  messageResponse
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/reject-request/{id} [post]
func (h *RegistrationHandler) Reject(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req rejectRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload
	}

	if err := h.service.Reject(c.Request().Context(), c.Param("id"), req.Reason, claims); err != nil {
		return err
	}
	metrics.RegistrationDecisionsTotal.WithLabelValues("rejected").Inc()

	return c.JSON(http.StatusOK, success("Registration request rejected successfully"))
}
