package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/pubfit/membership-api/internal/core/domain"
)

// failureResponse is the canonical error envelope for all API errors.
type failureResponse struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

// errorMapping ties a domain sentinel to its HTTP status. detail selects whether
// the wrapped error text (e.g. which field failed validation) reaches the client.
type errorMapping struct {
	target error
	code   int
	detail bool
}

var errorMappings = []errorMapping{
	{domain.ErrValidation, http.StatusBadRequest, true},

	{domain.ErrMissingToken, http.StatusUnauthorized, false},
	{domain.ErrTokenExpired, http.StatusUnauthorized, false},
	{domain.ErrTokenInvalid, http.StatusUnauthorized, false},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, false},

	{domain.ErrForbidden, http.StatusForbidden, false},
	{domain.ErrSubscriptionExpired, http.StatusForbidden, false},
	{domain.ErrCannotDeleteAdmin, http.StatusForbidden, false},

	{domain.ErrUserNotFound, http.StatusNotFound, false},
	{domain.ErrRegistrationNotFound, http.StatusNotFound, false},

	{domain.ErrUserExists, http.StatusConflict, false},
	{domain.ErrRegistrationProcessed, http.StatusConflict, false},
	{domain.ErrDuplicateSubmission, http.StatusConflict, false},

	{domain.ErrImageStoreUnavailable, http.StatusServiceUnavailable, false},
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes.
//   - Logs unexpected and storage errors without leaking details to the client.
//   - Renders a consistent JSON envelope: {"status": "failure", "reason": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, reason := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, failureResponse{Status: "failure", Reason: reason})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, unknown routes, body limits).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Internal != nil {
			log.Debug().Err(he.Internal).Str("path", c.Path()).Msg("http error")
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			if m.detail {
				return m.code, err.Error()
			}
			return m.code, m.target.Error()
		}
	}

	// Storage failures and anything unexpected: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	if errors.Is(err, domain.ErrStorage) {
		return http.StatusInternalServerError, domain.ErrStorage.Error()
	}
	return http.StatusInternalServerError, "internal server error"
}
