package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/pubfit/membership-api/internal/api/metrics"
	"github.com/pubfit/membership-api/internal/core/domain"
)

// Context keys set by Auth.
const (
	ContextClaims   = "claims"
	ContextUserID   = "user_id"
	ContextUsername = "username"
	ContextRole     = "role"
)

// TokenDecoder verifies a bearer token and returns its claims.
type TokenDecoder interface {
	Decode(token string) (*domain.Claims, error)
}

// Auth validates the bearer token and injects its claims into the context.
// Every failure is reported as 401; expired and invalid tokens keep distinct errors.
func Auth(decoder TokenDecoder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				metrics.TokenRejectionsTotal.WithLabelValues("missing").Inc()
				return domain.ErrMissingToken
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				metrics.TokenRejectionsTotal.WithLabelValues("invalid").Inc()
				return domain.ErrTokenInvalid
			}

			claims, err := decoder.Decode(strings.TrimSpace(parts[1]))
			if err != nil {
				reason := "invalid"
				if errors.Is(err, domain.ErrTokenExpired) {
					reason = "expired"
				}
				metrics.TokenRejectionsTotal.WithLabelValues(reason).Inc()
				return err
			}

			c.Set(ContextClaims, claims)
			c.Set(ContextUserID, claims.UserID)
			c.Set(ContextUsername, claims.Username)
			c.Set(ContextRole, claims.Role)

			return next(c)
		}
	}
}
