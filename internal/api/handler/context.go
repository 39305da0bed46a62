package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/pubfit/membership-api/internal/api/middleware"
	"github.com/pubfit/membership-api/internal/core/domain"
)

// ctxClaims extracts the claims injected by the Auth middleware. Self-service
// handlers take the acting user id from here, never from the request body.
func ctxClaims(c echo.Context) (*domain.Claims, error) {
	claims, _ := c.Get(middleware.ContextClaims).(*domain.Claims)
	if claims == nil || claims.UserID == "" {
		return nil, domain.ErrMissingToken
	}
	return claims, nil
}
