package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/offranel/storefront/internal/api/middleware"
	"github.com/offranel/storefront/internal/core/domain"
)

// principal returns the caller resolved by the Session middleware. Handlers
// pass it explicitly into every service call; services re-check the role.
func principal(c echo.Context) domain.Principal {
	return middleware.PrincipalFrom(c)
}
