package middleware

import (
	"net/http"
	"slices"

	"github.com/labstack/echo/v4"
)

// RequireRole lets a request through only when the session principal is
// authenticated and holds one of roles. Anyone else gets 403.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p := PrincipalFrom(c)
			if !p.Authenticated() || !slices.Contains(roles, p.Role) {
				return c.JSON(http.StatusForbidden, errorBody("access denied"))
			}
			return next(c)
		}
	}
}
