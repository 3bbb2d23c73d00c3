package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/offranel/storefront/internal/core/domain"
)

// SessionCookie carries the signed session token.
const SessionCookie = "session"

const principalKey = "principal"

// TokenParser verifies a session token and returns the principal it carries.
type TokenParser interface {
	Parse(raw string) (domain.Principal, error)
}

// Session resolves the caller once per request from the session cookie or a
// Bearer token. A missing or invalid token leaves the caller anonymous; it is
// up to route guards to refuse.
func Session(parser TokenParser) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var p domain.Principal
			if raw := sessionToken(c); raw != "" {
				if parsed, err := parser.Parse(raw); err == nil {
					p = parsed
				}
			}
			SetPrincipal(c, p)
			return next(c)
		}
	}
}

// RequireSession refuses anonymous callers with 401.
func RequireSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !PrincipalFrom(c).Authenticated() {
				return c.JSON(http.StatusUnauthorized, errorBody("authentication required"))
			}
			return next(c)
		}
	}
}

// PrincipalFrom returns the caller resolved by Session, or the anonymous
// principal when the middleware did not run.
func PrincipalFrom(c echo.Context) domain.Principal {
	p, _ := c.Get(principalKey).(domain.Principal)
	return p
}

// SetPrincipal stores p as the caller for the rest of the request.
func SetPrincipal(c echo.Context, p domain.Principal) {
	c.Set(principalKey, p)
}

func sessionToken(c echo.Context) string {
	if authHeader := c.Request().Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie.Value
	}
	return ""
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}
