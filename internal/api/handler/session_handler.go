package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/offranel/storefront/internal/api/middleware"
	"github.com/offranel/storefront/internal/core/domain"
	"github.com/offranel/storefront/internal/core/ports"
)

// SessionHandler opens and closes browser sessions.
type SessionHandler struct {
	service ports.SessionService
	ttl     time.Duration
	secure  bool
}

func NewSessionHandler(service ports.SessionService, ttl time.Duration, secure bool) *SessionHandler {
	return &SessionHandler{service: service, ttl: ttl, secure: secure}
}

// Establish handles POST /session.
//
// @Summary      Establish a session from an identity assertion
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      establishSessionRequest  true  "Identity assertion"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /session [post]
func (h *SessionHandler) Establish(c echo.Context) error {
	var req establishSessionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	res, err := h.service.Establish(c.Request().Context(), domain.IdentityAssertion{
		UID:   req.UID,
		Name:  req.Name,
		Email: req.Email,
		Photo: req.Photo,
	})
	if err != nil {
		return err
	}

	c.SetCookie(h.cookie(res.Token, h.ttl))
	return c.JSON(http.StatusOK, sessionResponse{
		Status: "ok",
		UID:    res.Principal.UID,
		Name:   res.Principal.DisplayName,
		Role:   res.Principal.Role,
		Token:  res.Token,
	})
}

// Logout handles POST /session/logout.
//
// @Summary      Clear the session cookie
// @Tags         session
// @Produce      json
// @Success      200  {object}  statusResponse
// @Router       /session/logout [post]
func (h *SessionHandler) Logout(c echo.Context) error {
	c.SetCookie(h.cookie("", -1))
	return c.JSON(http.StatusOK, statusResponse{Status: "logged_out"})
}

func (h *SessionHandler) cookie(value string, ttl time.Duration) *http.Cookie {
	ck := &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	}
	if ttl < 0 {
		ck.MaxAge = -1
		ck.Expires = time.Unix(0, 0)
		return ck
	}
	ck.MaxAge = int(ttl.Seconds())
	ck.Expires = time.Now().Add(ttl)
	return ck
}
