package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/offranel/storefront/internal/core/ports"
)

// ProfileHandler serves profile pages, the admin dashboard figures and the
// last announcement.
type ProfileHandler struct {
	service ports.ProfileService
}

func NewProfileHandler(service ports.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// Me handles GET /users/me.
//
// @Summary      Current user's profile
// @Tags         users
// @Produce      json
// @Security     SessionCookie
// @Success      200  {object}  meResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/me [get]
func (h *ProfileHandler) Me(c echo.Context) error {
	user, err := h.service.Get(c.Request().Context(), principal(c).UID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, meResponse{profileResponse: toProfileResponse(user), Email: user.Email})
}

// Get handles GET /users/:uid.
//
// @Summary      Public profile of a user
// @Tags         users
// @Produce      json
// @Param        uid  path      string  true  "User id"
// @Success      200  {object}  profileResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/{uid} [get]
func (h *ProfileHandler) Get(c echo.Context) error {
	uid := c.Param("uid")
	if uid == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "uid is required")
	}
	user, err := h.service.Get(c.Request().Context(), uid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProfileResponse(user))
}

// Stats handles GET /admin/stats.
//
// @Summary      Store totals for the admin dashboard
// @Tags         admin
// @Produce      json
// @Security     SessionCookie
// @Success      200  {object}  statsResponse
// @Failure      403  {object}  errorResponse
// @Failure      503  {object}  errorResponse
// @Router       /admin/stats [get]
func (h *ProfileHandler) Stats(c echo.Context) error {
	stats, err := h.service.Stats(c.Request().Context(), principal(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, statsResponse{
		TotalUsers:       stats.TotalUsers,
		TotalProducts:    stats.TotalProducts,
		TotalSubscribers: stats.TotalSubscribers,
	})
}

// LatestAnnouncement handles GET /notifications/latest.
//
// @Summary      Most recent broadcast
// @Tags         notifications
// @Produce      json
// @Success      200  {object}  announcementResponse
// @Failure      404  {object}  errorResponse
// @Router       /notifications/latest [get]
func (h *ProfileHandler) LatestAnnouncement(c echo.Context) error {
	intent, err := h.service.LatestAnnouncement(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, announcementResponse{
		Title:  intent.Title,
		Body:   intent.Body,
		URL:    intent.URL,
		SentAt: intent.SentAt.UTC(),
	})
}
