package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/offranel/storefront/internal/core/domain"
	"github.com/offranel/storefront/internal/core/ports"
)

const (
	// GuestCookie remembers the subscriber id handed to an anonymous browser.
	GuestCookie = "guest_id"

	guestCookieTTL     = 365 * 24 * time.Hour
	maxDescriptorBytes = 8 << 10
)

// SubscriptionHandler registers browser push endpoints.
type SubscriptionHandler struct {
	service ports.SubscriptionService
	secure  bool
}

func NewSubscriptionHandler(service ports.SubscriptionService, secure bool) *SubscriptionHandler {
	return &SubscriptionHandler{service: service, secure: secure}
}

// Subscribe handles POST /subscriptions. The body is the PushSubscription
// JSON produced by the browser and is stored as-is.
//
// @Summary      Register a push subscription
// @Tags         subscriptions
// @Accept       json
// @Produce      json
// @Param        body  body      object  true  "Browser PushSubscription JSON"
// @Success      201   {object}  subscribeResponse
// @Failure      400   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /subscriptions [post]
func (h *SubscriptionHandler) Subscribe(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxDescriptorBytes+1))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if len(body) > maxDescriptorBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "subscription too large")
	}
	if !json.Valid(body) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	var guestID string
	if ck, err := c.Cookie(GuestCookie); err == nil {
		guestID = ck.Value
	}

	p := principal(c)
	id, err := h.service.Subscribe(c.Request().Context(), ports.SubscribeInput{
		Principal:  p,
		GuestID:    guestID,
		Descriptor: domain.EndpointDescriptor(body),
	})
	if err != nil {
		return err
	}

	if !p.Authenticated() {
		c.SetCookie(&http.Cookie{
			Name:     GuestCookie,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			Secure:   h.secure,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   int(guestCookieTTL.Seconds()),
		})
	}

	return c.JSON(http.StatusCreated, subscribeResponse{Status: "subscribed", SubscriberID: id})
}
