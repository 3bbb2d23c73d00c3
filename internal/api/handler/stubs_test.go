package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/offranel/storefront/internal/api/middleware"
	"github.com/offranel/storefront/internal/core/domain"
	"github.com/offranel/storefront/internal/core/ports"
)

type stubSessionService struct {
	establishFn func(ctx context.Context, id domain.IdentityAssertion) (*ports.SessionResult, error)
}

func (s *stubSessionService) Establish(ctx context.Context, id domain.IdentityAssertion) (*ports.SessionResult, error) {
	return s.establishFn(ctx, id)
}

type stubSubscriptionService struct {
	subscribeFn func(ctx context.Context, in ports.SubscribeInput) (string, error)
}

func (s *stubSubscriptionService) Subscribe(ctx context.Context, in ports.SubscribeInput) (string, error) {
	return s.subscribeFn(ctx, in)
}

type stubCatalogService struct {
	items  []*domain.Item
	filter ports.CatalogFilter
}

func (s *stubCatalogService) List(_ context.Context, f ports.CatalogFilter) []*domain.Item {
	s.filter = f
	return s.items
}

func (s *stubCatalogService) Get(_ context.Context, id string) (*domain.Item, error) {
	for _, it := range s.items {
		if it.ID == id {
			return it, nil
		}
	}
	return nil, domain.ErrItemNotFound
}

type stubPublishService struct {
	publishFn func(ctx context.Context, p domain.Principal, in ports.ItemInput) (*domain.Item, error)
	batchFn   func(ctx context.Context, p domain.Principal, in []ports.ItemInput) ([]*domain.Item, error)
	deleteFn  func(ctx context.Context, p domain.Principal, id string) error
}

func (s *stubPublishService) Publish(ctx context.Context, p domain.Principal, in ports.ItemInput) (*domain.Item, error) {
	return s.publishFn(ctx, p, in)
}

func (s *stubPublishService) PublishBatch(ctx context.Context, p domain.Principal, in []ports.ItemInput) ([]*domain.Item, error) {
	return s.batchFn(ctx, p, in)
}

func (s *stubPublishService) Delete(ctx context.Context, p domain.Principal, id string) error {
	return s.deleteFn(ctx, p, id)
}

type stubProfileService struct {
	users  map[string]*domain.User
	stats  *domain.Stats
	latest *domain.BroadcastIntent
}

func (s *stubProfileService) Get(_ context.Context, uid string) (*domain.User, error) {
	if uid == "" {
		return nil, domain.ErrUnauthenticated
	}
	u, ok := s.users[uid]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (s *stubProfileService) Stats(_ context.Context, p domain.Principal) (*domain.Stats, error) {
	if !p.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return s.stats, nil
}

func (s *stubProfileService) LatestAnnouncement(context.Context) (*domain.BroadcastIntent, error) {
	if s.latest == nil {
		return nil, domain.ErrAnnouncementNotFound
	}
	return s.latest, nil
}

var (
	adminPrincipal  = domain.Principal{UID: "admin-1", DisplayName: "Ama", Role: domain.RoleAdmin}
	memberPrincipal = domain.Principal{UID: "user-1", DisplayName: "Kofi", Role: domain.RoleUser}
)

// newContext builds an echo context with the validator installed and the
// principal the Session middleware would have set.
func newContext(method, target, body string, p domain.Principal) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	middleware.SetPrincipal(c, p)
	return c, rec
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}
