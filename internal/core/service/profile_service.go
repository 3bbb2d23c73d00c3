package service

import (
	"context"
	"fmt"

	"github.com/offranel/storefront/internal/core/domain"
	"github.com/offranel/storefront/internal/core/ports"
)

// ProfileService backs the profile page, the admin dashboard and the
// last-announcement poll.
type ProfileService struct {
	users         ports.UserRepository
	catalog       ports.CatalogRepository
	subscriptions ports.SubscriptionRepository
	announcements ports.AnnouncementStore
}

func NewProfileService(
	users ports.UserRepository,
	catalog ports.CatalogRepository,
	subscriptions ports.SubscriptionRepository,
	announcements ports.AnnouncementStore,
) *ProfileService {
	return &ProfileService{
		users:         users,
		catalog:       catalog,
		subscriptions: subscriptions,
		announcements: announcements,
	}
}

func (s *ProfileService) Get(ctx context.Context, uid string) (*domain.User, error) {
	if uid == "" {
		return nil, domain.ErrUnauthenticated
	}
	user, err := s.users.FindByUID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return user, nil
}

// Stats counts users, items and subscribers. Admin only.
func (s *ProfileService) Stats(ctx context.Context, p domain.Principal) (*domain.Stats, error) {
	if !p.IsAdmin() {
		return nil, fmt.Errorf("stats: %w", domain.ErrForbidden)
	}

	var (
		stats domain.Stats
		err   error
	)
	if stats.TotalUsers, err = s.users.Count(ctx); err != nil {
		return nil, fmt.Errorf("stats: count users: %w", unavailable(err))
	}
	if stats.TotalProducts, err = s.catalog.Count(ctx); err != nil {
		return nil, fmt.Errorf("stats: count products: %w", unavailable(err))
	}
	if stats.TotalSubscribers, err = s.subscriptions.Count(ctx); err != nil {
		return nil, fmt.Errorf("stats: count subscribers: %w", unavailable(err))
	}
	return &stats, nil
}

func (s *ProfileService) LatestAnnouncement(ctx context.Context) (*domain.BroadcastIntent, error) {
	intent, err := s.announcements.Latest(ctx)
	if err != nil {
		return nil, fmt.Errorf("latest announcement: %w", unavailable(err))
	}
	if intent == nil {
		return nil, domain.ErrAnnouncementNotFound
	}
	return intent, nil
}
