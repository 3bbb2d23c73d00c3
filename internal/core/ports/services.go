package ports

import (
	"context"

	"github.com/offranel/storefront/internal/core/domain"
)

// ItemInput is the DTO passed from the transport layer to PublishService.
type ItemInput struct {
	Title       string
	Price       float64
	Currency    string
	Category    string
	Description string
	PhotoURLs   []string
	InStock     bool
}

// SessionResult is returned when a session is established.
type SessionResult struct {
	Principal domain.Principal
	Token     string
	Created   bool
}

type SessionService interface {
	Establish(ctx context.Context, identity domain.IdentityAssertion) (*SessionResult, error)
}

// SubscribeInput carries what the HTTP layer knows about the caller.
type SubscribeInput struct {
	Principal  domain.Principal
	GuestID    string // from a previous guest subscription, if any
	Descriptor domain.EndpointDescriptor
}

type SubscriptionService interface {
	// Subscribe returns the subscriber id the descriptor was stored under.
	Subscribe(ctx context.Context, in SubscribeInput) (string, error)
}

type PublishService interface {
	Publish(ctx context.Context, p domain.Principal, in ItemInput) (*domain.Item, error)
	PublishBatch(ctx context.Context, p domain.Principal, in []ItemInput) ([]*domain.Item, error)
	Delete(ctx context.Context, p domain.Principal, id string) error
}

type CatalogService interface {
	List(ctx context.Context, filter CatalogFilter) []*domain.Item
	Get(ctx context.Context, id string) (*domain.Item, error)
}

type ProfileService interface {
	Get(ctx context.Context, uid string) (*domain.User, error)
	Stats(ctx context.Context, p domain.Principal) (*domain.Stats, error)
	LatestAnnouncement(ctx context.Context) (*domain.BroadcastIntent, error)
}

type BroadcastService interface {
	Broadcast(ctx context.Context, intent domain.BroadcastIntent) domain.BroadcastReport
}
