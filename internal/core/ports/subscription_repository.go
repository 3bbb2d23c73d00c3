package ports

import (
	"context"

	"github.com/offranel/storefront/internal/core/domain"
)

// SubscriptionRepository is the durable subscription registry. Each call is a
// single-document operation; no call spans a whole broadcast.
type SubscriptionRepository interface {
	// Upsert stores the descriptor for subscriberID, replacing any previous one.
	Upsert(ctx context.Context, subscriberID string, descriptor domain.EndpointDescriptor) error
	// ListAll returns a snapshot of the registry taken at call time.
	ListAll(ctx context.Context) ([]domain.Subscription, error)
	// Remove deletes the entry. Removing an absent id is not an error.
	Remove(ctx context.Context, subscriberID string) error
	Count(ctx context.Context) (int64, error)
}
