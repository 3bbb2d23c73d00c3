package ports

import (
	"context"
	"time"

	"github.com/offranel/storefront/internal/core/domain"
)

// PushSender delivers one payload to one endpoint. Implementations must not
// panic or return anything but a classified result.
type PushSender interface {
	Send(ctx context.Context, descriptor domain.EndpointDescriptor, payload []byte) domain.DeliveryResult
}

// AnnouncementStore keeps the most recent broadcast so clients can poll it.
type AnnouncementStore interface {
	SaveLatest(ctx context.Context, intent domain.BroadcastIntent) error
	Latest(ctx context.Context) (*domain.BroadcastIntent, error)
}

// BroadcastQueue accepts intents for asynchronous fan-out. Enqueue must not
// block; it reports false when the intent was dropped.
type BroadcastQueue interface {
	Enqueue(intent domain.BroadcastIntent) bool
}

// SessionIssuer signs session tokens for an established principal.
type SessionIssuer interface {
	Issue(p domain.Principal, ttl time.Duration) (string, error)
}
