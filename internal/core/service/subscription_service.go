package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/offranel/storefront/internal/core/ports"
)

const guestPrefix = "guest-"

// SubscriptionService registers push endpoints in the subscription registry.
type SubscriptionService struct {
	repo ports.SubscriptionRepository
	log  zerolog.Logger
}

func NewSubscriptionService(repo ports.SubscriptionRepository, log zerolog.Logger) *SubscriptionService {
	return &SubscriptionService{repo: repo, log: log}
}

// Subscribe stores the descriptor under the caller's uid, or under a guest id
// when the caller has no session. A guest id is reused only if it is one this
// service could have generated.
func (s *SubscriptionService) Subscribe(ctx context.Context, in ports.SubscribeInput) (string, error) {
	if in.Descriptor.Empty() {
		return "", invalid("endpoint descriptor is empty")
	}

	subscriberID := in.Principal.UID
	if subscriberID == "" {
		subscriberID = in.GuestID
		if !IsGuestID(subscriberID) {
			subscriberID = NewGuestID()
		}
	}

	if err := s.repo.Upsert(ctx, subscriberID, in.Descriptor); err != nil {
		return "", fmt.Errorf("subscribe: %w", unavailable(err))
	}

	s.log.Info().
		Str("subscriber_id", subscriberID).
		Bool("guest", in.Principal.UID == "").
		Msg("push subscription stored")
	return subscriberID, nil
}

// NewGuestID returns a collision-resistant id for an anonymous subscriber.
func NewGuestID() string {
	return guestPrefix + uuid.NewString()
}

// IsGuestID reports whether id has the shape produced by NewGuestID.
func IsGuestID(id string) bool {
	rest, ok := strings.CutPrefix(id, guestPrefix)
	if !ok {
		return false
	}
	_, err := uuid.Parse(rest)
	return err == nil
}
