package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/offranel/storefront/internal/core/domain"
)

const (
	latestAnnouncementKey = "announcements:latest"
	announcementTTL       = 7 * 24 * time.Hour
)

// AnnouncementStore keeps the last broadcast intent so clients without push
// support can poll for it.
type AnnouncementStore struct {
	client *redis.Client
}

// NewAnnouncementStore creates an AnnouncementStore wrapping the given Redis client.
func NewAnnouncementStore(client *redis.Client) *AnnouncementStore {
	return &AnnouncementStore{client: client}
}

// SaveLatest overwrites the previous announcement. It expires after a week.
func (s *AnnouncementStore) SaveLatest(ctx context.Context, intent domain.BroadcastIntent) error {
	raw, err := json.Marshal(intent)
	if err != nil {
		return fmt.Errorf("encode announcement: %w", err)
	}
	if err := s.client.Set(ctx, latestAnnouncementKey, raw, announcementTTL).Err(); err != nil {
		return fmt.Errorf("save announcement: %w: %w", domain.ErrBackendUnavailable, err)
	}
	return nil
}

// Latest returns nil, nil when nothing was announced recently.
func (s *AnnouncementStore) Latest(ctx context.Context) (*domain.BroadcastIntent, error) {
	raw, err := s.client.Get(ctx, latestAnnouncementKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load announcement: %w: %w", domain.ErrBackendUnavailable, err)
	}

	var intent domain.BroadcastIntent
	if err := json.Unmarshal(raw, &intent); err != nil {
		return nil, fmt.Errorf("decode announcement: %w", err)
	}
	return &intent, nil
}
