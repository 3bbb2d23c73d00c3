package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/offranel/storefront/internal/api/metrics"
	"github.com/offranel/storefront/internal/core/domain"
	"github.com/offranel/storefront/internal/core/ports"
)

// CatalogInvalidator drops any cached catalog reads after a mutation.
type CatalogInvalidator interface {
	Invalidate()
}

// PublishService is the admin-only write path of the catalog. A single
// publish hands one broadcast intent to the queue and returns without
// waiting for the fan-out.
type PublishService struct {
	repo   ports.CatalogRepository
	queue  ports.BroadcastQueue
	cache  CatalogInvalidator
	logger zerolog.Logger
	now    func() time.Time
}

func NewPublishService(repo ports.CatalogRepository, queue ports.BroadcastQueue, cache CatalogInvalidator, logger zerolog.Logger) *PublishService {
	return &PublishService{repo: repo, queue: queue, cache: cache, logger: logger, now: time.Now}
}

// Publish persists a new item and triggers a "New arrival" broadcast.
func (s *PublishService) Publish(ctx context.Context, p domain.Principal, in ports.ItemInput) (*domain.Item, error) {
	if !p.IsAdmin() {
		return nil, fmt.Errorf("publish: %w", domain.ErrForbidden)
	}
	if err := validateItem(in); err != nil {
		return nil, err
	}

	item := s.newItem(p, in)
	id, err := s.repo.Add(ctx, item)
	if err != nil {
		s.logger.Error().Err(err).Str("uid", p.UID).Msg("failed to publish item")
		return nil, fmt.Errorf("publish: %w", unavailable(err))
	}
	item.ID = id
	s.invalidate()
	metrics.CatalogItemsPublishedTotal.WithLabelValues("single").Inc()

	intent := domain.BroadcastIntent{
		Title:  domain.NewArrivalTitle,
		Body:   item.Title,
		URL:    "/",
		SentAt: item.CreatedAt,
	}
	if !s.queue.Enqueue(intent) {
		s.logger.Warn().Str("item_id", id).Msg("broadcast queue full, notification dropped")
	}

	s.logger.Info().Str("item_id", id).Str("uid", p.UID).Msg("item published")
	return item, nil
}

// PublishBatch commits every item in one atomic write. Bulk imports do not
// notify subscribers.
func (s *PublishService) PublishBatch(ctx context.Context, p domain.Principal, in []ports.ItemInput) ([]*domain.Item, error) {
	if !p.IsAdmin() {
		return nil, fmt.Errorf("publish batch: %w", domain.ErrForbidden)
	}
	if len(in) == 0 {
		return nil, invalid("batch cannot be empty")
	}

	items := make([]*domain.Item, 0, len(in))
	for i, input := range in {
		if err := validateItem(input); err != nil {
			return nil, fmt.Errorf("item[%d]: %w", i, err)
		}
		items = append(items, s.newItem(p, input))
	}

	ids, err := s.repo.AddBatch(ctx, items)
	if err != nil {
		s.logger.Error().Err(err).Int("count", len(items)).Msg("failed to publish batch")
		return nil, fmt.Errorf("publish batch: %w", unavailable(err))
	}
	for i := range items {
		items[i].ID = ids[i]
	}
	s.invalidate()
	metrics.CatalogItemsPublishedTotal.WithLabelValues("batch").Add(float64(len(items)))

	s.logger.Info().Int("count", len(items)).Str("uid", p.UID).Msg("batch published")
	return items, nil
}

// Delete removes an item. Deleting an unknown id succeeds.
func (s *PublishService) Delete(ctx context.Context, p domain.Principal, id string) error {
	if !p.IsAdmin() {
		return fmt.Errorf("delete item: %w", domain.ErrForbidden)
	}
	if strings.TrimSpace(id) == "" {
		return invalid("item id is required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete item: %w", unavailable(err))
	}
	s.invalidate()
	s.logger.Info().Str("item_id", id).Str("uid", p.UID).Msg("item deleted")
	return nil
}

func (s *PublishService) newItem(p domain.Principal, in ports.ItemInput) *domain.Item {
	return &domain.Item{
		Title:       strings.TrimSpace(in.Title),
		Price:       in.Price,
		Currency:    in.Currency,
		Category:    in.Category,
		Description: in.Description,
		PhotoURLs:   in.PhotoURLs,
		InStock:     in.InStock,
		AuthorUID:   p.UID,
		AuthorName:  p.DisplayName,
		AuthorPhoto: p.Photo,
		CreatedAt:   s.now().UTC(),
	}
}

func (s *PublishService) invalidate() {
	if s.cache != nil {
		s.cache.Invalidate()
	}
}

func validateItem(in ports.ItemInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return invalid("title is required")
	}
	for _, u := range in.PhotoURLs {
		if strings.TrimSpace(u) != "" {
			return nil
		}
	}
	return invalid("at least one image is required")
}
