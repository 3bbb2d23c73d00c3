package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/offranel/storefront/internal/core/domain"
	"github.com/offranel/storefront/internal/core/ports"
)

const (
	defaultCatalogCacheTTL = 30 * time.Second
	maxCatalogLimit        = 200
)

// CatalogService serves the public catalog feed. Listing never fails: a
// backend error degrades to an empty feed.
type CatalogService struct {
	repo  ports.CatalogRepository
	cache *cache.Cache
	log   zerolog.Logger

	mu         sync.Mutex
	generation uint64 // bumped by Invalidate
}

func NewCatalogService(repo ports.CatalogRepository, ttl time.Duration, log zerolog.Logger) *CatalogService {
	if ttl <= 0 {
		ttl = defaultCatalogCacheTTL
	}
	return &CatalogService{repo: repo, cache: cache.New(ttl, 2*ttl), log: log}
}

func (s *CatalogService) List(ctx context.Context, filter ports.CatalogFilter) []*domain.Item {
	if filter.Limit <= 0 || filter.Limit > maxCatalogLimit {
		filter.Limit = maxCatalogLimit
	}

	key := fmt.Sprintf("list:%s:%d", filter.Category, filter.Limit)
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]*domain.Item)
	}

	gen := s.currentGeneration()
	items, err := s.repo.List(ctx, filter)
	if err != nil {
		s.log.Warn().Err(err).Str("category", filter.Category).Msg("catalog listing unavailable, serving empty feed")
		return []*domain.Item{}
	}
	if items == nil {
		items = []*domain.Item{}
	}

	// A read that overlapped an Invalidate may predate the mutation.
	s.mu.Lock()
	if s.generation == gen {
		s.cache.Set(key, items, cache.DefaultExpiration)
	}
	s.mu.Unlock()
	return items
}

func (s *CatalogService) Get(ctx context.Context, id string) (*domain.Item, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// Invalidate drops every cached listing.
func (s *CatalogService) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.cache.Flush()
}

func (s *CatalogService) currentGeneration() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}
