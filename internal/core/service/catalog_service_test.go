package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/offranel/storefront/internal/core/domain"
	"github.com/offranel/storefront/internal/core/ports"
)

func seedCatalog(repo *stubCatalogRepo, titles ...string) {
	for _, title := range titles {
		_, _ = repo.Add(context.Background(), &domain.Item{Title: title, Category: "general"})
	}
}

func TestCatalogService_ListNewestFirst(t *testing.T) {
	repo := newStubCatalogRepo()
	seedCatalog(repo, "first", "second", "third")
	svc := NewCatalogService(repo, time.Minute, discardLogger)

	items := svc.List(context.Background(), ports.CatalogFilter{})
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if items[0].Title != "third" || items[2].Title != "first" {
		t.Fatalf("unexpected order: %s, %s, %s", items[0].Title, items[1].Title, items[2].Title)
	}
}

func TestCatalogService_CachesUntilInvalidated(t *testing.T) {
	repo := newStubCatalogRepo()
	seedCatalog(repo, "first")
	svc := NewCatalogService(repo, time.Minute, discardLogger)
	ctx := context.Background()

	svc.List(ctx, ports.CatalogFilter{})
	svc.List(ctx, ports.CatalogFilter{})
	if repo.listCalls != 1 {
		t.Fatalf("expected cached second read, got %d backend calls", repo.listCalls)
	}

	seedCatalog(repo, "second")
	svc.Invalidate()
	items := svc.List(ctx, ports.CatalogFilter{})
	if repo.listCalls != 2 || len(items) != 2 {
		t.Fatalf("expected fresh read after invalidation, calls=%d items=%d", repo.listCalls, len(items))
	}
}

func TestCatalogService_CategoryFilterHasOwnCacheEntry(t *testing.T) {
	repo := newStubCatalogRepo()
	_, _ = repo.Add(context.Background(), &domain.Item{Title: "scarf", Category: "accessories"})
	_, _ = repo.Add(context.Background(), &domain.Item{Title: "kettle", Category: "home"})
	svc := NewCatalogService(repo, time.Minute, discardLogger)

	all := svc.List(context.Background(), ports.CatalogFilter{})
	home := svc.List(context.Background(), ports.CatalogFilter{Category: "home"})
	if len(all) != 2 || len(home) != 1 || home[0].Title != "kettle" {
		t.Fatalf("unexpected results: all=%d home=%+v", len(all), home)
	}
}

func TestCatalogService_BackendFailureDegradesToEmpty(t *testing.T) {
	repo := newStubCatalogRepo()
	repo.listErr = errors.New("server selection timeout")
	svc := NewCatalogService(repo, time.Minute, discardLogger)

	items := svc.List(context.Background(), ports.CatalogFilter{})
	if items == nil || len(items) != 0 {
		t.Fatalf("expected empty non-nil feed, got %#v", items)
	}

	// Failures are not cached.
	repo.listErr = nil
	seedCatalog(repo, "recovered")
	if got := svc.List(context.Background(), ports.CatalogFilter{}); len(got) != 1 {
		t.Fatalf("expected recovery on next read, got %d items", len(got))
	}
}

func TestCatalogService_GetMissing(t *testing.T) {
	svc := NewCatalogService(newStubCatalogRepo(), time.Minute, discardLogger)
	if _, err := svc.Get(context.Background(), "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCatalogService_PublishFlushesListing(t *testing.T) {
	repo := newStubCatalogRepo()
	catalog := NewCatalogService(repo, time.Minute, discardLogger)
	publish := NewPublishService(repo, &stubQueue{}, catalog, discardLogger)
	ctx := context.Background()

	if got := catalog.List(ctx, ports.CatalogFilter{}); len(got) != 0 {
		t.Fatalf("expected empty catalog, got %d", len(got))
	}
	if _, err := publish.Publish(ctx, admin, redScarf()); err != nil {
		t.Fatal(err)
	}
	if got := catalog.List(ctx, ports.CatalogFilter{}); len(got) != 1 {
		t.Fatalf("expected new item visible after publish, got %d", len(got))
	}
}

// pausingCatalogRepo returns its snapshot and then holds the caller until
// release is closed.
type pausingCatalogRepo struct {
	*stubCatalogRepo
	read    chan struct{}
	release chan struct{}
	paused  bool
}

func (r *pausingCatalogRepo) List(ctx context.Context, f ports.CatalogFilter) ([]*domain.Item, error) {
	items, err := r.stubCatalogRepo.List(ctx, f)
	if !r.paused {
		r.paused = true
		close(r.read)
		<-r.release
	}
	return items, err
}

func TestCatalogService_ReadOverlappingInvalidateIsNotCached(t *testing.T) {
	repo := &pausingCatalogRepo{
		stubCatalogRepo: newStubCatalogRepo(),
		read:            make(chan struct{}),
		release:         make(chan struct{}),
	}
	seedCatalog(repo.stubCatalogRepo, "old")
	svc := NewCatalogService(repo, time.Minute, discardLogger)
	ctx := context.Background()

	done := make(chan []*domain.Item)
	go func() { done <- svc.List(ctx, ports.CatalogFilter{}) }()

	<-repo.read
	seedCatalog(repo.stubCatalogRepo, "Red Scarf")
	svc.Invalidate()
	close(repo.release)

	if stale := <-done; len(stale) != 1 {
		t.Fatalf("expected the in-flight read to see the old snapshot, got %d", len(stale))
	}
	items := svc.List(ctx, ports.CatalogFilter{})
	if len(items) != 2 || items[0].Title != "Red Scarf" {
		t.Fatalf("expected the published item on top after invalidation, got %d items", len(items))
	}
}
