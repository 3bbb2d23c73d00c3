package ports

import (
	"context"

	"github.com/offranel/storefront/internal/core/domain"
)

// CatalogFilter narrows a catalog listing. Zero values mean no filter.
type CatalogFilter struct {
	Category string
	Limit    int
}

// CatalogRepository stores catalog items.
type CatalogRepository interface {
	// Add inserts the item and returns its server-assigned id.
	Add(ctx context.Context, item *domain.Item) (string, error)
	// AddBatch inserts all items atomically and returns their ids in order.
	AddBatch(ctx context.Context, items []*domain.Item) ([]string, error)
	FindByID(ctx context.Context, id string) (*domain.Item, error)
	// List returns items newest first.
	List(ctx context.Context, filter CatalogFilter) ([]*domain.Item, error)
	// Delete removes the item; deleting an absent id is not an error.
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}
