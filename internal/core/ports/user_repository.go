package ports

import (
	"context"
	"time"

	"github.com/offranel/storefront/internal/core/domain"
)

// UserRepository persists users keyed by their external uid.
type UserRepository interface {
	// Touch creates the record with the given defaults when uid is unknown and
	// refreshes last_login otherwise. It never changes the stored role.
	Touch(ctx context.Context, user *domain.User, at time.Time) (created bool, err error)
	FindByUID(ctx context.Context, uid string) (*domain.User, error)
	Count(ctx context.Context) (int64, error)
}
