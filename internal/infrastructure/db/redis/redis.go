package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/offranel/storefront/internal/core/domain"
)

const pingTimeout = 5 * time.Second

// Options holds what the storefront needs to reach its Redis instance.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// Connect dials Redis and pings it once. A failed ping closes the client and
// is reported as a backend failure.
func Connect(ctx context.Context, opts Options) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis %s: %w: %w", opts.Addr, domain.ErrBackendUnavailable, err)
	}
	return client, nil
}
