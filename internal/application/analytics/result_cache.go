package analytics

import (
	"context"
	"time"
)

// ResultCache is the slice of the Redis cache the analytics services
// need for derived results. *cache.Cache satisfies it.
type ResultCache interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}
