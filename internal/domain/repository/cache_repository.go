package repository

import (
	"context"
	"time"

	"chain-support/internal/domain/entity"
)

// CacheRepository defines the interface for caching the merged feature-flag snapshot.
type CacheRepository interface {
	// GetFlags retrieves the cached snapshot and whether it was found.
	GetFlags(ctx context.Context) (entity.FeatureFlags, bool, error)

	// SetFlags stores the snapshot with a specified TTL.
	SetFlags(ctx context.Context, flags entity.FeatureFlags, ttl time.Duration) error
}
