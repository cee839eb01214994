package memory

import (
	"context"
	"fmt"
	"time"

	"chain-support/internal/config"
	"chain-support/internal/domain/entity"
	domainRepo "chain-support/internal/domain/repository"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// Compile-time check
var _ domainRepo.CacheRepository = (*CacheRepository)(nil)

// Cache keys
const (
	mergedFlagsKey = "chain_flags_merged"
)

// CacheRepository implements domainRepo.CacheRepository using the go-cache in-memory library.
type CacheRepository struct {
	cache  *cache.Cache
	logger *zap.Logger
	cfg    config.CacheConfig
}

// NewCacheRepository creates a new in-memory cache repository instance.
func NewCacheRepository(cfg config.CacheConfig, logger *zap.Logger) *CacheRepository {
	defaultExpiration := cfg.GetDefaultExpiration()
	cleanupInterval := cfg.GetCleanupInterval()

	c := cache.New(defaultExpiration, cleanupInterval)
	logger.Info(
		"Initialized go-cache for flag snapshots",
		zap.Duration("defaultExpiration", defaultExpiration),
		zap.Duration("cleanupInterval", cleanupInterval),
	)

	return &CacheRepository{
		cache:  c,
		logger: logger.Named("MemoryCacheStorage"),
		cfg:    cfg,
	}
}

// GetFlags retrieves a copy of the cached flag snapshot, returning found status.
func (r *CacheRepository) GetFlags(_ context.Context) (entity.FeatureFlags, bool, error) {
	if x, found := r.cache.Get(mergedFlagsKey); found {
		if flags, ok := x.(entity.FeatureFlags); ok {
			r.logger.Debug("Memory cache hit", zap.String("key", mergedFlagsKey))
			return flags.Clone(), true, nil
		}
		r.logger.Warn(
			"Memory cache data type mismatch for key",
			zap.String("key", mergedFlagsKey), zap.Any("type", fmt.Sprintf("%T", x)),
		)
	}
	r.logger.Debug("Memory cache miss", zap.String("key", mergedFlagsKey))
	return nil, false, nil
}

// SetFlags caches a copy of the flag snapshot with a given TTL.
func (r *CacheRepository) SetFlags(_ context.Context, flags entity.FeatureFlags, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = r.cfg.GetDefaultExpiration()
	}
	r.cache.Set(mergedFlagsKey, flags.Clone(), ttl)
	r.logger.Debug("Memory cache set",
		zap.String("key", mergedFlagsKey), zap.Duration("ttl", ttl), zap.Int("count", len(flags)))
	return nil
}
