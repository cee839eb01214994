package repository

import (
	"context"

	"chain-support/internal/domain/entity"
)

// FlagRepository defines a source of per-chain feature-flag overrides.
type FlagRepository interface {
	// Name identifies the source in logs and metrics.
	Name() string

	// GetChainFlags returns the current override mapping of the source.
	GetChainFlags(ctx context.Context) (entity.FeatureFlags, error)
}
