package port

import (
	"context"
	"fmt"

	"chain-support/internal/domain/entity"
	"chain-support/internal/pkg/apperrors"
)

// ChainFilter selects a category of chains when listing.
type ChainFilter string

const (
	FilterAll         ChainFilter = "all"
	FilterSupported   ChainFilter = "supported"
	FilterL1          ChainFilter = "l1"
	FilterL2          ChainFilter = "l2"
	FilterTestnet     ChainFilter = "testnet"
	FilterGasEstimate ChainFilter = "gas_estimate"
	FilterV2Pool      ChainFilter = "v2_pool"
	FilterUniswapX    ChainFilter = "uniswapx"
)

// ParseChainFilter maps a query value to a filter; empty means FilterAll.
func ParseChainFilter(raw string) (ChainFilter, error) {
	switch f := ChainFilter(raw); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterSupported, FilterL1, FilterL2, FilterTestnet, FilterGasEstimate, FilterV2Pool, FilterUniswapX:
		return f, nil
	default:
		return "", fmt.Errorf("%w: unknown chain category %q", apperrors.ErrInvalidInput, raw)
	}
}

// ChainService defines the interface for resolving chain support.
// A non-nil override is used verbatim instead of the configured flag sources.
type ChainService interface {
	// ListChains returns the known chains of a category, ordered by display priority.
	ListChains(ctx context.Context, filter ChainFilter, override entity.FeatureFlags) ([]entity.ChainInfo, error)

	// GetChain resolves any chain id, known or not.
	GetChain(ctx context.Context, chainID entity.ChainID, override entity.FeatureFlags) (entity.ChainInfo, error)

	// ResolveSupport runs both support checks for a chain.
	ResolveSupport(ctx context.Context, chainID entity.ChainID, override entity.FeatureFlags) (entity.SupportResolution, error)

	// DetectNetwork asks an RPC endpoint for its chain id and resolves it.
	DetectNetwork(ctx context.Context, rpcURL string) (entity.DetectedNetwork, error)

	// CurrentFlags returns the merged flag snapshot, refreshing it on a cache miss.
	CurrentFlags(ctx context.Context) (entity.FeatureFlags, error)

	// RefreshFlags re-reads every flag source and replaces the cached snapshot.
	RefreshFlags(ctx context.Context) error

	// Categories returns the static membership of every category filter except
	// all and supported, which depend on flags.
	Categories() map[ChainFilter][]entity.ChainID
}
