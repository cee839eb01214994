package application

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"chain-support/internal/application/port"
	"chain-support/internal/config"
	"chain-support/internal/domain"
	"chain-support/internal/domain/chains"
	"chain-support/internal/domain/entity"
	domainRepo "chain-support/internal/domain/repository"
	domainService "chain-support/internal/domain/service"
	"chain-support/internal/pkg/metrics"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const refreshKey = "flags"

// Compile-time check to ensure chainService implements ChainService
var _ port.ChainService = (*chainService)(nil)

// chainService implements the port.ChainService interface on top of the chain resolver.
type chainService struct {
	flagSources []domainRepo.FlagRepository
	cacheRepo   domainRepo.CacheRepository
	detector    domainService.NetworkDetector
	logger      *zap.Logger
	cfg         config.Config
	rootCtx     context.Context
	refreshing  *atomic.Bool

	refreshGroup singleflight.Group

	mu        sync.RWMutex
	lastGood  entity.FeatureFlags
	haveFlags bool
}

// NewChainService creates the chain service and starts the background flag refresher.
// Flag sources are merged in order; later sources win on conflicting chains.
func NewChainService(
	rootCtx context.Context,
	flagSources []domainRepo.FlagRepository,
	cacheRepo domainRepo.CacheRepository,
	detector domainService.NetworkDetector,
	logger *zap.Logger,
	cfg config.Config,
) port.ChainService {
	uc := &chainService{
		flagSources: flagSources,
		cacheRepo:   cacheRepo,
		detector:    detector,
		logger:      logger.Named("ChainService"),
		cfg:         cfg,
		rootCtx:     rootCtx,
		refreshing:  new(atomic.Bool),
	}

	go uc.startBackgroundRefresher()

	return uc
}

// ListChains returns every known chain matching filter, sorted by display priority.
func (uc *chainService) ListChains(
	ctx context.Context,
	filter port.ChainFilter,
	override entity.FeatureFlags,
) ([]entity.ChainInfo, error) {
	flags, err := uc.effectiveFlags(ctx, override)
	if err != nil {
		return nil, err
	}

	ids := entity.KnownChainIDs()
	chains.SortByPriority(ids)

	out := make([]entity.ChainInfo, 0, len(ids))
	for _, id := range ids {
		info := buildChainInfo(id, flags)
		if matchesFilter(info, filter) {
			out = append(out, info)
		}
	}
	uc.logger.Debug("Listed chains", zap.String("filter", string(filter)), zap.Int("count", len(out)))
	return out, nil
}

// GetChain resolves a single chain. Unknown ids are resolved too and reported with Known=false.
func (uc *chainService) GetChain(
	ctx context.Context,
	chainID entity.ChainID,
	override entity.FeatureFlags,
) (entity.ChainInfo, error) {
	flags, err := uc.effectiveFlags(ctx, override)
	if err != nil {
		return entity.ChainInfo{}, err
	}
	return buildChainInfo(chainID, flags), nil
}

// ResolveSupport runs IsSupportedChain and AsSupportedChain with the effective flags.
func (uc *chainService) ResolveSupport(
	ctx context.Context,
	chainID entity.ChainID,
	override entity.FeatureFlags,
) (entity.SupportResolution, error) {
	flags, err := uc.effectiveFlags(ctx, override)
	if err != nil {
		return entity.SupportResolution{}, err
	}

	res := entity.SupportResolution{
		ChainID:   chainID,
		Supported: chains.IsSupportedChain(chainID, flags),
	}
	if _, ok := flags[chainID]; ok && chainID != 0 {
		res.FlagsApplied = true
	}
	if id, ok := chains.AsSupportedChain(chainID, flags); ok {
		res.SupportedChain = &id
	}

	metrics.SupportResolutions.WithLabelValues(chainLabel(chainID), strconv.FormatBool(res.Supported)).Inc()

	uc.logger.Debug("Resolved chain support",
		zap.Int64("chainId", int64(chainID)),
		zap.Bool("supported", res.Supported),
		zap.Bool("flagsApplied", res.FlagsApplied))
	return res, nil
}

// DetectNetwork validates rpcURL, probes it for its chain id and resolves that chain.
func (uc *chainService) DetectNetwork(ctx context.Context, rpcURL string) (entity.DetectedNetwork, error) {
	u, err := entity.NewRPCURL(rpcURL)
	if err != nil {
		return entity.DetectedNetwork{}, err
	}
	protocol := entity.ProtocolOf(u)

	chainID, latency, err := uc.detector.DetectChainID(ctx, u)
	if err != nil {
		metrics.DetectionErrors.WithLabelValues(string(protocol)).Inc()
		uc.logger.Warn("Network detection failed", zap.String("rpc", rpcURL), zap.Error(err))
		return entity.DetectedNetwork{}, fmt.Errorf("detect network for %s: %w", rpcURL, err)
	}
	metrics.DetectionLatency.WithLabelValues(string(protocol)).Observe(latency.Seconds())

	flags, err := uc.effectiveFlags(ctx, nil)
	if err != nil {
		return entity.DetectedNetwork{}, err
	}

	uc.logger.Debug("Detected network",
		zap.String("rpc", rpcURL),
		zap.Int64("chainId", int64(chainID)),
		zap.Duration("latency", latency))
	return entity.DetectedNetwork{
		RPC:      u,
		Protocol: protocol,
		Latency:  latency,
		Chain:    buildChainInfo(chainID, flags),
	}, nil
}

// Categories lists the compiled-in category tables, each sorted by chain id.
func (uc *chainService) Categories() map[port.ChainFilter][]entity.ChainID {
	return map[port.ChainFilter][]entity.ChainID{
		port.FilterL1:          chains.L1ChainIDs(),
		port.FilterL2:          chains.L2ChainIDs(),
		port.FilterTestnet:     chains.TestnetChainIDs(),
		port.FilterGasEstimate: chains.GasEstimateChainIDs(),
		port.FilterV2Pool:      chains.V2PoolChainIDs(),
		port.FilterUniswapX:    uniswapXChainIDs(),
	}
}

func uniswapXChainIDs() []entity.ChainID {
	var out []entity.ChainID
	for _, id := range entity.KnownChainIDs() {
		if chains.IsUniswapXSupportedChain(id) {
			out = append(out, id)
		}
	}
	return out
}

// CurrentFlags returns the cached snapshot, refreshing synchronously on a miss.
// When no snapshot can be produced the result is nil, meaning no override.
func (uc *chainService) CurrentFlags(ctx context.Context) (entity.FeatureFlags, error) {
	flags, found, err := uc.cacheRepo.GetFlags(ctx)
	if err != nil {
		uc.logger.Warn("Cache error when getting flags", zap.Error(err))
	}
	if found {
		return flags, nil
	}

	if err := uc.refresh(ctx, true); err != nil && !errors.Is(err, domain.ErrNoFlagSources) {
		uc.logger.Warn("Flag refresh on cache miss failed, using last good snapshot", zap.Error(err))
	}
	return uc.lastGoodFlags(), nil
}

// RefreshFlags reads every source, merges the results and updates the cache.
// Concurrent callers share one fetch. Failing sources are skipped; if all of
// them fail the previous snapshot stays and is cached for flags.retry_interval.
func (uc *chainService) RefreshFlags(ctx context.Context) error {
	return uc.refresh(ctx, false)
}

// refresh runs refreshFlags at most once at a time. With onMiss set, a caller
// that lost the race to a finished refresh reuses the snapshot it cached.
func (uc *chainService) refresh(ctx context.Context, onMiss bool) error {
	if len(uc.flagSources) == 0 {
		return domain.ErrNoFlagSources
	}

	_, err, shared := uc.refreshGroup.Do(refreshKey, func() (interface{}, error) {
		if onMiss {
			if _, found, _ := uc.cacheRepo.GetFlags(ctx); found {
				return nil, nil
			}
		}
		return nil, uc.refreshFlags(ctx)
	})
	if shared {
		uc.logger.Debug("Joined in-flight flag refresh")
	}
	return err
}

func (uc *chainService) refreshFlags(ctx context.Context) error {
	var (
		merged    entity.FeatureFlags
		succeeded int
		errs      []error
	)
	for _, src := range uc.flagSources {
		fetchCtx, cancel := context.WithTimeout(ctx, uc.cfg.Flags.GetFetchTimeout())
		flags, err := src.GetChainFlags(fetchCtx)
		cancel()
		if err != nil {
			metrics.FlagRefreshes.WithLabelValues(src.Name(), "error").Inc()
			uc.logger.Warn("Flag source failed", zap.String("source", src.Name()), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", src.Name(), err))
			continue
		}
		metrics.FlagRefreshes.WithLabelValues(src.Name(), "ok").Inc()
		merged = merged.Merge(flags)
		succeeded++
	}

	if succeeded == 0 {
		// Keep serving the previous snapshot without refetching on every request.
		retry := uc.cfg.Flags.GetRetryInterval()
		if err := uc.cacheRepo.SetFlags(ctx, uc.lastGoodFlags(), retry); err != nil {
			uc.logger.Error("Failed to cache fallback flags", zap.Error(err))
		}
		uc.logger.Warn("All flag sources failed, serving last good snapshot",
			zap.Int("failedSources", len(errs)), zap.Duration("retryIn", retry))
		return fmt.Errorf("%w: %w", domain.ErrFlagSourceFailure, errors.Join(errs...))
	}
	if merged == nil {
		merged = entity.FeatureFlags{}
	}

	uc.mu.Lock()
	uc.lastGood = merged.Clone()
	uc.haveFlags = true
	uc.mu.Unlock()

	metrics.FlagOverrides.Set(float64(len(merged)))
	if err := uc.cacheRepo.SetFlags(ctx, merged, uc.cacheTTL()); err != nil {
		uc.logger.Error("Failed to cache merged flags", zap.Error(err))
	}

	uc.logger.Info("Refreshed feature flags",
		zap.Int("sources", succeeded), zap.Int("failedSources", len(errs)), zap.Int("overrides", len(merged)))
	return nil
}

// lastGoodFlags returns a copy of the last successful snapshot, or nil if there is none.
func (uc *chainService) lastGoodFlags() entity.FeatureFlags {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	if !uc.haveFlags {
		return nil
	}
	return uc.lastGood.Clone()
}

// effectiveFlags picks the caller override when given, else the current snapshot.
func (uc *chainService) effectiveFlags(ctx context.Context, override entity.FeatureFlags) (entity.FeatureFlags, error) {
	if override != nil {
		return override, nil
	}
	return uc.CurrentFlags(ctx)
}

// cacheTTL keeps the snapshot alive slightly longer than one refresh period.
func (uc *chainService) cacheTTL() time.Duration {
	interval := uc.cfg.Flags.GetRefreshInterval()
	if interval <= 0 {
		return 0
	}
	return 2 * interval
}

// startBackgroundRefresher periodically refreshes the flag snapshot until rootCtx is done.
func (uc *chainService) startBackgroundRefresher() {
	interval := uc.cfg.Flags.GetRefreshInterval()
	if interval <= 0 || len(uc.flagSources) == 0 {
		uc.logger.Info("Background flag refresher disabled",
			zap.Duration("interval", interval), zap.Int("sources", len(uc.flagSources)))
		return
	}

	uc.logger.Info("Starting background flag refresher", zap.Duration("interval", interval))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if !uc.refreshing.CompareAndSwap(false, true) {
				uc.logger.Debug("Background refresher tick: refresh already in progress.")
				continue
			}
			if err := uc.RefreshFlags(uc.rootCtx); err != nil {
				if uc.rootCtx.Err() != nil {
					uc.logger.Warn("Periodic flag refresh cancelled due to application shutdown")
				} else {
					uc.logger.Error("Error during periodic flag refresh", zap.Error(err))
				}
			}
			uc.refreshing.Store(false)

		case <-uc.rootCtx.Done():
			uc.logger.Info("Background flag refresher stopping due to context cancellation.")
			return
		}
	}
}

func buildChainInfo(id entity.ChainID, flags entity.FeatureFlags) entity.ChainInfo {
	name, _ := entity.InterfaceName(id)
	return entity.ChainInfo{
		ChainID:       id,
		Name:          id.String(),
		InterfaceName: name,
		Known:         id.IsKnown(),
		Supported:     chains.IsSupportedChain(id, flags),
		Priority:      chains.PriorityRank(id),
		Categories:    chains.Classify(id),
	}
}

// chainLabel bounds metric cardinality to the known catalogue.
func chainLabel(id entity.ChainID) string {
	if !id.IsKnown() {
		return "other"
	}
	return strconv.FormatInt(int64(id), 10)
}

func matchesFilter(info entity.ChainInfo, filter port.ChainFilter) bool {
	switch filter {
	case port.FilterSupported:
		return info.Supported
	case port.FilterL1:
		return info.Categories.L1
	case port.FilterL2:
		return info.Categories.L2
	case port.FilterTestnet:
		return info.Categories.Testnet
	case port.FilterGasEstimate:
		return info.Categories.GasEstimate
	case port.FilterV2Pool:
		return info.Categories.V2Pool
	case port.FilterUniswapX:
		return info.Categories.UniswapX
	default:
		return true
	}
}
