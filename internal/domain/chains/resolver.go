// Package chains decides whether a network is supported by the swap interface,
// how it ranks for display, and which behavioral categories it belongs to.
//
// Every function is total and pure: unknown, zero or negative chain ids resolve
// to "unsupported" and to an infinite priority instead of failing.
package chains

import (
	"math"
	"sort"

	"chain-support/internal/domain/entity"
)

// IsSupportedChain reports whether the interface supports chainID.
//
// When flags is non-nil and holds an entry for a non-zero chainID, that entry
// is returned as is, even for chains absent from every static table.
func IsSupportedChain(chainID entity.ChainID, flags entity.FeatureFlags) bool {
	if flags != nil && chainID != 0 {
		if enabled, ok := flags[chainID]; ok {
			return enabled
		}
	}
	return isStaticallySupported(chainID)
}

func isStaticallySupported(chainID entity.ChainID) bool {
	return chainID != 0 &&
		supportedChains.Contains(chainID) &&
		!notYetUxSupportedChains.Contains(chainID)
}

// AsSupportedChain returns chainID and true when it is a supported chain.
//
// Only a negative override in flags is honored here. A positive override is
// not forwarded to the delegated IsSupportedChain call, so a chain that is not
// statically supported stays unsupported even if flags enable it. Callers that
// need the positive override should use IsSupportedChain.
func AsSupportedChain(chainID entity.ChainID, flags entity.FeatureFlags) (entity.ChainID, bool) {
	if chainID == 0 {
		return 0, false
	}
	if enabled, ok := flags[chainID]; ok && !enabled {
		return 0, false
	}
	if IsSupportedChain(chainID, nil) {
		return chainID, true
	}
	return 0, false
}

// GetChainPriority returns the display priority of chainID; lower values are
// shown first with MAINNET at 0. Chains without a group get +Inf.
func GetChainPriority(chainID entity.ChainID) float64 {
	switch chainID {
	case entity.ChainMainnet,
		entity.ChainGoerli,
		entity.ChainSepolia,
		entity.ChainNovaMainnet,
		entity.ChainNovaSepolia:
		return 0
	case entity.ChainArbitrumOne, entity.ChainArbitrumGoerli:
		return 1
	case entity.ChainOptimism, entity.ChainOptimismGoerli:
		return 2
	case entity.ChainPolygon, entity.ChainPolygonMumbai:
		return 3
	case entity.ChainBase:
		return 4
	case entity.ChainBNB:
		return 5
	case entity.ChainAvalanche:
		return 6
	case entity.ChainCelo, entity.ChainCeloAlfajores:
		return 7
	case entity.ChainBlast:
		return 8
	default:
		return math.Inf(1)
	}
}

// PriorityRank converts GetChainPriority into an int, or nil when infinite.
func PriorityRank(chainID entity.ChainID) *int {
	p := GetChainPriority(chainID)
	if math.IsInf(p, 1) {
		return nil
	}
	rank := int(p)
	return &rank
}

// IsUniswapXSupportedChain reports whether UniswapX routing is available.
func IsUniswapXSupportedChain(chainID entity.ChainID) bool {
	return chainID == entity.ChainMainnet
}

func IsL1Chain(chainID entity.ChainID) bool { return l1Chains.Contains(chainID) }

func IsL2Chain(chainID entity.ChainID) bool { return l2Chains.Contains(chainID) }

func IsTestnetChain(chainID entity.ChainID) bool { return testnetChains.Contains(chainID) }

func IsGasEstimateChain(chainID entity.ChainID) bool { return gasEstimateChains.Contains(chainID) }

func IsV2PoolChain(chainID entity.ChainID) bool { return v2PoolChains.Contains(chainID) }

func IsV2PoolChainDeprecated(chainID entity.ChainID) bool {
	return v2PoolChainsDeprecated.Contains(chainID)
}

func IsNotYetUxSupportedChain(chainID entity.ChainID) bool {
	return notYetUxSupportedChains.Contains(chainID)
}

// Classify returns every category membership of chainID.
func Classify(chainID entity.ChainID) entity.Categories {
	return entity.Categories{
		L1:            IsL1Chain(chainID),
		L2:            IsL2Chain(chainID),
		Testnet:       IsTestnetChain(chainID),
		GasEstimate:   IsGasEstimateChain(chainID),
		V2Pool:        IsV2PoolChain(chainID),
		UniswapX:      IsUniswapXSupportedChain(chainID),
		NotYetUxReady: IsNotYetUxSupportedChain(chainID),
	}
}

// SortByPriority orders ids in place by priority, then by id. Chains without
// a priority end up last.
func SortByPriority(ids []entity.ChainID) {
	sort.SliceStable(ids, func(i, j int) bool {
		pi, pj := GetChainPriority(ids[i]), GetChainPriority(ids[j])
		if pi != pj {
			return pi < pj
		}
		return ids[i] < ids[j]
	})
}
