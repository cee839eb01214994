package chains

import (
	"sort"

	mapset "github.com/deckarep/golang-set/v2"

	"chain-support/internal/domain/entity"
)

// The classification tables below are built once and never mutated. Callers
// only ever receive sorted copies.
var (
	supportedChains = newTable(
		entity.ChainMainnet,
		entity.ChainNovaSepolia,
		entity.ChainNovaMainnet,
	)

	// Chains the SDK knows about but the interface does not serve yet.
	// Membership here overrides supportedChains.
	notYetUxSupportedChains = newTable(
		entity.ChainBaseGoerli,
		entity.ChainArbitrumSepolia,
		entity.ChainOptimismSepolia,
		entity.ChainRootstock,
		entity.ChainZora,
		entity.ChainZoraSepolia,
	)

	gasEstimateChains = newTable(
		entity.ChainMainnet,
		entity.ChainPolygon,
		entity.ChainCelo,
		entity.ChainOptimism,
		entity.ChainArbitrumOne,
		entity.ChainBNB,
		entity.ChainAvalanche,
		entity.ChainBase,
		entity.ChainBlast,
		entity.ChainNovaSepolia,
		entity.ChainNovaMainnet,
	)

	v2PoolChains = newTable(
		entity.ChainMainnet,
		entity.ChainGoerli,
		entity.ChainSepolia,
		entity.ChainArbitrumOne,
		entity.ChainOptimism,
		entity.ChainPolygon,
		entity.ChainBNB,
		entity.ChainAvalanche,
		entity.ChainBase,
		entity.ChainBlast,
		entity.ChainNovaSepolia,
		entity.ChainNovaMainnet,
	)

	// Deprecated: kept until v2 pools are enabled on every chain in v2PoolChains.
	v2PoolChainsDeprecated = newTable(
		entity.ChainMainnet,
		entity.ChainGoerli,
	)

	testnetChains = newTable(
		entity.ChainGoerli,
		entity.ChainSepolia,
		entity.ChainPolygonMumbai,
		entity.ChainArbitrumGoerli,
		entity.ChainOptimismGoerli,
		entity.ChainCeloAlfajores,
		entity.ChainNovaSepolia,
	)

	// Chains running the Ethereum protocol at the base layer.
	l1Chains = newTable(
		entity.ChainMainnet,
		entity.ChainGoerli,
		entity.ChainSepolia,
		entity.ChainPolygon,
		entity.ChainPolygonMumbai,
		entity.ChainCelo,
		entity.ChainCeloAlfajores,
		entity.ChainBNB,
		entity.ChainAvalanche,
		entity.ChainNovaSepolia,
		entity.ChainNovaMainnet,
	)

	// Rollups with immediate confirmation; drives L2 slippage defaults.
	l2Chains = newTable(
		entity.ChainArbitrumOne,
		entity.ChainArbitrumGoerli,
		entity.ChainOptimism,
		entity.ChainOptimismGoerli,
		entity.ChainBase,
		entity.ChainBlast,
	)
)

func newTable(ids ...entity.ChainID) mapset.Set[entity.ChainID] {
	return mapset.NewThreadUnsafeSet(ids...)
}

func sortedIDs(s mapset.Set[entity.ChainID]) []entity.ChainID {
	ids := s.ToSlice()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// SupportedChainIDs returns the statically supported chains, including ones
// later excluded by NotYetUxSupportedChainIDs.
func SupportedChainIDs() []entity.ChainID { return sortedIDs(supportedChains) }

// NotYetUxSupportedChainIDs returns chains excluded from interface support.
func NotYetUxSupportedChainIDs() []entity.ChainID { return sortedIDs(notYetUxSupportedChains) }

func GasEstimateChainIDs() []entity.ChainID { return sortedIDs(gasEstimateChains) }

func V2PoolChainIDs() []entity.ChainID { return sortedIDs(v2PoolChains) }

func TestnetChainIDs() []entity.ChainID { return sortedIDs(testnetChains) }

func L1ChainIDs() []entity.ChainID { return sortedIDs(l1Chains) }

func L2ChainIDs() []entity.ChainID { return sortedIDs(l2Chains) }
