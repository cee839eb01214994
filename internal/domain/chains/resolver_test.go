package chains

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chain-support/internal/domain/entity"
)

func TestIsSupportedChain_StaticTables(t *testing.T) {
	for _, id := range SupportedChainIDs() {
		want := !IsNotYetUxSupportedChain(id)
		assert.Equal(t, want, IsSupportedChain(id, nil), "chain %s", id)
	}

	for _, id := range NotYetUxSupportedChainIDs() {
		assert.False(t, IsSupportedChain(id, nil), "excluded chain %s must be unsupported", id)
	}

	for _, id := range entity.KnownChainIDs() {
		if supportedChains.Contains(id) {
			continue
		}
		assert.False(t, IsSupportedChain(id, nil), "chain %s is not in the supported table", id)
	}

	assert.True(t, IsSupportedChain(entity.ChainMainnet, nil))
	assert.True(t, IsSupportedChain(entity.ChainNovaMainnet, nil))
	assert.True(t, IsSupportedChain(entity.ChainNovaSepolia, nil))
}

func TestIsSupportedChain_FalsyAndUnknown(t *testing.T) {
	tests := []struct {
		name    string
		chainID entity.ChainID
		flags   entity.FeatureFlags
	}{
		{name: "zero without flags", chainID: 0},
		{name: "zero with empty flags", chainID: 0, flags: entity.FeatureFlags{}},
		{name: "zero with zero keyed flag", chainID: 0, flags: entity.FeatureFlags{0: true}},
		{name: "negative", chainID: -1},
		{name: "unknown", chainID: 999999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, IsSupportedChain(tt.chainID, tt.flags))
		})
	}
}

func TestIsSupportedChain_FlagOverride(t *testing.T) {
	assert.True(t, IsSupportedChain(entity.ChainPolygon, entity.FeatureFlags{entity.ChainPolygon: true}))
	assert.False(t, IsSupportedChain(entity.ChainMainnet, entity.FeatureFlags{entity.ChainMainnet: false}))
	assert.True(t, IsSupportedChain(999999, entity.FeatureFlags{999999: true}))
	assert.True(t, IsSupportedChain(entity.ChainZora, entity.FeatureFlags{entity.ChainZora: true}))

	// Flags for other chains leave the static answer untouched.
	flags := entity.FeatureFlags{entity.ChainPolygon: true}
	assert.True(t, IsSupportedChain(entity.ChainMainnet, flags))
	assert.False(t, IsSupportedChain(entity.ChainBase, flags))
}

func TestAsSupportedChain(t *testing.T) {
	tests := []struct {
		name    string
		chainID entity.ChainID
		flags   entity.FeatureFlags
		wantID  entity.ChainID
		wantOK  bool
	}{
		{name: "zero", chainID: 0},
		{name: "zero with flags", chainID: 0, flags: entity.FeatureFlags{0: true}},
		{name: "mainnet static", chainID: entity.ChainMainnet, wantID: entity.ChainMainnet, wantOK: true},
		{name: "mainnet disabled by flag", chainID: entity.ChainMainnet, flags: entity.FeatureFlags{entity.ChainMainnet: false}},
		{name: "mainnet enabled by flag", chainID: entity.ChainMainnet, flags: entity.FeatureFlags{entity.ChainMainnet: true}, wantID: entity.ChainMainnet, wantOK: true},
		// Positive overrides are not forwarded.
		{name: "polygon enabled by flag", chainID: entity.ChainPolygon, flags: entity.FeatureFlags{entity.ChainPolygon: true}},
		{name: "excluded chain", chainID: entity.ChainZora},
		{name: "unknown", chainID: 999999},
		{name: "nova mainnet", chainID: entity.ChainNovaMainnet, flags: entity.FeatureFlags{entity.ChainPolygon: false}, wantID: entity.ChainNovaMainnet, wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := AsSupportedChain(tt.chainID, tt.flags)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestGetChainPriority(t *testing.T) {
	groups := map[float64][]entity.ChainID{
		0: {entity.ChainMainnet, entity.ChainGoerli, entity.ChainSepolia, entity.ChainNovaMainnet, entity.ChainNovaSepolia},
		1: {entity.ChainArbitrumOne, entity.ChainArbitrumGoerli},
		2: {entity.ChainOptimism, entity.ChainOptimismGoerli},
		3: {entity.ChainPolygon, entity.ChainPolygonMumbai},
		4: {entity.ChainBase},
		5: {entity.ChainBNB},
		6: {entity.ChainAvalanche},
		7: {entity.ChainCelo, entity.ChainCeloAlfajores},
		8: {entity.ChainBlast},
	}
	for want, ids := range groups {
		for _, id := range ids {
			assert.Equal(t, want, GetChainPriority(id), "chain %s", id)
		}
	}

	assert.True(t, math.IsInf(GetChainPriority(999999), 1))
	assert.True(t, math.IsInf(GetChainPriority(0), 1))
	assert.True(t, math.IsInf(GetChainPriority(-5), 1))
}

func TestGetChainPriority_CoversKnownChains(t *testing.T) {
	ungrouped := map[entity.ChainID]bool{
		entity.ChainGnosis:          true,
		entity.ChainMoonbeam:        true,
		entity.ChainOptimismSepolia: true,
		entity.ChainArbitrumSepolia: true,
		entity.ChainBaseGoerli:      true,
		entity.ChainZora:            true,
		entity.ChainZoraSepolia:     true,
		entity.ChainRootstock:       true,
	}

	for _, id := range entity.KnownChainIDs() {
		p := GetChainPriority(id)
		if ungrouped[id] {
			assert.True(t, math.IsInf(p, 1), "chain %s should have no priority", id)
			assert.Nil(t, PriorityRank(id))
			continue
		}
		require.False(t, math.IsInf(p, 1), "chain %s is missing from the priority switch", id)
		rank := PriorityRank(id)
		require.NotNil(t, rank)
		assert.Equal(t, int(p), *rank)
	}
}

func TestIsUniswapXSupportedChain(t *testing.T) {
	assert.True(t, IsUniswapXSupportedChain(entity.ChainMainnet))
	for _, id := range entity.KnownChainIDs() {
		if id == entity.ChainMainnet {
			continue
		}
		assert.False(t, IsUniswapXSupportedChain(id), "chain %s", id)
	}
	assert.False(t, IsUniswapXSupportedChain(0))
}

func TestClassify(t *testing.T) {
	base := Classify(entity.ChainBase)
	assert.True(t, base.L2)
	assert.False(t, base.L1)
	assert.True(t, base.GasEstimate)
	assert.True(t, base.V2Pool)
	assert.False(t, base.Testnet)

	novaSepolia := Classify(entity.ChainNovaSepolia)
	assert.True(t, novaSepolia.L1)
	assert.True(t, novaSepolia.Testnet)
	assert.False(t, novaSepolia.UniswapX)

	assert.True(t, Classify(entity.ChainRootstock).NotYetUxReady)
	assert.Equal(t, entity.Categories{}, Classify(999999))

	assert.True(t, IsV2PoolChainDeprecated(entity.ChainGoerli))
	assert.False(t, IsV2PoolChainDeprecated(entity.ChainBase))
}

func TestL1AndL2AreDisjoint(t *testing.T) {
	for _, id := range L1ChainIDs() {
		assert.False(t, IsL2Chain(id), "chain %s is both L1 and L2", id)
	}
	for _, id := range L2ChainIDs() {
		assert.False(t, IsL1Chain(id), "chain %s is both L2 and L1", id)
	}
}

func TestTableAccessorsReturnCopies(t *testing.T) {
	ids := SupportedChainIDs()
	require.NotEmpty(t, ids)
	ids[0] = 424242

	assert.NotContains(t, SupportedChainIDs(), entity.ChainID(424242))
	assert.Equal(t, []entity.ChainID{entity.ChainMainnet, entity.ChainNovaMainnet, entity.ChainNovaSepolia}, SupportedChainIDs())
}

func TestSortByPriority(t *testing.T) {
	ids := []entity.ChainID{
		999999,
		entity.ChainBlast,
		entity.ChainGnosis,
		entity.ChainBase,
		entity.ChainNovaSepolia,
		entity.ChainArbitrumOne,
		entity.ChainMainnet,
		entity.ChainNovaMainnet,
	}
	SortByPriority(ids)

	assert.Equal(t, []entity.ChainID{
		entity.ChainMainnet,
		entity.ChainNovaMainnet,
		entity.ChainNovaSepolia,
		entity.ChainArbitrumOne,
		entity.ChainBase,
		entity.ChainBlast,
		entity.ChainGnosis,
		999999,
	}, ids)
}

func TestResolverIsDeterministic(t *testing.T) {
	flags := entity.FeatureFlags{entity.ChainPolygon: true, entity.ChainMainnet: false}
	for _, id := range append(entity.KnownChainIDs(), 0, -1, 999999) {
		first, firstOK := AsSupportedChain(id, flags)
		for i := 0; i < 3; i++ {
			again, againOK := AsSupportedChain(id, flags)
			assert.Equal(t, first, again)
			assert.Equal(t, firstOK, againOK)
			assert.Equal(t, IsSupportedChain(id, flags), IsSupportedChain(id, flags))
			assert.Equal(t, GetChainPriority(id), GetChainPriority(id))
		}
	}
}
