package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chain-support/internal/pkg/apperrors"
)

func TestParseChainID(t *testing.T) {
	tests := []struct {
		raw  string
		want ChainID
	}{
		{raw: "1", want: ChainMainnet},
		{raw: " 137 ", want: ChainPolygon},
		{raw: "0x1", want: ChainMainnet},
		{raw: "0XC5CC4", want: ChainNovaMainnet},
		{raw: "nova_mainnet", want: ChainNovaMainnet},
		{raw: "NOVA_SEPOLIA", want: ChainNovaSepolia},
		{raw: "arbitrum", want: ChainArbitrumOne},
		{raw: "999999", want: 999999},
		{raw: "-3", want: -3},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseChainID(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseChainID_Invalid(t *testing.T) {
	for _, raw := range []string{"", "   ", "nope", "0xzz", "1.5", "0x-1", "0x+1", "0x", "0x01", "0xffffffffffffffff"} {
		_, err := ParseChainID(raw)
		require.Error(t, err, raw)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	}
}

func TestChainIDNames(t *testing.T) {
	assert.Equal(t, "NOVA_MAINNET", ChainNovaMainnet.String())
	assert.Equal(t, "UNKNOWN(42)", ChainID(42).String())
	assert.True(t, ChainBlast.IsKnown())
	assert.False(t, ChainID(0).IsKnown())

	name, ok := InterfaceName(ChainNovaSepolia)
	require.True(t, ok)
	assert.Equal(t, "nova_sepolia", name)

	_, ok = InterfaceName(42)
	assert.False(t, ok)

	for _, id := range KnownChainIDs() {
		name, ok := InterfaceName(id)
		require.True(t, ok)
		back, ok := ChainIDFromInterfaceName(name)
		require.True(t, ok)
		assert.Equal(t, id, back)
	}
}

func TestKnownChainIDsSorted(t *testing.T) {
	ids := KnownChainIDs()
	require.Len(t, ids, len(knownChains))
	for i := 1; i < len(ids); i++ {
		assert.Less(t, ids[i-1], ids[i])
	}
}

func TestSourceChains(t *testing.T) {
	name, ok := SourceChainDisplayName("Binance Smart Chain")
	require.True(t, ok)
	assert.Equal(t, "Bnb", name)

	name, ok = SourceChainDisplayName("primary")
	require.True(t, ok)
	assert.Equal(t, "Linea", name)

	_, ok = SourceChainDisplayName("Ethereum")
	assert.False(t, ok)

	m := SourceChains()
	m["ethereum"] = "changed"
	name, _ = SourceChainDisplayName("ethereum")
	assert.Equal(t, "Ethereum", name)
}

func TestFeatureFlags(t *testing.T) {
	var nilFlags FeatureFlags
	assert.Nil(t, nilFlags.Clone())
	assert.Nil(t, nilFlags.Merge(nil))

	base := FeatureFlags{ChainMainnet: true, ChainPolygon: false}
	merged := base.Merge(FeatureFlags{ChainPolygon: true, ChainBase: false})
	assert.Equal(t, FeatureFlags{ChainMainnet: true, ChainPolygon: true, ChainBase: false}, merged)
	assert.False(t, base[ChainPolygon], "merge must not mutate the receiver")

	clone := base.Clone()
	clone[ChainMainnet] = false
	assert.True(t, base[ChainMainnet])
}

func TestNewRPCURL(t *testing.T) {
	for _, raw := range []string{"https://rpc.example.org", "http://127.0.0.1:8545", "wss://ws.example.org/v1", "ws://localhost:8546"} {
		u, err := NewRPCURL(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, raw, u.String())
	}

	for _, raw := range []string{"", "not a url", "ftp://example.org", "https://"} {
		_, err := NewRPCURL(raw)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput, raw)
	}

	assert.Equal(t, ProtocolWSS, ProtocolOf("wss://x.org"))
	assert.Equal(t, ProtocolHTTP, ProtocolOf("HTTP://x.org"))
	assert.Equal(t, ProtocolUnknown, ProtocolOf("x.org"))
	assert.True(t, ProtocolWS.IsWebsocket())
	assert.False(t, ProtocolHTTPS.IsWebsocket())
}
