package entity

// sourceChains maps bridge source-chain identifiers to display names.
var sourceChains = map[string]string{
	"ethereum":            "Ethereum",
	"polygon":             "Polygon",
	"celo":                "Celo",
	"arbitrum":            "ArbitrumOne",
	"optimism":            "Optimism",
	"Binance Smart Chain": "Bnb",
	"avalanche":           "Avax",
	"base":                "Base",
	"blast":               "Blast",
	"zksync":              "zkSync",
	"BounceBit":           "BounceBit",
	"merlin":              "Merlin",
	"tron":                "Tron",
	"manta":               "MantaPacific",
	"mantle":              "Mantle",
	"scroll":              "Scroll",
	"primary":             "Linea",
}

// SourceChainDisplayName returns the display name for a bridge source chain.
// Lookups are exact; "Binance Smart Chain" and "BounceBit" keep their casing.
func SourceChainDisplayName(source string) (string, bool) {
	name, ok := sourceChains[source]
	return name, ok
}

// SourceChains returns a copy of the source-chain display map.
func SourceChains() map[string]string {
	out := make(map[string]string, len(sourceChains))
	for k, v := range sourceChains {
		out[k] = v
	}
	return out
}
