package entity

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"chain-support/internal/pkg/apperrors"
)

// ChainID identifies a blockchain network. The zero value means no chain.
type ChainID int64

// Known networks.
const (
	ChainMainnet         ChainID = 1
	ChainGoerli          ChainID = 5
	ChainSepolia         ChainID = 11155111
	ChainOptimism        ChainID = 10
	ChainOptimismGoerli  ChainID = 420
	ChainOptimismSepolia ChainID = 11155420
	ChainArbitrumOne     ChainID = 42161
	ChainArbitrumGoerli  ChainID = 421613
	ChainArbitrumSepolia ChainID = 421614
	ChainPolygon         ChainID = 137
	ChainPolygonMumbai   ChainID = 80001
	ChainCelo            ChainID = 42220
	ChainCeloAlfajores   ChainID = 44787
	ChainGnosis          ChainID = 100
	ChainMoonbeam        ChainID = 1284
	ChainBNB             ChainID = 56
	ChainAvalanche       ChainID = 43114
	ChainBaseGoerli      ChainID = 84531
	ChainBase            ChainID = 8453
	ChainZora            ChainID = 7777777
	ChainZoraSepolia     ChainID = 999999999
	ChainRootstock       ChainID = 30
	ChainBlast           ChainID = 81457
	ChainNovaMainnet     ChainID = 810180
	ChainNovaSepolia     ChainID = 810181
)

type chainNames struct {
	enum    string
	urlName string
}

var knownChains = map[ChainID]chainNames{
	ChainMainnet:         {"MAINNET", "mainnet"},
	ChainGoerli:          {"GOERLI", "goerli"},
	ChainSepolia:         {"SEPOLIA", "sepolia"},
	ChainOptimism:        {"OPTIMISM", "optimism"},
	ChainOptimismGoerli:  {"OPTIMISM_GOERLI", "optimism_goerli"},
	ChainOptimismSepolia: {"OPTIMISM_SEPOLIA", "optimism_sepolia"},
	ChainArbitrumOne:     {"ARBITRUM_ONE", "arbitrum"},
	ChainArbitrumGoerli:  {"ARBITRUM_GOERLI", "arbitrum_goerli"},
	ChainArbitrumSepolia: {"ARBITRUM_SEPOLIA", "arbitrum_sepolia"},
	ChainPolygon:         {"POLYGON", "polygon"},
	ChainPolygonMumbai:   {"POLYGON_MUMBAI", "polygon_mumbai"},
	ChainCelo:            {"CELO", "celo"},
	ChainCeloAlfajores:   {"CELO_ALFAJORES", "celo_alfajores"},
	ChainGnosis:          {"GNOSIS", "gnosis"},
	ChainMoonbeam:        {"MOONBEAM", "moonbeam"},
	ChainBNB:             {"BNB", "bnb"},
	ChainAvalanche:       {"AVALANCHE", "avalanche"},
	ChainBaseGoerli:      {"BASE_GOERLI", "base_goerli"},
	ChainBase:            {"BASE", "base"},
	ChainZora:            {"ZORA", "zora"},
	ChainZoraSepolia:     {"ZORA_SEPOLIA", "zora_sepolia"},
	ChainRootstock:       {"ROOTSTOCK", "rootstock"},
	ChainBlast:           {"BLAST", "blast"},
	ChainNovaMainnet:     {"NOVA_MAINNET", "nova_mainnet"},
	ChainNovaSepolia:     {"NOVA_SEPOLIA", "nova_sepolia"},
}

var chainsByInterfaceName = func() map[string]ChainID {
	m := make(map[string]ChainID, len(knownChains))
	for id, names := range knownChains {
		m[names.urlName] = id
	}
	return m
}()

// String returns the enum name of the chain, e.g. "NOVA_MAINNET".
func (c ChainID) String() string {
	if names, ok := knownChains[c]; ok {
		return names.enum
	}
	return fmt.Sprintf("UNKNOWN(%d)", int64(c))
}

// IsKnown reports whether the chain belongs to the known catalogue.
func (c ChainID) IsKnown() bool {
	_, ok := knownChains[c]
	return ok
}

// KnownChainIDs returns every known chain id in ascending order.
func KnownChainIDs() []ChainID {
	ids := make([]ChainID, 0, len(knownChains))
	for id := range knownChains {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// InterfaceName returns the URL name used by the swap interface for the chain.
func InterfaceName(c ChainID) (string, bool) {
	names, ok := knownChains[c]
	if !ok {
		return "", false
	}
	return names.urlName, true
}

// ChainIDFromInterfaceName resolves an interface URL name, ignoring case.
func ChainIDFromInterfaceName(name string) (ChainID, bool) {
	id, ok := chainsByInterfaceName[strings.ToLower(strings.TrimSpace(name))]
	return id, ok
}

// ParseChainID accepts a decimal id, a 0x-prefixed hex id or an interface name.
func ParseChainID(raw string) (ChainID, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("%w: empty chain id", apperrors.ErrInvalidInput)
	}

	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err := hexutil.DecodeUint64(s)
		if err != nil {
			return 0, fmt.Errorf("%w: invalid hex chain id %q: %v", apperrors.ErrInvalidInput, raw, err)
		}
		if v > math.MaxInt64 {
			return 0, fmt.Errorf("%w: hex chain id %q out of range", apperrors.ErrInvalidInput, raw)
		}
		return ChainID(v), nil
	}

	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ChainID(v), nil
	}

	if id, ok := ChainIDFromInterfaceName(s); ok {
		return id, nil
	}
	return 0, fmt.Errorf("%w: unrecognized chain id %q", apperrors.ErrInvalidInput, raw)
}
