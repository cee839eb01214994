package entity

import "time"

// FeatureFlags is a per-chain support override. A nil map means no override.
type FeatureFlags map[ChainID]bool

// Clone returns an independent copy. Cloning nil yields nil.
func (f FeatureFlags) Clone() FeatureFlags {
	if f == nil {
		return nil
	}
	out := make(FeatureFlags, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Merge returns a new mapping where entries of other replace entries of f.
func (f FeatureFlags) Merge(other FeatureFlags) FeatureFlags {
	if f == nil && other == nil {
		return nil
	}
	out := make(FeatureFlags, len(f)+len(other))
	for k, v := range f {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// Categories holds the classification memberships of a chain.
type Categories struct {
	L1            bool
	L2            bool
	Testnet       bool
	GasEstimate   bool
	V2Pool        bool
	UniswapX      bool
	NotYetUxReady bool
}

// ChainInfo is the resolved view of a single chain.
type ChainInfo struct {
	ChainID       ChainID
	Name          string
	InterfaceName string
	Known         bool
	Supported     bool
	// Priority is nil when the chain has no display priority (sorted last).
	Priority   *int
	Categories Categories
}

// SupportResolution is the outcome of both support checks for one chain.
type SupportResolution struct {
	ChainID   ChainID
	Supported bool
	// SupportedChain is nil when AsSupportedChain yields no chain.
	SupportedChain *ChainID
	FlagsApplied   bool
}

// DetectedNetwork describes the chain reported by an RPC endpoint.
type DetectedNetwork struct {
	RPC      RPCURL
	Protocol Protocol
	Latency  time.Duration
	Chain    ChainInfo
}
