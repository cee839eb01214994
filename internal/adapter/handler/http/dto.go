package http

import (
	"strconv"

	"chain-support/internal/domain/entity"
)

type categoriesResponse struct {
	L1            bool `json:"l1"`
	L2            bool `json:"l2"`
	Testnet       bool `json:"testnet"`
	GasEstimate   bool `json:"gasEstimate"`
	V2Pool        bool `json:"v2Pool"`
	UniswapX      bool `json:"uniswapX"`
	NotYetUxReady bool `json:"notYetUxReady"`
}

type chainResponse struct {
	ChainID       int64  `json:"chainId"`
	Name          string `json:"name"`
	InterfaceName string `json:"interfaceName,omitempty"`
	Known         bool   `json:"known"`
	Supported     bool   `json:"supported"`
	// Priority is null for chains without a display priority.
	Priority   *int               `json:"priority"`
	Categories categoriesResponse `json:"categories"`
}

type supportResponse struct {
	ChainID        int64  `json:"chainId"`
	Supported      bool   `json:"supported"`
	SupportedChain *int64 `json:"supportedChain"`
	FlagsApplied   bool   `json:"flagsApplied"`
}

type detectResponse struct {
	RPC       string        `json:"rpc"`
	Protocol  string        `json:"protocol"`
	LatencyMs int64         `json:"latencyMs"`
	Chain     chainResponse `json:"chain"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toChainResponse(info entity.ChainInfo) chainResponse {
	return chainResponse{
		ChainID:       int64(info.ChainID),
		Name:          info.Name,
		InterfaceName: info.InterfaceName,
		Known:         info.Known,
		Supported:     info.Supported,
		Priority:      info.Priority,
		Categories: categoriesResponse{
			L1:            info.Categories.L1,
			L2:            info.Categories.L2,
			Testnet:       info.Categories.Testnet,
			GasEstimate:   info.Categories.GasEstimate,
			V2Pool:        info.Categories.V2Pool,
			UniswapX:      info.Categories.UniswapX,
			NotYetUxReady: info.Categories.NotYetUxReady,
		},
	}
}

func toSupportResponse(res entity.SupportResolution) supportResponse {
	out := supportResponse{
		ChainID:      int64(res.ChainID),
		Supported:    res.Supported,
		FlagsApplied: res.FlagsApplied,
	}
	if res.SupportedChain != nil {
		id := int64(*res.SupportedChain)
		out.SupportedChain = &id
	}
	return out
}

func toDetectResponse(d entity.DetectedNetwork) detectResponse {
	return detectResponse{
		RPC:       d.RPC.String(),
		Protocol:  string(d.Protocol),
		LatencyMs: d.Latency.Milliseconds(),
		Chain:     toChainResponse(d.Chain),
	}
}

// toFlagsResponse keys flags by decimal chain id; nil becomes an empty object.
func toFlagsResponse(flags entity.FeatureFlags) map[string]bool {
	out := make(map[string]bool, len(flags))
	for id, v := range flags {
		out[strconv.FormatInt(int64(id), 10)] = v
	}
	return out
}
