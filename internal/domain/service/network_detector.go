package service

import (
	"context"
	"time"

	"chain-support/internal/domain/entity"
)

// NetworkDetector defines the interface for asking an RPC endpoint which chain it serves.
type NetworkDetector interface {
	DetectChainID(ctx context.Context, rpcURL entity.RPCURL) (entity.ChainID, time.Duration, error)
}
