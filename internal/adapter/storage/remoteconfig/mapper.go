package remoteconfig

import (
	dto "chain-support/internal/adapter/storage/remoteconfig/dto"
	"chain-support/internal/domain/entity"

	"go.uber.org/zap"
)

// toDomainFlags converts raw chain keys into a FeatureFlags mapping, skipping
// keys that do not parse or that name the zero chain.
func toDomainFlags(raw dto.FlagsDocumentRaw, logger *zap.Logger) entity.FeatureFlags {
	flags := make(entity.FeatureFlags, len(raw.Chains))
	for key, enabled := range raw.Chains {
		chainID, err := entity.ParseChainID(key)
		if err != nil || chainID == 0 {
			if logger != nil {
				logger.Warn("Skipping unparsable chain key in remote flags",
					zap.String("key", key),
					zap.Error(err))
			}
			continue
		}
		flags[chainID] = enabled
	}
	return flags
}
