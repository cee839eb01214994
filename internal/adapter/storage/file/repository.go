package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"chain-support/internal/domain/entity"
	domainRepo "chain-support/internal/domain/repository"
	"chain-support/internal/pkg/apperrors"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Compile-time check
var _ domainRepo.FlagRepository = (*Repository)(nil)

// overridesFile is the on-disk layout of the override file:
//
//	chains:
//	  137: true
//	  nova_sepolia: false
type overridesFile struct {
	Chains map[string]bool `yaml:"chains"`
}

// Repository implements FlagRepository on top of a local YAML file. The file
// is re-read on every call so operators can edit it without a restart.
type Repository struct {
	path   string
	logger *zap.Logger
}

// NewRepository creates a file-backed flag repository.
func NewRepository(path string, logger *zap.Logger) *Repository {
	return &Repository{
		path:   path,
		logger: logger.Named("FileFlagStorage"),
	}
}

// Name identifies the source.
func (r *Repository) Name() string { return "file" }

// GetChainFlags reads the override file. A missing file yields an empty mapping.
func (r *Repository) GetChainFlags(_ context.Context) (entity.FeatureFlags, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			r.logger.Debug("Flag override file not found, no overrides applied", zap.String("path", r.path))
			return entity.FeatureFlags{}, nil
		}
		return nil, fmt.Errorf("failed to read flag override file %s: %w", r.path, err)
	}

	var raw overridesFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: failed to parse flag override file %s: %v", apperrors.ErrInvalidInput, r.path, err)
	}

	flags := make(entity.FeatureFlags, len(raw.Chains))
	for key, enabled := range raw.Chains {
		chainID, err := entity.ParseChainID(key)
		if err != nil || chainID == 0 {
			r.logger.Warn("Skipping unparsable chain key in override file",
				zap.String("path", r.path), zap.String("key", key), zap.Error(err))
			continue
		}
		flags[chainID] = enabled
	}

	r.logger.Debug("Loaded flag overrides from file", zap.String("path", r.path), zap.Int("count", len(flags)))
	return flags, nil
}
