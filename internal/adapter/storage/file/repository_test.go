package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"chain-support/internal/domain/entity"
	"chain-support/internal/pkg/apperrors"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "flags.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestGetChainFlags(t *testing.T) {
	path := writeFile(t, `
chains:
  137: true
  nova_sepolia: false
  "0x2105": true
  unknown_chain: true
`)
	repo := NewRepository(path, zap.NewNop())

	flags, err := repo.GetChainFlags(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entity.FeatureFlags{
		entity.ChainPolygon:     true,
		entity.ChainNovaSepolia: false,
		entity.ChainBase:        true,
	}, flags)
	assert.Equal(t, "file", repo.Name())
}

func TestGetChainFlags_MissingFile(t *testing.T) {
	repo := NewRepository(filepath.Join(t.TempDir(), "absent.yaml"), zap.NewNop())

	flags, err := repo.GetChainFlags(context.Background())
	require.NoError(t, err)
	assert.Empty(t, flags)
}

func TestGetChainFlags_Malformed(t *testing.T) {
	repo := NewRepository(writeFile(t, "chains: [1, 2"), zap.NewNop())

	_, err := repo.GetChainFlags(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestGetChainFlags_ReReadsFile(t *testing.T) {
	path := writeFile(t, "chains:\n  1: true\n")
	repo := NewRepository(path, zap.NewNop())

	flags, err := repo.GetChainFlags(context.Background())
	require.NoError(t, err)
	assert.True(t, flags[entity.ChainMainnet])

	require.NoError(t, os.WriteFile(path, []byte("chains:\n  1: false\n"), 0o600))
	flags, err = repo.GetChainFlags(context.Background())
	require.NoError(t, err)
	assert.False(t, flags[entity.ChainMainnet])
}
