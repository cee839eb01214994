package remoteconfig

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
	"go.uber.org/zap"

	dto "chain-support/internal/adapter/storage/remoteconfig/dto"
	"chain-support/internal/config"
	"chain-support/internal/domain/entity"
	"chain-support/internal/pkg/apperrors"
)

// newTestRepository serves handler on an in-memory listener and returns a
// repository whose client dials it.
func newTestRepository(t *testing.T, handler fasthttp.RequestHandler) *Repository {
	t.Helper()

	ln := fasthttputil.NewInmemoryListener()
	srv := &fasthttp.Server{Handler: handler}
	go func() { _ = srv.Serve(ln) }()
	t.Cleanup(func() { _ = ln.Close() })

	client := &fasthttp.Client{
		Dial: func(addr string) (net.Conn, error) { return ln.Dial() },
	}
	cfg := config.FlagsConfig{RemoteURL: "http://flags.test/chains.json", FetchTimeout: 2 * time.Second}
	return NewRepositoryWithClient(cfg, client, zap.NewNop())
}

func TestGetChainFlags(t *testing.T) {
	repo := newTestRepository(t, func(ctx *fasthttp.RequestCtx) {
		assert.Equal(t, "/chains.json", string(ctx.Path()))
		ctx.SetContentType("application/json")
		ctx.SetBodyString(`{"chains":{"137":true,"0x1":false,"nova_sepolia":true,"bad":true,"0":true},"updatedAt":"2024-05-01T00:00:00Z"}`)
	})

	flags, err := repo.GetChainFlags(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entity.FeatureFlags{
		entity.ChainPolygon:     true,
		entity.ChainMainnet:     false,
		entity.ChainNovaSepolia: true,
	}, flags)
	assert.Equal(t, "remote", repo.Name())
}

func TestGetChainFlags_Gzip(t *testing.T) {
	repo := newTestRepository(t, func(ctx *fasthttp.RequestCtx) {
		ctx.Response.Header.Set(fasthttp.HeaderContentEncoding, "gzip")
		ctx.SetBody(fasthttp.AppendGzipBytes(nil, []byte(`{"chains":{"8453":true}}`)))
	})

	flags, err := repo.GetChainFlags(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entity.FeatureFlags{entity.ChainBase: true}, flags)
}

func TestGetChainFlags_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler fasthttp.RequestHandler
		wantErr error
	}{
		{
			name:    "not found",
			handler: func(ctx *fasthttp.RequestCtx) { ctx.SetStatusCode(fasthttp.StatusNotFound) },
			wantErr: apperrors.ErrNotFound,
		},
		{
			name:    "server error",
			handler: func(ctx *fasthttp.RequestCtx) { ctx.SetStatusCode(fasthttp.StatusBadGateway) },
			wantErr: apperrors.ErrExternalServiceFailure,
		},
		{
			name:    "invalid json",
			handler: func(ctx *fasthttp.RequestCtx) { ctx.SetBodyString(`{"chains":`) },
			wantErr: apperrors.ErrExternalServiceFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newTestRepository(t, tt.handler)
			_, err := repo.GetChainFlags(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestGetChainFlags_ExpiredContext(t *testing.T) {
	repo := newTestRepository(t, func(ctx *fasthttp.RequestCtx) {})

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	_, err := repo.GetChainFlags(ctx)
	assert.ErrorIs(t, err, apperrors.ErrTimeout)
}

func TestToDomainFlags_Empty(t *testing.T) {
	flags := toDomainFlags(dto.FlagsDocumentRaw{}, nil)
	assert.NotNil(t, flags)
	assert.Empty(t, flags)
}
