package remoteconfig

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	dto "chain-support/internal/adapter/storage/remoteconfig/dto"
	"chain-support/internal/config"
	"chain-support/internal/domain/entity"
	domainRepo "chain-support/internal/domain/repository"
	"chain-support/internal/pkg/apperrors"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// Compile-time check
var _ domainRepo.FlagRepository = (*Repository)(nil)

// Repository implements FlagRepository by fetching a remote-config JSON document.
type Repository struct {
	client  *fasthttp.Client
	url     string
	timeout time.Duration
	logger  *zap.Logger
}

// NewRepository creates a remote-config flag repository for cfg.RemoteURL.
func NewRepository(cfg config.FlagsConfig, logger *zap.Logger) *Repository {
	return NewRepositoryWithClient(cfg, &fasthttp.Client{}, logger)
}

// NewRepositoryWithClient is NewRepository with a caller supplied client.
func NewRepositoryWithClient(cfg config.FlagsConfig, client *fasthttp.Client, logger *zap.Logger) *Repository {
	return &Repository{
		client:  client,
		url:     cfg.RemoteURL,
		timeout: cfg.GetFetchTimeout(),
		logger:  logger.Named("RemoteConfigStorage"),
	}
}

// Name identifies the source.
func (r *Repository) Name() string { return "remote" }

// GetChainFlags fetches the current per-chain overrides from the remote endpoint.
func (r *Repository) GetChainFlags(ctx context.Context) (entity.FeatureFlags, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(r.url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set(fasthttp.HeaderAcceptEncoding, "gzip")

	timeout := r.timeout
	if deadline, hasDeadline := ctx.Deadline(); hasDeadline {
		requestTimeout := time.Until(deadline)
		if requestTimeout <= 0 {
			return nil, fmt.Errorf("%w: context deadline passed before fetching remote flags", apperrors.ErrTimeout)
		}
		if requestTimeout < timeout {
			timeout = requestTimeout
		}
	}

	r.logger.Debug(
		"Fetching chain flags from remote config",
		zap.String("url", r.url),
		zap.Duration("timeout", timeout),
	)

	if err := r.client.DoTimeout(req, resp, timeout); err != nil {
		if errors.Is(err, fasthttp.ErrTimeout) {
			return nil, fmt.Errorf("%w: remote config request timed out after %v", apperrors.ErrTimeout, timeout)
		}
		r.logger.Error("Failed to execute request to remote config", zap.Error(err))
		return nil, fmt.Errorf("%w: failed to execute request to remote config: %v",
			apperrors.ErrExternalServiceFailure, err,
		)
	}

	if resp.StatusCode() == fasthttp.StatusNotFound {
		r.logger.Warn("Remote config reported not found", zap.Int("statusCode", resp.StatusCode()))
		return nil, fmt.Errorf("%w: remote config reported not found (%s)", apperrors.ErrNotFound, r.url)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		r.logger.Error(
			"Remote config returned non-OK status",
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("body", resp.Body()),
		)
		return nil, fmt.Errorf("%w: remote config returned status %d",
			apperrors.ErrExternalServiceFailure, resp.StatusCode(),
		)
	}

	var body []byte
	var err error
	if bytes.EqualFold(resp.Header.Peek(fasthttp.HeaderContentEncoding), []byte("gzip")) {
		body, err = resp.BodyGunzip()
		if err != nil {
			r.logger.Error("Failed to gunzip remote config body", zap.Error(err))
			return nil, fmt.Errorf("%w: failed to decompress remote config response: %v",
				apperrors.ErrExternalServiceFailure, err,
			)
		}
	} else {
		body = resp.Body()
	}

	var raw dto.FlagsDocumentRaw
	if err := json.Unmarshal(body, &raw); err != nil {
		r.logger.Error("Failed to unmarshal remote config document",
			zap.Error(err), zap.ByteString("bodySample", body[:min(1024, len(body))]),
		)
		return nil, fmt.Errorf("%w: failed to parse remote config response: %v",
			apperrors.ErrExternalServiceFailure, err,
		)
	}

	flags := toDomainFlags(raw, r.logger)
	r.logger.Debug("Fetched chain flags from remote config", zap.Int("count", len(flags)))
	return flags, nil
}
