package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"chain-support/internal/application/port"
	"chain-support/internal/domain"
	"chain-support/internal/domain/entity"
	"chain-support/internal/pkg/apperrors"
)

type ChainHandler struct {
	service port.ChainService
	logger  *zap.Logger
}

func NewChainHandler(svc port.ChainService, logger *zap.Logger) *ChainHandler {
	return &ChainHandler{
		service: svc,
		logger:  logger.Named("ChainHandler"),
	}
}

// ListChains handles GET /chains?category=&flags=
func (h *ChainHandler) ListChains(ctx *fasthttp.RequestCtx) {
	filter, err := port.ParseChainFilter(string(ctx.QueryArgs().Peek("category")))
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	override, err := parseFlagsQuery(string(ctx.QueryArgs().Peek("flags")))
	if err != nil {
		h.writeError(ctx, err)
		return
	}

	infos, err := h.service.ListChains(ctx, filter, override)
	if err != nil {
		h.writeError(ctx, err)
		return
	}

	out := make([]chainResponse, 0, len(infos))
	for _, info := range infos {
		out = append(out, toChainResponse(info))
	}
	h.writeJSON(ctx, fasthttp.StatusOK, out)
}

// GetChain handles GET /chains/{chainId}
func (h *ChainHandler) GetChain(ctx *fasthttp.RequestCtx) {
	chainID, ok := h.chainIDParam(ctx)
	if !ok {
		return
	}
	override, err := parseFlagsQuery(string(ctx.QueryArgs().Peek("flags")))
	if err != nil {
		h.writeError(ctx, err)
		return
	}

	info, err := h.service.GetChain(ctx, chainID, override)
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	h.writeJSON(ctx, fasthttp.StatusOK, toChainResponse(info))
}

// GetSupport handles GET /chains/{chainId}/support?flags=
func (h *ChainHandler) GetSupport(ctx *fasthttp.RequestCtx) {
	chainID, ok := h.chainIDParam(ctx)
	if !ok {
		return
	}
	override, err := parseFlagsQuery(string(ctx.QueryArgs().Peek("flags")))
	if err != nil {
		h.writeError(ctx, err)
		return
	}

	res, err := h.service.ResolveSupport(ctx, chainID, override)
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	h.writeJSON(ctx, fasthttp.StatusOK, toSupportResponse(res))
}

// DetectNetwork handles GET /networks/detect?rpc=
func (h *ChainHandler) DetectNetwork(ctx *fasthttp.RequestCtx) {
	rpcURL := strings.TrimSpace(string(ctx.QueryArgs().Peek("rpc")))
	if rpcURL == "" {
		h.writeError(ctx, fmt.Errorf("%w: missing rpc query parameter", apperrors.ErrInvalidInput))
		return
	}

	detected, err := h.service.DetectNetwork(ctx, rpcURL)
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	h.writeJSON(ctx, fasthttp.StatusOK, toDetectResponse(detected))
}

// GetFlags handles GET /flags
func (h *ChainHandler) GetFlags(ctx *fasthttp.RequestCtx) {
	flags, err := h.service.CurrentFlags(ctx)
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	h.writeJSON(ctx, fasthttp.StatusOK, toFlagsResponse(flags))
}

// RefreshFlags handles POST /flags/refresh
func (h *ChainHandler) RefreshFlags(ctx *fasthttp.RequestCtx) {
	if err := h.service.RefreshFlags(ctx); err != nil {
		h.writeError(ctx, err)
		return
	}
	flags, err := h.service.CurrentFlags(ctx)
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	h.writeJSON(ctx, fasthttp.StatusOK, toFlagsResponse(flags))
}

// GetCategories handles GET /categories
func (h *ChainHandler) GetCategories(ctx *fasthttp.RequestCtx) {
	categories := h.service.Categories()
	out := make(map[string][]int64, len(categories))
	for filter, ids := range categories {
		list := make([]int64, 0, len(ids))
		for _, id := range ids {
			list = append(list, int64(id))
		}
		out[string(filter)] = list
	}
	h.writeJSON(ctx, fasthttp.StatusOK, out)
}

// GetSources handles GET /sources
func (h *ChainHandler) GetSources(ctx *fasthttp.RequestCtx) {
	h.writeJSON(ctx, fasthttp.StatusOK, entity.SourceChains())
}

func (h *ChainHandler) chainIDParam(ctx *fasthttp.RequestCtx) (entity.ChainID, bool) {
	raw, ok := ctx.UserValue("chainId").(string)
	if !ok {
		h.logger.Error("Failed to get chainId from context")
		h.writeError(ctx, fmt.Errorf("%w: missing chainId", apperrors.ErrInvalidInput))
		return 0, false
	}
	chainID, err := entity.ParseChainID(raw)
	if err != nil {
		h.writeError(ctx, err)
		return 0, false
	}
	return chainID, true
}

// parseFlagsQuery decodes "id:bool,id:bool". An empty value means no override.
func parseFlagsQuery(raw string) (entity.FeatureFlags, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	flags := make(entity.FeatureFlags)
	for _, pair := range strings.Split(raw, ",") {
		key, value, found := strings.Cut(pair, ":")
		if !found {
			return nil, fmt.Errorf("%w: flag %q is not in id:bool form", apperrors.ErrInvalidInput, pair)
		}
		chainID, err := entity.ParseChainID(key)
		if err != nil {
			return nil, err
		}
		enabled, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("%w: flag value %q for %s", apperrors.ErrInvalidInput, value, key)
		}
		flags[chainID] = enabled
	}
	return flags, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrInvalidInput):
		return fasthttp.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotFound), errors.Is(err, domain.ErrNoFlagSources):
		return fasthttp.StatusNotFound
	case errors.Is(err, apperrors.ErrTimeout):
		return fasthttp.StatusGatewayTimeout
	case errors.Is(err, apperrors.ErrExternalServiceFailure), errors.Is(err, domain.ErrFlagSourceFailure):
		return fasthttp.StatusBadGateway
	default:
		return fasthttp.StatusInternalServerError
	}
}

func (h *ChainHandler) writeError(ctx *fasthttp.RequestCtx, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == fasthttp.StatusInternalServerError {
		h.logger.Error("Request failed", zap.ByteString("uri", ctx.RequestURI()), zap.Error(err))
		msg = "internal server error"
	} else {
		h.logger.Debug("Request rejected",
			zap.ByteString("uri", ctx.RequestURI()), zap.Int("status", status), zap.Error(err))
	}
	h.writeJSON(ctx, status, errorResponse{Error: msg})
}

func (h *ChainHandler) writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	if err := json.NewEncoder(ctx).Encode(v); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
		// Response already started, can't set error code
	}
}
