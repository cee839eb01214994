package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"chain-support/internal/config"
	"chain-support/internal/domain/entity"
	domainService "chain-support/internal/domain/service"
	"chain-support/internal/pkg/apperrors"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gorilla/websocket"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Compile-time check
var _ domainService.NetworkDetector = (*Detector)(nil)

// Detector implements the domainService.NetworkDetector interface.
type Detector struct {
	client  *fasthttp.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewDetector creates a new network detector. A zero rate limit disables throttling.
func NewDetector(cfg config.RPCConfig, logger *zap.Logger) *Detector {
	limit := rate.Limit(cfg.RateLimit)
	if cfg.RateLimit <= 0 {
		limit = rate.Inf
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	return &Detector{
		client: &fasthttp.Client{
			ReadTimeout: cfg.GetTimeout(),
		},
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger.Named("NetworkDetector"),
	}
}

// chainIDPayload asks the node for the chain id it serves.
var chainIDPayload = []byte(`{"jsonrpc":"2.0","method":"eth_chainId","params":[],"id":1}`)

// JSONRPCResponse defines the basic structure for a JSON-RPC response.
type JSONRPCResponse struct {
	ID      interface{}     `json:"id"`
	Jsonrpc string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *JSONRPCError   `json:"error,omitempty"`
}

// JSONRPCError defines the structure for a JSON-RPC error.
type JSONRPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// DetectChainID determines the protocol and queries eth_chainId over it.
func (d *Detector) DetectChainID(
	ctx context.Context,
	rpcURL entity.RPCURL,
) (entity.ChainID, time.Duration, error) {
	if err := d.limiter.Wait(ctx); err != nil {
		return 0, 0, fmt.Errorf("%w: waiting for probe slot: %v", apperrors.ErrTimeout, err)
	}

	startTime := time.Now()
	rawURL := rpcURL.String()

	var (
		body []byte
		err  error
	)
	switch entity.ProtocolOf(rpcURL) {
	case entity.ProtocolHTTP, entity.ProtocolHTTPS:
		body, err = d.callHTTP(ctx, rawURL)
	case entity.ProtocolWS, entity.ProtocolWSS:
		body, err = d.callWS(ctx, rawURL)
	default:
		d.logger.Warn("Skipping probe for unsupported protocol", zap.String("url", rawURL))
		return 0, 0, fmt.Errorf("%w: unsupported protocol in URL %s", apperrors.ErrInvalidInput, rawURL)
	}
	latency := time.Since(startTime)
	if err != nil {
		return 0, latency, err
	}

	chainID, err := d.decodeChainID(rawURL, body)
	return chainID, latency, err
}

// callHTTP posts the eth_chainId request over HTTP/HTTPS.
func (d *Detector) callHTTP(ctx context.Context, rpcURL string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(rpcURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(chainIDPayload)

	timeout := d.client.ReadTimeout
	if deadline, hasDeadline := ctx.Deadline(); hasDeadline {
		requestTimeout := time.Until(deadline)
		if requestTimeout <= 0 {
			return nil, fmt.Errorf("%w: context deadline passed before probing %s", apperrors.ErrTimeout, rpcURL)
		}
		if timeout <= 0 || requestTimeout < timeout {
			timeout = requestTimeout
		}
	}

	if err := d.client.DoTimeout(req, resp, timeout); err != nil {
		if errors.Is(err, fasthttp.ErrTimeout) {
			d.logger.Debug("HTTP probe timed out",
				zap.String("url", rpcURL), zap.Duration("timeout", timeout), zap.Error(err))
			return nil, fmt.Errorf("%w: http request to %s timed out after %v: %v",
				apperrors.ErrTimeout, rpcURL, timeout, err,
			)
		}
		d.logger.Debug("HTTP probe request failed", zap.String("url", rpcURL), zap.Error(err))
		return nil, fmt.Errorf("%w: http request to %s failed: %v",
			apperrors.ErrExternalServiceFailure, rpcURL, err,
		)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		d.logger.Debug("HTTP probe returned non-OK status",
			zap.String("url", rpcURL), zap.Int("statusCode", resp.StatusCode()))
		return nil, fmt.Errorf("%w: rpc %s returned non-OK http status: %d",
			apperrors.ErrExternalServiceFailure, rpcURL, resp.StatusCode(),
		)
	}

	// resp is released on return, so the body must be copied.
	return append([]byte(nil), resp.Body()...), nil
}

// callWS sends the eth_chainId request over WS/WSS and reads one reply.
func (d *Detector) callWS(ctx context.Context, rpcURL string) ([]byte, error) {
	operationTimeout := d.client.ReadTimeout
	if operationTimeout <= 0 {
		operationTimeout = 10 * time.Second
	}
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < operationTimeout {
		operationTimeout = time.Until(deadline)
	}
	if operationTimeout <= 0 {
		return nil, fmt.Errorf("%w: context deadline passed before probing %s", apperrors.ErrTimeout, rpcURL)
	}

	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: operationTimeout,
	}

	conn, _, err := dialer.DialContext(ctx, rpcURL, nil)
	if err != nil {
		d.logger.Debug("WS dial failed", zap.String("url", rpcURL), zap.Error(err))
		return nil, d.wrapWSError(ctx, "dial", rpcURL, err)
	}
	defer conn.Close()

	_ = conn.SetWriteDeadline(time.Now().Add(operationTimeout))
	_ = conn.SetReadDeadline(time.Now().Add(operationTimeout))

	if err := conn.WriteMessage(websocket.TextMessage, chainIDPayload); err != nil {
		d.logger.Debug("WS write message failed", zap.String("url", rpcURL), zap.Error(err))
		return nil, d.wrapWSError(ctx, "write", rpcURL, err)
	}

	_, message, err := conn.ReadMessage()
	if err != nil {
		d.logger.Debug("WS read message failed", zap.String("url", rpcURL), zap.Error(err))
		return nil, d.wrapWSError(ctx, "read", rpcURL, err)
	}
	return message, nil
}

func (d *Detector) wrapWSError(ctx context.Context, op, rpcURL string, err error) error {
	var netErr interface{ Timeout() bool }
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: ws %s %s timed out: %v", apperrors.ErrTimeout, op, rpcURL, err)
	}
	return fmt.Errorf("%w: ws %s %s failed: %v", apperrors.ErrExternalServiceFailure, op, rpcURL, err)
}

// decodeChainID validates the JSON-RPC envelope and decodes the hex quantity result.
func (d *Detector) decodeChainID(rpcURL string, body []byte) (entity.ChainID, error) {
	var rpcResp JSONRPCResponse
	if err := json.Unmarshal(body, &rpcResp); err != nil {
		d.logger.Debug("Probe failed to unmarshal JSON response",
			zap.String("url", rpcURL), zap.ByteString("body", body), zap.Error(err))
		return 0, fmt.Errorf("%w: rpc %s returned invalid JSON response: %v",
			apperrors.ErrExternalServiceFailure, rpcURL, err,
		)
	}

	if rpcResp.Error != nil {
		d.logger.Debug("Probe returned JSON-RPC error",
			zap.String("url", rpcURL),
			zap.Int("errorCode", rpcResp.Error.Code),
			zap.String("errorMessage", rpcResp.Error.Message))
		return 0, fmt.Errorf("%w: rpc %s returned json-rpc error: %d %s",
			apperrors.ErrExternalServiceFailure, rpcURL, rpcResp.Error.Code, rpcResp.Error.Message,
		)
	}

	if rpcResp.Jsonrpc != "2.0" || rpcResp.Result == nil {
		return 0, fmt.Errorf("%w: rpc %s returned invalid JSON-RPC structure",
			apperrors.ErrExternalServiceFailure, rpcURL,
		)
	}

	var quantity string
	if err := json.Unmarshal(rpcResp.Result, &quantity); err != nil {
		return 0, fmt.Errorf("%w: rpc %s returned non-string chain id: %v",
			apperrors.ErrExternalServiceFailure, rpcURL, err,
		)
	}

	value, err := hexutil.DecodeUint64(quantity)
	if err != nil {
		return 0, fmt.Errorf("%w: rpc %s returned malformed chain id %q: %v",
			apperrors.ErrExternalServiceFailure, rpcURL, quantity, err,
		)
	}
	if value > math.MaxInt64 {
		return 0, fmt.Errorf("%w: rpc %s returned out-of-range chain id %q",
			apperrors.ErrExternalServiceFailure, rpcURL, quantity,
		)
	}

	return entity.ChainID(value), nil
}
