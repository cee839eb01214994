package entity

import (
	"fmt"
	"net/url"
	"strings"

	"chain-support/internal/pkg/apperrors"
)

// RPCURL represents a typed URL for an RPC endpoint.
type RPCURL string

// NewRPCURL validates rawURL and returns it as an RPCURL.
func NewRPCURL(rawURL string) (RPCURL, error) {
	if strings.TrimSpace(rawURL) == "" {
		return "", fmt.Errorf("%w: rpc url cannot be empty", apperrors.ErrInvalidInput)
	}

	u, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: invalid rpc url format '%s': %v", apperrors.ErrInvalidInput, rawURL, err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: rpc url '%s' has no host", apperrors.ErrInvalidInput, rawURL)
	}

	scheme := strings.ToLower(u.Scheme)
	switch scheme {
	case "http", "https", "ws", "wss":
	default:
		return "", fmt.Errorf("%w: rpc url '%s' has unsupported scheme: '%s'", apperrors.ErrInvalidInput, rawURL, scheme)
	}

	return RPCURL(rawURL), nil
}

// String returns the string representation of the RPCURL.
func (r RPCURL) String() string {
	return string(r)
}
