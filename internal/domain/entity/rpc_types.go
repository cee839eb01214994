package entity

import "strings"

// Protocol defines the type for RPC protocols.
type Protocol string

// Constants for known protocols.
const (
	ProtocolHTTP    Protocol = "http"
	ProtocolHTTPS   Protocol = "https"
	ProtocolWS      Protocol = "ws"
	ProtocolWSS     Protocol = "wss"
	ProtocolUnknown Protocol = "unknown"
)

// ProtocolOf returns the protocol of an RPC URL based on its scheme.
func ProtocolOf(u RPCURL) Protocol {
	scheme, _, _ := strings.Cut(u.String(), "://")
	switch strings.ToLower(scheme) {
	case "http":
		return ProtocolHTTP
	case "https":
		return ProtocolHTTPS
	case "ws":
		return ProtocolWS
	case "wss":
		return ProtocolWSS
	default:
		return ProtocolUnknown
	}
}

// IsWebsocket reports whether the protocol is ws or wss.
func (p Protocol) IsWebsocket() bool {
	return p == ProtocolWS || p == ProtocolWSS
}
