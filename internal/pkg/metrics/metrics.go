package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics for monitoring
var (
	SupportResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chain_support_resolutions_total",
		Help: "The total number of support resolutions by chain and result",
	}, []string{"chain_id", "result"})

	FlagRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chain_support_flag_refreshes_total",
		Help: "The total number of feature-flag source fetches by source and status",
	}, []string{"source", "status"})

	FlagOverrides = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chain_support_flag_overrides",
		Help: "Number of chain overrides in the current merged flag snapshot",
	})

	DetectionLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "chain_support_detection_seconds",
		Help:    "Latency of eth_chainId probes against RPC endpoints",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 10), // 10ms doubling up to ~5s
	}, []string{"protocol"})

	DetectionErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chain_support_detection_errors_total",
		Help: "Total number of failed eth_chainId probes by protocol",
	}, []string{"protocol"})
)
