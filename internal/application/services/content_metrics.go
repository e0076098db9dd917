package services

import "github.com/prometheus/client_golang/prometheus"

var (
	contentLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_cache_lookups_total",
			Help: "AI content cache lookups by kind and result (hit, miss, stale)",
		},
		[]string{"kind", "result"},
	)

	contentUpstreamCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_upstream_calls_total",
			Help: "Upstream AI calls by kind and outcome (ok, error, parse_error)",
		},
		[]string{"kind", "outcome"},
	)
)

func init() {
	prometheus.MustRegister(contentLookups)
	prometheus.MustRegister(contentUpstreamCalls)
}
