// Package obs holds the optional Prometheus instrumentation for index build
// and query operations. A *Metrics is never required: every call site that
// accepts one treats a nil *Metrics as a no-op, so the hot query path stays
// allocation-free when the caller hasn't wired a collector.
package obs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the counters and histograms this module records against,
// when a caller opts in via a builder's or tree's WithMetrics method.
type Metrics struct {
	BuildsTotal     prometheus.Counter
	BuildSeconds    prometheus.Histogram
	SearchesTotal   *prometheus.CounterVec
	SearchSeconds   *prometheus.HistogramVec
	ResultCountSeen prometheus.Histogram
}

// NewMetrics registers and returns a fresh set of collectors against the
// default Prometheus registry.
func NewMetrics() *Metrics {
	return &Metrics{
		BuildsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "geoidx_index_builds_total",
			Help: "Total number of index bulk-load builds completed.",
		}),
		BuildSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name: "geoidx_index_build_seconds",
			Help: "Wall-clock time spent in Finish building an index.",
		}),
		SearchesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "geoidx_queries_total",
			Help: "Total number of queries issued, by operation.",
		}, []string{"op"}),
		SearchSeconds: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name: "geoidx_query_seconds",
			Help: "Query latency, by operation.",
		}, []string{"op"}),
		ResultCountSeen: promauto.NewHistogram(prometheus.HistogramOpts{
			Name: "geoidx_query_result_count",
			Help: "Number of results returned per query.",
		}),
	}
}

// ObserveBuild records one completed build taking the given seconds. No-op on a nil
// receiver.
func (m *Metrics) ObserveBuild(seconds float64) {
	if m == nil {
		return
	}
	m.BuildsTotal.Inc()
	m.BuildSeconds.Observe(seconds)
}

// ObserveQuery records one query of the given operation name, its latency,
// and its result count. No-op on a nil receiver.
func (m *Metrics) ObserveQuery(op string, seconds float64, resultCount int) {
	if m == nil {
		return
	}
	m.SearchesTotal.WithLabelValues(op).Inc()
	m.SearchSeconds.WithLabelValues(op).Observe(seconds)
	m.ResultCountSeen.Observe(float64(resultCount))
}
