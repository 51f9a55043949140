// Package telemetry exports Prometheus metrics for analysis runs and the
// HTTP API.
package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "rivalscope"

// Metrics holds the rivalscope collectors. It satisfies pipeline.RunObserver.
type Metrics struct {
	RunsTotal      *prometheus.CounterVec
	RunDuration    prometheus.Histogram
	PagesFetched   prometheus.Counter
	PageFailures   prometheus.Counter
	HTTPRequests   *prometheus.CounterVec
	ContentChanges prometheus.Counter
	RankingsStored prometheus.Counter

	gatherer prometheus.Gatherer
}

// NewMetrics registers the collectors with reg. A nil reg uses a fresh
// registry, which keeps repeated calls (tests, multiple servers) from
// colliding on the global one.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Analysis runs by outcome",
		}, []string{"result"}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of one analysis run",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		PagesFetched: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pages_fetched_total",
			Help:      "Competitor pages fetched and parsed",
		}),
		PageFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "page_failures_total",
			Help:      "Competitor pages that could not be fetched",
		}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "API requests by method, route and status",
		}, []string{"method", "route", "status"}),
		ContentChanges: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "content_changes_total",
			Help:      "Homepage content changes detected by the monitor",
		}),
		RankingsStored: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rankings_recorded_total",
			Help:      "Tracked keyword rankings recorded by the monitor",
		}),
		gatherer: reg,
	}
}

// ObserveRun records the outcome and duration of one analysis run.
func (m *Metrics) ObserveRun(outcome string, elapsed time.Duration) {
	m.RunsTotal.WithLabelValues(outcome).Inc()
	m.RunDuration.Observe(elapsed.Seconds())
}

// ObservePages records the page counts of one run.
func (m *Metrics) ObservePages(fetched, failed int) {
	m.PagesFetched.Add(float64(fetched))
	m.PageFailures.Add(float64(failed))
}

// ObserveRequest records one served API request.
func (m *Metrics) ObserveRequest(method, route string, status int) {
	if route == "" {
		route = "unmatched"
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// ObserveMonitor records the side effects of one monitoring pass.
func (m *Metrics) ObserveMonitor(contentChanges, rankings int) {
	m.ContentChanges.Add(float64(contentChanges))
	m.RankingsStored.Add(float64(rankings))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
