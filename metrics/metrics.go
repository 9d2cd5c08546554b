// Package metrics exposes Prometheus collectors for analyses, renders and deliveries.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	AnalysesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "value_helper_analyses_total",
		Help: "Price analyses run, by whether at least two items were comparable.",
	}, []string{"comparable"})

	RendersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "value_helper_snapshot_renders_total",
		Help: "Snapshot renders, by backend and result (ok, canceled, busy or a failure reason).",
	}, []string{"backend", "result"})

	RenderDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "value_helper_snapshot_render_seconds",
		Help:    "Time spent rendering a snapshot.",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
	}, []string{"backend"})

	DeliveriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "value_helper_deliveries_total",
		Help: "Snapshot deliveries, by action (share or download) and the strategy that finished it.",
	}, []string{"action", "strategy"})
)

// ObserveAnalysis counts one engine run
func ObserveAnalysis(comparable bool) {
	label := "false"
	if comparable {
		label = "true"
	}
	AnalysesTotal.WithLabelValues(label).Inc()
}

// ObserveRender records the outcome and duration of one render
func ObserveRender(backend, result string, elapsed time.Duration) {
	RendersTotal.WithLabelValues(backend, result).Inc()
	RenderDuration.WithLabelValues(backend).Observe(elapsed.Seconds())
}

// ObserveDelivery counts one share or download action
func ObserveDelivery(action, strategy string) {
	DeliveriesTotal.WithLabelValues(action, strategy).Inc()
}

// Handler serves the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
