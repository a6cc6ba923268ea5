// Package metrics exposes Prometheus collectors for reconciliation runs.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/liquifier/internal/models"
)

const namespace = "liquifier"

// Run outcomes.
const (
	OutcomeOK          = "ok"
	OutcomeConfigError = "config_error"
	OutcomeQueryError  = "query_error"
)

// Metrics holds the collectors for one registry.
type Metrics struct {
	registry *prometheus.Registry

	runs          *prometheus.CounterVec
	queryDuration *prometheus.HistogramVec
	settledAmount prometheus.Gauge
	payments      prometheus.Gauge
	eligible      prometheus.Gauge
	shapeWarnings *prometheus.CounterVec
}

// New registers all collectors on a fresh registry, plus Go and process
// collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_runs_total",
			Help:      "Reconciliation runs by outcome.",
		}, []string{"outcome"}),
		queryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "node_query_duration_seconds",
			Help:      "Latency of node queries.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}, []string{"operation"}),
		settledAmount: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "settled_amount_sat",
			Help:      "Settled amount of the last successful run.",
		}),
		payments: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "payout_payments",
			Help:      "Payment count of the last successful run.",
		}),
		eligible: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "eligible_channels",
			Help:      "Eligible channels of the last successful run.",
		}),
		shapeWarnings: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shape_warnings_total",
			Help:      "Node fields replaced by defaults, by record kind.",
		}, []string{"record"}),
	}
}

// ObserveQuery records how long a node query took.
func (m *Metrics) ObserveQuery(operation string, d time.Duration) {
	m.queryDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// RunFailed counts a run that aborted with the given outcome.
func (m *Metrics) RunFailed(outcome string) {
	m.runs.WithLabelValues(outcome).Inc()
}

// RunSucceeded counts a successful run and publishes its results.
func (m *Metrics) RunSucceeded(report *models.Report) {
	m.runs.WithLabelValues(OutcomeOK).Inc()
	m.settledAmount.Set(float64(report.Plan.TotalSettled))
	m.payments.Set(float64(report.Plan.PaymentCount))
	m.eligible.Set(float64(len(report.Channels)))
	for _, w := range report.Warnings {
		m.shapeWarnings.WithLabelValues(w.Record).Inc()
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
