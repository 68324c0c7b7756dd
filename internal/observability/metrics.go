// Package observability provides Prometheus metrics for the analysis
// pipeline and the HTTP server.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Rejection reasons used as the "reason" label of FramesRejected.
const (
	ReasonInvalid    = "invalid"
	ReasonOutOfOrder = "out_of_order"
	ReasonDetection  = "detection"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Pipeline metrics
	FramesAnalyzed  prometheus.Counter
	FramesRejected  *prometheus.CounterVec
	AnalysisLatency prometheus.Histogram
	OverallScore    prometheus.Histogram
	PriorityTotal   *prometheus.CounterVec

	// Session metrics
	SessionsCreated prometheus.Counter
	ActiveSessions  prometheus.Gauge

	// Storage metrics
	StoreErrors *prometheus.CounterVec
}

// NewMetrics creates a Metrics instance registered with reg. A nil reg uses
// the default Prometheus registry.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "sprint_report"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		FramesAnalyzed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "frames_analyzed_total",
			Help:      "Total number of pose frames turned into metrics",
		}),
		FramesRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "frames_rejected_total",
			Help:      "Total number of frames dropped before analysis by reason",
		}, []string{"reason"}),
		AnalysisLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "analysis_duration_seconds",
			Help:      "Time spent analysing one frame",
			Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01},
		}),
		OverallScore: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "overall_score",
			Help:      "Distribution of overall form scores",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		}),
		PriorityTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "analyses_by_priority_total",
			Help:      "Total number of analyses by coaching priority",
		}, []string{"priority"}),

		SessionsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sessions",
			Name:      "created_total",
			Help:      "Total number of analysis sessions created",
		}),
		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "sessions",
			Name:      "active",
			Help:      "Number of sessions held in memory",
		}),

		StoreErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "errors_total",
			Help:      "Total number of failed storage operations by operation",
		}, []string{"operation"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("", nil)

// RecordAnalysis records one analysed frame.
func (m *Metrics) RecordAnalysis(seconds, score float64, priority string) {
	m.FramesAnalyzed.Inc()
	m.AnalysisLatency.Observe(seconds)
	m.OverallScore.Observe(score)
	m.PriorityTotal.WithLabelValues(priority).Inc()
}

// RecordRejected records a frame dropped before analysis.
func (m *Metrics) RecordRejected(reason string) {
	m.FramesRejected.WithLabelValues(reason).Inc()
}

// RecordSessionCreated increments the session counters.
func (m *Metrics) RecordSessionCreated() {
	m.SessionsCreated.Inc()
	m.ActiveSessions.Inc()
}

// RecordStoreError records a failed storage operation.
func (m *Metrics) RecordStoreError(operation string) {
	m.StoreErrors.WithLabelValues(operation).Inc()
}
