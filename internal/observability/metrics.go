package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "ocean_safe"

// Metrics holds the Prometheus counters, histograms, and gauges for the service.
type Metrics struct {
	RequestsConsumed   prometheus.Counter
	ConditionsProduced prometheus.Counter
	TransformErrors    *prometheus.CounterVec // labels: reason={parse,validation,domain,internal}
	PipelineRunning    prometheus.Gauge

	// Batch processing metrics.
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram

	// Assessment metrics.
	ConditionScore prometheus.Histogram
	Conditions     *prometheus.CounterVec // labels: activity, overall
	Overrides      *prometheus.CounterVec // labels: rule

	// Historical provider metrics.
	HistoryRequests    *prometheus.CounterVec // labels: outcome={success,error,empty}
	HistoryCache       *prometheus.CounterVec // labels: result={hit,miss}
	HistoryAPIDuration prometheus.Histogram
}

var (
	batchSizeBuckets     = []float64{1, 5, 10, 20, 30, 40, 50, 75, 100}
	batchDurationBuckets = []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10}
	scoreBuckets         = []float64{15, 25, 39, 40, 55, 69, 70, 85, 100}
	apiDurationBuckets   = []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}
)

func newMetrics() *Metrics {
	return &Metrics{
		RequestsConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_consumed_total",
			Help:      "Total condition requests read from the source topic.",
		}),
		ConditionsProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conditions_produced_total",
			Help:      "Total activity conditions written to the sink.",
		}),
		TransformErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transform_errors_total",
			Help:      "Total evaluation failures by reason.",
		}, []string{"reason"}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size",
			Help:      "Number of messages per batch extracted from Kafka.",
			Buckets:   batchSizeBuckets,
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-transform-load cycle.",
			Buckets:   batchDurationBuckets,
		}),
		ConditionScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "condition_score",
			Help:      "Distribution of overall suitability scores.",
			Buckets:   scoreBuckets,
		}),
		Conditions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conditions_total",
			Help:      "Evaluated conditions by activity and overall category.",
		}, []string{"activity", "overall"}),
		Overrides: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "overrides_total",
			Help:      "Category downgrades by override rule.",
		}, []string{"rule"}),
		HistoryRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_requests_total",
			Help:      "Historical temperature API requests by outcome.",
		}, []string{"outcome"}),
		HistoryCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_cache_total",
			Help:      "Historical temperature cache lookups by result.",
		}, []string{"result"}),
		HistoryAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "history_api_duration_seconds",
			Help:      "NASA POWER API request duration in seconds.",
			Buckets:   apiDurationBuckets,
		}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.RequestsConsumed,
		m.ConditionsProduced,
		m.TransformErrors,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
		m.ConditionScore,
		m.Conditions,
		m.Overrides,
		m.HistoryRequests,
		m.HistoryCache,
		m.HistoryAPIDuration,
	}
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	m := newMetrics()
	prometheus.NewRegistry().MustRegister(m.collectors()...)
	return m
}
