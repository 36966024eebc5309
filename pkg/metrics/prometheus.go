// Package metrics provides Prometheus metrics for the Sekka forecast service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Manager owns every Prometheus collector used by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Training pipeline
	routesTrained     prometheus.Counter
	routesFailed      prometheus.Counter
	trainingDuration  prometheus.Histogram
	trainingQueueSize prometheus.Gauge
	trainerWorkers    prometheus.Gauge

	// Inference
	predictionsServed prometheus.Counter
	predictionErrors  prometheus.Counter
	forecastHorizon   prometheus.Histogram
	inferenceLatency  prometheus.Histogram

	// Model store
	modelLoads       prometheus.Counter
	modelSaves       prometheus.Counter
	modelCacheHits   prometheus.Counter
	modelCacheMisses prometheus.Counter
	storedRoutes     prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // dedicated registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager()
}

// NewManager creates a metrics manager and registers all collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "sekka",
		subsystem:        "forecast",
		histogramBuckets: []float64{1, 5, 10, 50, 100, 500, 1000, 5000, 30000},
		enabled:          true,
		registry:         customRegistry,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	factory := func(name, help string) prometheus.CounterOpts {
		return prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      name,
			Help:      help,
		}
	}

	m.routesTrained = prometheus.NewCounter(factory("routes_trained_total", "Routes trained successfully."))
	m.routesFailed = prometheus.NewCounter(factory("routes_failed_total", "Routes whose training failed."))
	m.trainingDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "training_duration_ms",
		Help:      "Per-route training duration in milliseconds.",
		Buckets:   m.histogramBuckets,
	})
	m.trainingQueueSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "training_queue_size",
		Help:      "Routes waiting to be trained in the current batch.",
	})
	m.trainerWorkers = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "trainer_workers",
		Help:      "Configured training worker count.",
	})

	m.predictionsServed = prometheus.NewCounter(factory("predictions_served_total", "Forecast requests answered."))
	m.predictionErrors = prometheus.NewCounter(factory("prediction_errors_total", "Forecast requests that failed."))
	m.forecastHorizon = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "forecast_horizon_hours",
		Help:      "Requested forecast horizon in hours.",
		Buckets:   []float64{1, 6, 12, 24, 48, 72, 168, 336},
	})
	m.inferenceLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "inference_latency_ms",
		Help:      "End-to-end prediction latency in milliseconds.",
		Buckets:   m.histogramBuckets,
	})

	m.modelLoads = prometheus.NewCounter(factory("model_loads_total", "Model artifact loads from disk."))
	m.modelSaves = prometheus.NewCounter(factory("model_saves_total", "Model artifact saves to disk."))
	m.modelCacheHits = prometheus.NewCounter(factory("model_cache_hits_total", "Model cache hits."))
	m.modelCacheMisses = prometheus.NewCounter(factory("model_cache_misses_total", "Model cache misses."))
	m.storedRoutes = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "stored_routes",
		Help:      "Number of routes with persisted models.",
	})

	m.httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "HTTP requests by endpoint, method and status.",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request duration in milliseconds.",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})
	m.httpErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_errors_total",
		Help:      "HTTP error responses by endpoint and type.",
	}, []string{"endpoint", "method", "type"})

	if !m.enabled {
		return
	}
	m.registry.MustRegister(
		m.routesTrained, m.routesFailed, m.trainingDuration, m.trainingQueueSize, m.trainerWorkers,
		m.predictionsServed, m.predictionErrors, m.forecastHorizon, m.inferenceLatency,
		m.modelLoads, m.modelSaves, m.modelCacheHits, m.modelCacheMisses, m.storedRoutes,
		m.httpRequests, m.httpRequestDuration, m.httpErrors,
	)
}

// Package-level helpers delegating to the global manager.

// RecordRouteTrained increments the trained-route counter and training duration.
func RecordRouteTrained(durationMs float64) {
	globalManager.routesTrained.Inc()
	globalManager.trainingDuration.Observe(durationMs)
}

// RecordRouteFailed increments the failed-route counter.
func RecordRouteFailed() {
	globalManager.routesFailed.Inc()
}

// UpdateTrainingQueueSize sets the pending-route gauge.
func UpdateTrainingQueueSize(size int) {
	globalManager.trainingQueueSize.Set(float64(size))
}

// UpdateTrainerWorkers sets the worker gauge.
func UpdateTrainerWorkers(count int) {
	globalManager.trainerWorkers.Set(float64(count))
}

// RecordPrediction records a served forecast with its horizon and latency.
func RecordPrediction(horizonHours int, latencyMs float64) {
	globalManager.predictionsServed.Inc()
	globalManager.forecastHorizon.Observe(float64(horizonHours))
	globalManager.inferenceLatency.Observe(latencyMs)
}

// RecordPredictionError increments the prediction error counter.
func RecordPredictionError() {
	globalManager.predictionErrors.Inc()
}

// RecordModelLoad increments the model load counter.
func RecordModelLoad() { globalManager.modelLoads.Inc() }

// RecordModelSave increments the model save counter.
func RecordModelSave() { globalManager.modelSaves.Inc() }

// RecordModelCacheHit increments the cache hit counter.
func RecordModelCacheHit() { globalManager.modelCacheHits.Inc() }

// RecordModelCacheMiss increments the cache miss counter.
func RecordModelCacheMiss() { globalManager.modelCacheMisses.Inc() }

// UpdateStoredRoutes sets the stored-route gauge.
func UpdateStoredRoutes(count int) { globalManager.storedRoutes.Set(float64(count)) }

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, status string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(durationMs)
}

// RecordHTTPError records an error response by type.
func RecordHTTPError(endpoint, method, errorType string) {
	globalManager.httpErrors.WithLabelValues(endpoint, method, errorType).Inc()
}

// GetRegistry returns the Prometheus registry backing the service metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
