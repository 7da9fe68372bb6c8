package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_engine_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dashboard_engine_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	storeOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_engine_store_operations_total",
			Help: "Total number of dashboard store operations",
		},
		[]string{"operation"},
	)

	exportTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_engine_export_transitions_total",
			Help: "Total number of export job status transitions",
		},
		[]string{"status"},
	)

	websocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dashboard_engine_websocket_clients",
			Help: "Number of connected dashboard feed clients",
		},
	)
)

// RecordHTTPRequest records an HTTP request
func RecordHTTPRequest(method, endpoint string, statusCode int, durationSeconds float64) {
	status := "unknown"
	if statusCode >= 200 && statusCode < 300 {
		status = "2xx"
	} else if statusCode >= 300 && statusCode < 400 {
		status = "3xx"
	} else if statusCode >= 400 && statusCode < 500 {
		status = "4xx"
	} else if statusCode >= 500 {
		status = "5xx"
	}

	httpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	httpRequestDuration.WithLabelValues(method, endpoint).Observe(durationSeconds)
}

// RecordStoreOperation counts one engine operation by name.
func RecordStoreOperation(operation string) {
	storeOperationsTotal.WithLabelValues(operation).Inc()
}

// RecordExportTransition counts an export job reaching a status.
func RecordExportTransition(status string) {
	exportTransitionsTotal.WithLabelValues(status).Inc()
}

// WebsocketClientConnected adjusts the feed client gauge.
func WebsocketClientConnected(delta float64) {
	websocketClients.Add(delta)
}

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
