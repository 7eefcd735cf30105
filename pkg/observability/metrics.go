// Package observability provides Prometheus metrics, health checks, and
// graceful shutdown for the staffd server.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPResponseSize    *prometheus.HistogramVec

	// Authentication metrics
	LoginsTotal *prometheus.CounterVec

	// Personnel metrics
	PromotionsTotal        *prometheus.CounterVec
	ChiefDesignationsTotal prometheus.Counter
	WarningsIssuedTotal    prometheus.Counter
	ExonerationsTotal      *prometheus.CounterVec
	MembersTotal           prometheus.Gauge

	// Audit metrics
	AuditEntriesTotal  *prometheus.CounterVec
	AuditPrunedEntries prometheus.Counter

	// Storage metrics
	StorageErrorsTotal *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		registry: registry,
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "staffd_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "staffd_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPResponseSize: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "staffd_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: prometheus.ExponentialBuckets(100, 10, 8),
			},
			[]string{"method", "path"},
		),

		LoginsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "staffd_logins_total",
				Help: "Total number of login attempts",
			},
			[]string{"status"},
		),

		PromotionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "staffd_promotions_total",
				Help: "Total number of role changes",
			},
			[]string{"from_role", "to_role"},
		),
		ChiefDesignationsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "staffd_chief_designations_total",
				Help: "Total number of chief surgeon designations",
			},
		),
		WarningsIssuedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "staffd_warnings_issued_total",
				Help: "Total number of warnings issued",
			},
		),
		ExonerationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "staffd_exonerations_total",
				Help: "Total number of members removed from the roster",
			},
			[]string{"reason"},
		),
		MembersTotal: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "staffd_members_total",
				Help: "Current number of roster members",
			},
		),

		AuditEntriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "staffd_audit_entries_total",
				Help: "Total number of audit log entries appended",
			},
			[]string{"action"},
		),
		AuditPrunedEntries: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "staffd_audit_pruned_entries_total",
				Help: "Total number of audit log entries removed by retention cleanup",
			},
		),

		StorageErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "staffd_storage_errors_total",
				Help: "Total number of storage errors",
			},
			[]string{"operation"},
		),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPResponseSize,
		m.LoginsTotal,
		m.PromotionsTotal,
		m.ChiefDesignationsTotal,
		m.WarningsIssuedTotal,
		m.ExonerationsTotal,
		m.MembersTotal,
		m.AuditEntriesTotal,
		m.AuditPrunedEntries,
		m.StorageErrorsTotal,
	)

	return m
}

// Registry returns the registry the metrics are registered on
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// responseWriter wraps http.ResponseWriter to capture status code and size
type responseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += n
	return n, err
}

// routeTemplate returns the mux route pattern so metrics are not split
// per concrete ID. Falls back to the raw path for unmatched requests.
func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tmpl, err := route.GetPathTemplate(); err == nil {
			return tmpl
		}
	}
	return r.URL.Path
}

// HTTPMetricsMiddleware instruments HTTP requests with Prometheus metrics
func HTTPMetricsMiddleware(metrics *Metrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rw := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(rw, r)

			path := routeTemplate(r)
			duration := time.Since(start).Seconds()
			status := strconv.Itoa(rw.statusCode)

			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
			metrics.HTTPResponseSize.WithLabelValues(r.Method, path).Observe(float64(rw.bytesWritten))
		})
	}
}

// MetricsHandler returns the Prometheus scrape handler for the registry
func MetricsHandler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
