package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)

	require.NotNil(t, m)
	assert.NotNil(t, m.HTTPRequestsTotal)
	assert.NotNil(t, m.HTTPRequestDuration)
	assert.NotNil(t, m.LoginsTotal)
	assert.NotNil(t, m.PromotionsTotal)
	assert.NotNil(t, m.ChiefDesignationsTotal)
	assert.NotNil(t, m.WarningsIssuedTotal)
	assert.NotNil(t, m.ExonerationsTotal)
	assert.NotNil(t, m.MembersTotal)
	assert.NotNil(t, m.AuditEntriesTotal)
	assert.NotNil(t, m.StorageErrorsTotal)
}

func TestNewMetrics_DoubleRegistrationPanics(t *testing.T) {
	registry := prometheus.NewRegistry()
	NewMetrics(registry)
	assert.Panics(t, func() { NewMetrics(registry) })
}

func TestHTTPMetricsMiddleware(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)

	router := mux.NewRouter()
	router.Use(HTTPMetricsMiddleware(m))
	router.HandleFunc("/api/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"ok":true}`))
	}).Methods(http.MethodGet)

	for _, id := range []string{"a", "b", "c"} {
		req := httptest.NewRequest(http.MethodGet, "/api/users/"+id, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	// All three requests collapse onto the route template.
	count := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/users/{id}", "200"))
	assert.Equal(t, float64(3), count)
}

func TestHTTPMetricsMiddleware_CapturesStatus(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)

	router := mux.NewRouter()
	router.Use(HTTPMetricsMiddleware(m))
	router.HandleFunc("/boom", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}).Methods(http.MethodGet)

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	router.ServeHTTP(httptest.NewRecorder(), req)

	count := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/boom", "500"))
	assert.Equal(t, float64(1), count)
}

func TestMetricsHandler(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)
	m.WarningsIssuedTotal.Inc()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	MetricsHandler(registry).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "staffd_warnings_issued_total 1")
}

func TestMeteredCheck(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	ctx := context.Background()

	failing := MeteredCheck(m, "health_check", func(ctx context.Context) error {
		return errors.New("connection refused")
	})
	require.Error(t, failing(ctx))
	require.Error(t, failing(ctx))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.StorageErrorsTotal.WithLabelValues("health_check")))

	passing := MeteredCheck(m, "health_check", func(ctx context.Context) error { return nil })
	require.NoError(t, passing(ctx))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.StorageErrorsTotal.WithLabelValues("health_check")))
}
