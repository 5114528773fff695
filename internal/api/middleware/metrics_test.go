package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusvol/UVP-EnrollmentService/pkg/metrics"
)

func findCounter(t *testing.T, name string, labels map[string]string) *dto.Metric {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	for _, family := range families {
		if family.GetName() != name {
			continue
		}
	metric:
		for _, m := range family.GetMetric() {
			got := make(map[string]string, len(m.GetLabel()))
			for _, l := range m.GetLabel() {
				got[l.GetName()] = l.GetValue()
			}
			for k, v := range labels {
				if got[k] != v {
					continue metric
				}
			}
			return m
		}
	}
	return nil
}

func TestMetricsMiddleware_LabelsByRouteTemplate(t *testing.T) {
	m := metrics.New("test-service")

	router := mux.NewRouter()
	router.Use(MetricsMiddleware(m))
	router.HandleFunc("/items/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodGet)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/42", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)

	// path маркируется шаблоном маршрута, а не конкретным URL
	counter := findCounter(t, "http_requests_total", map[string]string{
		"method": http.MethodGet,
		"path":   "/items/{id}",
		"status": "204",
	})
	require.NotNil(t, counter)
	assert.Equal(t, float64(1), counter.GetCounter().GetValue())
}
