package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestRouteLabel(t *testing.T) {
	assert.Equal(t, "/api/admin/inquiries/{id}/status",
		routeLabel("/api/admin/inquiries/6f1c2a9e-3b7d-4c1e-9a55-0e2f4d6b8c10/status"))
	assert.Equal(t, "/api/inquiries", routeLabel("/api/inquiries"))
}

func TestPrometheusMiddlewareCountsRequests(t *testing.T) {
	h := PrometheusMiddleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	counter := httpRequestsTotal.WithLabelValues(http.MethodPost, "/api/inquiries", "201")

	before := counterValue(t, counter)
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/inquiries", nil))
	assert.Equal(t, before+1, counterValue(t, counter))
}

func TestRecordNotification(t *testing.T) {
	counter := notificationsTotal.WithLabelValues("slack", "failure")
	before := counterValue(t, counter)
	RecordNotification("slack", false)
	assert.Equal(t, before+1, counterValue(t, counter))
}
