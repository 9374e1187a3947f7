package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestHTTPMetrics_Observe(t *testing.T) {
	m := NewHTTPMetrics(prometheus.NewRegistry(), "test")

	m.Observe("POST", "POST /api/contact", 201, 10*time.Millisecond)
	m.Observe("POST", "POST /api/contact", 400, 5*time.Millisecond)

	require.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("POST", "POST /api/contact", "201")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("POST", "POST /api/contact", "400")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Errors.WithLabelValues("POST", "POST /api/contact", "400")))
	require.Equal(t, 0.0, testutil.ToFloat64(m.Errors.WithLabelValues("POST", "POST /api/contact", "201")))
}

func TestPipelineCounters(t *testing.T) {
	before := testutil.ToFloat64(ContactSubmissions.WithLabelValues(ResultCreated))
	ContactSubmissions.WithLabelValues(ResultCreated).Inc()
	require.Equal(t, before+1, testutil.ToFloat64(ContactSubmissions.WithLabelValues(ResultCreated)))
}
