package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := NewPrometheusRecorderWith(reg)

	rec.IncCounter("fetch_options", map[string]string{"chain": "BTC"})
	rec.IncCounter("fetch_options", map[string]string{"chain": "BTC"})
	rec.IncCounter("verification_failure", map[string]string{"chain": "ETH"})
	rec.ObserveLatency("fetch_options", 125*time.Millisecond, map[string]string{"chain": "BTC"})

	prom, ok := rec.(*PrometheusRecorder)
	require.True(t, ok)

	assert.Equal(t, float64(2), testutil.ToFloat64(prom.counters.WithLabelValues("fetch_options", "BTC")))
	assert.Equal(t, float64(1), testutil.ToFloat64(prom.counters.WithLabelValues("verification_failure", "ETH")))

	count, err := testutil.GatherAndCount(reg, "paypro_events_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = testutil.GatherAndCount(reg, "paypro_latency_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

// A missing chain label must not panic, it just lands on the empty label.
func TestPrometheusRecorderNoChain(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := NewPrometheusRecorderWith(reg)

	rec.IncCounter("transport_failure", map[string]string{})
	rec.ObserveLatency("fetch_options", time.Second, nil)

	prom := rec.(*PrometheusRecorder)
	assert.Equal(t, float64(1), testutil.ToFloat64(prom.counters.WithLabelValues("transport_failure", "")))
}
