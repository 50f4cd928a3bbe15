package metric

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PM4Rs/promi/errors"
)

func TestRegisterAndUnregister(t *testing.T) {
	registry := NewRegistry()

	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "promi_test_items_total",
		Help: "test counter",
	})
	require.NoError(t, registry.RegisterCounter("reader", "items", counter))

	// Same component/name pair is rejected
	err := registry.RegisterCounter("reader", "items", counter)
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))

	assert.True(t, registry.Unregister("reader", "items"))
	assert.False(t, registry.Unregister("reader", "items"))

	// After unregistering, the name is free again
	assert.NoError(t, registry.RegisterCounter("reader", "items", counter))
}

func TestRegisterGaugeAndHistogram(t *testing.T) {
	registry := NewRegistry()

	gauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "promi_test_buffer_size",
		Help: "test gauge",
	})
	require.NoError(t, registry.RegisterGauge("buffer", "size", gauge))

	histogram := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name: "promi_test_pull_seconds",
		Help: "test histogram",
	})
	require.NoError(t, registry.RegisterHistogram("buffer", "pull", histogram))
}

func TestHandlerExposition(t *testing.T) {
	registry := NewRegistry()

	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "promi_test_events_total",
		Help: "test counter",
	})
	require.NoError(t, registry.RegisterCounter("reader", "events", counter))
	counter.Add(3)

	rec := httptest.NewRecorder()
	registry.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "promi_test_events_total 3"))
}
