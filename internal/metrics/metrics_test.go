package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestNewToneQueueMetricsRegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewToneQueueMetrics(reg)
	require.NoError(t, err)

	m.SetLength("default", 3)
	m.IncEnqueued("default")
	m.IncDequeued("default")
	m.IncBusyFull("default")
	m.IncLowWaterCrossing("default")
	m.IncBackspace("default", true)
	m.IncBackspace("default", false)

	require.Equal(t, float64(3), testutil.ToFloat64(m.length.WithLabelValues("default")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.enqueued.WithLabelValues("default")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.backspaceOK.WithLabelValues("default")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.backspaceNoop.WithLabelValues("default")))
}

func TestNewToneQueueMetricsRejectsDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewToneQueueMetrics(reg)
	require.NoError(t, err)

	_, err = NewToneQueueMetrics(reg)
	require.Error(t, err)
}
