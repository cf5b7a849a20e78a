// Package metrics provides the Prometheus-backed implementation of
// tonequeue.Recorder. internal/tonequeue never imports Prometheus
// directly; it only depends on the small Recorder interface, keeping its
// core package free of a specific metrics backend.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ToneQueueMetrics implements tonequeue.Recorder with Prometheus
// collectors labeled by queue instance name.
type ToneQueueMetrics struct {
	length          *prometheus.GaugeVec
	enqueued        *prometheus.CounterVec
	dequeued        *prometheus.CounterVec
	busyFull        *prometheus.CounterVec
	lowWaterCross   *prometheus.CounterVec
	backspaceOK     *prometheus.CounterVec
	backspaceNoop   *prometheus.CounterVec
}

// NewToneQueueMetrics registers the tone queue collector family on reg
// and returns the handle used to record measurements. Passing a nil
// registry is invalid; callers that want a disabled collector should use
// tonequeue's own no-op Recorder instead.
func NewToneQueueMetrics(reg prometheus.Registerer) (*ToneQueueMetrics, error) {
	m := &ToneQueueMetrics{
		length: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "cwtonequeue",
			Subsystem: "queue",
			Name:      "length",
			Help:      "Current number of tones resident in the queue.",
		}, []string{"queue"}),
		enqueued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cwtonequeue",
			Subsystem: "queue",
			Name:      "enqueued_total",
			Help:      "Total tones successfully enqueued.",
		}, []string{"queue"}),
		dequeued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cwtonequeue",
			Subsystem: "queue",
			Name:      "dequeued_total",
			Help:      "Total tones successfully dequeued.",
		}, []string{"queue"}),
		busyFull: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cwtonequeue",
			Subsystem: "queue",
			Name:      "busy_full_total",
			Help:      "Total enqueue attempts rejected because the queue was full.",
		}, []string{"queue"}),
		lowWaterCross: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cwtonequeue",
			Subsystem: "queue",
			Name:      "low_water_crossings_total",
			Help:      "Total downward crossings of the low-water mark.",
		}, []string{"queue"}),
		backspaceOK: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cwtonequeue",
			Subsystem: "queue",
			Name:      "backspace_applied_total",
			Help:      "Total backspace calls that removed a character.",
		}, []string{"queue"}),
		backspaceNoop: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cwtonequeue",
			Subsystem: "queue",
			Name:      "backspace_noop_total",
			Help:      "Total backspace calls that found nothing revocable.",
		}, []string{"queue"}),
	}

	collectors := []prometheus.Collector{
		m.length, m.enqueued, m.dequeued, m.busyFull, m.lowWaterCross,
		m.backspaceOK, m.backspaceNoop,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// SetLength implements tonequeue.Recorder.
func (m *ToneQueueMetrics) SetLength(name string, length int) {
	m.length.WithLabelValues(name).Set(float64(length))
}

// IncEnqueued implements tonequeue.Recorder.
func (m *ToneQueueMetrics) IncEnqueued(name string) {
	m.enqueued.WithLabelValues(name).Inc()
}

// IncDequeued implements tonequeue.Recorder.
func (m *ToneQueueMetrics) IncDequeued(name string) {
	m.dequeued.WithLabelValues(name).Inc()
}

// IncBusyFull implements tonequeue.Recorder.
func (m *ToneQueueMetrics) IncBusyFull(name string) {
	m.busyFull.WithLabelValues(name).Inc()
}

// IncLowWaterCrossing implements tonequeue.Recorder.
func (m *ToneQueueMetrics) IncLowWaterCrossing(name string) {
	m.lowWaterCross.WithLabelValues(name).Inc()
}

// IncBackspace implements tonequeue.Recorder.
func (m *ToneQueueMetrics) IncBackspace(name string, applied bool) {
	if applied {
		m.backspaceOK.WithLabelValues(name).Inc()
		return
	}
	m.backspaceNoop.WithLabelValues(name).Inc()
}
