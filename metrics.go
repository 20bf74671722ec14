//go:build !ios && !android && (amd64 || arm64)

package vsgo

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors updated by frame fetches.
// A nil *Metrics records nothing.
type Metrics struct {
	fetches  *prometheus.CounterVec
	duration prometheus.Histogram
	inFlight prometheus.Gauge
	bytes    prometheus.Counter
}

// NewMetrics creates the frame fetch collectors and registers them with reg.
// A nil reg creates unregistered collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		fetches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vsgo",
			Name:      "frame_fetches_total",
			Help:      "Completed frame fetches by outcome.",
		}, []string{"status"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "vsgo",
			Name:      "frame_fetch_duration_seconds",
			Help:      "Time to produce and copy one frame.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
		}),
		inFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "vsgo",
			Name:      "frame_fetches_in_flight",
			Help:      "Frame fetches currently executing.",
		}),
		bytes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "vsgo",
			Name:      "frame_bytes_copied_total",
			Help:      "Pixel bytes copied into output buffers.",
		}),
	}
}

func (m *Metrics) fetchStarted() {
	if m == nil {
		return
	}
	m.inFlight.Inc()
}

func (m *Metrics) fetchFinished(elapsed time.Duration, written int, err error) {
	if m == nil {
		return
	}
	m.inFlight.Dec()
	m.duration.Observe(elapsed.Seconds())
	if err != nil {
		m.fetches.WithLabelValues("error").Inc()
		return
	}
	m.fetches.WithLabelValues("ok").Inc()
	m.bytes.Add(float64(written))
}
