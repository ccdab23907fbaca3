package telemetry

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Invocations counts render invocations by mode (view|sequence) and
	// outcome (ok|error).
	Invocations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "viewsynth_invocations_total",
		Help: "Render invocations by mode and outcome.",
	}, []string{"mode", "outcome"})

	// ProcessDuration observes wall time spent blocked on the renderer.
	ProcessDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "viewsynth_process_duration_seconds",
		Help:    "Wall time of the external renderer process.",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 12),
	})

	// SequenceFrames observes how many frames a sequence invocation packed
	// into one request.
	SequenceFrames = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "viewsynth_sequence_frames",
		Help:    "Frames per sequence invocation.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 10),
	})
)

// Expose serves /metrics on the given port for the lifetime of the host
// session.
func Expose(port int) {
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		_ = http.ListenAndServe(fmt.Sprintf(":%d", port), nil)
	}()
}
