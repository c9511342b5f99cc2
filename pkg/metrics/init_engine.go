package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initEngineMetrics() {
	r.FramesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "meshview_frames_total",
			Help: "Frames rendered since start",
		},
	)

	r.TickDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "meshview_tick_duration_seconds",
			Help:    "Duration of one physics+smooth+render tick",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		},
	)

	r.PausedState = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "meshview_paused",
			Help: "Whether the animation loop is paused (1) or running (0)",
		},
	)

	r.DroppedUpdates = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "meshview_dropped_peer_updates_total",
			Help: "Peer-list updates superseded before a tick could apply them",
		},
	)

	r.SelectionsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "meshview_selections_total",
			Help: "Selection changes by kind",
		},
		[]string{"kind"},
	)
}
