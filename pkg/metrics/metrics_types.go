package metrics

import "github.com/prometheus/client_golang/prometheus"

// Registry bundles every collector the visualizer exports
type Registry struct {
	registry *prometheus.Registry

	// Frame loop
	FramesTotal     prometheus.Counter
	TickDuration    prometheus.Histogram
	PausedState     prometheus.Gauge
	DroppedUpdates  prometheus.Counter
	SelectionsTotal *prometheus.CounterVec

	// Scene
	SceneNodes    prometheus.Gauge
	SceneEdges    prometheus.Gauge
	RebuildsTotal prometheus.Counter
}
