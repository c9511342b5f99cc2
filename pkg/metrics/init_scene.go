package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initSceneMetrics() {
	r.SceneNodes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "meshview_scene_nodes",
			Help: "Nodes currently in the scene",
		},
	)

	r.SceneEdges = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "meshview_scene_edges",
			Help: "Undirected edges currently in the scene",
		},
	)

	r.RebuildsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "meshview_scene_rebuilds_total",
			Help: "Scene rebuilds triggered by peer-list updates",
		},
	)
}
