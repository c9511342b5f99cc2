// Package metrics exports prometheus collectors for the visualizer: frame
// throughput, tick latency and scene size. Hosts embed the Gatherer into
// whatever exposition endpoint they already run.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// NewRegistry creates a registry with all collectors registered
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	r.initEngineMetrics()
	r.initSceneMetrics()
	return r
}

// Gatherer exposes the underlying registry for scraping
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// RecordTick records one completed frame and its duration
func (r *Registry) RecordTick(d time.Duration) {
	r.FramesTotal.Inc()
	r.TickDuration.Observe(d.Seconds())
}

// RecordRebuild records a scene rebuild and the resulting scene size
func (r *Registry) RecordRebuild(nodes, edges int) {
	r.RebuildsTotal.Inc()
	r.SceneNodes.Set(float64(nodes))
	r.SceneEdges.Set(float64(edges))
}

// RecordSelection records a selection change
func (r *Registry) RecordSelection(selected bool) {
	if selected {
		r.SelectionsTotal.WithLabelValues("select").Inc()
	} else {
		r.SelectionsTotal.WithLabelValues("clear").Inc()
	}
}

// SetPaused records the loop's paused state
func (r *Registry) SetPaused(paused bool) {
	if paused {
		r.PausedState.Set(1)
	} else {
		r.PausedState.Set(0)
	}
}
