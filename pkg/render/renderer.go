// Package render turns a scene and camera into draw commands on a Surface.
// Nodes are drawn farthest-first so nearer discs occlude farther ones, with
// edges underneath; for a fixed scene, camera and timestamp the emitted
// command sequence is reproducible.
package render

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/dcarrick/meshview/pkg/camera"
	"github.com/dcarrick/meshview/pkg/geom"
	"github.com/dcarrick/meshview/pkg/scene"
)

// Config holds the render options
type Config struct {
	NodeSizeScale     float64 `yaml:"node_size_scale" validate:"gt=0"`
	ConnectionOpacity float64 `yaml:"connection_opacity" validate:"gte=0,lte=1"`
	ShowConnections   bool    `yaml:"show_connections"`
	ShowFlowMarkers   bool    `yaml:"show_flow_markers"`
	ShowLabels        bool    `yaml:"show_labels"`
	Background        geom.RGBA
}

// DefaultConfig returns the reference render options
func DefaultConfig() Config {
	return Config{
		NodeSizeScale:     1.0,
		ConnectionOpacity: 0.35,
		ShowConnections:   true,
		ShowFlowMarkers:   true,
		ShowLabels:        true,
		Background:        geom.RGBA{R: 9, G: 9, B: 14, A: 255},
	}
}

// edgeMidColor is the neutral color edge gradients pass through
var edgeMidColor = geom.RGBA{R: 148, G: 163, B: 184, A: 255}

// selectionColor outlines the currently selected node
var selectionColor = geom.RGBA{R: 255, G: 255, B: 255, A: 255}

// flowPeriod is the wall-clock period of the moving edge markers
const flowPeriod = 2 * time.Second

// Renderer issues depth-ordered draw commands for a scene
type Renderer struct {
	cfg Config
}

// NewRenderer creates a renderer
func NewRenderer(cfg Config) *Renderer {
	if cfg.NodeSizeScale <= 0 {
		cfg.NodeSizeScale = 1.0
	}
	if cfg.ConnectionOpacity < 0 {
		cfg.ConnectionOpacity = 0
	}
	if cfg.ConnectionOpacity > 1 {
		cfg.ConnectionOpacity = 1
	}
	return &Renderer{cfg: cfg}
}

// projected pairs a node with its viewport projection
type projected struct {
	node *scene.Node
	proj camera.Projection
}

// Render draws one frame. Degenerate projections and edges referencing
// absent or invisible nodes are silently skipped; a zero-sized surface
// makes the whole call a no-op.
func (r *Renderer) Render(s *scene.Scene, cam *camera.Camera, surface Surface, now time.Time, selected string) {
	w, h := surface.Size()
	if w <= 0 || h <= 0 {
		return
	}

	surface.Clear(r.cfg.Background)

	visible := make([]projected, 0, s.Len())
	byID := make(map[string]projected, s.Len())
	for _, n := range s.Nodes() {
		p, ok := cam.Project(n.Position)
		if !ok {
			continue
		}
		entry := projected{node: n, proj: p}
		visible = append(visible, entry)
		byID[n.ID] = entry
	}

	if r.cfg.ShowConnections {
		r.drawEdges(surface, visible, byID, now)
	}

	// Farthest first: ascending projected scale, scene order breaking ties
	ordered := slices.Clone(visible)
	slices.SortStableFunc(ordered, func(a, b projected) int {
		switch {
		case a.proj.Scale < b.proj.Scale:
			return -1
		case a.proj.Scale > b.proj.Scale:
			return 1
		default:
			return 0
		}
	})

	t := float64(now.UnixNano()) / float64(time.Second)
	for _, e := range ordered {
		r.drawNode(surface, e, t, e.node.ID == selected)
	}
}

func (r *Renderer) drawEdges(surface Surface, visible []projected, byID map[string]projected, now time.Time) {
	phase := float64(now.UnixNano()%int64(flowPeriod)) / float64(flowPeriod)

	drawn := make(map[string]bool)
	for _, from := range visible {
		for _, targetID := range from.node.Connections() {
			to, ok := byID[targetID]
			if !ok {
				// Stale reference or endpoint behind the camera
				continue
			}

			key := pairKey(from.node.ID, targetID)
			if drawn[key] {
				continue
			}
			drawn[key] = true

			a := geom.Vec2{X: from.proj.X, Y: from.proj.Y}
			b := geom.Vec2{X: to.proj.X, Y: to.proj.Y}
			mid := a.Lerp(b, 0.5)

			fromColor := from.node.Status.Color()
			toColor := to.node.Status.Color()
			surface.DrawGradientLine(a, mid, fromColor, edgeMidColor, r.cfg.ConnectionOpacity)
			surface.DrawGradientLine(mid, b, edgeMidColor, toColor, r.cfg.ConnectionOpacity)

			if r.cfg.ShowFlowMarkers && from.node.Status == scene.StatusOnline && to.node.Status == scene.StatusOnline {
				marker := a.Lerp(b, phase)
				size := 2.0 * math.Min(from.proj.Scale, to.proj.Scale)
				surface.DrawCircle(marker, size, edgeMidColor)
			}
		}
	}
}

func (r *Renderer) drawNode(surface Surface, e projected, t float64, selected bool) {
	n := e.node
	center := geom.Vec2{X: e.proj.X, Y: e.proj.Y}
	radius := n.Radius * r.cfg.NodeSizeScale * e.proj.Scale

	if n.Status == scene.StatusOnline {
		pulse := 1.6 + 0.4*math.Sin(t*2+n.PulsePhase)
		surface.DrawGlow(center, radius*pulse, n.Color, 0.5+0.2*math.Sin(t*2+n.PulsePhase))
	}

	surface.DrawCircle(center, radius, n.Color)

	r.drawSignalBars(surface, n, center, radius)

	if selected {
		surface.DrawRing(center, radius+3, selectionColor)
	}

	if r.cfg.ShowLabels && n.Peer.DisplayName != "" {
		at := geom.Vec2{X: center.X - radius, Y: center.Y + radius + 4}
		surface.DrawText(at, n.Peer.DisplayName, edgeMidColor)
	}
}

// drawSignalBars draws up to four ticks above the node, one per 25 points
// of signal strength
func (r *Renderer) drawSignalBars(surface Surface, n *scene.Node, center geom.Vec2, radius float64) {
	bars := int(math.Ceil(n.SignalStrength / 25))
	if bars <= 0 {
		return
	}
	if bars > 4 {
		bars = 4
	}

	base := geom.Vec2{X: center.X + radius + 2, Y: center.Y - radius}
	for i := 0; i < bars; i++ {
		x := base.X + float64(i)*3
		height := 2 + float64(i)*2
		surface.DrawLine(
			geom.Vec2{X: x, Y: base.Y},
			geom.Vec2{X: x, Y: base.Y - height},
			n.Color, 1,
		)
	}
}

// pairKey returns an order-independent key for an undirected edge
func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%s|%s", a, b)
}
