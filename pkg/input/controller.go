// Package input translates pointer gestures into camera motion and node
// selection. Dragging orbits the camera, the wheel zooms, and a click
// hit-tests nodes in screen space using the same projected radius the
// renderer draws with.
package input

import (
	"github.com/dcarrick/meshview/pkg/camera"
	"github.com/dcarrick/meshview/pkg/geom"
	"github.com/dcarrick/meshview/pkg/scene"
)

// Options tunes gesture handling
type Options struct {
	RotateSensitivity float64 // radians of target rotation per pixel dragged
	ZoomStep          float64 // distance change per wheel unit
	NodeSizeScale     float64 // must match the renderer's node size scale
	ClickSlop         float64 // max pixels of drag still counting as a click
}

// DefaultOptions returns the reference gesture constants
func DefaultOptions() Options {
	return Options{
		RotateSensitivity: 0.01,
		ZoomStep:          60,
		NodeSizeScale:     1.0,
		ClickSlop:         3,
	}
}

// SelectionFunc is notified whenever the selection changes. peerID is the
// external peer id of the node; selected is false for a clear, with peerID
// naming the previously selected peer. A miss with nothing selected does
// not fire.
type SelectionFunc func(peerID string, selected bool)

// Controller owns pointer state and the current selection
type Controller struct {
	opts Options
	cam  *camera.Camera
	scn  *scene.Scene

	dragging   bool
	last       geom.Vec2
	dragTravel float64

	selected string
	onSelect SelectionFunc
}

// NewController creates a controller bound to a camera and scene
func NewController(opts Options, cam *camera.Camera, scn *scene.Scene) *Controller {
	def := DefaultOptions()
	if opts.RotateSensitivity <= 0 {
		opts.RotateSensitivity = def.RotateSensitivity
	}
	if opts.ZoomStep <= 0 {
		opts.ZoomStep = def.ZoomStep
	}
	if opts.NodeSizeScale <= 0 {
		opts.NodeSizeScale = def.NodeSizeScale
	}
	if opts.ClickSlop <= 0 {
		opts.ClickSlop = def.ClickSlop
	}
	return &Controller{opts: opts, cam: cam, scn: scn}
}

// OnSelect registers the selection callback
func (c *Controller) OnSelect(fn SelectionFunc) { c.onSelect = fn }

// Selected returns the currently selected node id, or ""
func (c *Controller) Selected() string { return c.selected }

// PointerDown begins a potential drag at the given screen position
func (c *Controller) PointerDown(x, y float64) {
	c.dragging = true
	c.last = geom.Vec2{X: x, Y: y}
	c.dragTravel = 0
}

// PointerMove rotates the camera target while a drag is active
func (c *Controller) PointerMove(x, y float64) {
	if !c.dragging {
		return
	}
	p := geom.Vec2{X: x, Y: y}
	dx := p.X - c.last.X
	dy := p.Y - c.last.Y
	c.dragTravel += p.Dist(c.last)
	c.last = p

	c.cam.Rotate(dx*c.opts.RotateSensitivity, dy*c.opts.RotateSensitivity)
}

// PointerUp ends the drag. When the pointer barely moved the gesture is a
// click and the hit test runs at the release position.
func (c *Controller) PointerUp(x, y float64) {
	wasDragging := c.dragging
	c.dragging = false
	if wasDragging && c.dragTravel <= c.opts.ClickSlop {
		c.Click(x, y)
	}
}

// Wheel zooms the camera; positive delta zooms out
func (c *Controller) Wheel(delta float64) {
	c.cam.Zoom(delta * c.opts.ZoomStep)
}

// Click hit-tests the scene at a screen position and updates the
// selection: nearest node whose projected disc covers the point wins,
// re-clicking the selected node deselects it, and a miss clears the
// selection. Returns the selected node id, or "".
func (c *Controller) Click(x, y float64) string {
	hit := c.hitTest(geom.Vec2{X: x, Y: y})

	switch {
	case hit == "":
		c.setSelection("")
	case hit == c.selected:
		c.setSelection("")
	default:
		c.setSelection(hit)
	}
	return c.selected
}

// ClearSelection drops the selection, notifying the callback. The engine
// calls this when the selected peer leaves the mesh.
func (c *Controller) ClearSelection() { c.setSelection("") }

// hitTest returns the node whose projected center is nearest the point
// among all nodes whose projected disc covers it
func (c *Controller) hitTest(at geom.Vec2) string {
	best := ""
	bestDist := 0.0
	for _, n := range c.scn.Nodes() {
		p, ok := c.cam.Project(n.Position)
		if !ok {
			continue
		}
		d := at.Dist(geom.Vec2{X: p.X, Y: p.Y})
		if d > n.Radius*c.opts.NodeSizeScale*p.Scale {
			continue
		}
		if best == "" || d < bestDist {
			best = n.ID
			bestDist = d
		}
	}
	return best
}

func (c *Controller) setSelection(id string) {
	if id == c.selected {
		return
	}
	prev := c.selected
	c.selected = id

	if c.onSelect == nil {
		return
	}
	if id != "" {
		if node := c.scn.Get(id); node != nil {
			c.onSelect(node.Peer.ID, true)
		}
		return
	}
	if prev != "" {
		if node := c.scn.Get(prev); node != nil {
			c.onSelect(node.Peer.ID, false)
		} else {
			c.onSelect(prev, false)
		}
	}
}
