// Package camera implements the orbit camera and its perspective projection.
// The camera circles the world origin: two rotation angles plus a zoom
// distance fully describe it, and input drives target angles that the
// current angles approach by exponential smoothing for inertial motion.
package camera

import (
	"math"

	"github.com/dcarrick/meshview/pkg/geom"
)

// Config holds the camera constants
type Config struct {
	Distance    float64 `yaml:"distance" validate:"lt=0"`
	MinDistance float64 `yaml:"min_distance" validate:"lt=0"`
	MaxDistance float64 `yaml:"max_distance" validate:"lt=0"`
	FocalLength float64 `yaml:"focal_length" validate:"gt=0"`
	Smoothing   float64 `yaml:"smoothing" validate:"gt=0,lte=1"`
}

// DefaultConfig returns the reference camera constants
func DefaultConfig() Config {
	return Config{
		Distance:    -1000,
		MinDistance: -2000,
		MaxDistance: -200,
		FocalLength: 600,
		Smoothing:   0.1,
	}
}

// minScale is the projection scale below which a point counts as behind or
// too close to the camera and is excluded from rendering and hit-testing
const minScale = 0.1

// maxPitch keeps the vertical orbit angle shy of the poles to prevent
// gimbal flip
const maxPitch = math.Pi / 2

// Projection is a world point mapped onto the viewport
type Projection struct {
	X     float64
	Y     float64
	Scale float64
}

// Camera is an orbit camera around the world origin
type Camera struct {
	cfg Config

	RotX, RotY             float64
	TargetRotX, TargetRotY float64
	Distance               float64

	width, height float64
}

// New creates a camera for a viewport of the given pixel size
func New(cfg Config, width, height int) *Camera {
	def := DefaultConfig()
	if cfg.FocalLength <= 0 {
		cfg.FocalLength = def.FocalLength
	}
	if cfg.Smoothing <= 0 || cfg.Smoothing > 1 {
		cfg.Smoothing = def.Smoothing
	}
	if cfg.Distance >= 0 {
		cfg.Distance = def.Distance
	}
	if cfg.MinDistance >= 0 {
		cfg.MinDistance = def.MinDistance
	}
	if cfg.MaxDistance >= 0 {
		cfg.MaxDistance = def.MaxDistance
	}
	return &Camera{
		cfg:      cfg,
		Distance: cfg.Distance,
		width:    float64(width),
		height:   float64(height),
	}
}

// Resize updates the viewport dimensions
func (c *Camera) Resize(width, height int) {
	c.width = float64(width)
	c.height = float64(height)
}

// Viewport returns the current viewport size in pixels
func (c *Camera) Viewport() (int, int) {
	return int(c.width), int(c.height)
}

// Project maps a world point to viewport coordinates. ok is false when the
// point is behind or too close to the camera, or the viewport is
// zero-sized; such points must not be drawn or hit-tested.
func (c *Camera) Project(p geom.Vec3) (Projection, bool) {
	if c.width <= 0 || c.height <= 0 {
		return Projection{}, false
	}

	r := p.RotateY(c.RotY).RotateX(c.RotX)

	// The orbit camera sits on the view axis: x/y offsets are zero and z
	// is the zoom distance.
	z := r.Z - c.Distance

	scale := c.cfg.FocalLength / (c.cfg.FocalLength + z)
	if scale <= minScale || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return Projection{}, false
	}

	return Projection{
		X:     c.width/2 + r.X*scale,
		Y:     c.height/2 + r.Y*scale,
		Scale: scale,
	}, true
}

// Rotate adjusts the target orbit angles by the given deltas. Pitch is
// clamped to keep the camera off the poles; yaw is unbounded.
func (c *Camera) Rotate(dx, dy float64) {
	c.TargetRotY += dx
	c.TargetRotX = clamp(c.TargetRotX+dy, -maxPitch, maxPitch)
}

// Zoom adjusts the camera distance linearly, clamped to the configured range
func (c *Camera) Zoom(delta float64) {
	c.Distance = clamp(c.Distance+delta, c.cfg.MinDistance, c.cfg.MaxDistance)
}

// Smooth advances the current angles one step toward the targets
func (c *Camera) Smooth() {
	c.RotX += (c.TargetRotX - c.RotX) * c.cfg.Smoothing
	c.RotY += (c.TargetRotY - c.RotY) * c.cfg.Smoothing
}

// Reset restores the default distance and rotation
func (c *Camera) Reset() {
	c.Distance = c.cfg.Distance
	c.RotX, c.RotY = 0, 0
	c.TargetRotX, c.TargetRotY = 0, 0
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
