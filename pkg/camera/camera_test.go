package camera

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcarrick/meshview/pkg/geom"
)

func newTestCamera() *Camera {
	return New(DefaultConfig(), 800, 600)
}

func TestOriginProjectsToViewportCenter(t *testing.T) {
	c := newTestCamera()

	p, ok := c.Project(geom.Vec3{})

	require.True(t, ok)
	assert.Equal(t, 400.0, p.X)
	assert.Equal(t, 300.0, p.Y)
	assert.Greater(t, p.Scale, 0.0)
}

func TestProjectionScaleShrinksWithDepth(t *testing.T) {
	c := newTestCamera()

	near, ok := c.Project(geom.Vec3{Z: -200})
	require.True(t, ok)
	far, ok := c.Project(geom.Vec3{Z: 200})
	require.True(t, ok)

	assert.Greater(t, near.Scale, far.Scale, "closer points project larger")
}

func TestDegenerateProjectionExcluded(t *testing.T) {
	c := newTestCamera()
	// Zoom all the way in, then place a point far behind the camera
	c.Distance = -200

	_, ok := c.Project(geom.Vec3{Z: 10000})
	assert.False(t, ok, "points behind the focal plane must be excluded")
}

func TestZeroViewportProjectsNothing(t *testing.T) {
	c := New(DefaultConfig(), 0, 0)

	_, ok := c.Project(geom.Vec3{})
	assert.False(t, ok)
}

func TestSmoothingConverges(t *testing.T) {
	c := newTestCamera()
	c.TargetRotY = math.Pi / 2

	for i := 0; i < 50; i++ {
		c.Smooth()
	}

	assert.InDelta(t, math.Pi/2, c.RotY, 1e-3)
}

func TestRotateClampsPitch(t *testing.T) {
	c := newTestCamera()

	c.Rotate(0, 10)
	assert.Equal(t, math.Pi/2, c.TargetRotX)

	c.Rotate(0, -100)
	assert.Equal(t, -math.Pi/2, c.TargetRotX)

	// Yaw is unbounded
	c.Rotate(100, 0)
	assert.Equal(t, 100.0, c.TargetRotY)
}

func TestZoomNeverEscapesRange(t *testing.T) {
	cfg := DefaultConfig()
	c := New(cfg, 800, 600)

	for i := 0; i < 100; i++ {
		c.Zoom(500) // zoom-out direction: toward maxDistance
	}
	assert.Equal(t, cfg.MaxDistance, c.Distance)

	for i := 0; i < 100; i++ {
		c.Zoom(-500)
	}
	assert.Equal(t, cfg.MinDistance, c.Distance)
}

// TestZoomClampProperty verifies the clamp against arbitrary wheel deltas
func TestZoomClampProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("distance stays within [min, max]", prop.ForAll(
		func(deltas []float64) bool {
			cfg := DefaultConfig()
			c := New(cfg, 800, 600)
			for _, d := range deltas {
				c.Zoom(d)
				if c.Distance < cfg.MinDistance || c.Distance > cfg.MaxDistance {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Float64Range(-5000, 5000)),
	))

	properties.TestingRun(t)
}

func TestResetRestoresDefaults(t *testing.T) {
	cfg := DefaultConfig()
	c := New(cfg, 800, 600)

	c.Rotate(1.0, 0.5)
	for i := 0; i < 10; i++ {
		c.Smooth()
	}
	c.Zoom(600)

	c.Reset()

	assert.Zero(t, c.RotX)
	assert.Zero(t, c.RotY)
	assert.Zero(t, c.TargetRotX)
	assert.Zero(t, c.TargetRotY)
	assert.Equal(t, cfg.Distance, c.Distance)
}

func TestProjectionMatchesReferenceFormula(t *testing.T) {
	c := newTestCamera()
	c.RotY = 0.4
	c.RotX = -0.2

	p := geom.Vec3{X: 50, Y: -30, Z: 80}

	// Reference: rotate Y, rotate X, translate by distance, perspective divide
	x1 := p.X*math.Cos(0.4) - p.Z*math.Sin(0.4)
	z1 := p.X*math.Sin(0.4) + p.Z*math.Cos(0.4)
	y2 := p.Y*math.Cos(-0.2) - z1*math.Sin(-0.2)
	z2 := p.Y*math.Sin(-0.2) + z1*math.Cos(-0.2)

	f := DefaultConfig().FocalLength
	scale := f / (f + z2 - DefaultConfig().Distance)

	got, ok := c.Project(p)
	require.True(t, ok)
	assert.InDelta(t, 400+x1*scale, got.X, 1e-9)
	assert.InDelta(t, 300+y2*scale, got.Y, 1e-9)
	assert.InDelta(t, scale, got.Scale, 1e-9)
}
