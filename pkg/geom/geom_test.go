package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec3RotateY(t *testing.T) {
	// A quarter turn should carry +X onto +Z
	v := Vec3{X: 1}
	r := v.RotateY(math.Pi / 2)

	assert.InDelta(t, 0, r.X, 1e-9)
	assert.InDelta(t, 1, r.Z, 1e-9)
	assert.InDelta(t, 0, r.Y, 1e-9)
}

func TestVec3RotateXPreservesLength(t *testing.T) {
	v := Vec3{X: 3, Y: 4, Z: 12}
	for _, angle := range []float64{0, 0.3, math.Pi / 2, math.Pi, 5.1} {
		r := v.RotateX(angle)
		assert.InDelta(t, v.Length(), r.Length(), 1e-9, "rotation must preserve length at angle %f", angle)
	}
}

func TestVec2Lerp(t *testing.T) {
	a := Vec2{X: 0, Y: 0}
	b := Vec2{X: 10, Y: -20}

	mid := a.Lerp(b, 0.5)
	assert.Equal(t, Vec2{X: 5, Y: -10}, mid)
	assert.Equal(t, a, a.Lerp(b, 0))
	assert.Equal(t, b, a.Lerp(b, 1))
}

func TestRGBABlendEndpoints(t *testing.T) {
	red := RGBA{R: 255, A: 255}
	blue := RGBA{B: 255, A: 128}

	assert.Equal(t, red, red.Blend(blue, 0))
	assert.Equal(t, blue, red.Blend(blue, 1))

	mid := red.Blend(blue, 0.5)
	assert.NotEqual(t, red, mid)
	assert.NotEqual(t, blue, mid)
	assert.InDelta(t, 191, int(mid.A), 1)
}

func TestHex(t *testing.T) {
	c := Hex("#00ff88")
	assert.Equal(t, RGBA{R: 0, G: 255, B: 136, A: 255}, c)

	// Malformed input degrades to opaque black
	assert.Equal(t, RGBA{A: 255}, Hex("not-a-color"))
}

func TestFadedClamps(t *testing.T) {
	c := RGBA{R: 10, G: 20, B: 30, A: 200}
	assert.Equal(t, uint8(100), c.Faded(0.5).A)
	assert.Equal(t, uint8(0), c.Faded(-1).A)
	assert.Equal(t, uint8(200), c.Faded(2).A)
}
