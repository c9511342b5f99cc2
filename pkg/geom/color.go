package geom

import (
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGBA is an 8-bit-per-channel color with straight alpha
type RGBA struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// WithAlpha returns the same color with a different alpha channel
func (c RGBA) WithAlpha(a uint8) RGBA {
	c.A = a
	return c
}

// Faded returns the color with its alpha scaled by f in [0,1]
func (c RGBA) Faded(f float64) RGBA {
	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	c.A = uint8(float64(c.A) * f)
	return c
}

// NRGBA converts to the standard library color type
func (c RGBA) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// Blend interpolates between two colors in a perceptually uniform space.
// Alpha is interpolated linearly since go-colorful is opaque-only.
func (c RGBA) Blend(o RGBA, t float64) RGBA {
	if t <= 0 {
		return c
	}
	if t >= 1 {
		return o
	}
	from := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	to := colorful.Color{R: float64(o.R) / 255, G: float64(o.G) / 255, B: float64(o.B) / 255}
	mixed := from.BlendLuv(to, t).Clamped()
	return RGBA{
		R: uint8(mixed.R*255 + 0.5),
		G: uint8(mixed.G*255 + 0.5),
		B: uint8(mixed.B*255 + 0.5),
		A: uint8(float64(c.A) + (float64(o.A)-float64(c.A))*t),
	}
}

// Hex parses a "#RRGGBB" string, returning opaque black on malformed input
func Hex(s string) RGBA {
	parsed, err := colorful.Hex(s)
	if err != nil {
		return RGBA{A: 255}
	}
	r, g, b := parsed.RGB255()
	return RGBA{R: r, G: g, B: b, A: 255}
}
