// Package raster rasterizes draw commands into an in-memory RGBA image,
// for headless frame export and golden-image debugging.
package raster

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/dcarrick/meshview/pkg/geom"
)

// Surface implements render.Surface on an image.RGBA
type Surface struct {
	img  *image.RGBA
	face font.Face
}

var (
	faceOnce sync.Once
	faceDefl font.Face
)

// defaultFace lazily parses the embedded Go Regular face
func defaultFace() font.Face {
	faceOnce.Do(func() {
		parsed, err := opentype.Parse(goregular.TTF)
		if err != nil {
			return
		}
		faceDefl, err = opentype.NewFace(parsed, &opentype.FaceOptions{
			Size:    11,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			faceDefl = nil
		}
	})
	return faceDefl
}

// New creates a surface of the given pixel size
func New(width, height int) *Surface {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Surface{
		img:  image.NewRGBA(image.Rect(0, 0, width, height)),
		face: defaultFace(),
	}
}

// Image returns the backing image
func (s *Surface) Image() *image.RGBA { return s.img }

// EncodePNG writes the current frame as PNG
func (s *Surface) EncodePNG(w io.Writer) error {
	return png.Encode(w, s.img)
}

// Size implements render.Surface
func (s *Surface) Size() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// Clear implements render.Surface
func (s *Surface) Clear(c geom.RGBA) {
	c.A = 255
	b := s.img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			s.img.SetRGBA(x, y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 255})
		}
	}
}

// DrawLine implements render.Surface
func (s *Surface) DrawLine(from, to geom.Vec2, c geom.RGBA, width float64) {
	if width < 1 {
		width = 1
	}
	s.stroke(from, to, width, func(float64) geom.RGBA { return c })
}

// DrawGradientLine implements render.Surface
func (s *Surface) DrawGradientLine(from, to geom.Vec2, fromColor, toColor geom.RGBA, opacity float64) {
	s.stroke(from, to, 1, func(t float64) geom.RGBA {
		return fromColor.Blend(toColor, t).Faded(opacity)
	})
}

// DrawCircle implements render.Surface
func (s *Surface) DrawCircle(center geom.Vec2, radius float64, fill geom.RGBA) {
	if radius <= 0 {
		return
	}
	s.disc(center, radius, func(d float64) geom.RGBA {
		// Soften the rim over the outer pixel to avoid hard stair-stepping
		if edge := (1 - d) * radius; edge < 1 {
			return fill.Faded(edge)
		}
		return fill
	})
}

// DrawGlow implements render.Surface
func (s *Surface) DrawGlow(center geom.Vec2, radius float64, c geom.RGBA, intensity float64) {
	if intensity < 0 {
		intensity = 0
	}
	if intensity > 1 {
		intensity = 1
	}
	s.disc(center, radius, func(d float64) geom.RGBA {
		falloff := 1 - d
		return c.Faded(intensity * falloff * falloff)
	})
}

// DrawRing implements render.Surface
func (s *Surface) DrawRing(center geom.Vec2, radius float64, c geom.RGBA) {
	if radius <= 0 {
		return
	}
	steps := int(radius*2*math.Pi) * 2
	if steps < 16 {
		steps = 16
	}
	for i := 0; i < steps; i++ {
		angle := float64(i) / float64(steps) * 2 * math.Pi
		x := center.X + math.Cos(angle)*radius
		y := center.Y + math.Sin(angle)*radius
		s.blend(int(x), int(y), c)
	}
}

// DrawText implements render.Surface
func (s *Surface) DrawText(at geom.Vec2, text string, c geom.RGBA) {
	if text == "" || s.face == nil {
		return
	}
	d := font.Drawer{
		Dst:  s.img,
		Src:  image.NewUniform(color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}),
		Face: s.face,
		Dot:  fixed.P(int(at.X), int(at.Y)),
	}
	d.DrawString(text)
}

func (s *Surface) stroke(from, to geom.Vec2, width float64, colorAt func(t float64) geom.RGBA) {
	steps := int(math.Max(math.Abs(to.X-from.X), math.Abs(to.Y-from.Y)))
	if steps < 1 {
		steps = 1
	}
	half := int(width / 2)
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		p := from.Lerp(to, t)
		c := colorAt(t)
		for dy := -half; dy <= half; dy++ {
			for dx := -half; dx <= half; dx++ {
				s.blend(int(p.X)+dx, int(p.Y)+dy, c)
			}
		}
	}
}

func (s *Surface) disc(center geom.Vec2, radius float64, colorAt func(d float64) geom.RGBA) {
	minX := int(center.X - radius)
	maxX := int(center.X + radius + 1)
	minY := int(center.Y - radius)
	maxY := int(center.Y + radius + 1)
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			dx := float64(x) + 0.5 - center.X
			dy := float64(y) + 0.5 - center.Y
			d := math.Sqrt(dx*dx+dy*dy) / radius
			if d <= 1 {
				s.blend(x, y, colorAt(d))
			}
		}
	}
}

// blend composites a straight-alpha color over the existing pixel
func (s *Surface) blend(x, y int, c geom.RGBA) {
	if !(image.Point{X: x, Y: y}.In(s.img.Bounds())) || c.A == 0 {
		return
	}
	base := s.img.RGBAAt(x, y)
	a := float64(c.A) / 255
	s.img.SetRGBA(x, y, color.RGBA{
		R: uint8(float64(c.R)*a + float64(base.R)*(1-a)),
		G: uint8(float64(c.G)*a + float64(base.G)*(1-a)),
		B: uint8(float64(c.B)*a + float64(base.B)*(1-a)),
		A: 255,
	})
}
