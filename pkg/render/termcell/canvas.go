// Package termcell rasterizes draw commands into terminal cells. Each
// character cell carries two vertically stacked pixels via the upper
// half-block glyph, so a width x height cell grid exposes a width x 2·height
// pixel surface to the renderer.
package termcell

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dcarrick/meshview/pkg/geom"
)

// Canvas implements render.Surface on a terminal cell grid
type Canvas struct {
	cols, rows int
	px         []geom.RGBA
	labels     map[[2]int]label
}

type label struct {
	text  string
	color geom.RGBA
}

// New creates a canvas for a terminal region of cols x rows cells
func New(cols, rows int) *Canvas {
	c := &Canvas{labels: make(map[[2]int]label)}
	c.Resize(cols, rows)
	return c
}

// Resize reallocates the canvas for a new terminal size
func (c *Canvas) Resize(cols, rows int) {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	c.cols = cols
	c.rows = rows
	c.px = make([]geom.RGBA, cols*rows*2)
	c.labels = make(map[[2]int]label)
}

// Size implements render.Surface; height is in pixels, twice the row count
func (c *Canvas) Size() (int, int) {
	return c.cols, c.rows * 2
}

// Clear implements render.Surface
func (c *Canvas) Clear(fill geom.RGBA) {
	fill.A = 255
	for i := range c.px {
		c.px[i] = fill
	}
	c.labels = make(map[[2]int]label)
}

// DrawLine implements render.Surface
func (c *Canvas) DrawLine(from, to geom.Vec2, col geom.RGBA, width float64) {
	c.stroke(from, to, func(float64) geom.RGBA { return col })
}

// DrawGradientLine implements render.Surface
func (c *Canvas) DrawGradientLine(from, to geom.Vec2, fromColor, toColor geom.RGBA, opacity float64) {
	c.stroke(from, to, func(t float64) geom.RGBA {
		return fromColor.Blend(toColor, t).Faded(opacity)
	})
}

// DrawCircle implements render.Surface
func (c *Canvas) DrawCircle(center geom.Vec2, radius float64, fill geom.RGBA) {
	if radius < 0.5 {
		radius = 0.5
	}
	c.disc(center, radius, func(float64) geom.RGBA { return fill })
}

// DrawGlow implements render.Surface
func (c *Canvas) DrawGlow(center geom.Vec2, radius float64, col geom.RGBA, intensity float64) {
	if intensity < 0 {
		intensity = 0
	}
	if intensity > 1 {
		intensity = 1
	}
	c.disc(center, radius, func(d float64) geom.RGBA {
		falloff := 1 - d
		return col.Faded(intensity * falloff * falloff)
	})
}

// DrawRing implements render.Surface
func (c *Canvas) DrawRing(center geom.Vec2, radius float64, col geom.RGBA) {
	if radius <= 0 {
		return
	}
	steps := int(radius * 8)
	if steps < 12 {
		steps = 12
	}
	for i := 0; i < steps; i++ {
		angle := float64(i) / float64(steps) * 2 * math.Pi
		x := center.X + math.Cos(angle)*radius
		y := center.Y + math.Sin(angle)*radius
		c.set(int(x), int(y), col)
	}
}

// DrawText implements render.Surface; the label lands on the cell row at
// the pixel position and paints over pixel content
func (c *Canvas) DrawText(at geom.Vec2, s string, col geom.RGBA) {
	if s == "" {
		return
	}
	cell := [2]int{int(at.X), int(at.Y) / 2}
	if cell[0] < 0 || cell[0] >= c.cols || cell[1] < 0 || cell[1] >= c.rows {
		return
	}
	c.labels[cell] = label{text: s, color: col}
}

// View renders the canvas to a styled string, one line per cell row
func (c *Canvas) View() string {
	var b strings.Builder
	for row := 0; row < c.rows; row++ {
		col := 0
		for col < c.cols {
			if l, ok := c.labels[[2]int{col, row}]; ok {
				style := lipgloss.NewStyle().Foreground(lipgloss.Color(hex(l.color)))
				n := 0
				for _, r := range l.text {
					if col+n >= c.cols {
						break
					}
					b.WriteString(style.Render(string(r)))
					n++
				}
				if n == 0 {
					n = 1
				}
				col += n
				continue
			}

			top := c.px[row*2*c.cols+col]
			bottom := c.px[(row*2+1)*c.cols+col]
			style := lipgloss.NewStyle().
				Foreground(lipgloss.Color(hex(top))).
				Background(lipgloss.Color(hex(bottom)))
			b.WriteString(style.Render("▀"))
			col++
		}
		if row < c.rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// stroke samples a segment densely enough that adjacent samples land on
// neighboring pixels
func (c *Canvas) stroke(from, to geom.Vec2, colorAt func(t float64) geom.RGBA) {
	steps := int(math.Max(math.Abs(to.X-from.X), math.Abs(to.Y-from.Y)))
	if steps < 1 {
		steps = 1
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		p := from.Lerp(to, t)
		c.set(int(p.X), int(p.Y), colorAt(t))
	}
}

// disc fills a circle, handing each pixel its normalized distance from the
// center so callers can shade
func (c *Canvas) disc(center geom.Vec2, radius float64, colorAt func(d float64) geom.RGBA) {
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
				c.set(x, y, colorAt(d))
			}
		}
	}
}

// set composites a straight-alpha color over the existing pixel
func (c *Canvas) set(x, y int, col geom.RGBA) {
	if x < 0 || x >= c.cols || y < 0 || y >= c.rows*2 || col.A == 0 {
		return
	}
	i := y*c.cols + x
	base := c.px[i]
	a := float64(col.A) / 255
	c.px[i] = geom.RGBA{
		R: uint8(float64(col.R)*a + float64(base.R)*(1-a)),
		G: uint8(float64(col.G)*a + float64(base.G)*(1-a)),
		B: uint8(float64(col.B)*a + float64(base.B)*(1-a)),
		A: 255,
	}
}

func hex(c geom.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
