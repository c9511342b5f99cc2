package render

import "github.com/dcarrick/meshview/pkg/geom"

// Surface is the minimal draw-command interface the renderer targets. The
// projection, sorting and effect logic upstream is backend-agnostic; a
// backend only has to rasterize these primitives. Coordinates are viewport
// pixels with the origin at the top left.
type Surface interface {
	// Size returns the drawable area in pixels. A zero-sized surface
	// causes the renderer to no-op.
	Size() (width, height int)

	// Clear fills the whole surface with a color
	Clear(c geom.RGBA)

	// DrawLine draws a solid line segment
	DrawLine(from, to geom.Vec2, c geom.RGBA, width float64)

	// DrawGradientLine draws a line whose color blends from one endpoint
	// color to the other, with an overall opacity multiplier in [0,1]
	DrawGradientLine(from, to geom.Vec2, fromColor, toColor geom.RGBA, opacity float64)

	// DrawCircle draws a filled disc
	DrawCircle(center geom.Vec2, radius float64, fill geom.RGBA)

	// DrawGlow draws a soft radial glow fading out toward the radius.
	// intensity in [0,1] scales the center alpha.
	DrawGlow(center geom.Vec2, radius float64, c geom.RGBA, intensity float64)

	// DrawRing draws an unfilled circle outline
	DrawRing(center geom.Vec2, radius float64, c geom.RGBA)

	// DrawText draws a short left-aligned label
	DrawText(at geom.Vec2, s string, c geom.RGBA)
}
