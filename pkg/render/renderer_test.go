package render

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcarrick/meshview/pkg/camera"
	"github.com/dcarrick/meshview/pkg/geom"
	"github.com/dcarrick/meshview/pkg/peer"
	"github.com/dcarrick/meshview/pkg/scene"
)

// recordingSurface logs every draw command for assertions
type recordingSurface struct {
	w, h int
	log  []string
}

func (r *recordingSurface) Size() (int, int) { return r.w, r.h }

func (r *recordingSurface) Clear(c geom.RGBA) {
	r.log = append(r.log, "clear")
}

func (r *recordingSurface) DrawLine(from, to geom.Vec2, c geom.RGBA, width float64) {
	r.log = append(r.log, fmt.Sprintf("line %.1f,%.1f->%.1f,%.1f", from.X, from.Y, to.X, to.Y))
}

func (r *recordingSurface) DrawGradientLine(from, to geom.Vec2, fc, tc geom.RGBA, opacity float64) {
	r.log = append(r.log, fmt.Sprintf("gradline %.1f,%.1f->%.1f,%.1f op=%.2f", from.X, from.Y, to.X, to.Y, opacity))
}

func (r *recordingSurface) DrawCircle(center geom.Vec2, radius float64, fill geom.RGBA) {
	r.log = append(r.log, fmt.Sprintf("circle %.1f,%.1f r=%.3f", center.X, center.Y, radius))
}

func (r *recordingSurface) DrawGlow(center geom.Vec2, radius float64, c geom.RGBA, intensity float64) {
	r.log = append(r.log, fmt.Sprintf("glow %.1f,%.1f r=%.3f", center.X, center.Y, radius))
}

func (r *recordingSurface) DrawRing(center geom.Vec2, radius float64, c geom.RGBA) {
	r.log = append(r.log, fmt.Sprintf("ring %.1f,%.1f r=%.3f", center.X, center.Y, radius))
}

func (r *recordingSurface) DrawText(at geom.Vec2, s string, c geom.RGBA) {
	r.log = append(r.log, fmt.Sprintf("text %q", s))
}

func (r *recordingSurface) count(prefix string) int {
	n := 0
	for _, entry := range r.log {
		if len(entry) >= len(prefix) && entry[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

func quietConfig() Config {
	cfg := DefaultConfig()
	cfg.ShowFlowMarkers = false
	cfg.ShowLabels = false
	return cfg
}

func buildScene(t *testing.T, ids ...string) *scene.Scene {
	t.Helper()
	peers := make([]peer.Record, 0, len(ids))
	for _, id := range ids {
		peers = append(peers, peer.Record{ID: id, OnlineHint: false})
	}
	s := scene.New(scene.DefaultConfig(), scene.NoPolicy{}, rand.New(rand.NewSource(1)))
	s.Rebuild(peers)
	return s
}

func TestRenderZeroSurfaceIsNoop(t *testing.T) {
	s := buildScene(t, "a", "b")
	cam := camera.New(camera.DefaultConfig(), 800, 600)
	surface := &recordingSurface{w: 0, h: 0}

	NewRenderer(quietConfig()).Render(s, cam, surface, time.Unix(0, 0), "")

	assert.Empty(t, surface.log, "zero-sized surface must not receive commands")
}

func TestRenderDrawsFarthestFirst(t *testing.T) {
	s := buildScene(t, "near", "far")
	// Same x/y, different depth; camera at rest looks down -Z so larger
	// world z is farther from the lens
	s.Get("near").Position = geom.Vec3{Z: -150}
	s.Get("far").Position = geom.Vec3{Z: 150}
	s.Get("near").SignalStrength = 0
	s.Get("far").SignalStrength = 0

	cam := camera.New(camera.DefaultConfig(), 800, 600)
	surface := &recordingSurface{w: 800, h: 600}

	NewRenderer(quietConfig()).Render(s, cam, surface, time.Unix(0, 0), "")

	var radii []float64
	for _, entry := range surface.log {
		var x, y, r float64
		if _, err := fmt.Sscanf(entry, "circle %f,%f r=%f", &x, &y, &r); err == nil {
			radii = append(radii, r)
		}
	}
	require.Len(t, radii, 2)
	assert.Less(t, radii[0], radii[1], "the farther (smaller) disc must be drawn first")
}

func TestRenderSkipsStaleConnections(t *testing.T) {
	s := buildScene(t, "a", "b")
	// Host-pushed topology referencing a peer the directory never delivered
	s.Connect("a", "ghost")

	cam := camera.New(camera.DefaultConfig(), 800, 600)
	surface := &recordingSurface{w: 800, h: 600}

	NewRenderer(quietConfig()).Render(s, cam, surface, time.Unix(0, 0), "")

	assert.Zero(t, surface.count("gradline"), "stale edges are dropped, not drawn")
}

func TestRenderEdgesAsTwoGradientHalves(t *testing.T) {
	s := buildScene(t, "a", "b")
	sceneConnect(t, s, "a", "b")

	cam := camera.New(camera.DefaultConfig(), 800, 600)
	surface := &recordingSurface{w: 800, h: 600}

	NewRenderer(quietConfig()).Render(s, cam, surface, time.Unix(0, 0), "")

	assert.Equal(t, 2, surface.count("gradline"), "one edge renders as two gradient halves")
}

func TestRenderDeduplicatesUndirectedEdges(t *testing.T) {
	s := buildScene(t, "a", "b")
	sceneConnect(t, s, "a", "b")
	sceneConnect(t, s, "b", "a")

	cam := camera.New(camera.DefaultConfig(), 800, 600)
	surface := &recordingSurface{w: 800, h: 600}

	NewRenderer(quietConfig()).Render(s, cam, surface, time.Unix(0, 0), "")

	assert.Equal(t, 2, surface.count("gradline"), "mutual connections render as one edge")
}

func TestRenderSelectionRing(t *testing.T) {
	s := buildScene(t, "a", "b")
	cam := camera.New(camera.DefaultConfig(), 800, 600)

	surface := &recordingSurface{w: 800, h: 600}
	NewRenderer(quietConfig()).Render(s, cam, surface, time.Unix(0, 0), "a")
	assert.Equal(t, 1, surface.count("ring"))

	surface = &recordingSurface{w: 800, h: 600}
	NewRenderer(quietConfig()).Render(s, cam, surface, time.Unix(0, 0), "")
	assert.Zero(t, surface.count("ring"))
}

func TestRenderIsDeterministic(t *testing.T) {
	s := buildScene(t, "a", "b", "c", "d")
	sceneConnect(t, s, "a", "c")
	sceneConnect(t, s, "b", "d")
	for i, n := range s.Nodes() {
		n.SignalStrength = float64(i) * 30
	}

	cam := camera.New(camera.DefaultConfig(), 800, 600)
	cam.RotY = 0.7
	cam.RotX = 0.2
	now := time.Unix(1234, 567)

	first := &recordingSurface{w: 800, h: 600}
	second := &recordingSurface{w: 800, h: 600}
	r := NewRenderer(DefaultConfig())
	r.Render(s, cam, first, now, "b")
	r.Render(s, cam, second, now, "b")

	assert.Equal(t, first.log, second.log, "same scene, camera and timestamp must replay identically")
}

func TestRenderHidesConnectionsWhenDisabled(t *testing.T) {
	s := buildScene(t, "a", "b")
	sceneConnect(t, s, "a", "b")

	cfg := quietConfig()
	cfg.ShowConnections = false

	cam := camera.New(camera.DefaultConfig(), 800, 600)
	surface := &recordingSurface{w: 800, h: 600}
	NewRenderer(cfg).Render(s, cam, surface, time.Unix(0, 0), "")

	assert.Zero(t, surface.count("gradline"))
	assert.Equal(t, 2, surface.count("circle"), "nodes still draw")
}

func TestRenderGlowOnlyForOnlineNodes(t *testing.T) {
	s := buildScene(t, "a", "b")
	s.SetStatus("a", scene.StatusOnline)
	s.SetStatus("b", scene.StatusOffline)

	cam := camera.New(camera.DefaultConfig(), 800, 600)
	surface := &recordingSurface{w: 800, h: 600}
	NewRenderer(quietConfig()).Render(s, cam, surface, time.Unix(0, 0), "")

	assert.Equal(t, 1, surface.count("glow"))
}

func TestRenderSignalBars(t *testing.T) {
	s := buildScene(t, "a")
	s.Get("a").SignalStrength = 100

	cam := camera.New(camera.DefaultConfig(), 800, 600)
	surface := &recordingSurface{w: 800, h: 600}
	NewRenderer(quietConfig()).Render(s, cam, surface, time.Unix(0, 0), "")

	assert.Equal(t, 4, surface.count("line"), "full strength draws four bars")
}

// sceneConnect wires a directed connection through the exported surface of
// the scene package
func sceneConnect(t *testing.T, s *scene.Scene, from, to string) {
	t.Helper()
	require.NotNil(t, s.Get(from))
	require.NotNil(t, s.Get(to))
	s.Connect(from, to)
}
