// Package engine runs the visualization loop: one tick applies at most one
// pending peer-list update, steps physics, smooths the camera and renders.
// All scene mutation happens on the tick path, so external updates travel
// through the event bus and become visible only between frames.
package engine

import (
	"context"
	"math/rand"
	"time"

	"github.com/dcarrick/meshview/pkg/camera"
	"github.com/dcarrick/meshview/pkg/config"
	"github.com/dcarrick/meshview/pkg/input"
	"github.com/dcarrick/meshview/pkg/logging"
	"github.com/dcarrick/meshview/pkg/metrics"
	"github.com/dcarrick/meshview/pkg/peer"
	"github.com/dcarrick/meshview/pkg/physics"
	"github.com/dcarrick/meshview/pkg/pubsub"
	"github.com/dcarrick/meshview/pkg/render"
	"github.com/dcarrick/meshview/pkg/scene"
)

// Options bundles the engine's collaborators. Zero values get working
// defaults: a nop logger, a fresh bus and registry, a time-seeded rng.
type Options struct {
	Config  config.Config
	Surface render.Surface
	Rng     *rand.Rand
	Log     logging.Logger
	Metrics *metrics.Registry
	Bus     *pubsub.Bus
	Policy  scene.ConnectionPolicy
}

// Engine owns the scene and drives the frame loop.
//
// Engine methods are not safe for concurrent use: Tick, SetPaused and the
// input controller belong to the host's render thread. Cross-thread
// collaborators push peer updates through the bus (UpdatePeers is safe
// anywhere) and receive selection events the same way.
type Engine struct {
	cfg      config.Config
	scn      *scene.Scene
	stepper  *physics.Stepper
	cam      *camera.Camera
	renderer *render.Renderer
	ctrl     *input.Controller
	surface  render.Surface
	bus      *pubsub.Bus
	log      logging.Logger
	metrics  *metrics.Registry

	peerSub *pubsub.Subscription

	paused        bool
	pendingRender bool
	lastTick      time.Time
}

// New assembles an engine. The caller keeps using Options.Bus (or Bus())
// to push peer updates and receive selection events.
func New(opts Options) *Engine {
	if opts.Log == nil {
		opts.Log = logging.Nop{}
	}
	if opts.Bus == nil {
		opts.Bus = pubsub.NewBus()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewRegistry()
	}
	if opts.Rng == nil {
		opts.Rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	cfg := opts.Config

	scn := scene.New(cfg.Scene, opts.Policy, opts.Rng)
	cam := camera.New(cfg.Camera, cfg.Viewport.Width, cfg.Viewport.Height)

	ctrlOpts := input.DefaultOptions()
	ctrlOpts.NodeSizeScale = cfg.Render.NodeSizeScale
	ctrl := input.NewController(ctrlOpts, cam, scn)

	e := &Engine{
		cfg:      cfg,
		scn:      scn,
		stepper:  physics.NewStepper(cfg.Physics, opts.Rng),
		cam:      cam,
		renderer: render.NewRenderer(cfg.Render),
		ctrl:     ctrl,
		surface:  opts.Surface,
		bus:      opts.Bus,
		log:      opts.Log.With(logging.F("component", "engine")),
		metrics:  opts.Metrics,
	}

	ctrl.OnSelect(func(peerID string, selected bool) {
		e.metrics.RecordSelection(selected)
		e.bus.Publish(pubsub.TopicSelection, pubsub.SelectionEvent{
			PeerID:   peerID,
			Selected: selected,
		})
		// A selection change while paused must still reach the screen
		e.pendingRender = true
	})

	e.peerSub = e.bus.Subscribe(context.Background(), pubsub.TopicPeers)
	return e
}

// Controller exposes the input controller for the host's pointer events
func (e *Engine) Controller() *input.Controller { return e.ctrl }

// Camera exposes the camera, e.g. for a host reset binding
func (e *Engine) Camera() *camera.Camera { return e.cam }

// Scene exposes the scene for read access
func (e *Engine) Scene() *scene.Scene { return e.scn }

// Bus exposes the event bus
func (e *Engine) Bus() *pubsub.Bus { return e.bus }

// UpdatePeers queues a roster update for the next tick
func (e *Engine) UpdatePeers(peers []peer.Record) {
	e.bus.Publish(pubsub.TopicPeers, peers)
}

// SetPaused pauses or resumes the simulation. Pausing still leaves one
// final render so the frozen frame reflects the latest state.
func (e *Engine) SetPaused(paused bool) {
	if e.paused == paused {
		return
	}
	e.paused = paused
	e.pendingRender = true
	e.metrics.SetPaused(paused)
	e.log.Info("pause state changed", logging.F("paused", paused))
}

// Paused reports the current pause state
func (e *Engine) Paused() bool { return e.paused }

// SetShowConnections toggles edge rendering at runtime
func (e *Engine) SetShowConnections(show bool) {
	if e.cfg.Render.ShowConnections == show {
		return
	}
	e.cfg.Render.ShowConnections = show
	e.renderer = render.NewRenderer(e.cfg.Render)
	e.pendingRender = true
}

// ShowConnections reports whether edges are rendered
func (e *Engine) ShowConnections() bool { return e.cfg.Render.ShowConnections }

// Tick runs one frame at the given wall-clock instant. Callers drive it
// from their own scheduler; Run wraps it in a ticker.
func (e *Engine) Tick(now time.Time) {
	started := time.Now()

	rebuilt := e.applyPendingUpdate()

	dt := e.cfg.FrameDuration()
	if !e.lastTick.IsZero() {
		dt = now.Sub(e.lastTick)
	}
	e.lastTick = now

	if e.paused {
		// Idle, but surface the latest mutation exactly once
		if rebuilt || e.pendingRender {
			e.render(now)
		}
		return
	}

	e.stepper.Step(e.scn, dt)
	e.cam.Smooth()
	e.render(now)
	e.metrics.RecordTick(time.Since(started))
}

// Run drives the loop at the configured frame rate until ctx is cancelled.
// With animation disabled it renders once, then re-renders only when a
// peer update arrives.
func (e *Engine) Run(ctx context.Context) {
	e.log.Info("visualization loop starting",
		logging.F("frame_rate", e.cfg.FrameRate),
		logging.F("animate", e.cfg.Animate),
	)
	defer e.log.Info("visualization loop stopped")

	if !e.cfg.Animate {
		e.runStatic(ctx)
		return
	}

	ticker := time.NewTicker(e.cfg.FrameDuration())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			e.Tick(now)
		}
	}
}

// runStatic serves the animate=false mode: a static frame per mutation
func (e *Engine) runStatic(ctx context.Context) {
	e.applyPendingUpdate()
	e.render(time.Now())

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-e.peerSub.Events():
			if !ok {
				return
			}
			if peers, castOK := ev.([]peer.Record); castOK {
				e.rebuild(peers)
			}
			// Newer queued rosters supersede the one just applied
			e.applyPendingUpdate()
			e.render(time.Now())
		}
	}
}

// applyPendingUpdate drains the peer topic and applies only the newest
// roster; intermediate updates superseded within one frame are dropped.
// Returns whether a rebuild happened.
func (e *Engine) applyPendingUpdate() bool {
	var latest []peer.Record
	have := false
	dropped := -1
	for {
		select {
		case ev, ok := <-e.peerSub.Events():
			if !ok {
				return false
			}
			if peers, castOK := ev.([]peer.Record); castOK {
				latest = peers
				have = true
				dropped++
			}
		default:
			if !have {
				return false
			}
			if dropped > 0 {
				for i := 0; i < dropped; i++ {
					e.metrics.DroppedUpdates.Inc()
				}
			}
			e.rebuild(latest)
			return true
		}
	}
}

func (e *Engine) rebuild(peers []peer.Record) {
	e.scn.Rebuild(peers)

	// The selected node may have left with this update
	if sel := e.ctrl.Selected(); sel != "" && e.scn.Get(sel) == nil {
		e.ctrl.ClearSelection()
	}

	nodes := e.scn.Len()
	edges := e.scn.EdgeCount()
	e.metrics.RecordRebuild(nodes, edges)
	e.log.Info("scene rebuilt",
		logging.F("nodes", nodes),
		logging.F("edges", edges),
	)
}

func (e *Engine) render(now time.Time) {
	e.renderer.Render(e.scn, e.cam, e.surface, now, e.ctrl.Selected())
	e.pendingRender = false
}
