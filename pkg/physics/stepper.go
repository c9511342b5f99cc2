// Package physics advances node motion each frame: velocity integration,
// inelastic boundary bounces, damping and a small random jitter so the mesh
// never fully settles.
package physics

import (
	"math"
	"math/rand"
	"time"

	"github.com/dcarrick/meshview/pkg/scene"
)

// Config holds the motion constants
type Config struct {
	Boundary    float64 `yaml:"boundary" validate:"gt=0"`
	Restitution float64 `yaml:"restitution" validate:"gt=0,lt=1"`
	Damping     float64 `yaml:"damping" validate:"gt=0,lt=1"`
	Jitter      float64 `yaml:"jitter" validate:"gte=0"`
	TimeScale   float64 `yaml:"time_scale" validate:"gt=0"`
}

// DefaultConfig returns the reference motion constants
func DefaultConfig() Config {
	return Config{
		Boundary:    300,
		Restitution: 0.8,
		Damping:     0.99,
		Jitter:      0.08,
		TimeScale:   1.0,
	}
}

// referenceFrame is the frame duration the constants are calibrated
// against. Step scales real elapsed time against it so motion looks the
// same at any host frame rate.
const referenceFrame = time.Second / 60

// Stepper mutates scene node positions and velocities once per tick
type Stepper struct {
	cfg Config
	rng *rand.Rand
}

// NewStepper creates a stepper. The rng drives the ambient jitter; inject a
// seeded source for reproducible simulations.
func NewStepper(cfg Config, rng *rand.Rand) *Stepper {
	if cfg.Boundary <= 0 {
		cfg.Boundary = DefaultConfig().Boundary
	}
	if cfg.Restitution <= 0 || cfg.Restitution >= 1 {
		cfg.Restitution = DefaultConfig().Restitution
	}
	if cfg.Damping <= 0 || cfg.Damping >= 1 {
		cfg.Damping = DefaultConfig().Damping
	}
	if cfg.TimeScale <= 0 {
		cfg.TimeScale = 1.0
	}
	return &Stepper{cfg: cfg, rng: rng}
}

// Boundary returns the configured half-extent of the motion box
func (st *Stepper) Boundary() float64 { return st.cfg.Boundary }

// Step advances every node by one tick. dt is the real elapsed time since
// the previous step; it is normalized against the reference frame duration
// so damping and jitter keep their calibrated feel.
func (st *Stepper) Step(s *scene.Scene, dt time.Duration) {
	scale := st.cfg.TimeScale * dt.Seconds() / referenceFrame.Seconds()
	if scale <= 0 {
		return
	}
	// Clamp runaway frames (debugger pauses, laptop sleep) to avoid
	// launching nodes through the boundary in one step.
	if scale > 4 {
		scale = 4
	}
	// Damping is calibrated per reference frame; raise it to the scale
	// power so half a frame damps half as hard.
	damp := math.Pow(st.cfg.Damping, scale)

	for _, n := range s.Nodes() {
		n.Position = n.Position.Add(n.Velocity.Scale(scale))

		st.bounce(&n.Position.X, &n.Velocity.X)
		st.bounce(&n.Position.Y, &n.Velocity.Y)
		st.bounce(&n.Position.Z, &n.Velocity.Z)

		n.Velocity = n.Velocity.Scale(damp)

		if st.cfg.Jitter > 0 {
			n.Velocity.X += st.uniform() * scale
			n.Velocity.Y += st.uniform() * scale
			n.Velocity.Z += st.uniform() * scale
		}
	}
}

// bounce clamps one axis to the boundary and inverts its velocity scaled by
// the restitution coefficient
func (st *Stepper) bounce(pos, vel *float64) {
	b := st.cfg.Boundary
	if *pos > b {
		*pos = b
		*vel = -*vel * st.cfg.Restitution
	} else if *pos < -b {
		*pos = -b
		*vel = -*vel * st.cfg.Restitution
	}
}

// uniform returns a sample in [-jitter, jitter]
func (st *Stepper) uniform() float64 {
	return (st.rng.Float64()*2 - 1) * st.cfg.Jitter
}
