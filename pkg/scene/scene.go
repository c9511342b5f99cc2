// Package scene owns the authoritative node/edge state of the mesh
// visualization. A Scene is rebuilt whenever the external peer list changes;
// surviving nodes keep their simulated position so the layout never jumps.
package scene

import (
	"math"
	"math/rand"
	"slices"

	"github.com/dcarrick/meshview/pkg/geom"
	"github.com/dcarrick/meshview/pkg/peer"
)

// Config configures initial node placement
type Config struct {
	RingRadius float64 `yaml:"ring_radius" validate:"gt=0"`  // radius of the ring new nodes are placed on
	NodeRadius float64 `yaml:"node_radius" validate:"gt=0"`  // base render radius for new nodes
	YJitter    float64 `yaml:"y_jitter" validate:"gte=0"`    // vertical spread applied to ring placement
}

// DefaultConfig returns placement defaults sized for the default boundary
func DefaultConfig() Config {
	return Config{
		RingRadius: 220,
		NodeRadius: 14,
		YJitter:    60,
	}
}

// Scene is the aggregate root: an ordered arena of nodes keyed by id.
// Iteration over Nodes() follows insertion order so the render pipeline and
// the tests are deterministic.
type Scene struct {
	cfg    Config
	policy ConnectionPolicy
	rng    *rand.Rand

	nodes map[string]*Node
	order []string
}

// New creates an empty scene. The rng drives placement jitter and the
// default connection policy; inject a seeded source for reproducible tests.
func New(cfg Config, policy ConnectionPolicy, rng *rand.Rand) *Scene {
	if cfg.RingRadius <= 0 {
		cfg.RingRadius = DefaultConfig().RingRadius
	}
	if cfg.NodeRadius <= 0 {
		cfg.NodeRadius = DefaultConfig().NodeRadius
	}
	if policy == nil {
		policy = NewRandomPolicy(2, rng)
	}
	return &Scene{
		cfg:    cfg,
		policy: policy,
		rng:    rng,
		nodes:  make(map[string]*Node),
	}
}

// Len returns the number of nodes
func (s *Scene) Len() int { return len(s.order) }

// Get returns the node for an id, or nil
func (s *Scene) Get(id string) *Node { return s.nodes[id] }

// Nodes returns all nodes in insertion order. The slice is rebuilt per call;
// the node pointers are the live instances.
func (s *Scene) Nodes() []*Node {
	out := make([]*Node, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.nodes[id])
	}
	return out
}

// Rebuild diffs the scene against a fresh peer list. New peers get nodes on
// a ring layout with zero velocity; departed peers are removed and purged
// from every other node's connection set; surviving peers keep their
// position, velocity and pulse phase. Duplicate peer ids are dropped, first
// occurrence winning.
func (s *Scene) Rebuild(peers []peer.Record) {
	peers = peer.Dedupe(peers)

	present := make(map[string]bool, len(peers))
	for _, p := range peers {
		present[p.ID] = true
	}

	// Remove departed nodes first so the ring index below reflects the
	// final roster size. Iterate a snapshot: remove mutates s.order.
	for _, id := range slices.Clone(s.order) {
		if !present[id] {
			s.remove(id)
		}
	}

	for i, p := range peers {
		if node, ok := s.nodes[p.ID]; ok {
			s.refresh(node, p)
			continue
		}
		s.insert(p, i, len(peers))
	}
}

// EdgeCount returns the number of distinct undirected edges between
// present nodes
func (s *Scene) EdgeCount() int {
	seen := make(map[[2]string]bool)
	for _, id := range s.order {
		for to := range s.nodes[id].connections {
			if _, ok := s.nodes[to]; !ok {
				continue
			}
			key := [2]string{id, to}
			if to < id {
				key = [2]string{to, id}
			}
			seen[key] = true
		}
	}
	return len(seen)
}

// Connect adds a directed link from one node to a target id. The target
// does not have to exist yet: hosts pushing a real topology may reference
// peers the directory has not delivered, and the renderer drops such stale
// edges silently.
func (s *Scene) Connect(from, to string) {
	if node, ok := s.nodes[from]; ok {
		node.connect(to)
	}
}

// Disconnect removes a directed link
func (s *Scene) Disconnect(from, to string) {
	if node, ok := s.nodes[from]; ok {
		node.disconnect(to)
	}
}

// SetStatus overrides a node's status, for hosts with richer state than the
// directory's online hint
func (s *Scene) SetStatus(id string, status Status) {
	if node, ok := s.nodes[id]; ok {
		node.Status = status
		node.Color = status.Color()
	}
}

// refresh updates directory-owned fields on a surviving node, leaving the
// simulated physics state alone. A connecting node whose peer is still
// online settles into the online status.
func (s *Scene) refresh(node *Node, p peer.Record) {
	node.Peer = p
	switch {
	case !p.OnlineHint:
		node.Status = StatusOffline
		node.SignalStrength = 0
	case node.Status == StatusConnecting:
		node.Status = StatusOnline
	case node.Status == StatusOffline:
		node.Status = StatusConnecting
		node.SignalStrength = 40 + s.rng.Float64()*30
	}
	node.Color = node.Status.Color()
}

func (s *Scene) insert(p peer.Record, index, total int) {
	angle := float64(index) / float64(total) * 2 * math.Pi

	status := StatusOffline
	strength := 0.0
	if p.OnlineHint {
		status = StatusConnecting
		strength = 40 + s.rng.Float64()*60
	}

	node := &Node{
		ID:   p.ID,
		Peer: p,
		Position: geom.Vec3{
			X: math.Cos(angle) * s.cfg.RingRadius,
			Y: (s.rng.Float64() - 0.5) * s.cfg.YJitter,
			Z: math.Sin(angle) * s.cfg.RingRadius,
		},
		Status:         status,
		SignalStrength: strength,
		Radius:         s.cfg.NodeRadius,
		Color:          status.Color(),
		PulsePhase:     s.rng.Float64() * 2 * math.Pi,
	}

	for _, target := range s.policy.Connections(p.ID, s.order) {
		if _, ok := s.nodes[target]; ok {
			node.connect(target)
		}
	}

	s.nodes[p.ID] = node
	s.order = append(s.order, p.ID)
}

func (s *Scene) remove(id string) {
	if _, ok := s.nodes[id]; !ok {
		return
	}
	delete(s.nodes, id)
	for _, other := range s.nodes {
		other.disconnect(id)
	}
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}
