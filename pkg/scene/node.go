package scene

import (
	"slices"

	"github.com/dcarrick/meshview/pkg/geom"
	"github.com/dcarrick/meshview/pkg/peer"
)

// Status describes a node's connectivity state as reported by the directory
type Status int

const (
	// StatusOffline nodes are rendered dimmed, with no glow
	StatusOffline Status = iota
	// StatusConnecting nodes have recently joined and have not yet settled
	StatusConnecting
	// StatusOnline nodes pulse with a soft glow
	StatusOnline
)

// String returns the string representation of a status
func (s Status) String() string {
	switch s {
	case StatusOnline:
		return "online"
	case StatusConnecting:
		return "connecting"
	case StatusOffline:
		return "offline"
	default:
		return "unknown"
	}
}

// Color returns the render color for the status
func (s Status) Color() geom.RGBA {
	switch s {
	case StatusOnline:
		return geom.RGBA{R: 74, G: 222, B: 128, A: 255}
	case StatusConnecting:
		return geom.RGBA{R: 250, G: 204, B: 21, A: 255}
	default:
		return geom.RGBA{R: 113, G: 113, B: 122, A: 255}
	}
}

// Node is the 3D representation of one external peer. Position and velocity
// are owned exclusively by the physics stepper; nothing outside this package
// and the stepper mutates them.
type Node struct {
	ID             string
	Peer           peer.Record
	Position       geom.Vec3
	Velocity       geom.Vec3
	Status         Status
	SignalStrength float64 // [0,100]
	Radius         float64
	Color          geom.RGBA
	PulsePhase     float64

	connections map[string]struct{}
}

// Connections returns the node's connection targets in sorted order so
// iteration is deterministic
func (n *Node) Connections() []string {
	out := make([]string, 0, len(n.connections))
	for id := range n.connections {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// ConnectedTo reports whether the node links to the given target
func (n *Node) ConnectedTo(id string) bool {
	_, ok := n.connections[id]
	return ok
}

// connect adds a link, silently refusing self-references
func (n *Node) connect(id string) {
	if id == n.ID {
		return
	}
	if n.connections == nil {
		n.connections = make(map[string]struct{})
	}
	n.connections[id] = struct{}{}
}

func (n *Node) disconnect(id string) {
	delete(n.connections, id)
}
