package peer

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SimulatedDirectory is a stand-in peer source for demos and tests. It
// maintains a roster of fabricated peers and can churn it (joins, leaves,
// online flapping) on demand. Real deployments replace this with a
// directory backed by actual peer discovery.
type SimulatedDirectory struct {
	// ChurnInterval paces Watch; MinPeers/MaxPeers bound the roster size
	// during automatic churn. Adjust before calling Watch.
	ChurnInterval time.Duration
	MinPeers      int
	MaxPeers      int

	mu    sync.Mutex
	rng   *rand.Rand
	peers []Record
	next  int
}

// NewSimulatedDirectory creates a directory pre-populated with count peers.
// The rng drives all randomness so runs are reproducible under a fixed seed.
func NewSimulatedDirectory(count int, rng *rand.Rand) *SimulatedDirectory {
	d := &SimulatedDirectory{
		ChurnInterval: 4 * time.Second,
		MinPeers:      1,
		MaxPeers:      count + 4,
		rng:           rng,
	}
	for i := 0; i < count; i++ {
		d.peers = append(d.peers, d.newPeer())
	}
	return d
}

// Peers implements Directory
func (d *SimulatedDirectory) Peers() []Record {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Record, len(d.peers))
	copy(out, d.peers)
	return out
}

// Churn applies one round of random roster changes: each call flips a coin
// for a join, a leave (when more than min peers remain), and an online-state
// flap on one existing peer. Returns the new roster.
func (d *SimulatedDirectory) Churn(min, max int) []Record {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.peers) < max && d.rng.Float64() < 0.3 {
		d.peers = append(d.peers, d.newPeer())
	}
	if len(d.peers) > min && d.rng.Float64() < 0.2 {
		victim := d.rng.Intn(len(d.peers))
		d.peers = append(d.peers[:victim], d.peers[victim+1:]...)
	}
	if len(d.peers) > 0 && d.rng.Float64() < 0.25 {
		i := d.rng.Intn(len(d.peers))
		d.peers[i].OnlineHint = !d.peers[i].OnlineHint
	}

	out := make([]Record, len(d.peers))
	copy(out, d.peers)
	return out
}

// Watch implements Watcher: it churns the roster every ChurnInterval and
// emits the result until ctx is cancelled, then closes the channel
func (d *SimulatedDirectory) Watch(ctx context.Context) <-chan []Record {
	out := make(chan []Record, 1)
	go func() {
		defer close(out)
		ticker := time.NewTicker(d.ChurnInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				select {
				case out <- d.Churn(d.MinPeers, d.MaxPeers):
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

var simulatedNames = []string{
	"alice", "bob", "carol", "dave", "erin", "frank", "grace", "heidi",
	"ivan", "judy", "mallory", "niaj", "olivia", "peggy", "rupert", "sybil",
}

func (d *SimulatedDirectory) newPeer() Record {
	name := simulatedNames[d.next%len(simulatedNames)]
	suffix := d.next / len(simulatedNames)
	d.next++
	if suffix > 0 {
		name = fmt.Sprintf("%s-%d", name, suffix)
	}
	return Record{
		ID:          uuid.NewString(),
		DisplayName: name,
		OnlineHint:  d.rng.Float64() < 0.8,
	}
}
