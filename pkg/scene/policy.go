package scene

import "math/rand"

// ConnectionPolicy decides which existing nodes a newly created node links
// to. The default policy fabricates a small random topology; a real
// deployment substitutes one fed by actual peer discovery.
type ConnectionPolicy interface {
	// Connections returns the subset of candidates the new node should
	// link to. Candidates never include the node's own id.
	Connections(id string, candidates []string) []string
}

// RandomPolicy samples a fixed-size subset of candidates
type RandomPolicy struct {
	Count int
	rng   *rand.Rand
}

// NewRandomPolicy creates a policy linking each new node to up to count peers
func NewRandomPolicy(count int, rng *rand.Rand) *RandomPolicy {
	if count <= 0 {
		count = 2
	}
	return &RandomPolicy{Count: count, rng: rng}
}

// Connections implements ConnectionPolicy
func (p *RandomPolicy) Connections(id string, candidates []string) []string {
	if len(candidates) == 0 {
		return nil
	}
	n := p.Count
	if n > len(candidates) {
		n = len(candidates)
	}
	picked := p.rng.Perm(len(candidates))[:n]
	out := make([]string, 0, n)
	for _, i := range picked {
		if candidates[i] == id {
			continue
		}
		out = append(out, candidates[i])
	}
	return out
}

// NoPolicy creates no connections; useful for tests and for hosts that
// push a real topology in afterwards
type NoPolicy struct{}

// Connections implements ConnectionPolicy
func (NoPolicy) Connections(string, []string) []string { return nil }
