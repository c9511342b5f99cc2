package scene

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcarrick/meshview/pkg/geom"
	"github.com/dcarrick/meshview/pkg/peer"
)

func testPeers(ids ...string) []peer.Record {
	out := make([]peer.Record, 0, len(ids))
	for _, id := range ids {
		out = append(out, peer.Record{ID: id, DisplayName: "peer " + id, OnlineHint: true})
	}
	return out
}

func newTestScene(policy ConnectionPolicy) *Scene {
	return New(DefaultConfig(), policy, rand.New(rand.NewSource(1)))
}

func TestRebuildCreatesOneNodePerPeer(t *testing.T) {
	s := newTestScene(nil)
	s.Rebuild(testPeers("a", "b", "c"))

	require.Equal(t, 3, s.Len())

	seen := make(map[string]bool)
	for _, n := range s.Nodes() {
		assert.False(t, seen[n.ID], "duplicate node id %s", n.ID)
		seen[n.ID] = true
		assert.False(t, n.ConnectedTo(n.ID), "node %s references itself", n.ID)
		assert.GreaterOrEqual(t, n.Radius, 0.0)
		assert.GreaterOrEqual(t, n.SignalStrength, 0.0)
		assert.LessOrEqual(t, n.SignalStrength, 100.0)
	}
}

func TestRebuildDedupesPeers(t *testing.T) {
	s := newTestScene(NoPolicy{})
	s.Rebuild([]peer.Record{
		{ID: "a", OnlineHint: true},
		{ID: "a", OnlineHint: true},
		{ID: "b", OnlineHint: true},
	})

	assert.Equal(t, 2, s.Len())
}

func TestRebuildRemovesDepartedAndPurgesConnections(t *testing.T) {
	s := newTestScene(NoPolicy{})
	s.Rebuild(testPeers("a", "b", "c"))

	// Wire a deterministic topology by hand
	s.Get("a").connect("b")
	s.Get("c").connect("b")
	s.Get("c").connect("a")

	posA := s.Get("a").Position
	velA := s.Get("a").Velocity
	posC := s.Get("c").Position

	s.Rebuild(testPeers("a", "c"))

	require.Equal(t, 2, s.Len())
	assert.Nil(t, s.Get("b"))
	assert.False(t, s.Get("a").ConnectedTo("b"), "departed peer must be purged from connections")
	assert.False(t, s.Get("c").ConnectedTo("b"))
	assert.True(t, s.Get("c").ConnectedTo("a"), "surviving connections stay")

	assert.Equal(t, posA, s.Get("a").Position, "surviving node position untouched")
	assert.Equal(t, velA, s.Get("a").Velocity)
	assert.Equal(t, posC, s.Get("c").Position)
}

func TestRebuildPreservesSurvivorsAcrossManyChurns(t *testing.T) {
	s := newTestScene(nil)
	s.Rebuild(testPeers("a", "b", "c", "d"))

	// Perturb a's position so preservation is observable
	s.Get("a").Position = geom.Vec3{X: 42, Y: -7, Z: 13}

	s.Rebuild(testPeers("a", "c", "e", "f"))
	s.Rebuild(testPeers("a", "f"))

	assert.Equal(t, geom.Vec3{X: 42, Y: -7, Z: 13}, s.Get("a").Position)
}

func TestRebuildStatusTransitions(t *testing.T) {
	s := newTestScene(NoPolicy{})

	s.Rebuild([]peer.Record{{ID: "a", OnlineHint: true}})
	assert.Equal(t, StatusConnecting, s.Get("a").Status, "fresh online peers start connecting")

	s.Rebuild([]peer.Record{{ID: "a", OnlineHint: true}})
	assert.Equal(t, StatusOnline, s.Get("a").Status, "still-online peers settle")

	s.Rebuild([]peer.Record{{ID: "a", OnlineHint: false}})
	assert.Equal(t, StatusOffline, s.Get("a").Status)
	assert.Zero(t, s.Get("a").SignalStrength)

	s.Rebuild([]peer.Record{{ID: "a", OnlineHint: true}})
	assert.Equal(t, StatusConnecting, s.Get("a").Status, "returning peers reconnect")
}

func TestNodesIterationOrderIsStable(t *testing.T) {
	s := newTestScene(nil)
	s.Rebuild(testPeers("x", "y", "z"))

	var first []string
	for _, n := range s.Nodes() {
		first = append(first, n.ID)
	}
	for i := 0; i < 10; i++ {
		var again []string
		for _, n := range s.Nodes() {
			again = append(again, n.ID)
		}
		assert.Equal(t, first, again)
	}
}

func TestRandomPolicyNeverSelfConnects(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	policy := NewRandomPolicy(3, rng)

	candidates := []string{"a", "b", "c", "d", "e"}
	for i := 0; i < 100; i++ {
		for _, target := range policy.Connections("a", candidates) {
			assert.NotEqual(t, "a", target)
		}
	}
}

func TestRingPlacementIsOnRing(t *testing.T) {
	cfg := DefaultConfig()
	s := New(cfg, NoPolicy{}, rand.New(rand.NewSource(5)))
	s.Rebuild(testPeers("a", "b", "c", "d", "e", "f"))

	for _, n := range s.Nodes() {
		horizontal := geom.Vec3{X: n.Position.X, Z: n.Position.Z}.Length()
		assert.InDelta(t, cfg.RingRadius, horizontal, 1e-9)
		assert.LessOrEqual(t, n.Position.Y, cfg.YJitter/2)
		assert.GreaterOrEqual(t, n.Position.Y, -cfg.YJitter/2)
		assert.Equal(t, geom.Vec3{}, n.Velocity, "new nodes start at rest")
	}
}
