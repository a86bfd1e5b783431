//go:build integration

package integration

import (
	"context"
	"io"
	"log/slog"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/encodeous/dvnode/core"
	"github.com/encodeous/dvnode/state"
	"github.com/stretchr/testify/require"
)

// VirtualHarness runs a randomly generated network on an in-memory mesh
type VirtualHarness struct {
	Cfg  state.TopologyCfg
	Mesh *core.Mesh
	Rand *rand.Rand
}

// NewVirtualHarness builds a connected network: a random spanning tree plus extra random links
func NewVirtualHarness(t *testing.T, seed uint64, nodes, extra int, inf state.Cost, poison bool) *VirtualHarness {
	t.Helper()
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	cfg := state.DefaultTopology()
	cfg.Name = "virtual"
	cfg.NumNodes = nodes
	cfg.Infinity = inf
	cfg.PoisonReverse = poison

	seen := make(map[state.Pair[state.NodeId, state.NodeId]]struct{})
	addLink := func(a, b state.NodeId) {
		l := state.LinkCfg{A: a, B: b, Cost: state.Cost(1 + rng.IntN(9))}
		if _, ok := seen[l.Endpoints()]; ok || a == b {
			return
		}
		seen[l.Endpoints()] = struct{}{}
		cfg.Links = append(cfg.Links, l)
	}
	for i := 1; i < nodes; i++ {
		addLink(state.NodeId(i), state.NodeId(rng.IntN(i)))
	}
	for range extra {
		addLink(state.NodeId(rng.IntN(nodes)), state.NodeId(rng.IntN(nodes)))
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m, err := core.NewMesh(cfg, logger)
	require.NoError(t, err)
	return &VirtualHarness{
		Cfg:  cfg,
		Mesh: m,
		Rand: rng,
	}
}

func (v *VirtualHarness) Start(t *testing.T) {
	t.Helper()
	require.NoError(t, v.Mesh.Start(context.Background()))
	v.Settle(t)
}

func (v *VirtualHarness) Stop() {
	v.Mesh.Stop()
}

func (v *VirtualHarness) Settle(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	require.NoError(t, v.Mesh.WaitIdle(ctx))
}

// ChangeLink changes an existing link, or creates one, in both the mesh and the expected topology
func (v *VirtualHarness) ChangeLink(t *testing.T, a, b state.NodeId, cost state.Cost) {
	t.Helper()
	require.NoError(t, v.Mesh.ChangeLink(a, b, cost))
	key := state.LinkCfg{A: a, B: b}.Endpoints()
	for i, l := range v.Cfg.Links {
		if l.Endpoints() == key {
			v.Cfg.Links[i].Cost = cost
			return
		}
	}
	v.Cfg.Links = append(v.Cfg.Links, state.LinkCfg{A: a, B: b, Cost: cost})
}

// RandomLink picks one of the configured links
func (v *VirtualHarness) RandomLink() state.LinkCfg {
	return v.Cfg.Links[v.Rand.IntN(len(v.Cfg.Links))]
}

// Expected computes every node's shortest path costs centrally
func (v *VirtualHarness) Expected() []state.CostVector {
	return core.ShortestPaths(v.Cfg)
}

func (v *VirtualHarness) AssertConverged(t *testing.T) {
	t.Helper()
	snaps, err := v.Mesh.Snapshots(context.Background())
	require.NoError(t, err)
	expected := v.Expected()
	for i, snap := range snaps {
		require.Equal(t, expected[i], snap.BestCosts, "node %d", i)
		for d, nh := range snap.Routes {
			if nh == state.Unreachable || nh == snap.Id {
				continue
			}
			// following the next hop must be consistent with the advertised cost
			require.Contains(t, snap.Neighbours, nh, "node %d: next hop to %d", i, d)
			require.Equal(t, expected[i][d], core.AddCost(v.Cfg.NetworkCfg, snap.LinkCosts[nh], expected[nh][d]), "node %d: next hop to %d", i, d)
		}
	}
}
