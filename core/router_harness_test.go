package core

import (
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/encodeous/dvnode/state"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const testInf = state.Cost(999)

type HarnessEvent struct {
	Message string
	Args    []any
}

func MakeEvent(msg string, args ...any) HarnessEvent {
	return HarnessEvent{
		Message: msg,
		Args:    args,
	}
}

// RouterHarness records every event a node reports
type RouterHarness struct {
	actions []HarnessEvent
}

func (h *RouterHarness) Log(event RouterEvent, desc string, args ...any) {
	h.actions = append(h.actions, MakeEvent(event.String(), append([]any{desc}, args...)...))
}

type HarnessEvents []HarnessEvent

func (h HarnessEvents) String() string {
	out := make([]string, 0)
	for _, action := range h {
		cur := action.Message
		for _, arg := range action.Args {
			cur += " " + fmt.Sprint(arg)
		}
		out = append(out, cur)
	}
	slices.Sort(out)
	return strings.Join(out, "\n")
}

func (h *RouterHarness) GetActions() HarnessEvents {
	x := h.actions
	h.actions = make([]HarnessEvent, 0)
	return x
}

func (e HarnessEvents) Count(msg string) int {
	cnt := 0
	for _, event := range e {
		if event.Message == msg {
			cnt++
		}
	}
	return cnt
}

func (e HarnessEvents) contains(msg string, args ...any) bool {
	for _, event := range e {
		if event.Message != msg || len(event.Args) < len(args) {
			continue
		}
		match := true
		for i, arg := range args {
			if !cmp.Equal(event.Args[i], arg) {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func (e HarnessEvents) AssertContains(t *testing.T, msg string, args ...any) {
	t.Helper()
	if e.contains(msg, args...) {
		return
	}
	t.Fatal("Expected event not found: ", msg, " with args: ", args, " in ", e)
}

func (e HarnessEvents) AssertNotContains(t *testing.T, msg string, args ...any) {
	t.Helper()
	if e.contains(msg, args...) {
		t.Fatal("Unexpected event found: ", msg, " with args: ", args, " in ", e)
	}
}

// Network delivers advertisements between in-process nodes in FIFO order, standing in for the simulator
type Network struct {
	Cfg       state.TopologyCfg
	Nodes     []*Node
	Harness   []*RouterHarness
	Queue     []state.Update
	Delivered int
}

func NewNetwork(t *testing.T, cfg state.TopologyCfg) *Network {
	t.Helper()
	require.NoError(t, state.TopologyValidator(&cfg))
	w := &Network{Cfg: cfg}
	for i := range cfg.NumNodes {
		h := &RouterHarness{}
		n, out, err := NewNode(cfg.NetworkCfg, state.NodeId(i), cfg.InitialCosts(state.NodeId(i)), h)
		require.NoError(t, err)
		w.Nodes = append(w.Nodes, n)
		w.Harness = append(w.Harness, h)
		w.Queue = append(w.Queue, out...)
	}
	return w
}

// Pump delivers queued packets until the queue is empty and returns how many were delivered
func (w *Network) Pump(t *testing.T) int {
	t.Helper()
	cnt := 0
	for len(w.Queue) > 0 {
		pkt := w.Queue[0]
		w.Queue = w.Queue[1:]
		out, err := w.Nodes[pkt.Dst].HandleUpdate(pkt)
		require.NoError(t, err)
		w.Queue = append(w.Queue, out...)
		cnt++
		require.Less(t, cnt, 1_000_000, "network did not converge")
	}
	w.Delivered += cnt
	return cnt
}

// ChangeLink notifies both endpoints of a link, as the simulator does
func (w *Network) ChangeLink(t *testing.T, a, b state.NodeId, cost state.Cost) {
	t.Helper()
	out, err := w.Nodes[a].HandleLinkChange(state.LinkChange{Dest: b, Cost: cost})
	require.NoError(t, err)
	w.Queue = append(w.Queue, out...)
	out, err = w.Nodes[b].HandleLinkChange(state.LinkChange{Dest: a, Cost: cost})
	require.NoError(t, err)
	w.Queue = append(w.Queue, out...)

	for i, l := range w.Cfg.Links {
		if l.Endpoints() == (state.LinkCfg{A: a, B: b}).Endpoints() {
			w.Cfg.Links[i].Cost = cost
			return
		}
	}
	w.Cfg.Links = append(w.Cfg.Links, state.LinkCfg{A: a, B: b, Cost: cost})
}

func (w *Network) AssertShortest(t *testing.T) {
	t.Helper()
	expected := ShortestPaths(w.Cfg)
	for i, n := range w.Nodes {
		if diff := cmp.Diff(expected[i], n.Snapshot().BestCosts); diff != "" {
			t.Fatalf("node %d costs mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func (w *Network) AssertConsistent(t *testing.T) {
	t.Helper()
	for _, n := range w.Nodes {
		AssertConsistent(t, n)
	}
}

func AssertConsistent(t *testing.T, n *Node) {
	t.Helper()
	snap := n.Snapshot()
	id := snap.Id
	require.Equal(t, state.Cost(0), snap.BestCosts[id], "node %d: cost to self", id)
	require.Equal(t, id, snap.Routes[id], "node %d: route to self", id)
	require.Equal(t, snap.LinkCosts, snap.Vector(id), "node %d: own table entry", id)
	for d := range snap.BestCosts {
		require.LessOrEqual(t, snap.BestCosts[d], snap.LinkCosts[d], "node %d: cost to %d exceeds direct link", id, d)
		nh := snap.Routes[d]
		if nh == state.Unreachable || nh == id {
			continue
		}
		require.Contains(t, snap.Neighbours, nh, "node %d: next hop to %d is not a neighbour", id, d)
	}
}

func MakeNetwork(nodes int, inf state.Cost, links ...state.LinkCfg) state.TopologyCfg {
	cfg := state.DefaultTopology()
	cfg.NumNodes = nodes
	cfg.Infinity = inf
	cfg.Links = links
	return cfg
}

func Link(a, b state.NodeId, cost state.Cost) state.LinkCfg {
	return state.LinkCfg{A: a, B: b, Cost: cost}
}
