package core

import (
	"fmt"
	"slices"

	"github.com/encodeous/dvnode/state"
)

// Node is a single participant in the distance vector protocol.
// A Node is not safe for concurrent use, every handler runs to completion before the next one starts.
type Node struct {
	s   *state.RouterState
	obs Observer
}

// NewNode creates a node and returns the initial advertisements to all of its neighbours.
// obs may be nil.
func NewNode(net state.NetworkCfg, id state.NodeId, initial state.CostVector, obs Observer) (*Node, []state.Update, error) {
	if obs == nil {
		obs = nopObserver{}
	}
	s, err := NewRouterState(net, id, initial)
	if err != nil {
		return nil, nil, err
	}
	n := &Node{
		s:   s,
		obs: obs,
	}
	return n, n.broadcast(), nil
}

func (n *Node) Id() state.NodeId {
	return n.s.Id
}

// HandleUpdate records the vector advertised by pkt.Src and recomputes routes.
// Advertisements are returned only if a route changed.
func (n *Node) HandleUpdate(pkt state.Update) ([]state.Update, error) {
	if err := n.checkUpdate(pkt); err != nil {
		n.obs.Log(InvalidUpdate, "dropped update", "pkt", pkt, "err", err)
		return nil, err
	}
	n.s.Table.Record(pkt.Src, clampVector(n.s.Net, pkt.Costs))
	if !Recompute(n.s, n.obs) {
		return nil, nil
	}
	return n.broadcast(), nil
}

func (n *Node) checkUpdate(pkt state.Update) error {
	if pkt.Dst != n.s.Id {
		return fmt.Errorf("%w: packet for %s delivered to %s", state.ErrMisroutedPacket, pkt.Dst, n.s.Id)
	}
	if !n.s.Net.Contains(pkt.Src) {
		return fmt.Errorf("%w: source %s is outside [0, %d)", state.ErrUnknownNode, pkt.Src, n.s.Net.NumNodes)
	}
	if pkt.Src == n.s.Id {
		return fmt.Errorf("%w: packet from %s to itself", state.ErrMisroutedPacket, pkt.Src)
	}
	return state.VectorValidator(n.s.Net, pkt.Costs)
}

// HandleLinkChange applies a new direct link cost and recomputes routes.
// Advertisements are broadcast if any cost or next hop differs from before the change.
// A node that just became a neighbour is sent the current vector even if nothing changed.
func (n *Node) HandleLinkChange(ch state.LinkChange) ([]state.Update, error) {
	wasNeighbour := IsNeighbour(n.s, ch.Dest)
	oldCost := n.s.BestCost.Clone()
	oldRoute := slices.Clone(n.s.Route)

	if err := SetLinkCost(n.s, ch.Dest, ch.Cost); err != nil {
		n.obs.Log(InvalidLinkChange, "dropped link change", "change", ch, "err", err)
		return nil, err
	}
	n.obs.Log(LinkCostChanged, "link cost changed", "dest", ch.Dest, "cost", n.s.OrigCost[ch.Dest])

	Recompute(n.s, n.obs)

	if !slices.Equal(oldCost, n.s.BestCost) || !slices.Equal(oldRoute, n.s.Route) {
		return n.broadcast(), nil
	}
	if !wasNeighbour && IsNeighbour(n.s, ch.Dest) {
		n.obs.Log(NeighbourAdded, "new neighbour", "neigh", ch.Dest)
		return []state.Update{n.advertise(ch.Dest)}, nil
	}
	return nil, nil
}

func (n *Node) advertise(neigh state.NodeId) state.Update {
	pkt := state.Update{
		Src:   n.s.Id,
		Dst:   neigh,
		Costs: Advertisement(n.s, neigh),
	}
	n.obs.Log(AdvertisementSent, "advertise", "pkt", pkt)
	return pkt
}

func (n *Node) broadcast() []state.Update {
	neighs := Neighbours(n.s)
	out := make([]state.Update, 0, len(neighs))
	for _, neigh := range neighs {
		out = append(out, n.advertise(neigh))
	}
	return out
}
