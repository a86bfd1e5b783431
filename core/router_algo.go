package core

// Distributed Bellman-Ford with poison reverse.
//
// Poison reverse only hides routes from the neighbour they go through, so it
// breaks two node loops. Longer cycles can still count to infinity after a
// failure; they converge once the estimates reach Infinity.

import (
	"fmt"

	"github.com/encodeous/dvnode/state"
)

type RouterEvent int

// trace events

const (
	RouteChanged RouterEvent = iota
	LinkCostChanged
	NeighbourAdded
	AdvertisementSent
)

// warn events

const (
	InvalidUpdate RouterEvent = iota + 1000
	InvalidLinkChange
)

func (e RouterEvent) String() string {
	switch e {
	case RouteChanged:
		return "RouteChanged"
	case LinkCostChanged:
		return "LinkCostChanged"
	case NeighbourAdded:
		return "NeighbourAdded"
	case AdvertisementSent:
		return "AdvertisementSent"
	case InvalidUpdate:
		return "InvalidUpdate"
	case InvalidLinkChange:
		return "InvalidLinkChange"
	}
	return fmt.Sprintf("RouterEvent(%d)", int(e))
}

// Observer receives the events the router produces while handling input
type Observer interface {
	Log(event RouterEvent, desc string, args ...any)
}

type nopObserver struct{}

func (nopObserver) Log(RouterEvent, string, ...any) {}

// NewRouterState builds the cost model, neighbour set and routing table of node id from its initial link costs.
func NewRouterState(net state.NetworkCfg, id state.NodeId, initial state.CostVector) (*state.RouterState, error) {
	if !net.Contains(id) {
		return nil, fmt.Errorf("%w: %s is outside [0, %d)", state.ErrUnknownNode, id, net.NumNodes)
	}
	if err := state.VectorValidator(net, initial); err != nil {
		return nil, err
	}
	if initial[id] != 0 {
		return nil, fmt.Errorf("%w: cost to self must be 0, got %d", state.ErrInvalidCost, initial[id])
	}
	s := &state.RouterState{
		Id:       id,
		Net:      net,
		OrigCost: clampVector(net, initial),
		Route:    make([]state.NodeId, net.NumNodes),
		Table:    state.NewRoutingTable(net),
	}
	s.BestCost = s.OrigCost.Clone()
	for d, c := range s.OrigCost {
		if net.Reachable(c) {
			s.Route[d] = state.NodeId(d)
		} else {
			s.Route[d] = state.Unreachable
		}
	}
	s.Table.Record(id, s.OrigCost)
	for _, neigh := range Neighbours(s) {
		s.Table.MarkKnown(neigh)
	}
	return s, nil
}

// SetLinkCost replaces the direct cost to dest and resets its route to the direct link.
// Callers must follow with Recompute.
func SetLinkCost(s *state.RouterState, dest state.NodeId, cost state.Cost) error {
	if !s.Net.Contains(dest) {
		return fmt.Errorf("%w: %s is outside [0, %d)", state.ErrUnknownNode, dest, s.Net.NumNodes)
	}
	if dest == s.Id {
		return fmt.Errorf("%w: node %s cannot link to itself", state.ErrInvalidDestination, dest)
	}
	if cost < 0 {
		return fmt.Errorf("%w: link cost to %s is %d", state.ErrInvalidCost, dest, cost)
	}
	cost = s.Net.Clamp(cost)
	s.OrigCost[dest] = cost
	s.BestCost[dest] = cost
	if s.Net.Reachable(cost) {
		s.Route[dest] = dest
		s.Table.MarkKnown(dest)
	} else {
		s.Route[dest] = state.Unreachable
	}
	// our own entry always mirrors the configured link costs
	s.Table.Record(s.Id, s.OrigCost)
	return nil
}

// Recompute runs one relaxation over every destination and reports whether any cost or next hop changed.
func Recompute(s *state.RouterState, obs Observer) bool {
	changed := false
	known := s.Table.Known()

	for d := range s.BestCost {
		dest := state.NodeId(d)
		if dest == s.Id {
			s.BestCost[d] = 0
			s.Route[d] = s.Id
			continue
		}

		best := s.Net.Infinity
		nh := state.Unreachable

		// Cost(A, D) = min over B of Cost(A, B) + Cost(B, D), the first B scanned wins ties
		for _, neigh := range known {
			cost := AddCost(s.Net, s.Table.Get(neigh)[d], s.OrigCost[neigh])
			if cost < best {
				best = cost
				nh = neigh
			}
		}

		// the direct link wins ties against any indirect path
		if s.OrigCost[d] <= best {
			best = s.OrigCost[d]
			nh = dest
		}

		if !s.Net.Reachable(best) {
			best = s.Net.Infinity
			nh = state.Unreachable
		}

		if best != s.BestCost[d] || nh != s.Route[d] {
			obs.Log(RouteChanged, "route changed", "dest", dest,
				"old_cost", s.BestCost[d], "old_nh", s.Route[d],
				"cost", best, "nh", nh)
			s.BestCost[d] = best
			s.Route[d] = nh
			changed = true
		}
	}
	return changed
}

// Advertisement builds the vector sent to neigh. With poison reverse, every destination
// routed through neigh is reported as Infinity.
func Advertisement(s *state.RouterState, neigh state.NodeId) state.CostVector {
	vec := s.BestCost.Clone()
	if !s.Net.PoisonReverse {
		return vec
	}
	for d, nh := range s.Route {
		if nh == neigh {
			vec[d] = s.Net.Infinity
		}
	}
	return vec
}
