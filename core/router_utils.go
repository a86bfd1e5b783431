package core

import (
	"github.com/encodeous/dvnode/state"
)

// AddCost adds two costs, saturating at Infinity
func AddCost(net state.NetworkCfg, a, b state.Cost) state.Cost {
	if a >= net.Infinity || b >= net.Infinity || a >= net.Infinity-b {
		return net.Infinity
	}
	return a + b
}

// Neighbours returns every node with a finite direct link cost, in ascending order
func Neighbours(s *state.RouterState) []state.NodeId {
	neighs := make([]state.NodeId, 0)
	for d, c := range s.OrigCost {
		id := state.NodeId(d)
		if id != s.Id && s.Net.Reachable(c) {
			neighs = append(neighs, id)
		}
	}
	return neighs
}

func IsNeighbour(s *state.RouterState, id state.NodeId) bool {
	return id != s.Id && s.Net.Contains(id) && s.Net.Reachable(s.OrigCost[id])
}

func clampVector(net state.NetworkCfg, vec state.CostVector) state.CostVector {
	out := make(state.CostVector, len(vec))
	for i, c := range vec {
		out[i] = net.Clamp(c)
	}
	return out
}
