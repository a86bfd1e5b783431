package core

import (
	"github.com/encodeous/dvnode/state"
)

// ShortestPaths computes the all pairs shortest path costs of cfg centrally.
// A converged network must agree with it at every node.
func ShortestPaths(cfg state.TopologyCfg) []state.CostVector {
	dist := make([]state.CostVector, cfg.NumNodes)
	for i := range dist {
		dist[i] = cfg.InitialCosts(state.NodeId(i))
	}
	for k := range cfg.NumNodes {
		for i := range cfg.NumNodes {
			for j := range cfg.NumNodes {
				via := AddCost(cfg.NetworkCfg, dist[i][k], dist[k][j])
				if via < dist[i][j] {
					dist[i][j] = via
				}
			}
		}
	}
	return dist
}
