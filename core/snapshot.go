package core

import (
	"fmt"
	"slices"
	"strings"

	"github.com/encodeous/dvnode/state"
)

type VectorEntry struct {
	Node  state.NodeId
	Costs state.CostVector
}

// Snapshot is a read-only copy of a node's routing state
type Snapshot struct {
	Id         state.NodeId
	Infinity   state.Cost
	Neighbours []state.NodeId
	// KnownVectors holds every routing table entry in ascending identity order, including our own
	KnownVectors []VectorEntry
	LinkCosts    state.CostVector
	BestCosts    state.CostVector
	Routes       []state.NodeId
}

func (n *Node) Snapshot() Snapshot {
	snap := Snapshot{
		Id:         n.s.Id,
		Infinity:   n.s.Net.Infinity,
		Neighbours: Neighbours(n.s),
		LinkCosts:  n.s.OrigCost.Clone(),
		BestCosts:  n.s.BestCost.Clone(),
		Routes:     slices.Clone(n.s.Route),
	}
	for _, id := range n.s.Table.Known() {
		snap.KnownVectors = append(snap.KnownVectors, VectorEntry{
			Node:  id,
			Costs: n.s.Table.Get(id).Clone(),
		})
	}
	return snap
}

// Vector returns the last vector advertised by node, or nil if the node is not in the table
func (s Snapshot) Vector(node state.NodeId) state.CostVector {
	idx := slices.IndexFunc(s.KnownVectors, func(e VectorEntry) bool {
		return e.Node == node
	})
	if idx == -1 {
		return nil
	}
	return s.KnownVectors[idx].Costs
}

func (s Snapshot) header() string {
	line := "    dst  |"
	for i := range s.BestCosts {
		line += fmt.Sprintf("%5d", i)
	}
	return line
}

// String renders the neighbour vectors followed by our own costs and routes
func (s Snapshot) String() string {
	sb := strings.Builder{}
	header := s.header()
	separator := strings.Repeat("-", len(header))

	sb.WriteString(fmt.Sprintf("Distance table for %s\n", s.Id))
	sb.WriteString(header + "\n")
	sb.WriteString(separator + "\n")
	for _, neigh := range s.Neighbours {
		sb.WriteString(fmt.Sprintf(" nbr %3d |", neigh))
		for _, c := range s.Vector(neigh) {
			sb.WriteString(s.cell(c))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\nOur distance vector and routes:\n")
	sb.WriteString(header + "\n")
	sb.WriteString(separator + "\n")
	sb.WriteString(" cost    |")
	for _, c := range s.BestCosts {
		sb.WriteString(s.cell(c))
	}
	sb.WriteString("\n route   |")
	for _, nh := range s.Routes {
		sb.WriteString(fmt.Sprintf("%5s", nh))
	}
	sb.WriteString("\n")
	return sb.String()
}

func (s Snapshot) cell(c state.Cost) string {
	if c >= s.Infinity {
		return fmt.Sprintf("%5s", "inf")
	}
	return fmt.Sprintf("%5d", int64(c))
}
