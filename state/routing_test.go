package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoutingTable(t *testing.T) {
	net := NetworkCfg{NumNodes: 4, Infinity: 16}
	tbl := NewRoutingTable(net)
	assert.Empty(t, tbl.Known())
	assert.Equal(t, CostVector{16, 16, 16, 16}, tbl.Get(2))

	tbl.Record(2, CostVector{3, 1, 0, 16})
	tbl.MarkKnown(0)
	assert.Equal(t, []NodeId{0, 2}, tbl.Known())
	assert.True(t, tbl.IsKnown(2))
	assert.False(t, tbl.IsKnown(1))

	// vectors are replaced, never merged
	tbl.Record(2, CostVector{16, 16, 0, 16})
	assert.Equal(t, CostVector{16, 16, 0, 16}, tbl.Get(2))
}

func TestRoutingTable_RecordCopies(t *testing.T) {
	net := NetworkCfg{NumNodes: 2, Infinity: 16}
	tbl := NewRoutingTable(net)
	vec := CostVector{0, 1}
	tbl.Record(0, vec)
	vec[1] = 5
	assert.Equal(t, CostVector{0, 1}, tbl.Get(0))
}

func TestNetworkCfg(t *testing.T) {
	net := NetworkCfg{NumNodes: 3, Infinity: 16}
	assert.True(t, net.Contains(0))
	assert.True(t, net.Contains(2))
	assert.False(t, net.Contains(3))
	assert.False(t, net.Contains(Unreachable))
	assert.Equal(t, Cost(16), net.Clamp(40))
	assert.Equal(t, Cost(15), net.Clamp(15))
	assert.False(t, net.Reachable(16))
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "-", Unreachable.String())
	assert.Equal(t, "(src: 0, dst: 1, costs: [0 1 999])", Update{Src: 0, Dst: 1, Costs: CostVector{0, 1, 999}}.String())
	assert.Equal(t, "(dest: 2, cost: 10)", LinkChange{Dest: 2, Cost: 10}.String())
}
