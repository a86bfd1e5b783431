package state

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNameValidator_Valid(t *testing.T) {
	assert.NoError(t, NameValidator("triangle"))
	assert.NoError(t, NameValidator("ab_cd"))
	assert.NoError(t, NameValidator("net-1.lab"))
}

func TestNameValidator_Invalid(t *testing.T) {
	assert.Error(t, NameValidator("1A"))
	assert.Error(t, NameValidator("node name"))
	assert.Error(t, NameValidator("\t"))
	assert.Error(t, NameValidator(strings.Repeat("a", 200)))
}

func TestTopologyValidator_Triangle(t *testing.T) {
	cfg := TriangleTopology()
	assert.NoError(t, TopologyValidator(&cfg))
}

func TestTopologyValidator_BadNetwork(t *testing.T) {
	cfg := TriangleTopology()
	cfg.NumNodes = 0
	cfg.Infinity = -1
	err := TopologyValidator(&cfg)
	assert.ErrorContains(t, err, "nodes must be positive")
	assert.ErrorContains(t, err, "infinity must be positive")
}

func TestTopologyValidator_Links(t *testing.T) {
	cfg := DefaultTopology()
	cfg.Links = []LinkCfg{
		{A: 0, B: 1, Cost: 1},
		{A: 1, B: 0, Cost: 2},
		{A: 2, B: 2, Cost: 1},
		{A: 0, B: 7, Cost: 1},
		{A: 1, B: 2, Cost: -3},
	}
	err := TopologyValidator(&cfg)
	assert.ErrorContains(t, err, "duplicate link found: 1, 0")
	assert.ErrorIs(t, err, ErrInvalidDestination)
	assert.ErrorIs(t, err, ErrUnknownNode)
	assert.ErrorIs(t, err, ErrInvalidCost)
}

func TestTopologyValidator_Changes(t *testing.T) {
	cfg := TriangleTopology()
	cfg.Changes = append(cfg.Changes, LinkCfg{A: 0, B: 0, Cost: 1})
	err := TopologyValidator(&cfg)
	assert.ErrorIs(t, err, ErrInvalidDestination)
	assert.ErrorContains(t, err, "change:")
}

func TestVectorValidator(t *testing.T) {
	net := NetworkCfg{NumNodes: 3, Infinity: DefaultInfinity}
	assert.NoError(t, VectorValidator(net, CostVector{0, 1, DefaultInfinity}))
	assert.ErrorIs(t, VectorValidator(net, CostVector{0, 1}), ErrInvalidVectorLength)
	assert.ErrorIs(t, VectorValidator(net, CostVector{0, -1, 2}), ErrInvalidCost)
}
