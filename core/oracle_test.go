package core

import (
	"testing"

	"github.com/encodeous/dvnode/state"
	"github.com/stretchr/testify/assert"
)

func TestShortestPaths_Triangle(t *testing.T) {
	cfg := state.TriangleTopology()
	assert.Equal(t, []state.CostVector{
		{0, 1, 2},
		{1, 0, 1},
		{2, 1, 0},
	}, ShortestPaths(cfg))

	cfg.Links[0].Cost = 10
	assert.Equal(t, []state.CostVector{
		{0, 5, 4},
		{5, 0, 1},
		{4, 1, 0},
	}, ShortestPaths(cfg))
}

func TestShortestPaths_Partitioned(t *testing.T) {
	cfg := MakeNetwork(3, testInf, Link(0, 1, 3))
	assert.Equal(t, []state.CostVector{
		{0, 3, testInf},
		{3, 0, testInf},
		{testInf, testInf, 0},
	}, ShortestPaths(cfg))
}
