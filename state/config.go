package state

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// LinkCfg is an undirected link between A and B
type LinkCfg struct {
	A    NodeId `yaml:"a"`
	B    NodeId `yaml:"b"`
	Cost Cost   `yaml:"cost"`
}

func (l LinkCfg) Endpoints() Pair[NodeId, NodeId] {
	if l.A > l.B {
		return Pair[NodeId, NodeId]{l.B, l.A}
	}
	return Pair[NodeId, NodeId]{l.A, l.B}
}

// TopologyCfg describes a whole network: its constants, initial links and the link changes to replay
type TopologyCfg struct {
	Name       string `yaml:"name,omitempty"`
	NetworkCfg `yaml:",inline"`
	Links      []LinkCfg `yaml:"links"`
	// Changes are applied one at a time, each after the network has settled
	Changes []LinkCfg `yaml:"changes,omitempty"`
}

func DefaultTopology() TopologyCfg {
	return TopologyCfg{
		Name: "dvnode",
		NetworkCfg: NetworkCfg{
			NumNodes:      DefaultNumNodes,
			Infinity:      DefaultInfinity,
			PoisonReverse: true,
		},
	}
}

// TriangleTopology is the three node network 0-1 (1), 1-2 (1), 0-2 (4), with 0-1 later raised to 10
func TriangleTopology() TopologyCfg {
	cfg := DefaultTopology()
	cfg.Name = "triangle"
	cfg.Links = []LinkCfg{
		{A: 0, B: 1, Cost: 1},
		{A: 1, B: 2, Cost: 1},
		{A: 0, B: 2, Cost: 4},
	}
	cfg.Changes = []LinkCfg{
		{A: 0, B: 1, Cost: 10},
	}
	return cfg
}

// InitialCosts builds the construction vector for node id: 0 for itself, the link cost for neighbours, Infinity otherwise.
func (c *TopologyCfg) InitialCosts(id NodeId) CostVector {
	costs := FillVector(c.NumNodes, c.Infinity)
	costs[id] = 0
	for _, l := range c.Links {
		if l.A == id {
			costs[l.B] = c.Clamp(l.Cost)
		} else if l.B == id {
			costs[l.A] = c.Clamp(l.Cost)
		}
	}
	return costs
}

func ParseTopology(data []byte) (*TopologyCfg, error) {
	cfg := DefaultTopology()
	err := yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func LoadTopology(path string) (*TopologyCfg, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := ParseTopology(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	err = TopologyValidator(cfg)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func WriteTopology(path string, cfg *TopologyCfg) error {
	bytes, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, bytes, 0600)
}
