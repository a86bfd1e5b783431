package state

import "errors"

var (
	ErrInvalidVectorLength = errors.New("invalid vector length")
	ErrMisroutedPacket     = errors.New("misrouted packet")
	ErrInvalidDestination  = errors.New("invalid destination")
	ErrInvalidCost         = errors.New("invalid cost")
	ErrUnknownNode         = errors.New("unknown node")
)

// NetworkCfg holds the network wide constants. It is fixed for the lifetime of the network.
type NetworkCfg struct {
	NumNodes int `yaml:"nodes"`
	// Infinity is the unreachable sentinel, it must be larger than the cost of any real path
	Infinity      Cost `yaml:"infinity"`
	PoisonReverse bool `yaml:"poison_reverse"`
}

func (n NetworkCfg) Contains(id NodeId) bool {
	return id >= 0 && int(id) < n.NumNodes
}

// Clamp maps every cost at or above Infinity to Infinity
func (n NetworkCfg) Clamp(c Cost) Cost {
	if c >= n.Infinity {
		return n.Infinity
	}
	return c
}

func (n NetworkCfg) Reachable(c Cost) bool {
	return c < n.Infinity
}
