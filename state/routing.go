package state

import (
	"fmt"
	"slices"
	"strings"
)

// NodeId identifies a node, it is an index in [0, NumNodes)
type NodeId int

// Unreachable is the route marker for a destination without any known path.
const Unreachable NodeId = -1

func (n NodeId) String() string {
	if n == Unreachable {
		return "-"
	}
	return fmt.Sprintf("%d", int(n))
}

// Cost is a link or path cost. Any value at or above NetworkCfg.Infinity means unreachable.
type Cost int64

// CostVector holds one cost per destination, indexed by NodeId
type CostVector []Cost

func FillVector(n int, c Cost) CostVector {
	v := make(CostVector, n)
	for i := range v {
		v[i] = c
	}
	return v
}

func (v CostVector) Clone() CostVector {
	return slices.Clone(v)
}

func (v CostVector) String() string {
	sb := strings.Builder{}
	sb.WriteString("[")
	for i, c := range v {
		if i != 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(fmt.Sprintf("%d", int64(c)))
	}
	sb.WriteString("]")
	return sb.String()
}

// Update is a distance vector advertisement sent over a single link
type Update struct {
	Src   NodeId
	Dst   NodeId
	Costs CostVector
}

func (u Update) String() string {
	return fmt.Sprintf("(src: %s, dst: %s, costs: %s)", u.Src, u.Dst, u.Costs)
}

// LinkChange notifies a node that its direct link cost to Dest is now Cost
type LinkChange struct {
	Dest NodeId
	Cost Cost
}

func (l LinkChange) String() string {
	return fmt.Sprintf("(dest: %s, cost: %d)", l.Dest, int64(l.Cost))
}
