package state

// RoutingTable maps every identity to the last distance vector it advertised.
// Entries are indexed by NodeId, so iteration order is always ascending identity.
type RoutingTable struct {
	Vectors []CostVector
	known   []bool
}

func NewRoutingTable(net NetworkCfg) RoutingTable {
	t := RoutingTable{
		Vectors: make([]CostVector, net.NumNodes),
		known:   make([]bool, net.NumNodes),
	}
	for i := range t.Vectors {
		t.Vectors[i] = FillVector(net.NumNodes, net.Infinity)
	}
	return t
}

// Record replaces the stored vector for node wholesale
func (t *RoutingTable) Record(node NodeId, vec CostVector) {
	t.Vectors[node] = vec.Clone()
	t.known[node] = true
}

// MarkKnown adds node to the table without changing its vector
func (t *RoutingTable) MarkKnown(node NodeId) {
	t.known[node] = true
}

func (t *RoutingTable) IsKnown(node NodeId) bool {
	return t.known[node]
}

// Known returns the identities that have an entry in the table, in ascending order.
// Entries are never evicted.
func (t *RoutingTable) Known() []NodeId {
	ids := make([]NodeId, 0, len(t.known))
	for i, ok := range t.known {
		if ok {
			ids = append(ids, NodeId(i))
		}
	}
	return ids
}

func (t *RoutingTable) Get(node NodeId) CostVector {
	return t.Vectors[node]
}

// RouterState is the state owned by a single node.
// RouterState must only be accessed from the goroutine that owns the node.
type RouterState struct {
	Id  NodeId
	Net NetworkCfg
	// OrigCost is the locally configured link cost to every destination
	OrigCost CostVector
	// BestCost is the currently believed shortest cost to every destination
	BestCost CostVector
	// Route is the next hop for every destination
	Route []NodeId
	Table RoutingTable
}
