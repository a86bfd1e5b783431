package state

import "time"

const (
	// DefaultInfinity matches the sentinel used by classic distance vector simulators
	DefaultInfinity = Cost(999)
	DefaultNumNodes = 3
)

var (
	DefaultTopologyPath = "topology.yaml"

	// MailboxWarnDepth is the queue length at which a node's mailbox logs a warning
	MailboxWarnDepth = 1024
	// SlowDispatchThreshold is the handler duration after which the dispatch loop complains
	SlowDispatchThreshold = time.Millisecond * 4
	// RejectLogTTL is the window in which repeated rejections from one source are logged at debug level
	RejectLogTTL = time.Second * 5
	// SettleTimeout bounds how long the CLI waits for the network to converge
	SettleTimeout = time.Second * 30
)
