package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"runtime"
	"sync"
	"time"

	"github.com/encodeous/dvnode/perf"
	"github.com/encodeous/dvnode/state"
	"github.com/jellydator/ttlcache/v3"
)

var ErrMailboxClosed = errors.New("mailbox closed")

// Mailbox is an unbounded FIFO of work for a single node.
// Packets sent over one link are therefore always handled in order.
type Mailbox struct {
	mu     sync.Mutex
	queue  []func(*Node) error
	notify chan struct{}
	closed bool
}

func NewMailbox() *Mailbox {
	return &Mailbox{
		notify: make(chan struct{}, 1),
	}
}

// Dispatch queues fun to run on the node's goroutine without waiting for it to complete
func (m *Mailbox) Dispatch(fun func(*Node) error) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrMailboxClosed
	}
	m.queue = append(m.queue, fun)
	m.mu.Unlock()
	select {
	case m.notify <- struct{}{}:
	default:
	}
	return nil
}

// DispatchWait queues fun and waits for its result
func (m *Mailbox) DispatchWait(ctx context.Context, fun func(*Node) (any, error)) (any, error) {
	ret := make(chan state.Pair[any, error], 1)
	err := m.Dispatch(func(n *Node) error {
		res, err := fun(n)
		ret <- state.Pair[any, error]{V1: res, V2: err}
		return nil
	})
	if err != nil {
		return nil, err
	}
	select {
	case res := <-ret:
		return res.V1, res.V2
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (m *Mailbox) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

func (m *Mailbox) Close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	select {
	case m.notify <- struct{}{}:
	default:
	}
}

// next blocks until work is available. ok is false once the mailbox is closed and drained, or ctx is done.
func (m *Mailbox) next(ctx context.Context) (fun func(*Node) error, ok bool) {
	for {
		m.mu.Lock()
		if len(m.queue) > 0 {
			fun = m.queue[0]
			m.queue[0] = nil
			m.queue = m.queue[1:]
			m.mu.Unlock()
			return fun, true
		}
		closed := m.closed
		m.mu.Unlock()
		if closed {
			return nil, false
		}
		select {
		case <-m.notify:
		case <-ctx.Done():
			return nil, false
		}
	}
}

// NodeRouter runs a Node as an actor, it owns the node and is the only goroutine touching it
type NodeRouter struct {
	Id      state.NodeId
	Mailbox *Mailbox
	log     *slog.Logger
	node    *Node
	// rejects remembers which sources recently had input dropped, so repeats are logged quietly
	rejects *ttlcache.Cache[state.NodeId, int]
}

func NewNodeRouter(id state.NodeId, log *slog.Logger) *NodeRouter {
	return &NodeRouter{
		Id:      id,
		Mailbox: NewMailbox(),
		log:     log.With("node", id),
		rejects: ttlcache.New[state.NodeId, int](
			ttlcache.WithTTL[state.NodeId, int](state.RejectLogTTL),
			ttlcache.WithDisableTouchOnHit[state.NodeId, int](),
		),
	}
}

func (r *NodeRouter) Log(event RouterEvent, desc string, args ...any) {
	r.log.Debug(fmt.Sprintf("%s %s", event.String(), desc), args...)
}

// Init constructs the node and returns its initial advertisements
func (r *NodeRouter) Init(net state.NetworkCfg, initial state.CostVector) ([]state.Update, error) {
	n, out, err := NewNode(net, r.Id, initial, r)
	if err != nil {
		return nil, err
	}
	r.node = n
	return out, nil
}

// Reject drops input from src with a diagnostic. Repeated rejections within RejectLogTTL are logged at debug level.
func (r *NodeRouter) Reject(src state.NodeId, what string, err error) {
	perf.RejectsPerSecond.Add(1)
	cnt := 1
	if item := r.rejects.Get(src); item != nil {
		cnt = item.Value() + 1
		r.log.Debug("dropped "+what, "src", src, "err", err, "count", cnt)
	} else {
		r.log.Warn("dropped "+what, "src", src, "err", err)
	}
	r.rejects.Set(src, cnt, ttlcache.DefaultTTL)
}

// MainLoop runs dispatched work until the mailbox is closed or ctx is done
func (r *NodeRouter) MainLoop(ctx context.Context) {
	r.log.Debug("started main loop")
	for {
		fun, ok := r.Mailbox.next(ctx)
		if !ok {
			break
		}
		start := time.Now()
		err := fun(r.node)
		if err != nil {
			r.log.Error("error occurred during dispatch", "error", err)
		}
		elapsed := time.Since(start)
		perf.DispatchLatency.Add(float64(elapsed.Microseconds()))
		depth := r.Mailbox.Len()
		perf.MailboxDepth.Add(float64(depth))
		if elapsed > state.SlowDispatchThreshold {
			r.log.Warn("dispatch took a long time!", "fun", runtime.FuncForPC(reflect.ValueOf(fun).Pointer()).Name(), "elapsed", elapsed, "len", depth)
		}
		if depth >= state.MailboxWarnDepth {
			r.log.Warn("mailbox is backing up", "len", depth)
		}
	}
	r.rejects.DeleteAll()
	r.log.Debug("stopped main loop")
}
