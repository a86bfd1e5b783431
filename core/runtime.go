package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/pprof"
	"sync"
	"sync/atomic"

	"github.com/encodeous/dvnode/perf"
	"github.com/encodeous/dvnode/state"
)

// Mesh is an in-memory network. Every node runs as its own actor, packets are
// handed to the destination's mailbox and link changes are reported to both ends.
type Mesh struct {
	Cfg     state.TopologyCfg
	Log     *slog.Logger
	Context context.Context
	Cancel  context.CancelCauseFunc

	routers []*NodeRouter
	// pending counts dispatched work that has not completed yet
	pending atomic.Int64
	idle    chan struct{}
	wg      sync.WaitGroup
	started atomic.Bool
	stopped atomic.Bool
}

func NewMesh(cfg state.TopologyCfg, log *slog.Logger) (*Mesh, error) {
	err := state.TopologyValidator(&cfg)
	if err != nil {
		return nil, err
	}
	m := &Mesh{
		Cfg:  cfg,
		Log:  log,
		idle: make(chan struct{}, 1),
	}
	for i := range cfg.NumNodes {
		m.routers = append(m.routers, NewNodeRouter(state.NodeId(i), log))
	}
	return m, nil
}

// Start constructs every node, starts its actor and sends the initial advertisements
func (m *Mesh) Start(ctx context.Context) error {
	if m.started.Swap(true) {
		return errors.New("mesh already started")
	}
	m.Context, m.Cancel = context.WithCancelCause(ctx)

	initial := make([]state.Update, 0)
	for _, r := range m.routers {
		out, err := r.Init(m.Cfg.NetworkCfg, m.Cfg.InitialCosts(r.Id))
		if err != nil {
			err = fmt.Errorf("failed to init node %s: %w", r.Id, err)
			m.Cancel(err)
			return err
		}
		initial = append(initial, out...)
	}
	for _, r := range m.routers {
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			labels := pprof.Labels("dvnode node", r.Id.String())
			pprof.Do(m.Context, labels, func(ctx context.Context) {
				r.MainLoop(ctx)
			})
		}()
	}
	m.Log.Info("mesh started", "nodes", m.Cfg.NumNodes, "links", len(m.Cfg.Links), "poison_reverse", m.Cfg.PoisonReverse)
	m.send(initial...)
	return nil
}

func (m *Mesh) done() {
	if m.pending.Add(-1) == 0 {
		select {
		case m.idle <- struct{}{}:
		default:
		}
	}
}

func (m *Mesh) dispatch(r *NodeRouter, fun func(*Node) error) {
	m.pending.Add(1)
	err := r.Mailbox.Dispatch(func(n *Node) error {
		defer m.done()
		return fun(n)
	})
	if err != nil {
		m.done()
	}
}

func (m *Mesh) send(pkts ...state.Update) {
	for _, pkt := range pkts {
		perf.AdvertisementsPerSecond.Add(1)
		if !m.Cfg.Contains(pkt.Dst) {
			m.Log.Warn("dropped packet to unknown node", "pkt", pkt)
			continue
		}
		r := m.routers[pkt.Dst]
		m.dispatch(r, func(n *Node) error {
			perf.UpdatesPerSecond.Add(1)
			out, err := n.HandleUpdate(pkt)
			if err != nil {
				r.Reject(pkt.Src, "update", err)
				return nil
			}
			m.send(out...)
			return nil
		})
	}
}

// Deliver injects a packet as if it arrived over the link from pkt.Src
func (m *Mesh) Deliver(pkt state.Update) {
	m.send(pkt)
}

// ChangeLink sets the cost of link a-b and notifies both ends
func (m *Mesh) ChangeLink(a, b state.NodeId, cost state.Cost) error {
	link := state.LinkCfg{A: a, B: b, Cost: cost}
	err := state.LinkValidator(m.Cfg.NetworkCfg, link)
	if err != nil {
		return err
	}
	m.Log.Info("link cost changed", "a", a, "b", b, "cost", cost)
	for _, end := range []state.Pair[state.NodeId, state.NodeId]{{V1: a, V2: b}, {V1: b, V2: a}} {
		r := m.routers[end.V1]
		ch := state.LinkChange{Dest: end.V2, Cost: cost}
		m.dispatch(r, func(n *Node) error {
			perf.LinkChangesPerSecond.Add(1)
			out, err := n.HandleLinkChange(ch)
			if err != nil {
				r.Reject(end.V2, "link change", err)
				return nil
			}
			m.send(out...)
			return nil
		})
	}
	return nil
}

// WaitIdle blocks until no work is queued or running on any node, that is, the network has converged
func (m *Mesh) WaitIdle(ctx context.Context) error {
	for {
		if m.pending.Load() == 0 {
			return nil
		}
		select {
		case <-m.idle:
		case <-ctx.Done():
			return fmt.Errorf("network did not settle, %d pending: %w", m.pending.Load(), ctx.Err())
		}
	}
}

func (m *Mesh) Snapshot(ctx context.Context, id state.NodeId) (Snapshot, error) {
	if !m.Cfg.Contains(id) {
		return Snapshot{}, fmt.Errorf("%w: %s is outside [0, %d)", state.ErrUnknownNode, id, m.Cfg.NumNodes)
	}
	res, err := m.routers[id].Mailbox.DispatchWait(ctx, func(n *Node) (any, error) {
		return n.Snapshot(), nil
	})
	if err != nil {
		return Snapshot{}, err
	}
	return res.(Snapshot), nil
}

func (m *Mesh) Snapshots(ctx context.Context) ([]Snapshot, error) {
	snaps := make([]Snapshot, 0, len(m.routers))
	for _, r := range m.routers {
		snap, err := m.Snapshot(ctx, r.Id)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	return snaps, nil
}

// Stop closes every mailbox and waits for the actors to exit
func (m *Mesh) Stop() {
	if m.stopped.Swap(true) {
		return // don't stop twice
	}
	for _, r := range m.routers {
		r.Mailbox.Close()
	}
	if m.Cancel != nil {
		m.Cancel(context.Canceled)
	}
	m.wg.Wait()
	m.Log.Info("mesh stopped")
}
